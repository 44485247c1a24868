package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/openapi"
	"github.com/goliatone/go-formkit/pkg/renderers/tui"
	"github.com/goliatone/go-formkit/pkg/renderers/vanilla"
)

func main() {
	source := flag.String("source", "", "form descriptor (.yaml/.json) or OpenAPI document path")
	opID := flag.String("operation", "", "operation ID when the source is an OpenAPI document")
	mode := flag.String("mode", "render", "render | fill | operations")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	if strings.TrimSpace(*source) == "" {
		log.Fatal("missing -source")
	}

	raw, err := os.ReadFile(*source)
	if err != nil {
		log.Fatalf("read source: %v", err)
	}

	if *mode == "operations" {
		listOperations(ctx, raw)
		return
	}

	frm, err := buildForm(ctx, *source, raw, *opID)
	if err != nil {
		log.Fatalf("build form: %v", err)
	}

	switch *mode {
	case "render":
		renderForm(ctx, frm, *output)
	case "fill":
		fillForm(ctx, frm)
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

func buildForm(ctx context.Context, path string, raw []byte, opID string) (*form.Form, error) {
	if opID != "" {
		adapter, err := openapi.Load(ctx, raw)
		if err != nil {
			return nil, err
		}
		desc, err := adapter.Descriptor(opID)
		if err != nil {
			return nil, err
		}
		return form.NewLoader(nil).Build(desc)
	}

	loader := form.NewLoader(nil)
	if strings.HasSuffix(path, ".json") {
		return loader.LoadJSON(raw)
	}
	return loader.LoadYAML(raw)
}

func listOperations(ctx context.Context, raw []byte) {
	adapter, err := openapi.Load(ctx, raw)
	if err != nil {
		log.Fatalf("load document: %v", err)
	}
	for _, id := range adapter.OperationIDs() {
		fmt.Println(id)
	}
}

func renderForm(ctx context.Context, frm *form.Form, output string) {
	renderer, err := vanilla.New()
	if err != nil {
		log.Fatalf("renderer: %v", err)
	}

	html, err := renderer.Render(ctx, frm)
	if err != nil {
		log.Fatalf("render form: %v", err)
	}

	if output != "" {
		if err := os.WriteFile(output, html, 0o644); err != nil {
			log.Fatalf("write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", output)
		return
	}
	fmt.Println(string(html))
}

func fillForm(ctx context.Context, frm *form.Form) {
	filler := tui.New()
	if err := filler.Fill(ctx, frm); err != nil {
		if errors.Is(err, tui.ErrAborted) {
			fmt.Println("aborted")
			os.Exit(1)
		}
		log.Fatalf("fill form: %v", err)
	}

	result := frm.Validate(ctx)
	if !result.Valid() {
		names := make([]string, 0, len(result.FieldErrors))
		for name := range result.FieldErrors {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(os.Stderr, "%s: %s\n", name, result.FieldErrors[name])
		}
		for _, msg := range result.FormErrors {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}

	printValues(frm)
}

func printValues(frm *form.Form) {
	for _, name := range frm.FieldNames() {
		fld := frm.Field(name)
		if fld.Hidden() {
			continue
		}
		fmt.Printf("%s: %v\n", name, fld.Value())
	}
}
