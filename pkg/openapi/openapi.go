// Package openapi derives form descriptors from OpenAPI operations: the
// request body schema's properties become field descriptors, the operation's
// method and path become the submit endpoint.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formkit/pkg/fields"
	"github.com/goliatone/go-formkit/pkg/form"
)

// Adapter converts operations of one OpenAPI document.
type Adapter struct {
	spec *openapi3.T
}

// Load parses and validates an OpenAPI document from raw JSON or YAML.
func Load(ctx context.Context, raw []byte) (*Adapter, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: true}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	return &Adapter{spec: spec}, nil
}

// OperationIDs lists the document's operation ids. Operations without an
// explicit id get "method:path".
func (a *Adapter) OperationIDs() []string {
	var ids []string
	a.eachOperation(func(id, _, _ string, _ *openapi3.Operation) {
		ids = append(ids, id)
	})
	sort.Strings(ids)
	return ids
}

func (a *Adapter) eachOperation(fn func(id, method, path string, op *openapi3.Operation)) {
	if a.spec == nil || a.spec.Paths == nil {
		return
	}
	for path, item := range a.spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			fn(id, method, path, op)
		}
	}
}

// Descriptor derives a form descriptor from the named operation's request
// body schema.
func (a *Adapter) Descriptor(operationID string) (*form.Descriptor, error) {
	var (
		found  *openapi3.Operation
		method string
		path   string
	)
	a.eachOperation(func(id, m, p string, op *openapi3.Operation) {
		if id == operationID {
			found, method, path = op, m, p
		}
	})
	if found == nil {
		return nil, fmt.Errorf("openapi: unknown operation %q", operationID)
	}

	desc := &form.Descriptor{
		Name:     operationID,
		Endpoint: path,
		Method:   method,
	}

	schema := requestSchema(found)
	if schema == nil {
		return desc, nil
	}
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		descs, err := fieldsFromProperty(name, schema.Properties[name], required[name])
		if err != nil {
			return nil, fmt.Errorf("openapi: operation %q: %w", operationID, err)
		}
		desc.Fields = append(desc.Fields, descs...)
	}
	return desc, nil
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

// fieldsFromProperty maps one schema property to field descriptors. Nested
// objects flatten into bracket-path names.
func fieldsFromProperty(name string, ref *openapi3.SchemaRef, required bool) ([]fields.Descriptor, error) {
	if ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("property %q has no schema", name)
	}
	src := ref.Value

	if typeIs(src, "object") {
		childRequired := make(map[string]bool, len(src.Required))
		for _, rn := range src.Required {
			childRequired[rn] = true
		}
		childNames := make([]string, 0, len(src.Properties))
		for cn := range src.Properties {
			childNames = append(childNames, cn)
		}
		sort.Strings(childNames)

		var out []fields.Descriptor
		for _, cn := range childNames {
			nested, err := fieldsFromProperty(fmt.Sprintf("%s[%s]", name, cn), src.Properties[cn], childRequired[cn])
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		}
		return out, nil
	}

	fd := fields.Descriptor{
		Name:     name,
		Label:    src.Title,
		Default:  src.Default,
		Required: required,
	}

	switch {
	case typeIs(src, "boolean"):
		fd.Type = fields.TypeToggle
	case typeIs(src, "integer"), typeIs(src, "number"):
		fd.Type = fields.TypeNumber
		fd.Min = src.Min
		fd.Max = src.Max
	case typeIs(src, "array"):
		item := src.Items
		if item == nil || item.Value == nil {
			return nil, fmt.Errorf("array property %q has no item schema", name)
		}
		fd.Multiple = true
		fd.MinCount = int(src.MinItems)
		if src.MaxItems != nil {
			fd.MaxCount = int(*src.MaxItems)
		}
		if item.Value.Format == "binary" {
			fd.Type = fields.TypeFile
			break
		}
		if len(item.Value.Enum) > 0 {
			fd.Type = fields.TypeSelect
			fd.Options = choicesFromEnum(item.Value.Enum)
			break
		}
		fd.Type = fields.TypeSelect
	case typeIs(src, "string"):
		fd.MinLength = int(src.MinLength)
		if src.MaxLength != nil {
			fd.MaxLength = int(*src.MaxLength)
		}
		fd.Pattern = src.Pattern
		if len(src.Enum) > 0 {
			fd.Type = fields.TypeSelect
			fd.Options = choicesFromEnum(src.Enum)
			break
		}
		fd.Type = stringVariant(src.Format)
	default:
		return nil, fmt.Errorf("property %q has unsupported type %v", name, src.Type)
	}

	return []fields.Descriptor{fd}, nil
}

func typeIs(s *openapi3.Schema, want string) bool {
	return s.Type != nil && s.Type.Is(want)
}

// stringVariant maps string formats onto the variant catalog. Unknown formats
// fall back to plain text.
func stringVariant(format string) string {
	switch format {
	case "email":
		return fields.TypeEmail
	case "uri", "url":
		return fields.TypeURL
	case "date":
		return fields.TypeDate
	case "date-time":
		return fields.TypeDateTime
	case "time":
		return fields.TypeTime
	case "password":
		return fields.TypePassword
	case "binary":
		return fields.TypeFile
	case "iban":
		return fields.TypeIBAN
	case "bic":
		return fields.TypeBIC
	case "color":
		return fields.TypeColor
	case "html":
		return fields.TypeRichText
	default:
		return fields.TypeText
	}
}

func choicesFromEnum(enum []any) []fields.Choice {
	out := make([]fields.Choice, 0, len(enum))
	for _, v := range enum {
		out = append(out, fields.Choice{Value: fmt.Sprint(v)})
	}
	return out
}
