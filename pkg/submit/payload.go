// Package submit implements the submission protocol: serializing form state
// into a JSON tree or multipart body, executing the remote call, interpreting
// the response envelope and resolving where the result renders.
package submit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"
)

// HiddenField is a synthetic input sent alongside the visible values. Every
// submit carries at least the form instance id and the activated control.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs a hidden field carrying the provided token. Callers
// supply the input name to match their backend expectations (for example,
// "_csrf" or "csrf_token").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// VersionField constructs a hidden field used for optimistic locking or
// version-aware submissions (for example, "if-match" or "version").
func VersionField(name string, version any) HiddenField {
	return Hidden(name, version)
}

// FilePart is one pending binary attachment for a multipart submit.
type FilePart struct {
	// Field is the payload path of the owning file field.
	Field string
	// Name is the original filename.
	Name        string
	ContentType string
	Content     []byte
}

// Payload is the serialized state of one submit: field values keyed by their
// bracket-path names, synthetic hidden fields and pending file content.
type Payload struct {
	values []entry
	hidden []HiddenField
	files  []FilePart
}

type entry struct {
	name  string
	value any
}

// NewPayload constructs an empty payload.
func NewPayload() *Payload {
	return &Payload{}
}

// Set records a value under a bracket-path name such as "address[street]".
// Later sets for the same name win.
func (p *Payload) Set(name string, value any) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	for i := range p.values {
		if p.values[i].name == name {
			p.values[i].value = value
			return
		}
	}
	p.values = append(p.values, entry{name: name, value: value})
}

// AddHidden appends synthetic hidden fields. Empty names are dropped; later
// fields win on name collisions when the tree is built.
func (p *Payload) AddHidden(fields ...HiddenField) {
	for _, f := range fields {
		if strings.TrimSpace(f.Name) == "" {
			continue
		}
		p.hidden = append(p.hidden, f)
	}
}

// AddFile attaches pending binary content. Its presence switches encoding to
// multipart.
func (p *Payload) AddFile(part FilePart) {
	if strings.TrimSpace(part.Field) == "" {
		return
	}
	p.files = append(p.files, part)
}

// HasFiles reports whether any pending binary content is attached.
func (p *Payload) HasFiles() bool { return len(p.files) > 0 }

// Files returns the attached parts in insertion order.
func (p *Payload) Files() []FilePart { return p.files }

// SortedHidden returns the hidden fields sorted by name for deterministic
// encoding. Later duplicates win.
func (p *Payload) SortedHidden() []HiddenField {
	if len(p.hidden) == 0 {
		return nil
	}
	last := make(map[string]string, len(p.hidden))
	for _, f := range p.hidden {
		last[strings.TrimSpace(f.Name)] = f.Value
	}
	names := make([]string, 0, len(last))
	for name := range last {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: last[name]})
	}
	return out
}

// splitPath breaks "a[b][c]" into its segments. Names without brackets come
// back as a single segment; malformed brackets fall back to the literal name.
func splitPath(name string) []string {
	open := strings.IndexByte(name, '[')
	if open <= 0 || !strings.HasSuffix(name, "]") {
		return []string{name}
	}
	segments := []string{name[:open]}
	rest := name[open:]
	for rest != "" {
		if rest[0] != '[' {
			return []string{name}
		}
		close := strings.IndexByte(rest, ']')
		if close < 1 {
			return []string{name}
		}
		segments = append(segments, rest[1:close])
		rest = rest[close+1:]
	}
	return segments
}

// Tree builds the nested object mirroring all recorded names and values.
// Hidden fields land at the root. A nested path through a scalar replaces the
// scalar with an object.
func (p *Payload) Tree() map[string]any {
	root := make(map[string]any)
	for _, e := range p.values {
		insert(root, splitPath(e.name), e.value)
	}
	for _, f := range p.SortedHidden() {
		insert(root, splitPath(f.Name), f.Value)
	}
	return root
}

func insert(node map[string]any, path []string, value any) {
	if len(path) == 1 {
		node[path[0]] = value
		return
	}
	child, ok := node[path[0]].(map[string]any)
	if !ok {
		child = make(map[string]any)
		node[path[0]] = child
	}
	insert(child, path[1:], value)
}

// EncodeJSON serializes the payload tree.
func (p *Payload) EncodeJSON() ([]byte, error) {
	data, err := json.Marshal(p.Tree())
	if err != nil {
		return nil, fmt.Errorf("submit: encode payload: %w", err)
	}
	return data, nil
}

// EncodeMultipart serializes values and hidden fields as form parts plus one
// file part per attachment. Nested values are JSON-encoded into their part.
func (p *Payload) EncodeMultipart() (body []byte, contentType string, err error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	writeField := func(name string, value any) error {
		switch typed := value.(type) {
		case nil:
			return w.WriteField(name, "")
		case string:
			return w.WriteField(name, typed)
		default:
			encoded, err := json.Marshal(typed)
			if err != nil {
				return err
			}
			return w.WriteField(name, string(encoded))
		}
	}

	for _, e := range p.values {
		if err := writeField(e.name, e.value); err != nil {
			return nil, "", fmt.Errorf("submit: encode part %q: %w", e.name, err)
		}
	}
	for _, f := range p.SortedHidden() {
		if err := writeField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("submit: encode part %q: %w", f.Name, err)
		}
	}

	for _, part := range p.files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, part.Field, part.Name))
		ct := part.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		header.Set("Content-Type", ct)
		fw, err := w.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("submit: file part %q: %w", part.Field, err)
		}
		if _, err := fw.Write(part.Content); err != nil {
			return nil, "", fmt.Errorf("submit: file part %q: %w", part.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("submit: finish multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
