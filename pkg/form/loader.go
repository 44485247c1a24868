package form

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/fields"
	"github.com/goliatone/go-formkit/pkg/submit"
)

// GroupDescriptor declares a display group in a serialized form document.
type GroupDescriptor struct {
	Name      string   `json:"name" yaml:"name"`
	Label     string   `json:"label,omitempty" yaml:"label,omitempty"`
	Fields    []string `json:"fields" yaml:"fields"`
	Collapsed bool     `json:"collapsed,omitempty" yaml:"collapsed,omitempty"`
}

// ButtonDescriptor declares a control in a serialized form document.
type ButtonDescriptor struct {
	Kind   string `json:"kind" yaml:"kind"`
	Name   string `json:"name" yaml:"name"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Descriptor is the serialized form of a whole form.
type Descriptor struct {
	Name     string              `json:"name" yaml:"name"`
	Endpoint string              `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Method   string              `json:"method,omitempty" yaml:"method,omitempty"`
	Target   string              `json:"target,omitempty" yaml:"target,omitempty"`
	Locale   string              `json:"locale,omitempty" yaml:"locale,omitempty"`
	Fields   []fields.Descriptor `json:"fields" yaml:"fields"`
	Groups   []GroupDescriptor   `json:"groups,omitempty" yaml:"groups,omitempty"`
	Buttons  []ButtonDescriptor  `json:"buttons,omitempty" yaml:"buttons,omitempty"`
}

// ParseYAML decodes a YAML form document.
func ParseYAML(data []byte) (*Descriptor, error) {
	var desc Descriptor
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("form: decode yaml descriptor: %w", err)
	}
	return &desc, nil
}

// ParseJSON decodes a JSON form document.
func ParseJSON(data []byte) (*Descriptor, error) {
	var desc Descriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("form: decode json descriptor: %w", err)
	}
	return &desc, nil
}

// Loader builds live forms from descriptors through a variant registry.
type Loader struct {
	variants *fields.Registry
	options  []Option
}

// NewLoader constructs a loader. A nil registry gets the built-in variants;
// opts apply to every built form, after descriptor-derived options.
func NewLoader(variants *fields.Registry, opts ...Option) *Loader {
	if variants == nil {
		variants = fields.NewRegistry()
	}
	return &Loader{variants: variants, options: opts}
}

// Build constructs the form a descriptor declares. Unknown variant tags and
// broken group or button references abort with an error.
func (l *Loader) Build(desc *Descriptor) (*Form, error) {
	if desc == nil {
		return nil, fmt.Errorf("form: descriptor is required")
	}
	if strings.TrimSpace(desc.Name) == "" {
		return nil, fmt.Errorf("form: descriptor name is required")
	}

	opts := make([]Option, 0, len(l.options)+3)
	if desc.Endpoint != "" {
		opts = append(opts, WithEndpoint(desc.Endpoint, desc.Method))
	}
	if desc.Target != "" {
		opts = append(opts, WithTarget(submit.RenderTarget(desc.Target)))
	}
	if desc.Locale != "" {
		opts = append(opts, WithLocale(desc.Locale))
	}
	opts = append(opts, l.options...)

	f := New(desc.Name, opts...)
	for _, fd := range desc.Fields {
		built, err := l.variants.Build(fd)
		if err != nil {
			return nil, fmt.Errorf("form %s: %w", desc.Name, err)
		}
		if err := f.AddField(built); err != nil {
			return nil, err
		}
	}
	for _, gd := range desc.Groups {
		if _, err := f.AddGroup(gd.Name, gd.Label, gd.Fields, gd.Collapsed); err != nil {
			return nil, err
		}
	}
	for _, bd := range desc.Buttons {
		err := f.AddButton(Button{
			Kind:   ButtonKind(bd.Kind),
			Name:   bd.Name,
			Label:  bd.Label,
			Target: submit.RenderTarget(bd.Target),
			URL:    bd.URL,
		})
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

// LoadYAML parses and builds in one step.
func (l *Loader) LoadYAML(data []byte) (*Form, error) {
	desc, err := ParseYAML(data)
	if err != nil {
		return nil, err
	}
	return l.Build(desc)
}

// LoadJSON parses and builds in one step.
func (l *Loader) LoadJSON(data []byte) (*Form, error) {
	desc, err := ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return l.Build(desc)
}
