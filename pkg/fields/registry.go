// Package fields is the variant catalog: every concrete input type the form
// runtime supports, plus the tagged registry that reconstructs fields from
// serialized descriptors. All variants share the field.Base contract and
// differ only in value coercion and validation.
package fields

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

// Variant tags accepted by the registry.
const (
	TypeText     = "text"
	TypeTextarea = "textarea"
	TypePassword = "password"
	TypeHidden   = "hidden"
	TypeEmail    = "email"
	TypeIBAN     = "iban"
	TypeBIC      = "bic"
	TypeURL      = "url"
	TypeColor    = "color"
	TypeNumber   = "number"
	TypeDate     = "date"
	TypeDateTime = "datetime"
	TypeTime     = "time"
	TypeToggle   = "toggle"
	TypeSelect   = "select"
	TypeSearch   = "search"
	TypeFile     = "file"
	TypeRichText = "richtext"
	TypeCaptcha  = "captcha"
	TypeMedia    = "media"
)

// Choice is a selectable option for select-like and search variants.
type Choice struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Descriptor is the serialized form of a field. Only the attributes relevant
// to the tagged variant are consulted; the rest stay zero.
type Descriptor struct {
	Type     string `json:"type" yaml:"type"`
	Name     string `json:"name" yaml:"name"`
	Label    string `json:"label,omitempty" yaml:"label,omitempty"`
	Default  any    `json:"default,omitempty" yaml:"default,omitempty"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Position string `json:"position,omitempty" yaml:"position,omitempty"`

	Visibility []visibility.Row `json:"visibility,omitempty" yaml:"visibility,omitempty"`

	Options  []Choice `json:"options,omitempty" yaml:"options,omitempty"`
	Multiple bool     `json:"multiple,omitempty" yaml:"multiple,omitempty"`

	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	MinDate   string   `json:"minDate,omitempty" yaml:"minDate,omitempty"`
	MaxDate   string   `json:"maxDate,omitempty" yaml:"maxDate,omitempty"`
	MinLength int      `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength int      `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	MinCount  int      `json:"minCount,omitempty" yaml:"minCount,omitempty"`
	MaxCount  int      `json:"maxCount,omitempty" yaml:"maxCount,omitempty"`
	Pattern   string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`

	OnValue  string `json:"onValue,omitempty" yaml:"onValue,omitempty"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// Settings converts the shared descriptor attributes into field.Settings.
func (d Descriptor) Settings() field.Settings {
	s := field.Settings{
		Name:     strings.TrimSpace(d.Name),
		Label:    d.Label,
		Default:  d.Default,
		Required: d.Required,
		Disabled: d.Disabled,
		Position: d.Position,
	}
	if len(d.Visibility) > 0 {
		s.Condition = &visibility.Condition{Rows: d.Visibility}
	}
	return s
}

// Constructor builds a variant instance from its descriptor.
type Constructor func(Descriptor) (field.Field, error)

// Registry maps variant tags to constructors. Unknown tags are rejected
// explicitly instead of being silently ignored.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewRegistry constructs a registry with all built-in variants registered.
func NewRegistry() *Registry {
	r := &Registry{constructors: make(map[string]Constructor)}
	r.registerBuiltins()
	return r
}

// Register adds or replaces a constructor for a tag.
func (r *Registry) Register(tag string, ctor Constructor) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("fields: variant tag is required")
	}
	if ctor == nil {
		return fmt.Errorf("fields: constructor for %q is required", tag)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[tag] = ctor
	return nil
}

// Has reports whether a tag is registered.
func (r *Registry) Has(tag string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.constructors[strings.TrimSpace(tag)]
	return ok
}

// List returns the sorted registered tags.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.constructors))
	for tag := range r.constructors {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Build resolves the descriptor's tag and constructs the field.
func (r *Registry) Build(desc Descriptor) (field.Field, error) {
	tag := strings.TrimSpace(desc.Type)
	if tag == "" {
		return nil, fmt.Errorf("fields: descriptor %q has no type", desc.Name)
	}
	if strings.TrimSpace(desc.Name) == "" {
		return nil, fmt.Errorf("fields: descriptor of type %q has no name", tag)
	}

	r.mu.RLock()
	ctor, ok := r.constructors[tag]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("fields: unknown variant %q", tag)
	}
	return ctor(desc)
}

func (r *Registry) registerBuiltins() {
	must := func(tag string, ctor Constructor) {
		if err := r.Register(tag, ctor); err != nil {
			panic(err)
		}
	}

	must(TypeText, func(d Descriptor) (field.Field, error) {
		return NewText(d.Settings(), TextOptions{MinLength: d.MinLength, MaxLength: d.MaxLength, Pattern: d.Pattern}), nil
	})
	must(TypeTextarea, func(d Descriptor) (field.Field, error) {
		return NewTextarea(d.Settings(), TextOptions{MinLength: d.MinLength, MaxLength: d.MaxLength}), nil
	})
	must(TypePassword, func(d Descriptor) (field.Field, error) {
		return NewPassword(d.Settings(), TextOptions{MinLength: d.MinLength, MaxLength: d.MaxLength, Pattern: d.Pattern}), nil
	})
	must(TypeHidden, func(d Descriptor) (field.Field, error) {
		return NewHiddenInput(d.Settings()), nil
	})
	must(TypeEmail, func(d Descriptor) (field.Field, error) {
		return NewEmail(d.Settings()), nil
	})
	must(TypeIBAN, func(d Descriptor) (field.Field, error) {
		return NewIBAN(d.Settings()), nil
	})
	must(TypeBIC, func(d Descriptor) (field.Field, error) {
		return NewBIC(d.Settings()), nil
	})
	must(TypeURL, func(d Descriptor) (field.Field, error) {
		return NewURL(d.Settings()), nil
	})
	must(TypeColor, func(d Descriptor) (field.Field, error) {
		return NewColor(d.Settings()), nil
	})
	must(TypeNumber, func(d Descriptor) (field.Field, error) {
		return NewNumber(d.Settings(), NumberOptions{Min: d.Min, Max: d.Max}), nil
	})
	must(TypeDate, func(d Descriptor) (field.Field, error) {
		return NewDate(d.Settings(), DateOptions{Min: d.MinDate, Max: d.MaxDate}), nil
	})
	must(TypeDateTime, func(d Descriptor) (field.Field, error) {
		return NewDateTime(d.Settings(), DateOptions{Min: d.MinDate, Max: d.MaxDate}), nil
	})
	must(TypeTime, func(d Descriptor) (field.Field, error) {
		return NewTime(d.Settings(), DateOptions{Min: d.MinDate, Max: d.MaxDate}), nil
	})
	must(TypeToggle, func(d Descriptor) (field.Field, error) {
		return NewToggle(d.Settings(), ToggleOptions{OnValue: d.OnValue}), nil
	})
	must(TypeSelect, func(d Descriptor) (field.Field, error) {
		return NewSelect(d.Settings(), SelectOptions{
			Choices:  d.Options,
			Multiple: d.Multiple,
			MinCount: d.MinCount,
			MaxCount: d.MaxCount,
		}), nil
	})
	must(TypeSearch, func(d Descriptor) (field.Field, error) {
		return NewSearch(d.Settings(), SearchOptions{Endpoint: d.Endpoint, Multiple: d.Multiple}), nil
	})
	must(TypeFile, func(d Descriptor) (field.Field, error) {
		return NewFile(d.Settings(), FileOptions{MinCount: d.MinCount, MaxCount: d.MaxCount}), nil
	})
	must(TypeRichText, func(d Descriptor) (field.Field, error) {
		return NewRichText(d.Settings(), RichTextOptions{MinLength: d.MinLength, MaxLength: d.MaxLength}), nil
	})
	must(TypeCaptcha, func(d Descriptor) (field.Field, error) {
		return NewCaptcha(d.Settings(), CaptchaOptions{Endpoint: d.Endpoint}), nil
	})
	must(TypeMedia, func(d Descriptor) (field.Field, error) {
		return NewMedia(d.Settings(), MediaOptions{
			Multiple: d.Multiple,
			MinCount: d.MinCount,
			MaxCount: d.MaxCount,
			Endpoint: d.Endpoint,
		}), nil
	})
}
