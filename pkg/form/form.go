// Package form is the orchestrator: it owns an ordered set of fields, routes
// their change events, re-evaluates visibility conditions, aggregates
// validation and runs the submit lifecycle against the submission protocol.
package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/fields"
	"github.com/goliatone/go-formkit/pkg/i18n"
	"github.com/goliatone/go-formkit/pkg/prefs"
	"github.com/goliatone/go-formkit/pkg/submit"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

// State is the orchestrator's lifecycle position. Transitions are synchronous
// except Submitting, which spans the network call.
type State string

const (
	StateIdle         State = "idle"
	StateRevaluating  State = "revaluating-visibility"
	StateValidating   State = "validating"
	StateSubmitting   State = "submitting"
	StateInterpreting State = "interpreting-response"
)

// ErrSubmitInFlight is returned when a submit is attempted while another is
// outstanding. The second attempt is rejected, not queued, and nothing is
// sent over the wire.
var ErrSubmitInFlight = errors.New("form: submit already in flight")

// Validator is an optional whole-form check run after the per-field pass.
type Validator func(*Form) error

// Option customises a Form.
type Option func(*Form)

// WithID fixes the instance id instead of generating one.
func WithID(id string) Option {
	return func(f *Form) {
		if strings.TrimSpace(id) != "" {
			f.id = id
		}
	}
}

// WithTranslator injects the translation service used for field messages.
func WithTranslator(t i18n.Translator) Option {
	return func(f *Form) { f.translator = t }
}

// WithLocale sets the active locale.
func WithLocale(locale string) Option {
	return func(f *Form) {
		if locale != "" {
			f.locale = locale
		}
	}
}

// WithEndpoint sets the submit URL and method. An empty method posts.
func WithEndpoint(url, method string) Option {
	return func(f *Form) {
		f.endpoint = url
		f.method = method
	}
}

// WithTarget sets where submit results render. Defaults to inline.
func WithTarget(target submit.RenderTarget) Option {
	return func(f *Form) {
		if target != "" {
			f.target = target
		}
	}
}

// WithTriggerSurface describes the enclosing UI contexts of the submit
// control, consulted when the target is "current".
func WithTriggerSurface(s *submit.Surface) Option {
	return func(f *Form) { f.trigger = s }
}

// WithSubmitClient injects the submission client, e.g. for tests.
func WithSubmitClient(c *submit.Client) Option {
	return func(f *Form) {
		if c != nil {
			f.client = c
		}
	}
}

// WithPrefs injects the preference store used for remembered UI state such as
// collapsed groups.
func WithPrefs(store prefs.Store) Option {
	return func(f *Form) {
		if store != nil {
			f.prefs = store
		}
	}
}

// WithValidator adds a whole-form validator. Its error becomes a form-level
// message.
func WithValidator(v Validator) Option {
	return func(f *Form) { f.validator = v }
}

// WithExtras seeds extra visibility-context values not owned by any field.
func WithExtras(extras map[string]any) Option {
	return func(f *Form) { f.extras = extras }
}

// Form is one live form instance. All operations on a single instance are
// meant for one goroutine at a time; the submit guard is the only state
// shared with the submit call itself.
type Form struct {
	id     string
	name   string
	locale string

	translator i18n.Translator
	prefs      prefs.Store
	client     *submit.Client
	validator  Validator

	endpoint string
	method   string
	target   submit.RenderTarget
	trigger  *submit.Surface
	extras   map[string]any

	fields []field.Field
	byName map[string]field.Field
	groups []*Group
	btns   []Button

	state       State
	fieldErrors map[string]string
	formErrors  []string
	output      string

	mu          sync.Mutex
	inFlight    bool
	dispatching bool

	changeListeners []func(field.Change)
}

// New constructs a form. name identifies the descriptor it was built from,
// not the instance; instances get a generated uuid.
func New(name string, opts ...Option) *Form {
	f := &Form{
		id:     uuid.NewString(),
		name:   name,
		locale: "en",
		target: submit.TargetInline,
		prefs:  prefs.NewMemory(),
		client: submit.NewClient(),
		byName: make(map[string]field.Field),
		state:  StateIdle,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// ID returns the instance id.
func (f *Form) ID() string { return f.id }

// Name returns the descriptor name.
func (f *Form) Name() string { return f.name }

// State returns the current lifecycle position.
func (f *Form) State() State { return f.state }

// Endpoint returns the submit URL, empty when none is configured.
func (f *Form) Endpoint() string { return f.endpoint }

// Method returns the configured submit method, empty meaning POST.
func (f *Form) Method() string { return f.method }

// Translator implements field.Host.
func (f *Form) Translator() i18n.Translator { return f.translator }

// Locale implements field.Host.
func (f *Form) Locale() string { return f.locale }

// AddField adds a field and binds it. Names must be unique within the form.
// Insertion order is visual order unless the field carries a position hint
// ("before:<name>" or "after:<name>"); a hint naming an absent field appends.
func (f *Form) AddField(fld field.Field) error {
	if fld == nil {
		return errors.New("form: field is required")
	}
	name := fld.Name()
	if name == "" {
		return errors.New("form: field name is required")
	}
	if _, exists := f.byName[name]; exists {
		return fmt.Errorf("form: duplicate field %q", name)
	}
	if err := fld.Bind(f); err != nil {
		return fmt.Errorf("form: bind %q: %w", name, err)
	}
	f.insertField(fld)
	f.byName[name] = fld
	return nil
}

func (f *Form) insertField(fld field.Field) {
	at := f.positionIndex(fld.Settings().Position)
	if at < 0 || at >= len(f.fields) {
		f.fields = append(f.fields, fld)
		return
	}
	f.fields = append(f.fields, nil)
	copy(f.fields[at+1:], f.fields[at:])
	f.fields[at] = fld
}

// positionIndex resolves a "before:name" / "after:name" hint to an insertion
// index, -1 meaning append.
func (f *Form) positionIndex(hint string) int {
	rel, anchor, ok := strings.Cut(strings.TrimSpace(hint), ":")
	if !ok {
		return -1
	}
	anchor = strings.TrimSpace(anchor)
	for i, existing := range f.fields {
		if existing.Name() != anchor {
			continue
		}
		switch rel {
		case "before":
			return i
		case "after":
			return i + 1
		}
		return -1
	}
	return -1
}

// Field returns the named field, nil when absent.
func (f *Form) Field(name string) field.Field { return f.byName[name] }

// Fields returns the fields in declaration order.
func (f *Form) Fields() []field.Field {
	out := make([]field.Field, len(f.fields))
	copy(out, f.fields)
	return out
}

// FieldNames returns the declared names in order.
func (f *Form) FieldNames() []string {
	names := make([]string, len(f.fields))
	for i, fld := range f.fields {
		names[i] = fld.Name()
	}
	return names
}

// SetValue sets a named field's value like a consumer would. Unknown names
// are an error so typos do not vanish silently.
func (f *Form) SetValue(name string, value any, userChange bool) error {
	fld := f.byName[name]
	if fld == nil {
		return fmt.Errorf("form: unknown field %q", name)
	}
	fld.SetValue(value, userChange)
	return nil
}

// OnChange registers a listener invoked after each effective field change has
// finished propagating, visibility included.
func (f *Form) OnChange(fn func(field.Change)) {
	if fn != nil {
		f.changeListeners = append(f.changeListeners, fn)
	}
}

// FieldChanged implements field.Host: every effective value change triggers a
// synchronous visibility pass before the change finishes propagating.
func (f *Form) FieldChanged(change field.Change) {
	// A visibility pass never re-enters itself even if a condition-driven
	// default write emits another change.
	if !f.dispatching {
		f.dispatching = true
		prev := f.state
		f.state = StateRevaluating
		f.RevaluateVisibility()
		f.state = prev
		f.dispatching = false
	}
	if change.User {
		f.armCaptchas()
	}
	for _, fn := range f.changeListeners {
		fn(change)
	}
}

// armCaptchas marks lazy captcha widgets as allowed to render. The first
// user interaction with any field is the arming signal.
func (f *Form) armCaptchas() {
	for _, fld := range f.fields {
		if c, ok := fld.(*fields.Captcha); ok {
			c.Arm()
		}
	}
}

// visibilityContext snapshots all current values plus configured extras.
func (f *Form) visibilityContext() visibility.Context {
	values := make(map[string]any, len(f.fields))
	for _, fld := range f.fields {
		values[fld.Name()] = fld.Value()
	}
	return visibility.Context{Values: values, Extras: f.extras}
}

// RevaluateVisibility applies every field's condition against current values.
// Fields without a condition stay visible. Evaluation errors hide nothing;
// the field keeps its previous state.
func (f *Form) RevaluateVisibility() {
	ctx := f.visibilityContext()
	for _, fld := range f.fields {
		cond := fld.Condition()
		if cond == nil {
			continue
		}
		visible, err := visibility.Evaluate(cond, ctx)
		if err != nil {
			continue
		}
		fld.SetHidden(!visible)
	}
}

// Render evaluates visibility and renders every field.
func (f *Form) Render(ctx context.Context) error {
	f.RevaluateVisibility()
	for _, fld := range f.fields {
		if err := fld.Render(ctx); err != nil {
			return fmt.Errorf("form: render %q: %w", fld.Name(), err)
		}
	}
	return nil
}

// Reset restores every field's default and clears all error displays.
func (f *Form) Reset() {
	for _, fld := range f.fields {
		fld.Reset()
	}
	f.clearErrors()
	f.RevaluateVisibility()
}

func (f *Form) clearErrors() {
	f.fieldErrors = nil
	f.formErrors = nil
}

// FieldErrors returns the current per-field error messages.
func (f *Form) FieldErrors() map[string]string { return f.fieldErrors }

// FormErrors returns the current form-level messages.
func (f *Form) FormErrors() []string { return f.formErrors }

// Output returns the rendered fragment that replaced the form's previous
// output, empty until a submit response carried one.
func (f *Form) Output() string { return f.output }
