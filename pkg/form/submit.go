package form

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formkit/pkg/fields"
	"github.com/goliatone/go-formkit/pkg/submit"
)

// Synthetic hidden field names carried on every submit.
const (
	HiddenFormID  = "_formId"
	HiddenTrigger = "_trigger"
)

// SubmitOutcome is what a completed submit lifecycle hands back to the
// caller: the interpreted protocol result plus the resolved render target.
type SubmitOutcome struct {
	Result *submit.Result
	Target submit.RenderTarget
	// Validation is set instead of Result when the pre-submit pass failed
	// and nothing was sent.
	Validation *ValidationResult
}

// Submit runs the full lifecycle: validate, serialize, call, interpret.
// trigger names the activated control. A failed validation aborts with the
// aggregated result and no network traffic. A second submit while one is
// outstanding returns ErrSubmitInFlight immediately.
func (f *Form) Submit(ctx context.Context, trigger string) (*SubmitOutcome, error) {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	f.inFlight = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()
		f.state = StateIdle
	}()

	if result := f.Validate(ctx); !result.Valid() {
		return &SubmitOutcome{Validation: &result}, nil
	}

	configured := f.target
	for _, b := range f.btns {
		if b.Name == trigger && b.Target != "" {
			configured = b.Target
			break
		}
	}
	target, err := submit.Resolve(configured, f.trigger)
	if err != nil {
		return nil, err
	}

	if f.endpoint == "" {
		return nil, fmt.Errorf("form %s: no submit endpoint configured", f.name)
	}

	f.state = StateSubmitting
	payload := f.buildPayload(trigger)
	res, err := f.client.Do(ctx, submit.Request{
		Method:  f.method,
		URL:     f.endpoint,
		Payload: payload,
	})
	if err != nil {
		return nil, err
	}

	f.state = StateInterpreting
	f.interpret(res)
	return &SubmitOutcome{Result: res, Target: target}, nil
}

// buildPayload serializes every field's current value plus the two synthetic
// hidden fields. File fields with pending binary content attach their parts,
// switching the encoding to multipart.
func (f *Form) buildPayload(trigger string) *submit.Payload {
	p := submit.NewPayload()
	for _, fld := range f.fields {
		p.Set(fld.Name(), fld.Value())
		file, ok := fld.(*fields.File)
		if !ok {
			continue
		}
		for _, fd := range file.Files() {
			if !fd.Pending() {
				continue
			}
			p.AddFile(submit.FilePart{
				Field:       fld.Name(),
				Name:        fd.Name,
				ContentType: fd.ContentType,
				Content:     fd.Content,
			})
		}
	}
	p.AddHidden(
		submit.Hidden(HiddenFormID, f.id),
		submit.Hidden(HiddenTrigger, trigger),
	)
	return p
}

// interpret clears previous error displays and applies the protocol result.
// Errors never accumulate across submits.
func (f *Form) interpret(res *submit.Result) {
	f.clearErrors()

	switch res.Kind {
	case submit.ResultEnvelope:
		fieldErrs, formErrs := res.Envelope.Distribute(f.FieldNames())
		f.fieldErrors = fieldErrs
		f.formErrors = formErrs
		if res.Envelope.Buffer != "" {
			f.output = res.Envelope.Buffer
		}
	case submit.ResultFragment:
		f.output = res.Fragment
	case submit.ResultError:
		f.formErrors = []string{res.Body}
	}
	// Redirect and download results carry no error content; the caller acts
	// on the outcome's Result directly.
}
