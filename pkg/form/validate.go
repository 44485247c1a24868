package form

import "context"

// ValidationResult aggregates one validate pass. Hidden fields never
// contribute; the first failing rule per field wins.
type ValidationResult struct {
	FieldErrors map[string]string
	FormErrors  []string
}

// Valid reports whether the pass found no failures.
func (r ValidationResult) Valid() bool {
	return len(r.FieldErrors) == 0 && len(r.FormErrors) == 0
}

// Validate clears previous error displays, re-evaluates visibility, runs
// every field's chain and then the optional whole-form validator. The result
// is also retained on the form for display.
func (f *Form) Validate(ctx context.Context) ValidationResult {
	prev := f.state
	f.state = StateValidating
	defer func() { f.state = prev }()

	f.clearErrors()
	f.RevaluateVisibility()

	var result ValidationResult
	for _, fld := range f.fields {
		if err := fld.Validate(ctx); err != nil {
			if result.FieldErrors == nil {
				result.FieldErrors = make(map[string]string)
			}
			result.FieldErrors[fld.Name()] = err.Error()
		}
	}
	if f.validator != nil {
		if err := f.validator(f); err != nil {
			result.FormErrors = append(result.FormErrors, err.Error())
		}
	}

	f.fieldErrors = result.FieldErrors
	f.formErrors = result.FormErrors
	return result
}
