package submit

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Toast is a transient notification carried by the response envelope.
type Toast struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ErrorMessages is the string-or-map shape of the envelope's errorMessages
// key. A bare string is a single form-level message; an object maps field
// names to their messages.
type ErrorMessages struct {
	Global string
	Fields map[string]string
}

// IsZero reports whether the envelope carried no error content.
func (e ErrorMessages) IsZero() bool {
	return e.Global == "" && len(e.Fields) == 0
}

// UnmarshalJSON accepts either a JSON string or an object of strings.
func (e *ErrorMessages) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.Global = s
		e.Fields = nil
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("submit: errorMessages must be a string or an object of strings: %w", err)
	}
	e.Global = ""
	e.Fields = m
	return nil
}

// MarshalJSON emits the compact shape: the bare string when only a global
// message is present, the object otherwise.
func (e ErrorMessages) MarshalJSON() ([]byte, error) {
	if len(e.Fields) == 0 {
		return json.Marshal(e.Global)
	}
	return json.Marshal(e.Fields)
}

// Envelope is the structured submit response body.
type Envelope struct {
	ErrorMessages *ErrorMessages `json:"errorMessages,omitempty"`
	ToastMessages []Toast        `json:"toastMessages,omitempty"`
	// Buffer is an HTML fragment rendered in place of the form's previous
	// output.
	Buffer string `json:"buffer,omitempty"`
}

// ParseEnvelope decodes a JSON response body.
func ParseEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("submit: decode response envelope: %w", err)
	}
	return &env, nil
}

// Distribute routes the envelope's error messages over the given field names.
// Messages keyed by a known field land in fieldErrors; a global message and
// any message keyed by an unknown field become form-level messages so nothing
// is silently dropped.
func (e *Envelope) Distribute(fieldNames []string) (fieldErrors map[string]string, formErrors []string) {
	if e == nil || e.ErrorMessages == nil || e.ErrorMessages.IsZero() {
		return nil, nil
	}
	msgs := e.ErrorMessages
	if msgs.Global != "" {
		return nil, []string{msgs.Global}
	}

	known := make(map[string]bool, len(fieldNames))
	for _, name := range fieldNames {
		known[name] = true
	}

	var unmatched []string
	for name, msg := range msgs.Fields {
		if known[name] {
			if fieldErrors == nil {
				fieldErrors = make(map[string]string)
			}
			fieldErrors[name] = msg
			continue
		}
		unmatched = append(unmatched, name)
	}
	sort.Strings(unmatched)
	for _, name := range unmatched {
		formErrors = append(formErrors, fmt.Sprintf("%s: %s", name, msgs.Fields[name]))
	}
	return fieldErrors, formErrors
}
