package fields

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/value"
)

// DateKind selects which temporal variant a date field represents.
type DateKind int

const (
	KindDate DateKind = iota
	KindDateTime
	KindTime
)

// DateOptions configures the temporal variants. Min and Max are canonical
// strings of the same kind; empty disables the bound.
type DateOptions struct {
	Min string
	Max string
}

// Date/DateTime/Time store an ISO canonical string or nil. Free-text
// shorthands such as "311224" (ddmmyy) are expanded at set time; anything
// unparseable is kept raw so validation reports it.
type Date struct {
	*field.Base
	kind DateKind
	opts DateOptions
}

// NewDate constructs a date field (canonical "2006-01-02").
func NewDate(settings field.Settings, opts DateOptions) *Date {
	return newTemporal(settings, opts, KindDate)
}

// NewDateTime constructs a datetime field (canonical "2006-01-02T15:04:05").
func NewDateTime(settings field.Settings, opts DateOptions) *Date {
	return newTemporal(settings, opts, KindDateTime)
}

// NewTime constructs a time-of-day field (canonical "15:04").
func NewTime(settings field.Settings, opts DateOptions) *Date {
	return newTemporal(settings, opts, KindTime)
}

func newTemporal(settings field.Settings, opts DateOptions, kind DateKind) *Date {
	d := &Date{kind: kind, opts: opts}
	d.Base = field.NewBase(settings,
		field.WithCoerce(d.coerceValue),
		field.WithCheck(d.checkValue),
	)
	return d
}

func (d *Date) layout() string {
	switch d.kind {
	case KindDateTime:
		return "2006-01-02T15:04:05"
	case KindTime:
		return "15:04"
	default:
		return "2006-01-02"
	}
}

func (d *Date) acceptedLayouts() []string {
	switch d.kind {
	case KindDateTime:
		return []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02 15:04", time.RFC3339}
	case KindTime:
		return []string{"15:04", "15:04:05", "3:04 PM"}
	default:
		return []string{"2006-01-02", "02.01.2006", "02/01/2006"}
	}
}

func (d *Date) coerceValue(v any) any {
	switch typed := v.(type) {
	case nil:
		return nil
	case time.Time:
		return typed.Format(d.layout())
	case string:
		s := strings.TrimSpace(typed)
		if s == "" {
			return nil
		}
		if t, ok := d.parse(s); ok {
			return t.Format(d.layout())
		}
		return s
	default:
		return value.String(v)
	}
}

func (d *Date) parse(s string) (time.Time, bool) {
	for _, layout := range d.acceptedLayouts() {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return d.parseShorthand(s)
}

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// parseShorthand expands the digit-run shortcuts: dates accept ddmm, ddmmyy
// and ddmmyyyy (missing year defaults to the current one), times accept hhmm.
func (d *Date) parseShorthand(s string) (time.Time, bool) {
	if !digitsOnly.MatchString(s) {
		return time.Time{}, false
	}

	if d.kind == KindTime {
		if len(s) == 4 {
			if t, err := time.Parse("1504", s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}

	var candidate string
	switch len(s) {
	case 4: // ddmm
		candidate = fmt.Sprintf("%s%04d", s, time.Now().Year())
	case 6: // ddmmyy
		candidate = s[:4] + expandYear(s[4:])
	case 8: // ddmmyyyy
		candidate = s
	default:
		return time.Time{}, false
	}

	t, err := time.Parse("02012006", candidate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func expandYear(two string) string {
	// Pivot at 70: years below map into 2000s, the rest into 1900s.
	if two < "70" {
		return "20" + two
	}
	return "19" + two
}

func (d *Date) checkValue(_ context.Context, v any) error {
	if v == nil {
		return nil
	}
	s := value.String(v)
	t, err := time.Parse(d.layout(), s)
	if err != nil {
		return errors.New(d.Message("validation.date", "%s is not a valid date", d.DisplayName()))
	}

	if d.opts.Min != "" {
		if min, err := time.Parse(d.layout(), d.opts.Min); err == nil && t.Before(min) {
			return errors.New(d.Message("validation.date.min", "%s must not be before %s", d.DisplayName(), d.opts.Min))
		}
	}
	if d.opts.Max != "" {
		if max, err := time.Parse(d.layout(), d.opts.Max); err == nil && t.After(max) {
			return errors.New(d.Message("validation.date.max", "%s must not be after %s", d.DisplayName(), d.opts.Max))
		}
	}
	return nil
}

// Kind reports which temporal variant this field is.
func (d *Date) Kind() DateKind { return d.kind }

// Time returns the parsed canonical value; ok is false while empty or
// unparseable.
func (d *Date) Time() (time.Time, bool) {
	s, isString := d.Value().(string)
	if !isString {
		return time.Time{}, false
	}
	t, err := time.Parse(d.layout(), s)
	return t, err == nil
}
