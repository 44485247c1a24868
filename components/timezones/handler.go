package timezones

import (
	"encoding/json"
	"net/http"

	"github.com/goliatone/go-formkit/pkg/fields"
)

// GuardFunc lets hosts reject unauthorized requests, e.g. signature checks on
// pre-authorized URLs.
type GuardFunc func(r *http.Request) error

// Options configures the handler.
type Options struct {
	DefaultLimit int
	MaxLimit     int
	Guard        GuardFunc
	// Zones overrides the embedded list.
	Zones []string
}

// OptionFn mutates Options during construction.
type OptionFn func(*Options)

// WithZones replaces the embedded identifier list.
func WithZones(zones []string) OptionFn {
	return func(o *Options) { o.Zones = zones }
}

// WithGuard installs a request guard.
func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) { o.Guard = guard }
}

// WithLimits sets the default and maximum result counts.
func WithLimits(def, max int) OptionFn {
	return func(o *Options) {
		o.DefaultLimit = def
		o.MaxLimit = max
	}
}

func newOptions(fns ...OptionFn) Options {
	opts := Options{DefaultLimit: 50, MaxLimit: 200}
	for _, fn := range fns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 50
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 200
	}
	return opts
}

type searchParams struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type optionsResponse struct {
	Data []fields.Choice `json:"data"`
}

// Handler builds the net/http handler a search field's endpoint points at.
// It accepts the signed-call shape (POST, JSON parameters) and replies with
// the suggestion envelope the field decodes.
func Handler(fns ...OptionFn) http.Handler {
	opts := newOptions(fns...)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
		}

		var params searchParams
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		zones := opts.Zones
		if zones == nil {
			loaded, err := DefaultZones()
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			zones = loaded
		}

		limit := params.Limit
		if limit <= 0 {
			limit = opts.DefaultLimit
		}
		if limit > opts.MaxLimit {
			limit = opts.MaxLimit
		}

		results := SearchChoices(zones, params.Query, limit)
		if results == nil {
			results = []fields.Choice{}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(true)
		_ = enc.Encode(optionsResponse{Data: results})
	})
}
