package fields

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/prefs"
	"github.com/goliatone/go-formkit/pkg/signedcall"
	"github.com/goliatone/go-formkit/pkg/value"
)

// SearchOptions configures a Search field.
type SearchOptions struct {
	// Endpoint is the opaque, pre-authorized URL the suggestion queries go
	// to. The host page supplies it; the field never constructs its own.
	Endpoint string
	Multiple bool
	// Debounce delays the remote call so a fresh keystroke can cancel the
	// previous query before it hits the network.
	Debounce time.Duration
	// Client performs the signed calls; nil gets a default client.
	Client *signedcall.Client
	// Prefs remembers the last query text between renders; nil disables.
	Prefs    prefs.Store
	PrefsKey string
}

// Search is a remote-option-lookup field. Its value behaves like Select
// (string, []string or nil); the transient result list comes from a signed
// endpoint and the user picks from it.
type Search struct {
	*field.Base
	opts   SearchOptions
	client *signedcall.Client

	mu      sync.Mutex
	cancel  context.CancelFunc
	results []Choice
}

// NewSearch constructs a search field.
func NewSearch(settings field.Settings, opts SearchOptions) *Search {
	s := &Search{opts: opts, client: opts.Client}
	if s.client == nil {
		s.client = signedcall.New()
	}
	s.Base = field.NewBase(settings, field.WithCoerce(s.coerceValue))
	return s
}

func (s *Search) coerceValue(v any) any {
	if v == nil {
		return nil
	}
	items := dropEmpty(value.Strings(v))
	if len(items) == 0 {
		return nil
	}
	if s.opts.Multiple {
		return items
	}
	return items[len(items)-1]
}

type searchResponse struct {
	Data []Choice `json:"data"`
}

// Query runs a suggestion lookup. Starting a new query aborts the field's own
// previous in-flight query; other fields are unaffected. The results of the
// winning query are retained for pickers until the next call.
func (s *Search) Query(ctx context.Context, text string) ([]Choice, error) {
	if strings.TrimSpace(s.opts.Endpoint) == "" {
		return nil, fmt.Errorf("search %s: no endpoint configured", s.Name())
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	qctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	if s.opts.Debounce > 0 {
		timer := time.NewTimer(s.opts.Debounce)
		defer timer.Stop()
		select {
		case <-qctx.Done():
			return nil, qctx.Err()
		case <-timer.C:
		}
	}

	res, err := s.client.Call(qctx, s.opts.Endpoint, map[string]any{"query": text})
	if err != nil {
		return nil, err
	}

	var decoded searchResponse
	if err := res.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("search %s: decode suggestions: %w", s.Name(), err)
	}

	s.mu.Lock()
	s.results = decoded.Data
	s.mu.Unlock()

	s.rememberQuery(text)
	return decoded.Data, nil
}

// Abort cancels any in-flight query, e.g. when the field is destroyed.
func (s *Search) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Results returns the last completed query's suggestion list.
func (s *Search) Results() []Choice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// Pick applies a suggestion as a user change. In multiple mode the pick is
// appended to the current selection.
func (s *Search) Pick(choice Choice, userChange bool) {
	if !s.opts.Multiple {
		s.SetValue(choice.Value, userChange)
		return
	}
	current := value.Strings(s.Value())
	s.SetValue(append(current, choice.Value), userChange)
}

// LastQuery returns the remembered query text, if a preference store is
// configured.
func (s *Search) LastQuery() string {
	if s.opts.Prefs == nil {
		return ""
	}
	v, _ := s.opts.Prefs.Get(s.prefsKey())
	return v
}

func (s *Search) rememberQuery(text string) {
	if s.opts.Prefs == nil {
		return
	}
	s.opts.Prefs.Set(s.prefsKey(), text)
}

func (s *Search) prefsKey() string {
	if s.opts.PrefsKey != "" {
		return s.opts.PrefsKey
	}
	return prefs.Key("search", s.Name(), "lastQuery")
}
