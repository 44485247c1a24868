package fields

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/signedcall"
	"github.com/goliatone/go-formkit/pkg/value"
)

// Selection is the composite value of a media field: the chosen item ids plus
// an optional explicit ordering.
type Selection struct {
	Selection []string `json:"selection"`
	Order     []string `json:"order,omitempty"`
}

// MediaOptions configures a Media field.
type MediaOptions struct {
	Multiple bool
	MinCount int
	MaxCount int
	// Endpoint is the pre-authorized media-library browsing URL.
	Endpoint string
	// Client performs the signed calls; nil gets a default client.
	Client *signedcall.Client
}

// Media is the composite media-library selection field. Canonical value is a
// *Selection or nil; single-select mode collapses any multi-value input to
// its last element.
type Media struct {
	*field.Base
	opts   MediaOptions
	client *signedcall.Client
}

// NewMedia constructs a media selection field.
func NewMedia(settings field.Settings, opts MediaOptions) *Media {
	m := &Media{opts: opts, client: opts.Client}
	if m.client == nil {
		m.client = signedcall.New()
	}
	m.Base = field.NewBase(settings,
		field.WithCoerce(m.coerceValue),
		field.WithCheck(m.checkValue),
	)
	return m
}

func (m *Media) coerceValue(v any) any {
	sel := toSelection(v)
	if sel == nil || len(sel.Selection) == 0 {
		return nil
	}
	if !m.opts.Multiple && len(sel.Selection) > 1 {
		sel.Selection = sel.Selection[len(sel.Selection)-1:]
		sel.Order = nil
	}
	return sel
}

func toSelection(v any) *Selection {
	switch typed := v.(type) {
	case nil:
		return nil
	case *Selection:
		if typed == nil {
			return nil
		}
		clone := *typed
		return &clone
	case Selection:
		return &Selection{Selection: typed.Selection, Order: typed.Order}
	case map[string]any:
		return &Selection{
			Selection: value.Strings(typed["selection"]),
			Order:     value.Strings(typed["order"]),
		}
	default:
		ids := dropEmpty(value.Strings(v))
		if len(ids) == 0 {
			return nil
		}
		return &Selection{Selection: ids}
	}
}

func (m *Media) checkValue(_ context.Context, v any) error {
	var count int
	if sel, ok := v.(*Selection); ok && sel != nil {
		count = len(sel.Selection)
	}
	if m.opts.MinCount > 0 && count < m.opts.MinCount {
		return errors.New(m.Message("validation.media.min", "%s requires at least %d items", m.DisplayName(), m.opts.MinCount))
	}
	if m.opts.MaxCount > 0 && count > m.opts.MaxCount {
		return errors.New(m.Message("validation.media.max", "%s allows at most %d items", m.DisplayName(), m.opts.MaxCount))
	}
	return nil
}

// Selection returns the current composite value, nil when empty.
func (m *Media) Selection() *Selection {
	if sel, ok := m.Value().(*Selection); ok {
		return sel
	}
	return nil
}

// MediaItem is one entry of a browse result.
type MediaItem struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

type browseResponse struct {
	Data []MediaItem `json:"data"`
}

// Browse queries the media library through the signed endpoint.
func (m *Media) Browse(ctx context.Context, params map[string]any) ([]MediaItem, error) {
	if m.opts.Endpoint == "" {
		return nil, fmt.Errorf("media %s: no endpoint configured", m.Name())
	}
	res, err := m.client.Call(ctx, m.opts.Endpoint, params)
	if err != nil {
		return nil, err
	}
	var decoded browseResponse
	if err := res.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("media %s: decode browse result: %w", m.Name(), err)
	}
	return decoded.Data, nil
}
