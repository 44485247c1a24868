package fields

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/signedcall"
)

// CaptchaOptions configures a Captcha field.
type CaptchaOptions struct {
	// Endpoint is the pre-authorized verification URL; the field's only
	// contract with the service is POST JSON, receive a token back.
	Endpoint string
	// Client performs the signed calls; nil gets a default client.
	Client *signedcall.Client
	// ForceRender renders the widget immediately instead of waiting for the
	// first user interaction with the form.
	ForceRender bool
}

// Captcha holds a verification token that can only be produced through the
// external verification round trip. Consumer SetValue calls are ignored; the
// widget itself stays unrendered until the user interacts with the form or
// rendering is forced.
type Captcha struct {
	*field.Base
	opts   CaptchaOptions
	client *signedcall.Client

	armed    bool
	rendered bool
}

// NewCaptcha constructs a captcha field.
func NewCaptcha(settings field.Settings, opts CaptchaOptions) *Captcha {
	c := &Captcha{opts: opts, client: opts.Client, armed: opts.ForceRender}
	if c.client == nil {
		c.client = signedcall.New()
	}
	c.Base = field.NewBase(settings,
		field.WithSetGuard(func(any, bool) bool { return false }),
		field.WithRender(c.renderWidget),
	)
	return c
}

func (c *Captcha) renderWidget(_ context.Context, _ bool) error {
	// The widget defers its heavy external init until armed; the rendered
	// signal still resolves so the form's lifecycle is not held up.
	if c.armed {
		c.rendered = true
	}
	return nil
}

// Arm marks that the user interacted with the form, allowing the widget to
// render on the next Render call.
func (c *Captcha) Arm() { c.armed = true }

// WidgetRendered reports whether the external widget was actually set up.
func (c *Captcha) WidgetRendered() bool { return c.rendered }

type captchaResponse struct {
	Token string `json:"token"`
}

// Verify runs the external verification round trip and stores the resulting
// token as the field's value. This is the only way the value can be set.
func (c *Captcha) Verify(ctx context.Context, params map[string]any) error {
	if strings.TrimSpace(c.opts.Endpoint) == "" {
		return fmt.Errorf("captcha %s: no endpoint configured", c.Name())
	}

	res, err := c.client.Call(ctx, c.opts.Endpoint, params)
	if err != nil {
		return fmt.Errorf("captcha %s: verify: %w", c.Name(), err)
	}

	var decoded captchaResponse
	if err := res.Decode(&decoded); err != nil {
		return fmt.Errorf("captcha %s: decode token: %w", c.Name(), err)
	}
	if strings.TrimSpace(decoded.Token) == "" {
		return fmt.Errorf("captcha %s: verification returned no token", c.Name())
	}

	c.SetValueInternal(decoded.Token, false)
	return nil
}

// Token returns the verification token, empty while unverified.
func (c *Captcha) Token() string {
	if s, ok := c.Value().(string); ok {
		return s
	}
	return ""
}
