// Package signedcall implements the generic remote-operation contract fields
// use for search suggestions, CAPTCHA verification and media browsing: POST
// JSON parameters to an opaque, pre-authorized endpoint URL and get JSON or
// HTML back. Signature and expiry of the URL are the host page's business;
// this client never inspects them.
package signedcall

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// StatusError reports a non-2xx response from a signed endpoint. The body is
// kept so the caller can surface it as a raw error surface.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("signedcall: status %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("signedcall: status %d", e.Code)
}

// Response is a signed-call result: exactly one of JSON or HTML is populated
// depending on the endpoint's content type.
type Response struct {
	ContentType string
	JSON        json.RawMessage
	HTML        string
}

// Decode unmarshals the JSON payload into out. Calling it on an HTML response
// is an error.
func (r *Response) Decode(out any) error {
	if len(r.JSON) == 0 {
		return errors.New("signedcall: response carries no JSON payload")
	}
	return json.Unmarshal(r.JSON, out)
}

// Option customises the client.
type Option func(*Client)

// WithHTTPClient injects a custom *http.Client, e.g. for tests or shared
// transports.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds calls that carry no deadline of their own.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Client performs signed calls. The zero options are production defaults.
type Client struct {
	http    *http.Client
	timeout time.Duration
}

// New constructs a Client.
func New(opts ...Option) *Client {
	c := &Client{
		http:    http.DefaultClient,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Call POSTs params as JSON to endpoint and classifies the reply by content
// type. A nil params posts an empty object. The context cancels the request;
// in-flight calls a field no longer wants are aborted this way.
func (c *Client) Call(ctx context.Context, endpoint string, params any) (*Response, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, errors.New("signedcall: endpoint is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if params == nil {
		params = map[string]any{}
	}
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("signedcall: encode params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("signedcall: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/html")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("signedcall: %w", err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("signedcall: read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{Code: res.StatusCode, Body: strings.TrimSpace(string(payload))}
	}

	mediaType := res.Header.Get("Content-Type")
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = parsed
	}

	out := &Response{ContentType: mediaType}
	if strings.Contains(mediaType, "json") {
		out.JSON = json.RawMessage(payload)
	} else {
		out.HTML = string(payload)
	}
	return out, nil
}
