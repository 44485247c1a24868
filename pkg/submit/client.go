package submit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

// ResultKind classifies how a submit response must be handled.
type ResultKind string

const (
	// ResultEnvelope is the normal structured response.
	ResultEnvelope ResultKind = "envelope"
	// ResultFragment is a non-JSON 2xx body rendered as the new output.
	ResultFragment ResultKind = "fragment"
	// ResultRedirect carries a location to follow immediately.
	ResultRedirect ResultKind = "redirect"
	// ResultDownload signals a file download.
	ResultDownload ResultKind = "download"
	// ResultError is a non-2xx reply surfaced raw.
	ResultError ResultKind = "error"
)

// Result is the interpreted outcome of one submit call.
type Result struct {
	Kind     ResultKind
	Envelope *Envelope
	// Fragment holds the body for ResultFragment.
	Fragment string
	// Location is set for ResultRedirect.
	Location string
	// Filename is set for ResultDownload when the disposition names one.
	Filename string
	// Status and Body describe a ResultError reply.
	Status int
	Body   string
}

// Request describes one submit call.
type Request struct {
	// Method is GET or POST; empty defaults to POST.
	Method  string
	URL     string
	Payload *Payload
}

// Option customises the client.
type Option func(*Client)

// WithHTTPClient injects a custom *http.Client. Redirect following is
// disabled on it so redirect replies reach interpretation.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds submits that carry no deadline of their own.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Client executes submit calls and interprets replies per the envelope
// protocol.
type Client struct {
	http    *http.Client
	timeout time.Duration
}

// NewClient constructs a submit client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{},
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	// Redirect and download signals are part of the protocol; the transport
	// must hand them back instead of following.
	transport := *c.http
	transport.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	c.http = &transport
	return c
}

// Do executes the request and classifies the reply. Network failures return
// an error; protocol-level failures (non-2xx) come back as a ResultError.
func (c *Client) Do(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, fmt.Errorf("submit: request URL is required")
	}
	if req.Payload == nil {
		return nil, fmt.Errorf("submit: request payload is required")
	}
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	switch method {
	case "":
		method = http.MethodPost
	case http.MethodGet, http.MethodPost:
	default:
		return nil, fmt.Errorf("submit: unsupported method %q", req.Method)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var (
		body        []byte
		contentType string
		err         error
	)
	if req.Payload.HasFiles() {
		body, contentType, err = req.Payload.EncodeMultipart()
	} else {
		body, err = req.Payload.EncodeJSON()
		contentType = "application/json"
	}
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("submit: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json, text/html")

	res, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("submit: read response: %w", err)
	}
	return interpret(res, payload)
}

func interpret(res *http.Response, body []byte) (*Result, error) {
	if location := res.Header.Get("Location"); location != "" {
		return &Result{Kind: ResultRedirect, Location: location}, nil
	}

	if disposition := res.Header.Get("Content-Disposition"); disposition != "" {
		if kind, params, err := mime.ParseMediaType(disposition); err == nil && kind == "attachment" {
			return &Result{Kind: ResultDownload, Filename: params["filename"]}, nil
		}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &Result{
			Kind:   ResultError,
			Status: res.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}, nil
	}

	mediaType := res.Header.Get("Content-Type")
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = parsed
	}
	if !strings.Contains(mediaType, "json") {
		return &Result{Kind: ResultFragment, Fragment: string(body)}, nil
	}

	env, err := ParseEnvelope(body)
	if err != nil {
		return nil, err
	}
	return &Result{Kind: ResultEnvelope, Envelope: env}, nil
}
