// Package generation turns a free-text prompt into a validated AppSchema by
// calling a generative-content HTTP endpoint.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/apricodi/builder/internal/schema"
)

// ErrEmptyPrompt is returned when the prompt is blank after trimming.
var ErrEmptyPrompt = errors.New("prompt is required")

const (
	DefaultBaseURL          = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel            = "gemini-3-flash-preview"
	DefaultTimeout          = 60 * time.Second
	DefaultMaxResponseBytes = 4 << 20

	rawLogLimit = 500
)

// Config is everything the client needs. Nothing is read from the
// environment at call time.
type Config struct {
	APIKey           string
	BaseURL          string
	Model            string
	Timeout          time.Duration
	StructuredOutput bool
	MaxResponseBytes int64
	// TracerProvider records the outbound request spans. Nil uses the
	// global provider.
	TracerProvider trace.TracerProvider
	// HTTPClient supplies the base transport and timeout. The tracing and
	// credential layers are always added on top.
	HTTPClient *http.Client
}

// Client calls the generation endpoint.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient returns a client for cfg, filling unset fields with defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = DefaultMaxResponseBytes
	}

	base, timeout := http.DefaultTransport, cfg.Timeout
	if cfg.HTTPClient != nil {
		if cfg.HTTPClient.Transport != nil {
			base = cfg.HTTPClient.Transport
		}
		if cfg.HTTPClient.Timeout > 0 {
			timeout = cfg.HTTPClient.Timeout
		}
	}

	var opts []otelhttp.Option
	if cfg.TracerProvider != nil {
		opts = append(opts, otelhttp.WithTracerProvider(cfg.TracerProvider))
	}
	hc := &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(&keyTransport{base: base, key: cfg.APIKey}, opts...),
	}
	return &Client{cfg: cfg, http: hc}
}

// keyTransport adds the key query parameter beneath the tracing layer, so
// spans and client errors only ever carry the key-less URL.
type keyTransport struct {
	base http.RoundTripper
	key  string
}

func (t *keyTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	out := r.Clone(r.Context())
	q := out.URL.Query()
	q.Set("key", t.key)
	out.URL.RawQuery = q.Encode()
	return t.base.RoundTrip(out)
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type envelope struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends exactly one request for prompt and returns the normalised
// schema. Every failure is an *Error except ErrEmptyPrompt and caller
// cancellation. A deadline, from ctx or the client timeout, is an
// UpstreamRequestFailed that matches context.DeadlineExceeded.
func (c *Client) Generate(ctx context.Context, prompt string) (*schema.AppSchema, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if c.cfg.APIKey == "" {
		return nil, &Error{Kind: CredentialMissing}
	}

	body, err := json.Marshal(c.buildRequest(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: UpstreamRequestFailed, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, ctx.Err()
		}
		msg := redact(err.Error(), c.cfg.APIKey)
		log.Printf("[Generate] Request to %s failed: %s", c.endpoint(), msg)
		if isTimeout(ctx, err) {
			return nil, &Error{Kind: UpstreamRequestFailed, Err: fmt.Errorf("%w: %s", context.DeadlineExceeded, msg)}
		}
		return nil, &Error{Kind: UpstreamRequestFailed, Err: errors.New(msg)}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxResponseBytes))
	if err != nil {
		return nil, &Error{Kind: UpstreamRequestFailed, Err: err}
	}
	log.Printf("[Generate] %s responded %d in %v", c.endpoint(), resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		return nil, &Error{
			Kind:    UpstreamRejected,
			Reason:  ReasonFor(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: eb.Error.Message,
		}
	}

	return c.decode(data)
}

func (c *Client) buildRequest(prompt string) generateRequest {
	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: ComposePrompt(prompt)}}}},
	}
	if c.cfg.StructuredOutput {
		req.GenerationConfig = &generationConfig{ResponseMimeType: "application/json"}
	}
	return req
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// decode accepts either the provider envelope, an object with a candidates
// key whose text lives at candidates[0].content.parts[0].text, or anything
// else, which is taken as the unwrapped model output and left to
// schema.Parse to classify.
func (c *Client) decode(data []byte) (*schema.AppSchema, error) {
	text := string(data)
	var top map[string]json.RawMessage
	if json.Unmarshal(data, &top) == nil {
		if _, wrapped := top["candidates"]; wrapped {
			var env envelope
			if err := json.Unmarshal(data, &env); err != nil {
				return nil, &Error{Kind: EmptyResponse, Err: err}
			}
			text = ""
			if len(env.Candidates) > 0 && len(env.Candidates[0].Content.Parts) > 0 {
				text = env.Candidates[0].Content.Parts[0].Text
			}
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &Error{Kind: EmptyResponse}
	}

	cleaned := StripFences(text)
	parsed, err := schema.Parse([]byte(cleaned))
	if err != nil {
		if errors.Is(err, schema.ErrMalformed) {
			return nil, c.malformed(cleaned, err)
		}
		log.Printf("[Generate] Model returned an invalid schema: %v", err)
		return nil, &Error{Kind: InvalidSchema, Raw: cleaned, Err: err}
	}

	if dups := schema.DuplicateIDs(*parsed); len(dups) > 0 {
		log.Printf("[Generate] Renamed duplicate element ids %v", dups)
	}
	normalized := schema.Normalize(*parsed)
	return &normalized, nil
}

func (c *Client) malformed(raw string, err error) error {
	logged := raw
	if len(logged) > rawLogLimit {
		logged = logged[:rawLogLimit] + "..."
	}
	log.Printf("[Generate] Model output is not JSON: %q", redact(logged, c.cfg.APIKey))
	return &Error{Kind: MalformedResponse, Raw: raw, Err: err}
}

// endpoint is the request URL without the key; keyTransport adds it.
func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, url.PathEscape(c.cfg.Model))
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.QueryEscape(secret), "REDACTED")
	return strings.ReplaceAll(s, secret, "REDACTED")
}
