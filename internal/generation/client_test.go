package generation

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/apricodi/builder/internal/schema"
)

const randevuJSON = `{"appName":"Randevu","description":"Basit randevu formu","elements":[{"id":"1","type":"heading","label":"Randevu Al"},{"id":"2","type":"input","label":"Ad Soyad"}]}`

func envelopeFor(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	})
	return string(b)
}

type upstream struct {
	server *httptest.Server
	calls  atomic.Int32
	last   atomic.Pointer[http.Request]
	body   atomic.Pointer[[]byte]
}

func newUpstream(t *testing.T, status int, body string) *upstream {
	t.Helper()
	u := &upstream{}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.calls.Add(1)
		data, _ := io.ReadAll(r.Body)
		u.body.Store(&data)
		u.last.Store(r.Clone(context.Background()))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(u.server.Close)
	return u
}

func (u *upstream) client(key string) *Client {
	return NewClient(Config{
		APIKey:           key,
		BaseURL:          u.server.URL,
		Model:            "test-model",
		StructuredOutput: true,
		HTTPClient:       u.server.Client(),
	})
}

func TestGenerate_Envelope(t *testing.T) {
	u := newUpstream(t, http.StatusOK, envelopeFor(randevuJSON))

	got, err := u.client("secret key").Generate(context.Background(), "Basit bir randevu formu oluştur")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AppName != "Randevu" || len(got.Elements) != 2 {
		t.Fatalf("unexpected schema %+v", got)
	}
	if got.Elements[0].Type != schema.TypeHeading || got.Elements[1].Label != "Ad Soyad" {
		t.Errorf("unexpected elements %+v", got.Elements)
	}
	if u.calls.Load() != 1 {
		t.Errorf("expected exactly one request, got %d", u.calls.Load())
	}
}

func TestGenerate_KeyInQueryOnly(t *testing.T) {
	u := newUpstream(t, http.StatusOK, randevuJSON)

	if _, err := u.client("k&y=1").Generate(context.Background(), "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := u.last.Load()
	if r.URL.Path != "/models/test-model:generateContent" {
		t.Errorf("unexpected path %q", r.URL.Path)
	}
	if r.URL.Query().Get("key") != "k&y=1" {
		t.Errorf("expected key in query, got %q", r.URL.RawQuery)
	}
	if r.Header.Get("Authorization") != "" {
		t.Error("credential must not be sent as an Authorization header")
	}

	var req generateRequest
	if err := json.Unmarshal(*u.body.Load(), &req); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	text := req.Contents[0].Parts[0].Text
	if !strings.HasPrefix(text, Instruction) || !strings.HasSuffix(text, "User Request: x") {
		t.Errorf("unexpected prompt text %q", text)
	}
	if req.GenerationConfig == nil || req.GenerationConfig.ResponseMimeType != "application/json" {
		t.Error("expected JSON output to be requested")
	}
}

func TestGenerate_FenceRoundTrip(t *testing.T) {
	plain := newUpstream(t, http.StatusOK, envelopeFor(randevuJSON))
	fenced := newUpstream(t, http.StatusOK, envelopeFor("```json\n"+randevuJSON+"\n```"))

	want, err := plain.client("k").Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("plain: %v", err)
	}
	got, err := fenced.client("k").Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("fenced: %v", err)
	}

	a, _ := schema.Marshal(*want)
	b, _ := schema.Marshal(*got)
	if string(a) != string(b) {
		t.Errorf("fenced output differs:\n%s\n%s", a, b)
	}
}

func TestGenerate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   Kind
		reason Reason
	}{
		{"malformed", http.StatusOK, envelopeFor("Sure! Here's your app:"), MalformedResponse, ""},
		{"missing elements", http.StatusOK, envelopeFor(`{"appName":"X","description":"Y"}`), InvalidSchema, ""},
		{"wrong kind", http.StatusOK, envelopeFor(`{"appName":"X","description":"Y","elements":{}}`), InvalidSchema, ""},
		{"empty text", http.StatusOK, envelopeFor("  "), EmptyResponse, ""},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, EmptyResponse, ""},
		{"unwrapped without appName", http.StatusOK, `{"description":"Y","elements":[]}`, InvalidSchema, ""},
		{"unwrapped without elements", http.StatusOK, `{"appName":"X","description":"Y"}`, InvalidSchema, ""},
		{"unwrapped array", http.StatusOK, `[{"appName":"X"}]`, InvalidSchema, ""},
		{"unwrapped text", http.StatusOK, `Sure! Here's your app:`, MalformedResponse, ""},
		{"bad request", http.StatusBadRequest, `{"error":{"message":"bad prompt"}}`, UpstreamRejected, ReasonBadInput},
		{"unauthorized", http.StatusForbidden, `{}`, UpstreamRejected, ReasonAuth},
		{"rate limited", http.StatusTooManyRequests, `{}`, UpstreamRejected, ReasonRateLimit},
		{"server error", http.StatusBadGateway, `oops`, UpstreamRejected, ReasonServerError},
		{"other status", http.StatusTeapot, `{}`, UpstreamRejected, ReasonOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newUpstream(t, tt.status, tt.body)
			got, err := u.client("k").Generate(context.Background(), "p")
			if got != nil {
				t.Errorf("expected no schema, got %+v", got)
			}
			var ge *Error
			if !errors.As(err, &ge) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if ge.Kind != tt.kind || ge.Reason != tt.reason {
				t.Errorf("expected %s/%s, got %s/%s", tt.kind, tt.reason, ge.Kind, ge.Reason)
			}
			if ge.UserMessage() == "" {
				t.Error("expected a user message")
			}
			if u.calls.Load() != 1 {
				t.Errorf("expected no retry, got %d calls", u.calls.Load())
			}
		})
	}
}

func TestGenerate_UpstreamMessage(t *testing.T) {
	u := newUpstream(t, http.StatusBadRequest, `{"error":{"message":"API key not valid"}}`)

	_, err := u.client("k").Generate(context.Background(), "p")
	var ge *Error
	if !errors.As(err, &ge) || ge.Message != "API key not valid" || ge.Status != http.StatusBadRequest {
		t.Fatalf("unexpected error %#v", err)
	}
	if ge.UserMessage() != "Geçersiz istek. Lütfen prompt'unuzu kontrol edin." {
		t.Errorf("unexpected user message %q", ge.UserMessage())
	}
}

func TestGenerate_MalformedKeepsRaw(t *testing.T) {
	u := newUpstream(t, http.StatusOK, envelopeFor("```json\n{not json}\n```"))

	_, err := u.client("k").Generate(context.Background(), "p")
	var ge *Error
	if !errors.As(err, &ge) || ge.Kind != MalformedResponse {
		t.Fatalf("expected MalformedResponse, got %v", err)
	}
	if ge.Raw != "{not json}" {
		t.Errorf("expected raw text to be kept, got %q", ge.Raw)
	}
}

func TestGenerate_NormalisesIDs(t *testing.T) {
	body := `{"appName":"X","description":"Y","elements":[{"id":"a","type":"heading","label":"1"},{"id":"a","type":"heading","label":"2"}]}`
	u := newUpstream(t, http.StatusOK, envelopeFor(body))

	got, err := u.client("k").Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(schema.DuplicateIDs(*got)) != 0 {
		t.Errorf("expected unique ids, got %+v", got.Elements)
	}
}

func TestGenerate_MissingCredential(t *testing.T) {
	u := newUpstream(t, http.StatusOK, randevuJSON)

	_, err := u.client("").Generate(context.Background(), "p")
	if KindOf(err) != CredentialMissing {
		t.Fatalf("expected CredentialMissing, got %v", err)
	}
	var ge *Error
	errors.As(err, &ge)
	if ge.Hint() != "GEMINI_API_KEY eksik." {
		t.Errorf("unexpected hint %q", ge.Hint())
	}
	if u.calls.Load() != 0 {
		t.Error("no request may be sent without a credential")
	}
}

func TestGenerate_EmptyPrompt(t *testing.T) {
	u := newUpstream(t, http.StatusOK, randevuJSON)

	if _, err := u.client("k").Generate(context.Background(), "   "); !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("expected ErrEmptyPrompt, got %v", err)
	}
}

func TestGenerate_ConnectionFailure(t *testing.T) {
	u := newUpstream(t, http.StatusOK, randevuJSON)
	c := u.client("secret")
	u.server.Close()

	_, err := c.Generate(context.Background(), "p")
	if KindOf(err) != UpstreamRequestFailed {
		t.Fatalf("expected UpstreamRequestFailed, got %v", err)
	}
	if strings.Contains(err.Error(), "secret") {
		t.Errorf("credential leaked into error: %v", err)
	}
}

func TestStripFences(t *testing.T) {
	tests := map[string]string{
		"```json\n{}\n```": "{}",
		"```JSON {} ```":   "{}",
		"```\n{}\n```":     "{}",
		"  {}  ":           "{}",
		"{}```":            "{}",
	}
	for in, want := range tests {
		if got := StripFences(in); got != want {
			t.Errorf("StripFences(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInstructionListsEveryType(t *testing.T) {
	for _, typ := range schema.ElementTypes {
		if !strings.Contains(Instruction, "- "+string(typ)) {
			t.Errorf("instruction is missing %s", typ)
		}
	}
}

func TestGenerate_Deadline(t *testing.T) {
	u := newUpstream(t, http.StatusOK, randevuJSON)

	ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()

	_, err := u.client("k").Generate(ctx, "p")
	if KindOf(err) != UpstreamRequestFailed {
		t.Fatalf("expected UpstreamRequestFailed, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline to be reported, got %v", err)
	}
}

func TestGenerate_ClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := NewClient(Config{
		APIKey:     "k",
		BaseURL:    srv.URL,
		HTTPClient: &http.Client{Timeout: 20 * time.Millisecond},
	})
	_, err := c.Generate(context.Background(), "p")
	if KindOf(err) != UpstreamRequestFailed || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected a timed out request, got %v", err)
	}
}

func TestGenerate_Canceled(t *testing.T) {
	u := newUpstream(t, http.StatusOK, randevuJSON)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := u.client("k").Generate(ctx, "p")
	if !errors.Is(err, context.Canceled) || KindOf(err) != "" {
		t.Fatalf("expected bare cancellation, got %v", err)
	}
}

func TestGenerate_TracesWithoutKey(t *testing.T) {
	u := newUpstream(t, http.StatusOK, randevuJSON)
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	c := NewClient(Config{APIKey: "top-secret", BaseURL: u.server.URL, TracerProvider: tp})
	if _, err := c.Generate(context.Background(), "p"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected one client span, got %d", len(spans))
	}
	for _, kv := range spans[0].Attributes() {
		if strings.Contains(kv.Value.Emit(), "top-secret") {
			t.Errorf("attribute %s leaks the key: %s", kv.Key, kv.Value.Emit())
		}
	}
	if u.last.Load().URL.Query().Get("key") != "top-secret" {
		t.Error("expected the key to reach the upstream")
	}
}
