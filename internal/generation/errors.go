package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a generation failure.
type Kind string

const (
	CredentialMissing     Kind = "credential_missing"
	UpstreamRequestFailed Kind = "upstream_request_failed"
	UpstreamRejected      Kind = "upstream_rejected"
	EmptyResponse         Kind = "empty_response"
	MalformedResponse     Kind = "malformed_response"
	InvalidSchema         Kind = "invalid_schema"
)

// Reason refines UpstreamRejected by HTTP status.
type Reason string

const (
	ReasonBadInput    Reason = "bad_input"
	ReasonAuth        Reason = "auth"
	ReasonRateLimit   Reason = "rate_limit"
	ReasonServerError Reason = "server_error"
	ReasonOther       Reason = "other"
)

// ReasonFor maps an upstream status code to a Reason.
func ReasonFor(status int) Reason {
	switch {
	case status == http.StatusBadRequest:
		return ReasonBadInput
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ReasonAuth
	case status == http.StatusTooManyRequests:
		return ReasonRateLimit
	case status >= 500:
		return ReasonServerError
	default:
		return ReasonOther
	}
}

// Error is returned by Client.Generate for every failure.
type Error struct {
	Kind   Kind
	Reason Reason
	// Status is the upstream HTTP status for UpstreamRejected.
	Status int
	// Message is the upstream error message, if the body carried one.
	Message string
	// Raw is the model text for MalformedResponse and InvalidSchema.
	Raw string
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == UpstreamRejected && e.Message != "":
		return fmt.Sprintf("generation: %s (%s, HTTP %d): %s", e.Kind, e.Reason, e.Status, e.Message)
	case e.Kind == UpstreamRejected:
		return fmt.Sprintf("generation: %s (%s, HTTP %d)", e.Kind, e.Reason, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("generation: %s: %v", e.Kind, e.Err)
	default:
		return "generation: " + string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage is the message shown next to the generate control.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case CredentialMissing:
		return "API anahtarı yapılandırılmamış. Lütfen sunucu ayarlarını kontrol edin."
	case UpstreamRequestFailed:
		if errors.Is(e.Err, context.DeadlineExceeded) {
			return "AI servisi zamanında yanıt vermedi. Lütfen tekrar deneyin."
		}
		return "Bağlantı hatası. İnternet bağlantınızı kontrol edin."
	case EmptyResponse:
		return "AI yanıtı boş döndü. Lütfen tekrar deneyin."
	case MalformedResponse:
		return "AI çıktısı geçerli bir JSON formatında değil. Lütfen tekrar deneyin."
	case InvalidSchema:
		return "AI geçersiz bir yapı döndürdü. Lütfen tekrar deneyin."
	}
	switch e.Reason {
	case ReasonBadInput:
		return "Geçersiz istek. Lütfen prompt'unuzu kontrol edin."
	case ReasonAuth:
		return "API anahtarı geçersiz veya yetkisiz."
	case ReasonRateLimit:
		return "Çok fazla istek gönderildi. Lütfen birkaç saniye bekleyip tekrar deneyin."
	case ReasonServerError:
		return "AI servisi şu anda yanıt vermiyor. Lütfen daha sonra tekrar deneyin."
	}
	return "Sunucu hatası oluştu."
}

// Hint returns a remediation hint for operator-side failures.
func (e *Error) Hint() string {
	switch {
	case e.Kind == CredentialMissing:
		return "GEMINI_API_KEY eksik."
	case e.Kind == UpstreamRejected && e.Reason == ReasonAuth:
		return "GEMINI_API_KEY değerini kontrol edin."
	}
	return ""
}

// KindOf returns the Kind of err, or "" if err is not a generation error.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}
