package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformed indicates the input is not a JSON document.
	ErrMalformed = errors.New("schema: malformed JSON")
	// ErrInvalid indicates the input is JSON but not an AppSchema.
	ErrInvalid = errors.New("schema: invalid structure")
)

// SyntaxError is returned by Parse when the input is not valid JSON.
type SyntaxError struct {
	Raw string
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("schema: malformed JSON: %v", e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Is matches ErrMalformed.
func (e *SyntaxError) Is(target error) bool { return target == ErrMalformed }

// ValidationError is returned by Parse when a field is missing or has the
// wrong kind.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "schema: " + e.Reason
	}
	return fmt.Sprintf("schema: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Is matches ErrInvalid.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }

// Parse decodes data into an AppSchema. Syntactically invalid JSON yields a
// *SyntaxError; JSON that lacks appName, description or elements, or whose
// fields have the wrong kind, yields a *ValidationError. Invalid JSON is
// never repaired.
func Parse(data []byte) (*AppSchema, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		var raw any
		if jsonErr := json.Unmarshal(data, &raw); jsonErr != nil {
			return nil, &SyntaxError{Raw: string(data), Err: jsonErr}
		}
		return nil, &ValidationError{Reason: "top-level value must be an object", Err: err}
	}

	name, err := requireString(top, "appName")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "appName", Reason: "must not be empty"}
	}
	if _, err := requireString(top, "description"); err != nil {
		return nil, err
	}
	var elements []json.RawMessage
	raw, ok := top["elements"]
	if !ok {
		return nil, &ValidationError{Field: "elements", Reason: "is required"}
	}
	if err := json.Unmarshal(raw, &elements); err != nil || elements == nil {
		return nil, &ValidationError{Field: "elements", Reason: "must be an array", Err: err}
	}

	var s AppSchema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &ValidationError{Field: fieldOf(err), Reason: "has the wrong kind", Err: err}
	}
	if s.Elements == nil {
		s.Elements = []Element{}
	}
	return &s, nil
}

func requireString(top map[string]json.RawMessage, field string) (string, error) {
	raw, ok := top[field]
	if !ok {
		return "", &ValidationError{Field: field, Reason: "is required"}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || string(raw) == "null" {
		return "", &ValidationError{Field: field, Reason: "must be a string", Err: err}
	}
	return s, nil
}

func fieldOf(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return typeErr.Field
	}
	return "elements"
}

// Marshal encodes s as compact JSON.
func Marshal(s AppSchema) ([]byte, error) {
	return json.Marshal(s)
}
