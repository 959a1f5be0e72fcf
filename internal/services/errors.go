// Package services holds the sqlite-backed collaborators of the builder:
// the project store, the lead store, accounts and the audit log.
package services

import (
	"errors"
	"fmt"
)

// ErrStoreOperationFailed matches every *StoreError.
var ErrStoreOperationFailed = errors.New("store operation failed")

// StoreError wraps a database failure with the operation that caused it.
// The wrapped error is kept for logging; Error omits it so that driver text
// is not shown to users.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s failed", e.Op)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool {
	return target == ErrStoreOperationFailed
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
