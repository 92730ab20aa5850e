package ledger

import (
	"errors"
	"fmt"
)

// ErrCorrupt marks a ledger document that exists but cannot be trusted.
var ErrCorrupt = errors.New("ledger: invalid document")

// StorageError reports an I/O failure or an unreadable ledger document.
// It is fatal for the operation in progress; the ledger is never
// reinitialised over a document that failed to load.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("ledger %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
