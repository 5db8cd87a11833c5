package media

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tripstudioapp/tripstudio/internal/platform"
)

// ErrSlotCountMismatch means the staging call returned a different number of
// upload slots than files requested. That breaks the positional pairing the
// rest of the pipeline depends on, so the call fails without retry.
var ErrSlotCountMismatch = errors.New("staged upload slot count mismatch")

// ValidationError carries remote-reported per-item errors verbatim.
type ValidationError struct {
	Errors []platform.UserError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ue := range e.Errors {
		if len(ue.Field) > 0 {
			msgs = append(msgs, strings.Join(ue.Field, ".")+": "+ue.Message)
		} else {
			msgs = append(msgs, ue.Message)
		}
	}
	return "validation: " + strings.Join(msgs, "; ")
}

// StagingError is a terminal failure of the slot-request phase.
type StagingError struct {
	Err error
}

func (e *StagingError) Error() string { return "staging: " + e.Err.Error() }
func (e *StagingError) Unwrap() error { return e.Err }

// TransferError is a terminal failure uploading one file's bytes to its
// staged target. Body carries the object store's response for diagnostics.
type TransferError struct {
	Filename   string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransferError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transfer %s: %v", e.Filename, e.Err)
	}
	return fmt.Sprintf("transfer %s: http %d: %s", e.Filename, e.StatusCode, e.Body)
}

func (e *TransferError) Unwrap() error { return e.Err }

// RegistrationError is a terminal failure of the batch-register phase.
type RegistrationError struct {
	Err error
}

func (e *RegistrationError) Error() string { return "registration: " + e.Err.Error() }
func (e *RegistrationError) Unwrap() error { return e.Err }
