package ingester

import (
	"errors"
	"fmt"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/model"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/pipeline/retry"
)

// ErrFatal marks an apply failure that must halt the worker. The cursor is
// not advanced and the next process start replays the checkpoint.
var ErrFatal = errors.New("projection apply fatal")

// SkipError rejects a single event. The event's savepoint is rolled back,
// an audit row is written and the rest of the checkpoint still commits.
type SkipError struct {
	Reason model.AuditReason
	Detail string
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("skip event: %s: %s", e.Reason, e.Detail)
}

func skipf(reason model.AuditReason, format string, args ...any) error {
	return &SkipError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

func invalidf(format string, args ...any) error {
	return skipf(model.AuditReasonValidationError, format, args...)
}

// IsSkip reports whether err rejects only the current event.
func IsSkip(err error) (*SkipError, bool) {
	var skip *SkipError
	if errors.As(err, &skip) {
		return skip, true
	}
	return nil, false
}

// asSkip reports whether err rejects only the current event: an explicit
// SkipError, or a value Postgres refused to store inside the event's
// savepoint.
func asSkip(err error) (*SkipError, bool) {
	if skip, ok := IsSkip(err); ok {
		return skip, true
	}
	if retry.IsDataException(err) {
		return &SkipError{Reason: model.AuditReasonDataError, Detail: err.Error()}, true
	}
	return nil, false
}
