package resilience

import (
	"context"
	"errors"

	"github.com/kirillkom/portfolio-feed/internal/core/domain"
)

// Classify applies the rules shared by every adapter: cancellations are
// neither retried nor counted, open breakers are retried, and the rest is
// decided by transient.
func Classify(err error, transient func(error) bool) ErrorClassification {
	switch {
	case err == nil:
		return ErrorClassification{}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorClassification{Retryable: false, RecordFailure: false}
	case IsCircuitOpen(err):
		return ErrorClassification{Retryable: true, RecordFailure: true}
	case transient != nil && transient(err):
		return ErrorClassification{Retryable: true, RecordFailure: true}
	default:
		return ErrorClassification{Retryable: false, RecordFailure: true}
	}
}

// WrapTemporary marks retryable failures with domain.ErrTemporary so callers
// can map them to 503.
func WrapTemporary(err error, operation string, classifier ErrorClassifier) error {
	if err == nil || domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if classifier(err).Retryable {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return err
}
