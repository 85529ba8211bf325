package nats

import (
	"errors"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/portfolio-feed/internal/infrastructure/resilience"
)

func classifyNATSError(err error) resilience.ErrorClassification {
	return resilience.Classify(err, isTransientNATSError)
}

func isTransientNATSError(err error) bool {
	return errors.Is(err, nats.ErrNoServers) ||
		errors.Is(err, nats.ErrTimeout) ||
		errors.Is(err, nats.ErrConnectionClosed) ||
		errors.Is(err, nats.ErrDisconnected) ||
		errors.Is(err, nats.ErrConnectionReconnecting)
}

func wrapTemporaryIfNeeded(err error) error {
	return resilience.WrapTemporary(err, "nats publish", classifyNATSError)
}
