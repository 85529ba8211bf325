package postgres

import (
	"database/sql/driver"
	"errors"
	"net"

	"github.com/kirillkom/portfolio-feed/internal/infrastructure/resilience"
)

func classifyPostgresError(err error) resilience.ErrorClassification {
	return resilience.Classify(err, isTransientPostgresError)
}

func isTransientPostgresError(err error) bool {
	var netErr net.Error
	return errors.Is(err, driver.ErrBadConn) || errors.As(err, &netErr)
}

func wrapTemporaryIfNeeded(err error) error {
	return resilience.WrapTemporary(err, "postgres replace catalog", classifyPostgresError)
}
