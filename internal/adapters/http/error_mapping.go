package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/kirillkom/portfolio-feed/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case domain.IsKind(err, domain.ErrFeedNotFound), domain.IsKind(err, domain.ErrAssetNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrAssetExists):
		return http.StatusConflict
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := mapErrorToHTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("http_handler_failed", "error", err)
		message = "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": message})
}
