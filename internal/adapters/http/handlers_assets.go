package httpadapter

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/kirillkom/portfolio-feed/internal/core/domain"
)

func (rt *Router) uploadAsset(w http.ResponseWriter, r *http.Request) {
	if !isAuthorizedBearerHeader(r.Header.Get("Authorization"), rt.adminAPIKey) {
		writeError(w, domain.WrapError(domain.ErrUnauthorized, "upload asset", errors.New("missing or invalid bearer token")))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	asset, err := rt.uploader.Upload(r.Context(), r.FormValue("category"), fileHeader.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, asset)
}

func (rt *Router) serveAsset(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	body, err := rt.assets.Open(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	defer body.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		slog.Warn("asset_stream_failed", "key", key, "error", err)
	}
}
