package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kirillkom/portfolio-feed/internal/config"
	"github.com/kirillkom/portfolio-feed/internal/core/ports"
)

const maxUploadBytes = 32 << 20

type Router struct {
	feeds    ports.FeedService
	catalog  ports.CatalogService
	uploader ports.AssetUploader
	assets   ports.ObjectStorage

	adminAPIKey      string
	rateLimitRPS     float64
	rateLimitBurst   int
	maxInFlight      int
	backpressureWait time.Duration
	validator        *requestValidator
}

func NewRouter(
	cfg config.Config,
	feeds ports.FeedService,
	catalog ports.CatalogService,
	uploader ports.AssetUploader,
	assets ports.ObjectStorage,
) *Router {
	validator, err := newRequestValidator(openAPISpec)
	if err != nil {
		panic(fmt.Sprintf("load embedded openapi document: %v", err))
	}
	return &Router{
		feeds:            feeds,
		catalog:          catalog,
		uploader:         uploader,
		assets:           assets,
		adminAPIKey:      cfg.AdminAPIKey,
		rateLimitRPS:     cfg.APIRateLimitRPS,
		rateLimitBurst:   cfg.APIRateLimitBurst,
		maxInFlight:      cfg.APIMaxInFlight,
		backpressureWait: cfg.APIBackpressureWait,
		validator:        validator,
	}
}

func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(accessLogMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", rt.healthz)
	r.Get("/swagger/openapi.yaml", rt.swaggerSpec)
	r.Get("/assets/*", rt.serveAsset)

	r.Route("/v1", func(r chi.Router) {
		r.Use(newRateLimitMiddleware(rt.rateLimitRPS, rt.rateLimitBurst))
		r.Use(func(next http.Handler) http.Handler {
			return backpressureMiddleware(next, rt.maxInFlight, rt.backpressureWait)
		})
		r.Use(rt.validator.middleware)

		r.Post("/feeds", rt.createFeed)
		r.Get("/feeds/{feedID}", rt.getFeed)
		r.Post("/feeds/{feedID}/reroll", rt.rerollFeed)
		r.Delete("/feeds/{feedID}", rt.deleteFeed)

		r.Get("/projects", rt.listProjects)
		r.Get("/projects/export.xlsx", rt.exportProjects)

		r.Post("/assets", rt.uploadAsset)
	})

	return r
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) swaggerSpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPISpec)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
