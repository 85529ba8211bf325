package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (rt *Router) createFeed(w http.ResponseWriter, r *http.Request) {
	snapshot, err := rt.feeds.CreateFeed(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snapshot)
}

func (rt *Router) getFeed(w http.ResponseWriter, r *http.Request) {
	snapshot, err := rt.feeds.GetFeed(r.Context(), chi.URLParam(r, "feedID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (rt *Router) rerollFeed(w http.ResponseWriter, r *http.Request) {
	snapshot, err := rt.feeds.Reroll(r.Context(), chi.URLParam(r, "feedID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (rt *Router) deleteFeed(w http.ResponseWriter, r *http.Request) {
	if err := rt.feeds.DeleteFeed(r.Context(), chi.URLParam(r, "feedID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
