package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type handlers struct {
	svc NewsService
}

func (h *handlers) root(w http.ResponseWriter, _ *http.Request) {
	WriteJSONResponse(w, map[string]string{
		"status":  "ok",
		"message": "News aggregator API is running. See /sources and /news.",
	}, http.StatusOK)
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	WriteJSONResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (h *handlers) listSources(w http.ResponseWriter, _ *http.Request) {
	WriteJSONResponse(w, h.svc.ListSources(), http.StatusOK)
}

func (h *handlers) fetchAll(w http.ResponseWriter, r *http.Request) {
	WriteJSONResponse(w, h.svc.FetchAll(r.Context()), http.StatusOK)
}

// fetchOne answers 200 with an empty list for unknown ids, like an empty source.
func (h *handlers) fetchOne(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sourceID")
	WriteJSONResponse(w, h.svc.FetchOne(r.Context(), id), http.StatusOK)
}
