package overlay

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/poiesic/pageseek/core"
)

// NewHandler builds the JSON API over a controller:
//
//	GET  /api/search?q=    search the store
//	POST /api/navigate     resolve a selected result
//	POST /api/pageload     page-arrival hook
//	GET  /healthz          liveness
func NewHandler(controller *Controller, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{controller: controller, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthzHandler)
	r.Get("/api/search", h.searchHandler)
	r.Post("/api/navigate", h.navigateHandler)
	r.Post("/api/pageload", h.pageLoadHandler)

	return r
}

type handler struct {
	controller *Controller
	logger     *slog.Logger
}

// matchJSON is the wire shape of a search result.
type matchJSON struct {
	UnitID        string `json:"unitId"`
	Title         string `json:"title"`
	Preview       string `json:"preview"`
	PageTitle     string `json:"pageTitle"`
	PageURL       string `json:"pageUrl"`
	IsCurrentPage bool   `json:"isCurrentPage"`
	Relevance     int    `json:"relevance"`
}

type searchResponse struct {
	Query   string      `json:"query"`
	NoQuery bool        `json:"noQuery"`
	Results []matchJSON `json:"results"`
}

func (h *handler) searchHandler(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("q")

	results, noQuery, err := h.controller.QueryChanged(r.Context(), raw)
	if err != nil {
		h.logger.Error("error searching", "err", err)
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}

	resp := searchResponse{Query: raw, NoQuery: noQuery, Results: toMatchJSON(results)}
	writeJSON(w, http.StatusOK, resp)
}

type navigateRequest struct {
	UnitID  string `json:"unitId"`
	PageURL string `json:"pageUrl"`
	Query   string `json:"query"`
}

type navigateResponse struct {
	Action string `json:"action"`
}

func (h *handler) navigateHandler(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UnitID == "" || req.PageURL == "" {
		http.Error(w, "unitId and pageUrl are required", http.StatusBadRequest)
		return
	}

	action, err := h.controller.ResultSelected(r.Context(), req.UnitID, req.PageURL, req.Query)
	if err != nil {
		h.logger.Error("error resolving result", "unit_id", req.UnitID, "err", err)
		http.Error(w, "navigation failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, navigateResponse{Action: action.String()})
}

func (h *handler) pageLoadHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.PageLoaded(r.Context()); err != nil {
		h.logger.Error("error handling page load", "err", err)
		http.Error(w, "page load failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func healthzHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toMatchJSON(matches []*core.Match) []matchJSON {
	out := make([]matchJSON, len(matches))
	for i, m := range matches {
		out[i] = matchJSON{
			UnitID:        m.UnitID,
			Title:         m.Title,
			Preview:       m.Preview,
			PageTitle:     m.PageTitle,
			PageURL:       m.PageURL,
			IsCurrentPage: m.IsCurrentPage,
			Relevance:     m.Relevance,
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("error encoding JSON response", "err", err)
	}
}
