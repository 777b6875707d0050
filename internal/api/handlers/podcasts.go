package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rapidlu/backend/internal/podcast"
)

type PodcastHandler struct {
	svc *podcast.Service
}

func NewPodcastHandler(svc *podcast.Service) *PodcastHandler {
	return &PodcastHandler{svc: svc}
}

func (h *PodcastHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query parameter is required")
		return
	}
	limit := podcast.ParseLimit(r.URL.Query().Get("limit"), podcast.DefaultSearchLimit)

	results, err := h.svc.Search(r.Context(), query, limit)
	if err != nil {
		podcastError(w, "Failed to search podcasts", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"query":   query,
		"results": results,
	})
}

func (h *PodcastHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Podcast(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		podcastError(w, "Failed to get podcast details", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "podcast": p})
}

func (h *PodcastHandler) Episodes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit := podcast.ParseLimit(r.URL.Query().Get("limit"), podcast.DefaultEpisodeLimit)

	episodes, err := h.svc.Episodes(r.Context(), id, limit)
	if err != nil {
		podcastError(w, "Failed to get podcast episodes", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"podcastId": id,
		"episodes":  episodes,
	})
}

func (h *PodcastHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	episodeID := chi.URLParam(r, "episodeId")

	transcript, err := h.svc.Transcript(r.Context(), episodeID)
	if err != nil {
		podcastError(w, "Failed to get episode transcript", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"episodeId":  episodeID,
		"transcript": transcript,
	})
}

func (h *PodcastHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}

	analysis, err := podcast.AnalyzeURL(req.URL)
	if err != nil {
		podcastError(w, "Failed to analyze podcast URL", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"url":      req.URL,
		"analysis": analysis,
	})
}

func podcastError(w http.ResponseWriter, summary string, err error) {
	if errors.Is(err, podcast.ErrValidation) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeFailure(w, summary, err)
}
