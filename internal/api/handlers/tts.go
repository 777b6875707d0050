package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rapidlu/backend/internal/tts"
)

type TTSHandler struct {
	svc *tts.Service
}

func NewTTSHandler(svc *tts.Service) *TTSHandler {
	return &TTSHandler{svc: svc}
}

type generateSpeechRequest struct {
	Text     string      `json:"text"`
	Voice    string      `json:"voice"`
	Language string      `json:"language"`
	Speed    float64     `json:"speed"`
	Quality  tts.Quality `json:"quality"`
}

func (h *TTSHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateSpeechRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "Text is required for speech generation")
		return
	}

	in := tts.Request{Text: req.Text, Voice: req.Voice, Language: req.Language, Speed: req.Speed, Quality: req.Quality}
	res, err := h.svc.Generate(r.Context(), in)
	if err != nil {
		h.generationError(w, "Failed to generate speech", err)
		return
	}

	in, _ = in.Normalize()
	body := map[string]any{
		"success":    true,
		"textLength": utf8.RuneCountInString(req.Text),
		"voice":      in.Voice,
		"language":   in.Language,
		"audioUrl":   res.AudioURL,
		"audioData":  res.AudioData,
		"duration":   res.Duration,
		"format":     res.Format,
		"provider":   res.Provider,
	}
	if res.JobID != "" {
		body["jobId"] = res.JobID
	}
	if res.Status != "" {
		body["status"] = res.Status
	}
	if res.Message != "" {
		body["message"] = res.Message
	}
	writeJSON(w, http.StatusOK, body)
}

type podcastAudioRequest struct {
	Text        string  `json:"text"`
	Voice       string  `json:"voice"`
	Language    string  `json:"language"`
	Speed       float64 `json:"speed"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Chapters    []any   `json:"chapters"`
}

// Podcast generates long-form narration at podcast quality.
func (h *TTSHandler) Podcast(w http.ResponseWriter, r *http.Request) {
	var req podcastAudioRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "Text is required for podcast generation")
		return
	}
	if req.Voice == "" {
		req.Voice = "podcast-narrator-male"
	}

	in := tts.Request{Text: req.Text, Voice: req.Voice, Language: req.Language, Speed: req.Speed, Quality: tts.QualityPodcast}
	res, err := h.svc.Generate(r.Context(), in)
	if err != nil {
		h.generationError(w, "Failed to generate podcast audio", err)
		return
	}
	in, _ = in.Normalize()

	title := req.Title
	if title == "" {
		title = "Generated Podcast"
	}
	description := req.Description
	if description == "" {
		description = "AI-generated podcast from text"
	}
	chapters := req.Chapters
	if chapters == nil {
		chapters = []any{}
	}

	slog.Info("generated podcast audio", "title", title, "provider", res.Provider, "job_id", res.JobID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"podcast": map[string]any{
			"title":       title,
			"description": description,
			"duration":    res.Duration,
			"chapters":    chapters,
		},
		"audio": map[string]any{
			"url":      res.AudioURL,
			"data":     res.AudioData,
			"format":   res.Format,
			"quality":  tts.QualityPodcast,
			"provider": res.Provider,
		},
		"generation": map[string]any{
			"id":                    uuid.NewString(),
			"voice_used":            in.Voice,
			"language":              in.Language,
			"speed":                 in.Speed,
			"text_length":           utf8.RuneCountInString(req.Text),
			"word_count":            len(strings.Fields(req.Text)),
			"estimated_listen_time": res.Duration,
			"job_id":                res.JobID,
		},
		"metadata": res.Metadata,
	})
}

func (h *TTSHandler) generationError(w http.ResponseWriter, summary string, err error) {
	if errors.Is(err, tts.ErrValidation) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeFailure(w, summary, err)
}

func (h *TTSHandler) Voices(w http.ResponseWriter, r *http.Request) {
	language := r.URL.Query().Get("language")
	voices := h.svc.Voices(r.Context(), language)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"language": languageOrAll(language),
		"voices":   voices,
	})
}

func (h *TTSHandler) PodcastVoices(w http.ResponseWriter, r *http.Request) {
	language := r.URL.Query().Get("language")
	voices, rec := h.svc.PodcastVoices(r.Context(), language)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"language":        languageOrAll(language),
		"total_voices":    len(voices),
		"voices":          voices,
		"recommendations": rec,
	})
}

func (h *TTSHandler) Status(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	job := h.svc.CheckStatus(r.Context(), jobID)

	var jobErr *string
	if job.Error != "" {
		jobErr = &job.Error
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"jobId":     jobID,
		"status":    job.Status,
		"progress":  job.Progress,
		"audioUrl":  job.AudioURL,
		"audioData": job.AudioData,
		"duration":  job.Duration,
		"provider":  job.Provider,
		"error":     jobErr,
		"metadata":  job.Metadata,
	})
}

func languageOrAll(language string) string {
	if language == "" {
		return "all"
	}
	return language
}
