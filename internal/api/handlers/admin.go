package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rapidlu/backend/internal/llm"
	"github.com/rapidlu/backend/internal/tts"
	"github.com/rapidlu/backend/internal/usage"
)

// UsageSummarizer aggregates the usage log. usage.PostgresRecorder implements
// it.
type UsageSummarizer interface {
	Summary(ctx context.Context, startDate, endDate *time.Time) ([]usage.Summary, error)
}

type AdminHandler struct {
	usage   UsageSummarizer
	tts     *tts.Service
	gateway *llm.Gateway
}

// NewAdminHandler wires the operator endpoints. summarizer may be nil when no
// database is configured.
func NewAdminHandler(summarizer UsageSummarizer, ttsSvc *tts.Service, gw *llm.Gateway) *AdminHandler {
	return &AdminHandler{usage: summarizer, tts: ttsSvc, gateway: gw}
}

func (h *AdminHandler) Usage(w http.ResponseWriter, r *http.Request) {
	if h.usage == nil {
		writeError(w, http.StatusServiceUnavailable, "usage log is not configured")
		return
	}

	startDate, err := parseDateParam(r, "start_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date")
		return
	}
	endDate, err := parseDateParam(r, "end_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date")
		return
	}

	summary, err := h.usage.Summary(r.Context(), startDate, endDate)
	if err != nil {
		writeFailure(w, "Failed to load usage", err)
		return
	}
	if summary == nil {
		summary = []usage.Summary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "usage": summary})
}

// Providers lists the configured TTS vendors in priority order and the LLM
// models the gateway can route to.
func (h *AdminHandler) Providers(w http.ResponseWriter, _ *http.Request) {
	ttsProviders := h.tts.Providers()
	if ttsProviders == nil {
		ttsProviders = []string{}
	}
	models := h.gateway.ListModels()
	if models == nil {
		models = []llm.ModelInfo{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"tts":        ttsProviders,
		"llm_models": models,
	})
}

// parseDateParam accepts RFC 3339 timestamps or plain dates.
func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
