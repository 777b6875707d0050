package handlers

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/rapidlu/backend/internal/translation"
)

type TranslationHandler struct {
	svc *translation.Service
}

func NewTranslationHandler(svc *translation.Service) *TranslationHandler {
	return &TranslationHandler{svc: svc}
}

type translationRequest struct {
	Text           string `json:"text"`
	Length         string `json:"length"`
	SummaryLength  string `json:"summaryLength"`
	SourceLanguage string `json:"sourceLanguage"`
	TargetLanguage string `json:"targetLanguage"`
}

func (req *translationRequest) source() string {
	if req.SourceLanguage == "" {
		return translation.DefaultSourceLanguage
	}
	return req.SourceLanguage
}

func (h *TranslationHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req translationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "Text is required for summarization")
		return
	}

	summary, err := h.svc.Summarize(r.Context(), req.Text, translation.ParseLength(req.Length))
	if err != nil {
		translationError(w, "Failed to summarize text", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"originalLength": utf8.RuneCountInString(req.Text),
		"summaryLength":  utf8.RuneCountInString(summary),
		"summary":        summary,
	})
}

func (h *TranslationHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req translationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.Text == "" || req.TargetLanguage == "" {
		writeError(w, http.StatusBadRequest, "Text and target language are required")
		return
	}

	out, err := h.svc.Translate(r.Context(), req.Text, req.source(), req.TargetLanguage)
	if err != nil {
		translationError(w, "Failed to translate text", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"sourceLanguage": req.source(),
		"targetLanguage": req.TargetLanguage,
		"originalText":   req.Text,
		"translation":    out,
	})
}

func (h *TranslationHandler) SummarizeAndTranslate(w http.ResponseWriter, r *http.Request) {
	var req translationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.Text == "" || req.TargetLanguage == "" {
		writeError(w, http.StatusBadRequest, "Text and target language are required")
		return
	}

	res, err := h.svc.SummarizeAndTranslate(r.Context(), req.Text, req.source(), req.TargetLanguage,
		translation.ParseLength(req.SummaryLength))
	if err != nil {
		translationError(w, "Failed to summarize and translate", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"sourceLanguage":    req.source(),
		"targetLanguage":    req.TargetLanguage,
		"originalLength":    utf8.RuneCountInString(req.Text),
		"summaryLength":     utf8.RuneCountInString(res.Summary),
		"translationLength": utf8.RuneCountInString(res.Translation),
		"summary":           res.Summary,
		"translation":       res.Translation,
	})
}

func (h *TranslationHandler) Languages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"languages": h.svc.Languages(),
	})
}

func translationError(w http.ResponseWriter, summary string, err error) {
	if errors.Is(err, translation.ErrValidation) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeFailure(w, summary, err)
}
