package tts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestNormalize_Defaults(t *testing.T) {
	req, err := Request{Text: "hi"}.Normalize()
	require.NoError(t, err)

	assert.Equal(t, DefaultVoice, req.Voice)
	assert.Equal(t, DefaultLanguage, req.Language)
	assert.Equal(t, DefaultSpeed, req.Speed)
	assert.Equal(t, QualityPodcast, req.Quality)
}

func TestRequestNormalize_Rejects(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"empty text", Request{}},
		{"whitespace text", Request{Text: "  \n\t"}},
		{"negative speed", Request{Text: "hi", Speed: -1}},
		{"unknown quality", Request{Text: "hi", Quality: "lofi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.Normalize()
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestEstimateDuration_CountsRunes(t *testing.T) {
	assert.Equal(t, 1.0, EstimateDuration("Hello world"))
	assert.Equal(t, 0.0, EstimateDuration("short"))
	// 12 runes, 24 bytes
	assert.Equal(t, 1.0, EstimateDuration("привет, мир!"))
}

func TestFilterByLanguage_CaseInsensitiveSubstring(t *testing.T) {
	voices := []Voice{
		{ID: "a", Language: "English (US)"},
		{ID: "b", Language: "Spanish (Spain)"},
		{ID: "c", Language: "english"},
	}
	got := FilterByLanguage(voices, "ENGLISH")
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)

	assert.Len(t, FilterByLanguage(voices, ""), 3)
}

func TestProviderError_Unwrap(t *testing.T) {
	err := &ProviderError{Provider: "playht", Message: "poll job", Cause: ErrTimeout}
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Contains(t, err.Error(), "playht")

	withStatus := &ProviderError{Provider: "elevenlabs", StatusCode: 401, Message: "unauthorized"}
	assert.Contains(t, withStatus.Error(), "status 401")
}
