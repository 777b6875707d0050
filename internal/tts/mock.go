package tts

import "github.com/rapidlu/backend/internal/tts/jobstore"

// MockAudioData is a short base64 WAV clip returned whenever no real provider
// produced audio.
const MockAudioData = "UklGRnoGAABXQVZFZm10IBAAAAABAAEAQB8AAEAfAAABAAgAZGF0YQoGAACBhYqFbF1fdJivrJBhNjVgodDbq2EcBj+a2/LDciUFLIHO8tiJNwgZaLvt559NEAxQp+PwtmMcBjiR1/LMeSwFJHfH8N2QQAoUXrTp66hVFApGn+Ln"

// Mock builds the placeholder result for text. It never carries a job id.
func Mock(text string) *Result {
	data := MockAudioData
	return &Result{
		AudioData: &data,
		Duration:  floatPtr(EstimateDuration(text)),
		Format:    "wav",
		Provider:  ProviderMock,
		Status:    jobstore.StatusCompleted,
	}
}

var mockVoices = []Voice{
	{ID: "mock-1", Name: "Emma", Language: "English (US)", Gender: "female", Provider: ProviderMock},
	{ID: "mock-2", Name: "James", Language: "English (US)", Gender: "male", Provider: ProviderMock},
	{ID: "mock-3", Name: "Sofia", Language: "Spanish (Spain)", Gender: "female", Provider: ProviderMock},
	{ID: "mock-4", Name: "Marie", Language: "French (France)", Gender: "female", Provider: ProviderMock},
	{ID: "mock-5", Name: "Hans", Language: "German (Germany)", Gender: "male", Provider: ProviderMock},
}

// MockVoices returns the built-in voices whose language contains language.
func MockVoices(language string) []Voice {
	all := make([]Voice, len(mockVoices))
	copy(all, mockVoices)
	return FilterByLanguage(all, language)
}
