package translation

import (
	"fmt"
	"strings"
)

var mockSummaries = map[Length]string{
	LengthShort: "This podcast discusses interesting topics with valuable insights for listeners.",
	LengthMedium: "This podcast episode covers several important topics with expert analysis and engaging discussion. " +
		"The hosts provide valuable insights and practical advice that listeners can apply to their own situations. " +
		"The conversation is both informative and entertaining.",
	LengthLong: "This podcast episode provides an in-depth exploration of various topics with expert guests and hosts. " +
		"The discussion covers multiple perspectives and offers practical insights that are valuable for the audience. " +
		"Throughout the episode, the hosts maintain an engaging conversational style while delivering informative content. " +
		"The topics discussed are relevant and timely, making this episode particularly valuable for listeners interested in the subject matter. " +
		"Key takeaways include practical advice and actionable insights that can be implemented by the audience.",
}

var mockTranslations = map[string]string{
	"es": "Esta es una traducción simulada al español del texto proporcionado.",
	"fr": "Ceci est une traduction simulée en français du texte fourni.",
	"de": "Dies ist eine Scheinübersetzung des bereitgestellten Textes ins Deutsche.",
	"it": "Questa è una traduzione simulata in italiano del testo fornito.",
	"pt": "Esta é uma tradução simulada em português do texto fornecido.",
}

// MockSummary returns the canned summary for length.
func MockSummary(length Length) string {
	return mockSummaries[ParseLength(string(length))]
}

// MockTranslation returns a canned sentence for the five most common targets
// and a labelled excerpt of text otherwise. target may be a code, an English
// name or a native name.
func MockTranslation(text, target string) string {
	if s, ok := mockTranslations[languageCode(target)]; ok {
		return s
	}
	excerpt := []rune(text)
	if len(excerpt) > 100 {
		excerpt = excerpt[:100]
	}
	return fmt.Sprintf("[Mock translation to %s]: %s...", target, string(excerpt))
}

func languageCode(target string) string {
	t := strings.TrimSpace(target)
	for _, l := range supportedLanguages {
		if strings.EqualFold(t, l.Code) || strings.EqualFold(t, l.Name) || t == l.NativeName {
			return l.Code
		}
	}
	r := []rune(strings.ToLower(t))
	if len(r) > 2 {
		r = r[:2]
	}
	return string(r)
}
