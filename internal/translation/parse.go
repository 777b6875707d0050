package translation

import (
	"strings"
	"unicode/utf8"
)

const (
	summaryHeading     = "### SUMMARY"
	translationHeading = "### TRANSLATION"
)

// splitSummaryAndTranslation extracts both parts of a combined answer. It
// prefers the explicit headings, then lines that mention either word, and
// finally cuts the answer in half.
func splitSummaryAndTranslation(response string) (summary, translation string) {
	response = strings.TrimSpace(response)

	if s, t, ok := splitByHeadings(response); ok {
		return s, t
	}
	if s, t, ok := splitByLabels(response); ok {
		return s, t
	}
	return splitInHalf(response)
}

func splitByHeadings(response string) (string, string, bool) {
	var summary, translation []string
	var current *[]string
	found := 0

	for _, line := range strings.Split(response, "\n") {
		switch strings.ToUpper(strings.TrimSpace(line)) {
		case summaryHeading:
			current = &summary
			found |= 1
			continue
		case translationHeading:
			current = &translation
			found |= 2
			continue
		}
		if current != nil {
			*current = append(*current, line)
		}
	}
	if found != 3 {
		return "", "", false
	}

	s := strings.TrimSpace(strings.Join(summary, "\n"))
	t := strings.TrimSpace(strings.Join(translation, "\n"))
	return s, t, s != "" && t != ""
}

func splitByLabels(response string) (string, string, bool) {
	var summary, translation strings.Builder
	section := ""

	for _, line := range strings.Split(response, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "summary") || strings.Contains(lower, "summarize") {
			section = "summary"
			continue
		}
		if strings.Contains(lower, "translation") || strings.Contains(lower, "translate") {
			section = "translation"
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		switch section {
		case "summary":
			summary.WriteString(trimmed + " ")
		case "translation":
			translation.WriteString(trimmed + " ")
		}
	}

	s := strings.TrimSpace(summary.String())
	t := strings.TrimSpace(translation.String())
	return s, t, s != "" && t != ""
}

func splitInHalf(response string) (string, string) {
	half := utf8.RuneCountInString(response) / 2
	runes := []rune(response)
	return strings.TrimSpace(string(runes[:half])), strings.TrimSpace(string(runes[half:]))
}
