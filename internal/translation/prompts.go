package translation

import (
	"fmt"
	"regexp"
	"strings"
)

var variablePattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

const (
	summarizeSystem = "You are a helpful assistant that summarizes podcast transcripts. " +
		"Create clear, engaging summaries that capture the main points and key insights. " +
		"Focus on the most important and interesting content."
	summarizeUser = "Please summarize the following podcast transcript {{instruction}}:\n\n{{text}}"

	translateSystem = "You are a professional translator. Translate the given text accurately " +
		"while maintaining the original meaning, tone, and style. Provide natural, fluent " +
		"translations that sound like they were originally written in the target language."
	translateUser = "Translate the following text from {{source}} to {{target}}:\n\n{{text}}"

	combinedSystem = "You are a helpful assistant that summarizes and translates podcast content. " +
		"First, create a clear summary of the main points, then translate that summary into " +
		"the requested language while maintaining accuracy and natural flow."
	combinedUser = `Please:
1. Summarize the following podcast transcript {{instruction}}
2. Then translate that summary from {{source}} to {{target}}

Answer with exactly two sections, each starting on its own line:
` + summaryHeading + `
<the summary>
` + translationHeading + `
<the translation>

Transcript:
{{text}}`
)

// render replaces {{variable}} placeholders with values from vars.
func render(template string, vars map[string]string) (string, error) {
	var missing []string
	for _, m := range variablePattern.FindAllStringSubmatch(template, -1) {
		if _, ok := vars[m[1]]; !ok {
			missing = append(missing, m[1])
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("missing template variables: %s", strings.Join(missing, ", "))
	}

	return variablePattern.ReplaceAllStringFunc(template, func(match string) string {
		return vars[match[2:len(match)-2]]
	}), nil
}
