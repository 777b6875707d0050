package podcast

import (
	"fmt"
	"regexp"
	"strings"
)

const PlatformUnknown = "unknown"

var platformPatterns = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"spotify", regexp.MustCompile(`spotify\.com/show/([a-zA-Z0-9]+)`)},
	{"apple", regexp.MustCompile(`podcasts\.apple\.com.*/id(\d+)`)},
	{"google", regexp.MustCompile(`podcasts\.google\.com.*/([a-zA-Z0-9\-_]+)`)},
}

// AnalyzeURL identifies the podcast platform of rawURL. The first matching
// platform wins.
func AnalyzeURL(rawURL string) (*URLAnalysis, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, fmt.Errorf("%w: URL is required", ErrValidation)
	}

	a := &URLAnalysis{URL: rawURL, Platform: PlatformUnknown}
	for _, p := range platformPatterns {
		if m := p.pattern.FindStringSubmatch(rawURL); m != nil {
			a.Platform = p.name
			id := m[1]
			a.ExtractedID = &id
			break
		}
	}

	a.IsSupported = a.Platform != PlatformUnknown
	if a.IsSupported {
		a.Suggestion = fmt.Sprintf("Found %s podcast. Use the search feature to find it in our database.", a.Platform)
	} else {
		a.Suggestion = "Try searching for the podcast name instead"
	}
	return a, nil
}
