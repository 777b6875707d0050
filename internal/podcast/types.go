package podcast

type Podcast struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Image         string `json:"image"`
	Publisher     string `json:"publisher"`
	TotalEpisodes int    `json:"totalEpisodes"`
	Language      string `json:"language"`
	Website       string `json:"website,omitempty"`
	RSS           string `json:"rss,omitempty"`
	Explicit      bool   `json:"explicit"`
}

type Episode struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Audio       string `json:"audio"`
	AudioLength int    `json:"audioLength"` // seconds
	PubDate     int64  `json:"pubDate"`     // unix millis
	Image       string `json:"image"`
	Explicit    bool   `json:"explicit"`
}

type Transcript struct {
	EpisodeID  string  `json:"episodeId"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language"`
	Duration   int     `json:"duration"`
	WordCount  int     `json:"wordCount"`
}

// URLAnalysis describes which directory a pasted podcast link belongs to.
type URLAnalysis struct {
	URL         string  `json:"url"`
	Platform    string  `json:"platform"`
	ExtractedID *string `json:"extractedId"`
	IsSupported bool    `json:"isSupported"`
	Suggestion  string  `json:"suggestion"`
}
