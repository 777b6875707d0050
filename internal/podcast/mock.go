package podcast

import (
	"fmt"
	"time"
)

func mockSearch(query string, limit int) []Podcast {
	results := []Podcast{
		{
			ID:            "mock-1",
			Title:         query + " Podcast #1",
			Description:   fmt.Sprintf("A great podcast about %s with interesting discussions and insights.", query),
			Image:         "https://via.placeholder.com/300x300?text=Podcast+1",
			Publisher:     "Mock Publisher 1",
			TotalEpisodes: 150,
			Language:      "English",
		},
		{
			ID:            "mock-2",
			Title:         "The " + query + " Show",
			Description:   fmt.Sprintf("Weekly episodes covering everything related to %s.", query),
			Image:         "https://via.placeholder.com/300x300?text=Podcast+2",
			Publisher:     "Mock Publisher 2",
			TotalEpisodes: 89,
			Language:      "English",
		},
	}
	if limit < len(results) {
		results = results[:limit]
	}
	return results
}

func mockPodcast(id string) *Podcast {
	return &Podcast{
		ID:            id,
		Title:         "Mock Podcast Title",
		Description:   "This is a mock podcast for testing purposes. It contains interesting content about various topics.",
		Image:         "https://via.placeholder.com/300x300?text=Mock+Podcast",
		Publisher:     "Mock Publisher",
		TotalEpisodes: 100,
		Language:      "English",
		Website:       "https://mockpodcast.com",
		RSS:           "https://mockpodcast.com/feed.xml",
	}
}

func mockEpisodes(limit int, now time.Time) []Episode {
	episodes := make([]Episode, 0, limit)
	for i := 1; i <= limit; i++ {
		episodes = append(episodes, Episode{
			ID:          fmt.Sprintf("episode-%d", i),
			Title:       fmt.Sprintf("Episode %d: Mock Episode Title", i),
			Description: fmt.Sprintf("This is episode %d of our mock podcast series.", i),
			Audio:       fmt.Sprintf("https://mockpodcast.com/audio/episode-%d.mp3", i),
			AudioLength: 1800 + i*60,
			PubDate:     now.Add(-time.Duration(i) * 24 * time.Hour).UnixMilli(),
			Image:       fmt.Sprintf("https://via.placeholder.com/300x300?text=Episode+%d", i),
		})
	}
	return episodes
}

func mockTranscript(episodeID string) *Transcript {
	return &Transcript{
		EpisodeID: episodeID,
		Text: fmt.Sprintf("This is a mock transcript for episode %s. In a real implementation, you would use "+
			"services like AssemblyAI, Rev.ai, or OpenAI's Whisper to generate transcripts from audio files. "+
			"The transcript would contain the full spoken content of the podcast episode, which can then be "+
			"summarized and translated using the other services in this application.", episodeID),
		Confidence: 0.95,
		Language:   "en",
		Duration:   1847,
		WordCount:  45,
	}
}
