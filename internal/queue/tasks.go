package queue

const (
	TypeTTSRefresh = "tts:refresh"
)

// TTSRefreshPayload asks a worker to re-check one asynchronous TTS job.
// Attempt counts from 1.
type TTSRefreshPayload struct {
	JobID   string `json:"job_id"`
	Attempt int    `json:"attempt"`
}
