package tts

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a request rejected before any provider is called.
	ErrValidation = errors.New("invalid tts request")

	// ErrTimeout is returned when a provider job does not finish in time.
	ErrTimeout = errors.New("tts generation timed out")

	// ErrUnexpectedResponse is returned when a provider answers 2xx with a
	// payload that carries neither audio nor a job id.
	ErrUnexpectedResponse = errors.New("unexpected response format")
)

// ProviderError is any failure talking to an upstream TTS vendor.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	msg := e.Provider + ": " + e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: %s (status %d)", e.Provider, e.Message, e.StatusCode)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
