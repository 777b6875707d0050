package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const maxErrorBody = 4 << 10

// doRequest sends one HTTP call and returns the response body of a 2xx
// answer. Every failure is a *ProviderError.
func doRequest(ctx context.Context, client *http.Client, provider, method, url string, headers map[string]string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &ProviderError{Provider: provider, Message: "marshal request", Cause: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &ProviderError{Provider: provider, Message: "build request", Cause: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: provider, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &ProviderError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s %s failed: %s", method, req.URL.Path, bytes.TrimSpace(respBody)),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: provider, Message: "read response", Cause: err}
	}
	return data, nil
}

func doJSON(ctx context.Context, client *http.Client, provider, method, url string, headers map[string]string, body, out any) error {
	data, err := doRequest(ctx, client, provider, method, url, headers, body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ProviderError{Provider: provider, Message: "decode response", Cause: err}
	}
	return nil
}
