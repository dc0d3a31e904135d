package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultURL points at a locally running ask endpoint.
const DefaultURL = "http://localhost:8080/api/ask"

// ErrNoResponse reports a reply that carried neither a response nor an error
// field.
var ErrNoResponse = errors.New("assistant returned neither response nor error")

// RemoteError carries the error field of a reply body.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// AskRequest is the wire request of the completion endpoint.
type AskRequest struct {
	Transcript   string `json:"transcript"`
	SystemPrompt string `json:"systemPrompt"`
}

// AskResponse is the wire reply: exactly one of the two fields is set.
type AskResponse struct {
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Client talks to the ask endpoint over its JSON contract.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient builds a client for the given endpoint. A zero timeout keeps
// requests open until the remote answers.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Ask posts one completion request. The reply body is parsed regardless of
// HTTP status so a structured error field always wins over a bare status
// code.
func (c *Client) Ask(ctx context.Context, transcript, systemPrompt string) (string, error) {
	body, err := json.Marshal(AskRequest{Transcript: transcript, SystemPrompt: systemPrompt})
	if err != nil {
		return "", fmt.Errorf("encode ask request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build ask request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("contact assistant: %w", err)
	}
	defer resp.Body.Close()

	var parsed AskResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode assistant reply (status %d): %w", resp.StatusCode, err)
	}

	switch {
	case parsed.Response != "":
		return parsed.Response, nil
	case parsed.Error != "":
		return "", &RemoteError{Message: parsed.Error}
	default:
		return "", ErrNoResponse
	}
}
