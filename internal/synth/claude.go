// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// claudeAPIURL is the Claude Messages API endpoint. Package-level var for
// test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

const claudeMaxTokens = 4096

// ClaudeGenerator calls the Claude Messages API in streaming or
// non-streaming mode.
type ClaudeGenerator struct {
	APIKey string
	Model  string
	Client *http.Client
}

// Name returns the generator identifier.
func (g *ClaudeGenerator) Name() string { return "claude" }

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Stream    bool            `json:"stream,omitempty"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the non-streaming response body.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// claudeStreamEvent is one SSE data payload in a streaming response. Only
// content_block_delta events carry text.
type claudeStreamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
}

// Generate performs a non-streaming call and returns the complete text.
func (g *ClaudeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.post(ctx, prompt, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	var b strings.Builder
	for _, block := range cResp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("Claude API returned empty content")
	}
	return b.String(), nil
}

// GenerateStream performs a streaming call, forwarding each text delta to
// onChunk and returning the accumulated text.
func (g *ClaudeGenerator) GenerateStream(ctx context.Context, prompt string, onChunk func(string)) (string, error) {
	resp, err := g.post(ctx, prompt, true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var b strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")

		var ev claudeStreamEvent
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			continue // ping and unknown events are not errors
		}
		if ev.Type == "content_block_delta" && ev.Delta.Type == "text_delta" && ev.Delta.Text != "" {
			b.WriteString(ev.Delta.Text)
			if onChunk != nil {
				onChunk(ev.Delta.Text)
			}
		}
		if ev.Type == "message_stop" {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading Claude stream: %w", err)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("Claude stream produced no text")
	}
	return b.String(), nil
}

func (g *ClaudeGenerator) post(ctx context.Context, prompt string, stream bool) (*http.Response, error) {
	reqBody := claudeRequest{
		Model:     g.Model,
		MaxTokens: claudeMaxTokens,
		Stream:    stream,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", g.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling Claude API: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}
	return resp, nil
}
