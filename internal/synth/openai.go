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

// openaiAPIURL is the OpenAI Chat Completions endpoint. Package-level var
// for test substitution.
var openaiAPIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIGenerator calls the OpenAI Chat Completions API in streaming or
// non-streaming mode.
type OpenAIGenerator struct {
	APIKey string
	Model  string
	Client *http.Client
}

// Name returns the generator identifier.
func (g *OpenAIGenerator) Name() string { return "openai" }

type openaiRequest struct {
	Model    string          `json:"model"`
	Stream   bool            `json:"stream,omitempty"`
	Messages []openaiMessage `json:"messages"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []struct {
		Message openaiMessage `json:"message"`
	} `json:"choices"`
}

// openaiStreamChunk is one SSE data payload in a streaming response.
type openaiStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Generate performs a non-streaming call and returns the complete text.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.post(ctx, prompt, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var oResp openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return "", fmt.Errorf("decoding OpenAI response: %w", err)
	}
	if len(oResp.Choices) == 0 || oResp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("OpenAI API returned empty content")
	}
	return oResp.Choices[0].Message.Content, nil
}

// GenerateStream performs a streaming call, forwarding each content delta
// to onChunk and returning the accumulated text.
func (g *OpenAIGenerator) GenerateStream(ctx context.Context, prompt string, onChunk func(string)) (string, error) {
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
		if payload == "[DONE]" {
			break
		}

		var chunk openaiStreamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if text := chunk.Choices[0].Delta.Content; text != "" {
			b.WriteString(text)
			if onChunk != nil {
				onChunk(text)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading OpenAI stream: %w", err)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("OpenAI stream produced no text")
	}
	return b.String(), nil
}

func (g *OpenAIGenerator) post(ctx context.Context, prompt string, stream bool) (*http.Response, error) {
	reqBody := openaiRequest{
		Model:  g.Model,
		Stream: stream,
		Messages: []openaiMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openaiAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling OpenAI API: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("OpenAI API returned %d: %s", resp.StatusCode, string(body))
	}
	return resp, nil
}
