package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/manascope/manascope/internal/config"
)

const (
	openAIDefaultBaseURL = "https://api.openai.com/v1"
	openAIMaxTokens      = 1024
	openAIHTTPTimeout    = 45 * time.Second
)

type openAIProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatRequest struct {
	Model     string              `json:"model"`
	MaxTokens int                 `json:"max_tokens"`
	Messages  []openAIChatMessage `json:"messages"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message openAIChatMessage `json:"message"`
	} `json:"choices"`
}

func newOpenAIProvider(cfg *config.Config) (Provider, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	baseURL := cfg.OpenAIBaseURL
	if baseURL == "" {
		baseURL = openAIDefaultBaseURL
	}
	return &openAIProvider{
		client:  &http.Client{Timeout: openAIHTTPTimeout},
		baseURL: baseURL,
		apiKey:  cfg.OpenAIAPIKey,
		model:   cfg.OpenAIModel,
	}, nil
}

func (p *openAIProvider) Name() string { return "openai" }

func (p *openAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := openAIChatRequest{
		Model:     p.model,
		MaxTokens: openAIMaxTokens,
		Messages:  []openAIChatMessage{{Role: "user", Content: prompt}},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send generation request to %s: %w", p.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodySnippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("generation API error (model=%s, status=%d): %s",
			p.model, resp.StatusCode, strings.TrimSpace(string(bodySnippet)))
	}

	var chatResp openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode generation response from %s: %w", p.baseURL, err)
	}

	if len(chatResp.Choices) == 0 || strings.TrimSpace(chatResp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("generation API returned no choices (model=%s)", p.model)
	}
	return chatResp.Choices[0].Message.Content, nil
}
