package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"mockview_backend/internal/config"
)

// OpenAIGenerator 兼容 OpenAI /chat/completions 协议的实现
type OpenAIGenerator struct {
	config config.AIConfig
	client *http.Client
}

func NewOpenAIGenerator(cfg config.AIConfig) *OpenAIGenerator {
	return &OpenAIGenerator{config: cfg, client: &http.Client{}}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.chat(ctx, prompt, nil)
}

func (g *OpenAIGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return g.chat(ctx, prompt, &responseFormat{Type: "json_object"})
}

func (g *OpenAIGenerator) Model() string {
	return g.config.Model
}

func (g *OpenAIGenerator) chat(ctx context.Context, prompt string, format *responseFormat) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	reqBody := chatCompletionRequest{
		Model:          g.config.Model,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		ResponseFormat: format,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimRight(g.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.config.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}

	if len(result.Choices) > 0 {
		if content := strings.TrimSpace(result.Choices[0].Message.Content); content != "" {
			return content, nil
		}
	}

	return "", fmt.Errorf("AI returned no choices")
}
