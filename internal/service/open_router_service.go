package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/fadilmartias/panel-review/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const openRouterEndpoint = "https://openrouter.ai/api/v1/chat/completions"

type OpenRouterServiceInterface interface {
	Produce(ctx context.Context, instruction string, transcript string) (string, error)
}

// OpenRouterService is the alternate utterance provider, selectable via
// PANEL_PROVIDER=openrouter.
type OpenRouterService struct {
	APIKey string
	Model  string
	client *resty.Client
}

func NewOpenRouterService() *OpenRouterService {
	cfg := config.LoadOpenRouterConfig()
	model := cfg.Model
	if model == "" {
		model = "openai/gpt-4o-mini"
	}
	return &OpenRouterService{
		APIKey: cfg.APIKey,
		Model:  model,
		client: resty.New(),
	}
}

// Produce sends the role instruction as the system message and the
// transcript-so-far as the user message.
func (s *OpenRouterService) Produce(ctx context.Context, instruction string, transcript string) (string, error) {
	if strings.TrimSpace(instruction) == "" {
		return "", fmt.Errorf("instruction cannot be empty")
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+s.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"model": s.Model,
			"messages": []map[string]string{
				{"role": "system", "content": instruction},
				{"role": "user", "content": transcript},
			},
		}).
		Post(openRouterEndpoint)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("openrouter returned %s: %s", resp.Status(), resp.String())
	}

	text := gjson.Get(resp.String(), "choices.0.message.content").String()
	if text == "" {
		return "", fmt.Errorf("no response from LLM")
	}
	return text, nil
}
