// ABOUTME: Gemini engine backed by the Google GenAI SDK
package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiEngine generates text using Google's Gemini API.
type GeminiEngine struct {
	client *genai.Client
	model  string
}

// GeminiConfig configures NewGeminiEngine. BaseURL overrides the API host.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// NewGeminiEngine creates a Gemini engine.
func NewGeminiEngine(ctx context.Context, cfg GeminiConfig) (*GeminiEngine, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiEngine{client: client, model: cfg.Model}, nil
}

func (e *GeminiEngine) Name() string { return "gemini" }

func (e *GeminiEngine) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	opts = opts.withDefaults()

	resp, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt), generateConfig(opts))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return strings.TrimSpace(resp.Text()), nil
}

// generateConfig leaves SystemInstruction unset when there is no system text
func generateConfig(opts Options) *genai.GenerateContentConfig {
	gc := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(opts.Temperature),
		MaxOutputTokens: int32(opts.MaxTokens),
	}
	if strings.TrimSpace(opts.System) != "" {
		gc.SystemInstruction = genai.NewContentFromText(opts.System, genai.RoleUser)
	}
	return gc
}
