package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiEngine_RequiresKey(t *testing.T) {
	_, err := NewGeminiEngine(context.Background(), GeminiConfig{Model: "gemini-2.0-flash"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestNewGeminiEngine_DefaultsModel(t *testing.T) {
	e, err := NewGeminiEngine(context.Background(), GeminiConfig{APIKey: "test"})
	require.NoError(t, err)
	assert.Equal(t, DefaultGeminiModel, e.model)

	e, err = NewGeminiEngine(context.Background(), GeminiConfig{APIKey: "test", Model: "gemini-1.5-pro"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-pro", e.model)
}

func TestGeminiEngine_EmptyPrompt(t *testing.T) {
	e, err := NewGeminiEngine(context.Background(), GeminiConfig{APIKey: "test"})
	require.NoError(t, err)

	_, err = e.Generate(context.Background(), "   ", Options{})
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestGenerateConfig_SystemInstruction(t *testing.T) {
	gc := generateConfig(Options{MaxTokens: 80, Temperature: 0.5})
	assert.Nil(t, gc.SystemInstruction)
	assert.Equal(t, int32(80), gc.MaxOutputTokens)
	require.NotNil(t, gc.Temperature)
	assert.Equal(t, float32(0.5), *gc.Temperature)

	gc = generateConfig(Options{System: "  \n "})
	assert.Nil(t, gc.SystemInstruction)

	gc = generateConfig(Options{System: "Be brief."})
	require.NotNil(t, gc.SystemInstruction)
	require.Len(t, gc.SystemInstruction.Parts, 1)
	assert.Equal(t, "Be brief.", gc.SystemInstruction.Parts[0].Text)
}

func TestGeminiEngine_Generate(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/"+DefaultGeminiModel+":generateContent"), r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"  Morning! Tea or coffee?  "}]}}]}`))
	}))
	defer server.Close()

	e, err := NewGeminiEngine(context.Background(), GeminiConfig{APIKey: "test", BaseURL: server.URL + "/"})
	require.NoError(t, err)

	out, err := e.Generate(context.Background(), "say good morning", Options{System: "Be warm."})
	require.NoError(t, err)
	assert.Equal(t, "Morning! Tea or coffee?", out)
	assert.Contains(t, got, "systemInstruction")
}
