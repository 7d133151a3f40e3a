package engine

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaModel runs prompts against a local Ollama server.
type OllamaModel struct {
	llm         llms.Model
	temperature float64
}

// NewOllamaModel connects to serverURL (default http://localhost:11434).
func NewOllamaModel(serverURL, model string, temperature float64) (*OllamaModel, error) {
	if serverURL == "" {
		serverURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.1"
	}
	m, err := ollama.New(ollama.WithModel(model), ollama.WithServerURL(serverURL))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ollama: %w", err)
	}
	return &OllamaModel{llm: m, temperature: temperature}, nil
}

func (m *OllamaModel) Generate(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m.llm, prompt, llms.WithTemperature(m.temperature))
}
