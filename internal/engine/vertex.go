package engine

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

const studySystemPrompt = "You are a study assistant. You turn lecture transcripts and documents into accurate, well-organized learning material formatted in Markdown."

// VertexModel generates text with Gemini on Vertex AI using application default credentials.
type VertexModel struct {
	model  *genai.GenerativeModel
	client *genai.Client
}

// NewVertexModel creates a Vertex AI backed Model.
func NewVertexModel(ctx context.Context, projectID, region, modelName string, temperature float32) (*VertexModel, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexModel: projectID and region cannot be empty")
	}
	client, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}

	model := client.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(studySystemPrompt)},
	}
	model.GenerationConfig = genai.GenerationConfig{
		Temperature: genai.Ptr(temperature),
	}
	return &VertexModel{model: model, client: client}, nil
}

func (m *VertexModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := m.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("vertex generate: %w", err)
	}
	return responseText(resp), nil
}

func (m *VertexModel) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(sb.String())
}
