package studyserver

import (
	"context"

	"github.com/anatolykoptev/go_study/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerFlashcards(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "study_flashcards",
		Description: "Generate front/back study flashcards (definitions, concepts, facts, processes) from a YouTube video transcript or a PDF. count is the total across the document (default 12).",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.StudyInput) (*mcp.CallToolResult, engine.StudyOutput, error) {
		return runStudy(ctx, input, engine.KindFlashcards)
	})
}
