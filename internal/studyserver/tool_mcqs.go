package studyserver

import (
	"context"

	"github.com/anatolykoptev/go_study/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerMCQs(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "study_mcqs",
		Description: "Generate multiple-choice questions (4 options, one correct answer marked) from a YouTube video transcript or a PDF. count is the total across the document (default 8); long documents spread it over their chunks, at least one question per chunk.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.StudyInput) (*mcp.CallToolResult, engine.StudyOutput, error) {
		return runStudy(ctx, input, engine.KindMCQ)
	})
}
