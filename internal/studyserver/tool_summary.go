package studyserver

import (
	"context"

	"github.com/anatolykoptev/go_study/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerSummary(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "study_summary",
		Description: "Summarize a YouTube video (from its transcript) or a PDF document. Long texts are summarized chunk by chunk and merged into one Markdown summary with headings and bullet points. Pass exactly one of url, pdf_path or pdf_base64.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.StudyInput) (*mcp.CallToolResult, engine.StudyOutput, error) {
		return runStudy(ctx, input, engine.KindSummary)
	})
}
