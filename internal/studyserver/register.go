package studyserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anatolykoptev/go_study/internal/engine"
	"github.com/anatolykoptev/go_study/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolCount is the number of tools RegisterTools adds.
const ToolCount = 4

// RegisterTools registers all study tools on the given MCP server:
// study_summary, study_mcqs, study_flashcards, study_extract.
func RegisterTools(server *mcp.Server) {
	registerSummary(server)
	registerMCQs(server)
	registerFlashcards(server)
	registerExtract(server)
}

// runStudy resolves the input document and generates one artifact of kind.
// A failed generation is a tool error; the placeholder text is only for the browser UI.
func runStudy(ctx context.Context, input engine.StudyInput, kind engine.TaskKind) (*mcp.CallToolResult, engine.StudyOutput, error) {
	doc, err := toolutil.ResolveDocument(ctx, input)
	if err != nil {
		return nil, engine.StudyOutput{}, err
	}

	a := engine.GenerateArtifact(ctx, doc, kind, toolutil.NormCount(kind, input.Count))
	if a.Failed() {
		return nil, engine.StudyOutput{}, fmt.Errorf("%s generation failed: %s", kind, a.Error)
	}

	slog.Info("study tool done",
		slog.String("kind", string(kind)),
		slog.String("source", string(doc.Source)),
		slog.String("ref", doc.Ref),
		slog.Int("chunks", a.Chunks),
		slog.Int("calls", a.Calls))
	return nil, engine.StudyOutput{
		Source:   doc.Source,
		Title:    doc.Title,
		Chars:    len([]rune(doc.Text)),
		Artifact: a,
	}, nil
}
