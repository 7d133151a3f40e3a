package studyserver

import (
	"context"

	"github.com/anatolykoptev/go_study/internal/engine"
	"github.com/anatolykoptev/go_study/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxExtractChars bounds the text returned by study_extract.
const maxExtractChars = 200000

func registerExtract(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "study_extract",
		Description: "Return the raw text of a YouTube transcript or a PDF without calling the language model, with its character count and the number of chunks it would be split into. Useful to check a source before generating study material.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.StudyInput) (*mcp.CallToolResult, engine.ExtractOutput, error) {
		doc, err := toolutil.ResolveDocument(ctx, input)
		if err != nil {
			return nil, engine.ExtractOutput{}, err
		}
		return nil, engine.ExtractOutput{
			Source: doc.Source,
			Title:  doc.Title,
			Chars:  len([]rune(doc.Text)),
			Pages:  doc.Pages,
			Chunks: len(engine.Chunk(doc.Text, engine.Cfg.ChunkChars)),
			Text:   engine.TruncateRunes(doc.Text, maxExtractChars, "..."),
		}, nil
	})
}
