package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/anatolykoptev/go_study/internal/engine"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html
var templateFS embed.FS

// Mode selects which input form the page shows.
type Mode string

const (
	ModeYouTube Mode = "youtube"
	ModePDF     Mode = "pdf"
)

func parseMode(s string) Mode {
	if Mode(s) == ModePDF {
		return ModePDF
	}
	return ModeYouTube
}

// Level is the severity of a status message.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type message struct {
	Level Level
	Text  string
}

type sectionView struct {
	Kind     engine.TaskKind
	Heading  string
	HTML     template.HTML
	FileName string
	Failed   bool
}

type resultView struct {
	ID       string
	Title    string
	Sections []sectionView
}

// pageData is everything the page template sees. Theme comes from the session.
type pageData struct {
	Theme    Theme
	Mode     Mode
	URL      string
	Messages []message
	Result   *resultView
}

func (p *pageData) add(level Level, format string, args ...any) {
	p.Messages = append(p.Messages, message{Level: level, Text: fmt.Sprintf(format, args...)})
}

type renderer struct {
	tmpl *template.Template
	md   goldmark.Markdown
}

func newRenderer() (*renderer, error) {
	tmpl, err := template.New("index.html").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &renderer{
		tmpl: tmpl,
		md:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}, nil
}

// markdown converts model output to HTML. Raw HTML in the source is not passed through.
func (r *renderer) markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>") //nolint:gosec // escaped above
	}
	return template.HTML(buf.String()) //nolint:gosec // goldmark escapes raw HTML by default
}

func (r *renderer) resultView(res *Result) *resultView {
	v := &resultView{ID: res.ID, Title: res.Title}
	for _, a := range res.Artifacts {
		v.Sections = append(v.Sections, sectionView{
			Kind:     a.Kind,
			Heading:  sectionHeading(res.Source, a.Kind),
			HTML:     r.markdown(a.Markdown),
			FileName: a.FileName,
			Failed:   a.Failed(),
		})
	}
	return v
}

func (r *renderer) page(w io.Writer, data pageData) error {
	return r.tmpl.Execute(w, data)
}

func sectionHeading(src engine.SourceKind, kind engine.TaskKind) string {
	if kind == engine.KindSummary {
		if src == engine.SourceYouTube {
			return "Video Summary"
		}
		return "Document Summary"
	}
	return kind.Title()
}

// formatCount renders n with thousands separators, e.g. 12,345.
func formatCount(n int) string {
	s := strconv.Itoa(n)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	var out []byte
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
