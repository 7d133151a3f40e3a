// study-cli generates study material for one YouTube video or PDF file from the terminal.
//
//	study-cli [-kind summary|mcq|flashcards|all] [-count N] [-out DIR] <youtube-url|file.pdf>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/anatolykoptev/go_study/internal/engine"
	"github.com/anatolykoptev/go_study/internal/engine/sources"
	"github.com/anatolykoptev/go_study/internal/toolutil"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

type Config struct {
	Kind  string
	Count int
	Out   string
	Input string
}

func main() {
	config := parseFlags()

	if err := run(config); err != nil {
		color.Red("Error: %v", err)
		if errors.Is(err, engine.ErrMissingAPIKey) {
			color.Yellow("To get an API key, visit: https://makersuite.google.com/app/apikey")
		}
		os.Exit(1)
	}
}

func parseFlags() Config {
	var config Config

	flag.StringVar(&config.Kind, "kind", "", "What to generate: summary, mcq, flashcards or all (default: summary for videos, all for PDFs)")
	flag.IntVar(&config.Count, "count", 0, "Total number of questions or cards (0 = default)")
	flag.StringVar(&config.Out, "out", ".", "Directory for the generated Markdown files")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <youtube-url|file.pdf>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	config.Input = flag.Arg(0)
	return config
}

// parseKinds turns the -kind flag into the list passed to engine.Study.
// An empty flag returns nil so each source applies its own default.
func parseKinds(s string) ([]engine.TaskKind, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return nil, nil
	case "all":
		return engine.AllKinds, nil
	}
	var kinds []engine.TaskKind
	for _, part := range strings.Split(s, ",") {
		k, err := engine.ParseKind(part)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("calls"),
		progressbar.OptionShowCount(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// progressReporter draws one bar per generated kind.
type progressReporter struct {
	bar  *progressbar.ProgressBar
	kind engine.TaskKind
}

func (r *progressReporter) report(p engine.Progress) {
	if r.bar == nil || p.Kind != r.kind || p.Step == 1 {
		r.finish()
		r.kind = p.Kind
		r.bar = getProgressBar(p.Total, fmt.Sprintf("Generating %s...", p.Kind.Title()))
	}
	desc := fmt.Sprintf("Generating %s (chunk %d/%d)...", p.Kind.Title(), p.Step, p.Total)
	if p.Merge {
		desc = fmt.Sprintf("Merging %s...", p.Kind.Title())
	}
	r.bar.Describe(color.BlueString(desc))
	_ = r.bar.Set(p.Step - 1)
}

func (r *progressReporter) finish() {
	if r.bar == nil {
		return
	}
	_ = r.bar.Finish()
	fmt.Fprintln(os.Stderr)
	r.bar = nil
}

func run(config Config) error {
	kinds, err := parseKinds(config.Kind)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine.InitLogger(os.Stderr)
	closeEngine, err := engine.Setup(ctx, engine.ConfigFromEnv())
	if err != nil {
		return err
	}
	defer closeEngine()

	progress := &progressReporter{}
	opts := engine.StudyOpts{Kinds: kinds, OnProgress: progress.report}
	if config.Count > 0 {
		opts.Counts = make(map[engine.TaskKind]int)
		for _, k := range engine.AllKinds {
			if k != engine.KindSummary {
				opts.Counts[k] = toolutil.NormCount(k, config.Count)
			}
		}
	}

	var (
		doc       engine.Document
		artifacts []engine.Artifact
	)
	if sources.ExtractVideoID(config.Input) != "" {
		color.Blue("Fetching transcript for %s", config.Input)
		doc, artifacts, err = sources.StudyFromYouTube(ctx, config.Input, opts)
	} else {
		f, ferr := os.Open(config.Input)
		if ferr != nil {
			return fmt.Errorf("input is neither a YouTube URL nor a readable file: %w", ferr)
		}
		defer f.Close()
		color.Blue("Extracting text from %s", filepath.Base(config.Input))
		doc, artifacts, err = sources.StudyFromPDF(ctx, f, config.Input, opts)
	}
	progress.finish()
	if err != nil {
		return err
	}
	color.Green("Loaded %q (%d characters)", doc.Title, len([]rune(doc.Text)))

	if err := os.MkdirAll(config.Out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var failed int
	for _, a := range artifacts {
		if a.Failed() {
			failed++
			color.Red("Error generating %s: %s", a.Kind, a.Error)
			continue
		}
		path := filepath.Join(config.Out, a.FileName)
		if err := os.WriteFile(path, []byte(a.Markdown), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		color.Green("%s written to %s (%d calls)", a.Title, path, a.Calls)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d artifacts failed", failed, len(artifacts))
	}
	return nil
}
