package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docwatch"
	"github.com/fwojciec/docwatch/goquery"
	dochttp "github.com/fwojciec/docwatch/http"
	"github.com/fwojciec/docwatch/rod"
	"github.com/fwojciec/docwatch/scrape"
	docslog "github.com/fwojciec/docwatch/slog"
	"github.com/fwojciec/docwatch/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Listing page URLs to watch. Set before calling Run() or via flags.
	Sources []string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	TrackedDocuments docwatch.TrackedDocumentService
	Registry         docwatch.RegistryService
	Settings         docwatch.SettingsService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:  defaultDBPath(),
		Sources: defaultSources(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docwatch"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docwatch --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCWATCH_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	// Wire core services into dependencies
	m.TrackedDocuments = sqlite.NewTrackedDocumentService(m.DB)
	m.Registry = sqlite.NewRegistryService(m.DB)
	m.Settings = sqlite.NewSettingsService(m.DB)
	deps.DB = m.DB
	deps.TrackedDocuments = m.TrackedDocuments
	deps.Settings = m.Settings

	deps.Scheduler = &scrape.Scheduler{
		Settings: m.Settings,
		Logger:   logger,
	}

	// Commands that execute a run need the full fetch/parse/reconcile chain.
	if cmd == "run" || cmd == "tick" {
		sources := m.Sources
		if cmd == "run" && len(cli.Run.Source) > 0 {
			sources = cli.Run.Source
		}
		if len(sources) == 0 {
			fmt.Fprintln(stderr, "Hint: Set DOCWATCH_SOURCES or pass --source")
			return fmt.Errorf("no source URLs configured")
		}

		render := (cmd == "run" && cli.Run.Render) || (cmd == "tick" && cli.Tick.Render)

		htmlParser := goquery.NewParser()
		fetcher, err := buildFetcher(htmlParser, render, logger, stderr)
		if err != nil {
			return err
		}
		defer fetcher.Close()

		deps.Scheduler.Runner = &scrape.Runner{
			Sources: sources,
			Fetcher: fetcher,
			Parser:  htmlParser,
			Reconciler: &scrape.Reconciler{
				Tracked:  m.TrackedDocuments,
				Registry: docslog.NewLoggingRegistryService(m.Registry, logger),
			},
			RateLimiter: scrape.NewDomainLimiter(1.0),
		}
	}

	return kongCtx.Run(deps)
}

// buildFetcher assembles the fetch chain: logged HTTP primary with an
// optional browser rendering delegate.
func buildFetcher(htmlParser docwatch.Parser, render bool, logger *slog.Logger, stderr io.Writer) (docwatch.Fetcher, error) {
	primary := docslog.NewLoggingFetcher(dochttp.NewFetcher(dochttp.WithUserAgent(userAgent)), logger)

	fallback := &scrape.FallbackFetcher{
		Primary:        primary,
		RenderFallback: render,
		Probe: func(html, url string) bool {
			return len(htmlParser.Parse(html, url)) > 0
		},
	}

	if render {
		renderer, err := rod.NewFetcher()
		if err != nil {
			// Degrade to render_unavailable results rather than refusing to
			// start: the scheduler must see the failure, not a crash.
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render")
			fmt.Fprintf(stderr, "warning: browser unavailable: %v\n", err)
		} else {
			fallback.Renderer = docslog.NewLoggingFetcher(renderer, logger)
		}
	}

	return fallback, nil
}

const userAgent = "docwatch/1.0 (+https://github.com/fwojciec/docwatch)"

func defaultDBPath() string {
	if path := os.Getenv("DOCWATCH_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "docwatch.db"
	}
	dir := filepath.Join(home, ".docwatch")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "docwatch.db")
}

func defaultSources() []string {
	raw := os.Getenv("DOCWATCH_SOURCES")
	if raw == "" {
		return nil
	}
	var sources []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			sources = append(sources, s)
		}
	}
	return sources
}
