package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/helpdoc"
	"github.com/fwojciec/helpdoc/goquery"
	"github.com/fwojciec/helpdoc/htmltomarkdown"
	helpdochttp "github.com/fwojciec/helpdoc/http"
	"github.com/fwojciec/helpdoc/readability"
	helpdocslog "github.com/fwojciec/helpdoc/slog"
	"github.com/fwojciec/helpdoc/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. When nil, Run builds them from flags.
	Fetcher   helpdoc.Fetcher
	Processor helpdoc.Processor
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
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
		kong.Name("helpdoc"),
		kong.Description("Extract help-center articles as JSON, Markdown or plain text."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'helpdoc --help' to see available commands")
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

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.BaseURL = cli.BaseURL

	fetcher := m.Fetcher
	if fetcher == nil {
		fetcher = newFetcher(cli)
	}
	deps.Fetcher = helpdocslog.NewLoggingFetcher(fetcher, deps.Logger)
	defer deps.Fetcher.Close()

	processor := m.Processor
	if processor == nil {
		processor = goquery.NewProcessor(
			htmltomarkdown.NewConverter(),
			readability.NewExtractor(),
			trafilatura.NewExtractor(),
		)
	}
	deps.Processor = helpdocslog.NewLoggingProcessor(processor, deps.Logger)

	return kongCtx.Run(deps)
}

// newFetcher builds the upstream fetcher selected by the global flags.
func newFetcher(cli *CLI) helpdoc.Fetcher {
	opts := []helpdochttp.Option{helpdochttp.WithTimeout(cli.Timeout)}
	if cli.UserAgent != "" {
		opts = append(opts, helpdochttp.WithUserAgent(cli.UserAgent))
	}

	var fetcher helpdoc.Fetcher
	if cli.ScrapeURL != "" {
		fetcher = helpdochttp.NewScrapeClient(cli.ScrapeURL, cli.ScrapeKey, opts...)
	} else {
		fetcher = helpdochttp.NewFetcher(opts...)
	}

	if cli.RPS > 0 {
		fetcher = helpdochttp.NewRateLimitedFetcher(fetcher, cli.RPS)
	}
	return fetcher
}
