package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/helpdoc"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	BaseURL   string
	Fetcher   helpdoc.Fetcher
	Processor helpdoc.Processor
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	BaseURL   string        `name:"base-url" env:"HELPDOC_BASE_URL" default:"https://helpx.adobe.com/" help:"Base URL for relative article paths"`
	Timeout   time.Duration `env:"HELPDOC_TIMEOUT" default:"10s" help:"Upstream fetch timeout"`
	UserAgent string        `name:"user-agent" env:"HELPDOC_USER_AGENT" help:"Upstream User-Agent header"`
	RPS       float64       `name:"rps" env:"HELPDOC_RPS" default:"2" help:"Requests per second per upstream host (0 disables limiting)"`
	ScrapeURL string        `name:"scrape-url" env:"HELPDOC_SCRAPE_URL" help:"Fetch through a scrape provider endpoint instead of direct GET"`
	ScrapeKey string        `name:"scrape-key" env:"HELPDOC_SCRAPE_KEY" help:"Bearer key for the scrape provider"`

	Serve   ServeCmd   `cmd:"" help:"Serve the extraction API over HTTP"`
	Extract ExtractCmd `cmd:"" help:"Extract one or more articles to stdout"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `env:"HELPDOC_ADDR" default:":8080" help:"Listen address"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URLs        []string `arg:"" name:"url" help:"Article URLs or paths below the base URL"`
	Format      string   `short:"f" default:"text" help:"Output format (json, markdown, text)"`
	Debug       bool     `help:"Include template, selector and diagnostics"`
	Selector    string   `help:"Override the content region selector"`
	Concurrency int      `short:"c" default:"3" help:"Concurrent extraction limit"`
}
