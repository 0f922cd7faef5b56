package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mslomka/wwdc/download"
	"github.com/mslomka/wwdc/fs"
	"github.com/mslomka/wwdc/goquery"
	"github.com/mslomka/wwdc/htmltomarkdown"
	wwdchttp "github.com/mslomka/wwdc/http"
	wwdcslog "github.com/mslomka/wwdc/slog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
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
		kong.Name("wwdc"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'wwdc --help' to see available commands")
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

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	deps.Year = cli.Year
	deps.Store = fs.NewStore(cli.Directory, cli.Year)

	if strings.HasPrefix(kongCtx.Command(), "download") {
		if err := ensureWritableRoot(cli.Directory, cli.Year); err != nil {
			fmt.Fprintf(stderr, "Hint: Set WWDC_DIR or -d to a writable output directory\n")
			return err
		}

		fetcher := wwdchttp.NewFetcher()
		defer fetcher.Close()
		video := wwdchttp.NewVideoFetcher()

		downloader := &download.Downloader{
			Fetcher:     fetcher,
			Video:       video,
			Parser:      goquery.NewParser(cli.Year, goquery.WithConverter(htmltomarkdown.NewConverter())),
			Writer:      fs.NewWriter(cli.Directory),
			Store:       deps.Store,
			Limiter:     download.NewLimiter(download.DefaultRequestsPerSecond),
			Logger:      logger,
			Concurrency: cli.Download.Concurrency,
		}
		if cli.Verbose {
			downloader.Fetcher = wwdcslog.NewLoggingFetcher(fetcher, logger)
			downloader.Video = wwdcslog.NewLoggingVideoFetcher(video, logger)
			downloader.Writer = wwdcslog.NewLoggingContentWriter(downloader.Writer, logger)
		}
		downloader.Topics = &download.Builder{
			Fetcher:     downloader.Fetcher,
			Parser:      goquery.NewTopicParser(),
			Limiter:     downloader.Limiter,
			Logger:      logger,
			Concurrency: cli.Download.Concurrency,
		}
		deps.Downloader = downloader
	}

	return kongCtx.Run(deps)
}

// ensureWritableRoot verifies the output root accepts writes before any
// network work starts; discovering an unwritable root per session after
// fetching every page would waste the whole batch.
func ensureWritableRoot(root string, year int) error {
	dir := filepath.Join(root, strconv.Itoa(year))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("output root %s is not writable: %w", root, err)
	}
	f, err := os.CreateTemp(dir, ".wwdc-write-check-")
	if err != nil {
		return fmt.Errorf("output root %s is not writable: %w", root, err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
