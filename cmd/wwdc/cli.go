package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/mslomka/wwdc"
	"github.com/mslomka/wwdc/download"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	Year       int
	Store      wwdc.CacheStore
	Downloader *download.Downloader
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Year      int    `short:"y" default:"2025" help:"Conference year"`
	Directory string `short:"d" default:"./wwdc-content" env:"WWDC_DIR" help:"Output directory"`
	Verbose   bool   `short:"v" help:"Enable debug logging"`

	Download DownloadCmd `cmd:"" help:"Download session content for a year"`
	List     ListCmd     `cmd:"" help:"List topics or cached sessions"`
}

// DownloadCmd is the "download" subcommand.
type DownloadCmd struct {
	IDs         []string `arg:"" optional:"" help:"Session ids to download (all sessions when omitted)"`
	Topic       string   `short:"t" help:"Limit to one official topic"`
	TextOnly    bool     `help:"Skip video downloads"`
	Force       bool     `short:"f" help:"Re-download even when cached"`
	Concurrency int      `short:"c" default:"5" help:"Concurrent session limit"`
}

// ListCmd groups the read-only listing subcommands.
type ListCmd struct {
	Topics   TopicsCmd   `cmd:"" help:"List official topics with cached session counts"`
	Sessions SessionsCmd `cmd:"" help:"List cached sessions"`
}

// TopicsCmd is the "list topics" subcommand.
type TopicsCmd struct{}

// SessionsCmd is the "list sessions" subcommand.
type SessionsCmd struct {
	Topic string `short:"t" help:"Limit to one official topic"`
}
