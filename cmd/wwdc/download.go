package main

import (
	"fmt"

	"github.com/mslomka/wwdc"
	"github.com/mslomka/wwdc/download"
)

// Run executes the download command.
func (c *DownloadCmd) Run(deps *Dependencies) error {
	// "all" is an accepted spelling of the default (every topic).
	topic := c.Topic
	if topic == "all" {
		topic = ""
	}

	req := download.Request{
		Year:     deps.Year,
		IDs:      c.IDs,
		Topic:    topic,
		TextOnly: c.TextOnly,
		Force:    c.Force,
	}

	progress := func(event download.ProgressEvent) {
		switch event.Type {
		case download.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Downloading %d sessions\n", event.Total)
		case download.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s\n", event.Completed, event.Total, event.SessionID)
		case download.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  [%d/%d] %s failed: %s\n",
				event.Completed, event.Total, event.SessionID, wwdc.ErrorMessage(event.Error))
		}
	}

	result, err := deps.Downloader.Run(deps.Ctx, req, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wwdc.ErrorMessage(err))
		return err
	}

	for _, te := range result.TopicErrors {
		fmt.Fprintf(deps.Stderr, "warning: topic %s unavailable: %s\n", te.Slug, wwdc.ErrorMessage(te.Err))
	}

	fmt.Fprintf(deps.Stdout, "Downloaded %d, skipped %d, failed %d\n",
		result.Downloaded, result.Skipped, result.Failed)

	if result.Failed > 0 {
		return fmt.Errorf("%d sessions failed", result.Failed)
	}
	return nil
}
