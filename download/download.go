// Package download orchestrates session acquisition. It coordinates
// topic index building, bounded concurrent fetching, parsing, content
// writing and cache persistence for one conference year.
package download

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mslomka/wwdc"
)

// DefaultConcurrency bounds the number of sessions processed at once.
const DefaultConcurrency = 5

// DefaultBaseURL is the site the session and topic pages live on.
const DefaultBaseURL = "https://developer.apple.com"

// Downloader orchestrates the download of session content.
type Downloader struct {
	Fetcher     wwdc.Fetcher
	Video       wwdc.VideoFetcher
	Parser      wwdc.SessionParser
	Writer      wwdc.ContentWriter
	Store       wwdc.CacheStore
	Topics      TopicIndexer
	Limiter     wwdc.HostLimiter
	Logger      *slog.Logger
	Concurrency int
	RetryDelays []time.Duration
	BaseURL     string
}

// Request selects what to download. Exactly one of IDs or Topic may be
// set; with neither, every session in the year's topic index is
// targeted.
type Request struct {
	Year     int
	IDs      []string
	Topic    string
	TextOnly bool
	Force    bool
}

// SessionStatus classifies the outcome for one session.
type SessionStatus int

const (
	StatusDownloaded SessionStatus = iota
	StatusSkipped
	StatusFailed
)

// SessionResult holds the outcome of processing a single session.
type SessionResult struct {
	ID       string
	Title    string
	Path     string
	Status   SessionStatus
	Err      error
	Warnings []wwdc.ParseWarning
}

// Result holds the outcome of a download run.
type Result struct {
	Downloaded  int
	Skipped     int
	Failed      int
	Sessions    []SessionResult
	TopicErrors []wwdc.TopicError
	Warnings    []error
}

// ProgressEvent reports progress during a download run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	SessionID string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting download progress.
type ProgressFunc func(event ProgressEvent)

// Run downloads the requested sessions. The cache decides what work is
// left: sessions with recorded content are skipped unless forced, and
// per-session failures are aggregated rather than aborting the batch.
// The cache is persisted even when the run is canceled partway so
// completed work survives.
func (d *Downloader) Run(ctx context.Context, req Request, progress ProgressFunc) (*Result, error) {
	if req.Year == 0 {
		return nil, wwdc.Errorf(wwdc.EINVALID, "year required")
	}
	if len(req.IDs) > 0 && req.Topic != "" {
		return nil, wwdc.Errorf(wwdc.EINVALID, "session ids and topic filter are mutually exclusive")
	}
	if req.Topic != "" && !wwdc.IsOfficialTopic(req.Topic) {
		return nil, wwdc.Errorf(wwdc.ENOTFOUND, "unknown topic %q", req.Topic)
	}

	result := &Result{}

	cache, warnings, err := d.Store.Load(ctx)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, warnings...)
	for _, w := range warnings {
		if d.Logger != nil {
			d.Logger.Warn("cache reconciliation", "warning", w)
		}
	}

	if err := d.ensureTopics(ctx, cache, req, result); err != nil {
		return nil, err
	}

	ids, err := d.resolveIDs(cache, req)
	if err != nil {
		return nil, err
	}

	concurrency := d.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(ids)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	resultCh := make(chan SessionResult, total)
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	go func() {
		for _, id := range ids {
			g.Go(func() error {
				resultCh <- d.processSession(gctx, cache, id, req)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	for sr := range resultCh {
		completed.Add(1)
		result.Sessions = append(result.Sessions, sr)

		event := ProgressEvent{
			Completed: int(completed.Load()),
			Total:     total,
			SessionID: sr.ID,
		}
		switch sr.Status {
		case StatusDownloaded:
			result.Downloaded++
			event.Type = ProgressCompleted
		case StatusSkipped:
			result.Skipped++
			event.Type = ProgressSkipped
		case StatusFailed:
			result.Failed++
			event.Type = ProgressFailed
			event.Error = sr.Err
		}
		if progress != nil {
			progress(event)
		}
	}

	// Save with cancellation stripped: a canceled run keeps the
	// sessions that finished before the cancel.
	if err := d.Store.Save(context.WithoutCancel(ctx), cache); err != nil {
		return result, err
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}
	return result, nil
}

// ensureTopics rebuilds the topic index when the cache has none or a
// rebuild is forced. Per-topic failures become TopicErrors on the
// result; an index that comes back completely empty is fatal only when
// the request needs it to enumerate sessions.
func (d *Downloader) ensureTopics(ctx context.Context, cache *wwdc.Cache, req Request, result *Result) error {
	if cache.HasTopics() && !req.Force {
		return nil
	}

	built, topicErrs, err := d.Topics.Build(ctx, req.Year)
	if err != nil {
		return err
	}
	result.TopicErrors = topicErrs

	if req.Force {
		// A topic page that failed during the forced rebuild keeps its
		// previously known sessions; the failure degrades the map, it
		// never destroys it.
		prior := cache.Topics()
		for _, te := range topicErrs {
			if ids, ok := prior[te.Slug]; ok {
				built[te.Slug] = ids
			}
		}
		cache.ReplaceTopics(built)
	} else {
		cache.MergeTopics(built)
	}

	if !cache.HasTopics() && len(req.IDs) == 0 {
		return wwdc.Errorf(wwdc.ETOPIC, "no topics discovered for %d, cannot enumerate sessions", req.Year)
	}
	return nil
}

// resolveIDs expands the request into the ordered list of session ids
// to process.
func (d *Downloader) resolveIDs(cache *wwdc.Cache, req Request) ([]string, error) {
	if len(req.IDs) > 0 {
		seen := make(map[string]bool)
		var ids []string
		for _, id := range req.IDs {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
		return ids, nil
	}

	if req.Topic != "" {
		return cache.TopicSessions(req.Topic), nil
	}

	// All sessions, in official topic order. The index assigns each
	// session to exactly one topic so no dedup is needed.
	var ids []string
	for _, t := range wwdc.OfficialTopics() {
		ids = append(ids, cache.TopicSessions(t.Slug)...)
	}
	return ids, nil
}

// processSession runs the fetch→parse→write→upsert pipeline for one
// session. Every outcome is reported through the SessionResult; only
// the cache upsert mutates shared state.
func (d *Downloader) processSession(ctx context.Context, cache *wwdc.Cache, id string, req Request) SessionResult {
	sr := SessionResult{ID: id}

	cached, inCache := cache.Session(id)
	if inCache && cached.ContentHash != "" && !req.Force {
		sr.Title = cached.Title
		sr.Path = cached.Path
		sr.Status = StatusSkipped
		return sr
	}

	baseURL := d.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	pageURL := fmt.Sprintf("%s/videos/play/wwdc%d/%s/", baseURL, req.Year, id)

	delays := d.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	fetch := func(ctx context.Context, url string) (string, error) {
		if d.Limiter != nil {
			if err := d.Limiter.Wait(ctx, hostOf(url)); err != nil {
				return "", err
			}
		}
		return d.Fetcher.Fetch(ctx, url)
	}

	html, err := FetchWithRetry(ctx, pageURL, fetch, d.Logger, delays)
	if err != nil {
		sr.Status = StatusFailed
		sr.Err = err
		return sr
	}

	doc, parseWarnings, err := d.Parser.ParseSession(html)
	if err != nil {
		sr.Status = StatusFailed
		sr.Err = err
		return sr
	}
	sr.Warnings = parseWarnings
	sr.Title = doc.Title

	topic := cached.Topic
	if topic == "" {
		topic = cache.TopicFor(id)
	}

	session := wwdc.Session{
		ID:          id,
		Year:        req.Year,
		Title:       doc.Title,
		Topic:       topic,
		Description: doc.Description,
		Chapters:    doc.Chapters,
		Resources:   doc.Resources,
		Video:       doc.Video,
	}

	res, err := d.Writer.WriteContent(ctx, &session, doc, wwdc.WriteOptions{
		Force:     req.Force,
		PriorHash: cached.ContentHash,
	})
	if err != nil {
		sr.Status = StatusFailed
		sr.Err = err
		return sr
	}
	sr.Path = res.RelPath

	if !req.TextOnly && !doc.Video.IsZero() && d.Video != nil {
		// A failed video download does not fail the session; the
		// content is already on disk and the next run retries the
		// video because FetchVideo skips only existing files.
		if err := d.Video.FetchVideo(ctx, doc.Video.Download(), res.VideoPath); err != nil {
			if d.Logger != nil {
				d.Logger.Warn("video download failed", "session", id, "error", err)
			}
		}
	}

	session.ContentHash = res.ContentHash
	session.Path = res.RelPath
	if err := cache.Upsert(session); err != nil {
		sr.Status = StatusFailed
		sr.Err = err
		return sr
	}

	if res.Written {
		sr.Status = StatusDownloaded
	} else {
		sr.Status = StatusSkipped
	}
	return sr
}
