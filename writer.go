package wwdc

import "context"

// WriteOptions controls overwrite behavior for content writes.
type WriteOptions struct {
	// Force rewrites the file even when the content hash is unchanged.
	Force bool

	// PriorHash is the content hash recorded in the cache from the
	// previous run, empty when the session was never written.
	PriorHash string
}

// WriteResult reports the outcome of a content write.
type WriteResult struct {
	// Path is the absolute path of the session directory.
	Path string

	// RelPath is the session directory relative to the output root.
	RelPath string

	// ContentHash is the hash of the formatted document.
	ContentHash string

	// VideoPath is where a downloaded video belongs for this session.
	VideoPath string

	// Written is false when an up-to-date file was left in place.
	Written bool
}

// ContentWriter persists a normalized document into the canonical
// directory layout. Directory creation is idempotent and safe under
// concurrent workers; file writes are atomic (temp file then rename) so
// a partially written content file is never observed.
type ContentWriter interface {
	WriteContent(ctx context.Context, session *Session, doc *Document, opt WriteOptions) (*WriteResult, error)
}
