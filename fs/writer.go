package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/mslomka/wwdc"
)

// ContentFileName is the document file written into each session directory.
const ContentFileName = "content.md"

// VideoFileName is the video file written into each session directory.
const VideoFileName = "video.mp4"

// Ensure Writer implements wwdc.ContentWriter at compile time.
var _ wwdc.ContentWriter = (*Writer)(nil)

// Writer persists normalized documents into the canonical layout
// <root>/<year>/<topic-slug>/<id>-<title-slug>/content.md.
type Writer struct {
	root string
}

// NewWriter creates a Writer rooted at the output directory.
func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// WriteContent formats and writes a session document. The write is
// skipped when an up-to-date file is already in place (same content
// hash, not forced); otherwise the file is written atomically via a
// temp file rename. Directory creation is idempotent so two workers
// racing on the same topic directory cannot fail each other.
func (w *Writer) WriteContent(ctx context.Context, session *wwdc.Session, doc *wwdc.Document, opt wwdc.WriteOptions) (*wwdc.WriteResult, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	title := session.Title
	if title == "" {
		title = doc.Title
	}
	relDir := wwdc.SessionPath(session.Year, session.Topic, session.ID, title)
	dir := filepath.Join(w.root, relDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, wwdc.Errorf(wwdc.EFS, "create %s: %v", dir, err)
	}

	content := FormatContent(session, doc)
	hash := ContentHash(content)

	result := &wwdc.WriteResult{
		Path:        dir,
		RelPath:     relDir,
		ContentHash: hash,
		VideoPath:   VideoPath(dir),
	}

	path := filepath.Join(dir, ContentFileName)
	if !opt.Force && opt.PriorHash == hash {
		if _, err := os.Stat(path); err == nil {
			return result, nil
		}
	}

	tmp := path + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, []byte(content), 0644); err != nil {
		return nil, wwdc.Errorf(wwdc.EFS, "write %s: %v", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return nil, wwdc.Errorf(wwdc.EFS, "rename %s: %v", path, err)
	}

	result.Written = true
	return result, nil
}

// VideoPath returns the video destination inside a session directory.
func VideoPath(sessionDir string) string {
	return filepath.Join(sessionDir, VideoFileName)
}

// ContentHash returns the hex xxhash of formatted content.
func ContentHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}

// FormatContent renders a document as markdown with a fixed section
// order: title, session info, description, chapters, resources, code
// samples, transcript. Empty sections are omitted but the order never
// changes, so downstream consumers can parse positionally.
func FormatContent(session *wwdc.Session, doc *wwdc.Document) string {
	var b strings.Builder

	title := session.Title
	if title == "" {
		title = doc.Title
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "**Session %s** - WWDC %d\n\n", session.ID, session.Year)

	if doc.Description != "" {
		b.WriteString("## Description\n\n")
		b.WriteString(strings.TrimSpace(doc.Description))
		b.WriteString("\n\n")
	}

	if len(doc.Chapters) > 0 {
		b.WriteString("## Chapters\n\n")
		for _, ch := range doc.Chapters {
			fmt.Fprintf(&b, "- %s - %s\n", ch.Time, ch.Name)
		}
		b.WriteString("\n")
	}

	if len(doc.Resources) > 0 {
		b.WriteString("## Resources\n\n")
		for _, r := range doc.Resources {
			fmt.Fprintf(&b, "- [%s](%s)\n", r.Title, r.URL)
		}
		b.WriteString("\n")
	}

	if len(doc.CodeSamples) > 0 {
		b.WriteString("## Code Samples\n\n")
		for _, cs := range doc.CodeSamples {
			title := cs.Title
			if title == "" {
				title = fmt.Sprintf("Code Sample %d", cs.Index)
			}
			if cs.Time != "" {
				fmt.Fprintf(&b, "### %s - [%s]\n\n", title, cs.Time)
			} else {
				fmt.Fprintf(&b, "### %s\n\n", title)
			}
			if cs.Chapter != nil {
				fmt.Fprintf(&b, "_Chapter: %s_\n\n", cs.Chapter.Name)
			}
			fmt.Fprintf(&b, "```%s\n%s\n```\n\n", cs.Language, strings.TrimRight(cs.Code, "\n"))
		}
	}

	if len(doc.Transcript) > 0 {
		b.WriteString("## Transcript\n\n")
		for _, seg := range doc.Transcript {
			if seg.Speaker != "" {
				fmt.Fprintf(&b, "[%s] %s: %s\n", seg.Time, seg.Speaker, seg.Text)
			} else {
				fmt.Fprintf(&b, "[%s] %s\n", seg.Time, seg.Text)
			}
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}
