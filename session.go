package wwdc

import "time"

// Session holds the cached metadata for one conference talk, identified
// by a numeric id unique within a year.
type Session struct {
	ID          string     `json:"id"`
	Year        int        `json:"year"`
	Title       string     `json:"title"`
	Topic       string     `json:"topic"`
	Description string     `json:"description,omitempty"`
	Chapters    []Chapter  `json:"chapters,omitempty"`
	Resources   []Resource `json:"resources,omitempty"`
	Video       VideoURLs  `json:"videoUrls,omitzero"`
	ContentHash string     `json:"contentHash,omitempty"`
	Path        string     `json:"path,omitempty"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

// Validate returns an error if the session contains invalid fields.
func (s *Session) Validate() error {
	if s.ID == "" {
		return Errorf(EINVALID, "session ID required")
	}
	if s.Year == 0 {
		return Errorf(EINVALID, "session year required")
	}
	return nil
}

// Chapter is a labeled timestamp marker within a session recording.
// Time preserves the display string from the page; Seconds is the
// normalized offset.
type Chapter struct {
	Time    string `json:"time"`
	Seconds int    `json:"seconds"`
	Name    string `json:"name"`
}

// Resource is an external link (documentation, guide, sample project)
// associated with a session.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// CodeSample is a source-code block shown during a session. Chapter is
// the nearest chapter preceding the sample's timestamp, nil when the
// session has no chapters.
type CodeSample struct {
	Index    int      `json:"index"`
	Title    string   `json:"title,omitempty"`
	Time     string   `json:"time,omitempty"`
	Seconds  int      `json:"seconds"`
	Language string   `json:"language"`
	Code     string   `json:"code"`
	Chapter  *Chapter `json:"chapter,omitempty"`
}

// TranscriptSegment is one timed sentence of a session transcript.
type TranscriptSegment struct {
	Time    string `json:"time"`
	Seconds int    `json:"seconds"`
	Speaker string `json:"speaker,omitempty"`
	Text    string `json:"text"`
}

// VideoURLs holds the video stream variants extracted from a session page.
type VideoURLs struct {
	HD  string `json:"hd,omitempty"`
	SD  string `json:"sd,omitempty"`
	HLS string `json:"hls,omitempty"`
}

// Download returns the preferred downloadable URL. SD quality is
// preferred to keep archives small; HLS is a last resort.
func (v VideoURLs) Download() string {
	if v.SD != "" {
		return v.SD
	}
	if v.HD != "" {
		return v.HD
	}
	return v.HLS
}

// IsZero reports whether no video URLs were found.
func (v VideoURLs) IsZero() bool {
	return v == VideoURLs{}
}
