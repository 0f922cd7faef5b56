package wwdc

// Document is the normalized content parsed from one session page.
// Any section may be empty; missing sections are reported as parse
// warnings, not failures.
type Document struct {
	Title       string
	Description string
	Chapters    []Chapter
	Resources   []Resource
	CodeSamples []CodeSample
	Transcript  []TranscriptSegment
	Video       VideoURLs
}

// Document section names used in parse warnings and content output.
const (
	SectionDescription = "description"
	SectionChapters    = "chapters"
	SectionResources   = "resources"
	SectionCodeSamples = "code samples"
	SectionTranscript  = "transcript"
)

// ParseWarning marks a section that could not be extracted from a page.
// A page that yields warnings still produces a usable partial document.
type ParseWarning struct {
	Section string
	Message string
}

// SessionParser converts a session's raw page HTML into a Document.
// Total failure (no recognizable title or content container) returns an
// EPARSE error; individually missing sections only produce warnings.
type SessionParser interface {
	ParseSession(html string) (*Document, []ParseWarning, error)
}

// Converter transforms HTML fragments into Markdown.
type Converter interface {
	Convert(html string) (string, error)
}
