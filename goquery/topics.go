package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mslomka/wwdc"
)

// Ensure TopicParser implements wwdc.TopicParser at compile time.
var _ wwdc.TopicParser = (*TopicParser)(nil)

// TopicParser extracts session links from a topic-listing page. Topic
// pages list videos across conference years; links are filtered to the
// requested year and deduplicated keeping first occurrence, which
// preserves the page's own ordering.
type TopicParser struct {
	baseURL string
}

// NewTopicParser creates a topic-listing parser.
func NewTopicParser(opts ...TopicOption) *TopicParser {
	p := &TopicParser{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TopicOption configures a TopicParser.
type TopicOption func(*TopicParser)

// WithTopicBaseURL overrides the base URL used to resolve session links.
func WithTopicBaseURL(base string) TopicOption {
	return func(p *TopicParser) { p.baseURL = base }
}

var sessionHrefRe = regexp.MustCompile(`^/videos/play/wwdc(\d{4})/(\d+)/?$`)

// SessionLinks returns the ordered session links for one year.
func (p *TopicParser) SessionLinks(rawHTML string, year int) ([]wwdc.SessionLink, error) {
	root, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, wwdc.Errorf(wwdc.EPARSE, "failed to parse topic page: %v", err)
	}

	var links []wwdc.SessionLink
	seen := make(map[string]bool)

	root.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		m := sessionHrefRe.FindStringSubmatch(strings.TrimSuffix(href, "#"))
		if m == nil {
			return
		}
		linkYear, _ := strconv.Atoi(m[1])
		if linkYear != year {
			return
		}
		id := m[2]
		if seen[id] {
			return
		}
		seen[id] = true

		links = append(links, wwdc.SessionLink{
			ID:    id,
			Year:  linkYear,
			Title: sessionTitle(link),
			URL:   strings.TrimRight(p.baseURL, "/") + href,
		})
	})

	return links, nil
}

// sessionTitle finds the title for a session link. Listing pages render
// the title as an h4 near the link rather than as the link text, so
// climb a few ancestors looking for one before falling back to the
// link's own text.
func sessionTitle(link *goquery.Selection) string {
	parent := link.Parent()
	for depth := 0; depth < 4 && parent.Length() > 0; depth++ {
		// Stop climbing once the ancestor spans multiple sessions;
		// any h4 found there would belong to a different video.
		if parent.Find(`a[href^="/videos/play/"]`).Length() > 1 {
			break
		}
		if h4 := parent.Find("h4").First(); h4.Length() > 0 {
			if title := strings.Join(strings.Fields(h4.Text()), " "); title != "" {
				return title
			}
		}
		parent = parent.Parent()
	}
	return strings.Join(strings.Fields(link.Text()), " ")
}
