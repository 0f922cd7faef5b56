// Package goquery implements HTML parsing of Apple Developer video
// pages: the session page parser and the topic-listing parser.
package goquery

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/mslomka/wwdc"
)

// DefaultBaseURL is the Apple Developer site root used to resolve
// relative links.
const DefaultBaseURL = "https://developer.apple.com"

// Ensure Parser implements wwdc.SessionParser at compile time.
var _ wwdc.SessionParser = (*Parser)(nil)

// Parser extracts a normalized document from a session page. The page
// structure is heterogeneous and partially optional: every supplement
// (details, chapters, resources, sample code, transcript) may be
// missing, and a missing supplement is a warning, not a failure.
type Parser struct {
	year      int
	baseURL   string
	converter wwdc.Converter
}

// Option configures a Parser.
type Option func(*Parser)

// WithBaseURL overrides the base URL used to resolve relative links.
func WithBaseURL(base string) Option {
	return func(p *Parser) { p.baseURL = base }
}

// WithConverter sets the HTML-to-markdown converter applied to rich
// description HTML. Without one, descriptions fall back to plain text.
func WithConverter(c wwdc.Converter) Option {
	return func(p *Parser) { p.converter = c }
}

// NewParser creates a session page parser for one conference year.
func NewParser(year int, opts ...Option) *Parser {
	p := &Parser{
		year:    year,
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var (
	titleSuffixRe = regexp.MustCompile(`\s*-\s*(?:WWDC ?\d{2,4}\s*-\s*)?(?:Videos\s*-\s*)?Apple Developer\s*$`)
	chapterLineRe = regexp.MustCompile(`^(\d+(?::\d+){1,2})\s*-\s*(.+)$`)
	timeParamRe   = regexp.MustCompile(`[?&]time=(\d+)`)
)

// ParseSession converts a session's raw page HTML into a Document plus
// warnings for any sections that could not be extracted. It returns an
// EPARSE error only on total failure: no recognizable title and no
// recognizable content container.
func (p *Parser) ParseSession(rawHTML string) (*wwdc.Document, []wwdc.ParseWarning, error) {
	root, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, nil, wwdc.Errorf(wwdc.EPARSE, "failed to parse HTML: %v", err)
	}

	doc := &wwdc.Document{
		Title:       p.extractTitle(root),
		Description: p.extractDescription(root),
		Chapters:    p.extractChapters(root),
		Resources:   p.extractResources(root),
		CodeSamples: p.extractCodeSamples(root),
		Transcript:  p.extractTranscript(root),
		Video:       extractVideoURLs(rawHTML),
	}

	if doc.Title == "" && doc.Description == "" && len(doc.Transcript) == 0 && len(doc.Chapters) == 0 {
		return nil, nil, wwdc.Errorf(wwdc.EPARSE, "no recognizable session content")
	}

	associateCodeSamples(doc)

	var warnings []wwdc.ParseWarning
	warn := func(section, msg string) {
		warnings = append(warnings, wwdc.ParseWarning{Section: section, Message: msg})
	}
	if doc.Description == "" {
		warn(wwdc.SectionDescription, "no details supplement or meta description")
	}
	if len(doc.Chapters) == 0 {
		warn(wwdc.SectionChapters, "no chapter markers")
	}
	if len(doc.Resources) == 0 {
		warn(wwdc.SectionResources, "no resource links")
	}
	if len(doc.CodeSamples) == 0 {
		warn(wwdc.SectionCodeSamples, "no sample code supplement")
	}
	if len(doc.Transcript) == 0 {
		warn(wwdc.SectionTranscript, "no transcript")
	}

	return doc, warnings, nil
}

func (p *Parser) extractTitle(root *goquery.Document) string {
	title, _ := root.Find(`meta[property="og:title"]`).Attr("content")
	if title == "" {
		title = root.Find("title").First().Text()
	}
	return strings.TrimSpace(titleSuffixRe.ReplaceAllString(title, ""))
}

func (p *Parser) extractDescription(root *goquery.Document) string {
	details := root.Find(`li[data-supplement-id="details"]`)
	for _, n := range walkContent(details) {
		if n.kind != nodeParagraph || n.text == "" {
			continue
		}
		if p.converter != nil {
			if md, err := p.converter.Convert(n.html); err == nil {
				return strings.TrimSpace(md)
			}
		}
		return n.text
	}

	desc, _ := root.Find(`meta[name="description"]`).Attr("content")
	return strings.TrimSpace(desc)
}

// extractChapters collects chapter markers from jump links of the form
// <a href="...?time=197">, labeled "3:17 - Single-threaded code" on the
// enclosing list item.
func (p *Parser) extractChapters(root *goquery.Document) []wwdc.Chapter {
	var chapters []wwdc.Chapter
	seen := make(map[string]bool)

	root.Find(`a[href*="?time="]`).Each(func(_ int, link *goquery.Selection) {
		li := link.Closest("li")
		if li.Length() == 0 {
			return
		}
		for _, n := range walkContent(li) {
			m := chapterLineRe.FindStringSubmatch(n.text)
			if m == nil {
				continue
			}
			display, name := m[1], strings.TrimSpace(m[2])

			seconds := -1
			if href, ok := link.Attr("href"); ok {
				if tm := timeParamRe.FindStringSubmatch(href); tm != nil {
					seconds, _ = strconv.Atoi(tm[1])
				}
			}
			if seconds < 0 {
				var err error
				if seconds, err = wwdc.ParseTimestamp(display); err != nil {
					continue
				}
			}

			key := display + "\x00" + name
			if seen[key] {
				continue
			}
			seen[key] = true
			chapters = append(chapters, wwdc.Chapter{Time: display, Seconds: seconds, Name: name})
			break
		}
	})

	return chapters
}

// resourceKeywords mark links worth keeping as session resources.
var resourceKeywords = []string{
	"docs.swift.org",
	"swift.org/migration",
	"developer.apple.com/documentation",
	"guide",
	"documentation",
	"reference",
}

func (p *Parser) extractResources(root *goquery.Document) []wwdc.Resource {
	var resources []wwdc.Resource
	seen := make(map[string]bool)

	root.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		text := strings.Join(strings.Fields(link.Text()), " ")

		// Skip video download links and unlabeled anchors.
		if text == "" || strings.Contains(text, "Video") || strings.Contains(href, ".mp4") {
			return
		}

		lowerHref := strings.ToLower(href)
		lowerText := strings.ToLower(text)
		matched := false
		for _, kw := range resourceKeywords {
			if strings.Contains(lowerHref, kw) || strings.Contains(lowerText, kw) {
				matched = true
				break
			}
		}
		if !matched {
			return
		}

		resolved := p.resolveURL(href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		resources = append(resources, wwdc.Resource{Title: text, URL: resolved})
	})

	return resources
}

func (p *Parser) extractCodeSamples(root *goquery.Document) []wwdc.CodeSample {
	section := root.Find("li.supplement.sample-code")
	if section.Length() == 0 {
		section = root.Find(`li[data-supplement-id="sample-code"]`)
	}
	if section.Length() == 0 {
		section = root.Find(`li[data-supplement-id="code"]`)
	}
	if section.Length() == 0 {
		return nil
	}

	var samples []wwdc.CodeSample
	section.Find("li.sample-code-main-container").Each(func(_ int, container *goquery.Selection) {
		sample := wwdc.CodeSample{Seconds: -1}

		if link := container.Find("a.jump-to-time-sample").First(); link.Length() > 0 {
			sample.Title = strings.TrimSpace(link.Text())
			if start, ok := link.Attr("data-start-time"); ok {
				if sec, err := strconv.Atoi(strings.TrimSpace(start)); err == nil {
					sample.Seconds = sec
				}
			}
			sample.Time = timeDisplayBefore(link)
			if sample.Time == "" && sample.Seconds >= 0 {
				sample.Time = wwdc.FormatTimestamp(sample.Seconds)
			}
		}

		pre := container.Find("pre.code-source").First()
		code := pre.Find("code").First()
		if code.Length() == 0 {
			return
		}
		sample.Code = code.Text()
		if strings.TrimSpace(sample.Code) == "" {
			return
		}

		sample.Language = "swift"
		if pre.Length() > 0 {
			if lang := codeLanguage(pre.Nodes[0]); lang != "" {
				sample.Language = lang
			}
		}

		sample.Index = len(samples) + 1
		samples = append(samples, sample)
	})

	return samples
}

// timeDisplayBefore returns the text preceding a jump link within its
// parent paragraph, e.g. "1:15" from "<p>1:15 - <a>TextEditor</a></p>".
func timeDisplayBefore(link *goquery.Selection) string {
	if len(link.Nodes) == 0 {
		return ""
	}
	linkNode := link.Nodes[0]
	parent := linkNode.Parent
	if parent == nil || parent.Data != "p" {
		return ""
	}

	var b strings.Builder
	for c := parent.FirstChild; c != nil && c != linkNode; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	display := strings.TrimSpace(b.String())
	display = strings.TrimSpace(strings.TrimSuffix(display, "-"))
	return display
}

func (p *Parser) extractTranscript(root *goquery.Document) []wwdc.TranscriptSegment {
	section := root.Find("section#transcript-content")
	if section.Length() == 0 {
		return nil
	}

	var segments []wwdc.TranscriptSegment
	section.Find("span.sentence").Each(func(_ int, sentence *goquery.Selection) {
		start, ok := sentence.Find("span[data-start]").First().Attr("data-start")
		if !ok {
			return
		}
		seconds, err := strconv.ParseFloat(strings.TrimSpace(start), 64)
		if err != nil {
			return
		}
		text := strings.Join(strings.Fields(sentence.Text()), " ")
		if text == "" {
			return
		}
		seg := wwdc.TranscriptSegment{
			Time:    wwdc.FormatTimestamp(int(seconds)),
			Seconds: int(seconds),
			Text:    text,
		}
		if speaker := sentence.Find("span.speaker").First(); speaker.Length() > 0 {
			seg.Speaker = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(speaker.Text()), ":"))
		}
		segments = append(segments, seg)
	})

	return segments
}

var videoURLRe = regexp.MustCompile(`https://devstreaming-cdn\.apple\.com/videos/wwdc/\d{4}/\d+/[^"]*?(?:downloads/wwdc\d{4}-\d+_(?:hd|sd)\.mp4|cmaf\.m3u8)|https://events-delivery\.apple\.com/[^"]*?\.m3u8`)

// extractVideoURLs scans the raw page for stream URLs. The player embeds
// them in script blocks, so this works on the raw HTML rather than the
// parsed tree.
func extractVideoURLs(rawHTML string) wwdc.VideoURLs {
	var urls wwdc.VideoURLs
	for _, u := range videoURLRe.FindAllString(rawHTML, -1) {
		switch {
		case strings.Contains(u, "_hd.mp4"):
			if urls.HD == "" {
				urls.HD = u
			}
		case strings.Contains(u, "_sd.mp4"):
			if urls.SD == "" {
				urls.SD = u
			}
		case strings.HasSuffix(u, ".m3u8"):
			if urls.HLS == "" {
				urls.HLS = u
			}
		}
	}
	return urls
}

// associateCodeSamples attaches each code sample to the nearest chapter
// at or before the sample's timestamp. Samples without a timestamp, and
// all samples when the session has no chapters, keep a nil association.
func associateCodeSamples(doc *wwdc.Document) {
	if len(doc.Chapters) == 0 {
		return
	}
	for i := range doc.CodeSamples {
		sample := &doc.CodeSamples[i]
		if sample.Seconds < 0 {
			continue
		}
		var match *wwdc.Chapter
		for j := range doc.Chapters {
			ch := &doc.Chapters[j]
			if ch.Seconds <= sample.Seconds && (match == nil || ch.Seconds >= match.Seconds) {
				match = ch
			}
		}
		if match != nil {
			chapter := *match
			sample.Chapter = &chapter
		}
	}
}

func (p *Parser) resolveURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base, err := url.Parse(p.baseURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
