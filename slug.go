package wwdc

import (
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// maxSlugLen bounds slug length so directory names stay usable.
const maxSlugLen = 100

// Slugify converts a session title into a deterministic directory-safe
// slug: decomposed unicode with marks stripped, lowercase, apostrophes
// and quotes removed outright, separator and punctuation runs collapsed
// to single hyphens, bounded length cut at a word boundary.
//
// The function is pure: identical titles always yield identical slugs,
// which keeps the cache and the filesystem tree in sync.
func Slugify(title string) string {
	decomposed := norm.NFKD.String(title)

	var b strings.Builder
	b.Grow(len(decomposed))
	hyphen := false
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark left over from decomposition
		case isQuote(r):
			// apostrophes vanish: "What's" -> "whats"
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			hyphen = false
		case unicode.IsSpace(r) || isSeparator(r):
			if !hyphen && b.Len() > 0 {
				b.WriteByte('-')
				hyphen = true
			}
		default:
			// parens, brackets, slashes and the rest are dropped
		}
	}

	slug := strings.Trim(b.String(), "-.")
	if len(slug) > maxSlugLen {
		// back up to a rune boundary; CJK and other multibyte letters
		// survive slugification and must not be split mid-rune
		end := maxSlugLen
		for end > 0 && !utf8.RuneStart(slug[end]) {
			end--
		}
		cut := slug[:end]
		// prefer a word boundary when one exists reasonably close
		if i := strings.LastIndexByte(cut, '-'); i > maxSlugLen-20 {
			cut = cut[:i]
		}
		slug = strings.Trim(cut, "-")
	}
	return slug
}

func isQuote(r rune) bool {
	switch r {
	case '\'', '`', '"', '‘', '’', '‚', '‛',
		'“', '”', '„', '‟', '″', 'ʻ', 'ʼ':
		return true
	}
	return false
}

func isSeparator(r rune) bool {
	switch r {
	case '-', '_', '–', '—', ',', ':', ';', '!', '?', '.':
		return true
	}
	return false
}

// SessionPath returns the canonical directory for a session relative to
// the output root: <year>/<topic-slug>/<id>-<title-slug>. It is a pure
// function of its inputs.
func SessionPath(year int, topicSlug, id, title string) string {
	dir := id
	if slug := Slugify(title); slug != "" {
		dir = id + "-" + slug
	}
	if topicSlug == "" {
		topicSlug = "general"
	}
	return filepath.Join(strconv.Itoa(year), topicSlug, dir)
}
