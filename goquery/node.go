package goquery

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// nodeKind tags the typed intermediate representation produced by a
// single DOM walk. Mapping typed nodes to document fields happens in a
// second pass, which keeps "understanding arbitrary HTML" separate from
// "building the domain document".
type nodeKind int

const (
	nodeHeading nodeKind = iota
	nodeParagraph
	nodeCodeBlock
	nodeListItem
)

// contentNode is one typed node from the walk.
type contentNode struct {
	kind  nodeKind
	text  string // flattened text content
	html  string // inner HTML, kept for markdown conversion
	lang  string // code blocks: language hint from a class attribute
	level int    // headings: 1-6
	href  string // list items: first contained link target
}

// walkContent walks a selection once and returns its content as typed
// nodes in document order. Nested block elements are not descended into
// twice: a matched element consumes its subtree.
func walkContent(sel *goquery.Selection) []contentNode {
	var nodes []contentNode
	for _, n := range sel.Nodes {
		walkNode(n, &nodes)
	}
	return nodes
}

func walkNode(n *html.Node, out *[]contentNode) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			*out = append(*out, contentNode{
				kind:  nodeHeading,
				level: int(n.Data[1] - '0'),
				text:  nodeText(n),
			})
			return
		case "p":
			*out = append(*out, contentNode{
				kind: nodeParagraph,
				text: nodeText(n),
				html: innerHTML(n),
			})
			return
		case "pre":
			*out = append(*out, contentNode{
				kind: nodeCodeBlock,
				text: rawText(n),
				lang: codeLanguage(n),
			})
			return
		case "li":
			*out = append(*out, contentNode{
				kind: nodeListItem,
				text: nodeText(n),
				html: innerHTML(n),
				href: firstHref(n),
			})
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkNode(c, out)
	}
}

// nodeText flattens the text content of a node, collapsing whitespace.
func nodeText(n *html.Node) string {
	return strings.Join(strings.Fields(rawText(n)), " ")
}

// rawText flattens text content preserving internal whitespace, which
// matters for code blocks.
func rawText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func innerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// codeLanguage returns the language hint from a language-* class on the
// pre element or a nested code element.
func codeLanguage(n *html.Node) string {
	if lang := languageClass(n); lang != "" {
		return lang
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "code" {
			if lang := languageClass(c); lang != "" {
				return lang
			}
		}
	}
	return ""
}

func languageClass(n *html.Node) string {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, cls := range strings.Fields(attr.Val) {
			if rest, ok := strings.CutPrefix(cls, "language-"); ok {
				return rest
			}
		}
	}
	return ""
}

func firstHref(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "a" {
		for _, attr := range n.Attr {
			if attr.Key == "href" {
				return attr.Val
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if href := firstHref(c); href != "" {
			return href
		}
	}
	return ""
}
