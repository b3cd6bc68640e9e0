package linkcheck

import (
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"

	"github.com/sportsdataverse/sdvsite/internal/foundation/errors"
)

// Link is a link found in rendered HTML.
type Link struct {
	URL       string
	Text      string
	Tag       string // a, img, script, link, source
	Attribute string // href or src
	Internal  bool
}

// ExtractLinks parses HTML from r and returns every linking attribute in
// document order. siteURL decides which absolute URLs count as internal.
func ExtractLinks(r io.Reader, siteURL string) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").Build()
	}
	base, err := url.Parse(siteURL)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid site URL").WithContext("url", siteURL).Build()
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if l, ok := elementLink(n, base); ok {
				links = append(links, l)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func elementLink(n *html.Node, base *url.URL) (Link, bool) {
	var attr, text string
	switch n.Data {
	case "a":
		attr, text = "href", extractText(n)
	case "link":
		attr, text = "href", getAttr(n, "rel")
	case "img":
		attr, text = "src", getAttr(n, "alt")
	case "script", "source", "video", "audio":
		attr = "src"
	default:
		return Link{}, false
	}
	v := getAttr(n, attr)
	if v == "" {
		return Link{}, false
	}
	return Link{URL: v, Text: text, Tag: n.Data, Attribute: attr, Internal: isInternal(v, base)}, true
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(extractText(c))
	}
	return strings.TrimSpace(b.String())
}

// isInternal reports whether a link stays on the site: relative URLs and
// absolute URLs on the site host.
func isInternal(raw string, base *url.URL) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme == "" && u.Host == "" {
		return true
	}
	return base != nil && base.Host != "" && strings.EqualFold(u.Host, base.Host)
}

// shouldCheck filters out anchors, special schemes and empty links.
func shouldCheck(raw string) bool {
	if raw == "" || strings.HasPrefix(raw, "#") {
		return false
	}
	for _, p := range []string{"mailto:", "tel:", "javascript:", "data:"} {
		if strings.HasPrefix(raw, p) {
			return false
		}
	}
	return true
}

// MarkdownLinkKind classifies links found in markdown.
type MarkdownLinkKind string

const (
	MarkdownInline              MarkdownLinkKind = "inline"
	MarkdownImage               MarkdownLinkKind = "image"
	MarkdownAuto                MarkdownLinkKind = "auto"
	MarkdownReferenceDefinition MarkdownLinkKind = "reference_definition"
)

// MarkdownLink is a link found in a markdown body.
type MarkdownLink struct {
	Kind        MarkdownLinkKind
	Destination string
}

// ExtractMarkdownLinks parses a markdown body (front matter removed) and
// returns its link destinations. Links inside code are not reported.
func ExtractMarkdownLinks(body []byte) []MarkdownLink {
	md := goldmark.New()
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	var links []MarkdownLink
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, MarkdownLink{Kind: MarkdownAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			links = append(links, MarkdownLink{Kind: MarkdownImage, Destination: string(node.Destination)})
		case *gmast.Link:
			links = append(links, MarkdownLink{Kind: MarkdownInline, Destination: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions live in the parse context, not the AST. A
	// definition already used by a link node is reported once, as that link.
	used := make(map[string]struct{}, len(links))
	for _, l := range links {
		used[l.Destination] = struct{}{}
	}
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		dest := string(ref.Destination())
		if _, ok := used[dest]; ok {
			continue
		}
		used[dest] = struct{}{}
		links = append(links, MarkdownLink{Kind: MarkdownReferenceDefinition, Destination: dest})
	}
	return links
}
