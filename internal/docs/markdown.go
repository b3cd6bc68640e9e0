package docs

import (
	"bytes"
	"html/template"
	"net/url"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var sourcePathKey = parser.NewContextKey()

// Converter renders docs markdown to HTML. Relative links to other markdown
// files are rewritten to the target page route so the generated site links
// resolve the same way the source tree does.
type Converter struct {
	md goldmark.Markdown
}

// NewConverter creates a converter that resolves ".md" links through routes,
// a map from docs-relative source path to site path.
func NewConverter(routes map[string]string, resolve func(string) string) *Converter {
	rw := &mdLinkRewriter{routes: routes, resolve: resolve}
	return &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
				parser.WithASTTransformers(util.Prioritized(rw, 100)),
			),
		),
	}
}

// Convert renders a page body.
func (c *Converter) Convert(p *Page) (template.HTML, error) {
	pc := parser.NewContext()
	pc.Set(sourcePathKey, p.RelPath)

	var buf bytes.Buffer
	if err := c.md.Convert(p.Body, &buf, parser.WithContext(pc)); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // goldmark escapes raw HTML by default
}

// RouteIndex maps each page's source path to its route.
func RouteIndex(pages []*Page) map[string]string {
	idx := make(map[string]string, len(pages))
	for _, p := range pages {
		idx[p.RelPath] = p.Route
	}
	return idx
}

// ResolveMarkdownLink resolves dest, as written in the page at fromRel, to a
// docs-relative source path. ok is false for links that do not point at a
// local markdown file.
func ResolveMarkdownLink(fromRel, dest string) (target, fragment string, ok bool) {
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", "", false
	}
	if !isMarkdown(u.Path) {
		return "", "", false
	}
	p := u.Path
	if !strings.HasPrefix(p, "/") {
		p = path.Join(path.Dir(fromRel), p)
	}
	return strings.TrimPrefix(path.Clean(p), "/"), u.Fragment, true
}

type mdLinkRewriter struct {
	routes  map[string]string
	resolve func(string) string
}

func (t *mdLinkRewriter) Transform(doc *gmast.Document, _ text.Reader, pc parser.Context) {
	from, _ := pc.Get(sourcePathKey).(string)
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		link, ok := n.(*gmast.Link)
		if !ok {
			return gmast.WalkContinue, nil
		}
		target, frag, ok := ResolveMarkdownLink(from, string(link.Destination))
		if !ok {
			return gmast.WalkContinue, nil
		}
		route, found := t.routes[target]
		if !found {
			// left as-is; the markdown link check reports it
			return gmast.WalkContinue, nil
		}
		if t.resolve != nil {
			route = t.resolve(route)
		}
		if frag != "" {
			route += "#" + frag
		}
		link.Destination = []byte(route)
		return gmast.WalkContinue, nil
	})
}

// firstHeading returns the text of the first level-1 heading in body.
func firstHeading(body []byte) string {
	root := goldmark.New().Parser().Parse(text.NewReader(body))
	var title string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok && h.Level == 1 {
			title = strings.TrimSpace(nodeText(h, body))
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	return title
}

func nodeText(n gmast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		default:
			b.WriteString(nodeText(c, source))
		}
	}
	return b.String()
}
