package linkcheck

import (
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/sportsdataverse/sdvsite/internal/docs"
)

// Kind separates rendered-page links from markdown cross-references; each
// has its own broken-link policy.
type Kind string

const (
	KindHTML     Kind = "link"
	KindMarkdown Kind = "markdown"
)

// Finding is one broken link.
type Finding struct {
	Kind   Kind   `json:"kind"`
	Source string `json:"source"` // page route or docs source path
	Link   string `json:"link"`   // as written
	Target string `json:"target"` // normalized path that was looked up
}

// Checker knows every path the generated site serves and reports internal
// links pointing elsewhere. It is not safe for concurrent mutation; Add all
// routes before checking.
type Checker struct {
	siteURL string
	known   map[string]struct{}
}

// NewChecker creates a checker for a site whose canonical URL is siteURL.
func NewChecker(siteURL string) *Checker {
	return &Checker{siteURL: siteURL, known: make(map[string]struct{})}
}

// Add registers site paths (already base URL resolved) as existing.
func (c *Checker) Add(paths ...string) {
	for _, p := range paths {
		c.known[normalizePath(p)] = struct{}{}
	}
}

// Exists reports whether a site path is served.
func (c *Checker) Exists(p string) bool {
	_, ok := c.known[normalizePath(p)]
	return ok
}

// Len returns the number of known paths.
func (c *Checker) Len() int { return len(c.known) }

// CheckHTML extracts anchors from a rendered page served at pagePath and
// returns the internal ones that resolve to no known path. pagePath should
// carry a trailing slash for directory index pages so relative links resolve
// the way a browser resolves them.
func (c *Checker) CheckHTML(pagePath string, r io.Reader) ([]Finding, error) {
	links, err := ExtractLinks(r, c.siteURL)
	if err != nil {
		return nil, err
	}
	pageURL := &url.URL{Path: pagePath}

	var findings []Finding
	for _, l := range links {
		// Only navigable links count; assets are the author's concern and
		// markdown-file links belong to the markdown check.
		if l.Tag != "a" || !l.Internal || !shouldCheck(l.URL) {
			continue
		}
		u, err := url.Parse(l.URL)
		if err != nil {
			findings = append(findings, Finding{Kind: KindHTML, Source: pagePath, Link: l.URL, Target: l.URL})
			continue
		}
		if u.Path == "" || isMarkdownPath(u.Path) {
			continue
		}
		target := pageURL.ResolveReference(&url.URL{Path: u.Path}).Path
		if !c.Exists(target) {
			findings = append(findings, Finding{Kind: KindHTML, Source: pagePath, Link: l.URL, Target: normalizePath(target)})
		}
	}
	return findings, nil
}

// CheckMarkdown reports markdown links between docs pages whose target file
// is not part of pages.
func CheckMarkdown(pages []*docs.Page) []Finding {
	index := docs.RouteIndex(pages)

	var findings []Finding
	for _, p := range pages {
		for _, l := range ExtractMarkdownLinks(p.Body) {
			target, _, ok := docs.ResolveMarkdownLink(p.RelPath, l.Destination)
			if !ok {
				continue
			}
			if _, found := index[target]; !found {
				findings = append(findings, Finding{Kind: KindMarkdown, Source: p.RelPath, Link: l.Destination, Target: target})
			}
		}
	}
	return findings
}

// normalizePath canonicalizes a site path: cleaned, no trailing slash except
// for the root, and "index.html" folded into its directory.
func normalizePath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	p = path.Clean(p)
	p = strings.TrimSuffix(p, "/index.html")
	if p == "" {
		return "/"
	}
	return p
}

func isMarkdownPath(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	return ext == ".md" || ext == ".markdown"
}
