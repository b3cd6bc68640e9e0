package docs

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter excludes docs files by glob over their slash-separated path relative
// to the docs directory. "**" spans directories; "*" and "?" stay inside one
// path segment.
type Filter struct {
	patterns []string
	exclude  []*regexp.Regexp
}

// NewFilter compiles exclude globs. Blank patterns are skipped; a nil or
// empty slice excludes nothing.
func NewFilter(excludeGlobs []string) (*Filter, error) {
	f := &Filter{}
	for _, g := range excludeGlobs {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		rx, err := regexp.Compile(globToRegex(g))
		if err != nil {
			return nil, fmt.Errorf("compile glob %s: %w", g, err)
		}
		f.patterns = append(f.patterns, g)
		f.exclude = append(f.exclude, rx)
	}
	return f, nil
}

// Excluded reports whether rel is filtered out, along with the matching
// pattern.
func (f *Filter) Excluded(rel string) (bool, string) {
	if f == nil {
		return false, ""
	}
	rel = strings.TrimPrefix(rel, "./")
	for i, rx := range f.exclude {
		if rx.MatchString(rel) {
			return true, f.patterns[i]
		}
	}
	return false, ""
}

// globToRegex converts a glob to an anchored regex string.
func globToRegex(glob string) string {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(glob); i++ {
		c := glob[i]
		switch {
		case c == '*' && strings.HasPrefix(glob[i:], "**/"):
			b.WriteString("(?:.*/)?")
			i += 2
		case c == '*' && strings.HasPrefix(glob[i:], "**"):
			b.WriteString(".*")
			i++
		case c == '*':
			b.WriteString("[^/]*")
		case c == '?':
			b.WriteString("[^/]")
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString("$")
	return b.String()
}
