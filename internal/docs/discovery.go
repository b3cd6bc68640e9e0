package docs

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/inful/mdfp"

	derrors "github.com/sportsdataverse/sdvsite/internal/foundation/errors"
	"github.com/sportsdataverse/sdvsite/internal/logfields"
)

// Page is one markdown document from the docs directory.
type Page struct {
	ID          string // path relative to the docs dir without extension, '/' separated
	RelPath     string // source path relative to the docs dir
	Route       string // site path, before base URL resolution (e.g. /docs/intro)
	Aliases     []string
	Meta        Meta
	Title       string
	Body        []byte // markdown without front matter
	Fingerprint string
}

// Discover walks dir for markdown files and returns them in lexical path
// order. Directories starting with "_" and files matched by filter are
// skipped. A missing directory yields no pages and no error.
func Discover(dir string, filter *Filter) ([]*Page, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("Docs directory not found; no docs pages", logfields.Path(dir))
		return nil, nil
	}
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "stat docs directory").WithContext("path", dir).Build()
	}
	if !info.IsDir() {
		return nil, derrors.NewError(derrors.CategoryDocs, "docs path is not a directory").WithContext("path", dir).Build()
	}

	var pages []*Page
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != dir && strings.HasPrefix(d.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if !isMarkdown(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		if skip, pattern := filter.Excluded(filepath.ToSlash(rel)); skip {
			slog.Debug("Docs file excluded", logfields.Path(rel), slog.String("pattern", pattern))
			return nil
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		page, err := NewPage(filepath.ToSlash(rel), content)
		if err != nil {
			return derrors.WrapError(err, derrors.CategoryDocs, "parse docs page").WithContext("path", p).Build()
		}
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("Docs discovered", logfields.Path(dir), logfields.Count(len(pages)))
	return pages, nil
}

// NewPage builds a Page from a docs-relative slash path and its raw content.
func NewPage(relPath string, content []byte) (*Page, error) {
	fm, body, err := splitFrontMatter(content)
	if err != nil {
		return nil, err
	}
	meta, err := parseMeta(fm)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSuffix(relPath, path.Ext(relPath))
	if meta.ID != "" {
		id = path.Join(path.Dir(id), meta.ID)
	}

	p := &Page{
		ID:          id,
		RelPath:     relPath,
		Route:       "/docs/" + id,
		Meta:        meta,
		Body:        body,
		Fingerprint: mdfp.CalculateFingerprintFromParts(string(fm), string(body)),
	}
	if meta.Slug != "" {
		p.Route = "/" + strings.TrimPrefix(meta.Slug, "/")
	}
	route, ok := cleanRoute(p.Route)
	if !ok {
		return nil, derrors.NewError(derrors.CategoryDocs, "page route escapes the site root").
			WithContext("route", p.Route).
			WithContext("path", relPath).
			Build()
	}
	p.Route = route
	if strings.EqualFold(relPath, "CHANGELOG.md") {
		p.Aliases = append(p.Aliases, "/CHANGELOG")
	}

	switch {
	case meta.Title != "":
		p.Title = meta.Title
	default:
		if h := firstHeading(body); h != "" {
			p.Title = h
		} else {
			p.Title = path.Base(id)
		}
	}
	return p, nil
}

// cleanRoute strips a trailing slash and accepts only routes that are already
// clean and stay below the site root: no "." or ".." segments, no empty
// segments.
func cleanRoute(route string) (string, bool) {
	r := strings.TrimSuffix(route, "/")
	if r == "" {
		return "/", true
	}
	if path.Clean(r) != r || !strings.HasPrefix(r, "/") {
		return "", false
	}
	return r, filepath.IsLocal(filepath.FromSlash(strings.TrimPrefix(r, "/")))
}

// Routes returns every site path the page is reachable at.
func (p *Page) Routes() []string {
	return append([]string{p.Route}, p.Aliases...)
}

func isMarkdown(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".markdown"
}
