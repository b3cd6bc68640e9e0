package render

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/sportsdataverse/sdvsite/internal/config"
	derrors "github.com/sportsdataverse/sdvsite/internal/foundation/errors"
	"github.com/sportsdataverse/sdvsite/internal/homepage"
)

// CustomCSSPath is where the build places docs.custom_css in the output.
const CustomCSSPath = "/css/custom.css"

//go:embed templates/*.html
var templateFS embed.FS

// DocPage is a rendered docs page ready for the layout.
type DocPage struct {
	Route       string // site path before base URL resolution
	SourcePath  string // docs-relative source path, used for the edit link
	Title       string
	Description string
	Content     template.HTML
}

// Renderer writes complete HTML pages for one site configuration.
type Renderer struct {
	cfg  *config.SiteConfig
	tpl  *template.Template
	site siteView
}

// Option configures a Renderer.
type Option func(*rendererOptions)

type rendererOptions struct {
	now func() time.Time
}

// WithClock sets the time source used for the copyright year.
func WithClock(now func() time.Time) Option {
	return func(o *rendererOptions) { o.now = now }
}

// New parses the embedded templates for cfg.
func New(cfg *config.SiteConfig, opts ...Option) (*Renderer, error) {
	o := rendererOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	tpl, err := template.New("site").Option("missingkey=error").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryInternal, "parse page templates").Build()
	}
	return &Renderer{cfg: cfg, tpl: tpl, site: newSiteView(cfg, o.now().Year())}, nil
}

type pageData struct {
	Site         siteView
	Title        string
	Description  string
	CanonicalURL string
	Home         *homepage.Page
	Doc          *docView
}

type docView struct {
	Title   string
	Content template.HTML
	EditURL string
}

// RenderHome writes the landing page.
func (r *Renderer) RenderHome(w io.Writer, page homepage.Page) error {
	data := pageData{
		Site:         r.site,
		Title:        page.Title,
		Description:  page.Description,
		CanonicalURL: r.cfg.CanonicalURL("/"),
		Home:         &page,
	}
	return r.execute(w, "/", data)
}

// RenderDoc writes one docs page.
func (r *Renderer) RenderDoc(w io.Writer, doc DocPage) error {
	desc := doc.Description
	if desc == "" {
		desc = r.cfg.Tagline
	}
	data := pageData{
		Site:         r.site,
		Title:        doc.Title + " | " + r.cfg.Title,
		Description:  desc,
		CanonicalURL: r.cfg.CanonicalURL(doc.Route),
		Doc: &docView{
			Title:   doc.Title,
			Content: doc.Content,
			EditURL: r.cfg.EditURLFor(doc.SourcePath),
		},
	}
	return r.execute(w, doc.Route, data)
}

// execute renders into a buffer so a template failure never leaves a
// partial page behind.
func (r *Renderer) execute(w io.Writer, route string, data pageData) error {
	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return derrors.WrapError(err, derrors.CategoryRender, "render page").WithContext("page", route).Build()
	}
	if _, err := buf.WriteTo(w); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "write page").WithContext("page", route).Build()
	}
	return nil
}
