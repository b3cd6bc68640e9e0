package homepage

import "github.com/sportsdataverse/sdvsite/internal/config"

// Page is everything the layout needs to draw the landing page.
type Page struct {
	Title       string
	Description string
	Header      HeaderBlock
	Features    []FeatureBlock
}

// NewPage assembles the landing page for cfg. Feature images are resolved
// against the site base URL.
func NewPage(cfg *config.SiteConfig, records []FeatureRecord) Page {
	seq := RenderFeatureList(records, Options{ResolveImage: cfg.ResolvePath})
	header := RenderHeader(cfg.Title, cfg.Tagline)
	header.CallToAction.To = cfg.ResolvePath(header.CallToAction.To)
	return Page{
		Title:       cfg.Title,
		Description: cfg.Tagline,
		Header:      header,
		Features:    Collect(seq),
	}
}
