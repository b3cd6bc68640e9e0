package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	derrors "github.com/sportsdataverse/sdvsite/internal/foundation/errors"
)

// Validate checks the structural contract of a configuration: required
// metadata, URL syntax and enum values. It reports every violation at once.
// It does not sort, deduplicate or check that link targets exist.
func Validate(cfg *SiteConfig) error {
	v := &configurationValidator{cfg: cfg}
	v.validateMetadata()
	v.validateNavbar()
	v.validateFooter()
	v.validateScripts()
	v.validateEnums()

	if len(v.violations) == 0 {
		return nil
	}
	return derrors.ConfigError("configuration validation failed").
		WithContext("violations", v.violations).
		Build()
}

type configurationValidator struct {
	cfg        *SiteConfig
	violations []string
}

func (v *configurationValidator) addf(format string, args ...any) {
	v.violations = append(v.violations, fmt.Sprintf(format, args...))
}

func (v *configurationValidator) validateMetadata() {
	c := v.cfg
	if c.Title == "" {
		v.addf("title must not be empty")
	}
	if c.Tagline == "" {
		v.addf("tagline must not be empty")
	}
	if !IsAbsoluteURL(c.URL) {
		v.addf("url %q must be an absolute URL", c.URL)
	}
	if !strings.HasPrefix(c.BaseURL, "/") || !strings.HasSuffix(c.BaseURL, "/") {
		v.addf("base_url %q must begin and end with \"/\"", c.BaseURL)
	}
	if c.Docs.EditURL != "" && !IsAbsoluteURL(c.Docs.EditURL) {
		v.addf("docs.edit_url %q must be an absolute URL", c.Docs.EditURL)
	}
	for _, asset := range []struct{ field, value string }{
		{"favicon", c.Favicon},
		{"social_image", c.SocialImage},
		{"navbar.logo.src", c.Navbar.Logo.Src},
	} {
		if asset.value != "" && !IsAbsoluteURL(asset.value) && !IsRootRelative(asset.value) && !IsSitePath(asset.value) {
			v.addf("%s %q must be an absolute URL, begin with \"/\" or be a path below base_url", asset.field, asset.value)
		}
	}
}

func (v *configurationValidator) validateNavbar() {
	for i, entry := range v.cfg.Navbar.Entries {
		field := fmt.Sprintf("navbar.items[%d]", i)
		switch e := entry.(type) {
		case *NavLink:
			if e.Label == "" {
				v.addf("%s: label must not be empty", field)
			}
			if e.DocID != "" {
				if e.To != "" || e.Href != "" {
					v.addf("%s: doc_id cannot be combined with to/href", field)
				}
				continue
			}
			v.validateLink(field, e.LinkItem)
		case *SubMenu:
			if e.Label == "" {
				v.addf("%s: label must not be empty", field)
			}
			for j, item := range e.Items {
				v.validateLink(fmt.Sprintf("%s.items[%d]", field, j), item)
			}
		}
	}
}

func (v *configurationValidator) validateFooter() {
	for i, col := range v.cfg.Footer.Columns {
		for j, item := range col.Items {
			v.validateLink(fmt.Sprintf("footer.links[%d].items[%d]", i, j), item)
		}
	}
}

func (v *configurationValidator) validateScripts() {
	for i, s := range v.cfg.Scripts {
		if !IsAbsoluteURL(s.SourceURL) && !IsRootRelative(s.SourceURL) {
			v.addf("scripts[%d].src %q must be an absolute URL or begin with \"/\"", i, s.SourceURL)
		}
	}
}

func (v *configurationValidator) validateEnums() {
	c := v.cfg
	if NormalizeBrokenLinkPolicy(string(c.OnBrokenLinks)) == "" {
		v.addf("on_broken_links %q is not one of throw, warn, ignore", c.OnBrokenLinks)
	}
	if NormalizeBrokenLinkPolicy(string(c.OnBrokenMarkdownLinks)) == "" {
		v.addf("on_broken_markdown_links %q is not one of throw, warn, ignore", c.OnBrokenMarkdownLinks)
	}
}

func (v *configurationValidator) validateLink(field string, l LinkItem) {
	switch {
	case l.To != "" && l.Href != "":
		v.addf("%s: only one of to and href may be set", field)
	case l.To == "" && l.Href == "":
		v.addf("%s: one of to or href is required", field)
	case l.To != "" && !IsRootRelative(l.To) && !IsSitePath(l.To):
		v.addf("%s: to %q must begin with \"/\" or be a path below base_url", field, l.To)
	case l.Href != "" && !IsAbsoluteURL(l.Href) && !IsRootRelative(l.Href):
		v.addf("%s: href %q must be an absolute URL or begin with \"/\"", field, l.Href)
	}
}

// IsAbsoluteURL reports whether raw parses with a scheme and host.
func IsAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// IsSitePath reports whether raw is a bare path such as "CHANGELOG" or
// "img/logo.png" that resolves below base_url: no scheme, host, leading "/",
// "." or "#", and no ".." segment.
func IsSitePath(raw string) bool {
	if raw == "" || strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, ".") || strings.HasPrefix(raw, "#") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Opaque != "" {
		return false
	}
	return !slices.Contains(strings.Split(u.Path, "/"), "..")
}

// IsRootRelative reports whether raw is a path beginning with a single "/".
func IsRootRelative(raw string) bool {
	return strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//")
}
