package config

import (
	"strings"
)

// ResolvePath maps a site path or asset path onto the configured base URL.
// Absolute URLs are returned unchanged. Root-relative and bare paths are both
// joined under BaseURL, so "img/logo.png" and "/img/logo.png" resolve alike.
func (c *SiteConfig) ResolvePath(p string) string {
	if p == "" || IsAbsoluteURL(p) || strings.HasPrefix(p, "#") {
		return p
	}
	base := c.BaseURL
	if base == "" {
		base = "/"
	}
	trimmed := strings.TrimPrefix(p, "/")
	if strings.HasPrefix(p, base) && base != "/" {
		return p
	}
	return base + trimmed
}

// DocPath returns the site path of a docs page id.
func (c *SiteConfig) DocPath(docID string) string {
	return c.ResolvePath("/docs/" + strings.TrimPrefix(docID, "/"))
}

// LinkTarget resolves the destination of a navbar entry link.
func (c *SiteConfig) LinkTarget(l LinkItem) string {
	if l.IsExternal() {
		return c.ResolvePath(l.Href)
	}
	return c.ResolvePath(l.To)
}

// NavLinkTarget resolves a navbar link, honoring DocID.
func (c *SiteConfig) NavLinkTarget(n *NavLink) string {
	if n.DocID != "" {
		return c.DocPath(n.DocID)
	}
	return c.LinkTarget(n.LinkItem)
}

// RepositoryURL returns the project repository derived from the organization
// and project names.
func (c *SiteConfig) RepositoryURL() string {
	if c.OrganizationName == "" || c.ProjectName == "" {
		return ""
	}
	return "https://github.com/" + c.OrganizationName + "/" + c.ProjectName
}

// EditURLFor returns the "edit this page" URL for a docs source path relative
// to the docs directory. It uses docs.edit_url when set and falls back to the
// repository URL.
func (c *SiteConfig) EditURLFor(docPath string) string {
	docPath = strings.TrimPrefix(docPath, "/")
	if c.Docs.EditURL != "" {
		return strings.TrimSuffix(c.Docs.EditURL, "/") + "/" + docPath
	}
	repo := c.RepositoryURL()
	if repo == "" {
		return ""
	}
	return repo + "/edit/main/" + strings.Trim(c.Docs.Dir, "/") + "/" + docPath
}

// CanonicalURL returns the absolute URL of a site path.
func (c *SiteConfig) CanonicalURL(sitePath string) string {
	return strings.TrimSuffix(c.URL, "/") + c.ResolvePath(sitePath)
}
