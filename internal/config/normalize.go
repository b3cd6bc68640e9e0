package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sportsdataverse/sdvsite/internal/foundation/normalization"
)

// NormalizationResult captures adjustments and warnings from the normalization pass.
type NormalizationResult struct{ Warnings []string }

// Normalize canonicalizes enumerated fields before defaults are applied. It
// mutates cfg in place. Unknown enum values fall back to the default with a
// warning rather than failing.
func Normalize(cfg *SiteConfig) (*NormalizationResult, error) {
	if cfg == nil {
		return nil, errors.New("config nil")
	}
	res := &NormalizationResult{}

	cfg.Title = strings.TrimSpace(cfg.Title)
	cfg.Tagline = strings.TrimSpace(cfg.Tagline)
	cfg.URL = strings.TrimSpace(cfg.URL)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)

	cfg.OnBrokenLinks = normalizePolicy("on_broken_links", cfg.OnBrokenLinks, BrokenLinkThrow, res)
	cfg.OnBrokenMarkdownLinks = normalizePolicy("on_broken_markdown_links", cfg.OnBrokenMarkdownLinks, BrokenLinkWarn, res)

	normalizeLinkTargets(cfg, res)

	if cfg.Theme.ColorMode != "" {
		cm := NormalizeColorMode(string(cfg.Theme.ColorMode))
		switch {
		case cm == "":
			res.Warnings = append(res.Warnings, warnUnknown("theme.color_mode", string(cfg.Theme.ColorMode), string(ColorModeLight)))
			cfg.Theme.ColorMode = ColorModeLight
		case cm != cfg.Theme.ColorMode:
			res.Warnings = append(res.Warnings, warnChanged("theme.color_mode", cfg.Theme.ColorMode, cm))
			cfg.Theme.ColorMode = cm
		}
	}

	if cfg.Footer.Style != "" {
		fs := NormalizeFooterStyle(string(cfg.Footer.Style))
		switch {
		case fs == "":
			res.Warnings = append(res.Warnings, warnUnknown("footer.style", string(cfg.Footer.Style), string(FooterStyleDark)))
			cfg.Footer.Style = FooterStyleDark
		case fs != cfg.Footer.Style:
			res.Warnings = append(res.Warnings, warnChanged("footer.style", cfg.Footer.Style, fs))
			cfg.Footer.Style = fs
		}
	}
	return res, nil
}

// normalizeLinkTargets folds target into SameTab for every navbar and footer
// link. "_self" selects the current tab, "_blank" a new one.
func normalizeLinkTargets(cfg *SiteConfig, res *NormalizationResult) {
	apply := func(field string, l *LinkItem) {
		raw := strings.TrimSpace(l.Target)
		if raw == "" {
			return
		}
		switch strings.ToLower(raw) {
		case LinkTargetSelf:
			l.Target = LinkTargetSelf
			l.SameTab = true
		case LinkTargetBlank:
			l.Target = LinkTargetBlank
			l.SameTab = false
		default:
			res.Warnings = append(res.Warnings, warnUnknown(field+".target", raw, LinkTargetBlank))
			l.Target = LinkTargetBlank
			l.SameTab = false
		}
	}
	for i, entry := range cfg.Navbar.Entries {
		field := fmt.Sprintf("navbar.items[%d]", i)
		switch e := entry.(type) {
		case *NavLink:
			apply(field, &e.LinkItem)
		case *SubMenu:
			for j := range e.Items {
				apply(fmt.Sprintf("%s.items[%d]", field, j), &e.Items[j])
			}
		}
	}
	for i := range cfg.Footer.Columns {
		for j := range cfg.Footer.Columns[i].Items {
			apply(fmt.Sprintf("footer.links[%d].items[%d]", i, j), &cfg.Footer.Columns[i].Items[j])
		}
	}
}

func normalizePolicy(field string, p, def BrokenLinkPolicy, res *NormalizationResult) BrokenLinkPolicy {
	if strings.TrimSpace(string(p)) == "" {
		return p
	}
	np := NormalizeBrokenLinkPolicy(string(p))
	if np == "" {
		res.Warnings = append(res.Warnings, warnUnknown(field, string(p), string(def)))
		return def
	}
	if np != p {
		res.Warnings = append(res.Warnings, warnChanged(field, p, np))
	}
	return np
}

var (
	brokenLinkPolicies = normalization.NewNormalizer(map[string]BrokenLinkPolicy{
		"throw":   BrokenLinkThrow,
		"error":   BrokenLinkThrow,
		"fail":    BrokenLinkThrow,
		"warn":    BrokenLinkWarn,
		"warning": BrokenLinkWarn,
		"log":     BrokenLinkWarn,
		"ignore":  BrokenLinkIgnore,
		"off":     BrokenLinkIgnore,
	})
	colorModes = normalization.NewNormalizer(map[string]ColorMode{
		"light": ColorModeLight,
		"dark":  ColorModeDark,
	})
	footerStyles = normalization.NewNormalizer(map[string]FooterStyle{
		"dark":  FooterStyleDark,
		"light": FooterStyleLight,
	})
)

// NormalizeBrokenLinkPolicy maps user input to a policy, or "" when unknown.
// "error" and "fail" are accepted as aliases of throw.
func NormalizeBrokenLinkPolicy(raw string) BrokenLinkPolicy {
	return brokenLinkPolicies.Normalize(raw)
}

// NormalizeColorMode maps user input to a ColorMode, or "" when unknown.
func NormalizeColorMode(raw string) ColorMode {
	return colorModes.Normalize(raw)
}

// NormalizeFooterStyle maps user input to a FooterStyle, or "" when unknown.
func NormalizeFooterStyle(raw string) FooterStyle {
	return footerStyles.Normalize(raw)
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def)
}
