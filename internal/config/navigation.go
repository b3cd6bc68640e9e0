package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// LinkItem is a single labelled link. Exactly one of To (site path or bare
// doc path) and Href (absolute URL) is set. Target "_self" keeps an external
// link in the current tab; same_tab is accepted as a shorthand.
type LinkItem struct {
	Label    string `yaml:"label"`
	To       string `yaml:"to,omitempty"`
	Href     string `yaml:"href,omitempty"`
	Target   string `yaml:"target,omitempty"`
	SameTab  bool   `yaml:"same_tab,omitempty"`
	Position string `yaml:"position,omitempty"`
}

// Destination returns Href when set, otherwise To.
func (l LinkItem) Destination() string {
	if l.Href != "" {
		return l.Href
	}
	return l.To
}

// IsExternal reports whether the link leaves the site.
func (l LinkItem) IsExternal() bool { return l.Href != "" }

// OpenInSameTab reports whether the link replaces the current page. Site paths
// always do.
func (l LinkItem) OpenInSameTab() bool {
	return !l.IsExternal() || l.SameTab || l.Target == LinkTargetSelf
}

// EntryKind discriminates NavigationEntry variants.
type EntryKind string

const (
	EntryLink    EntryKind = "link"
	EntrySubMenu EntryKind = "submenu"
)

// NavigationEntry is one item of the navbar: either a *NavLink or a *SubMenu.
type NavigationEntry interface {
	Kind() EntryKind
	EntryLabel() string
	EntryPosition() string
	isNavigationEntry()
}

// NavLink is a navbar link. DocID, when set, points to a docs page and takes
// precedence over To.
type NavLink struct {
	LinkItem `yaml:",inline"`
	DocID    string `yaml:"doc_id,omitempty"`
}

func (*NavLink) Kind() EntryKind { return EntryLink }
func (n *NavLink) EntryLabel() string { return n.Label }
func (n *NavLink) EntryPosition() string { return n.Position }
func (*NavLink) isNavigationEntry() {}

// SubMenu is a navbar dropdown holding an ordered list of links.
type SubMenu struct {
	Label    string     `yaml:"label"`
	Position string     `yaml:"position,omitempty"`
	Items    []LinkItem `yaml:"items"`
}

func (*SubMenu) Kind() EntryKind { return EntrySubMenu }
func (s *SubMenu) EntryLabel() string { return s.Label }
func (s *SubMenu) EntryPosition() string { return s.Position }
func (*SubMenu) isNavigationEntry() {}

// NavigationEntries keeps author order. A mapping with an "items" key decodes
// as a *SubMenu, anything else as a *NavLink.
type NavigationEntries []NavigationEntry

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *NavigationEntries) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: navbar items must be a sequence", value.Line)
	}
	out := make(NavigationEntries, 0, len(value.Content))
	for _, node := range value.Content {
		if node.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: navbar item must be a mapping", node.Line)
		}
		if hasKey(node, "items") {
			var sm SubMenu
			if err := node.Decode(&sm); err != nil {
				return err
			}
			out = append(out, &sm)
			continue
		}
		var nl NavLink
		if err := node.Decode(&nl); err != nil {
			return err
		}
		out = append(out, &nl)
	}
	*e = out
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (e NavigationEntries) MarshalYAML() (any, error) {
	items := make([]any, 0, len(e))
	for _, entry := range e {
		items = append(items, entry)
	}
	return items, nil
}

func hasKey(mapping *yaml.Node, key string) bool {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return true
		}
	}
	return false
}
