package config

// SiteConfig is the declarative description of the documentation site: metadata,
// theme options, navigation bar, footer and injected scripts. It is loaded once per
// build and treated as read-only afterwards.
type SiteConfig struct {
	Version               string             `yaml:"version"`
	Title                 string             `yaml:"title"`
	Tagline               string             `yaml:"tagline"`
	URL                   string             `yaml:"url"`      // canonical site URL (scheme + host)
	BaseURL               string             `yaml:"base_url"` // path prefix, always ends with "/"
	Favicon               string             `yaml:"favicon,omitempty"`
	SocialImage           string             `yaml:"social_image,omitempty"`
	OrganizationName      string             `yaml:"organization_name,omitempty"`
	ProjectName           string             `yaml:"project_name,omitempty"`
	OnBrokenLinks         BrokenLinkPolicy   `yaml:"on_broken_links"`
	OnBrokenMarkdownLinks BrokenLinkPolicy   `yaml:"on_broken_markdown_links"`
	Theme                 ThemeOptions       `yaml:"theme"`
	Navbar                NavbarConfig       `yaml:"navbar"`
	Footer                FooterConfig       `yaml:"footer"`
	CodeHighlight         CodeHighlightTheme `yaml:"prism"`
	Scripts               []ExternalScript   `yaml:"scripts,omitempty"`
	Docs                  DocsOptions        `yaml:"docs"`
	Output                OutputConfig       `yaml:"output"`
	Monitoring            MonitoringConfig   `yaml:"monitoring,omitempty"`
}

// ThemeOptions controls color mode handling.
type ThemeOptions struct {
	ColorMode                 ColorMode `yaml:"color_mode"`
	DisableSwitch             bool      `yaml:"disable_switch"`
	RespectPrefersColorScheme bool      `yaml:"respect_prefers_color_scheme"`
	SidebarHideable           bool      `yaml:"sidebar_hideable,omitempty"`
}

// SwitchEnabled reports whether visitors may toggle the color mode.
func (t ThemeOptions) SwitchEnabled() bool { return !t.DisableSwitch }

// NavbarConfig describes the top navigation bar.
type NavbarConfig struct {
	HideOnScroll bool              `yaml:"hide_on_scroll"`
	Title        string            `yaml:"title"`
	Logo         Logo              `yaml:"logo"`
	Entries      NavigationEntries `yaml:"items"`
}

// Logo is the navbar image.
type Logo struct {
	Alt string `yaml:"alt"`
	Src string `yaml:"src"`
}

// FooterConfig describes the page footer.
type FooterConfig struct {
	Style         FooterStyle    `yaml:"style"`
	Columns       []FooterColumn `yaml:"links"`
	CopyrightHTML string         `yaml:"copyright,omitempty"` // "{year}" is replaced at render time
}

// FooterColumn is one titled column of footer links.
type FooterColumn struct {
	Title string     `yaml:"title"`
	Items []LinkItem `yaml:"items"`
}

// CodeHighlightTheme names the syntax highlighting themes for each color mode.
type CodeHighlightTheme struct {
	Light string `yaml:"theme"`
	Dark  string `yaml:"dark_theme"`
}

// ExternalScript is one <script src> emitted into every page head.
type ExternalScript struct {
	SourceURL  string            `yaml:"src"`
	Defer      bool              `yaml:"defer,omitempty"`
	Attributes map[string]string `yaml:"attributes,omitempty"`
}

// DocsOptions locates documentation content and related assets.
type DocsOptions struct {
	Dir         string   `yaml:"dir"`
	SidebarPath string   `yaml:"sidebar_path,omitempty"`
	EditURL     string   `yaml:"edit_url,omitempty"`
	CustomCSS   string   `yaml:"custom_css,omitempty"`
	StaticDir   string   `yaml:"static_dir,omitempty"`
	Exclude     []string `yaml:"exclude,omitempty"` // globs relative to Dir
}

// OutputConfig controls where the generated site is written.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"`
}

// MonitoringConfig holds optional integrations for build observability.
type MonitoringConfig struct {
	NATSURL     string `yaml:"nats_url,omitempty"`
	NATSSubject string `yaml:"nats_subject,omitempty"`
}

// Link targets accepted in navbar and footer links.
const (
	LinkTargetSelf  = "_self"
	LinkTargetBlank = "_blank"
)

// BrokenLinkPolicy is the action taken when a link target does not exist.
type BrokenLinkPolicy string

const (
	BrokenLinkThrow  BrokenLinkPolicy = "throw"  // fail the build
	BrokenLinkWarn   BrokenLinkPolicy = "warn"   // log and continue
	BrokenLinkIgnore BrokenLinkPolicy = "ignore" // do nothing
)

// ColorMode is the default color scheme.
type ColorMode string

const (
	ColorModeLight ColorMode = "light"
	ColorModeDark  ColorMode = "dark"
)

// FooterStyle selects the footer palette.
type FooterStyle string

const (
	FooterStyleDark  FooterStyle = "dark"
	FooterStyleLight FooterStyle = "light"
)

// CurrentVersion is the only supported configuration file version.
const CurrentVersion = "1"
