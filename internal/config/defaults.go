package config

// ApplyDefaults fills unset fields. It runs after Normalize so canonical values
// drive the defaults.
func ApplyDefaults(cfg *SiteConfig) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "/"
	}
	if cfg.OnBrokenLinks == "" {
		cfg.OnBrokenLinks = BrokenLinkThrow
	}
	if cfg.OnBrokenMarkdownLinks == "" {
		cfg.OnBrokenMarkdownLinks = BrokenLinkWarn
	}
	if cfg.Theme.ColorMode == "" {
		cfg.Theme.ColorMode = ColorModeLight
	}
	if cfg.Footer.Style == "" {
		cfg.Footer.Style = FooterStyleDark
	}
	if cfg.Navbar.Title == "" {
		cfg.Navbar.Title = cfg.Title
	}
	if cfg.Navbar.Logo.Alt == "" && cfg.Navbar.Logo.Src != "" {
		cfg.Navbar.Logo.Alt = cfg.Title + " Logo"
	}
	if cfg.CodeHighlight.Light == "" {
		cfg.CodeHighlight.Light = "github"
	}
	if cfg.CodeHighlight.Dark == "" {
		cfg.CodeHighlight.Dark = "dracula"
	}
	if cfg.Docs.Dir == "" {
		cfg.Docs.Dir = "docs"
	}
	if cfg.Docs.StaticDir == "" {
		cfg.Docs.StaticDir = "static"
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "./build"
		cfg.Output.Clean = true
	}
	if cfg.Monitoring.NATSURL != "" && cfg.Monitoring.NATSSubject == "" {
		cfg.Monitoring.NATSSubject = "sdvsite.links.broken"
	}
}

// Default returns the sportsdataverse-py site configuration.
func Default() *SiteConfig {
	sameTab := func(label, href string) LinkItem {
		return LinkItem{Label: label, Href: href, SameTab: true}
	}

	cfg := &SiteConfig{
		Version:               CurrentVersion,
		Title:                 "sdv-py",
		Tagline:               "The SportsDataverse's Python Package for Sports Data.",
		URL:                   "https://sportsdataverse-py.sportsdataverse.org",
		BaseURL:               "/",
		Favicon:               "img/favicon.ico",
		SocialImage:           "img/Sportsdataverse_gh.png",
		OrganizationName:      "SportsDataverse",
		ProjectName:           "Sportsdataverse",
		OnBrokenLinks:         BrokenLinkThrow,
		OnBrokenMarkdownLinks: BrokenLinkWarn,
		Theme: ThemeOptions{
			ColorMode:                 ColorModeLight,
			DisableSwitch:             false,
			RespectPrefersColorScheme: true,
			SidebarHideable:           true,
		},
		Navbar: NavbarConfig{
			HideOnScroll: true,
			Title:        "sdv-py",
			Logo:         Logo{Alt: "sportsdataverse-py Logo", Src: "img/logo.png"},
			Entries: NavigationEntries{
				&NavLink{LinkItem: LinkItem{Label: "Docs", Position: "left"}, DocID: "intro"},
				&NavLink{LinkItem: LinkItem{Label: "News", To: "/CHANGELOG", Position: "left"}},
				&SubMenu{
					Label:    "SDV",
					Position: "left",
					Items: []LinkItem{
						sameTab("SportsDataverse", "https://sportsdataverse.org"),
						sameTab("Python Packages", "https://py.sportsdataverse.org/"),
						sameTab("sportsdataverse-py", "https://py.sportsdataverse.org/"),
						{Label: "R Packages", Href: "https://r.sportsdataverse.org/"},
						sameTab("sportsdataverse-R", "https://r.sportsdataverse.org/"),
						sameTab("cfbfastR", "https://cfbfastR.sportsdataverse.org/"),
						sameTab("hoopR", "https://hoopR.sportsdataverse.org/"),
						sameTab("wehoop", "https://wehoop.sportsdataverse.org/"),
						sameTab("fastRhockey", "https://fastRhockey.sportsdataverse.org/"),
						sameTab("worldfootballR", "https://jaseziv.github.io/worldfootballR/"),
						sameTab("baseballr", "https://BillPetti.github.io/baseballr/"),
						sameTab("cfbplotR", "https://kazink36.github.io/cfbplotR/"),
						sameTab("cfb4th", "https://kazink36.github.io/cfb4th/"),
						sameTab("recruitR", "https://recruitR.sportsdataverse.org/"),
						sameTab("gamezoneR", "https://jacklich10.github.io/gamezoneR/"),
						sameTab("puntr", "https://puntalytics.github.io/puntr/"),
						{Label: "Node.js Packages", Href: "https://js.sportsdataverse.org/"},
						sameTab("sportsdataverse.js", "https://js.sportsdataverse.org/"),
						sameTab("nfl-nerd", "https://github.com/nntrn/nfl-nerd/"),
					},
				},
				&NavLink{LinkItem: LinkItem{Label: "GitHub", Href: "https://github.com/sportsdataverse/sportsdataverse-py/", Position: "right"}},
			},
		},
		Footer: FooterConfig{
			Style: FooterStyleDark,
			Columns: []FooterColumn{
				{Title: "Docs", Items: []LinkItem{{Label: "Docs", To: "/docs/intro"}}},
				{Title: "Community", Items: []LinkItem{
					{Label: "Twitter (Author)", Href: "https://twitter.com/saiemgilani"},
					{Label: "Twitter (SportsDataverse)", Href: "https://twitter.com/sportsdataverse"},
				}},
				{Title: "More", Items: []LinkItem{
					{Label: "GitHub", Href: "https://github.com/sportsdataverse/sportsdataverse-py"},
				}},
			},
			CopyrightHTML: "Copyright © {year} <strong>sportsdataverse-py</strong>, developed by " +
				"<a href='https://twitter.com/saiemgilani'>Saiem Gilani</a>, part of the " +
				"<a href='https://sportsdataverse.org'>SportsDataverse</a>.",
		},
		CodeHighlight: CodeHighlightTheme{Light: "github", Dark: "dracula"},
		Scripts: []ExternalScript{
			{
				SourceURL:  "https://plausible.io/js/plausible.js",
				Defer:      true,
				Attributes: map[string]string{"data-domain": "sportsdataverse-py.sportsdataverse.org"},
			},
		},
		Docs: DocsOptions{
			Dir:         "docs",
			SidebarPath: "sidebars.js",
			EditURL:     "https://github.com/sportsdataverse/sportsdataverse-py/edit/master/docs/",
			CustomCSS:   "src/css/custom.css",
			StaticDir:   "static",
		},
		Output: OutputConfig{Directory: "./build", Clean: true},
	}
	return cfg
}
