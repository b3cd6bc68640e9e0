package homepage

import (
	"bytes"
	"html/template"
	"iter"
	"slices"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/sportsdataverse/sdvsite/internal/foundation/normalization"
)

// GettingStartedPath is the call-to-action target of the header.
const GettingStartedPath = "/docs/intro"

// FeatureRecord is one hand-authored homepage bullet. Description is a
// markdown fragment. An empty ImagePath means the feature has no image.
type FeatureRecord struct {
	Title       string
	Description string
	ImagePath   string
}

// Link is a labelled site path.
type Link struct {
	Label string
	To    string
}

// HeaderBlock is the hero banner.
type HeaderBlock struct {
	Title        string
	Tagline      string
	CallToAction Link
}

// Image is the optional illustration of a feature.
type Image struct {
	Src string
	Alt string
}

// FeatureBlock is the rendered form of a FeatureRecord.
type FeatureBlock struct {
	Anchor      string
	Title       string
	Description template.HTML
	Image       *Image // nil when the record has no image
}

// HasImage reports whether the block carries an image.
func (b FeatureBlock) HasImage() bool { return b.Image != nil }

// RenderHeader builds the hero banner from the site title and tagline.
func RenderHeader(title, tagline string) HeaderBlock {
	return HeaderBlock{
		Title:        title,
		Tagline:      tagline,
		CallToAction: Link{Label: "Getting Started", To: GettingStartedPath},
	}
}

// Options tune feature rendering.
type Options struct {
	// ResolveImage maps an image path to its final URL, typically prefixing
	// the site base URL. Nil leaves paths untouched.
	ResolveImage func(string) string
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderFeatureList yields one FeatureBlock per record in input order. The
// sequence is lazy, finite and restartable; records is not retained beyond a
// private copy, so later mutation by the caller does not affect it.
func RenderFeatureList(records []FeatureRecord, opts Options) iter.Seq[FeatureBlock] {
	records = slices.Clone(records)
	return func(yield func(FeatureBlock) bool) {
		for _, r := range records {
			if !yield(renderFeature(r, opts)) {
				return
			}
		}
	}
}

// Collect materializes a feature sequence. An empty sequence yields an empty,
// non-nil slice.
func Collect(seq iter.Seq[FeatureBlock]) []FeatureBlock {
	out := []FeatureBlock{}
	for b := range seq {
		out = append(out, b)
	}
	return out
}

func renderFeature(r FeatureRecord, opts Options) FeatureBlock {
	block := FeatureBlock{
		Anchor:      normalization.Slug(r.Title),
		Title:       r.Title,
		Description: renderDescription(r.Description),
	}
	if r.ImagePath != "" {
		src := r.ImagePath
		if opts.ResolveImage != nil {
			src = opts.ResolveImage(src)
		}
		block.Image = &Image{Src: src, Alt: r.Title}
	}
	return block
}

// renderDescription converts the markdown fragment to HTML. Descriptions are
// author-controlled constants; raw HTML inside them is escaped by goldmark's
// default renderer. On conversion failure the text is escaped verbatim.
func renderDescription(md string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(md) + "</p>") //nolint:gosec // escaped above
	}
	return template.HTML(bytes.TrimSpace(buf.Bytes())) //nolint:gosec // produced by goldmark with unsafe HTML disabled
}
