package homepage

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsdataverse/sdvsite/internal/config"
)

func TestRenderHeader_ExposesStringsVerbatim(t *testing.T) {
	h := RenderHeader("sdv-py", "The SportsDataverse's Python Package for Sports Data.")

	assert.Equal(t, "sdv-py", h.Title)
	assert.Equal(t, "The SportsDataverse's Python Package for Sports Data.", h.Tagline)
	assert.Equal(t, "/docs/intro", h.CallToAction.To)
	assert.NotEmpty(t, h.CallToAction.Label)
}

func TestRenderFeatureList_OneBlockPerRecordInOrder(t *testing.T) {
	records := DefaultFeatures()
	blocks := Collect(RenderFeatureList(records, Options{}))

	require.Len(t, blocks, len(records))
	for i, r := range records {
		assert.Equal(t, r.Title, blocks[i].Title)
	}
	assert.Equal(t, "epa-and-wpa", blocks[1].Anchor)
}

func TestRenderFeatureList_Restartable(t *testing.T) {
	seq := RenderFeatureList(DefaultFeatures(), Options{})

	first := Collect(seq)
	second := Collect(seq)
	assert.Equal(t, first, second)
}

func TestRenderFeatureList_Idempotent(t *testing.T) {
	records := DefaultFeatures()
	a := Collect(RenderFeatureList(records, Options{}))
	b := Collect(RenderFeatureList(records, Options{}))
	assert.Equal(t, a, b)
}

func TestRenderFeatureList_Empty(t *testing.T) {
	blocks := Collect(RenderFeatureList(nil, Options{}))
	assert.NotNil(t, blocks)
	assert.Empty(t, blocks)
}

func TestRenderFeatureList_EarlyStop(t *testing.T) {
	var seen []string
	for b := range RenderFeatureList(DefaultFeatures(), Options{}) {
		seen = append(seen, b.Title)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"College Football", "EPA and WPA"}, seen)
}

func TestRenderFeatureList_ImageBranch(t *testing.T) {
	records := []FeatureRecord{
		{Title: "With", Description: "has image", ImagePath: "img/with.svg"},
		{Title: "Without", Description: "no image"},
	}
	blocks := Collect(RenderFeatureList(records, Options{
		ResolveImage: func(p string) string { return "/base/" + p },
	}))
	require.Len(t, blocks, 2)

	require.True(t, blocks[0].HasImage())
	assert.Equal(t, "/base/img/with.svg", blocks[0].Image.Src)
	assert.Equal(t, "With", blocks[0].Image.Alt)

	assert.False(t, blocks[1].HasImage())
	assert.Nil(t, blocks[1].Image)
}

func TestRenderFeatureList_NFLScenario(t *testing.T) {
	desc := "It provides users with the capability to access the nflfastR team's game play-by-plays, box scores, and schedules."
	blocks := Collect(RenderFeatureList([]FeatureRecord{{Title: "NFL", Description: desc}}, Options{}))

	require.Len(t, blocks, 1)
	assert.Equal(t, "NFL", blocks[0].Title)
	assert.Contains(t, string(blocks[0].Description), "game play-by-plays")
	assert.Nil(t, blocks[0].Image)
}

func TestRenderFeatureList_CopiesInput(t *testing.T) {
	records := []FeatureRecord{{Title: "A"}, {Title: "B"}}
	seq := RenderFeatureList(records, Options{})
	records[0].Title = "changed"

	titles := slices.Collect(func(yield func(string) bool) {
		for b := range seq {
			if !yield(b.Title) {
				return
			}
		}
	})
	assert.Equal(t, []string{"A", "B"}, titles)
}

func TestRenderDescription_Markdown(t *testing.T) {
	got := renderDescription("Access **play-by-play** data via [docs](/docs/intro).")
	assert.Equal(t, `<p>Access <strong>play-by-play</strong> data via <a href="/docs/intro">docs</a>.</p>`, string(got))
}

func TestNewPage_ResolvesAgainstBaseURL(t *testing.T) {
	cfg := config.Default()
	cfg.BaseURL = "/sdv/"

	page := NewPage(cfg, []FeatureRecord{{Title: "Logo", ImagePath: "img/logo.png"}})

	assert.Equal(t, "sdv-py", page.Header.Title)
	assert.Equal(t, "/sdv/docs/intro", page.Header.CallToAction.To)
	require.Len(t, page.Features, 1)
	assert.Equal(t, "/sdv/img/logo.png", page.Features[0].Image.Src)
}
