package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/pders01/vodfall/internal/config"
)

func TestBannerText(t *testing.T) {
	assert.Contains(t, ansi.Strip(BannerText("1.2.0")), Tagline+" v1.2.0")
	assert.Contains(t, ansi.Strip(BannerText("dev")), Tagline)
	assert.NotContains(t, ansi.Strip(BannerText("dev")), "vdev")
}

func TestApplyColors(t *testing.T) {
	orig := PrimaryColor
	t.Cleanup(func() {
		PrimaryColor = orig
		buildStyles()
	})

	ApplyColors(config.UIColors{Primary: "#123456"})
	assert.Equal(t, lipgloss.Color("#123456"), PrimaryColor)

	ApplyColors(config.UIColors{})
	assert.Equal(t, lipgloss.Color("#123456"), PrimaryColor, "empty entries keep the current color")
}

func TestStatusHelpers(t *testing.T) {
	assert.Equal(t, "1 card from 1 source", MsgLoaded(1, 1))
	assert.Equal(t, "12 cards from 3 sources", MsgLoaded(12, 3))
	assert.Equal(t, "+4 cards", MsgAppended(4))
	assert.Equal(t, MsgNoMatches, MsgResultsCount(0))
	assert.Equal(t, "2 matches", MsgResultsCount(2))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncateEnd("abc", 5))
	assert.Equal(t, "ab…", truncateEnd("abcdef", 3))
	assert.Equal(t, "ab…ef", truncateMiddle("abcdef", 5))
	assert.Equal(t, "", truncateEnd("abc", 0))
	assert.Equal(t, "流…", truncateEnd("流浪地球", 3), "wide runes take two cells")
}
