package telnet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestColorize(t *testing.T) {
	assert.Equal(t, "\033[31mdanger\033[0m", Colorize(Red, "danger"))
	assert.Equal(t, "\033[32mhp: 42\033[0m", Colorf(Green, "hp: %d", 42))
}

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "red normal bold green", StripANSI("\033[31mred\033[0m normal \033[1m\033[32mbold green\033[0m"))
	assert.Equal(t, "plain", StripANSI("plain"))
	assert.Equal(t, "", StripANSI(""))
	assert.Equal(t, "\033[31", StripANSI("\033[31"), "unterminated sequences are kept")
}

func TestHealthColor(t *testing.T) {
	assert.Equal(t, BrightGreen, HealthColor(100, 100))
	assert.Equal(t, BrightGreen, HealthColor(51, 100))
	assert.Equal(t, BrightYellow, HealthColor(50, 100))
	assert.Equal(t, BrightRed, HealthColor(25, 100))
	assert.Equal(t, BrightRed, HealthColor(0, 100))
	assert.Equal(t, BrightRed, HealthColor(0, 0))
}

func TestHealthBar(t *testing.T) {
	assert.Equal(t, "[##########]", HealthBar(30, 30, 10))
	assert.Equal(t, "[#####-----]", HealthBar(15, 30, 10))
	assert.Equal(t, "[#---------]", HealthBar(1, 1000, 10), "a living opponent shows at least one cell")
	assert.Equal(t, "[----------]", HealthBar(0, 30, 10))
}

func TestPropertyStripANSIInvertsColorize(t *testing.T) {
	colors := []string{Red, Green, Blue, Yellow, Cyan, Magenta, White, Bold, Dim}
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-zA-Z0-9 ]{0,50}`).Draw(t, "text")
		color := rapid.SampledFrom(colors).Draw(t, "color")
		assert.Equal(t, text, StripANSI(Colorize(color, text)))
	})
}

func TestPropertyHealthBarWidth(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		max := rapid.IntRange(0, 5000).Draw(t, "max")
		cur := rapid.IntRange(-10, max+10).Draw(t, "cur")
		width := rapid.IntRange(1, 40).Draw(t, "width")
		bar := HealthBar(cur, max, width)
		assert.Len(t, bar, width+2)
		assert.True(t, strings.HasPrefix(bar, "[") && strings.HasSuffix(bar, "]"))
	})
}
