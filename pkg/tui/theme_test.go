package tui

import (
	"testing"

	"github.com/fatih/color"
	"github.com/jesseduffield/gocui"
	"github.com/stretchr/testify/assert"

	"github.com/straceview/stracetui/pkg/config"
	"github.com/straceview/stracetui/pkg/utils"
)

func TestGetColorCombinesAttributes(t *testing.T) {
	got := GetColor([]string{"green", "bold"})
	assert.Equal(t, gocui.ColorGreen|gocui.AttrBold, got)
}

func TestGetColorUnknownKeyIsDefault(t *testing.T) {
	got := GetColor([]string{"not-a-color"})
	assert.Equal(t, gocui.ColorDefault, got)
}

func TestLaneColorWrapsAroundPalette(t *testing.T) {
	theme := config.ThemeConfig{ProcessLaneColors: []string{"blue", "green", "yellow"}}

	assert.Equal(t, utils.GetGocuiAttribute("blue"), laneColor(theme, 0))
	assert.Equal(t, utils.GetGocuiAttribute("yellow"), laneColor(theme, 2))
	assert.Equal(t, utils.GetGocuiAttribute("blue"), laneColor(theme, 3))
}

func TestLaneColorEmptyPaletteIsDefault(t *testing.T) {
	assert.Equal(t, gocui.ColorDefault, laneColor(config.ThemeConfig{}, 0))
}

func TestLaneColorAttributeWrapsAroundPalette(t *testing.T) {
	theme := config.ThemeConfig{ProcessLaneColors: []string{"blue", "green", "yellow"}}

	assert.Equal(t, utils.GetColorAttribute("blue"), laneColorAttribute(theme, 0))
	assert.Equal(t, utils.GetColorAttribute("yellow"), laneColorAttribute(theme, 2))
	assert.Equal(t, utils.GetColorAttribute("blue"), laneColorAttribute(theme, 3))
}

func TestLaneColorAttributeEmptyPaletteIsWhite(t *testing.T) {
	assert.Equal(t, color.FgWhite, laneColorAttribute(config.ThemeConfig{}, 0))
}
