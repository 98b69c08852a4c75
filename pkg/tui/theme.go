package tui

import (
	"github.com/fatih/color"
	"github.com/jesseduffield/gocui"

	"github.com/straceview/stracetui/pkg/config"
	"github.com/straceview/stracetui/pkg/utils"
)

// GetColor bitwise OR's a list of attributes obtained via the given keys.
func GetColor(keys []string) gocui.Attribute {
	var attribute gocui.Attribute
	for _, key := range keys {
		attribute |= utils.GetGocuiAttribute(key)
	}
	return attribute
}

// SetColorScheme applies the theme's border colors to the gocui instance.
func SetColorScheme(g *gocui.Gui, theme config.ThemeConfig) {
	g.FgColor = GetColor(theme.InactiveBorderColor)
	g.SelFgColor = GetColor(theme.ActiveBorderColor)
}

// laneColor picks a process lane's border color from the theme's cycled
// palette, wrapping around if there are more lanes than colors (§4.6's
// "lane colors are reused" rule).
func laneColor(theme config.ThemeConfig, colorIndex int) gocui.Attribute {
	palette := theme.ProcessLaneColors
	if len(palette) == 0 {
		return gocui.ColorDefault
	}
	return utils.GetGocuiAttribute(palette[colorIndex%len(palette)])
}

// laneColorAttribute is laneColor's fatih/color counterpart, for the gutter
// glyphs in render.go which are drawn via utils.ColoredString rather than
// gocui's own Fg/SelFgColor scheme.
func laneColorAttribute(theme config.ThemeConfig, colorIndex int) color.Attribute {
	palette := theme.ProcessLaneColors
	if len(palette) == 0 {
		return color.FgWhite
	}
	return utils.GetColorAttribute(palette[colorIndex%len(palette)])
}
