// Package utils holds small helpers shared across packages: color
// formatting, ANSI stripping and rune-aware string truncation.
package utils

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/jesseduffield/gocui"
	"github.com/mattn/go-runewidth"
)

// WithPadding pads a string as much as you want.
func WithPadding(str string, padding int) string {
	uncoloredStr := Decolorise(str)
	if padding < runewidth.StringWidth(uncoloredStr) {
		return str
	}
	return str + strings.Repeat(" ", padding-runewidth.StringWidth(uncoloredStr))
}

// ColoredString takes a string and a colour attribute and returns a colored
// string with that attribute.
func ColoredString(str string, colorAttribute color.Attribute) string {
	// fatih/color has no color.Default attribute, so by FgWhite we really
	// mean "leave it alone", for the sake of light-themed terminals.
	if colorAttribute == color.FgWhite {
		return str
	}
	colour := color.New(colorAttribute)
	return ColoredStringDirect(str, colour)
}

// MultiColoredString takes a string and an array of colour attributes and
// returns a colored string with those attributes.
func MultiColoredString(str string, colorAttribute ...color.Attribute) string {
	colour := color.New(colorAttribute...)
	return ColoredStringDirect(str, colour)
}

// ColoredStringDirect is used for aggregating a few color attributes rather
// than just sending a single one.
func ColoredStringDirect(str string, colour *color.Color) string {
	return colour.SprintFunc()(fmt.Sprint(str))
}

// Decolorise strips a string of color escapes.
func Decolorise(str string) string {
	re := regexp.MustCompile(`\x1B\[([0-9]{1,2}(;[0-9]{1,2})?)?[mK]`)
	return re.ReplaceAllString(str, "")
}

// GetGocuiAttribute gets the gocui color attribute from the string. gocui
// only has the 8 base ANSI colors, so the "light-*" and "dark-gray" keys
// (used by the syscall-category palette) are synthesized by OR-ing in
// AttrBold, the same trick GetColor's callers already use for combos like
// {"green", "bold"}.
func GetGocuiAttribute(key string) gocui.Attribute {
	colorMap := map[string]gocui.Attribute{
		"default":      gocui.ColorDefault,
		"black":        gocui.ColorBlack,
		"red":          gocui.ColorRed,
		"green":        gocui.ColorGreen,
		"yellow":       gocui.ColorYellow,
		"blue":         gocui.ColorBlue,
		"magenta":      gocui.ColorMagenta,
		"cyan":         gocui.ColorCyan,
		"white":        gocui.ColorWhite,
		"light-red":     gocui.ColorRed | gocui.AttrBold,
		"light-green":   gocui.ColorGreen | gocui.AttrBold,
		"light-yellow":  gocui.ColorYellow | gocui.AttrBold,
		"light-blue":    gocui.ColorBlue | gocui.AttrBold,
		"light-magenta": gocui.ColorMagenta | gocui.AttrBold,
		"light-cyan":    gocui.ColorCyan | gocui.AttrBold,
		"dark-gray":     gocui.ColorBlack | gocui.AttrBold,
		"bold":          gocui.AttrBold,
		"reverse":       gocui.AttrReverse,
		"underline":     gocui.AttrUnderline,
	}
	value, present := colorMap[key]
	if present {
		return value
	}
	return gocui.ColorDefault
}

// GetColorAttribute gets the fatih/color attribute from the string, used to
// color the TUI's display lines, header and lane gutter. fatih/color's Hi*
// constants give the "light-*"/"dark-gray" keys a real bright color instead
// of gocui's bold-as-bright approximation.
func GetColorAttribute(key string) color.Attribute {
	colorMap := map[string]color.Attribute{
		"default":       color.FgWhite,
		"black":         color.FgBlack,
		"red":           color.FgRed,
		"green":         color.FgGreen,
		"yellow":        color.FgYellow,
		"blue":          color.FgBlue,
		"magenta":       color.FgMagenta,
		"cyan":          color.FgCyan,
		"white":         color.FgWhite,
		"light-red":     color.FgHiRed,
		"light-green":   color.FgHiGreen,
		"light-yellow":  color.FgHiYellow,
		"light-blue":    color.FgHiBlue,
		"light-magenta": color.FgHiMagenta,
		"light-cyan":    color.FgHiCyan,
		"dark-gray":     color.FgHiBlack,
		"bold":          color.Bold,
		"underline":     color.Underline,
	}
	value, present := colorMap[key]
	if present {
		return value
	}
	return color.FgWhite
}

type multiErr []error

func (m multiErr) Error() string {
	var b bytes.Buffer
	b.WriteString("encountered multiple errors:")
	for _, err := range m {
		b.WriteString("\n\t... " + err.Error())
	}
	return b.String()
}

// CloseMany closes every closer, collecting and joining any errors.
func CloseMany(closers []io.Closer) error {
	errs := make([]error, 0, len(closers))
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return multiErr(errs)
	}
	return nil
}

// TruncateEnd truncates str to at most limit display characters (rune-width,
// not bytes), appending an ellipsis if anything was cut. Used for argument
// and value text where the interesting part is at the start.
func TruncateEnd(str string, limit int) string {
	if limit <= 0 {
		return ""
	}
	width := runewidth.StringWidth(str)
	if width <= limit {
		return str
	}
	if limit <= 1 {
		return "…"
	}
	return runewidth.Truncate(str, limit-1, "") + "…"
}

// TruncateStart truncates str to at most limit display characters, keeping
// the END of the string and prefixing an ellipsis. Used for file paths where
// the filename at the end matters more than the leading directories.
func TruncateStart(str string, limit int) string {
	if limit <= 0 {
		return ""
	}
	width := runewidth.StringWidth(str)
	if width <= limit {
		return str
	}
	if limit <= 1 {
		return "…"
	}
	runes := []rune(str)
	// Walk from the end, accumulating rune widths, until we've used up
	// limit-1 columns (reserving one column for the ellipsis).
	budget := limit - 1
	start := len(runes)
	for i := len(runes) - 1; i >= 0; i-- {
		w := runewidth.RuneWidth(runes[i])
		if budget-w < 0 {
			break
		}
		budget -= w
		start = i
	}
	return "…" + string(runes[start:])
}
