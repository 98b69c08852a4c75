package tui

import (
	"fmt"

	"github.com/jesseduffield/gocui"
)

const (
	viewList       = "list"
	viewHeader     = "header"
	viewFooter     = "footer"
	viewFilter     = "filter"
	viewHelp       = "help"
	viewLimit      = "limit"
	minimumHeight  = 5
	minimumWidth   = 20
	headerHeight   = 1
	footerHeight   = 1
	filterHeightPc = 0.7
)

// layout is gocui's manager function, called on every resize. It lays out
// a header band, the scrolling list filling the middle, and a footer
// band, plus the filter modal and help overlay when open -- a single-
// panel arrangement, unlike the teacher's multi-panel one, since this
// tool's data is a single linear trace rather than several resource
// lists.
func (h *Host) layout(g *gocui.Gui) error {
	width, height := g.Size()

	if height < minimumHeight || width < minimumWidth {
		v, err := g.SetView(viewLimit, 0, 0, width-1, height-1, 0)
		if err != nil {
			if err.Error() != "unknown view" {
				return err
			}
			v.Title = "terminal too small"
			v.Wrap = true
			_, _ = g.SetViewOnTop(viewLimit)
		}
		return nil
	}
	g.DeleteView(viewLimit)

	listTop := headerHeight
	listBottom := height - footerHeight - 1

	if v, err := g.SetView(viewHeader, 0, 0, width-1, headerHeight, 0); err != nil {
		if err.Error() != "unknown view" {
			return err
		}
		v.Frame = false
		v.BgColor = gocui.ColorDefault
	}

	if v, err := g.SetView(viewList, 0, listTop, width-1, listBottom, 0); err != nil {
		if err.Error() != "unknown view" {
			return err
		}
		v.Frame = false
		v.Wrap = false
		if _, err := g.SetCurrentView(viewList); err != nil {
			return err
		}
	}
	h.Model.LastVisibleHeight = listBottom - listTop

	if v, err := g.SetView(viewFooter, 0, height-footerHeight-1, width-1, height-1, 0); err != nil {
		if err.Error() != "unknown view" {
			return err
		}
		v.Frame = false
		v.BgColor = gocui.ColorDefault
	}

	if h.Model.FilterModal != nil {
		if err := h.layoutFilterModal(g, width, height); err != nil {
			return err
		}
	} else {
		g.DeleteView(viewFilter)
	}

	if h.Model.HelpOpen {
		if err := h.layoutHelp(g, width, height); err != nil {
			return err
		}
	} else {
		g.DeleteView(viewHelp)
	}

	return nil
}

// layoutFilterModal centers a modal covering 70% of the visible height
// (matching OpenFilterModal's own 70%-minus-2 sizing, §4.8) and 60% of
// the width.
func (h *Host) layoutFilterModal(g *gocui.Gui, width, height int) error {
	modalWidth := width * 3 / 5
	modalHeight := int(float64(height) * filterHeightPc)
	x0 := (width - modalWidth) / 2
	y0 := (height - modalHeight) / 2

	v, err := g.SetView(viewFilter, x0, y0, x0+modalWidth, y0+modalHeight, 0)
	if err != nil {
		if err.Error() != "unknown view" {
			return err
		}
		v.Title = "filter syscalls"
	}
	if _, err := g.SetViewOnTop(viewFilter); err != nil {
		return err
	}
	if _, err := g.SetCurrentView(viewFilter); err != nil {
		return err
	}
	return nil
}

// layoutHelp centers a fixed-size keybinding reference overlay.
func (h *Host) layoutHelp(g *gocui.Gui, width, height int) error {
	modalWidth := width * 3 / 4
	modalHeight := height * 3 / 4
	x0 := (width - modalWidth) / 2
	y0 := (height - modalHeight) / 2

	v, err := g.SetView(viewHelp, x0, y0, x0+modalWidth, y0+modalHeight, 0)
	if err != nil {
		if err.Error() != "unknown view" {
			return err
		}
		v.Title = fmt.Sprintf("help (press %s to close)", "?")
	}
	if _, err := g.SetViewOnTop(viewHelp); err != nil {
		return err
	}
	return nil
}
