package tui

import (
	"github.com/jesseduffield/gocui"
)

const viewSearch = "search"

// bindSearchEditor wires the search overlay's text editing, grounded on
// the teacher's views.go/filtering.go pattern: an Editable view with a
// gocui.SimpleEditor wrapped so every matched keystroke feeds the
// accumulated TextArea content back into the app (there, onNewFilterNeedle;
// here, reconcileSearchContent).
func (h *Host) bindSearchEditor(g *gocui.Gui) error {
	v, err := g.SetView(viewSearch, 0, 0, 1, 1, 0)
	if err != nil && err.Error() != "unknown view" {
		return err
	}
	if v != nil {
		v.Editable = true
		v.Editor = gocui.EditorFunc(h.wrapSearchEditor(gocui.SimpleEditor))
		_, _ = g.SetViewOnBottom(viewSearch)
	}
	return nil
}

// wrapSearchEditor lets gocui.SimpleEditor handle raw key/cursor/TextArea
// mechanics, then reconciles the resulting content against whichever
// search session is active by diffing it against the content we saw last
// time, translating the difference into the model's own
// AppendSearchChar/BackspaceSearch keystroke-at-a-time API.
func (h *Host) wrapSearchEditor(f func(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool) func(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	return func(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
		before := v.TextArea.GetContent()
		matched := f(v, key, ch, mod)
		if !matched {
			return false
		}
		after := v.TextArea.GetContent()
		h.reconcileSearchContent(before, after)
		_ = h.refresh(h.g)
		return true
	}
}

func (h *Host) reconcileSearchContent(before, after string) {
	appendChar, backspace := h.searchMutators()
	if appendChar == nil {
		return
	}

	b, a := []rune(before), []rune(after)
	common := 0
	for common < len(b) && common < len(a) && b[common] == a[common] {
		common++
	}
	for i := len(b) - 1; i >= common; i-- {
		backspace()
	}
	for i := common; i < len(a); i++ {
		appendChar(a[i])
	}
}

// searchMutators returns the Append/Backspace pair for whichever search
// session currently owns the keyboard (main view or filter modal),
// matching the modal precedence established in keybindings.go.
func (h *Host) searchMutators() (func(rune), func()) {
	if h.Model.FilterModal != nil && h.Model.FilterModal.Search.Active {
		fm := h.Model.FilterModal
		return fm.AppendSearchChar, func() { fm.BackspaceSearch() }
	}
	if h.Model.Search.Active {
		return h.Model.AppendSearchChar, func() { h.Model.BackspaceSearch() }
	}
	return nil, nil
}

// enterSearchMode focuses the search overlay for the main view's
// incremental search.
func (h *Host) enterSearchMode(g *gocui.Gui) error {
	return h.focusSearchOverlay(g)
}

// leaveSearchMode returns focus to the main list after a search session
// ends (accept or cancel).
func (h *Host) leaveSearchMode(g *gocui.Gui) error {
	if err := h.unfocusSearchOverlay(g); err != nil {
		return err
	}
	if _, err := g.SetCurrentView(viewList); err != nil {
		return err
	}
	return h.refresh(g)
}

func (h *Host) enterFilterModalMode(g *gocui.Gui) error {
	if _, err := g.SetCurrentView(viewFilter); err != nil {
		return err
	}
	return h.refresh(g)
}

func (h *Host) leaveFilterModalMode(g *gocui.Gui) error {
	if _, err := g.SetCurrentView(viewList); err != nil {
		return err
	}
	return h.refresh(g)
}

func (h *Host) enterFilterModalSearchMode(g *gocui.Gui) error {
	return h.focusSearchOverlay(g)
}

func (h *Host) focusSearchOverlay(g *gocui.Gui) error {
	width, height := g.Size()
	v, err := g.SetView(viewSearch, 0, height-footerHeight-1, width-1, height-1, 0)
	if err != nil && err.Error() != "unknown view" {
		return err
	}
	if v != nil {
		v.Frame = false
		v.ClearTextArea()
		v.Clear()
	}
	if _, err := g.SetViewOnTop(viewSearch); err != nil {
		return err
	}
	if _, err := g.SetCurrentView(viewSearch); err != nil {
		return err
	}
	g.Cursor = true
	return h.refresh(g)
}

func (h *Host) unfocusSearchOverlay(g *gocui.Gui) error {
	g.Cursor = false
	_, err := g.SetViewOnBottom(viewSearch)
	return err
}
