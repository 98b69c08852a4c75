package tui

import (
	"github.com/jesseduffield/gocui"

	"github.com/straceview/stracetui/pkg/view"
)

// keybindings wires every key this tool recognizes onto the list view and
// the search editor, following the teacher's keybindings.go shape
// (SetKeybinding per view/key/handler) generalized to this tool's single
// scrolling list plus two modal overlays. Modal precedence (search input >
// filter modal > help overlay > main) is enforced inside each handler by
// checking h.Model's current mode before acting (§4.7), rather than by
// unbinding/rebinding views. gocui delivers key events to whichever view
// currently has focus; focus moves to the filter or search view while
// that overlay is open.
func (h *Host) keybindings(g *gocui.Gui) error {
	bindings := []struct {
		viewName string
		key      interface{}
		handler  func(*gocui.Gui, *gocui.View) error
	}{
		{viewList, gocui.KeyArrowUp, h.wrapAction(view.ActLineUp)},
		{viewList, 'k', h.wrapAction(view.ActLineUp)},
		{viewList, gocui.KeyArrowDown, h.wrapAction(view.ActLineDown)},
		{viewList, 'j', h.wrapAction(view.ActLineDown)},
		{viewList, gocui.KeyPgup, h.wrapAction(view.ActPageUp)},
		{viewList, gocui.KeyPgdn, h.wrapAction(view.ActPageDown)},
		{viewList, gocui.KeyCtrlU, h.wrapAction(view.ActHalfPageUp)},
		{viewList, gocui.KeyCtrlD, h.wrapAction(view.ActHalfPageDown)},
		{viewList, gocui.KeyHome, h.wrapAction(view.ActJumpTop)},
		{viewList, 'g', h.wrapAction(view.ActJumpTop)},
		{viewList, gocui.KeyEnd, h.wrapAction(view.ActJumpBottom)},
		{viewList, 'G', h.wrapAction(view.ActJumpBottom)},
		{viewList, gocui.KeyEnter, h.wrapAction(view.ActToggleFold)},
		{viewList, gocui.KeySpace, h.wrapAction(view.ActToggleFold)},
		{viewList, gocui.KeyArrowLeft, h.wrapAction(view.ActCollapseDirectional)},
		{viewList, gocui.KeyArrowRight, h.wrapAction(view.ActExpandDirectional)},
		{viewList, 'e', h.wrapAction(view.ActExpandAll)},
		{viewList, 'c', h.wrapAction(view.ActCollapseAll)},
		{viewList, 'h', h.wrapAction(view.ActToggleHiddenCurrent)},
		{viewList, 'H', h.wrapAction(view.ActOpenFilterModal)},
		{viewList, '.', h.wrapAction(view.ActToggleGhost)},
		{viewList, '/', h.wrapAction(view.ActSearchStart)},
		{viewList, 'n', h.wrapAction(view.ActSearchNext)},
		{viewList, 'N', h.wrapAction(view.ActSearchPrev)},
		{viewList, 'q', h.wrapAction(view.ActQuit)},
		{viewList, gocui.KeyCtrlC, h.wrapAction(view.ActQuit)},
		{viewList, '?', h.wrapAction(view.ActToggleHelp)},
		{"", gocui.KeyEsc, h.handleEsc},
		{"", gocui.KeyEnter, h.handleGlobalEnter},
		{"", '?', h.handleGlobalHelpToggle},
	}

	for _, b := range bindings {
		if err := g.SetKeybinding(b.viewName, b.key, gocui.ModNone, b.handler); err != nil {
			return err
		}
	}

	return h.bindFilterModal(g)
}

// wrapAction dispatches a into the model and re-renders, ignoring the
// binding when a higher-precedence mode (search, filter modal, help) is
// active -- those modes own the keyboard until they close.
func (h *Host) wrapAction(a view.Action) func(*gocui.Gui, *gocui.View) error {
	return func(g *gocui.Gui, v *gocui.View) error {
		if h.Model.Search.Active || h.Model.FilterModal != nil || h.Model.HelpOpen {
			return nil
		}
		h.Model.Dispatch(a)
		if h.Model.PendingEditorOpen != nil {
			return errOpenEditor
		}
		if h.Model.Quit {
			return gocui.ErrQuit
		}
		if h.Model.Search.Active {
			return h.enterSearchMode(g)
		}
		if h.Model.FilterModal != nil {
			return h.enterFilterModalMode(g)
		}
		return h.refresh(g)
	}
}

// handleEsc is bound globally (empty view name, per gocui's "any current
// view" convention) because Esc can cancel whichever overlay is frontmost.
func (h *Host) handleEsc(g *gocui.Gui, v *gocui.View) error {
	switch {
	case h.Model.Search.Active:
		h.Model.Dispatch(view.ActSearchCancel)
		return h.leaveSearchMode(g)
	case h.Model.FilterModal != nil && h.Model.FilterModal.Search.Active:
		h.Model.FilterModal.CancelSearch()
	case h.Model.FilterModal != nil:
		h.Model.CloseFilterModal()
		return h.leaveFilterModalMode(g)
	case h.Model.HelpOpen:
		h.Model.HelpOpen = false
	}
	return h.refresh(g)
}

func (h *Host) handleGlobalEnter(g *gocui.Gui, v *gocui.View) error {
	switch {
	case h.Model.Search.Active:
		h.Model.Dispatch(view.ActSearchAccept)
		return h.leaveSearchMode(g)
	case h.Model.FilterModal != nil && h.Model.FilterModal.Search.Active:
		h.Model.FilterModal.AcceptSearch()
	case h.Model.FilterModal != nil:
		h.Model.FilterModal.ToggleSelected()
	}
	return h.refresh(g)
}

func (h *Host) handleGlobalHelpToggle(g *gocui.Gui, v *gocui.View) error {
	if h.Model.Search.Active || (h.Model.FilterModal != nil && h.Model.FilterModal.Search.Active) {
		return nil
	}
	if h.Model.FilterModal != nil {
		h.Model.CloseFilterModal()
		return h.leaveFilterModalMode(g)
	}
	h.Model.Dispatch(view.ActToggleHelp)
	return h.refresh(g)
}

// bindFilterModal wires the filter view's own navigation, independent of
// the main list's bindings since it reads/writes h.Model.FilterModal
// instead of h.Model directly (§4.8).
func (h *Host) bindFilterModal(g *gocui.Gui) error {
	bindings := []struct {
		key     interface{}
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyArrowUp, h.wrapFilterModal(func(fm *view.FilterModalState) { fm.MoveSelection(-1) })},
		{'k', h.wrapFilterModal(func(fm *view.FilterModalState) { fm.MoveSelection(-1) })},
		{gocui.KeyArrowDown, h.wrapFilterModal(func(fm *view.FilterModalState) { fm.MoveSelection(1) })},
		{'j', h.wrapFilterModal(func(fm *view.FilterModalState) { fm.MoveSelection(1) })},
		{gocui.KeyPgup, h.wrapFilterModal(func(fm *view.FilterModalState) { fm.MoveSelection(-fm.VisibleHeight) })},
		{gocui.KeyPgdn, h.wrapFilterModal(func(fm *view.FilterModalState) { fm.MoveSelection(fm.VisibleHeight) })},
		{gocui.KeyCtrlU, h.wrapFilterModal(func(fm *view.FilterModalState) { fm.MoveSelection(-fm.VisibleHeight / 2) })},
		{gocui.KeyCtrlD, h.wrapFilterModal(func(fm *view.FilterModalState) { fm.MoveSelection(fm.VisibleHeight / 2) })},
		{gocui.KeyHome, h.wrapFilterModal(func(fm *view.FilterModalState) { fm.JumpTo(0) })},
		{gocui.KeyEnd, h.wrapFilterModal(func(fm *view.FilterModalState) { fm.JumpTo(len(fm.Rows) - 1) })},
		{gocui.KeySpace, h.wrapFilterModal(func(fm *view.FilterModalState) { fm.ToggleSelected() })},
		{'a', h.wrapFilterModal(func(fm *view.FilterModalState) { fm.ToggleAll() })},
		{'/', h.wrapFilterModalEnterSearch},
		{'n', h.wrapFilterModal(func(fm *view.FilterModalState) { fm.StepSearch(1) })},
		{'N', h.wrapFilterModal(func(fm *view.FilterModalState) { fm.StepSearch(-1) })},
		{'H', func(g *gocui.Gui, v *gocui.View) error {
			if h.Model.FilterModal == nil {
				return nil
			}
			h.Model.CloseFilterModal()
			return h.leaveFilterModalMode(g)
		}},
		{'q', func(g *gocui.Gui, v *gocui.View) error {
			if h.Model.FilterModal == nil {
				return nil
			}
			h.Model.CloseFilterModal()
			return h.leaveFilterModalMode(g)
		}},
	}

	for _, b := range bindings {
		if err := g.SetKeybinding(viewFilter, b.key, gocui.ModNone, b.handler); err != nil {
			return err
		}
	}
	return nil
}

func (h *Host) wrapFilterModal(f func(fm *view.FilterModalState)) func(*gocui.Gui, *gocui.View) error {
	return func(g *gocui.Gui, v *gocui.View) error {
		if h.Model.FilterModal == nil || h.Model.FilterModal.Search.Active {
			return nil
		}
		f(h.Model.FilterModal)
		return h.refresh(g)
	}
}

func (h *Host) wrapFilterModalEnterSearch(g *gocui.Gui, v *gocui.View) error {
	if h.Model.FilterModal == nil || h.Model.FilterModal.Search.Active {
		return nil
	}
	h.Model.FilterModal.StartSearch()
	return h.enterFilterModalSearchMode(g)
}
