// Package tui hosts the interactive terminal UI: gocui view wiring, the
// render/poll/reduce main loop (§5), keybindings (§4.7), and the
// external-editor suspension contract.
package tui

import (
	"errors"
	"time"

	throttle "github.com/boz/go-throttle"
	"github.com/jesseduffield/gocui"
	"github.com/sirupsen/logrus"

	"github.com/straceview/stracetui/pkg/config"
	"github.com/straceview/stracetui/pkg/editor"
	"github.com/straceview/stracetui/pkg/trace"
	"github.com/straceview/stracetui/pkg/view"
)

// errOpenEditor is the sentinel MainLoop returns when the reducer leaves
// a PendingEditorOpen request, mirroring the teacher's
// gui.Errors.ErrSubProcess sentinel for breaking out of MainLoop to run
// an external process.
var errOpenEditor = errors.New("open editor")

// Reloader re-reads the trace source, used only in `trace` mode (the
// tracer subprocess has already exited by the time the UI starts).
// Returns the full up-to-date entry list and any new
// parse errors; nil in `parse` mode, where the entry list is static.
type Reloader func() ([]trace.Entry, []trace.ParseError, error)

// Host owns the gocui instance and drives it against a view.Model.
type Host struct {
	Model  *view.Model
	Config *config.AppConfig
	Log    *logrus.Entry
	Reload Reloader

	g *gocui.Gui
}

// NewHost builds a ready-to-run Host.
func NewHost(m *view.Model, cfg *config.AppConfig, log *logrus.Entry, reload Reloader) *Host {
	return &Host{Model: m, Config: cfg, Log: log, Reload: reload}
}

// Run drives the UI until the user quits, pausing for external editor
// invocations as the reducer requests them (§5's external-process-
// suspension contract), grounded on the teacher's
// RunWithSubprocesses/runCommand loop.
func (h *Host) Run() error {
	for {
		err := h.runOnce()
		if err == nil || errors.Is(err, gocui.ErrQuit) {
			return nil
		}
		if errors.Is(err, errOpenEditor) {
			if err := h.openPendingEditor(); err != nil && h.Log != nil {
				h.Log.Warnf("editor invocation failed: %v", err)
			}
			continue
		}
		return err
	}
}

func (h *Host) runOnce() error {
	g, err := gocui.NewGui(gocui.OutputTrue, false, gocui.NORMAL, false, map[rune]string{})
	if err != nil {
		return err
	}
	defer g.Close()
	h.g = g

	SetColorScheme(g, h.Config.UserConfig.Gui.Theme)

	g.SetManager(gocui.ManagerFunc(h.layout))

	if err := h.keybindings(g); err != nil {
		return err
	}
	if err := h.bindSearchEditor(g); err != nil {
		return err
	}

	var throttledRefresh interface {
		Trigger()
		Stop()
	}
	if h.Reload != nil {
		throttledRefresh = throttle.ThrottleFunc(config.PollInterval, true, func() {
			g.Update(func(g *gocui.Gui) error {
				return h.pollTraceFile()
			})
		})
		defer throttledRefresh.Stop()
		h.goEvery(config.PollInterval, throttledRefresh.Trigger)
	}

	err = g.MainLoop()
	if h.Model.PendingEditorOpen != nil {
		return errOpenEditor
	}
	return err
}

// goEvery runs function immediately, then every interval, stopping once
// h.g no longer matches the gocui instance it was started against (i.e.
// once runOnce has returned and a new one may have started).
func (h *Host) goEvery(interval time.Duration, function func()) {
	owner := h.g
	function()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if h.g != owner {
				return
			}
			function()
		}
	}()
}

// pollTraceFile re-scans the trace source and merges newly appended
// entries into the model, preserving cursor position via Rebuild (§4.6,
// §5's "append-only, index-stable" ordering guarantee).
func (h *Host) pollTraceFile() error {
	if h.Reload == nil {
		return nil
	}
	entries, _, err := h.Reload()
	if err != nil {
		if h.Log != nil {
			h.Log.Warnf("trace reload failed: %v", err)
		}
		return nil
	}
	if len(entries) == len(h.Model.Entries) {
		return nil
	}
	h.Model.Entries = entries
	h.Model.Rebuild()
	return h.refresh(h.g)
}

// openPendingEditor consumes the one-shot editor request: gocui is
// already closed (runOnce's defer ran before returning), so the terminal
// is already back in cooked mode; the next loop iteration re-enters the
// alternate screen and forces a full redraw by construction, since
// runOnce always builds a fresh gocui.Gui (§5).
func (h *Host) openPendingEditor() error {
	req := h.Model.PendingEditorOpen
	h.Model.PendingEditorOpen = nil
	if req == nil {
		return nil
	}
	editorCmd := editor.Resolve(h.Config)
	return editor.Open(h.Log, editorCmd, editor.Request{Path: req.Path, Line: req.Line, Column: req.Column})
}
