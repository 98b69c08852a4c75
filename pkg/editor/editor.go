// Package editor resolves and spawns the external "open source location"
// editor (§5's external-process-suspension contract, §6's EDITOR
// environment variable).
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jesseduffield/kill"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/straceview/stracetui/pkg/config"
)

// Request is one "jump to source" target.
type Request struct {
	Path   string
	Line   uint32
	Column *uint32
}

// Resolve picks the editor command: the user config override first, then
// $VISUAL, then $EDITOR, falling back to "vi".
func Resolve(cfg *config.AppConfig) string {
	if cfg != nil && cfg.UserConfig != nil && cfg.UserConfig.Editor != "" {
		return cfg.UserConfig.Editor
	}
	if v := os.Getenv("VISUAL"); v != "" {
		return v
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	return "vi"
}

// Open spawns editorCmd against req, handing it the controlling terminal
// and blocking until it exits. The caller is responsible for leaving the
// alternate screen and restoring cooked mode first, and for forcing a
// full redraw afterward (§5).
func Open(log *logrus.Entry, editorCmd string, req Request) error {
	name, args := argsFor(editorCmd, req)
	cmd := exec.Command(name, args...)
	cmd.Env = os.Environ()
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	kill.PrepareForChildren(cmd)

	if err := cmd.Start(); err != nil {
		return xerrors.Errorf("starting editor %q: %w", editorCmd, err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigCh:
			_ = kill.Kill(cmd)
		case <-done:
		}
	}()

	err := cmd.Wait()
	signal.Stop(sigCh)
	if err != nil && log != nil {
		log.Warnf("editor %q exited with error: %v", editorCmd, err)
	}
	return err
}

// argsFor builds the argv for editorCmd against req, per §6's per-editor
// line/column argument convention. editorCmd may carry its own arguments
// (e.g. "code --wait"); the first token is the command, whose base name
// (extension trimmed) picks a template, and the remaining tokens are kept
// as a prefix.
func argsFor(editorCmd string, req Request) (name string, args []string) {
	tokens := strings.Fields(editorCmd)
	if len(tokens) == 0 {
		tokens = []string{"vi"}
	}
	name = tokens[0]
	prefix := tokens[1:]
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))

	switch base {
	case "vi", "vim", "nvim", "gvim":
		if req.Column != nil {
			cursor := fmt.Sprintf("+call cursor(%d,%d)", req.Line, *req.Column)
			return name, append(prefix, cursor, req.Path)
		}
		return name, append(prefix, "+"+itoa(req.Line), req.Path)
	case "nano":
		if req.Column != nil {
			return name, append(prefix, fmt.Sprintf("+%d,%d", req.Line, *req.Column), req.Path)
		}
		return name, append(prefix, "+"+itoa(req.Line), req.Path)
	case "emacs", "emacsclient":
		if req.Column != nil {
			return name, append(prefix, fmt.Sprintf("+%d:%d", req.Line, *req.Column), req.Path)
		}
		return name, append(prefix, "+"+itoa(req.Line), req.Path)
	case "code", "code-insiders":
		return name, append(prefix, "--goto", gotoTarget(req))
	case "subl", "sublime_text":
		return name, append(prefix, gotoTarget(req))
	case "kate":
		if req.Column != nil {
			return name, append(prefix, "--line", itoa(req.Line), "--column", itoa(*req.Column), req.Path)
		}
		return name, append(prefix, "--line", itoa(req.Line), req.Path)
	case "gedit":
		return name, append(prefix, "+"+itoa(req.Line), req.Path)
	case "micro":
		return name, append(prefix, gotoTarget(req))
	case "hx", "helix":
		return name, append(prefix, gotoTarget(req))
	default:
		return name, append(prefix, "+"+itoa(req.Line), req.Path)
	}
}

// gotoTarget builds the "path:line" or "path:line:column" form used by
// editors that accept a single combined location argument.
func gotoTarget(req Request) string {
	if req.Column != nil {
		return fmt.Sprintf("%s:%d:%d", req.Path, req.Line, *req.Column)
	}
	return fmt.Sprintf("%s:%d", req.Path, req.Line)
}

func itoa(n uint32) string {
	return strconv.FormatUint(uint64(n), 10)
}
