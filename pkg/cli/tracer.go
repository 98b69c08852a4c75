// Package cli holds the non-interactive glue between the CLI surface (§6)
// and the core packages: invoking the tracer subprocess, and printing a
// colored summary when no JSON/TUI output was requested.
package cli

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/go-errors/errors"
	"github.com/mgutz/str"
	"github.com/sirupsen/logrus"

	"github.com/straceview/stracetui/pkg/config"
)

// RunTracer launches the tracer against cmd, writing its output to
// traceFile, with flags equivalent to "write output to file, include
// wall-clock timestamp, include stack backtrace, follow forks, capture N
// bytes of strings". tracerArgs hard-codes those flags (-f -tt -k -s N -o
// FILE); TracerConfig supplies only the strace binary, the -s value and
// extra arguments appended after them.
func RunTracer(log *logrus.Entry, tc config.TracerConfig, traceFile string, cmd []string) error {
	if len(cmd) == 0 {
		return errors.New("no command specified to trace")
	}

	stracePath, args := tracerArgs(tc, traceFile, cmd)

	log.WithField("args", args).Info("launching tracer")

	c := exec.Command(stracePath, args...)
	c.Env = os.Environ()
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr

	if err := c.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			// The traced command's own non-zero exit is not our failure;
			// strace itself still wrote the trace file.
			log.Warnf("traced command exited non-zero: %v", err)
			return nil
		}
		return errors.Wrap(err, 0)
	}
	return nil
}

// tracerArgs builds the strace binary path and argv, applying config
// defaults ("strace" on $PATH, a 1024-byte string limit) and splitting
// ExtraArgs the same way the teacher splits a shell-style command string.
func tracerArgs(tc config.TracerConfig, traceFile string, cmd []string) (string, []string) {
	stracePath := tc.StracePath
	if stracePath == "" {
		stracePath = "strace"
	}
	stringLimit := tc.StringLimit
	if stringLimit <= 0 {
		stringLimit = 1024
	}

	args := []string{"-f", "-tt", "-k", "-s", fmt.Sprint(stringLimit), "-o", traceFile}
	if tc.ExtraArgs != "" {
		args = append(args, str.ToArgv(tc.ExtraArgs)...)
	}
	args = append(args, cmd...)
	return stracePath, args
}
