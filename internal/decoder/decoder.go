// Package decoder runs D-ITG's ITGDec on a log file and captures its report.
package decoder

//go:generate mockgen -destination=mock_decoder.go -package=decoder github.com/tturner/ditgparse/internal/decoder Decoder

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/tturner/ditgparse/internal/logging"
)

// waitDelay bounds how long output pipes stay open once a timed-out decoder
// has been killed.
const waitDelay = 500 * time.Millisecond

// Result is the captured outcome of one decoder invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Err is set only when the process could not be started or was killed
	// by context cancellation. A non-zero exit is not an error.
	Err error
}

// Decoder produces a text report for a log file.
type Decoder interface {
	Decode(ctx context.Context, logPath string) Result
}

// ITGDec invokes the ITGDec executable as "<Path> <log>".
type ITGDec struct {
	Path    string
	Timeout time.Duration // 0 disables the timeout
}

// New creates an ITGDec decoder.
func New(path string, timeout time.Duration) *ITGDec {
	return &ITGDec{Path: path, Timeout: timeout}
}

// Decode runs the decoder to completion. Both output streams are captured
// and never echoed.
func (d *ITGDec) Decode(ctx context.Context, logPath string) Result {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, d.Path, logPath)
	if d.Timeout > 0 {
		// Children that inherit stdout would otherwise keep Run waiting
		// after the decoder itself is killed.
		cmd.WaitDelay = waitDelay
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
			res.Err = err
			if ctx.Err() != nil {
				res.Err = ctx.Err()
			}
		}
	}
	return res
}

// Output decodes logPath and returns the report text, or "" when the
// report should be treated as missing. A launch failure always yields "".
// With checkExit, a non-zero exit status also yields "" and the captured
// stderr is logged; without it the stdout of a failed run is still used.
func Output(ctx context.Context, d Decoder, logPath string, checkExit bool, log *logging.Logger) string {
	res := d.Decode(ctx, logPath)
	log.LogDecode(logPath, res.ExitCode, len(res.Stdout), res.Err)

	if res.Err != nil {
		log.Error("Failed to decode %s: %v", logPath, res.Err)
		return ""
	}
	if checkExit && res.ExitCode != 0 {
		log.Error("Error decoding %s:\n%s", logPath, res.Stderr)
		return ""
	}
	return res.Stdout
}
