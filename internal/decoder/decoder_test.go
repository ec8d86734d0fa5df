package decoder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tturner/ditgparse/internal/logging"
)

// writeScript creates an executable shell script standing in for ITGDec.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script decoders are not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "ITGDec")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func fileLogger(t *testing.T) (*logging.Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "decode.log")
	l, err := logging.NewLogger(logging.LogLevelDebug, path)
	require.NoError(t, err)
	return l, path
}

func readLog(t *testing.T, l *logging.Logger, path string) string {
	t.Helper()
	require.NoError(t, l.Close())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestITGDecCapturesOutput(t *testing.T) {
	script := writeScript(t, `echo "decoding $1"
echo "Total packets = 10 pkt"
echo "warn" >&2
`)
	res := New(script, 0).Decode(context.Background(), "/logs/run-1.log")

	require.NoError(t, res.Err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "decoding /logs/run-1.log\nTotal packets = 10 pkt\n", res.Stdout)
	assert.Equal(t, "warn\n", res.Stderr)
}

func TestITGDecNonZeroExit(t *testing.T) {
	script := writeScript(t, `echo "partial = 1"
echo "cannot open file" >&2
exit 3
`)
	res := New(script, 0).Decode(context.Background(), "x.log")

	assert.NoError(t, res.Err, "non-zero exit is not a launch error")
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "partial = 1\n", res.Stdout)
	assert.Equal(t, "cannot open file\n", res.Stderr)
}

func TestITGDecMissingExecutable(t *testing.T) {
	res := New(filepath.Join(t.TempDir(), "no-such-decoder"), 0).Decode(context.Background(), "x.log")

	assert.Error(t, res.Err)
	assert.Equal(t, -1, res.ExitCode)
	assert.Empty(t, res.Stdout)
}

func TestITGDecTimeout(t *testing.T) {
	script := writeScript(t, "exec sleep 5\n")
	start := time.Now()
	res := New(script, 100*time.Millisecond).Decode(context.Background(), "x.log")

	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestITGDecTimeoutWithLingeringChild(t *testing.T) {
	// The background sleep inherits stdout and outlives the killed shell.
	script := writeScript(t, "sleep 10 &\nexec sleep 10\n")
	start := time.Now()
	res := New(script, 100*time.Millisecond).Decode(context.Background(), "x.log")

	assert.Error(t, res.Err)
	assert.Equal(t, -1, res.ExitCode)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestOutput(t *testing.T) {
	launchErr := errors.New(`exec: "ITGDec": executable file not found in $PATH`)

	tests := []struct {
		name      string
		result    Result
		checkExit bool
		want      string
		wantLog   string
	}{
		{
			name:   "success",
			result: Result{Stdout: "Total packets = 1\n"},
			want:   "Total packets = 1\n",
		},
		{
			name:    "launch failure",
			result:  Result{ExitCode: -1, Err: launchErr},
			want:    "",
			wantLog: "ERROR: Failed to decode /l/run-1.log: exec",
		},
		{
			name:      "launch failure with exit check",
			result:    Result{ExitCode: -1, Err: launchErr},
			checkExit: true,
			want:      "",
			wantLog:   "ERROR: Failed to decode",
		},
		{
			name:   "non-zero exit ignored",
			result: Result{Stdout: "Total packets = 1\n", Stderr: "boom", ExitCode: 2},
			want:   "Total packets = 1\n",
		},
		{
			name:      "non-zero exit checked",
			result:    Result{Stdout: "Total packets = 1\n", Stderr: "boom", ExitCode: 2},
			checkExit: true,
			want:      "",
			wantLog:   "ERROR: Error decoding /l/run-1.log:\nboom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			dec := NewMockDecoder(ctrl)
			dec.EXPECT().Decode(gomock.Any(), "/l/run-1.log").Return(tt.result)

			log, logPath := fileLogger(t)
			got := Output(context.Background(), dec, "/l/run-1.log", tt.checkExit, log)
			content := readLog(t, log, logPath)

			assert.Equal(t, tt.want, got)
			if tt.wantLog != "" {
				assert.Contains(t, content, tt.wantLog)
			} else {
				assert.NotContains(t, content, "ERROR:")
			}
		})
	}
}

func TestOutputWithRealDecoder(t *testing.T) {
	script := writeScript(t, `echo "Packets dropped = 0 pkt"
echo "bad log" >&2
exit 1
`)
	log, logPath := fileLogger(t)
	dec := New(script, 0)

	assert.Equal(t, "Packets dropped = 0 pkt\n", Output(context.Background(), dec, "a.log", false, log))
	assert.Equal(t, "", Output(context.Background(), dec, "a.log", true, log))
	assert.True(t, strings.Contains(readLog(t, log, logPath), "bad log"))
}

func TestResolvePath(t *testing.T) {
	t.Run("explicit existing path", func(t *testing.T) {
		script := writeScript(t, "exit 0\n")
		got, err := ResolvePath(script)
		require.NoError(t, err)
		assert.Equal(t, script, got)
	})

	t.Run("explicit missing path", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "ITGDec")
		got, err := ResolvePath(missing)
		assert.Error(t, err)
		assert.Equal(t, missing, got, "unresolved path is returned as given")
	})

	t.Run("env var bare name on PATH", func(t *testing.T) {
		script := writeScript(t, "exit 0\n")
		t.Setenv("PATH", filepath.Dir(script))
		t.Setenv(EnvVar, "ITGDec")
		got, err := ResolvePath("")
		require.NoError(t, err)
		assert.Equal(t, script, got)
	})

	t.Run("default name missing from PATH", func(t *testing.T) {
		t.Setenv("PATH", t.TempDir())
		t.Setenv(EnvVar, "")
		got, err := ResolvePath("")
		assert.Error(t, err)
		assert.Equal(t, DefaultName, got)
	})
}
