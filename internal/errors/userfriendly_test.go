package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestUserFriendlyError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      UserFriendlyError
		contains []string
	}{
		{
			name:     "message only",
			err:      UserFriendlyError{Message: "something broke"},
			contains: []string{"something broke"},
		},
		{
			name: "all fields",
			err: UserFriendlyError{
				Message: "decode failed",
				Reason:  "missing binary",
				Hint:    "install D-ITG",
				Try:     "which ITGDec",
				Err:     fmt.Errorf("exec: not found"),
			},
			contains: []string{"decode failed", "Reason: missing binary", "Hint: install D-ITG", "Try: which ITGDec", "Details: exec: not found"},
		},
		{
			name: "no reason",
			err: UserFriendlyError{
				Message: "failed",
				Hint:    "hint here",
			},
			contains: []string{"failed", "Hint: hint here"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("Error() = %q, want to contain %q", msg, s)
				}
			}
		})
	}
}

func TestUserFriendlyError_ErrorOmitsEmptyFields(t *testing.T) {
	err := UserFriendlyError{Message: "msg"}
	msg := err.Error()
	if strings.Contains(msg, "Reason:") || strings.Contains(msg, "Hint:") || strings.Contains(msg, "Try:") || strings.Contains(msg, "Details:") {
		t.Errorf("Error() = %q, should not contain empty fields", msg)
	}
}

func TestUserFriendlyError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("root cause")
	err := UserFriendlyError{Message: "wrapper", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("Unwrap should return the inner error")
	}

	var nilErr UserFriendlyError
	if nilErr.Unwrap() != nil {
		t.Error("Unwrap on nil Err should return nil")
	}
}

func TestWrapDecoderError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if WrapDecoderError(nil, "ITGDec") != nil {
			t.Error("expected nil")
		}
	})

	tests := []struct {
		name   string
		err    error
		reason string
	}{
		{"not on path", fmt.Errorf(`exec: "ITGDec": executable file not found in $PATH`), "not found"},
		{"missing file", fmt.Errorf("fork/exec /opt/ITGDec: no such file or directory"), "not found"},
		{"permission", fmt.Errorf("fork/exec /opt/ITGDec: permission denied"), "not executable"},
		{"other", fmt.Errorf("something else"), "could not be started"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ufe := WrapDecoderError(tt.err, "ITGDec").(UserFriendlyError)
			if !strings.Contains(ufe.Message, "ITGDec") {
				t.Errorf("message should name the decoder, got %q", ufe.Message)
			}
			if !strings.Contains(ufe.Reason, tt.reason) {
				t.Errorf("reason = %q, want to contain %q", ufe.Reason, tt.reason)
			}
		})
	}
}

func TestWrapConfigError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if WrapConfigError(nil, "config.yaml") != nil {
			t.Error("expected nil")
		}
	})

	t.Run("wraps config error", func(t *testing.T) {
		err := WrapConfigError(fmt.Errorf("invalid yaml"), "ditgparse.yaml")
		ufe := err.(UserFriendlyError)
		if !strings.Contains(ufe.Message, "ditgparse.yaml") {
			t.Errorf("message should contain config path, got %q", ufe.Message)
		}
		if ufe.Reason != "invalid yaml" {
			t.Errorf("reason should be inner error message, got %q", ufe.Reason)
		}
		if !strings.Contains(ufe.Try, "init-config") {
			t.Errorf("try should reference init-config, got %q", ufe.Try)
		}
	})
}

func TestWrapOutputError(t *testing.T) {
	if WrapOutputError(nil, "out.csv") != nil {
		t.Error("expected nil")
	}

	ufe := WrapOutputError(fmt.Errorf("open out.csv: permission denied"), "out.csv").(UserFriendlyError)
	if ufe.Reason != "Permission denied" {
		t.Errorf("unexpected reason: %q", ufe.Reason)
	}
	if !strings.Contains(ufe.Message, "out.csv") {
		t.Errorf("message should contain path, got %q", ufe.Message)
	}
}
