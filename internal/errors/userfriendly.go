package errors

import (
	"fmt"
	"strings"
)

// UserFriendlyError provides user-friendly error messages with context and hints
type UserFriendlyError struct {
	Message string
	Reason  string
	Hint    string
	Try     string
	Err     error
}

func (e UserFriendlyError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Message)
	if e.Reason != "" {
		buf.WriteString("\n  Reason: " + e.Reason)
	}
	if e.Hint != "" {
		buf.WriteString("\n  Hint: " + e.Hint)
	}
	if e.Try != "" {
		buf.WriteString("\n  Try: " + e.Try)
	}
	if e.Err != nil {
		buf.WriteString("\n  Details: " + e.Err.Error())
	}
	return buf.String()
}

func (e UserFriendlyError) Unwrap() error {
	return e.Err
}

// WrapDecoderError wraps a failure to locate or start the ITGDec decoder.
func WrapDecoderError(err error, decoder string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Decoder %q is not usable", decoder),
		Reason:  extractDecoderReason(err),
		Hint:    "ITGDec ships with D-ITG; install it or point the decoder setting at the binary",
		Try:     "ditgparse runs --decoder /usr/local/bin/ITGDec",
		Err:     err,
	}
}

// WrapConfigError wraps configuration errors with user-friendly context
func WrapConfigError(err error, configPath string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Configuration error in %s", configPath),
		Reason:  err.Error(),
		Hint:    "Generate a commented starting point with init-config",
		Try:     fmt.Sprintf("ditgparse init-config --path %s", configPath),
		Err:     err,
	}
}

// WrapOutputError wraps failures creating or writing a result file.
func WrapOutputError(err error, path string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Cannot write results to %s", path),
		Reason:  extractOutputReason(err),
		Hint:    "Output paths are relative to the working directory unless absolute",
		Err:     err,
	}
}

func extractDecoderReason(err error) string {
	errStr := err.Error()

	if strings.Contains(errStr, "executable file not found") || strings.Contains(errStr, "no such file") {
		return "Decoder executable not found"
	}
	if strings.Contains(errStr, "permission denied") {
		return "Decoder exists but is not executable"
	}

	return "Decoder could not be started"
}

func extractOutputReason(err error) string {
	errStr := err.Error()

	if strings.Contains(errStr, "permission denied") {
		return "Permission denied"
	}
	if strings.Contains(errStr, "no such file or directory") {
		return "Parent directory does not exist"
	}
	if strings.Contains(errStr, "is a directory") {
		return "Path refers to a directory"
	}

	return "File system error"
}
