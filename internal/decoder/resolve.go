package decoder

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// DefaultName is the decoder binary installed by D-ITG.
const DefaultName = "ITGDec"

// EnvVar overrides the decoder location when no explicit path is given.
const EnvVar = "ITGDEC"

// ResolvePath resolves the ITGDec executable using an explicit path, the
// ITGDEC environment variable, or PATH, in that order. Bare names are looked
// up on PATH; anything with a directory component must exist.
func ResolvePath(explicit string) (string, error) {
	if explicit == "" {
		explicit = os.Getenv(EnvVar)
	}
	if explicit == "" {
		explicit = DefaultName
	}

	if filepath.Base(explicit) == explicit {
		path, err := exec.LookPath(explicit)
		if err != nil {
			return explicit, fmt.Errorf("%s not found in PATH: %w", explicit, err)
		}
		return path, nil
	}
	if _, err := os.Stat(explicit); err != nil {
		return explicit, fmt.Errorf("decoder path not found: %w", err)
	}
	return explicit, nil
}
