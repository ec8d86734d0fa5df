package pipeline

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tturner/ditgparse/internal/config"
	"github.com/tturner/ditgparse/internal/logging"
	"github.com/tturner/ditgparse/internal/metrics"
	"github.com/tturner/ditgparse/internal/report"
)

const (
	runPrefix = "run-"
	runSuffix = ".log"
)

// RunsLayout handles independently recorded runs named run-<N>.log. Any
// depth below the IP-version directory is walked; the last three path
// segments are protocol, packet size and file name.
type RunsLayout struct{}

func (RunsLayout) Name() string           { return config.PipelineRuns }
func (RunsLayout) Columns() []string      { return metrics.RunColumns }
func (RunsLayout) CheckExit() bool        { return false }
func (RunsLayout) Parser() *report.Parser { return report.RunParser() }

// IsRunLog reports whether a file name looks like run-<N>.log.
func IsRunLog(name string) bool {
	return strings.HasPrefix(name, runPrefix) && strings.HasSuffix(name, runSuffix)
}

// RunNumber strips the run- prefix and .log suffix from a file name.
func RunNumber(name string) string {
	return strings.TrimSuffix(strings.TrimPrefix(name, runPrefix), runSuffix)
}

func (RunsLayout) Discover(root, ipVersion string, log *logging.Logger) ([]Source, error) {
	base := filepath.Join(root, ipVersion)
	if _, err := os.Stat(base); err != nil {
		if os.IsNotExist(err) {
			log.Verbose("No %s directory under %s", ipVersion, root)
			return nil, nil
		}
		return nil, err
	}

	var sources []Source
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == base {
				return err
			}
			// Unreadable subtrees are skipped, not fatal.
			log.Error("Cannot read %s: %v", path, err)
			return nil
		}
		if d.IsDir() || !IsRunLog(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		sources = append(sources, Source{
			Path:      path,
			IPVersion: ipVersion,
			Rel:       strings.Split(filepath.ToSlash(rel), "/"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sources, nil
}

func (RunsLayout) Annotate(src Source, rec metrics.Record, log *logging.Logger) bool {
	n := len(src.Rel)
	if n < 3 {
		log.Error("Unexpected path structure for: %s", src.Path)
		return false
	}
	rec[metrics.FieldIPVersion] = src.IPVersion
	rec[metrics.FieldProtocol] = src.Rel[n-3]
	rec[metrics.FieldPacketSize] = src.Rel[n-2]
	rec[metrics.FieldRunNumber] = RunNumber(src.Rel[n-1])
	return true
}
