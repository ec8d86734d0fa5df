// Package pipeline discovers D-ITG logs under a log root, decodes and
// parses each one, and collects the results into per-IP-version tables.
//
// The two supported tree shapes are expressed as Layouts:
//
//	runs: ROOT/<IPV>/<protocol>/<packet_size>/run-<N>.log   (recursive walk)
//	recv: ROOT/<IPV>/<protocol>/<packet_size>/recv.log      (fixed depth)
package pipeline

import (
	"github.com/tturner/ditgparse/internal/logging"
	"github.com/tturner/ditgparse/internal/metrics"
	"github.com/tturner/ditgparse/internal/report"
)

// Source is one log file selected for decoding.
type Source struct {
	// Path is the file path as handed to the decoder.
	Path string
	// IPVersion is the IP-version directory the file was found under.
	IPVersion string
	// Rel holds the path segments below the IP-version directory, file
	// name last.
	Rel []string
}

// Layout knows where a pipeline's logs live, how to parse their reports,
// and how to derive metadata from their location.
type Layout interface {
	// Name identifies the pipeline ("runs" or "recv").
	Name() string
	// Columns is the fixed CSV column order.
	Columns() []string
	// CheckExit reports whether a non-zero decoder exit discards the report.
	CheckExit() bool
	// Parser returns the report parser for this pipeline.
	Parser() *report.Parser
	// Discover lists sources under root for one IP version, in a stable order.
	Discover(root, ipVersion string, log *logging.Logger) ([]Source, error)
	// Annotate adds path-derived metadata to rec. It returns false when the
	// source path cannot supply the metadata; the record is then dropped.
	Annotate(src Source, rec metrics.Record, log *logging.Logger) bool
}
