// Package report turns ITGDec's text output into metric records.
//
// ITGDec prints one "key = value unit" line per metric. Parsing is
// best-effort: keys are matched against an ordered rule table, values are
// kept as the first whitespace-delimited token, and nothing is validated as
// a number.
package report

import (
	"strings"

	"github.com/tturner/ditgparse/internal/metrics"
)

// TotalResultsMarker separates ITGDec's per-flow detail from the aggregate
// section of a combined report.
const TotalResultsMarker = "TOTAL RESULTS"

// Parser extracts a record from a decoder report.
type Parser struct {
	Rules Rules
	// Marker, when set, suppresses extraction until a line containing it has
	// been seen. The marker line itself is never parsed.
	Marker string
}

// RunParser parses a whole per-run report.
func RunParser() *Parser {
	return &Parser{Rules: RunRules}
}

// RecvParser parses only the TOTAL RESULTS section of a recv.log report.
func RecvParser() *Parser {
	return &Parser{Rules: RecvRules, Marker: TotalResultsMarker}
}

// Parse scans text line by line. The result holds only fields whose rule
// matched; an empty record means nothing was recognised. When a field
// matches more than once the last line wins. Lines containing the marker
// are never parsed, wherever they appear.
func (p *Parser) Parse(text string) metrics.Record {
	rec := make(metrics.Record)
	active := p.Marker == ""

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if p.Marker != "" && strings.Contains(line, p.Marker) {
			active = true
			continue
		}
		if !active {
			continue
		}
		key, value, ok := SplitLine(line)
		if !ok {
			continue
		}
		if field := p.Rules.Lookup(key); field != "" {
			rec[field] = value
		}
	}
	return rec
}

// SplitLine splits a "key = value [unit]" line. The key is trimmed and
// lower-cased; the value is trimmed and cut at its first space so trailing
// units are dropped. ok is false when the line has no '='.
func SplitLine(line string) (key, value string, ok bool) {
	k, v, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.ToLower(strings.TrimSpace(k))
	value = strings.TrimSpace(v)
	if i := strings.IndexByte(value, ' '); i >= 0 {
		value = value[:i]
	}
	return key, value, true
}
