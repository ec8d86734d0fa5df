package report

import (
	"strings"

	"github.com/tturner/ditgparse/internal/metrics"
)

// Rule maps a report key to a field. A key matches when it contains Pattern
// and none of the Exclude substrings. Keys are compared lower-cased.
type Rule struct {
	Pattern string
	Field   string
	Exclude []string
}

// Match reports whether the normalized key satisfies the rule.
func (r Rule) Match(key string) bool {
	if !strings.Contains(key, r.Pattern) {
		return false
	}
	for _, ex := range r.Exclude {
		if strings.Contains(key, ex) {
			return false
		}
	}
	return true
}

// Rules is an ordered rule table; the first matching rule wins.
type Rules []Rule

// Lookup returns the field for key, or "" when no rule matches.
func (rs Rules) Lookup(key string) string {
	for _, r := range rs {
		if r.Match(key) {
			return r.Field
		}
	}
	return ""
}

// Fields lists the distinct target fields in rule order.
func (rs Rules) Fields() []string {
	seen := make(map[string]bool, len(rs))
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		if !seen[r.Field] {
			seen[r.Field] = true
			out = append(out, r.Field)
		}
	}
	return out
}

// RunRules extract the per-run metrics. "average delay" skips keys
// mentioning "standard" so a deviation line never lands in avg_delay.
var RunRules = Rules{
	{Pattern: "total time", Field: metrics.FieldTotalTime},
	{Pattern: "total packets", Field: metrics.FieldTotalPackets},
	{Pattern: "average delay", Field: metrics.FieldAvgDelay, Exclude: []string{"standard"}},
	{Pattern: "average jitter", Field: metrics.FieldJitter},
	{Pattern: "bytes received", Field: metrics.FieldTotalBytes},
	{Pattern: "average bitrate", Field: metrics.FieldAvgBitrate},
	{Pattern: "packets dropped", Field: metrics.FieldPacketLoss},
	{Pattern: "average packet rate", Field: metrics.FieldPacketRate},
}

// RecvRules extract the TOTAL RESULTS section of a combined recv.log report.
var RecvRules = Rules{
	{Pattern: "total time", Field: metrics.FieldTotalTime},
	{Pattern: "total packets", Field: metrics.FieldTotalPackets},
	{Pattern: "minimum delay", Field: metrics.FieldMinDelay},
	{Pattern: "maximum delay", Field: metrics.FieldMaxDelay},
	{Pattern: "average delay", Field: metrics.FieldAvgDelay},
	{Pattern: "average jitter", Field: metrics.FieldJitter},
	{Pattern: "delay standard deviation", Field: metrics.FieldDelayStdDev},
	{Pattern: "bytes received", Field: metrics.FieldTotalBytes},
	{Pattern: "average bitrate", Field: metrics.FieldAvgBitrate},
	{Pattern: "average packet rate", Field: metrics.FieldPacketRate},
	{Pattern: "packets dropped", Field: metrics.FieldPacketLoss},
	{Pattern: "average loss-burst size", Field: metrics.FieldLossBurst},
	{Pattern: "error lines", Field: metrics.FieldErrorLines},
}
