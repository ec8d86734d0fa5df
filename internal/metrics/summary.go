package metrics

import (
	"sort"
	"strconv"
	"strings"
)

// SummaryFields are the numeric columns averaged per group.
var SummaryFields = []string{FieldAvgDelay, FieldJitter, FieldAvgBitrate, FieldPacketLoss}

// FieldStats holds min/max/mean of one numeric field within a group.
type FieldStats struct {
	Count int
	Min   float64
	Max   float64
	Avg   float64
}

// GroupSummary aggregates the records sharing a protocol and packet size.
type GroupSummary struct {
	Protocol   string
	PacketSize string
	Records    int
	Fields     map[string]FieldStats
}

// Summarize groups the table by protocol and packet size and computes stats
// for SummaryFields. Values that do not parse as numbers are ignored, so a
// group may report a field with Count == 0.
func Summarize(t *Table) []GroupSummary {
	if t.Len() == 0 {
		return nil
	}

	type key struct{ protocol, size string }
	groups := make(map[key]*GroupSummary)
	sums := make(map[key]map[string]float64)

	for _, r := range t.Records {
		k := key{r[FieldProtocol], r[FieldPacketSize]}
		g, ok := groups[k]
		if !ok {
			g = &GroupSummary{
				Protocol:   k.protocol,
				PacketSize: k.size,
				Fields:     make(map[string]FieldStats, len(SummaryFields)),
			}
			groups[k] = g
			sums[k] = make(map[string]float64, len(SummaryFields))
		}
		g.Records++

		for _, field := range SummaryFields {
			v, ok := parseValue(r[field])
			if !ok {
				continue
			}
			fs := g.Fields[field]
			if fs.Count == 0 || v < fs.Min {
				fs.Min = v
			}
			if fs.Count == 0 || v > fs.Max {
				fs.Max = v
			}
			fs.Count++
			sums[k][field] += v
			g.Fields[field] = fs
		}
	}

	out := make([]GroupSummary, 0, len(groups))
	for k, g := range groups {
		for field, fs := range g.Fields {
			fs.Avg = sums[k][field] / float64(fs.Count)
			g.Fields[field] = fs
		}
		out = append(out, *g)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Protocol != out[j].Protocol {
			return out[i].Protocol < out[j].Protocol
		}
		return lessPacketSize(out[i].PacketSize, out[j].PacketSize)
	})
	return out
}

func parseValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// lessPacketSize orders numerically when both sizes are integers.
func lessPacketSize(a, b string) bool {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return ai < bi
	}
	return a < b
}
