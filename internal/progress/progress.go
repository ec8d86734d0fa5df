package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const barWidth = 40

// Bar shows how many logs of a batch have been decoded and how many
// produced a row.
type Bar struct {
	total       int
	current     int
	rows        int
	startTime   time.Time
	lastUpdate  time.Time
	output      io.Writer
	enabled     bool
	description string
}

// NewBar creates a progress bar writing to stderr so it doesn't interfere
// with stdout diagnostics.
func NewBar(total int, description string) *Bar {
	return NewBarTo(os.Stderr, total, description)
}

// NewBarTo creates a progress bar writing to w.
func NewBarTo(w io.Writer, total int, description string) *Bar {
	now := time.Now()
	return &Bar{
		total:       total,
		startTime:   now,
		lastUpdate:  now,
		output:      w,
		enabled:     true,
		description: description,
	}
}

// Disable turns rendering off; counters still advance.
func (p *Bar) Disable() {
	p.enabled = false
}

// Step records one processed log. produced reports whether it yielded a row.
func (p *Bar) Step(produced bool) {
	p.current++
	if produced {
		p.rows++
	}
	p.render(false)
}

// Current returns the number of processed logs.
func (p *Bar) Current() int { return p.current }

// Rows returns the number of logs that produced a row.
func (p *Bar) Rows() int { return p.rows }

func (p *Bar) render(force bool) {
	if !p.enabled {
		return
	}

	// Throttle updates to avoid too much output
	now := time.Now()
	if !force && now.Sub(p.lastUpdate) < 100*time.Millisecond && p.current < p.total {
		return
	}
	p.lastUpdate = now

	var percent float64
	if p.total > 0 {
		percent = float64(p.current) / float64(p.total) * 100
	}

	filled := int(float64(barWidth) * percent / 100)
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("=", filled)
	if filled < barWidth {
		bar += ">" + strings.Repeat("-", barWidth-filled-1)
	}

	elapsed := time.Since(p.startTime)
	line := fmt.Sprintf("\r%s [%s] %d/%d logs, %d rows (%.1f%%) | Elapsed: %s",
		p.description, bar, p.current, p.total, p.rows, percent, formatDuration(elapsed))

	if p.current > 0 && p.current < p.total {
		rate := float64(p.current) / elapsed.Seconds()
		if rate > 0 {
			eta := time.Duration(float64(p.total-p.current)/rate) * time.Second
			line += fmt.Sprintf(" | ETA: %s", formatDuration(eta))
		}
	}

	fmt.Fprint(p.output, line)
}

// Finish renders the final state and ends the line.
func (p *Bar) Finish() {
	if !p.enabled {
		return
	}
	p.render(true)
	fmt.Fprint(p.output, "\n")
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", minutes, seconds)
}
