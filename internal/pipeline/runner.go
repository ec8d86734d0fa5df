package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/tturner/ditgparse/internal/decoder"
	"github.com/tturner/ditgparse/internal/errors"
	"github.com/tturner/ditgparse/internal/logging"
	"github.com/tturner/ditgparse/internal/metrics"
	"github.com/tturner/ditgparse/internal/progress"
)

// Runner decodes every source of a layout, one at a time.
type Runner struct {
	Layout  Layout
	Decoder decoder.Decoder
	Log     *logging.Logger
	// Progress receives a progress bar when non-nil.
	Progress io.Writer
}

// NewRunner creates a runner with progress output disabled.
func NewRunner(layout Layout, dec decoder.Decoder, log *logging.Logger) *Runner {
	return &Runner{Layout: layout, Decoder: dec, Log: log}
}

// Collect builds the table for one IP version. Per-file problems are logged
// and counted; they never abort the batch. A cancelled context stops the
// batch after the current file and returns what was collected so far.
func (r *Runner) Collect(ctx context.Context, root, ipVersion string) (*metrics.Table, Stats) {
	var stats Stats
	table := metrics.NewTable(ipVersion, r.Layout.Columns())

	sources, err := r.Layout.Discover(root, ipVersion, r.Log)
	if err != nil {
		r.Log.Error("Discovery under %s/%s failed: %v", root, ipVersion, err)
		return table, stats
	}
	stats.Sources = len(sources)
	r.Log.Verbose("Found %d %s logs for %s", len(sources), r.Layout.Name(), ipVersion)

	out := r.Progress
	if out == nil {
		out = io.Discard
	}
	bar := progress.NewBarTo(out, len(sources), ipVersion)
	if r.Progress == nil {
		bar.Disable()
	}

	parser := r.Layout.Parser()
	for _, src := range sources {
		if ctx.Err() != nil {
			r.Log.Error("Interrupted before %s: %v", src.Path, ctx.Err())
			break
		}

		r.Log.Info("Decoding %s", src.Path)
		text := decoder.Output(ctx, r.Decoder, src.Path, r.Layout.CheckExit(), r.Log)

		rec := parser.Parse(text)
		if len(rec) == 0 {
			r.Log.Verbose("No metrics recognised in %s", src.Path)
			stats.Empty++
			bar.Step(false)
			continue
		}
		if !r.Layout.Annotate(src, rec, r.Log) {
			stats.Skipped++
			bar.Step(false)
			continue
		}

		table.Append(rec)
		stats.Rows++
		bar.Step(true)
	}
	bar.Finish()

	return table, stats
}

// TableSaver persists a finished table alongside the CSV output.
type TableSaver interface {
	SaveTable(ctx context.Context, pipeline string, t *metrics.Table) error
}

// Options configures Process.
type Options struct {
	Root       string
	IPVersions []string
	// Destination returns the CSV path for an IP version.
	Destination func(ipVersion string) string
	// Store, when set, receives every non-empty table.
	Store TableSaver
	// Summary, when set, receives a per-group summary of each table.
	Summary io.Writer
}

// Process collects and writes one table per IP version. Only output and
// store failures are returned; everything else is logged and skipped.
func (r *Runner) Process(ctx context.Context, opts Options) (Stats, error) {
	var total Stats

	for _, ipv := range opts.IPVersions {
		table, stats := r.Collect(ctx, opts.Root, ipv)
		if err := ctx.Err(); err != nil {
			// A partial table would silently replace a complete one.
			total.Add(stats)
			return total, fmt.Errorf("%s %s: %w", r.Layout.Name(), ipv, err)
		}

		dest := opts.Destination(ipv)
		written, err := metrics.WriteCSV(dest, table)
		if err != nil {
			return total, fmt.Errorf("write %s results: %w", ipv, errors.WrapOutputError(err, dest))
		}
		if !written {
			r.Log.Info("No data to write to %s", dest)
		} else {
			r.Log.Info("Wrote %d rows to %s", table.Len(), dest)
			stats.Files = append(stats.Files, dest)
		}

		if opts.Store != nil && table.Len() > 0 {
			if err := opts.Store.SaveTable(ctx, r.Layout.Name(), table); err != nil {
				return total, fmt.Errorf("store %s results: %w", ipv, err)
			}
		}

		if opts.Summary != nil && table.Len() > 0 {
			title := fmt.Sprintf("%s %s", ipv, r.Layout.Name())
			fmt.Fprint(opts.Summary, metrics.FormatSummary(title, metrics.Summarize(table)))
		}

		if stats.Dropped() > 0 {
			r.Log.Verbose("%s: %d of %d logs produced no row (%d empty, %d bad path)",
				ipv, stats.Dropped(), stats.Sources, stats.Empty, stats.Skipped)
		}
		total.Add(stats)
	}

	return total, nil
}
