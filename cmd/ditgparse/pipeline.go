package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tturner/ditgparse/internal/config"
	"github.com/tturner/ditgparse/internal/decoder"
	"github.com/tturner/ditgparse/internal/errors"
	"github.com/tturner/ditgparse/internal/logging"
	"github.com/tturner/ditgparse/internal/pipeline"
	"github.com/tturner/ditgparse/internal/store"
)

type pipelineFlags struct {
	config     string
	root       string
	decoder    string
	outV4      string
	outV6      string
	sqlite     string
	logLevel   string
	logFile    string
	noProgress bool
	summary    bool
}

func newRunsCmd() *cobra.Command {
	return newPipelineCmd(pipeline.RunsLayout{}, pipelineHelp{
		short: "Decode per-run logs (run-<N>.log)",
		long: `Recursively walk ROOT/<IPV> for files named run-<N>.log and decode each with
ITGDec. Protocol, packet size and run number come from the last three path
segments; files nested less than three levels below the IP-version directory
are skipped.

The decoder's exit status is not checked: whatever it printed is parsed.`,
		example: `  # Decode the default log root with ITGDec from PATH
  ditgparse runs

  # Decode another tree and print a per-group summary
  ditgparse runs --root /data/LOGS --summary

  # Keep the results apart from the recv pipeline
  ditgparse runs --out-v4 runs_v4.csv --out-v6 runs_v6.csv`,
	})
}

func newRecvCmd() *cobra.Command {
	return newPipelineCmd(pipeline.RecvLayout{}, pipelineHelp{
		short: "Decode combined receiver logs (recv.log)",
		long: `Visit ROOT/<IPV>/<protocol>/<packet_size>/recv.log and decode each with
ITGDec. Only the TOTAL RESULTS section of the report is used. A decoder run
that exits non-zero is reported and its output discarded.`,
		example: `  # Decode the default log root
  ditgparse recv

  # Use a config file and export to SQLite as well
  ditgparse recv --config lab.yaml --sqlite results.db`,
	})
}

type pipelineHelp struct {
	short   string
	long    string
	example string
}

func newPipelineCmd(layout pipeline.Layout, help pipelineHelp) *cobra.Command {
	flags := &pipelineFlags{}

	cmd := &cobra.Command{
		Use:     layout.Name(),
		Short:   help.short,
		Long:    help.long,
		Example: help.example,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if len(args) > 0 {
				return unexpectedArgsError(cmd, args)
			}
			return runPipeline(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), layout, flags)
		},
	}

	cmd.Flags().StringVar(&flags.config, "config", "", "YAML config file (default: built-in defaults)")
	cmd.Flags().StringVar(&flags.root, "root", "", fmt.Sprintf("Log root containing IPV4/IPV6 directories (default %q)", config.DefaultLogRoot))
	cmd.Flags().StringVar(&flags.decoder, "decoder", "", "ITGDec executable (default: $ITGDEC, then ITGDec on PATH)")
	cmd.Flags().StringVar(&flags.outV4, "out-v4", "", fmt.Sprintf("IPv4 results CSV (default %q)", config.DefaultOutputIPv4))
	cmd.Flags().StringVar(&flags.outV6, "out-v6", "", fmt.Sprintf("IPv6 results CSV (default %q)", config.DefaultOutputIPv6))
	cmd.Flags().StringVar(&flags.sqlite, "sqlite", "", "Also store results in this SQLite database")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level: silent|error|info|verbose|debug (default info)")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "Log file path (default: stdout/stderr only)")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "Disable the progress bar on stderr")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "Print per protocol/packet-size averages after each table")

	return cmd
}

// loadPipelineConfig loads the config file and applies flag overrides.
func loadPipelineConfig(flags *pipelineFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.config, false)
	if err != nil {
		return nil, err
	}

	if flags.root != "" {
		cfg.LogRoot = flags.root
	}
	if flags.decoder != "" {
		cfg.Decoder = flags.decoder
	}
	if flags.sqlite != "" {
		cfg.SQLitePath = flags.sqlite
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	if flags.logFile != "" {
		cfg.Logging.File = flags.logFile
	}
	for _, outputs := range []*config.OutputPaths{&cfg.Outputs.Runs, &cfg.Outputs.Recv} {
		if flags.outV4 != "" {
			outputs.IPv4 = flags.outV4
		}
		if flags.outV6 != "" {
			outputs.IPv6 = flags.outV6
		}
	}

	if err := config.Validate(cfg); err != nil {
		source := flags.config
		if source == "" {
			source = "command-line flags"
		}
		return nil, errors.WrapConfigError(err, source)
	}
	return cfg, nil
}

func runPipeline(ctx context.Context, stdout, stderr io.Writer, layout pipeline.Layout, flags *pipelineFlags) error {
	cfg, err := loadPipelineConfig(flags)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	log, err := logging.NewLogger(level, cfg.Logging.File)
	if err != nil {
		return err
	}
	defer log.Close()
	log.SetOutput(stdout, stderr)

	outputs, err := cfg.OutputsFor(layout.Name())
	if err != nil {
		return err
	}

	// The configured default name defers to $ITGDEC before PATH.
	name := cfg.Decoder
	if name == config.DefaultDecoder {
		name = ""
	}
	decoderPath, err := decoder.ResolvePath(name)
	if err != nil {
		// Not fatal: each launch fails and is reported per file.
		log.Error("%v", errors.WrapDecoderError(err, decoderPath))
	}

	log.LogStartup(layout.Name(), cfg.LogRoot, decoderPath, flags.config, cfg.IPVersions)

	runner := pipeline.NewRunner(layout, decoder.New(decoderPath, cfg.DecoderTimeout()), log)
	if !flags.noProgress {
		runner.Progress = stderr
	}

	opts := pipeline.Options{
		Root:        cfg.LogRoot,
		IPVersions:  cfg.IPVersions,
		Destination: outputs.For,
	}
	if flags.summary {
		opts.Summary = stdout
	}
	if cfg.SQLitePath != "" {
		db, err := store.Open(cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("open SQLite export: %w", err)
		}
		defer db.Close()
		opts.Store = db
		log.Verbose("Exporting results to %s", cfg.SQLitePath)
	}

	stats, err := runner.Process(ctx, opts)
	if err != nil {
		return err
	}

	log.Verbose("Processed %d logs: %d rows, %d empty reports, %d bad paths",
		stats.Sources, stats.Rows, stats.Empty, stats.Skipped)

	dests := make([]string, 0, len(cfg.IPVersions))
	for _, ipv := range cfg.IPVersions {
		dests = append(dests, outputs.For(ipv))
	}
	switch layout.Name() {
	case config.PipelineRecv:
		log.Info("Decoded logs saved to:\n - %s", strings.Join(dests, "\n - "))
	default:
		log.Info("Decoded data saved to %s", strings.Join(dests, " and "))
	}
	return nil
}
