package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vartrace/internal/event"
	"vartrace/internal/observ"
	"vartrace/internal/record"
	"vartrace/internal/trace"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <stream.ndjson|stream.vtr>",
	Short: "Replay a recorded event stream and trace variable state",
	Long:  `Replay a recorded execution event stream through a trace session, logging visible variable state as it changes`,
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	runCmd.Flags().BoolP("verbose", "v", false, "print extra information as the replay runs (e.g. disassembled code)")
	runCmd.Flags().Bool("show-internal", false, "display internal variables (ones which start with two underscores)")
	runCmd.Flags().Bool("show-unrepresentable", false, "display variables without a distinguishing rendering")
}

func runReplay(cmd *cobra.Command, args []string) error {
	path := args[0]

	display, err := resolveDisplayOptions(cmd)
	if err != nil {
		return err
	}

	colored, err := colorEnabled(cmd)
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}

	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	timer := observ.NewTimer()

	loadPhase := timer.Begin("load")
	events, err := record.Load(path)
	if err != nil {
		return err
	}
	timer.End(loadPhase, fmt.Sprintf("%d events", len(events)))

	cfg := trace.Config{
		ShowInternal:        display.showInternal,
		ShowUnrepresentable: display.showUnrepresentable,
		Verbose:             display.verbose,
		Output:              cmd.OutOrStdout(),
		Color:               colored,
	}
	if display.verbose {
		// Disassembly text is recorded on the events themselves; the
		// session only needs a hook to fetch it.
		cfg.Disasm = trace.DisassemblerFunc(func(ev *event.Event) string {
			return ev.Disasm
		})
	}

	sess := trace.NewSession(cfg)
	replay := record.NewReplay(events)

	replayPhase := timer.Begin("replay")
	driveErr := replay.Drive(sess)
	timer.End(replayPhase, "")

	if showTimings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary()) //nolint:errcheck
	}
	if driveErr != nil {
		return fmt.Errorf("%s: %w", path, driveErr)
	}
	return nil
}

// displayOptions are the session display settings: manifest defaults
// overridden by explicitly set flags.
type displayOptions struct {
	showInternal        bool
	showUnrepresentable bool
	verbose             bool
}

func resolveDisplayOptions(cmd *cobra.Command) (displayOptions, error) {
	var opts displayOptions

	wd, err := os.Getwd()
	if err != nil {
		return opts, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	m, ok, err := loadManifest(wd)
	if err != nil {
		return opts, err
	}
	if ok {
		opts.showInternal = m.Config.Display.ShowInternal
		opts.showUnrepresentable = m.Config.Display.ShowUnrepresentable
		opts.verbose = m.Config.Display.Verbose
	}

	if cmd.Flags().Changed("show-internal") || !ok {
		if opts.showInternal, err = cmd.Flags().GetBool("show-internal"); err != nil {
			return opts, fmt.Errorf("failed to get show-internal flag: %w", err)
		}
	}
	if cmd.Flags().Changed("show-unrepresentable") || !ok {
		if opts.showUnrepresentable, err = cmd.Flags().GetBool("show-unrepresentable"); err != nil {
			return opts, fmt.Errorf("failed to get show-unrepresentable flag: %w", err)
		}
	}
	if cmd.Flags().Changed("verbose") || !ok {
		if opts.verbose, err = cmd.Flags().GetBool("verbose"); err != nil {
			return opts, fmt.Errorf("failed to get verbose flag: %w", err)
		}
	}
	return opts, nil
}
