package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/flowforge/reflow-engine/cli/helpers"
	"github.com/flowforge/reflow-engine/internal/loader"
	"github.com/flowforge/reflow-engine/internal/reflow"
	"github.com/flowforge/reflow-engine/pkg/logger"
	"github.com/flowforge/reflow-engine/pkg/rconfig"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// NewRunCommand builds the `run` subcommand: load work centers/work orders
// from one or more files or directories, reflow the schedule, and print
// the JSON result.
func NewRunCommand() *cobra.Command {
	var (
		inputs     []string
		format     string
		timeoutStr string
		glob       string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load work centers and work orders and reflow the schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReflow(cmd, inputs, format, timeoutStr, glob)
		},
	}

	cmd.Flags().StringSliceVar(&inputs, "input", nil, "file or directory to load (repeatable)")
	cmd.Flags().StringVar(&format, "format", "", "output format: json or pretty (default: auto-detected from stdout)")
	cmd.Flags().StringVar(&timeoutStr, "timeout", "", "maximum duration for the reflow run (default: reflow.timeout from config, e.g. REFLOW_TIMEOUT)")
	cmd.Flags().StringVar(&glob, "glob", "", "glob pattern for directory inputs (default: **/*.json)")
	if err := cmd.MarkFlagRequired("input"); err != nil {
		panic(err)
	}

	return cmd
}

func runReflow(cmd *cobra.Command, inputs []string, format, timeoutStr, glob string) error {
	executor := NewCommandExecutor()
	formatter := helpers.NewJSONFormatter(resolvePretty(format))

	cfg, err := rconfig.Load(rconfig.Options{})
	if err != nil {
		return HandleError(cmd, fmt.Errorf("loading configuration: %w", err), formatter)
	}

	var timeout time.Duration
	if timeoutStr == "" {
		timeout, err = cfg.ParsedTimeout()
		if err != nil {
			return HandleError(cmd, fmt.Errorf("resolving default timeout: %w", err), formatter)
		}
	} else {
		timeout, err = time.ParseDuration(timeoutStr)
		if err != nil {
			return HandleError(cmd, fmt.Errorf("invalid --timeout %q: %w", timeoutStr, err), formatter)
		}
	}
	ctx, cancel := executor.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	log := logger.FromContext(ctx).With("component", "cli")

	loaded, err := loader.Load(inputs, glob)
	if err != nil {
		return HandleError(cmd, fmt.Errorf("loading input: %w", err), formatter)
	}
	if loaded.ReflowOptions != nil {
		merged, mergeErr := rconfig.MergeReflowOptions(cfg, *loaded.ReflowOptions)
		if mergeErr != nil {
			return HandleError(cmd, fmt.Errorf("applying reflowOptions document: %w", mergeErr), formatter)
		}
		cfg = merged
	}

	log.Info("reflow run starting",
		"work_centers", len(loaded.WorkCenters), "work_orders", len(loaded.WorkOrders))

	result := reflow.Reflow(
		ctx, loaded.WorkCenters, loaded.WorkOrders,
		reflow.WithMaxIterationsPerOrder(cfg.Reflow.MaxIterationsPerOrder),
	)

	out, err := formatter.FormatSuccess(result, &helpers.FormatterMetadata{
		Timestamp: time.Now(),
		RequestID: executor.RequestID(),
	})
	if err != nil {
		return HandleError(cmd, fmt.Errorf("formatting result: %w", err), formatter)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func resolvePretty(format string) bool {
	switch format {
	case "pretty":
		return true
	case "json":
		return false
	default:
		return isatty.IsTerminal(os.Stdout.Fd())
	}
}
