// Package cmd wires the cobra command tree to the loader and the reflow
// driver: it eliminates per-command boilerplate for request correlation,
// context cancellation, and structured error output.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flowforge/reflow-engine/cli/helpers"
	"github.com/flowforge/reflow-engine/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// CommandExecutor carries a per-invocation correlation id through context
// and logging.
type CommandExecutor struct {
	requestID string
}

// NewCommandExecutor creates an executor with a fresh request id.
func NewCommandExecutor() *CommandExecutor {
	return &CommandExecutor{requestID: uuid.NewString()}
}

// RequestID returns the executor's correlation id.
func (e *CommandExecutor) RequestID() string {
	return e.requestID
}

// WithTimeout derives ctx bounded by timeout (<= 0 means unbounded) and
// attaches a logger carrying the executor's request id.
func (e *CommandExecutor) WithTimeout(
	ctx context.Context,
	timeout time.Duration,
) (context.Context, context.CancelFunc) {
	log := logger.FromContext(ctx).With("request_id", e.requestID)
	ctx = logger.ContextWithLogger(ctx, log)
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// HandleError converts a fatal error into a structured CliError, writes
// it as a JSON response on cmd's error stream, and returns a JSON-handled
// error carrying its message so the command fails with a non-zero exit
// code. This path is used for configuration, loader and formatting errors;
// every reflow.Result, including Success:false, is printed as a normal
// exit-0 response instead.
func HandleError(cmd *cobra.Command, err error, formatter *helpers.JSONFormatter) error {
	if err == nil {
		return nil
	}
	cliErr := helpers.CategorizeError(err)
	out, marshalErr := formatter.FormatError(errors.New(cliErr.Message), cliErr.Code, cliErr.Details)
	if marshalErr != nil {
		return marshalErr
	}
	fmt.Fprintln(cmd.ErrOrStderr(), out)
	return helpers.NewJSONHandledError(cliErr.Message)
}
