package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/openai/openai-go/v3/option"

	"metaprompt/internal/assistants"
	"metaprompt/internal/config"
	"metaprompt/internal/driver"
	"metaprompt/internal/expert"
	"metaprompt/internal/sandbox"
	"metaprompt/internal/telemetry"
	"metaprompt/tools"
)

const (
	colorCyan  = "[96m"
	colorReset = "[0m"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(os.Stderr)
	slog.SetDefault(logger)

	os.Exit(run(ctx, os.Stdin, os.Stdout, os.Stderr, logger))
}

// run handles exactly one user command: read a line, start a thread and
// run for it, then drive that run to its end. Returns the process exit
// code.
func run(ctx context.Context, in io.Reader, out, errOut io.Writer, logger *slog.Logger) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	fmt.Fprintf(out, "%sUser Command: %s", colorCyan, colorReset)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(errOut, "read command: %v\n", err)
			return 1
		}
		return 0
	}
	command := strings.TrimSpace(scanner.Text())
	if command == "" || command == "quit" {
		return 0
	}

	backend, err := assistants.New(cfg.BaseURL, cfg.APIKey, cfg.HTTPTimeout)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	caller, err := expert.New(cfg.APIKey, cfg.ExpertModel, option.WithBaseURL(cfg.BaseURL))
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	defs := tools.Registry(caller, sandbox.New(cfg.PythonBin))
	d := driver.New(backend, defs, driver.Options{
		PollInterval: cfg.PollInterval,
		PollTimeout:  cfg.PollTimeout,
		Output:       out,
		Logger:       logger,
	})

	ctx = telemetry.WithTurnID(ctx, telemetry.NewTurnID())
	telemetry.EmitLocalFeatures(ctx, "user_command", command)

	created, err := backend.CreateThreadAndRun(ctx, cfg.AssistantID, command)
	if err != nil {
		fmt.Fprintf(errOut, "create thread and run: %v\n", err)
		return 1
	}
	turnID, _ := telemetry.TurnIDFromContext(ctx)
	telemetry.Emit("run_created", map[string]any{
		"turn_id":   turnID,
		"run_id":    created.ID,
		"thread_id": created.ThreadID,
		"status":    created.Status,
	})
	logger.Info("run created", "run_id", created.ID, "thread_id", created.ThreadID)

	if err := d.Drive(ctx, created); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	return 0
}
