package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"quill/internal/api"
	"quill/internal/notifications"
)

const (
	ansiReset = "\x1b[0m"
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiBlue  = "\x1b[34m"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Trigger one queue pass immediately",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				processed, err := client.TriggerProcess(cmd.Context())
				if err != nil {
					return err
				}
				if processed {
					fmt.Fprintln(cmd.OutOrStdout(), "Processed one queue item")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to process")
				}
				return nil
			})
		},
	}
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon, queue, and provider status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				stats, err := client.Stats(cmd.Context())
				if err != nil {
					return err
				}
				report, err := client.Health(cmd.Context())
				if err != nil {
					return err
				}

				printSection(out, "Worker", colorize)
				fmt.Fprintf(out, "Running: %s\n", renderBool(stats.WorkerRunning, colorize))

				printSection(out, "Queue", colorize)
				fmt.Fprintf(out, "Pending: %d  Processing: %d  Completed: %d  Failed: %d\n",
					stats.CountsByStatus["pending"],
					stats.CountsByStatus["processing"],
					stats.CountsByStatus["completed"],
					stats.CountsByStatus["failed"])

				printSection(out, "Provider", colorize)
				printProvider(out, report, colorize)
				return nil
			})
		},
	}
}

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check provider and database health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				report, err := client.Health(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				printSection(out, "Provider", colorize)
				printProvider(out, report, colorize)

				printSection(out, "Database", colorize)
				fmt.Fprintf(out, "Path:      %s\n", report.Database.Path)
				fmt.Fprintf(out, "Readable:  %s\n", renderBool(report.Database.Readable, colorize))
				fmt.Fprintf(out, "Integrity: %s\n", renderBool(report.Database.IntegrityCheck, colorize))
				fmt.Fprintf(out, "Items:     %d\n", report.Database.TotalItems)
				if report.Database.Error != "" {
					fmt.Fprintf(out, "Error:     %s\n", report.Database.Error)
				}
				return nil
			})
		},
	}
}

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification with the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Notifications.NtfyTopic) == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "ntfy topic not configured; nothing to send")
				return nil
			}
			if err := notifications.NewService(cfg).TestNotification(cmd.Context()); err != nil {
				return fmt.Errorf("send test notification: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
			return nil
		},
	}
}

func printProvider(out io.Writer, report api.HealthResponse, colorize bool) {
	provider := report.Provider
	if !provider.Configured {
		fmt.Fprintln(out, "Not configured (set llm.api_key to enable generation)")
		return
	}
	fmt.Fprintf(out, "Connected:       %s\n", renderBool(provider.Connected, colorize))
	fmt.Fprintf(out, "Model available: %s\n", renderBool(provider.ModelAvailable, colorize))
	if provider.LatencyMs != nil {
		fmt.Fprintf(out, "Latency:         %dms\n", *provider.LatencyMs)
	}
	if provider.Error != "" {
		fmt.Fprintf(out, "Error:           %s\n", provider.Error)
	}
}

func printSection(out io.Writer, title string, colorize bool) {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	if colorize {
		line = ansiBlue + line + ansiReset
	}
	fmt.Fprintf(out, "\n%s\n", line)
}

func renderBool(value bool, colorize bool) string {
	label := yesNo(value)
	if !colorize {
		return label
	}
	if value {
		return ansiGreen + label + ansiReset
	}
	return ansiRed + label + ansiReset
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
