package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"quill/internal/api"
	"quill/internal/queue"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the generation queue",
	}

	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueShowCommand(ctx))
	queueCmd.AddCommand(newQueueStatsCommand(ctx))
	queueCmd.AddCommand(newQueueRemoveCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))

	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string
	var limit int
	var offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queue items, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				items, err := client.List(cmd.Context(), api.ListOptions{
					Status: statusFilter,
					Limit:  limit,
					Offset: offset,
				})
				if err != nil {
					return err
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}

				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, []string{
						item.ID,
						item.RequestType,
						item.Status,
						item.CreatedAt.Local().Format(time.RFC3339),
						item.RequestedBy,
					})
				}
				table := renderTable(
					[]string{"ID", "Type", "Status", "Created", "Requested By"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&statusFilter, "status", "s", "", "Filter items by status (pending, processing, completed, failed)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of items to list (0 uses the server default)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of items to skip")
	return cmd
}

func newQueueShowCommand(ctx *commandContext) *cobra.Command {
	var showContent bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one queue item in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				item, err := client.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printItem(cmd, item, showContent)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&showContent, "content", false, "Print the full generated content")
	return cmd
}

func printItem(cmd *cobra.Command, item api.ItemView, showContent bool) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:           %s\n", item.ID)
	fmt.Fprintf(out, "Type:         %s\n", item.RequestType)
	fmt.Fprintf(out, "Status:       %s\n", item.Status)
	if item.RequestedBy != "" {
		fmt.Fprintf(out, "Requested by: %s\n", item.RequestedBy)
	}
	fmt.Fprintf(out, "Created:      %s\n", item.CreatedAt.Local().Format(time.RFC3339))
	if item.StartedAt != nil {
		fmt.Fprintf(out, "Started:      %s\n", item.StartedAt.Local().Format(time.RFC3339))
	}
	if item.CompletedAt != nil {
		fmt.Fprintf(out, "Finished:     %s\n", item.CompletedAt.Local().Format(time.RFC3339))
	}
	if item.ErrorMessage != "" {
		fmt.Fprintf(out, "Error:        %s\n", item.ErrorMessage)
	}
	if item.Output != nil {
		fmt.Fprintf(out, "Title:        %s\n", item.Output.Title)
		fmt.Fprintf(out, "Polished:     %s\n", yesNo(item.Output.Polished))
		if item.Output.Excerpt != "" {
			fmt.Fprintf(out, "Excerpt:      %s\n", item.Output.Excerpt)
		}
		if showContent {
			fmt.Fprintf(out, "\n%s\n", item.Output.Content)
		}
	}
}

func newQueueStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show queue counts and worker state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				stats, err := client.Stats(cmd.Context())
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(stats.CountsByStatus)+1)
				for _, status := range queue.AllStatuses() {
					rows = append(rows, []string{string(status), strconv.Itoa(stats.CountsByStatus[string(status)])})
				}
				rows = append(rows, []string{"total", strconv.Itoa(stats.Total)})

				table := renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, table)
				fmt.Fprintf(out, "Worker running: %s\n", yesNo(stats.WorkerRunning))
				return nil
			})
		},
	}
}

func newQueueRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove one item from the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				if err := client.Remove(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return nil
			})
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	var statusFlag string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all completed or failed items",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, ok := queue.ParseStatus(statusFlag)
			if !ok || !status.IsTerminal() {
				return errors.New("--status must be completed or failed")
			}
			return ctx.withClient(func(client *api.Client) error {
				removed, err := client.Clear(cmd.Context(), status)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d %s item(s)\n", removed, status)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&statusFlag, "status", "s", string(queue.StatusCompleted), "Status to clear (completed or failed)")
	return cmd
}
