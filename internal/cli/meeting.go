package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/notemeet/notemeet/pkg/client"
	"github.com/spf13/cobra"
)

func newMeetingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "meeting",
		Aliases: []string{"meetings"},
		Short:   "Manage recorded meetings",
	}

	cmd.AddCommand(newMeetingListCmd())
	cmd.AddCommand(newMeetingCreateCmd())
	cmd.AddCommand(newMeetingGetCmd())
	cmd.AddCommand(newMeetingDeleteCmd())

	return cmd
}

func newMeetingListCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your meetings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			result, err := apiClient.Meetings().List(ctx, page, pageSize)
			if err != nil {
				return fmt.Errorf("failed to list meetings: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(result)
			}

			if len(result.Data) == 0 {
				fmt.Println("No meetings found")
				return nil
			}

			table := NewTable("ID", "TITLE", "STARTS", "DURATION", "RECORDING")
			for _, m := range result.Data {
				table.AddRow(
					strconv.FormatInt(m.ID, 10),
					truncate(m.Title, 32),
					m.StartsAt.Format("2006-01-02 15:04"),
					fmt.Sprintf("%d min", m.DurationMinutes),
					formatBytes(m.RecordingSizeBytes),
				)
			}
			table.Render()

			if result.TotalPages > 1 {
				fmt.Printf("\nPage %d of %d (%d meetings)\n", result.Page, result.TotalPages, result.TotalItems)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "results per page")

	return cmd
}

func newMeetingCreateCmd() *cobra.Command {
	var (
		title     string
		startsAt  string
		duration  int
		sizeBytes int64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a new meeting",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				title = promptInput("Title: ")
			}

			starts := time.Now()
			if startsAt != "" {
				var err error
				starts, err = time.Parse(time.RFC3339, startsAt)
				if err != nil {
					return fmt.Errorf("invalid start time (use RFC3339): %w", err)
				}
			}

			ctx := context.Background()
			m, err := apiClient.Meetings().Create(ctx, client.CreateMeetingRequest{
				Title:              title,
				StartsAt:           starts,
				DurationMinutes:    duration,
				RecordingSizeBytes: sizeBytes,
			})
			if err != nil {
				return fmt.Errorf("failed to create meeting: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(m)
			}

			fmt.Printf("Meeting %d created: %s (%d min)\n", m.ID, m.Title, m.DurationMinutes)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "meeting title")
	cmd.Flags().StringVar(&startsAt, "starts-at", "", "start time in RFC3339 (default now)")
	cmd.Flags().IntVar(&duration, "duration", 30, "duration in minutes")
	cmd.Flags().Int64Var(&sizeBytes, "recording-size", 0, "recording size in bytes")

	return cmd
}

func newMeetingGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show meeting details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid meeting ID: %s", args[0])
			}

			ctx := context.Background()
			m, err := apiClient.Meetings().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get meeting: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(m)
			}

			fmt.Printf("Title:     %s\n", m.Title)
			fmt.Printf("Starts:    %s\n", m.StartsAt.Format(time.RFC1123))
			fmt.Printf("Duration:  %d min\n", m.DurationMinutes)
			fmt.Printf("Recording: %s\n", formatBytes(m.RecordingSizeBytes))
			fmt.Printf("ID:        %d\n", m.ID)
			return nil
		},
	}
}

func newMeetingDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a meeting and release its storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid meeting ID: %s", args[0])
			}

			ctx := context.Background()
			if err := apiClient.Meetings().Delete(ctx, id); err != nil {
				return fmt.Errorf("failed to delete meeting: %w", err)
			}

			fmt.Printf("Meeting %d deleted\n", id)
			return nil
		},
	}
}
