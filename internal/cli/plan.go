package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "plan",
		Aliases: []string{"plans"},
		Short:   "Browse subscription plans",
	}

	cmd.AddCommand(newPlanListCmd())
	cmd.AddCommand(newPlanGetCmd())

	return cmd
}

func newPlanListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plans, err := apiClient.Plans().List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list plans: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(plans)
			}

			if len(plans) == 0 {
				fmt.Println("No plans available")
				return nil
			}

			table := NewTable("ID", "NAME", "TIER", "PRICE", "PERIOD", "MEETINGS", "DURATION", "STORAGE")
			for _, p := range plans {
				table.AddRow(
					strconv.FormatInt(p.ID, 10),
					truncate(p.Name, 24),
					p.Tier,
					formatPrice(p.PriceCents, p.Currency),
					p.BillingPeriod,
					strconv.Itoa(p.MeetingsAllowed),
					fmt.Sprintf("%d min", p.MeetingDurationMinutes),
					fmt.Sprintf("%d GB", p.StorageLimitGB),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newPlanGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show plan details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid plan ID: %s", args[0])
			}

			ctx := context.Background()
			p, err := apiClient.Plans().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get plan: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(p)
			}

			fmt.Printf("Name:        %s\n", p.Name)
			fmt.Printf("Tier:        %s\n", p.Tier)
			if p.Description != "" {
				fmt.Printf("Description: %s\n", p.Description)
			}
			fmt.Printf("Price:       %s / %s\n", formatPrice(p.PriceCents, p.Currency), p.BillingPeriod)
			fmt.Printf("Meetings:    %d\n", p.MeetingsAllowed)
			fmt.Printf("Duration:    %d min per meeting\n", p.MeetingDurationMinutes)
			fmt.Printf("Storage:     %d GB\n", p.StorageLimitGB)
			if p.TrialDays > 0 {
				fmt.Printf("Trial:       %d days\n", p.TrialDays)
			}
			if p.EarlyAccess {
				fmt.Println("Early access included")
			}
			for _, f := range p.Features {
				fmt.Printf("  - %s\n", f)
			}
			return nil
		},
	}
}
