package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSubscriptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscription",
		Aliases: []string{"sub", "subs"},
		Short:   "Manage your subscriptions",
	}

	cmd.AddCommand(newSubscriptionListCmd())
	cmd.AddCommand(newSubscriptionSubscribeCmd())
	cmd.AddCommand(newSubscriptionCancelCmd())
	cmd.AddCommand(newSubscriptionLimitsCmd())
	cmd.AddCommand(newSubscriptionRemainingCmd())
	cmd.AddCommand(newSubscriptionEarlyAccessCmd())

	return cmd
}

func newSubscriptionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your active subscriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			subs, err := apiClient.Subscriptions().List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list subscriptions: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(subs)
			}

			if len(subs) == 0 {
				fmt.Println("No active subscriptions")
				return nil
			}

			table := NewTable("ID", "PLAN", "TIER", "STATUS", "ENDS", "PRICE")
			for _, s := range subs {
				table.AddRow(
					strconv.FormatInt(s.ID, 10),
					truncate(s.Plan.Name, 24),
					s.Plan.Tier,
					formatStatus(s.Status),
					s.EndsAt.Format("2006-01-02"),
					formatPrice(s.TotalPriceCents, s.Plan.Currency),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newSubscriptionSubscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe <plan-id>",
		Short: "Subscribe to a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid plan ID: %s", args[0])
			}

			ctx := context.Background()
			sub, err := apiClient.Subscriptions().Subscribe(ctx, planID)
			if err != nil {
				return fmt.Errorf("failed to subscribe: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(sub)
			}

			fmt.Printf("Subscribed to plan %d (subscription %d, renews %s)\n",
				sub.PlanID, sub.ID, sub.EndsAt.Format("2006-01-02"))
			return nil
		},
	}
}

func newSubscriptionCancelCmd() *cobra.Command {
	var planID int64

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel subscriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if planID > 0 {
				if err := apiClient.Subscriptions().CancelPlan(ctx, planID); err != nil {
					return fmt.Errorf("failed to cancel: %w", err)
				}
				fmt.Printf("Canceled subscription to plan %d\n", planID)
				return nil
			}

			if err := apiClient.Subscriptions().CancelAll(ctx); err != nil {
				return fmt.Errorf("failed to cancel: %w", err)
			}
			fmt.Println("Canceled all active subscriptions")
			return nil
		},
	}

	cmd.Flags().Int64Var(&planID, "plan", 0, "cancel only the subscription to this plan")

	return cmd
}

func newSubscriptionLimitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "limits",
		Short: "Show total limits across active subscriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			limits, err := apiClient.Subscriptions().Limits(ctx)
			if err != nil {
				return fmt.Errorf("failed to get limits: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(limits)
			}

			fmt.Printf("Storage:          %d GB\n", limits.StorageLimitGB)
			fmt.Printf("Meeting duration: %d min\n", limits.MeetingDurationMinutes)
			fmt.Printf("Meetings:         %d\n", limits.MeetingsAllowed)
			return nil
		},
	}
}

func newSubscriptionRemainingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remaining",
		Short: "Show remaining limits after current usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			remaining, err := apiClient.Subscriptions().Remaining(ctx)
			if err != nil {
				return fmt.Errorf("failed to get remaining limits: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(remaining)
			}

			fmt.Printf("Storage:          %d GB\n", remaining.StorageLimitGB)
			fmt.Printf("Meeting duration: %d min\n", remaining.MeetingDurationMinutes)
			fmt.Printf("Meetings:         %d\n", remaining.MeetingsAllowed)
			return nil
		},
	}
}

func newSubscriptionEarlyAccessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "early-access",
		Short: "Check early access eligibility",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eligible, err := apiClient.Subscriptions().EarlyAccess(ctx)
			if err != nil {
				return fmt.Errorf("failed to check early access: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(map[string]bool{"early_access": eligible})
			}

			if eligible {
				fmt.Println("Early access: enabled")
			} else {
				fmt.Println("Early access: not included in your plans")
			}
			return nil
		},
	}
}
