package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show account summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			format := getOutputFormat()
			if format != "table" {
				summary := map[string]interface{}{}

				subs, err := apiClient.Subscriptions().List(ctx)
				if err == nil {
					summary["subscriptions"] = len(subs)
				}
				limits, err := apiClient.Subscriptions().Limits(ctx)
				if err == nil {
					summary["limits"] = limits
				}
				remaining, err := apiClient.Subscriptions().Remaining(ctx)
				if err == nil {
					summary["remaining"] = remaining
				}
				return printOutput(summary)
			}

			fmt.Println("NoteMeet Account")
			fmt.Println(strings.Repeat("=", 40))

			// Subscriptions
			subs, err := apiClient.Subscriptions().List(ctx)
			if err != nil {
				fmt.Printf("  Subscriptions: (error: %v)\n", err)
			} else {
				tiers := make([]string, 0, len(subs))
				for _, s := range subs {
					tiers = append(tiers, s.Plan.Tier)
				}
				fmt.Printf("  Subscriptions: %d active", len(subs))
				if len(tiers) > 0 {
					fmt.Printf(" (%s)", strings.Join(tiers, ", "))
				}
				fmt.Println()
			}

			// Limits vs remaining
			limits, err := apiClient.Subscriptions().Limits(ctx)
			if err != nil {
				fmt.Printf("  Limits:        (error: %v)\n", err)
				return nil
			}
			remaining, err := apiClient.Subscriptions().Remaining(ctx)
			if err != nil {
				fmt.Printf("  Remaining:     (error: %v)\n", err)
				return nil
			}

			fmt.Printf("  Storage:       %d of %d GB remaining\n", remaining.StorageLimitGB, limits.StorageLimitGB)
			fmt.Printf("  Meetings:      %d of %d remaining\n", remaining.MeetingsAllowed, limits.MeetingsAllowed)
			fmt.Printf("  Max duration:  %d min per meeting\n", limits.MeetingDurationMinutes)

			// Early access
			eligible, err := apiClient.Subscriptions().EarlyAccess(ctx)
			if err == nil && eligible {
				fmt.Println("  Early access:  enabled")
			}

			return nil
		},
	}
}
