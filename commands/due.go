package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nyumba-labs/propops/analytics"
)

func DueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "due",
		Short: "List upcoming scheduled messages and open compliance tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")
			until := time.Now().UTC().AddDate(0, 0, days)

			st, log, err := getStore()
			if err != nil {
				return err
			}

			service := analytics.NewService(st, log)
			items, err := service.UpcomingDue(cmd.Context(), until)
			if err != nil {
				return fmt.Errorf("failed to compute due items: %v", err)
			}

			if len(items) == 0 {
				fmt.Printf("Nothing due within %d days\n", days)
				return nil
			}

			fmt.Printf("%-12s %-5s %-20s %s\n", "Kind", "ID", "Due", "Item")
			for _, item := range items {
				fmt.Printf("%-12s %-5d %-20s %s\n",
					item.Kind, item.ID, item.Due.Format("2006-01-02 15:04"), item.Label)
			}
			return nil
		},
	}

	cmd.Flags().Int("days", 7, "Horizon in days")

	return cmd
}
