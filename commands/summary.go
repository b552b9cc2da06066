package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nyumba-labs/propops/analytics"
)

func SummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show paid and outstanding rent per property",
		RunE: func(cmd *cobra.Command, args []string) error {
			byName, _ := cmd.Flags().GetBool("by-name")

			st, log, err := getStore()
			if err != nil {
				return err
			}

			service := analytics.NewService(st, log)
			rows, err := service.RentByProperty(cmd.Context(), analytics.RentOptions{OrderByName: byName})
			if err != nil {
				return fmt.Errorf("failed to compute rent summary: %v", err)
			}

			fmt.Printf("%-25s %-15s %-12s %12s %12s\n", "Property", "Location", "Category", "Paid", "Outstanding")
			for _, row := range rows {
				fmt.Printf("%-25s %-15s %-12s %12.2f %12.2f\n",
					row.Name, row.Location, row.Category, row.Paid, row.Outstanding)
			}

			totals, err := service.PortfolioTotals(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to compute portfolio totals: %v", err)
			}
			fmt.Printf("\nTenants: %d  Rent roll: %.2f  Airbnb tenants: %d  Outstanding: %.2f\n",
				totals.Tenants, totals.MonthlyRentRoll, totals.AirbnbTenants, totals.Outstanding)
			return nil
		},
	}

	cmd.Flags().Bool("by-name", false, "Order by property name instead of insertion order")

	return cmd
}
