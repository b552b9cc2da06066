package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nyumba-labs/propops/analytics"
)

func ArrearsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arrears",
		Short: "List tenants with overdue unpaid invoices",
		RunE: func(cmd *cobra.Command, args []string) error {
			asOfFlag, _ := cmd.Flags().GetString("as-of")
			asOf, err := parseDate(asOfFlag, time.Now().UTC())
			if err != nil {
				return err
			}

			st, log, err := getStore()
			if err != nil {
				return err
			}

			service := analytics.NewService(st, log)
			entries, err := service.Arrears(cmd.Context(), asOf)
			if err != nil {
				return fmt.Errorf("failed to compute arrears: %v", err)
			}

			if len(entries) == 0 {
				fmt.Println("No tenants in arrears")
				return nil
			}

			fmt.Printf("%-5s %-25s %-12s %10s %8s\n", "ID", "Tenant", "Earliest", "Amount", "Count")
			for _, entry := range entries {
				fmt.Printf("%-5d %-25s %-12s %10.2f %8d\n",
					entry.TenantID, entry.FullName, entry.EarliestDue.Format("2006-01-02"),
					entry.OverdueAmount, entry.OverdueCount)
			}
			return nil
		},
	}

	cmd.Flags().String("as-of", "", "Reference date (YYYY-MM-DD), defaults to today")

	return cmd
}
