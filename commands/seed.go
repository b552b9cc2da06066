package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nyumba-labs/propops/repos"
)

func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load a small demo portfolio",
		Long:  `Seeds two properties with tenants, invoices, a maintenance request, a compliance task and a scheduled reminder. Does nothing when the store already holds properties.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, log, err := getStore()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if err := st.Init(ctx); err != nil {
				return fmt.Errorf("failed to initialize schema: %v", err)
			}

			properties := repos.NewPropertyRepo(st, log)
			existing, err := properties.List(ctx, repos.PropertyFilter{})
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				fmt.Println("Store already seeded, nothing to do")
				return nil
			}

			tenants := repos.NewTenantRepo(st, log)
			invoices := repos.NewInvoiceRepo(st, log)
			maintenance := repos.NewMaintenanceRepo(st, log)
			compliance := repos.NewComplianceRepo(st, log)
			messages := repos.NewMessageRepo(st, log)

			kilimani, err := properties.Create(ctx, repos.PropertyInput{
				Name: "Kilimani Suites", Category: "Airbnb", Location: "Nairobi", Units: 6,
			})
			if err != nil {
				return err
			}
			lavington, err := properties.Create(ctx, repos.PropertyInput{
				Name: "Lavington Heights", Category: "Long-term", Location: "Nairobi", Units: 12,
			})
			if err != nil {
				return err
			}

			alice, err := tenants.Create(ctx, repos.TenantInput{
				PropertyID:  kilimani.ID,
				FullName:    "Alice Naliaka",
				Contact:     "+254712345678",
				LeaseStart:  time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
				MonthlyRent: 72000,
				IsAirbnb:    true,
			})
			if err != nil {
				return err
			}
			brian, err := tenants.Create(ctx, repos.TenantInput{
				PropertyID:  lavington.ID,
				FullName:    "Brian Kimani",
				Contact:     "+254733222111",
				LeaseStart:  time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
				MonthlyRent: 65000,
			})
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
			if _, err := invoices.Create(ctx, repos.InvoiceInput{
				TenantID: alice.ID, Amount: 72000, DueDate: firstOfMonth,
			}); err != nil {
				return err
			}
			if _, err := invoices.Create(ctx, repos.InvoiceInput{
				TenantID: brian.ID, Amount: 65000, DueDate: firstOfMonth.AddDate(0, 0, 4),
			}); err != nil {
				return err
			}

			if _, err := maintenance.Create(ctx, repos.MaintenanceInput{
				PropertyID: kilimani.ID, Description: "Deep clean apartment 3A", Vendor: "Sparkle Squad",
			}); err != nil {
				return err
			}
			if _, err := compliance.Create(ctx, repos.ComplianceInput{
				Title: "File KRA rental income return", Category: "KRA", DueDate: now.AddDate(0, 0, 7),
			}); err != nil {
				return err
			}
			if _, err := messages.Create(ctx, repos.MessageInput{
				Recipient: "+254712345678",
				Channel:   "whatsapp",
				Template:  "Remember to settle this month's rent",
				SendAt:    now.Add(6 * time.Hour),
			}); err != nil {
				return err
			}

			fmt.Println("Demo portfolio seeded")
			return nil
		},
	}
}
