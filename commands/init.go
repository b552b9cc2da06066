package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the schema in the configured database",
		Long:  `Creates any missing tables for properties, tenants, rent invoices, maintenance requests, scheduled messages, compliance tasks and guest bookings. Safe to run against an already-initialized store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := getStore()
			if err != nil {
				return err
			}

			if err := st.Init(cmd.Context()); err != nil {
				return fmt.Errorf("failed to initialize schema: %v", err)
			}

			fmt.Println("Schema initialized successfully")
			return nil
		},
	}
}
