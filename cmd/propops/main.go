package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nyumba-labs/propops/commands"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "propops",
		Short: "Property-management record keeper",
	}

	rootCmd.AddCommand(
		commands.InitCmd(),
		commands.SeedCmd(),
		commands.SummaryCmd(),
		commands.ArrearsCmd(),
		commands.DueCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
