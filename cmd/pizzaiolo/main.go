// Package main provides the pizzaiolo CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "pizzaiolo",
		Short: "OpenAPI-driven pizza ordering agents",
		Long: `Pizzaiolo: tool-calling agents generated from a pizza API's OpenAPI document.

Usage modes:
  pizzaiolo           Start the interactive ordering chat
  pizzaiolo serve     Run the mock pizzeria REST API
  pizzaiolo tools     Show the tools generated from the OpenAPI document
  pizzaiolo order     Run the full order-then-schedule workflow once
  pizzaiolo schedule  List scheduled deliveries`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat()
		},
	}

	rootCmd.Version = version
	rootCmd.AddCommand(
		newServeCmd(),
		newToolsCmd(),
		newOrderCmd(),
		newScheduleCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
