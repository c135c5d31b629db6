package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/joss/pizzaiolo/internal/pizzeria"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the mock pizzeria REST API",
		Long: `Runs the pizza REST API the ordering agent's tools are generated against.
Serves the menu, order placement/tracking, and its own OpenAPI document
at /openapi.json.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := pizzeria.NewServer()

			headerColor.Printf("🍕 pizzeria API listening on %s\n", addr)
			fmt.Println("  GET  /api/pizzas")
			fmt.Println("  POST /api/orders")
			fmt.Println("  GET  /api/orders")
			fmt.Println("  GET  /api/orders/{orderId}")
			fmt.Println("  PUT  /api/orders/{orderId}/status")
			fmt.Println("  GET  /openapi.json")
			fmt.Println("  GET  /healthz")

			return http.ListenAndServe(addr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	return cmd
}
