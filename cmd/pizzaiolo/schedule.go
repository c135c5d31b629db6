package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joss/pizzaiolo/internal/calendar"
	"github.com/joss/pizzaiolo/internal/config"
)

func newScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "List scheduled deliveries",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := config.Load()

			store, err := calendar.Open(env.CalendarDB)
			if err != nil {
				return fmt.Errorf("open calendar: %w", err)
			}
			defer store.Close()

			deliveries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(deliveries) == 0 {
				fmt.Println("no deliveries scheduled")
				return nil
			}

			headerColor.Printf("%d scheduled deliveries\n\n", len(deliveries))
			for _, d := range deliveries {
				toolColor.Printf("%s", d.OrderID)
				fmt.Printf("  %s  %s  %s (%s)\n",
					d.DeliveryTime.Local().Format(time.RFC822),
					d.Status, d.Address, d.CustomerName)
			}
			return nil
		},
	}
}
