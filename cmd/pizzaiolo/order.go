package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joss/pizzaiolo/internal/agent"
	"github.com/joss/pizzaiolo/internal/calendar"
	"github.com/joss/pizzaiolo/internal/config"
	"github.com/joss/pizzaiolo/internal/handoff"
	"github.com/joss/pizzaiolo/internal/provider"
	"github.com/joss/pizzaiolo/internal/tool"
)

func newOrderCmd() *cobra.Command {
	var (
		address      string
		customerName string
		phone        string
	)

	cmd := &cobra.Command{
		Use:   "order <request>",
		Short: "Run the full order-then-schedule workflow once",
		Long: `Places an order through the ordering agent, then hands the confirmed
order to the scheduling agent, which books a delivery slot on the
calendar. Prints both agents' answers.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env := config.Load()

			request := strings.Join(args, " ")
			if address != "" {
				request += " My address is " + address + "."
			}
			if customerName != "" {
				request += " My name is " + customerName + "."
			}
			if phone != "" {
				request += " My phone number is " + phone + "."
			}

			printEvent := func(ev agent.Event) {
				switch ev.Kind {
				case agent.EventToolCall:
					toolColor.Printf("  ⚒ %s\n", ev.Entry.ToolCall.Tool)
				case agent.EventToolResult:
					if !ev.Entry.ToolResult.Success {
						warnColor.Printf("    ✗ %s\n", ev.Entry.ToolResult.ErrorDetail)
					}
				}
			}

			ordering, err := buildOrderingLoop(env, printEvent)
			if err != nil {
				return err
			}

			store, err := calendar.Open(env.CalendarDB)
			if err != nil {
				return fmt.Errorf("open calendar: %w", err)
			}
			defer store.Close()

			schedulingRegistry := tool.NewRegistry()
			if err := calendar.Register(schedulingRegistry, store); err != nil {
				return err
			}

			client := &http.Client{Timeout: env.HTTPTimeout}
			scheduling := agent.New(agent.Config{
				Provider:     provider.NewOpenAIWithClient(env.OpenAIKey, env.OpenAIBaseURL, client),
				Registry:     schedulingRegistry,
				Model:        env.Model,
				SystemPrompt: agent.SchedulingPrompt,
				MaxTurns:     env.MaxTurns,
				ToolRetries:  env.ToolRetries,
				RecordTool:   "scheduleDelivery",
				OnEvent:      printEvent,
			})

			headerColor.Println("🍕 ordering")
			w := handoff.NewWorkflow(ordering, scheduling)
			res, err := w.Execute(cmd.Context(), request)
			if err != nil {
				return err
			}

			fmt.Println(res.OrderAnswer)
			if !res.Scheduled && res.OrderID == "" {
				warnColor.Println("\nno confirmed order, nothing to schedule")
				return nil
			}

			headerColor.Println("\n📅 scheduling")
			fmt.Println(res.ScheduleAnswer)
			if res.Scheduled {
				successColor.Printf("\n✓ order %s scheduled\n", res.OrderID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "delivery address")
	cmd.Flags().StringVar(&customerName, "name", "", "customer name")
	cmd.Flags().StringVar(&phone, "phone", "", "contact phone number")
	return cmd
}
