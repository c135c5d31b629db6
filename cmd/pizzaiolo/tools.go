package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/spf13/cobra"

	"github.com/joss/pizzaiolo/internal/config"
)

func newToolsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Show the tools generated from the OpenAPI document",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := config.Load()
			client := &http.Client{Timeout: env.HTTPTimeout}

			ops, err := loadOperations(env.PizzeriaURL, client)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(ops)
			}

			headerColor.Printf("tools generated from %s (%d operations)\n\n", env.PizzeriaURL, len(ops))
			for _, op := range ops {
				toolColor.Printf("%s", op.ID)
				fmt.Printf("  %s %s\n", op.Method, op.Path)
				if op.Summary != "" {
					fmt.Printf("    %s\n", op.Summary)
				}

				names := make([]string, 0, len(op.Params))
				for _, p := range op.Params {
					names = append(names, p.Name)
				}
				sort.Strings(names)
				for _, name := range names {
					for _, p := range op.Params {
						if p.Name != name {
							continue
						}
						req := ""
						if p.Required {
							req = " (required)"
						}
						typ := "string"
						if p.Schema != nil && p.Schema.Type != "" {
							typ = p.Schema.Type
						}
						fmt.Printf("    - %s: %s, in %s%s\n", p.Name, typ, p.Location, req)
					}
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit operations as JSON")
	return cmd
}
