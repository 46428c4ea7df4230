package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newModelsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the models offered by the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := ctx.newGateway()
			if err != nil {
				return err
			}

			models, err := g.ListModels(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list models: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(models)
			}

			if len(models) == 0 {
				fmt.Fprintln(out, "No models available")
				return nil
			}

			rows := make([][]string, 0, len(models))
			for i, model := range models {
				marker := ""
				if model == g.ChatModel() {
					marker = "default"
				}
				rows = append(rows, []string{fmt.Sprintf("%d", i+1), model, marker})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Model", ""}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the model ids as JSON")

	return cmd
}
