package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newChatCommand(ctx *commandContext) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send one message and print the cleaned reply",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := ctx.newGateway()
			if err != nil {
				return err
			}

			message := strings.Join(args, " ")
			if message == "" {
				in := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				if !in.interactive() {
					return errors.New("message is required")
				}
				if message, err = in.ask("Message: "); err != nil {
					return err
				}
			}

			reply, err := g.Chat(cmd.Context(), model, message)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Model id, defaults to LLM_MODEL")

	return cmd
}
