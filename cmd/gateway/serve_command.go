package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/NethermindEth/genai-gateway/pkg/gateway/debug"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat, model listing and image routes over HTTP",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			result, err := ctx.ensureSetup()
			if err != nil {
				return err
			}
			if addr != "" {
				result.ApiIpPort = addr
			}
			if err := result.ValidateImageBackend(); err != nil {
				return fmt.Errorf("refusing to start: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !debug.IsDebug() {
				gin.SetMode(gin.ReleaseMode)
			}

			g, _, err := ctx.newGateway()
			if err != nil {
				return fmt.Errorf("failed to create gateway: %w", err)
			}

			return g.StartServer(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides API_IP_PORT")

	return cmd
}
