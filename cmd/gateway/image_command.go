package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NethermindEth/genai-gateway/pkg/gateway/filestorage"
	"github.com/NethermindEth/genai-gateway/pkg/gateway/imaging"
)

func newImageCommand(ctx *commandContext) *cobra.Command {
	var (
		negativePrompt string
		aspectRatio    string
		outputDir      string
	)

	cmd := &cobra.Command{
		Use:   "image <prompt>",
		Short: "Generate an image and write it to the output directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, result, err := ctx.newGateway()
			if err != nil {
				return err
			}
			if err := result.ValidateImageBackend(); err != nil {
				return err
			}

			artifact, err := g.GenerateImage(cmd.Context(), strings.Join(args, " "), negativePrompt, aspectRatio)
			if err != nil {
				return err
			}

			dir := outputDir
			if dir == "" {
				dir = result.OutputDir
			}

			name := artifact.SuggestedFilename
			paths, err := filestorage.NewLocalStore(dir).Save(strings.TrimSuffix(name, filepath.Ext(name)), artifact)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Image saved to %s (%s)\n", paths[0], artifact.ContentType)
			return nil
		},
	}

	cmd.Flags().StringVarP(&negativePrompt, "negative", "n", "", "Negative prompt")
	cmd.Flags().StringVarP(&aspectRatio, "aspect", "a", "", fmt.Sprintf("Aspect ratio, one of %s", strings.Join(imaging.Tags(), ", ")))
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory, defaults to OUTPUT_DIR")

	return cmd
}
