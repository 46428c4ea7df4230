package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alitto/pond/v2"
	"github.com/spf13/cobra"

	"github.com/NethermindEth/genai-gateway/pkg/gateway"
	"github.com/NethermindEth/genai-gateway/pkg/gateway/filestorage"
	"github.com/NethermindEth/genai-gateway/pkg/gateway/publish"
)

type documentGenerator interface {
	GenerateDocument(ctx context.Context, topic string, author string) (*gateway.DocumentResult, error)
}

type documentPublisher interface {
	Publish(ctx context.Context, record publish.DocumentRecord) (string, error)
}

// articleRunner generates articles, writes the markdown and PDF siblings and
// optionally pins the markdown.
type articleRunner struct {
	generator   documentGenerator
	store       *filestorage.LocalStore
	publisher   documentPublisher
	concurrency int
}

type articleOutcome struct {
	Topic    string
	Paths    []string
	IpfsHash string
	Err      error
}

func (o articleOutcome) failed() bool {
	return o.Err != nil
}

func newArticleCommand(ctx *commandContext) *cobra.Command {
	var (
		topics    []string
		author    string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "article",
		Short: "Generate scientific articles as markdown and PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, result, err := ctx.newGateway()
			if err != nil {
				return err
			}

			if len(topics) == 0 || author == "" {
				in := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				if !in.interactive() {
					return errors.New("--topic and --author are required when not running in a terminal")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "=== Scientific Article Generator ===")
				if len(topics) == 0 {
					topic, err := in.ask("Enter the topic for the scientific article: ")
					if err != nil {
						return err
					}
					topics = []string{topic}
				}
				if author == "" {
					if author, err = in.ask("Enter the author's name: "); err != nil {
						return err
					}
				}
			}

			dir := outputDir
			if dir == "" {
				dir = result.OutputDir
			}

			runner := &articleRunner{
				generator:   g,
				store:       filestorage.NewLocalStore(dir),
				concurrency: result.ArticleConcurrency,
			}
			if result.PinataJwtKey != "" {
				runner.publisher = publish.NewDocumentPublisher(filestorage.NewPinataUploader(result.PinataJwtKey))
			}

			outcomes := runner.run(cmd.Context(), topics, author)
			fmt.Fprintln(cmd.OutOrStdout(), renderOutcomes(outcomes))

			failed := 0
			for _, outcome := range outcomes {
				if outcome.failed() {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d articles failed", failed, len(outcomes))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&topics, "topic", "t", nil, "Article topic, repeat for a batch")
	cmd.Flags().StringVarP(&author, "author", "a", "", "Author name placed under the title")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory, defaults to OUTPUT_DIR")

	return cmd
}

// run generates every topic on a bounded pool. Outcomes keep the order of topics.
func (r *articleRunner) run(ctx context.Context, topics []string, author string) []articleOutcome {
	concurrency := r.concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	pool := pond.NewPool(concurrency)
	defer pool.StopAndWait()

	outcomes := make([]articleOutcome, len(topics))
	group := pool.NewGroup()
	for i, topic := range topics {
		group.Submit(func() {
			outcomes[i] = r.generate(ctx, topic, author)
		})
	}
	if err := group.Wait(); err != nil {
		slog.Error("article batch interrupted", "error", err)
	}

	return outcomes
}

func (r *articleRunner) generate(ctx context.Context, topic string, author string) articleOutcome {
	outcome := articleOutcome{Topic: topic}

	slog.Info("generating article", "topic", topic)
	result, err := r.generator.GenerateDocument(ctx, topic, author)
	if result == nil {
		outcome.Err = err
		return outcome
	}

	paths, saveErr := r.store.Save(result.BaseName, result.Markup, result.Document)
	outcome.Paths = paths
	if saveErr != nil {
		outcome.Err = errors.Join(err, saveErr)
		return outcome
	}
	// a render error still leaves the markdown on disk
	outcome.Err = err

	if r.publisher != nil {
		hash, pubErr := r.publisher.Publish(ctx, publish.DocumentRecord{
			Name:     filepath.Base(paths[0]),
			Author:   result.Author,
			Date:     result.Date,
			Markdown: string(result.Markup.Data),
		})
		if pubErr != nil {
			slog.Warn("failed to publish article", "topic", topic, "error", pubErr)
		} else {
			outcome.IpfsHash = hash
		}
	}

	return outcome
}

func renderOutcomes(outcomes []articleOutcome) string {
	rows := make([][]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		status := "ok"
		if outcome.failed() {
			status = outcome.Err.Error()
		}

		rows = append(rows, []string{outcome.Topic, strings.Join(outcome.Paths, "\n"), outcome.IpfsHash, status})
	}

	return renderTable([]string{"Topic", "Files", "IPFS", "Status"}, rows)
}
