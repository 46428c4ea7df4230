package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/NethermindEth/genai-gateway/pkg/gateway/backend"
	"github.com/NethermindEth/genai-gateway/pkg/gateway/naming"
	"github.com/NethermindEth/genai-gateway/pkg/gateway/render"
	"github.com/NethermindEth/genai-gateway/pkg/gateway/sanitize"
)

const (
	articleSystemPrompt = "You are a scientific article writer."

	articleUserPrompt = `You are a scientific article writer. Your task is to generate a structured scientific article in Markdown format based on the user's request. The article must include an Abstract, Introduction, Literature Review / Background, Methodology (if applicable), Results / Analysis, Discussion, Conclusion, and a References section formatted in APA style. Use appropriate Markdown headings (e.g., #, ##, ###). Start with the article title as a single top-level heading.

Generate a scientific article on the following topic: %s`

	articleMaxTokens   = 3200
	articleTemperature = 0.7
)

var htmlReply = regexp.MustCompile(`(?is)^\s*(?:<!doctype\s+html|<(?:html|body|article|section|div|h[1-6]|p)\b[^>]*>)`)

// DocumentResult holds both artifacts of a generated document. Document is nil
// when rendering failed; Markup is always set once the backend answered.
type DocumentResult struct {
	BaseName string
	Author   string
	Date     string
	Markup   *render.Artifact
	Document *render.Artifact
}

// GenerateDocument asks the backend for an article on topic, attributes it to
// author with today's date and renders it. On a render error the result is
// returned together with the error so the markup can still be kept.
func (g *Gateway) GenerateDocument(ctx context.Context, topic string, author string) (*DocumentResult, error) {
	trace := g.trace(ctx, operationGenerateDocument)
	trace.enter(PhaseValidating)

	topic = strings.TrimSpace(topic)
	author = strings.TrimSpace(author)
	if topic == "" {
		return nil, trace.fail(newValidationError(KindEmptyTopic))
	}
	if author == "" {
		return nil, trace.fail(newValidationError(KindEmptyAuthor))
	}

	trace.enter(PhaseDispatched)
	req := backend.NewChatRequest(g.chatModel, []backend.ChatMessage{
		{Role: backend.RoleSystem, Content: articleSystemPrompt},
		{Role: backend.RoleUser, Content: fmt.Sprintf(articleUserPrompt, topic)},
	}, backend.ChatOptions{
		MaxTokens:   articleMaxTokens,
		Temperature: articleTemperature,
	})

	resp, err := g.backend.Call(ctx, req, g.documentTimeout)
	if err != nil {
		return nil, trace.fail(err)
	}

	trace.enter(PhaseSanitizing)
	text := normalizeMarkup(sanitize.ChatText(resp.Reply))
	if text == "" {
		return nil, trace.fail(ErrEmptyReply)
	}

	trace.enter(PhaseRendering)
	now := g.clock()
	date := naming.Date(now)

	draft := render.ParseDraft(text)
	if err := draft.InjectHeader(author, date); err != nil {
		return nil, trace.fail(err)
	}

	base := naming.DocumentBase(topic, author, now)
	result := &DocumentResult{
		BaseName: base,
		Author:   author,
		Date:     date,
		Markup:   render.MarkupArtifact(render.ToMarkup(draft), base+".md"),
	}

	document, err := g.renderer.Render(ctx, draft)
	if err != nil {
		slog.Warn("failed to render document, keeping markup", "topic", topic, "error", err)
		return result, trace.fail(err)
	}
	document.SuggestedFilename = base + ".pdf"
	result.Document = document

	trace.done()
	return result, nil
}

// normalizeMarkup converts replies that came back as HTML into markdown.
func normalizeMarkup(text string) string {
	if !htmlReply.MatchString(text) {
		return text
	}

	markdown, err := htmltomarkdown.ConvertString(text)
	if err != nil {
		slog.Warn("failed to convert html reply to markdown", "error", err)
		return text
	}

	return strings.TrimSpace(markdown)
}
