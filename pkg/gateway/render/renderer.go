package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

type Format string

const (
	FormatMarkup              Format = "markup"
	FormatFixedLayoutDocument Format = "fixedLayoutDocument"
	FormatImageBytes          Format = "imageBytes"
)

const (
	ContentTypeMarkdown = "text/markdown; charset=utf-8"
	ContentTypePDF      = "application/pdf"
)

// Artifact is a finished output handed to a collaborator.
type Artifact struct {
	Format            Format
	Data              []byte
	ContentType       string
	SuggestedFilename string
}

// Job is a single layout request.
type Job struct {
	Markup string
	Title  string
	Author string
	Style  Style
}

// Engine starts layout sessions. A session serves one render and is closed
// right after it.
type Engine interface {
	Acquire(ctx context.Context) (Session, error)
}

type Session interface {
	Layout(job Job) ([]byte, error)
	Close() error
}

type Renderer struct {
	engine Engine
}

func NewRenderer(engine Engine) *Renderer {
	return &Renderer{engine: engine}
}

// MarkupArtifact wraps markdown text as an artifact.
func MarkupArtifact(markup string, filename string) *Artifact {
	return &Artifact{
		Format:            FormatMarkup,
		Data:              []byte(markup),
		ContentType:       ContentTypeMarkdown,
		SuggestedFilename: filename,
	}
}

// Render lays out the draft's markup with PolicyStyle. The engine session is
// released on every return path.
func (r *Renderer) Render(ctx context.Context, draft *Draft) (*Artifact, error) {
	if draft == nil {
		return nil, &RenderError{Kind: KindLayoutFailed, Err: errors.New("draft is nil")}
	}

	return r.renderMarkup(ctx, Job{
		Markup: ToMarkup(draft),
		Title:  draft.Title,
		Author: draft.Author,
	})
}

func (r *Renderer) renderMarkup(ctx context.Context, job Job) (*Artifact, error) {
	if r.engine == nil {
		return nil, &RenderError{Kind: KindEngineUnavailable, Err: errors.New("no engine configured")}
	}

	session, err := r.engine.Acquire(ctx)
	if err != nil {
		return nil, &RenderError{Kind: KindEngineUnavailable, Err: err}
	}
	if session == nil {
		return nil, &RenderError{Kind: KindEngineUnavailable, Err: errors.New("engine returned no session")}
	}
	defer func() {
		if err := session.Close(); err != nil {
			slog.Warn("failed to release render session", "error", err)
		}
	}()

	job.Style = PolicyStyle

	data, err := layout(session, job)
	if err != nil {
		return nil, &RenderError{Kind: KindLayoutFailed, Err: err}
	}

	return &Artifact{
		Format:      FormatFixedLayoutDocument,
		Data:        data,
		ContentType: ContentTypePDF,
	}, nil
}

func layout(session Session, job Job) (data []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			data, err = nil, fmt.Errorf("layout panicked: %v", p)
		}
	}()

	return session.Layout(job)
}
