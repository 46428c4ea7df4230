package render_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/genai-gateway/pkg/gateway/render"
)

type mockEngine struct {
	mu       sync.Mutex
	acquired int
	released int
	jobs     []render.Job

	acquireErr error
	layout     func(job render.Job) ([]byte, error)
}

func (m *mockEngine) Acquire(ctx context.Context) (render.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.acquireErr != nil {
		return nil, m.acquireErr
	}
	m.acquired++
	return &mockSession{engine: m}, nil
}

type mockSession struct {
	engine *mockEngine
}

func (s *mockSession) Layout(job render.Job) ([]byte, error) {
	s.engine.mu.Lock()
	s.engine.jobs = append(s.engine.jobs, job)
	s.engine.mu.Unlock()

	return s.engine.layout(job)
}

func (s *mockSession) Close() error {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	s.engine.released++
	return nil
}

func testDraft(t *testing.T) *render.Draft {
	t.Helper()

	draft := render.ParseDraft("# Title\n\nBody\n\n| A | B |\n| --- | --- |\n| 1 | 2 |")
	require.NoError(t, draft.InjectHeader("Author", "2026-10-16"))
	return draft
}

func TestRenderer_Render(t *testing.T) {
	engine := &mockEngine{
		layout: func(job render.Job) ([]byte, error) {
			return []byte("%PDF-fake"), nil
		},
	}

	artifact, err := render.NewRenderer(engine).Render(context.Background(), testDraft(t))
	require.NoError(t, err)

	assert.Equal(t, render.FormatFixedLayoutDocument, artifact.Format)
	assert.Equal(t, render.ContentTypePDF, artifact.ContentType)
	assert.Equal(t, []byte("%PDF-fake"), artifact.Data)

	assert.Equal(t, 1, engine.acquired)
	assert.Equal(t, 1, engine.released)

	require.Len(t, engine.jobs, 1)
	assert.Equal(t, render.PolicyStyle, engine.jobs[0].Style)
	assert.Equal(t, 0.5, engine.jobs[0].Style.MarginInches)
	assert.Equal(t, "Title", engine.jobs[0].Title)
	assert.Equal(t, "Author", engine.jobs[0].Author)
	assert.Contains(t, engine.jobs[0].Markup, "**Author:** Author")
}

func TestRenderer_LayoutFailureReleasesSession(t *testing.T) {
	engine := &mockEngine{
		layout: func(job render.Job) ([]byte, error) {
			return nil, errors.New("bad markup")
		},
	}

	artifact, err := render.NewRenderer(engine).Render(context.Background(), testDraft(t))
	assert.Nil(t, artifact)
	assert.ErrorIs(t, err, render.ErrLayoutFailed)
	assert.NotErrorIs(t, err, render.ErrEngineUnavailable)
	assert.Contains(t, err.Error(), "bad markup")

	assert.Equal(t, 1, engine.acquired)
	assert.Equal(t, 1, engine.released)
}

func TestRenderer_LayoutPanicReleasesSession(t *testing.T) {
	engine := &mockEngine{
		layout: func(job render.Job) ([]byte, error) {
			panic("layout exploded")
		},
	}

	var err error
	assert.NotPanics(t, func() {
		_, err = render.NewRenderer(engine).Render(context.Background(), testDraft(t))
	})

	assert.ErrorIs(t, err, render.ErrLayoutFailed)
	assert.Equal(t, 1, engine.acquired)
	assert.Equal(t, 1, engine.released)
}

func TestRenderer_EngineUnavailable(t *testing.T) {
	engine := &mockEngine{acquireErr: errors.New("no browser")}

	_, err := render.NewRenderer(engine).Render(context.Background(), testDraft(t))
	assert.ErrorIs(t, err, render.ErrEngineUnavailable)

	var renderErr *render.RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, render.KindEngineUnavailable, renderErr.Kind)
	assert.Equal(t, 0, engine.released)

	_, err = render.NewRenderer(nil).Render(context.Background(), testDraft(t))
	assert.ErrorIs(t, err, render.ErrEngineUnavailable)
}

func TestRenderer_SessionPerRender(t *testing.T) {
	engine := &mockEngine{
		layout: func(job render.Job) ([]byte, error) {
			return []byte("ok"), nil
		},
	}
	renderer := render.NewRenderer(engine)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := renderer.Render(context.Background(), testDraft(t))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, engine.acquired)
	assert.Equal(t, 8, engine.released)
}

func TestPDFEngine_Render(t *testing.T) {
	markdown := "# Quantum Sensing: an overview\n\n" +
		"Intro with **bold**, *italic*, `code` and a [link](https://example.com).\n\n" +
		"## Results\n\n" +
		"| Variable | Description | Observed effect |\n" +
		"| --- | --- | --- |\n" +
		"| VarA | A rather long description that has to wrap inside its narrow column | Increase |\n" +
		"| VarB | Short | Decrease |\n\n" +
		"- first\n- second\n  1. nested\n  2. items\n\n" +
		"> quoted text\n\n" +
		"```go\nfmt.Println(\"hi\")\n```\n\n" +
		"---\n\n" +
		"Unicode outside cp1252: 日本語 ✓\n"

	draft := render.ParseDraft(markdown)
	require.NoError(t, draft.InjectHeader("A. Lee", "2026-10-16"))

	artifact, err := render.NewRenderer(render.NewPDFEngine("")).Render(context.Background(), draft)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(artifact.Data, []byte("%PDF-")))
	assert.Equal(t, render.ContentTypePDF, artifact.ContentType)
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))
	return &buf
}

func TestPDFEngine_WarnsOnCharactersOutsideBuiltinFont(t *testing.T) {
	logs := captureLogs(t)

	draft := render.ParseDraft("# Τίτλος 量子\n\nΣώμα κειμένου.\n")
	require.NoError(t, draft.InjectHeader("A. Lee", "2026-10-16"))

	artifact, err := render.NewRenderer(render.NewPDFEngine("")).Render(context.Background(), draft)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(artifact.Data, []byte("%PDF-")))

	assert.Contains(t, logs.String(), "built-in font cannot show")
	assert.Contains(t, logs.String(), "char=Τ")
}

func TestPDFEngine_NoWarningForLatinText(t *testing.T) {
	logs := captureLogs(t)

	_, err := render.NewRenderer(render.NewPDFEngine("")).Render(context.Background(), render.ParseDraft("# Café crème\n\nNaïve résumé.\n"))
	require.NoError(t, err)
	assert.NotContains(t, logs.String(), "built-in font cannot show")
}

func TestPDFEngine_MissingFontIsUnavailable(t *testing.T) {
	engine := render.NewPDFEngine(filepath.Join(t.TempDir(), "missing.ttf"))

	_, err := render.NewRenderer(engine).Render(context.Background(), testDraft(t))
	assert.ErrorIs(t, err, render.ErrEngineUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPDFEngine_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := render.NewRenderer(render.NewPDFEngine("")).Render(ctx, testDraft(t))
	assert.ErrorIs(t, err, render.ErrEngineUnavailable)
}

func TestPDFEngine_SessionIsSingleUse(t *testing.T) {
	session, err := render.NewPDFEngine("").Acquire(context.Background())
	require.NoError(t, err)

	require.NoError(t, session.Close())
	assert.Error(t, session.Close())

	_, err = session.Layout(render.Job{Markup: "# x", Style: render.PolicyStyle})
	assert.Error(t, err)
}
