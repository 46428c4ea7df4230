package gateway

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/NethermindEth/genai-gateway/pkg/gateway/backend"
	"github.com/NethermindEth/genai-gateway/pkg/gateway/render"
	"github.com/NethermindEth/genai-gateway/pkg/gateway/sanitize"
	"github.com/NethermindEth/genai-gateway/pkg/gateway/setup"
)

const (
	DefaultListTimeout     = 5 * time.Second
	DefaultChatTimeout     = 30 * time.Second
	DefaultDocumentTimeout = 2 * time.Minute
	DefaultImageTimeout    = 2 * time.Minute

	modelsCacheKey = "models"
)

const (
	operationListModels       = "listModels"
	operationChat             = "chat"
	operationGenerateDocument = "generateDocument"
	operationGenerateImage    = "generateImage"
)

// Gateway dispatches collaborator requests to one backend. It keeps no state
// between calls apart from the optional model listing cache.
type Gateway struct {
	backend  backend.Caller
	renderer *render.Renderer
	clock    func() time.Time
	observer PhaseObserver

	chatModel  string
	imageModel string

	listTimeout     time.Duration
	chatTimeout     time.Duration
	documentTimeout time.Duration
	imageTimeout    time.Duration

	modelsCache *expirable.LRU[string, []string]

	apiIpPort string
	staticDir string
	apiRouter *gin.Engine
}

type Config struct {
	Backend  backend.Caller
	Renderer *render.Renderer
	Clock    func() time.Time
	Observer PhaseObserver

	ChatModel  string
	ImageModel string

	ListTimeout     time.Duration
	ChatTimeout     time.Duration
	DocumentTimeout time.Duration
	ImageTimeout    time.Duration

	// ModelsCacheTTL enables caching of successful model listings when positive.
	ModelsCacheTTL time.Duration

	ApiIpPort string
	StaticDir string
}

func NewGateway(config *Config) (*Gateway, error) {
	if config == nil {
		return nil, errors.New("config is nil")
	}
	if config.Backend == nil {
		return nil, errors.New("backend is required")
	}

	g := &Gateway{
		backend:  config.Backend,
		renderer: config.Renderer,
		clock:    config.Clock,
		observer: config.Observer,

		chatModel:  config.ChatModel,
		imageModel: config.ImageModel,

		listTimeout:     withDefault(config.ListTimeout, DefaultListTimeout),
		chatTimeout:     withDefault(config.ChatTimeout, DefaultChatTimeout),
		documentTimeout: withDefault(config.DocumentTimeout, DefaultDocumentTimeout),
		imageTimeout:    withDefault(config.ImageTimeout, DefaultImageTimeout),

		apiIpPort: config.ApiIpPort,
		staticDir: config.StaticDir,
	}

	if g.renderer == nil {
		g.renderer = render.NewRenderer(render.NewPDFEngine(""))
	}
	if g.clock == nil {
		g.clock = time.Now
	}
	if config.ModelsCacheTTL > 0 {
		g.modelsCache = expirable.NewLRU[string, []string](1, nil, config.ModelsCacheTTL)
	}

	g.apiRouter = g.generateRouter()

	return g, nil
}

func NewConfigFromSetupResult(setupResult *setup.SetupResult) (*Config, error) {
	if setupResult == nil {
		return nil, errors.New("setup result is nil")
	}

	return &Config{
		Backend: backend.NewClient(backend.Config{
			BaseURL:      setupResult.LlmBaseUrl,
			APIKey:       setupResult.LlmApiKey,
			ImageBaseURL: setupResult.ImageBaseUrl,
			ImageAPIKey:  setupResult.HfApiKey,
		}),
		Renderer: render.NewRenderer(render.NewPDFEngine(setupResult.PdfFontPath)),
		Clock:    time.Now,

		ChatModel:  setupResult.LlmModel,
		ImageModel: setupResult.ImageModel,

		ListTimeout:     setupResult.ListTimeout,
		ChatTimeout:     setupResult.ChatTimeout,
		DocumentTimeout: setupResult.DocumentTimeout,
		ImageTimeout:    setupResult.ImageTimeout,
		ModelsCacheTTL:  setupResult.ModelsCacheTTL,

		ApiIpPort: setupResult.ApiIpPort,
		StaticDir: setupResult.StaticDir,
	}, nil
}

// ListModels returns the backend's model ids. On failure the slice is empty,
// never nil.
func (g *Gateway) ListModels(ctx context.Context) ([]string, error) {
	trace := g.trace(ctx, operationListModels)
	trace.enter(PhaseValidating)

	if g.modelsCache != nil {
		if models, ok := g.modelsCache.Get(modelsCacheKey); ok {
			trace.enter(PhasePassThrough)
			trace.done()
			return append([]string{}, models...), nil
		}
	}

	trace.enter(PhaseDispatched)
	resp, err := g.backend.Call(ctx, backend.NewListModelsRequest(), g.listTimeout)
	if err != nil {
		return []string{}, trace.fail(err)
	}

	trace.enter(PhasePassThrough)
	models := append([]string{}, resp.Models...)
	if g.modelsCache != nil {
		g.modelsCache.Add(modelsCacheKey, append([]string{}, models...))
	}

	trace.done()
	return models, nil
}

// Chat sends one user turn and returns the reply without reasoning spans. An
// empty modelID falls back to the configured chat model.
func (g *Gateway) Chat(ctx context.Context, modelID string, userText string) (string, error) {
	trace := g.trace(ctx, operationChat)
	trace.enter(PhaseValidating)

	if strings.TrimSpace(userText) == "" {
		return "", trace.fail(newValidationError(KindEmptyMessage))
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = g.chatModel
	}

	trace.enter(PhaseDispatched)
	req := backend.NewChatRequest(modelID, []backend.ChatMessage{
		{Role: backend.RoleUser, Content: userText},
	}, backend.ChatOptions{})

	resp, err := g.backend.Call(ctx, req, g.chatTimeout)
	if err != nil {
		return "", trace.fail(err)
	}

	trace.enter(PhaseSanitizing)
	reply := sanitize.ChatText(resp.Reply)
	if reply == "" {
		return "", trace.fail(ErrEmptyReply)
	}
	if sanitize.ContainsReasoning(reply) {
		slog.Debug("reply keeps unmatched reasoning markers", "model", modelID)
	}

	trace.done()
	return reply, nil
}

func (g *Gateway) ChatModel() string {
	return g.chatModel
}

func withDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
