package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/NethermindEth/genai-gateway/pkg/gateway/backend"
)

const (
	RequestIdHeader = "X-Request-ID"

	requestIdKey      = "requestId"
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type chatRequest struct {
	Model   string `json:"model"`
	Message string `json:"message"`
}

type imageRequest struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt"`
	AspectRatio    string `json:"aspect_ratio"`
}

type documentRequest struct {
	Topic  string `json:"topic"`
	Author string `json:"author"`
}

func (g *Gateway) generateRouter() *gin.Engine {
	router := gin.Default()
	router.Use(requestId())

	api := router.Group("/api")

	api.GET("/models", func(c *gin.Context) {
		models, err := g.ListModels(c.Request.Context())
		if err != nil {
			slog.Error("failed to list models", "requestId", c.GetString(requestIdKey), "error", err)
			c.JSON(statusForError(err), gin.H{"error": err.Error(), "models": models})
			return
		}

		c.JSON(http.StatusOK, models)
	})

	api.POST("/chat", func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		reply, err := g.Chat(c.Request.Context(), req.Model, req.Message)
		if err != nil {
			slog.Error("failed to chat", "requestId", c.GetString(requestIdKey), "model", req.Model, "error", err)
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"response": reply})
	})

	api.POST("/documents", func(c *gin.Context) {
		var req documentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		result, err := g.GenerateDocument(c.Request.Context(), req.Topic, req.Author)
		if err != nil {
			slog.Error("failed to generate document", "requestId", c.GetString(requestIdKey), "topic", req.Topic, "error", err)

			body := gin.H{"error": err.Error()}
			if result != nil && result.Markup != nil {
				body["filename"] = result.Markup.SuggestedFilename
				body["markdown"] = string(result.Markup.Data)
			}
			c.JSON(statusForError(err), body)
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Document.SuggestedFilename))
		c.Data(http.StatusOK, result.Document.ContentType, result.Document.Data)
	})

	router.POST("/generate-image", func(c *gin.Context) {
		var req imageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		artifact, err := g.GenerateImage(c.Request.Context(), req.Prompt, req.NegativePrompt, req.AspectRatio)
		if err != nil {
			slog.Error("failed to generate image", "requestId", c.GetString(requestIdKey), "error", err)
			c.JSON(statusForError(err), gin.H{"error": "Failed to generate image", "details": err.Error()})
			return
		}

		c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
	})

	if g.staticDir != "" {
		router.NoRoute(gin.WrapH(http.FileServer(http.Dir(g.staticDir))))
	}

	return router
}

func (g *Gateway) GetRouter() *gin.Engine {
	return g.apiRouter
}

// StartServer serves the router on the configured address until ctx is done.
func (g *Gateway) StartServer(ctx context.Context) error {
	if g.apiIpPort == "" {
		slog.Info("api ip port is empty, skipping server")
		return nil
	}

	slog.Info("starting server", "port", g.apiIpPort, "chatModel", g.chatModel, "imageModel", g.imageModel)

	server := &http.Server{
		Addr:              g.apiIpPort,
		Handler:           g.apiRouter,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
		return nil
	})

	return group.Wait()
}

func requestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIdHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(requestIdKey, id)
		c.Header(RequestIdHeader, id)
		c.Next()
	}
}

func statusForError(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, backend.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, backend.ErrUnreachable),
		errors.Is(err, backend.ErrBackendRejected),
		errors.Is(err, ErrEmptyReply):
		return http.StatusBadGateway
	}

	// render failures and anything unexpected
	return http.StatusInternalServerError
}
