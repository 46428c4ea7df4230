package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/genai-gateway/pkg/gateway"
	"github.com/NethermindEth/genai-gateway/pkg/gateway/backend"
	"github.com/NethermindEth/genai-gateway/pkg/gateway/render"
)

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func failing(kind backend.ErrorKind) *mockCaller {
	return &mockCaller{
		call: func(ctx context.Context, req backend.Request) (*backend.Response, error) {
			return nil, &backend.TransportError{Kind: kind, Operation: req.Operation(), StatusCode: http.StatusServiceUnavailable, Err: assert.AnError}
		},
	}
}

func TestGatewayApi_GetRouter(t *testing.T) {
	caller := &mockCaller{
		call: func(ctx context.Context, req backend.Request) (*backend.Response, error) {
			switch req.Operation() {
			case backend.OperationListModels:
				return &backend.Response{Models: []string{"m1", "m2"}}, nil
			case backend.OperationImageGeneration:
				return &backend.Response{ContentType: "image/jpeg", Raw: []byte("jpeg-bytes")}, nil
			}
			return &backend.Response{Reply: "<think>reasoning</think>Hi there"}, nil
		},
	}
	router := setupTestGateway(t, caller).GetRouter()

	t.Run("GET /api/models", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/models", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `["m1","m2"]`, w.Body.String())
		assert.NotEmpty(t, w.Header().Get(gateway.RequestIdHeader))
	})

	t.Run("POST /api/chat", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/api/chat", `{"model":"m1","message":"hello"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"response":"Hi there"}`, w.Body.String())
	})

	t.Run("POST /api/chat keeps request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hello"}`))
		req.Header.Set(gateway.RequestIdHeader, "req-42")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "req-42", w.Header().Get(gateway.RequestIdHeader))
	})

	t.Run("POST /generate-image", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/generate-image", `{"prompt":"a fox","aspect_ratio":"16:9"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
		assert.Equal(t, "jpeg-bytes", w.Body.String())
	})

	t.Run("POST /api/documents", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/api/documents", `{"topic":"Quantum Sensing","author":"A. Lee"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, render.ContentTypePDF, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "Quantum Sensing-by-A. Lee-2026-10-16.pdf")
		assert.Equal(t, "%PDF-test", w.Body.String())
	})
}

func TestGatewayApi_Validation(t *testing.T) {
	caller := replying("unused")
	router := setupTestGateway(t, caller).GetRouter()

	tests := []struct {
		name string
		path string
		body string
	}{
		{"empty message", "/api/chat", `{"model":"m1","message":""}`},
		{"missing message", "/api/chat", `{"model":"m1"}`},
		{"empty prompt", "/generate-image", `{"prompt":""}`},
		{"empty topic", "/api/documents", `{"topic":"","author":"A"}`},
		{"malformed body", "/api/chat", `{"message":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, http.MethodPost, tt.path, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
		})
	}

	assert.Equal(t, 0, caller.calls())
}

func TestGatewayApi_TransportErrors(t *testing.T) {
	tests := []struct {
		kind       backend.ErrorKind
		wantStatus int
	}{
		{backend.KindTimeout, http.StatusGatewayTimeout},
		{backend.KindUnreachable, http.StatusBadGateway},
		{backend.KindBackendRejected, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			router := setupTestGateway(t, failing(tt.kind)).GetRouter()

			w := serve(router, http.MethodPost, "/api/chat", `{"model":"m1","message":"hello"}`)
			assert.Equal(t, tt.wantStatus, w.Code)

			w = serve(router, http.MethodGet, "/api/models", "")
			assert.Equal(t, tt.wantStatus, w.Code)

			var body struct {
				Error  string   `json:"error"`
				Models []string `json:"models"`
			}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
			assert.NotNil(t, body.Models)
			assert.Empty(t, body.Models)

			w = serve(router, http.MethodPost, "/generate-image", `{"prompt":"a fox"}`)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), "Failed to generate image")
		})
	}
}

func TestGatewayApi_ChatEmptyReply(t *testing.T) {
	router := setupTestGateway(t, replying("<think>only reasoning</think>")).GetRouter()

	w := serve(router, http.MethodPost, "/api/chat", `{"model":"m1","message":"hello"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Contains(t, body["error"], gateway.ErrEmptyReply.Error())
}

func TestGatewayApi_DocumentRenderFailure(t *testing.T) {
	router := setupTestGateway(t, replying("# T\n\nBody"), func(config *gateway.Config) {
		config.Renderer = render.NewRenderer(nil)
	}).GetRouter()

	w := serve(router, http.MethodPost, "/api/documents", `{"topic":"T","author":"A"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "T-by-A-2026-10-16.md", body["filename"])
	assert.Contains(t, body["markdown"], "**Author:** A")
	assert.Contains(t, body["error"], "render engine unavailable")
}

func TestGatewayApi_StaticDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>chat</html>"), 0o600))

	router := setupTestGateway(t, replying(""), func(config *gateway.Config) {
		config.StaticDir = dir
	}).GetRouter()

	w := serve(router, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "chat")
}

func TestGateway_StartServerWithoutAddress(t *testing.T) {
	g := setupTestGateway(t, replying(""))
	assert.NoError(t, g.StartServer(context.Background()))
}
