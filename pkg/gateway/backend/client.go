package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Caller is the contract the gateway depends on.
type Caller interface {
	Call(ctx context.Context, req Request, timeout time.Duration) (*Response, error)
}

type Config struct {
	// BaseURL of the OpenAI-compatible backend, e.g. http://localhost:1234/v1.
	BaseURL string
	APIKey  string

	// ImageBaseURL is joined with the model id for image generation.
	ImageBaseURL string
	ImageAPIKey  string

	// Transport overrides http.DefaultTransport.
	Transport http.RoundTripper
}

type Client struct {
	baseURL      string
	apiKey       string
	imageBaseURL string
	imageAPIKey  string
	transport    http.RoundTripper
}

var _ Caller = (*Client)(nil)

func NewClient(config Config) *Client {
	return &Client{
		baseURL:      strings.TrimRight(strings.TrimSpace(config.BaseURL), "/"),
		apiKey:       config.APIKey,
		imageBaseURL: strings.TrimRight(strings.TrimSpace(config.ImageBaseURL), "/"),
		imageAPIKey:  config.ImageAPIKey,
		transport:    config.Transport,
	}
}

// Call issues exactly one HTTP request for req and waits at most timeout for it.
// Failures are returned as *TransportError.
func (c *Client) Call(ctx context.Context, req Request, timeout time.Duration) (*Response, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	recorder := newRecordingTransport(c.transport)
	httpClient := &http.Client{Transport: recorder}

	var (
		resp *Response
		err  error
	)

	switch req.Operation() {
	case OperationListModels:
		resp, err = c.listModels(ctx, httpClient)
	case OperationChatCompletion:
		resp, err = c.chatCompletion(ctx, httpClient, req)
	case OperationImageGeneration:
		resp, err = c.generateImage(ctx, httpClient, req)
	default:
		return nil, fmt.Errorf("unknown backend operation %q", req.Operation())
	}

	if err != nil {
		return nil, classify(ctx, req.Operation(), recorder.recorded, err)
	}

	resp.Operation = req.Operation()
	if recorder.recorded != nil {
		resp.StatusCode = recorder.recorded.statusCode
		resp.ContentType = recorder.recorded.contentType
		resp.Raw = recorder.recorded.body
	}

	return resp, nil
}

func (c *Client) openAiClient(httpClient *http.Client) *openai.Client {
	config := openai.DefaultConfig(c.apiKey)
	config.BaseURL = c.baseURL
	config.HTTPClient = httpClient

	return openai.NewClientWithConfig(config)
}

func (c *Client) listModels(ctx context.Context, httpClient *http.Client) (*Response, error) {
	list, err := c.openAiClient(httpClient).ListModels(ctx)
	if err != nil {
		return nil, err
	}

	models := make([]string, 0, len(list.Models))
	for _, model := range list.Models {
		models = append(models, model.ID)
	}

	return &Response{Models: models}, nil
}

func (c *Client) chatCompletion(ctx context.Context, httpClient *http.Client, req Request) (*Response, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.messages))
	for _, message := range req.messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    message.Role,
			Content: message.Content,
		})
	}

	completion, err := c.openAiClient(httpClient).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.modelID,
		Messages:    messages,
		MaxTokens:   req.chatOptions.MaxTokens,
		Temperature: req.chatOptions.Temperature,
	})
	if err != nil {
		return nil, err
	}

	if len(completion.Choices) == 0 {
		return nil, errors.New("no choices in response")
	}

	return &Response{Reply: completion.Choices[0].Message.Content}, nil
}

func (c *Client) generateImage(ctx context.Context, httpClient *http.Client, req Request) (*Response, error) {
	body, err := json.Marshal(req.image)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal image request: %w", err)
	}

	url := c.imageBaseURL + "/" + strings.TrimLeft(req.modelID, "/")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.imageAPIKey)

	res, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := res.Body.Close(); closeErr != nil {
			slog.Warn("failed to close response body", "error", closeErr, "url", url)
		}
	}()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("non-2xx status %d", res.StatusCode)
	}

	if len(data) == 0 {
		return nil, errors.New("empty image response")
	}

	return &Response{}, nil
}

// classify maps a failed call onto the transport error taxonomy. A recorded
// non-2xx status always wins; a recorded 2xx status means the body could not
// be decoded, which is reported as a rejection carrying that body.
func classify(ctx context.Context, op Operation, recorded *exchange, err error) error {
	if recorded != nil && recorded.failed() {
		return &TransportError{
			Kind:       KindBackendRejected,
			Operation:  op,
			StatusCode: recorded.statusCode,
			RawBody:    recorded.body,
			Err:        err,
		}
	}

	if isTimeout(ctx, err) {
		return &TransportError{Kind: KindTimeout, Operation: op, Err: err}
	}

	if recorded != nil {
		return &TransportError{
			Kind:       KindBackendRejected,
			Operation:  op,
			StatusCode: recorded.statusCode,
			RawBody:    recorded.body,
			Err:        fmt.Errorf("malformed response: %w", err),
		}
	}

	return &TransportError{Kind: KindUnreachable, Operation: op, Err: err}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
