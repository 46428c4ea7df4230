package backend

type Operation string

const (
	OperationListModels      Operation = "listModels"
	OperationChatCompletion  Operation = "chatCompletion"
	OperationImageGeneration Operation = "imageGeneration"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatOptions struct {
	MaxTokens   int
	Temperature float32
}

type ImageParameters struct {
	NegativePrompt    string `json:"negative_prompt"`
	Width             int    `json:"width"`
	Height            int    `json:"height"`
	NumInferenceSteps int    `json:"num_inference_steps"`
}

type imagePayload struct {
	Inputs     string          `json:"inputs"`
	Parameters ImageParameters `json:"parameters"`
}

// Request describes one backend call. It names exactly one operation and is
// not modified after construction.
type Request struct {
	operation Operation
	modelID   string

	messages    []ChatMessage
	chatOptions ChatOptions
	image       imagePayload
}

func NewListModelsRequest() Request {
	return Request{operation: OperationListModels}
}

func NewChatRequest(modelID string, messages []ChatMessage, options ChatOptions) Request {
	return Request{
		operation:   OperationChatCompletion,
		modelID:     modelID,
		messages:    append([]ChatMessage(nil), messages...),
		chatOptions: options,
	}
}

func NewImageRequest(modelID string, prompt string, params ImageParameters) Request {
	return Request{
		operation: OperationImageGeneration,
		modelID:   modelID,
		image: imagePayload{
			Inputs:     prompt,
			Parameters: params,
		},
	}
}

func (r Request) Operation() Operation {
	return r.operation
}

func (r Request) ModelID() string {
	return r.modelID
}

func (r Request) Messages() []ChatMessage {
	return append([]ChatMessage(nil), r.messages...)
}

func (r Request) ChatOptions() ChatOptions {
	return r.chatOptions
}

func (r Request) Prompt() string {
	return r.image.Inputs
}

func (r Request) ImageParameters() ImageParameters {
	return r.image.Parameters
}

// Response is the outcome of a successful call. Models is set for listings,
// Reply for chat completions; Raw always holds the undecoded body.
type Response struct {
	Operation   Operation
	StatusCode  int
	ContentType string
	Raw         []byte

	Models []string
	Reply  string
}

func (r *Response) Succeeded() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}
