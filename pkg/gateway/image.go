package gateway

import (
	"context"
	"mime"
	"net/http"
	"strings"

	"github.com/NethermindEth/genai-gateway/pkg/gateway/backend"
	"github.com/NethermindEth/genai-gateway/pkg/gateway/imaging"
	"github.com/NethermindEth/genai-gateway/pkg/gateway/naming"
	"github.com/NethermindEth/genai-gateway/pkg/gateway/render"
)

const imageInferenceSteps = 20

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// GenerateImage returns the backend's image bytes unchanged. Unknown or empty
// aspect ratio tags fall back to the default dimensions.
func (g *Gateway) GenerateImage(ctx context.Context, prompt string, negativePrompt string, aspectRatio string) (*render.Artifact, error) {
	trace := g.trace(ctx, operationGenerateImage)
	trace.enter(PhaseValidating)

	if strings.TrimSpace(prompt) == "" {
		return nil, trace.fail(newValidationError(KindEmptyPrompt))
	}

	dimensions := imaging.Resolve(aspectRatio)

	trace.enter(PhaseDispatched)
	req := backend.NewImageRequest(g.imageModel, prompt, backend.ImageParameters{
		NegativePrompt:    negativePrompt,
		Width:             dimensions.Width,
		Height:            dimensions.Height,
		NumInferenceSteps: imageInferenceSteps,
	})

	resp, err := g.backend.Call(ctx, req, g.imageTimeout)
	if err != nil {
		return nil, trace.fail(err)
	}

	trace.enter(PhasePassThrough)
	contentType := imageContentType(resp)

	artifact := &render.Artifact{
		Format:            render.FormatImageBytes,
		Data:              resp.Raw,
		ContentType:       contentType,
		SuggestedFilename: naming.ImageBase(prompt, g.clock()) + imageExtension(contentType),
	}

	trace.done()
	return artifact, nil
}

func imageContentType(resp *backend.Response) string {
	if mediaType, _, err := mime.ParseMediaType(resp.ContentType); err == nil && strings.HasPrefix(mediaType, "image/") {
		return mediaType
	}
	return http.DetectContentType(resp.Raw)
}

func imageExtension(contentType string) string {
	if ext, ok := imageExtensions[contentType]; ok {
		return ext
	}
	return ".bin"
}
