package publish

import (
	"context"
	"errors"
	"fmt"

	"github.com/NethermindEth/genai-gateway/pkg/gateway/filestorage"
)

// DocumentRecord is the metadata pinned for a generated document.
type DocumentRecord struct {
	Name     string `json:"name"`
	Author   string `json:"author"`
	Date     string `json:"date"`
	Markdown string `json:"markdown"`
}

type DocumentPublisher struct {
	uploader filestorage.Uploader
}

func NewDocumentPublisher(uploader filestorage.Uploader) *DocumentPublisher {
	return &DocumentPublisher{
		uploader: uploader,
	}
}

// Publish pins record and returns its IPFS hash.
func (p *DocumentPublisher) Publish(ctx context.Context, record DocumentRecord) (string, error) {
	if record.Name == "" {
		return "", errors.New("record name is required")
	}
	if record.Markdown == "" {
		return "", errors.New("record markdown is required")
	}

	ipfsHash, err := p.uploader.UploadJson(ctx, record)
	if err != nil {
		return "", fmt.Errorf("failed to publish document %s: %w", record.Name, err)
	}

	return ipfsHash, nil
}
