package filestorage

import "context"

// Uploader pins JSON documents to remote storage and returns their content hash.
type Uploader interface {
	UploadJson(ctx context.Context, json interface{}) (string, error)
}
