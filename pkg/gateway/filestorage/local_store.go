package filestorage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/NethermindEth/genai-gateway/pkg/gateway/naming"
	"github.com/NethermindEth/genai-gateway/pkg/gateway/render"
)

// LocalStore writes artifacts into a directory without overwriting existing
// files. Saves are serialized so concurrent callers never pick the same name.
type LocalStore struct {
	dir string
	mu  sync.Mutex
}

func NewLocalStore(dir string) *LocalStore {
	if dir == "" {
		dir = "."
	}
	return &LocalStore{dir: dir}
}

func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes artifacts under a shared base name, adding a numeric suffix when
// any sibling already exists. Nil artifacts are skipped. The written paths are
// returned in argument order.
func (s *LocalStore) Save(base string, artifacts ...*render.Artifact) ([]string, error) {
	if base == "" {
		return nil, errors.New("base name is empty")
	}

	var exts []string
	for _, artifact := range artifacts {
		if artifact != nil {
			exts = append(exts, filepath.Ext(artifact.SuggestedFilename))
		}
	}
	if len(exts) == 0 {
		return nil, errors.New("nothing to save")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	free, err := naming.UniqueBase(s.dir, base, exts...)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(exts))
	for _, artifact := range artifacts {
		if artifact == nil {
			continue
		}

		path := filepath.Join(s.dir, free+filepath.Ext(artifact.SuggestedFilename))
		if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}
