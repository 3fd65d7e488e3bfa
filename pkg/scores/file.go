package scores

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// FileStore keeps scores in a single JSON file. This is the default backend
// and mirrors how the device stores scores on its internal flash: writes are
// best effort because the medium may be mounted read-only.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Close(ctx context.Context) error {
	return nil
}

func (s *FileStore) Load(ctx context.Context) (map[string]int, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scores file: %v", err)
	}

	scores := make(map[string]int)
	if err := json.Unmarshal(data, &scores); err != nil {
		return nil, fmt.Errorf("failed to parse scores file: %v", err)
	}

	return scores, nil
}

func (s *FileStore) Save(ctx context.Context, scores map[string]int) error {
	data, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %v", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scores file: %v", err)
	}

	return nil
}
