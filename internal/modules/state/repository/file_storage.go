package repository

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/ivstepanov/copyright-guard-bot/internal/modules/state/domain"
	"github.com/samber/oops"
)

// FileStorage implements Repository on a single JSON document. Writes are
// serialized through an in-process mutex; there is no cross-process locking,
// the last full-document write wins.
type FileStorage struct {
	path string
	mu   sync.Mutex
}

// NewFileStorage creates a file-based state repository.
func NewFileStorage(path string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, oops.With("path", path, "context", "failed to create state directory").Wrap(err)
	}

	return &FileStorage{path: path}, nil
}

func (s *FileStorage) Load() *domain.BotState {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("State file does not exist, starting with empty state", "path", s.path)
		} else {
			slog.Error("Failed to read state file, starting with empty state", "path", s.path, "error", err)
		}
		return domain.NewBotState()
	}

	if len(data) == 0 {
		slog.Info("State file is empty, starting with empty state", "path", s.path)
		return domain.NewBotState()
	}

	var state domain.BotState
	if err := json.Unmarshal(data, &state); err != nil {
		slog.Error("Failed to decode state file, starting with empty state", "path", s.path, "error", err)
		return domain.NewBotState()
	}

	state.Normalize()
	return &state
}

func (s *FileStorage) Save(state *domain.BotState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return oops.With("path", s.path, "context", "failed to marshal state").Wrap(err)
	}

	return os.WriteFile(s.path, data, 0644)
}
