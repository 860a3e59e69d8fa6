package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ivstepanov/copyright-guard-bot/internal/modules/audit/domain"
	"github.com/samber/oops"
)

// FileStorage implements Repository using the file system, one JSON file per
// event under a per-group directory.
type FileStorage struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStorage creates a new file-based audit repository.
func NewFileStorage(basePath string) (Repository, error) {
	eventsPath := filepath.Join(basePath, "events")
	if err := os.MkdirAll(eventsPath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create events directory").Wrap(err)
	}

	return &FileStorage{basePath: eventsPath}, nil
}

func (s *FileStorage) SaveEvent(event *domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Join(s.basePath, fmt.Sprintf("%d", event.ChatID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return oops.With("chat_id", event.ChatID, "context", "failed to create group events directory").Wrap(err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%d.json", event.MessageID))
	data, err := json.MarshalIndent(event, "", "  ")
	if err != nil {
		return oops.With("chat_id", event.ChatID, "message_id", event.MessageID, "context", "failed to marshal event").Wrap(err)
	}

	return os.WriteFile(path, data, 0644)
}

func (s *FileStorage) RecentEvents(chatID int64, limit int) ([]*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dir := filepath.Join(s.basePath, fmt.Sprintf("%d", chatID))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.Event{}, nil
		}
		return nil, oops.With("chat_id", chatID, "context", "failed to read events directory").Wrap(err)
	}

	var events []*domain.Event
	count := 0
	for i := len(entries) - 1; i >= 0 && count < limit; i-- {
		entry := entries[i]
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var event domain.Event
		if err := json.Unmarshal(data, &event); err != nil {
			continue
		}

		events = append(events, &event)
		count++
	}

	return events, nil
}
