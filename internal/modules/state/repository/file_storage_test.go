package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ivstepanov/copyright-guard-bot/internal/modules/state/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorageLoad(t *testing.T) {
	t.Run("missing-file-returns-empty-state", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		storage, err := NewFileStorage(path)
		require.NoError(t, err)

		state := storage.Load()
		require.NotNil(t, state)
		assert.Empty(t, state.StartedUsers)
		assert.Empty(t, state.GroupIDs)
		assert.NotNil(t, state.GroupAuthorizedUsers)
		assert.NotNil(t, state.GroupSettings)
	})

	t.Run("corrupt-file-returns-empty-state", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

		storage, err := NewFileStorage(path)
		require.NoError(t, err)

		state := storage.Load()
		require.NotNil(t, state)
		assert.Empty(t, state.GroupIDs)
	})

	t.Run("partial-document-gets-normalized", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"group_ids":[-100]}`), 0644))

		storage, err := NewFileStorage(path)
		require.NoError(t, err)

		state := storage.Load()
		assert.Equal(t, []int64{-100}, state.GroupIDs)
		assert.NotNil(t, state.GlobalAuthorizedUsers)
		assert.NotNil(t, state.GroupAuthorizedUsers)
		assert.NotNil(t, state.GroupSettings)
	})
}

func TestFileStorageSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	storage, err := NewFileStorage(path)
	require.NoError(t, err)

	state := domain.NewBotState()
	state.StartedUsers = []int64{1, 2}
	state.GroupIDs = []int64{-100}
	state.GlobalAuthorizedUsers = []int64{42}
	state.GroupAuthorizedUsers[domain.GroupKey(-100)] = []int64{7}
	state.GroupSettings[domain.GroupKey(-100)] = domain.GroupSettings{
		DeleteTimer:    600,
		AutoDelete:     true,
		TextAutoDelete: false,
	}

	require.NoError(t, storage.Save(state))

	loaded := storage.Load()
	assert.Equal(t, state.StartedUsers, loaded.StartedUsers)
	assert.Equal(t, state.GroupIDs, loaded.GroupIDs)
	assert.Equal(t, state.GlobalAuthorizedUsers, loaded.GlobalAuthorizedUsers)
	assert.Equal(t, state.GroupAuthorizedUsers, loaded.GroupAuthorizedUsers)
	assert.Equal(t, state.GroupSettings, loaded.GroupSettings)
}
