package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ivstepanov/copyright-guard-bot/internal/modules/moderation/domain"
	stateDomain "github.com/ivstepanov/copyright-guard-bot/internal/modules/state/domain"
	stateService "github.com/ivstepanov/copyright-guard-bot/internal/modules/state/service"
	"github.com/ivstepanov/copyright-guard-bot/internal/shared/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testChatID = int64(-1001)
	testUserID = int64(7)
)

type memoryStateRepo struct {
	state *stateDomain.BotState
}

func (r *memoryStateRepo) Load() *stateDomain.BotState {
	if r.state == nil {
		r.state = stateDomain.NewBotState()
	}
	return r.state
}

func (r *memoryStateRepo) Save(state *stateDomain.BotState) error {
	r.state = state
	return nil
}

type recordingMessenger struct {
	mu        sync.Mutex
	sent      []string
	deleted   []int
	deleteErr error
}

func (m *recordingMessenger) SendMessage(ctx context.Context, chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, text)
	return nil
}

func (m *recordingMessenger) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, messageID)
	return nil
}

func (m *recordingMessenger) deletedIDs() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.deleted...)
}

func (m *recordingMessenger) sentTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

// capturedTimer records scheduled callbacks so tests fire them by hand.
type capturedTimer struct {
	mu        sync.Mutex
	delays    []time.Duration
	callbacks []func()
}

func (c *capturedTimer) newTimer(d time.Duration, f func()) *time.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delays = append(c.delays, d)
	c.callbacks = append(c.callbacks, f)
	return time.NewTimer(time.Hour)
}

func (c *capturedTimer) fireAll() {
	c.mu.Lock()
	callbacks := c.callbacks
	c.callbacks = nil
	c.mu.Unlock()
	for _, f := range callbacks {
		f()
	}
}

func newTestSetup(t *testing.T) (*Service, *stateService.Service, *recordingMessenger, *capturedTimer) {
	t.Helper()

	cfg := &config.Config{OwnerID: 99, DefaultDeleteTimer: 1800}
	states := stateService.New(cfg, &memoryStateRepo{})

	svc := New(states, nil)
	messenger := &recordingMessenger{}
	svc.SetMessenger(messenger)
	timers := &capturedTimer{}
	svc.newTimer = timers.newTimer

	return svc, states, messenger, timers
}

func message(kind domain.MediaType, messageID int) *domain.IncomingMessage {
	return &domain.IncomingMessage{
		ChatID:    testChatID,
		MessageID: messageID,
		UserID:    testUserID,
		UserName:  "alice",
		Kind:      kind,
	}
}

func TestOnNewMessage(t *testing.T) {
	t.Run("schedules-delete-after-group-delay", func(t *testing.T) {
		svc, states, messenger, timers := newTestSetup(t)
		require.NoError(t, states.SetDeleteTimer(testChatID, 1))

		svc.OnNewMessage(context.Background(), message(domain.MediaTypeText, 5))
		require.Equal(t, 1, svc.PendingCount())
		require.Len(t, timers.delays, 1)
		assert.Equal(t, 60*time.Second, timers.delays[0])

		timers.fireAll()
		assert.Equal(t, []int{5}, messenger.deletedIDs())
		assert.Equal(t, 0, svc.PendingCount())
	})

	t.Run("exempt-user-is-skipped", func(t *testing.T) {
		svc, states, _, timers := newTestSetup(t)
		_, err := states.Authorize(context.Background(), nil, 99, testUserID, testChatID)
		require.NoError(t, err)

		svc.OnNewMessage(context.Background(), message(domain.MediaTypePhoto, 5))
		assert.Equal(t, 0, svc.PendingCount())
		assert.Empty(t, timers.delays)
	})

	t.Run("auto-delete-off-skips-everything", func(t *testing.T) {
		svc, states, _, _ := newTestSetup(t)
		states.SetAutoDelete(testChatID, false)

		svc.OnNewMessage(context.Background(), message(domain.MediaTypePhoto, 5))
		svc.OnNewMessage(context.Background(), message(domain.MediaTypeText, 6))
		assert.Equal(t, 0, svc.PendingCount())
	})

	t.Run("text-gate-off-spares-text-but-not-media", func(t *testing.T) {
		svc, states, _, _ := newTestSetup(t)
		states.SetTextAutoDelete(testChatID, false)

		svc.OnNewMessage(context.Background(), message(domain.MediaTypeText, 5))
		svc.OnNewMessage(context.Background(), message(domain.MediaTypeSticker, 6))
		assert.Equal(t, 0, svc.PendingCount(), "stickers follow the text gate")

		svc.OnNewMessage(context.Background(), message(domain.MediaTypePhoto, 7))
		svc.OnNewMessage(context.Background(), message(domain.MediaTypeVideo, 8))
		svc.OnNewMessage(context.Background(), message(domain.MediaTypeDocument, 9))
		assert.Equal(t, 3, svc.PendingCount())
	})

	t.Run("missing-identifiers-are-dropped", func(t *testing.T) {
		svc, _, _, _ := newTestSetup(t)

		svc.OnNewMessage(context.Background(), nil)
		svc.OnNewMessage(context.Background(), &domain.IncomingMessage{ChatID: testChatID})
		svc.OnNewMessage(context.Background(), &domain.IncomingMessage{ChatID: testChatID, MessageID: 5})
		assert.Equal(t, 0, svc.PendingCount())
	})

	t.Run("duplicate-message-keeps-first-timer", func(t *testing.T) {
		svc, _, _, timers := newTestSetup(t)

		svc.OnNewMessage(context.Background(), message(domain.MediaTypePhoto, 5))
		svc.OnNewMessage(context.Background(), message(domain.MediaTypePhoto, 5))
		assert.Equal(t, 1, svc.PendingCount())
		assert.Len(t, timers.delays, 1)
	})

	t.Run("delete-failure-is-swallowed", func(t *testing.T) {
		svc, _, messenger, timers := newTestSetup(t)
		messenger.deleteErr = errors.New("message to delete not found")

		svc.OnNewMessage(context.Background(), message(domain.MediaTypePhoto, 5))
		timers.fireAll()
		assert.Empty(t, messenger.deletedIDs())
		assert.Equal(t, 0, svc.PendingCount())
	})
}

func TestOnEditedMessage(t *testing.T) {
	t.Run("announces-then-deletes-immediately", func(t *testing.T) {
		svc, _, messenger, _ := newTestSetup(t)

		svc.OnEditedMessage(context.Background(), message(domain.MediaTypeText, 5))
		require.Len(t, messenger.sentTexts(), 1)
		assert.Contains(t, messenger.sentTexts()[0], "alice")
		assert.Contains(t, messenger.sentTexts()[0], "edited a message")
		assert.Equal(t, []int{5}, messenger.deletedIDs())
	})

	t.Run("bypasses-group-gates", func(t *testing.T) {
		svc, states, messenger, _ := newTestSetup(t)
		states.SetAutoDelete(testChatID, false)
		states.SetTextAutoDelete(testChatID, false)

		svc.OnEditedMessage(context.Background(), message(domain.MediaTypeText, 5))
		assert.Equal(t, []int{5}, messenger.deletedIDs())
	})

	t.Run("exempt-user-is-left-alone", func(t *testing.T) {
		svc, states, messenger, _ := newTestSetup(t)
		_, err := states.Authorize(context.Background(), nil, 99, testUserID, testChatID)
		require.NoError(t, err)

		svc.OnEditedMessage(context.Background(), message(domain.MediaTypeText, 5))
		assert.Empty(t, messenger.sentTexts())
		assert.Empty(t, messenger.deletedIDs())
	})

	t.Run("falls-back-to-numeric-mention", func(t *testing.T) {
		svc, _, messenger, _ := newTestSetup(t)

		msg := message(domain.MediaTypeText, 5)
		msg.UserName = ""
		svc.OnEditedMessage(context.Background(), msg)
		require.Len(t, messenger.sentTexts(), 1)
		assert.Contains(t, messenger.sentTexts()[0], "user 7")
	})
}

func TestCancelAndStop(t *testing.T) {
	t.Run("cancel-removes-pending-timer", func(t *testing.T) {
		svc, _, messenger, _ := newTestSetup(t)

		svc.OnNewMessage(context.Background(), message(domain.MediaTypePhoto, 5))
		assert.True(t, svc.Cancel(testChatID, 5))
		assert.False(t, svc.Cancel(testChatID, 5))
		assert.Equal(t, 0, svc.PendingCount())
		assert.Empty(t, messenger.deletedIDs())
	})

	t.Run("stop-cancels-all", func(t *testing.T) {
		svc, _, _, _ := newTestSetup(t)

		svc.OnNewMessage(context.Background(), message(domain.MediaTypePhoto, 5))
		svc.OnNewMessage(context.Background(), message(domain.MediaTypePhoto, 6))
		require.Equal(t, 2, svc.PendingCount())

		svc.Stop()
		assert.Equal(t, 0, svc.PendingCount())
	})
}
