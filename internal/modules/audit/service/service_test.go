package service

import (
	"testing"
	"time"

	"github.com/ivstepanov/copyright-guard-bot/internal/modules/audit/domain"
	"github.com/ivstepanov/copyright-guard-bot/internal/modules/audit/repository"
	moderationDomain "github.com/ivstepanov/copyright-guard-bot/internal/modules/moderation/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo, err := repository.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	return New(repo)
}

func event(chatID int64, messageID int, reason moderationDomain.DeleteReason) *domain.Event {
	return &domain.Event{
		ChatID:    chatID,
		MessageID: messageID,
		UserID:    7,
		Kind:      moderationDomain.MediaTypePhoto,
		Reason:    reason,
		At:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecordAndRecentEvents(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.Record(event(-100, 1, moderationDomain.DeleteReasonExpired)))
	require.NoError(t, svc.Record(event(-100, 2, moderationDomain.DeleteReasonEdited)))
	require.NoError(t, svc.Record(event(-200, 3, moderationDomain.DeleteReasonExpired)))

	events, err := svc.RecentEvents(-100, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	events, err = svc.RecentEvents(-100, 1)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	events, err = svc.RecentEvents(-300, 10)
	require.NoError(t, err)
	assert.Empty(t, events, "unknown group yields an empty list, not an error")
}

func TestGenerateFeed(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.Record(event(-100, 1, moderationDomain.DeleteReasonExpired)))
	require.NoError(t, svc.Record(event(-100, 2, moderationDomain.DeleteReasonEdited)))

	feed, err := svc.GenerateFeed(-100, "http://localhost:8080")
	require.NoError(t, err)
	assert.Contains(t, feed.Title, "-100")
	assert.Equal(t, "http://localhost:8080/feed/-100", feed.Link.Href)
	require.Len(t, feed.Items, 2)

	titles := []string{feed.Items[0].Title, feed.Items[1].Title}
	assert.Contains(t, titles, "photo message 1 expired")
	assert.Contains(t, titles, "Edited photo message 2 removed")

	rss, err := feed.ToRss()
	require.NoError(t, err)
	assert.Contains(t, rss, "<rss")
}
