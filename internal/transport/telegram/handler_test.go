package telegram

import (
	"testing"

	"github.com/go-telegram/bot/models"
	moderationDomain "github.com/ivstepanov/copyright-guard-bot/internal/modules/moderation/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetUser(t *testing.T) {
	t.Run("reply-wins-over-arguments", func(t *testing.T) {
		msg := &models.Message{
			Text:           "/auth 123",
			ReplyToMessage: &models.Message{From: &models.User{ID: 42}},
		}
		id, ok := targetUser(msg)
		require.True(t, ok)
		assert.Equal(t, int64(42), id)
	})

	t.Run("numeric-argument", func(t *testing.T) {
		id, ok := targetUser(&models.Message{Text: "/auth 123"})
		require.True(t, ok)
		assert.Equal(t, int64(123), id)
	})

	t.Run("no-target", func(t *testing.T) {
		_, ok := targetUser(&models.Message{Text: "/auth"})
		assert.False(t, ok)

		_, ok = targetUser(&models.Message{Text: "/auth bob"})
		assert.False(t, ok)
	})
}

func TestCommandArgs(t *testing.T) {
	assert.Nil(t, commandArgs("/settimer"))
	assert.Equal(t, []string{"30"}, commandArgs("/settimer 30"))
	assert.Equal(t, []string{"30", "extra"}, commandArgs("/settimer  30   extra"))
}

func TestParseOnOff(t *testing.T) {
	enabled, ok := parseOnOff([]string{"on"})
	assert.True(t, ok)
	assert.True(t, enabled)

	enabled, ok = parseOnOff([]string{"OFF"})
	assert.True(t, ok)
	assert.False(t, enabled)

	_, ok = parseOnOff(nil)
	assert.False(t, ok)

	_, ok = parseOnOff([]string{"maybe"})
	assert.False(t, ok)

	_, ok = parseOnOff([]string{"on", "off"})
	assert.False(t, ok)
}

func TestIsGroupChat(t *testing.T) {
	assert.True(t, isGroupChat(models.Chat{Type: "group"}))
	assert.True(t, isGroupChat(models.Chat{Type: "supergroup"}))
	assert.False(t, isGroupChat(models.Chat{Type: "private"}))
	assert.False(t, isGroupChat(models.Chat{Type: "channel"}))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, moderationDomain.MediaTypeText, classify(&models.Message{Text: "hi"}))
	assert.Equal(t, moderationDomain.MediaTypePhoto, classify(&models.Message{Photo: []models.PhotoSize{{FileID: "p"}}}))
	assert.Equal(t, moderationDomain.MediaTypeVideo, classify(&models.Message{Video: &models.Video{}}))
	assert.Equal(t, moderationDomain.MediaTypeDocument, classify(&models.Message{Document: &models.Document{}}))
	assert.Equal(t, moderationDomain.MediaTypeAudio, classify(&models.Message{Audio: &models.Audio{}}))
	assert.Equal(t, moderationDomain.MediaTypeSticker, classify(&models.Message{Sticker: &models.Sticker{}}))
}

func TestToIncoming(t *testing.T) {
	msg := &models.Message{
		ID:   17,
		Chat: models.Chat{ID: -100},
		From: &models.User{ID: 7, Username: "alice"},
		Text: "hello",
	}

	incoming := toIncoming(msg)
	assert.Equal(t, int64(-100), incoming.ChatID)
	assert.Equal(t, 17, incoming.MessageID)
	assert.Equal(t, int64(7), incoming.UserID)
	assert.Equal(t, "@alice", incoming.UserName)
	assert.Equal(t, moderationDomain.MediaTypeText, incoming.Kind)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "@alice", displayName(&models.User{ID: 7, Username: "alice", FirstName: "Alice"}))
	assert.Equal(t, "Alice", displayName(&models.User{ID: 7, FirstName: "Alice"}))
	assert.Equal(t, "user 7", displayName(&models.User{ID: 7}))
}

func TestBroadcastSender(t *testing.T) {
	assert.NotNil(t, broadcastSender(&models.Message{Text: "announcement"}))
	assert.NotNil(t, broadcastSender(&models.Message{Sticker: &models.Sticker{FileID: "s"}}))
	assert.NotNil(t, broadcastSender(&models.Message{Photo: []models.PhotoSize{{FileID: "p"}}}))
	assert.NotNil(t, broadcastSender(&models.Message{Video: &models.Video{FileID: "v"}}))
	assert.NotNil(t, broadcastSender(&models.Message{Document: &models.Document{FileID: "d"}}))
	assert.Nil(t, broadcastSender(&models.Message{Voice: &models.Voice{FileID: "x"}}))
}
