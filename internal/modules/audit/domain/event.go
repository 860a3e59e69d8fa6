package domain

import (
	"time"

	moderationDomain "github.com/ivstepanov/copyright-guard-bot/internal/modules/moderation/domain"
)

// Event records one message the bot removed, and why.
type Event struct {
	ChatID    int64                         `json:"chat_id"`
	MessageID int                           `json:"message_id"`
	UserID    int64                         `json:"user_id"`
	Kind      moderationDomain.MediaType    `json:"kind"`
	Reason    moderationDomain.DeleteReason `json:"reason"`
	At        time.Time                     `json:"at"`
}
