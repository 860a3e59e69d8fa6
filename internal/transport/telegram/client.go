package telegram

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/samber/lo"
)

// Client adapts *bot.Bot to the narrow collaborator interfaces the services
// consume (moderation's Messenger, state's AdminChecker).
type Client struct {
	bot *bot.Bot
}

// NewClient wraps a bot instance.
func NewClient(b *bot.Bot) *Client {
	return &Client{bot: b}
}

// SendMessage sends an HTML-formatted message to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	return err
}

// DeleteMessage removes a message from a chat.
func (c *Client) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	_, err := c.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	return err
}

// IsGroupAdmin reports whether the user is listed among the group's
// administrators by the platform.
func (c *Client) IsGroupAdmin(ctx context.Context, chatID, userID int64) (bool, error) {
	members, err := c.bot.GetChatAdministrators(ctx, &bot.GetChatAdministratorsParams{
		ChatID: chatID,
	})
	if err != nil {
		return false, err
	}

	return lo.ContainsBy(members, func(member models.ChatMember) bool {
		if member.Owner != nil && member.Owner.User != nil && member.Owner.User.ID == userID {
			return true
		}
		if member.Administrator != nil && member.Administrator.User.ID == userID {
			return true
		}
		return false
	}), nil
}
