package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	moderationDomain "github.com/ivstepanov/copyright-guard-bot/internal/modules/moderation/domain"
	moderationService "github.com/ivstepanov/copyright-guard-bot/internal/modules/moderation/service"
	stateDomain "github.com/ivstepanov/copyright-guard-bot/internal/modules/state/domain"
	stateService "github.com/ivstepanov/copyright-guard-bot/internal/modules/state/service"
	"github.com/ivstepanov/copyright-guard-bot/internal/shared/config"
	sharederrors "github.com/ivstepanov/copyright-guard-bot/internal/shared/errors"
)

const greetingText = "Hey! I can save your group from unwanted copyright issues 🚀"

// Handler handles Telegram bot interactions
type Handler struct {
	cfg        *config.Config
	state      *stateService.Service
	moderation *moderationService.Service
	client     *Client

	selfOnce sync.Once
	selfID   int64
}

// New creates a new Telegram handler
func New(cfg *config.Config, state *stateService.Service, moderation *moderationService.Service) *Handler {
	return &Handler{
		cfg:        cfg,
		state:      state,
		moderation: moderation,
	}
}

// SetClient sets the bot client adapter used for admin checks.
func (h *Handler) SetClient(c *Client) {
	h.client = c
}

// RegisterCommands registers bot commands
func (h *Handler) RegisterCommands(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/auth", bot.MatchTypePrefix, h.handleAuth)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/unauth", bot.MatchTypePrefix, h.handleUnauth)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/settimer", bot.MatchTypePrefix, h.handleSetTimer)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/autodlt", bot.MatchTypePrefix, h.handleAutoDelete)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/textautodlt", bot.MatchTypePrefix, h.handleTextAutoDelete)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/showsetting", bot.MatchTypePrefix, h.handleShowSettings)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/listgroup", bot.MatchTypePrefix, h.handleListGroups)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/countuser", bot.MatchTypePrefix, h.handleCountUsers)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/broadcast", bot.MatchTypePrefix, h.handleBroadcast)
}

// HandleUpdate processes updates no command handler claimed: edited messages,
// membership changes and ordinary group traffic feeding the deletion
// scheduler.
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.EditedMessage != nil {
		if isGroupChat(update.EditedMessage.Chat) {
			h.moderation.OnEditedMessage(ctx, toIncoming(update.EditedMessage))
		}
		return
	}

	if update.Message == nil {
		return
	}
	msg := update.Message

	if len(msg.NewChatMembers) > 0 {
		h.handleNewChatMembers(ctx, b, msg)
		return
	}

	if !isGroupChat(msg.Chat) {
		return
	}

	// Group discovery also happens on plain traffic so that groups the bot
	// joined before this version still get registered.
	h.state.RegisterGroup(msg.Chat.ID)
	h.moderation.OnNewMessage(ctx, toIncoming(msg))
}

func (h *Handler) handleNewChatMembers(ctx context.Context, b *bot.Bot, msg *models.Message) {
	if !isGroupChat(msg.Chat) {
		return
	}

	self := h.botID(ctx, b)
	for _, member := range msg.NewChatMembers {
		if member.ID != self {
			continue
		}
		h.state.RegisterGroup(msg.Chat.ID)
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   "Hey! Thanks for adding me to your group. Click - /start to enable my functions 🙃",
		}); err != nil {
			slog.Error("Cannot greet new group", "chat_id", msg.Chat.ID, "error", err)
		}
		break
	}
}

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	var keyboard [][]models.InlineKeyboardButton
	if msg.Chat.Type == "private" {
		h.state.RegisterStartedUser(msg.From.ID)
		keyboard = [][]models.InlineKeyboardButton{
			{{Text: "📜 Commands", URL: "https://t.me/copyrightprotection/4"}},
			{{Text: "📞 Contact", URL: "https://t.me/Imthanos_bot"}},
			{{Text: "🔄 Update", URL: "https://t.me/copyrightprotection"}},
			{{Text: "➕ Add Me to Your Group", URL: "https://t.me/copyrightprotection1_bot?startgroup=true"}},
		}
	} else {
		h.state.RegisterGroup(msg.Chat.ID)
		keyboard = [][]models.InlineKeyboardButton{
			{{Text: "❓ Help", URL: "https://t.me/copyrightprotection1_bot"}},
			{{Text: "➕ Add Me to Your Group", URL: "https://t.me/copyrightprotection1_bot?startgroup=true"}},
			{{Text: "📞 Contact", URL: "https://t.me/Imthanos_bot"}},
			{{Text: "🔄 Update", URL: "https://t.me/copyrightprotection"}},
		}
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        greetingText,
		ReplyMarkup: models.InlineKeyboardMarkup{InlineKeyboard: keyboard},
	})
}

func (h *Handler) handleAuth(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	targetID, ok := targetUser(msg)
	if !ok {
		h.reply(ctx, b, msg, "Usage: /auth <user_id> or reply to a user's message with /auth")
		return
	}

	result, err := h.state.Authorize(ctx, h.client, msg.From.ID, targetID, msg.Chat.ID)
	if err != nil {
		if errors.Is(err, sharederrors.ErrPermissionDenied) {
			h.reply(ctx, b, msg, "Only group admins or the owner can authorize users.")
			return
		}
		slog.Error("Failed to authorize user", "target_id", targetID, "chat_id", msg.Chat.ID, "error", err)
		h.reply(ctx, b, msg, fmt.Sprintf("❌ Failed to authorize user: %v", err))
		return
	}

	switch {
	case result.Already && result.Scope == stateDomain.AuthScopeGlobal:
		h.reply(ctx, b, msg, fmt.Sprintf("User %d is already globally authorized.", targetID))
	case result.Already:
		h.reply(ctx, b, msg, fmt.Sprintf("User %d is already authorized in this group.", targetID))
	case result.Scope == stateDomain.AuthScopeGlobal:
		h.reply(ctx, b, msg, fmt.Sprintf("User %d has been authorized by owner.", targetID))
	default:
		h.reply(ctx, b, msg, fmt.Sprintf("User %d has been authorized in this group.", targetID))
	}
}

func (h *Handler) handleUnauth(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	targetID, ok := targetUser(msg)
	if !ok {
		h.reply(ctx, b, msg, "Usage: /unauth <user_id> or reply to a user's message with /unauth")
		return
	}

	result, err := h.state.Unauthorize(ctx, h.client, msg.From.ID, targetID, msg.Chat.ID)
	if err != nil {
		if errors.Is(err, sharederrors.ErrPermissionDenied) {
			h.reply(ctx, b, msg, "Only the owner or group admins can unauthorize users.")
			return
		}
		slog.Error("Failed to unauthorize user", "target_id", targetID, "chat_id", msg.Chat.ID, "error", err)
		h.reply(ctx, b, msg, fmt.Sprintf("❌ Failed to unauthorize user: %v", err))
		return
	}

	switch {
	case !result.WasAuthorized && result.Scope == stateDomain.AuthScopeGlobal:
		h.reply(ctx, b, msg, fmt.Sprintf("User %d was not authorized by owner.", targetID))
	case !result.WasAuthorized:
		h.reply(ctx, b, msg, fmt.Sprintf("User %d was not authorized in this group.", targetID))
	case result.Scope == stateDomain.AuthScopeGlobal:
		h.reply(ctx, b, msg, fmt.Sprintf("User %d has been unauthorized by owner.", targetID))
	default:
		h.reply(ctx, b, msg, fmt.Sprintf("User %d has been unauthorized from group.", targetID))
	}
}

func (h *Handler) handleSetTimer(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if !h.isAdminOrOwner(ctx, msg.From.ID, msg.Chat.ID) {
		h.reply(ctx, b, msg, "Only group admins or the owner can change the delete timer.")
		return
	}

	args := commandArgs(msg.Text)
	if len(args) != 1 {
		h.reply(ctx, b, msg, "Usage: /settimer <time_in_minutes> (e.g., /settimer 30)")
		return
	}

	minutes, err := strconv.Atoi(args[0])
	if err != nil {
		h.reply(ctx, b, msg, "Please provide a valid positive integer for the time in minutes.")
		return
	}

	if err := h.state.SetDeleteTimer(msg.Chat.ID, minutes); err != nil {
		h.reply(ctx, b, msg, "Please provide a valid positive integer for the time in minutes.")
		return
	}

	h.reply(ctx, b, msg, fmt.Sprintf("Auto-delete timer set to %d minute(s) for this group.", minutes))
}

func (h *Handler) handleAutoDelete(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if !h.isAdminOrOwner(ctx, msg.From.ID, msg.Chat.ID) {
		h.reply(ctx, b, msg, "Only group admins or the owner can change the auto-delete setting.")
		return
	}

	enabled, ok := parseOnOff(commandArgs(msg.Text))
	if !ok {
		h.reply(ctx, b, msg, "Usage: /autodlt <on|off>")
		return
	}

	h.state.SetAutoDelete(msg.Chat.ID, enabled)
	status := "disabled"
	if enabled {
		status = "enabled"
	}
	h.reply(ctx, b, msg, fmt.Sprintf("Auto-delete is now %s for this group.", status))
}

func (h *Handler) handleTextAutoDelete(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if !h.isAdminOrOwner(ctx, msg.From.ID, msg.Chat.ID) {
		h.reply(ctx, b, msg, "Only group admins or the owner can change the text auto-delete setting.")
		return
	}

	enabled, ok := parseOnOff(commandArgs(msg.Text))
	if !ok {
		h.reply(ctx, b, msg, "Usage: /textautodlt <on|off>")
		return
	}

	h.state.SetTextAutoDelete(msg.Chat.ID, enabled)
	status := "disabled"
	if enabled {
		status = "enabled"
	}
	h.reply(ctx, b, msg, fmt.Sprintf("Text auto-delete has been %s for this group.", status))
}

func (h *Handler) handleShowSettings(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	if !h.state.HasSettings(msg.Chat.ID) {
		h.reply(ctx, b, msg, "No settings found for this group.")
		return
	}

	settings := h.state.Settings(msg.Chat.ID)
	autoDelete := "off"
	if settings.AutoDelete {
		autoDelete = "on"
	}
	textAutoDelete := "disabled"
	if settings.TextAutoDelete {
		textAutoDelete = "enabled"
	}

	h.reply(ctx, b, msg, fmt.Sprintf(
		"Group Settings:\nDelete timer: %d minute(s)\nAuto-delete: %s\nText auto-delete: %s",
		settings.DeleteTimer/60, autoDelete, textAutoDelete))
}

func (h *Handler) handleListGroups(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if !h.state.IsOwner(msg.From.ID) {
		h.reply(ctx, b, msg, "Only the bot owner can use this command.")
		return
	}

	var titles []string
	for _, groupID := range h.state.KnownGroups() {
		chat, err := b.GetChat(ctx, &bot.GetChatParams{ChatID: groupID})
		if err != nil {
			// Skip groups the bot was removed from
			continue
		}
		if chat.Title != "" {
			titles = append(titles, chat.Title)
		}
	}

	if len(titles) == 0 {
		h.reply(ctx, b, msg, "The bot is not added to any valid groups.")
		return
	}

	h.reply(ctx, b, msg, fmt.Sprintf(
		"The bot is added to the following valid groups:\n%s\n\nTotal number of valid groups: %d",
		strings.Join(titles, "\n"), len(titles)))
}

func (h *Handler) handleCountUsers(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if !h.state.IsOwner(msg.From.ID) {
		h.reply(ctx, b, msg, "Only the bot owner can use this command.")
		return
	}

	h.reply(ctx, b, msg, fmt.Sprintf("Total number of users who started the bot: %d", h.state.StartedUserCount()))
}

func (h *Handler) handleBroadcast(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if !h.state.IsOwner(msg.From.ID) {
		h.reply(ctx, b, msg, "Only the bot owner can use this command.")
		return
	}

	source := msg.ReplyToMessage
	if source == nil {
		h.reply(ctx, b, msg, "Please reply to a message to broadcast it.")
		return
	}

	send := broadcastSender(source)
	if send == nil {
		h.reply(ctx, b, msg, "Unsupported media type for broadcasting.")
		return
	}

	successCount := 0
	failureCount := 0
	for _, recipient := range h.state.BroadcastTargets() {
		if err := send(ctx, b, recipient); err != nil {
			slog.Warn("Failed to broadcast to recipient", "recipient", recipient, "error", err)
			failureCount++
			continue
		}
		successCount++
	}

	h.reply(ctx, b, msg, fmt.Sprintf(
		"Broadcast completed.\n\n✅ Successfully sent to: %d\n❌ Failed to send to: %d",
		successCount, failureCount))
}

// broadcastSender picks the send function matching the source message's
// content, re-sending media by file_id. Nil means the kind is unsupported.
func broadcastSender(source *models.Message) func(ctx context.Context, b *bot.Bot, chatID int64) error {
	switch {
	case source.Sticker != nil:
		fileID := source.Sticker.FileID
		return func(ctx context.Context, b *bot.Bot, chatID int64) error {
			_, err := b.SendSticker(ctx, &bot.SendStickerParams{
				ChatID:  chatID,
				Sticker: &models.InputFileString{Data: fileID},
			})
			return err
		}
	case len(source.Photo) > 0:
		fileID := source.Photo[len(source.Photo)-1].FileID
		return func(ctx context.Context, b *bot.Bot, chatID int64) error {
			_, err := b.SendPhoto(ctx, &bot.SendPhotoParams{
				ChatID: chatID,
				Photo:  &models.InputFileString{Data: fileID},
			})
			return err
		}
	case source.Video != nil:
		fileID := source.Video.FileID
		return func(ctx context.Context, b *bot.Bot, chatID int64) error {
			_, err := b.SendVideo(ctx, &bot.SendVideoParams{
				ChatID: chatID,
				Video:  &models.InputFileString{Data: fileID},
			})
			return err
		}
	case source.Document != nil:
		fileID := source.Document.FileID
		return func(ctx context.Context, b *bot.Bot, chatID int64) error {
			_, err := b.SendDocument(ctx, &bot.SendDocumentParams{
				ChatID:   chatID,
				Document: &models.InputFileString{Data: fileID},
			})
			return err
		}
	case source.Text != "":
		text := source.Text
		return func(ctx context.Context, b *bot.Bot, chatID int64) error {
			_, err := b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   text,
			})
			return err
		}
	}
	return nil
}

func (h *Handler) isAdminOrOwner(ctx context.Context, userID, chatID int64) bool {
	if h.state.IsOwner(userID) {
		return true
	}
	isAdmin, err := h.client.IsGroupAdmin(ctx, chatID, userID)
	if err != nil {
		slog.Error("Failed to fetch group administrators", "chat_id", chatID, "error", err)
		return false
	}
	return isAdmin
}

func (h *Handler) reply(ctx context.Context, b *bot.Bot, msg *models.Message, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: msg.Chat.ID,
		Text:   text,
	}); err != nil {
		slog.Error("Failed to send reply", "chat_id", msg.Chat.ID, "error", err)
	}
}

func (h *Handler) botID(ctx context.Context, b *bot.Bot) int64 {
	h.selfOnce.Do(func() {
		me, err := b.GetMe(ctx)
		if err != nil {
			slog.Error("Failed to get bot identity", "error", err)
			return
		}
		h.selfID = me.ID
	})
	return h.selfID
}

// targetUser resolves the user a command acts on: the author of the replied
// message, or a numeric argument.
func targetUser(msg *models.Message) (int64, bool) {
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil {
		return msg.ReplyToMessage.From.ID, true
	}

	args := commandArgs(msg.Text)
	if len(args) < 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func commandArgs(text string) []string {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return nil
	}
	return parts[1:]
}

func parseOnOff(args []string) (bool, bool) {
	if len(args) != 1 {
		return false, false
	}
	switch strings.ToLower(args[0]) {
	case "on":
		return true, true
	case "off":
		return false, true
	}
	return false, false
}

func isGroupChat(chat models.Chat) bool {
	return chat.Type == "group" || chat.Type == "supergroup"
}

func toIncoming(msg *models.Message) *moderationDomain.IncomingMessage {
	incoming := &moderationDomain.IncomingMessage{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Kind:      classify(msg),
	}
	if msg.From != nil {
		incoming.UserID = msg.From.ID
		incoming.UserName = displayName(msg.From)
	}
	return incoming
}

func classify(msg *models.Message) moderationDomain.MediaType {
	switch {
	case len(msg.Photo) > 0:
		return moderationDomain.MediaTypePhoto
	case msg.Video != nil:
		return moderationDomain.MediaTypeVideo
	case msg.Document != nil:
		return moderationDomain.MediaTypeDocument
	case msg.Audio != nil:
		return moderationDomain.MediaTypeAudio
	case msg.Sticker != nil:
		return moderationDomain.MediaTypeSticker
	}
	return moderationDomain.MediaTypeText
}

func displayName(user *models.User) string {
	if user.Username != "" {
		return "@" + user.Username
	}
	if user.FirstName != "" {
		return user.FirstName
	}
	return fmt.Sprintf("user %d", user.ID)
}
