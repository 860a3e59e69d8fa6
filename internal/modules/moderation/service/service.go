package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	auditDomain "github.com/ivstepanov/copyright-guard-bot/internal/modules/audit/domain"
	auditService "github.com/ivstepanov/copyright-guard-bot/internal/modules/audit/service"
	"github.com/ivstepanov/copyright-guard-bot/internal/modules/moderation/domain"
	stateService "github.com/ivstepanov/copyright-guard-bot/internal/modules/state/service"
)

// Messenger is the slice of the platform client the scheduler needs.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

type timerKey struct {
	chatID    int64
	messageID int
}

// Service decides for every inbound message whether it has to go, and when.
// New messages are deleted after the group's configured delay; edited
// messages are deleted immediately with a public announcement, bypassing the
// per-group gates entirely (an edit is treated as an attempt to sneak content
// past moderation).
type Service struct {
	stateService *stateService.Service
	audit        *auditService.Service
	messenger    Messenger
	mu           sync.Mutex
	pending      map[timerKey]*time.Timer

	// newTimer is swapped out in tests to control time.
	newTimer func(d time.Duration, f func()) *time.Timer
}

// New creates the deletion scheduler.
func New(stateService *stateService.Service, audit *auditService.Service) *Service {
	return &Service{
		stateService: stateService,
		audit:        audit,
		pending:      make(map[timerKey]*time.Timer),
		newTimer:     time.AfterFunc,
	}
}

// SetMessenger sets the platform client adapter.
func (s *Service) SetMessenger(m Messenger) {
	s.messenger = m
}

// OnNewMessage handles a freshly posted message. Exempt users, groups with
// auto-delete off and text messages in groups with the text gate off are left
// alone; everything else gets a deferred delete.
func (s *Service) OnNewMessage(ctx context.Context, msg *domain.IncomingMessage) {
	if msg == nil || msg.ChatID == 0 || msg.MessageID == 0 || msg.UserID == 0 {
		slog.Warn("Dropping message event with missing identifiers")
		return
	}

	if s.stateService.IsExempt(msg.UserID, msg.ChatID) {
		return
	}

	settings := s.stateService.Settings(msg.ChatID)
	if !settings.AutoDelete {
		return
	}

	if !msg.Kind.IsMedia() && !settings.TextAutoDelete {
		return
	}

	s.schedule(msg, time.Duration(settings.DeleteTimer)*time.Second)
}

// OnEditedMessage handles an edit: announce the editor publicly, then delete
// the edited message right away. Deletion failures are logged and swallowed.
func (s *Service) OnEditedMessage(ctx context.Context, msg *domain.IncomingMessage) {
	if msg == nil || msg.ChatID == 0 || msg.MessageID == 0 || msg.UserID == 0 {
		slog.Warn("Dropping edited-message event with missing identifiers")
		return
	}

	if s.stateService.IsExempt(msg.UserID, msg.ChatID) {
		return
	}

	announcement := fmt.Sprintf("Roses are red, violets are blue, %s edited a message, now it's gone too!", mention(msg))
	if err := s.messenger.SendMessage(ctx, msg.ChatID, announcement); err != nil {
		slog.Error("Failed to announce edited message", "chat_id", msg.ChatID, "message_id", msg.MessageID, "error", err)
	}

	if err := s.messenger.DeleteMessage(ctx, msg.ChatID, msg.MessageID); err != nil {
		slog.Error("Failed to delete edited message", "chat_id", msg.ChatID, "message_id", msg.MessageID, "error", err)
		return
	}

	s.record(msg, domain.DeleteReasonEdited)
}

func (s *Service) schedule(msg *domain.IncomingMessage, delay time.Duration) {
	key := timerKey{chatID: msg.ChatID, messageID: msg.MessageID}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[key]; ok {
		return
	}

	event := *msg
	s.pending[key] = s.newTimer(delay, func() {
		s.fire(key, &event)
	})
	slog.Debug("Scheduled deferred delete", "chat_id", msg.ChatID, "message_id", msg.MessageID, "delay", delay)
}

func (s *Service) fire(key timerKey, msg *domain.IncomingMessage) {
	s.mu.Lock()
	delete(s.pending, key)
	s.mu.Unlock()

	// The message may be long gone or the bot may have lost permissions by
	// the time the timer fires; either way the failure is swallowed and the
	// delete is never retried.
	if err := s.messenger.DeleteMessage(context.Background(), key.chatID, key.messageID); err != nil {
		slog.Debug("Deferred delete failed", "chat_id", key.chatID, "message_id", key.messageID, "error", err)
		return
	}

	s.record(msg, domain.DeleteReasonExpired)
}

// Cancel stops a pending deferred delete. It reports whether a timer was
// still pending for the message.
func (s *Service) Cancel(chatID int64, messageID int) bool {
	key := timerKey{chatID: chatID, messageID: messageID}

	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.pending[key]
	if !ok {
		return false
	}
	timer.Stop()
	delete(s.pending, key)
	return true
}

// PendingCount returns the number of scheduled deletions not yet fired.
func (s *Service) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Stop cancels all pending deletions. Messages that were due simply survive;
// nothing re-schedules them after a restart.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, timer := range s.pending {
		timer.Stop()
		delete(s.pending, key)
	}
}

func (s *Service) record(msg *domain.IncomingMessage, reason domain.DeleteReason) {
	if s.audit == nil {
		return
	}
	event := &auditDomain.Event{
		ChatID:    msg.ChatID,
		MessageID: msg.MessageID,
		UserID:    msg.UserID,
		Kind:      msg.Kind,
		Reason:    reason,
		At:        time.Now(),
	}
	if err := s.audit.Record(event); err != nil {
		slog.Error("Failed to record deletion event", "chat_id", msg.ChatID, "message_id", msg.MessageID, "error", err)
	}
}

func mention(msg *domain.IncomingMessage) string {
	name := msg.UserName
	if name == "" {
		name = fmt.Sprintf("user %d", msg.UserID)
	}
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, msg.UserID, name)
}
