package repository

import "github.com/ivstepanov/copyright-guard-bot/internal/modules/audit/domain"

// Repository persists deletion events.
type Repository interface {
	SaveEvent(event *domain.Event) error
	RecentEvents(chatID int64, limit int) ([]*domain.Event, error)
}
