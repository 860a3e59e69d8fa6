package service

import (
	"fmt"

	"github.com/gorilla/feeds"
	"github.com/ivstepanov/copyright-guard-bot/internal/modules/audit/domain"
	"github.com/ivstepanov/copyright-guard-bot/internal/modules/audit/repository"
	moderationDomain "github.com/ivstepanov/copyright-guard-bot/internal/modules/moderation/domain"
)

// Service records deletion events and renders a group's recent moderation
// activity as an RSS feed.
type Service struct {
	repo repository.Repository
}

// New creates a new audit service.
func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// Record persists one deletion event.
func (s *Service) Record(event *domain.Event) error {
	return s.repo.SaveEvent(event)
}

// RecentEvents returns up to limit of the group's most recent deletions.
func (s *Service) RecentEvents(chatID int64, limit int) ([]*domain.Event, error) {
	return s.repo.RecentEvents(chatID, limit)
}

// GenerateFeed builds an RSS feed of the group's recent deletions.
func (s *Service) GenerateFeed(chatID int64, baseURL string) (*feeds.Feed, error) {
	events, err := s.repo.RecentEvents(chatID, 50)
	if err != nil {
		return nil, fmt.Errorf("failed to get events for group %d: %w", chatID, err)
	}

	feed := &feeds.Feed{
		Title:       fmt.Sprintf("Moderation activity for group %d", chatID),
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/feed/%d", baseURL, chatID)},
		Description: fmt.Sprintf("Messages removed by the bot in group %d", chatID),
	}

	var items []*feeds.Item
	for _, event := range events {
		items = append(items, s.eventToFeedItem(event))
	}

	feed.Items = items
	return feed, nil
}

func (s *Service) eventToFeedItem(event *domain.Event) *feeds.Item {
	var title string
	switch event.Reason {
	case moderationDomain.DeleteReasonEdited:
		title = fmt.Sprintf("Edited %s message %d removed", event.Kind, event.MessageID)
	default:
		title = fmt.Sprintf("%s message %d expired", event.Kind, event.MessageID)
	}

	return &feeds.Item{
		Title:       title,
		Description: fmt.Sprintf("Message %d from user %d was removed (%s)", event.MessageID, event.UserID, event.Reason),
		Created:     event.At,
		Id:          fmt.Sprintf("%d-%d", event.ChatID, event.MessageID),
	}
}
