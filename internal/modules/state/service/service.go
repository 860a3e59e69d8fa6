package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ivstepanov/copyright-guard-bot/internal/modules/state/domain"
	"github.com/ivstepanov/copyright-guard-bot/internal/modules/state/repository"
	"github.com/ivstepanov/copyright-guard-bot/internal/shared/config"
	sharederrors "github.com/ivstepanov/copyright-guard-bot/internal/shared/errors"
	"github.com/samber/lo"
)

// AdminChecker reports whether a user is an administrator of a group. The
// Telegram transport implements it on top of getChatAdministrators.
type AdminChecker interface {
	IsGroupAdmin(ctx context.Context, chatID, userID int64) (bool, error)
}

// Service owns the authorization and settings state. It keeps an in-memory
// authoritative copy loaded once at startup and writes the full document
// through to the repository on every mutation.
type Service struct {
	cfg   *config.Config
	repo  repository.Repository
	mu    sync.RWMutex
	state *domain.BotState
}

// New creates the state service and loads the persisted document.
func New(cfg *config.Config, repo repository.Repository) *Service {
	return &Service{
		cfg:   cfg,
		repo:  repo,
		state: repo.Load(),
	}
}

// IsOwner reports whether the user is the configured bot owner.
func (s *Service) IsOwner(userID int64) bool {
	return userID == s.cfg.OwnerID
}

// IsExempt reports whether the user's messages are exempt from deletion in
// the given group: globally authorized, or authorized in that group.
func (s *Service) IsExempt(userID, chatID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if lo.Contains(s.state.GlobalAuthorizedUsers, userID) {
		return true
	}
	return lo.Contains(s.state.GroupAuthorizedUsers[domain.GroupKey(chatID)], userID)
}

// Authorize adds the target to the global set when the actor is the owner, or
// to the group's set when the actor is one of the group's administrators.
// Adding an already-present target is a no-op reported via Already.
func (s *Service) Authorize(ctx context.Context, admins AdminChecker, actorID, targetID, chatID int64) (domain.AuthResult, error) {
	if s.IsOwner(actorID) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if lo.Contains(s.state.GlobalAuthorizedUsers, targetID) {
			return domain.AuthResult{Scope: domain.AuthScopeGlobal, Target: targetID, Already: true}, nil
		}
		s.state.GlobalAuthorizedUsers = append(s.state.GlobalAuthorizedUsers, targetID)
		s.flushLocked()
		return domain.AuthResult{Scope: domain.AuthScopeGlobal, Target: targetID}, nil
	}

	isAdmin, err := admins.IsGroupAdmin(ctx, chatID, actorID)
	if err != nil {
		return domain.AuthResult{}, err
	}
	if !isAdmin {
		return domain.AuthResult{}, sharederrors.ErrPermissionDenied
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.GroupKey(chatID)
	if lo.Contains(s.state.GroupAuthorizedUsers[key], targetID) {
		return domain.AuthResult{Scope: domain.AuthScopeGroup, Target: targetID, Already: true}, nil
	}
	s.state.GroupAuthorizedUsers[key] = append(s.state.GroupAuthorizedUsers[key], targetID)
	s.flushLocked()
	return domain.AuthResult{Scope: domain.AuthScopeGroup, Target: targetID}, nil
}

// Unauthorize removes the target from the global set when the actor is the
// owner, or from the group's set when the actor is a group administrator.
// Removing an absent target reports WasAuthorized=false without failing.
func (s *Service) Unauthorize(ctx context.Context, admins AdminChecker, actorID, targetID, chatID int64) (domain.UnauthResult, error) {
	if s.IsOwner(actorID) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if !lo.Contains(s.state.GlobalAuthorizedUsers, targetID) {
			return domain.UnauthResult{Scope: domain.AuthScopeGlobal, Target: targetID}, nil
		}
		s.state.GlobalAuthorizedUsers = lo.Without(s.state.GlobalAuthorizedUsers, targetID)
		s.flushLocked()
		return domain.UnauthResult{Scope: domain.AuthScopeGlobal, Target: targetID, WasAuthorized: true}, nil
	}

	isAdmin, err := admins.IsGroupAdmin(ctx, chatID, actorID)
	if err != nil {
		return domain.UnauthResult{}, err
	}
	if !isAdmin {
		return domain.UnauthResult{}, sharederrors.ErrPermissionDenied
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.GroupKey(chatID)
	if !lo.Contains(s.state.GroupAuthorizedUsers[key], targetID) {
		return domain.UnauthResult{Scope: domain.AuthScopeGroup, Target: targetID}, nil
	}
	s.state.GroupAuthorizedUsers[key] = lo.Without(s.state.GroupAuthorizedUsers[key], targetID)
	s.flushLocked()
	return domain.UnauthResult{Scope: domain.AuthScopeGroup, Target: targetID, WasAuthorized: true}, nil
}

// Settings returns the group's stored settings, or the default triple when
// the group never configured anything.
func (s *Service) Settings(chatID int64) domain.GroupSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if settings, ok := s.state.GroupSettings[domain.GroupKey(chatID)]; ok {
		return settings
	}
	return domain.DefaultSettings(s.cfg.DefaultDeleteTimer)
}

// HasSettings reports whether the group has explicitly stored settings.
func (s *Service) HasSettings(chatID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.state.GroupSettings[domain.GroupKey(chatID)]
	return ok
}

// SetDeleteTimer stores the auto-delete delay, given in minutes. Non-positive
// values are rejected and leave the stored settings untouched.
func (s *Service) SetDeleteTimer(chatID int64, minutes int) error {
	if minutes <= 0 {
		return sharederrors.ErrInvalidTimer
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.GroupKey(chatID)
	settings, ok := s.state.GroupSettings[key]
	if !ok {
		settings = domain.DefaultSettings(s.cfg.DefaultDeleteTimer)
	}
	settings.DeleteTimer = minutes * 60
	s.state.GroupSettings[key] = settings
	s.flushLocked()
	return nil
}

// SetAutoDelete toggles auto-deletion for the group.
func (s *Service) SetAutoDelete(chatID int64, enabled bool) {
	s.setSettings(chatID, func(settings *domain.GroupSettings) {
		settings.AutoDelete = enabled
	})
}

// SetTextAutoDelete toggles auto-deletion of text messages for the group.
// Media messages remain subject to deletion regardless.
func (s *Service) SetTextAutoDelete(chatID int64, enabled bool) {
	s.setSettings(chatID, func(settings *domain.GroupSettings) {
		settings.TextAutoDelete = enabled
	})
}

func (s *Service) setSettings(chatID int64, mutate func(*domain.GroupSettings)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.GroupKey(chatID)
	settings, ok := s.state.GroupSettings[key]
	if !ok {
		settings = domain.DefaultSettings(s.cfg.DefaultDeleteTimer)
	}
	mutate(&settings)
	s.state.GroupSettings[key] = settings
	s.flushLocked()
}

// RegisterStartedUser records a user who started the bot in a private chat.
func (s *Service) RegisterStartedUser(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lo.Contains(s.state.StartedUsers, userID) {
		return
	}
	s.state.StartedUsers = append(s.state.StartedUsers, userID)
	s.flushLocked()
}

// RegisterGroup records a group the bot was added to. Default settings are
// materialized alongside so that group discovery keeps group_ids and
// group_settings in step; the authorization map stays lazy.
func (s *Service) RegisterGroup(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	if !lo.Contains(s.state.GroupIDs, chatID) {
		s.state.GroupIDs = append(s.state.GroupIDs, chatID)
		changed = true
	}
	key := domain.GroupKey(chatID)
	if _, ok := s.state.GroupSettings[key]; !ok {
		s.state.GroupSettings[key] = domain.DefaultSettings(s.cfg.DefaultDeleteTimer)
		changed = true
	}
	if changed {
		s.flushLocked()
	}
}

// KnownGroups returns the IDs of all groups the bot has been added to.
func (s *Service) KnownGroups() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Uniq(s.state.GroupIDs)
}

// StartedUserCount returns how many users started the bot privately.
func (s *Service) StartedUserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(lo.Uniq(s.state.StartedUsers))
}

// BroadcastTargets returns the union of started users and known groups.
func (s *Service) BroadcastTargets() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Union(s.state.StartedUsers, s.state.GroupIDs)
}

// Flush writes the current state through to the repository. Called once more
// at shutdown; every mutation already flushes.
func (s *Service) Flush() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.flushLocked()
}

// flushLocked persists the state. Persistence is at-most-effort: failures are
// logged and the in-memory state stays authoritative.
func (s *Service) flushLocked() {
	if err := s.repo.Save(s.state); err != nil {
		slog.Error("Failed to persist bot state", "error", err)
	}
}
