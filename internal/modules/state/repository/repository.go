package repository

import "github.com/ivstepanov/copyright-guard-bot/internal/modules/state/domain"

// Repository persists the bot state document.
type Repository interface {
	// Load reads the persisted document. A missing, empty or malformed
	// document yields an empty default state, never an error.
	Load() *domain.BotState
	// Save overwrites the persisted document with the full state.
	Save(state *domain.BotState) error
}
