package di

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	auditRepo "github.com/ivstepanov/copyright-guard-bot/internal/modules/audit/repository"
	auditService "github.com/ivstepanov/copyright-guard-bot/internal/modules/audit/service"
	moderationService "github.com/ivstepanov/copyright-guard-bot/internal/modules/moderation/service"
	stateRepo "github.com/ivstepanov/copyright-guard-bot/internal/modules/state/repository"
	stateService "github.com/ivstepanov/copyright-guard-bot/internal/modules/state/service"
	"github.com/ivstepanov/copyright-guard-bot/internal/shared/config"
	httpServer "github.com/ivstepanov/copyright-guard-bot/internal/transport/http"
	telegramHandler "github.com/ivstepanov/copyright-guard-bot/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Service names for dependency injection
const (
	ServiceConfig            = "config"
	ServiceStateRepo         = "state-repository"
	ServiceAuditRepo         = "audit-repository"
	ServiceStateService      = "state-service"
	ServiceAuditService      = "audit-service"
	ServiceModerationService = "moderation-service"
	ServiceTelegramHandler   = "telegram-handler"
	ServiceHTTPServer        = "http-server"
	ServiceBot               = "bot"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register State Repository
	do.Provide(injector, func(i do.Injector) (stateRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := stateRepo.NewFileStorage(cfg.DataFile)
		if err != nil {
			return nil, oops.With("data_file", cfg.DataFile, "context", "failed to initialize state repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Audit Repository
	do.Provide(injector, func(i do.Injector) (auditRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := auditRepo.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize audit repository").Wrap(err)
		}
		return repo, nil
	})

	// Register State Service
	do.Provide(injector, func(i do.Injector) (*stateService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[stateRepo.Repository](i)
		return stateService.New(cfg, repo), nil
	})

	// Register Audit Service
	do.Provide(injector, func(i do.Injector) (*auditService.Service, error) {
		repo := do.MustInvoke[auditRepo.Repository](i)
		return auditService.New(repo), nil
	})

	// Register Moderation Service
	do.Provide(injector, func(i do.Injector) (*moderationService.Service, error) {
		state := do.MustInvoke[*stateService.Service](i)
		audit := do.MustInvoke[*auditService.Service](i)
		return moderationService.New(state, audit), nil
	})

	// Register Telegram Handler
	do.Provide(injector, func(i do.Injector) (*telegramHandler.Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		state := do.MustInvoke[*stateService.Service](i)
		moderation := do.MustInvoke[*moderationService.Service](i)
		return telegramHandler.New(cfg, state, moderation), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		audit := do.MustInvoke[*auditService.Service](i)
		server := httpServer.New(cfg, audit)
		server.SetLogger(slog.Default())
		return server, nil
	})

	// Register Bot (needs to be initialized after handlers are ready)
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		handler := do.MustInvoke[*telegramHandler.Handler](i)

		opts := []bot.Option{
			bot.WithDefaultHandler(handler.HandleUpdate),
		}

		b, err := bot.New(cfg.TelegramBotToken, opts...)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}

		// Register bot commands
		handler.RegisterCommands(b)

		// Wire the bot-backed client into the services that need platform calls
		client := telegramHandler.NewClient(b)
		handler.SetClient(client)
		moderation := do.MustInvoke[*moderationService.Service](i)
		moderation.SetMessenger(client)

		return b, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	ctx := context.Background()

	// Shutdown bot if it exists
	if b, err := do.Invoke[*bot.Bot](injector); err == nil && b != nil {
		b.Close(ctx)
	}

	// Cancel pending deferred deletes
	if moderation, err := do.Invoke[*moderationService.Service](injector); err == nil && moderation != nil {
		moderation.Stop()
	}

	// Final state flush
	if state, err := do.Invoke[*stateService.Service](injector); err == nil && state != nil {
		state.Flush()
	}

	return nil
}
