package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ivstepanov/copyright-guard-bot/internal/shared/errors"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

type Config struct {
	TelegramBotToken   string `koanf:"telegram_bot_token"`
	TelegramAPIURL     string `koanf:"telegram_api_url"`
	OwnerID            int64  `koanf:"owner_id"`
	DataFile           string `koanf:"data_file"`
	StoragePath        string `koanf:"storage_path"`
	HTTPPort           string `koanf:"http_port"`
	DefaultDeleteTimer int    `koanf:"default_delete_timer"`
	AppEnv             AppEnv `koanf:"app_env"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	// Use lo.Find to find the first existing config file
	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Load environment variables (they override config file values)
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	// Set defaults
	if !k.Exists("telegram_api_url") {
		k.Set("telegram_api_url", "https://api.telegram.org")
	}
	if !k.Exists("data_file") {
		k.Set("data_file", "./data/state.json")
	}
	if !k.Exists("storage_path") {
		k.Set("storage_path", "./data")
	}
	if !k.Exists("http_port") {
		k.Set("http_port", "8080")
	}
	if !k.Exists("default_delete_timer") {
		// 30 minutes, in seconds
		k.Set("default_delete_timer", 1800)
	}
	if !k.Exists("app_env") {
		k.Set("app_env", "production")
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	// Parse AppEnv from string if needed
	if appEnvStr := k.String("app_env"); appEnvStr != "" {
		if env, err := ParseAppEnv(appEnvStr); err == nil {
			cfg.AppEnv = env
		} else {
			cfg.AppEnv = AppEnvProduction
		}
	} else {
		cfg.AppEnv = AppEnvProduction
	}

	// Validate required fields
	if cfg.TelegramBotToken == "" {
		return nil, errors.ErrMissingBotToken
	}
	if cfg.OwnerID == 0 {
		return nil, errors.ErrMissingOwnerID
	}
	if cfg.DefaultDeleteTimer <= 0 {
		return nil, oops.With("default_delete_timer", cfg.DefaultDeleteTimer).
			New("default_delete_timer must be a positive number of seconds")
	}

	return &cfg, nil
}
