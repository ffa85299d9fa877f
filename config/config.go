package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DefaultMaxConcurrentFetches = 4
	DefaultHoldingDir           = "/var/opt/aether/tmp"
)

type Config struct {
	AppID      int    `yaml:"app_id" env:"APP_ID" validate:"required"`
	AppHash    string `yaml:"app_hash" env:"APP_HASH" validate:"required"`
	BotToken   string `yaml:"bot_token" env:"BOT_TOKEN" validate:"required"`
	SessionDir string `yaml:"session_dir" env:"SESSION_DIR" env-default:"./session"`
	OwnerID    int64  `yaml:"owner_id" env:"OWNER_ID"`
	LogLevel   string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn warning error"`

	MaxConcurrentFetches int `yaml:"max_concurrent_fetches" env:"MAX_CONCURRENT_FETCHES" env-default:"4" validate:"min=1"`

	Fetch   FetchConfig  `yaml:"fetch"`
	Cookies CookieConfig `yaml:"cookies"`
}

// FetchConfig controls where yt-dlp lives and where finished files wait for upload.
type FetchConfig struct {
	YtdlpBin   string `yaml:"ytdlp_bin" env:"YTDLP_BIN" env-default:"yt-dlp" validate:"required"`
	HoldingDir string `yaml:"holding_dir" env:"HOLDING_DIR" env-default:"/var/opt/aether/tmp" validate:"required"`
}

// CookieConfig mirrors the YDL_* variables. Each family has a primary name and an alias;
// Global is used when neither is set.
type CookieConfig struct {
	Instagram      string `yaml:"instagram" env:"YDL_COOKIES_INSTAGRAM"`
	InstagramAlias string `yaml:"instagram_alias" env:"YDL_COOKIES_IG"`
	TikTok         string `yaml:"tiktok" env:"YDL_COOKIES_TIKTOK"`
	TikTokAlias    string `yaml:"tiktok_alias" env:"YDL_COOKIES_TT"`
	YouTube        string `yaml:"youtube" env:"YDL_COOKIES_YOUTUBE"`
	YouTubeAlias   string `yaml:"youtube_alias" env:"YDL_COOKIES_YT"`
	Global         string `yaml:"global" env:"YDL_COOKIES"`
	InstagramUA    string `yaml:"instagram_user_agent" env:"YDL_UA_IG"`
}

// LoadConfig reads .env (if any), then CONFIG_FILE (if set) and the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) IsOwner(userID int64) bool {
	return c.OwnerID != 0 && c.OwnerID == userID
}
