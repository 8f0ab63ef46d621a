// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	//LinkedIn credentials come from env only, never from yaml
	LinkedInUsername string `yaml:"-"`
	LinkedInPassword string `yaml:"-"`

	//Optional run-report notifications
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`

	//Persistence: postgres when set, file cache otherwise
	DatabaseURL string `yaml:"database_url"`

	//Document generator collaborator
	GeneratorAPIKey string `yaml:"-"`
	GeneratorModel  string `yaml:"generator_model"`

	//Paths
	CookiesPath string `yaml:"cookies_path"`
	CachePath   string `yaml:"cache_path"`
	OutputDir   string `yaml:"output_dir"`
}

func Load() *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	//Override with env vars
	cfg.LinkedInUsername = os.Getenv("LINKEDIN_USERNAME")
	cfg.LinkedInPassword = os.Getenv("LINKEDIN_PASSWORD")

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}

	if key := os.Getenv("GENERATOR_API_KEY"); key != "" {
		cfg.GeneratorAPIKey = key
	}

	//Set default values if not set
	if cfg.CookiesPath == "" {
		cfg.CookiesPath = ".cookies"
	}

	if cfg.CachePath == "" {
		cfg.CachePath = ".cache"
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}

	if cfg.GeneratorModel == "" {
		cfg.GeneratorModel = "llama-3.3-70b-versatile"
	}

	return cfg
}

// HasCredentials reports whether an authenticated session can be attempted.
func (c *Config) HasCredentials() bool {
	return c.LinkedInUsername != "" && c.LinkedInPassword != ""
}

// HasTelegram reports whether run notifications are configured.
func (c *Config) HasTelegram() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}
