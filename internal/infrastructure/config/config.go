package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "ticketbot/internal/shared/config"
)

type Config struct {
	Bot          sharedConfig.BotConfig          `mapstructure:"bot"`
	Database     sharedConfig.DatabaseConfig     `mapstructure:"database"`
	Logger       sharedConfig.LoggerConfig       `mapstructure:"logger"`
	Roles        sharedConfig.RolesConfig        `mapstructure:"roles"`
	Tickets      sharedConfig.TicketsConfig      `mapstructure:"tickets"`
	AutoClose    sharedConfig.AutoCloseConfig    `mapstructure:"autoclose"`
	ChallengeAPI sharedConfig.ChallengeAPIConfig `mapstructure:"challenge_api"`
	Transcript   sharedConfig.TranscriptConfig   `mapstructure:"transcript"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("TICKETBOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// The bot token can arrive purely through the environment; a missing
		// file only matters when nothing else supplies it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required (set bot.token or TICKETBOT_BOT_TOKEN)")
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("bot.token", "")
	viper.SetDefault("bot.guild_id", "")

	viper.SetDefault("database.path", "tickets.db")

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	viper.SetDefault("roles.admin", "Board")
	viper.SetDefault("roles.helper", "Helper")
	viper.SetDefault("roles.ticket_ping", "Available Mods")
	viper.SetDefault("roles.muted", "Muted")

	viper.SetDefault("tickets.log_category", "logs")
	viper.SetDefault("tickets.log_channel", "ticket-log")
	viper.SetDefault("tickets.help_limit", 3)
	viper.SetDefault("tickets.submit_limit", 2)
	viper.SetDefault("tickets.misc_limit", 2)
	viper.SetDefault("tickets.category_cap", 50)
	viper.SetDefault("tickets.selection_wait_minutes", 10)

	viper.SetDefault("autoclose.enabled", true)
	viper.SetDefault("autoclose.threshold_hours", 48)
	viper.SetDefault("autoclose.cron", "0 * * * *")
	viper.SetDefault("autoclose.ticket_timeout_sec", 60)

	viper.SetDefault("challenge_api.base_url", "")
	viper.SetDefault("challenge_api.api_key", "")
	viper.SetDefault("challenge_api.refresh_cron", "0 */6 * * *")

	viper.SetDefault("transcript.domain", "localhost")
	viper.SetDefault("transcript.port", 443)
}
