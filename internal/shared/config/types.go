package config

type BotConfig struct {
	Token string `mapstructure:"token"`
	// GuildID scopes slash command registration and the catalog refresh
	// job. Empty registers commands globally.
	GuildID string `mapstructure:"guild_id"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RolesConfig struct {
	Admin      string `mapstructure:"admin"`
	Helper     string `mapstructure:"helper"`
	TicketPing string `mapstructure:"ticket_ping"`
	Muted      string `mapstructure:"muted"`
}

type TicketsConfig struct {
	LogCategory          string `mapstructure:"log_category"`
	LogChannel           string `mapstructure:"log_channel"`
	HelpLimit            int    `mapstructure:"help_limit"`
	SubmitLimit          int    `mapstructure:"submit_limit"`
	MiscLimit            int    `mapstructure:"misc_limit"`
	CategoryCap          int    `mapstructure:"category_cap"`
	SelectionWaitMinutes int    `mapstructure:"selection_wait_minutes"`
}

type AutoCloseConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	ThresholdHours   int    `mapstructure:"threshold_hours"`
	Cron             string `mapstructure:"cron"`
	TicketTimeoutSec int    `mapstructure:"ticket_timeout_sec"`
}

type ChallengeAPIConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	APIKey      string `mapstructure:"api_key"`
	RefreshCron string `mapstructure:"refresh_cron"`
}

type TranscriptConfig struct {
	Domain string `mapstructure:"domain"`
	Port   int    `mapstructure:"port"`
}
