package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Session   SessionConfig   `koanf:"session"`
	Loan      LoanConfig      `koanf:"loan"`
	Customers CustomersConfig `koanf:"customers"`
	Bureau    BureauConfig    `koanf:"bureau"`
	Audit     AuditConfig     `koanf:"audit"`
	Sanction  SanctionConfig  `koanf:"sanction"`
	Phrasing  PhrasingConfig  `koanf:"phrasing"`
	Sentiment SentimentConfig `koanf:"sentiment"`
	Adapters  AdaptersConfig  `koanf:"adapters"`
}

type ServerConfig struct {
	Port            int    `koanf:"port"`
	LogLevel        string `koanf:"log_level"`
	ReadTimeout     string `koanf:"read_timeout"`
	WriteTimeout    string `koanf:"write_timeout"`
	IdleTimeout     string `koanf:"idle_timeout"`
	ShutdownTimeout string `koanf:"shutdown_timeout"`
}

type SessionConfig struct {
	TTL           string `koanf:"ttl"`
	SweepInterval string `koanf:"sweep_interval"`
}

type LoanConfig struct {
	AnnualRatePercent float64 `koanf:"annual_rate_percent"`
	MinCreditScore    int     `koanf:"min_credit_score"`
	MaxEMIPercent     int     `koanf:"max_emi_percent"`
	DefaultTenureLow  int     `koanf:"default_tenure_low"`
	DefaultTenureHigh int     `koanf:"default_tenure_high"`
	TenureCutover     int64   `koanf:"tenure_cutover"`
}

type CustomersConfig struct {
	FixturePath string `koanf:"fixture_path"`
}

type BureauConfig struct {
	BaseURL  string `koanf:"base_url"`
	Timeout  string `koanf:"timeout"`
	CacheTTL string `koanf:"cache_ttl"`
}

type AuditConfig struct {
	LedgerPath string `koanf:"ledger_path"`
}

type SanctionConfig struct {
	OutputDir string `koanf:"output_dir"`
}

type PhrasingConfig struct {
	Provider string `koanf:"provider"`
	Model    string `koanf:"model"`
	APIKey   string `koanf:"api_key"`
	BaseURL  string `koanf:"base_url"`
	Timeout  string `koanf:"timeout"`
}

type SentimentConfig struct {
	EscalationThreshold float64 `koanf:"escalation_threshold"`
}

type AdaptersConfig struct {
	Telegram TelegramConfig `koanf:"telegram"`
	Slack    SlackConfig    `koanf:"slack"`
}

type TelegramConfig struct {
	Enabled       bool   `koanf:"enabled"`
	BotToken      string `koanf:"bot_token"`
	UpdateTimeout int    `koanf:"update_timeout"`
}

type SlackConfig struct {
	Enabled           bool   `koanf:"enabled"`
	BotToken          string `koanf:"bot_token"`
	EscalationChannel string `koanf:"escalation_channel"`
}

const (
	DefaultServerPort          = 5000
	DefaultServerLogLevel      = "info"
	DefaultServerReadTimeout   = "10s"
	DefaultServerWriteTimeout  = "10s"
	DefaultServerIdleTimeout   = "60s"
	DefaultShutdownTimeout     = "5s"
	DefaultSessionTTL          = "1h"
	DefaultSessionSweep        = "1m"
	DefaultAnnualRatePercent   = 10.99
	DefaultMinCreditScore      = 700
	DefaultMaxEMIPercent       = 50
	DefaultTenureLowMonths     = 60
	DefaultTenureHighMonths    = 72
	DefaultTenureCutoverAmount = 500000
	DefaultBureauTimeout       = "3s"
	DefaultBureauCacheTTL      = "5m"
	DefaultPhrasingProvider    = "template"
	DefaultPhrasingTimeout     = "10s"
	DefaultEscalationThreshold = 0.7
	DefaultTelegramTimeout     = 60
)

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":                   DefaultServerPort,
		"server.log_level":              DefaultServerLogLevel,
		"server.read_timeout":           DefaultServerReadTimeout,
		"server.write_timeout":          DefaultServerWriteTimeout,
		"server.idle_timeout":           DefaultServerIdleTimeout,
		"server.shutdown_timeout":       DefaultShutdownTimeout,
		"session.ttl":                   DefaultSessionTTL,
		"session.sweep_interval":        DefaultSessionSweep,
		"loan.annual_rate_percent":      DefaultAnnualRatePercent,
		"loan.min_credit_score":         DefaultMinCreditScore,
		"loan.max_emi_percent":          DefaultMaxEMIPercent,
		"loan.default_tenure_low":       DefaultTenureLowMonths,
		"loan.default_tenure_high":      DefaultTenureHighMonths,
		"loan.tenure_cutover":           DefaultTenureCutoverAmount,
		"customers.fixture_path":        "",
		"bureau.base_url":               "",
		"bureau.timeout":                DefaultBureauTimeout,
		"bureau.cache_ttl":              DefaultBureauCacheTTL,
		"audit.ledger_path":             filepath.Join(os.Getenv("HOME"), ".finmate", "applications.jsonl"),
		"sanction.output_dir":           filepath.Join(os.Getenv("HOME"), ".finmate", "sanctions"),
		"phrasing.provider":             DefaultPhrasingProvider,
		"phrasing.model":                "",
		"phrasing.api_key":              "",
		"phrasing.base_url":             "",
		"phrasing.timeout":              DefaultPhrasingTimeout,
		"sentiment.escalation_threshold": DefaultEscalationThreshold,
		"adapters.telegram.enabled":      false,
		"adapters.telegram.update_timeout": DefaultTelegramTimeout,
		"adapters.slack.enabled":           false,
		"adapters.slack.escalation_channel": "",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	configPath := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			configPath = strings.TrimSpace(flag.Value.String())
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, err
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			globalPath := filepath.Join(home, ".finmate", "config.yaml")
			if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
				slog.Debug("Global config not found or invalid", "path", globalPath, "error", err)
			}
		}
	}

	k.Load(env.Provider("FINMATE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "FINMATE_")), "_", ".", -1)
	}), nil)

	if cmd != nil {
		k.Load(posflag.Provider(cmd.Flags(), ".", k), nil)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	// Inject standard env vars if missing
	if cfg.Phrasing.APIKey == "" {
		switch cfg.Phrasing.Provider {
		case "openai":
			cfg.Phrasing.APIKey = os.Getenv("OPENAI_API_KEY")
		case "gemini":
			cfg.Phrasing.APIKey = os.Getenv("GEMINI_API_KEY")
		case "anthropic":
			cfg.Phrasing.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	if cfg.Bureau.BaseURL == "" {
		cfg.Bureau.BaseURL = os.Getenv("MOCK_API_BASE_URL")
	}
	if cfg.Adapters.Telegram.BotToken == "" {
		cfg.Adapters.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if cfg.Adapters.Slack.BotToken == "" {
		cfg.Adapters.Slack.BotToken = os.Getenv("SLACK_BOT_TOKEN")
	}

	return &cfg, nil
}
