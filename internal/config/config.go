package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
)

// Store drivers
const (
	StoreCSV      = "csv"
	StorePostgres = "postgres"
)

// FX providers
const (
	FXProviderERAPI = "erapi"
	FXProviderCBR   = "cbr"
)

// Config holds application configuration
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"INFO"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"csv"`
	DataDir     string `env:"DATA_DIR" envDefault:"data"`
	ClientsFile string `env:"CLIENTS_FILE" envDefault:"clientes.csv"`
	RulesFile   string `env:"RULES_FILE" envDefault:"score_limite.csv"`
	LedgerFile  string `env:"LEDGER_FILE" envDefault:"solicitacoes_aumento_limite.csv"`
	DBConn      string `env:"DB_CONN" envDefault:"host=localhost port=5436 user=test password=test dbname=credit sslmode=disable"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"30m"`

	AuthMaxAttempts  int    `env:"AUTH_MAX_ATTEMPTS" envDefault:"3"`
	RulesStrict      bool   `env:"RULES_STRICT" envDefault:"false"`
	RulesRefreshSpec string `env:"RULES_REFRESH_SPEC" envDefault:"@every 5m"`

	FXProvider string        `env:"FX_PROVIDER" envDefault:"erapi"`
	FXURL      string        `env:"FX_URL" envDefault:"https://open.er-api.com/v6"`
	CBRURL     string        `env:"CBR_URL" envDefault:"https://www.cbr.ru/scripts/XML_daily.asp"`
	FXTimeout  time.Duration `env:"FX_TIMEOUT" envDefault:"10s"`
	FXCacheTTL time.Duration `env:"FX_CACHE_TTL" envDefault:"10m"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SenderEmail  string `env:"SENDER_EMAIL"`
	NotifyEmail  string `env:"NOTIFY_EMAIL"`
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	switch cfg.StoreDriver {
	case StoreCSV:
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("DATA_DIR is required for the csv store")
		}
	case StorePostgres:
		if cfg.DBConn == "" {
			return nil, fmt.Errorf("DB_CONN is required for the postgres store")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	switch cfg.FXProvider {
	case FXProviderERAPI, FXProviderCBR:
	default:
		return nil, fmt.Errorf("unknown FX_PROVIDER %q", cfg.FXProvider)
	}

	if cfg.AuthMaxAttempts < 1 {
		return nil, fmt.Errorf("AUTH_MAX_ATTEMPTS must be at least 1")
	}
	if cfg.SMTPHost != "" && (cfg.SenderEmail == "" || cfg.NotifyEmail == "") {
		return nil, fmt.Errorf("SENDER_EMAIL and NOTIFY_EMAIL are required when SMTP_HOST is set")
	}

	return cfg, nil
}

// RequireJWTSecret fails when no token signing secret is configured.
// Only the web API issues tokens, so the console does not call it.
func (c *Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

// ClientsPath returns the clients table location
func (c *Config) ClientsPath() string {
	return c.dataPath(c.ClientsFile)
}

// RulesPath returns the score rule table location
func (c *Config) RulesPath() string {
	return c.dataPath(c.RulesFile)
}

// LedgerPath returns the request ledger location
func (c *Config) LedgerPath() string {
	return c.dataPath(c.LedgerFile)
}

func (c *Config) dataPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}
