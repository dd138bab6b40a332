package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	App struct {
		Env         string
		Timezone    string
		LogLevel    string `mapstructure:"log_level"`
		CompanyName string `mapstructure:"company_name"`
	} `mapstructure:"app"`

	Telegram struct {
		Token          string
		PollTimeout    int     `mapstructure:"poll_timeout"`
		AllowedChatIDs []int64 `mapstructure:"allowed_chat_ids"`
	} `mapstructure:"telegram"`

	HTTP struct {
		Addr      string
		PublicURL string `mapstructure:"public_url"`
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Storage struct {
		Backend string
	} `mapstructure:"storage"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "prod")
	v.SetDefault("app.timezone", "Asia/Taipei")
	v.SetDefault("app.log_level", "")
	v.SetDefault("app.company_name", "BOSS")
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.poll_timeout", 60)
	v.SetDefault("telegram.allowed_chat_ids", []int64{})
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.public_url", "")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("storage.backend", BackendPostgres)
	v.SetDefault("metrics.enabled", true)
}

// Load reads path, an optional .env next to the working directory and
// APP_* environment overrides such as APP_POSTGRES_DSN.
func Load(path string) (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := gotenv.Load(".env"); err != nil {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}

// Location resolves App.Timezone; "today" for chat entries is taken there.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.App.CompanyName) == "" {
		errs = append(errs, errors.New("app.company_name must not be empty"))
	}
	if strings.ContainsAny(c.App.CompanyName, " \t\n") {
		errs = append(errs, fmt.Errorf("app.company_name %q must be a single token", c.App.CompanyName))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("app.timezone %q: %w", c.App.Timezone, err))
	}
	switch c.Storage.Backend {
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("postgres.dsn is required for the postgres backend"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.backend %q: must be %s or %s", c.Storage.Backend, BackendPostgres, BackendMemory))
	}
	if c.Telegram.PollTimeout < 0 {
		errs = append(errs, fmt.Errorf("telegram.poll_timeout %d must not be negative", c.Telegram.PollTimeout))
	}
	if c.Telegram.Token == "" && c.HTTP.Addr == "" {
		errs = append(errs, errors.New("nothing to run: set telegram.token or http.addr"))
	}
	return errors.Join(errs...)
}

// ChatAllowed reports whether chatID may issue commands. An empty allowlist
// admits every chat.
func (c Config) ChatAllowed(chatID int64) bool {
	if len(c.Telegram.AllowedChatIDs) == 0 {
		return true
	}
	for _, id := range c.Telegram.AllowedChatIDs {
		if id == chatID {
			return true
		}
	}
	return false
}
