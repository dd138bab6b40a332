package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
app:
  env: dev
  company_name: 公司
telegram:
  token: abc
  allowed_chat_ids: [10, 20]
storage:
  backend: memory
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.App.Env != "dev" || c.App.CompanyName != "公司" {
		t.Errorf("app = %+v", c.App)
	}
	if c.App.Timezone != "Asia/Taipei" || c.HTTP.Addr != ":8080" || c.Telegram.PollTimeout != 60 {
		t.Errorf("defaults not applied: %+v", c)
	}
	if !c.ChatAllowed(20) || c.ChatAllowed(30) {
		t.Errorf("allowlist = %v", c.Telegram.AllowedChatIDs)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "postgres:\n  dsn: postgres://file\n")
	t.Setenv("APP_POSTGRES_DSN", "postgres://env")
	t.Setenv("APP_APP_COMPANY_NAME", "HOUSE")

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Postgres.DSN != "postgres://env" {
		t.Errorf("dsn = %q, want env override", c.Postgres.DSN)
	}
	if c.App.CompanyName != "HOUSE" {
		t.Errorf("company = %q, want env override", c.App.CompanyName)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateAggregates(t *testing.T) {
	var c Config
	c.App.Timezone = "Mars/Olympus"
	c.Storage.Backend = "floppy"
	c.Telegram.PollTimeout = -1

	err := c.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"company_name", "app.timezone", "storage.backend", "poll_timeout", "nothing to run"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestValidatePostgresNeedsDSN(t *testing.T) {
	var c Config
	c.App.CompanyName = "BOSS"
	c.App.Timezone = "UTC"
	c.Storage.Backend = BackendPostgres
	c.HTTP.Addr = ":8080"
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "postgres.dsn") {
		t.Errorf("Validate() = %v, want dsn error", err)
	}
}
