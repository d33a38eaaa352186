package configs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JoaoGSDC/streamline-app/configs"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := configs.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Session.CookieName != "twitch_session" {
		t.Fatalf("unexpected cookie name %q", cfg.Session.CookieName)
	}
	if cfg.Session.MaxAgeDays != 30 {
		t.Fatalf("unexpected max age %d", cfg.Session.MaxAgeDays)
	}
	if cfg.App.Timezone != "America/Sao_Paulo" {
		t.Fatalf("unexpected timezone %q", cfg.App.Timezone)
	}
	if !cfg.Ordering.Atomic {
		t.Fatalf("expected atomic ordering by default")
	}
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "streamline.toml")
	contents := `
[server]
port = 9090

[database]
driver = "sqlite"
path = "from-file.db"

[security]
allowed_origins = ["https://file.example"]
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("DB_PATH", "from-env.db")
	t.Setenv("SESSION_SECRET", testSecret)

	cfg, err := configs.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("file value ignored: port=%d", cfg.Server.Port)
	}
	if cfg.Database.Driver != configs.DriverSQLite {
		t.Fatalf("unexpected driver %q", cfg.Database.Driver)
	}
	if cfg.GetDatabaseURL() != "from-env.db" {
		t.Fatalf("env should override file, got %q", cfg.GetDatabaseURL())
	}
	if len(cfg.Security.AllowedOrigins) != 1 || cfg.Security.AllowedOrigins[0] != "https://file.example" {
		t.Fatalf("unexpected origins %#v", cfg.Security.AllowedOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := configs.LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	base := func() configs.Config {
		cfg := configs.Default()
		cfg.Session.Secret = testSecret
		return cfg
	}

	cases := []struct {
		name    string
		mutate  func(*configs.Config)
		wantErr string
	}{
		{"valid", func(*configs.Config) {}, ""},
		{"short secret", func(c *configs.Config) { c.Session.Secret = "short" }, "SESSION_SECRET"},
		{"bad driver", func(c *configs.Config) { c.Database.Driver = "mysql" }, "unsupported database driver"},
		{"bad timezone", func(c *configs.Config) { c.App.Timezone = "Mars/Olympus" }, "APP_TIMEZONE"},
		{"bad key", func(c *configs.Config) { c.Security.TokenKey = "abc" }, "TOKEN_SEALING_KEY"},
		{"good key", func(c *configs.Config) { c.Security.TokenKey = strings.Repeat("ab", 32) }, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSealingKeyDecodes(t *testing.T) {
	cfg := configs.Default()
	cfg.Security.TokenKey = strings.Repeat("0f", 32)
	key, err := cfg.SealingKey()
	if err != nil {
		t.Fatalf("SealingKey: %v", err)
	}
	if key == nil || key[0] != 0x0f || key[31] != 0x0f {
		t.Fatalf("unexpected key %v", key)
	}
}
