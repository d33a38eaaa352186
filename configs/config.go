package configs

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server struct {
		Port      int    `toml:"port"`
		Host      string `toml:"host"`
		PublicURL string `toml:"public_url"`
	} `toml:"server"`
	Database struct {
		Driver   string `toml:"driver"`
		Host     string `toml:"host"`
		Port     int    `toml:"port"`
		User     string `toml:"user"`
		Password string `toml:"password"`
		DBName   string `toml:"dbname"`
		SSLMode  string `toml:"sslmode"`
		Path     string `toml:"path"`
	} `toml:"database"`
	Twitch struct {
		ClientID     string `toml:"client_id"`
		ClientSecret string `toml:"client_secret"`
		RedirectURL  string `toml:"redirect_url"`
		FrontendURL  string `toml:"frontend_url"`
	} `toml:"twitch"`
	IGDB struct {
		ClientID       string `toml:"client_id"`
		AccessToken    string `toml:"access_token"`
		BaseURL        string `toml:"base_url"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
	} `toml:"igdb"`
	Session struct {
		Secret     string `toml:"secret"`
		MaxAgeDays int    `toml:"max_age_days"`
		CookieName string `toml:"cookie_name"`
		Secure     bool   `toml:"secure"`
	} `toml:"session"`
	Security struct {
		AllowedOrigins []string `toml:"allowed_origins"`
		TokenKey       string   `toml:"token_key"`
	} `toml:"security"`
	App struct {
		Timezone string `toml:"timezone"`
	} `toml:"app"`
	Ordering struct {
		Atomic bool `toml:"atomic"`
	} `toml:"ordering"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
}

// Default returns the configuration used when neither a file nor the
// environment overrides a value.
func Default() Config {
	var config Config

	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.PublicURL = "http://localhost:8080"

	config.Database.Driver = DriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = 5432
	config.Database.User = "postgres"
	config.Database.DBName = "streamline"
	config.Database.SSLMode = "disable"
	config.Database.Path = "streamline.db"

	config.Twitch.RedirectURL = "http://localhost:8080/api/auth/twitch/callback"
	config.Twitch.FrontendURL = "http://localhost:3000"

	config.IGDB.BaseURL = "https://api.igdb.com/v4"
	config.IGDB.TimeoutSeconds = 10

	config.Session.MaxAgeDays = 30
	config.Session.CookieName = "twitch_session"

	config.Security.AllowedOrigins = []string{"http://localhost:3000"}

	config.App.Timezone = "America/Sao_Paulo"
	config.Ordering.Atomic = true
	config.Log.Level = "info"

	return config
}

// LoadConfig builds the configuration from defaults, then the optional TOML
// file at path, then the environment (a .env file is loaded first when present).
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	config := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).Decode(&config); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&config)
	return &config, nil
}

func applyEnv(config *Config) {
	// Server config
	config.Server.Port = getEnvAsInt("SERVER_PORT", config.Server.Port)
	config.Server.Host = getEnv("SERVER_HOST", config.Server.Host)
	config.Server.PublicURL = getEnv("PUBLIC_URL", config.Server.PublicURL)

	// Database config
	config.Database.Driver = getEnv("DB_DRIVER", config.Database.Driver)
	config.Database.Host = getEnv("DB_HOST", config.Database.Host)
	config.Database.Port = getEnvAsInt("DB_PORT", config.Database.Port)
	config.Database.User = getEnv("DB_USER", config.Database.User)
	config.Database.Password = getEnv("DB_PASSWORD", config.Database.Password)
	config.Database.DBName = getEnv("DB_NAME", config.Database.DBName)
	config.Database.SSLMode = getEnv("DB_SSLMODE", config.Database.SSLMode)
	config.Database.Path = getEnv("DB_PATH", config.Database.Path)

	// Twitch OAuth
	config.Twitch.ClientID = getEnv("TWITCH_CLIENT_ID", config.Twitch.ClientID)
	config.Twitch.ClientSecret = getEnv("TWITCH_CLIENT_SECRET", config.Twitch.ClientSecret)
	config.Twitch.RedirectURL = getEnv("TWITCH_REDIRECT_URI", config.Twitch.RedirectURL)
	config.Twitch.FrontendURL = getEnv("FRONTEND_URL", config.Twitch.FrontendURL)

	// IGDB
	config.IGDB.ClientID = getEnv("IGDB_CLIENT_ID", config.IGDB.ClientID)
	config.IGDB.AccessToken = getEnv("IGDB_ACCESS_TOKEN", config.IGDB.AccessToken)
	config.IGDB.BaseURL = getEnv("IGDB_BASE_URL", config.IGDB.BaseURL)
	config.IGDB.TimeoutSeconds = getEnvAsInt("IGDB_TIMEOUT_SECONDS", config.IGDB.TimeoutSeconds)

	// Session
	config.Session.Secret = getEnv("SESSION_SECRET", config.Session.Secret)
	config.Session.MaxAgeDays = getEnvAsInt("SESSION_MAX_AGE_DAYS", config.Session.MaxAgeDays)
	config.Session.CookieName = getEnv("SESSION_COOKIE_NAME", config.Session.CookieName)
	config.Session.Secure = getEnvAsBool("SESSION_SECURE", config.Session.Secure)

	// Security
	if origins, ok := os.LookupEnv("CORS_ALLOWED_ORIGINS"); ok {
		config.Security.AllowedOrigins = splitList(origins)
	}
	config.Security.TokenKey = getEnv("TOKEN_SEALING_KEY", config.Security.TokenKey)

	config.App.Timezone = getEnv("APP_TIMEZONE", config.App.Timezone)
	config.Ordering.Atomic = getEnvAsBool("ORDERING_ATOMIC", config.Ordering.Atomic)
	config.Log.Level = getEnv("LOG_LEVEL", config.Log.Level)
}

// Validate reports the first configuration problem that would prevent the
// server from starting.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Server.Port <= 0 {
		return errors.New("server port must be positive")
	}
	if len(c.Session.Secret) < 32 {
		return errors.New("SESSION_SECRET must be at least 32 characters long")
	}
	if c.Session.MaxAgeDays <= 0 {
		return errors.New("session max age must be positive")
	}
	if c.Security.TokenKey != "" {
		if _, err := c.SealingKey(); err != nil {
			return err
		}
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// GetDatabaseURL returns the data source name for the configured driver
func (c *Config) GetDatabaseURL() string {
	if c.Database.Driver == DriverSQLite {
		return c.Database.Path
	}
	return "user=" + c.Database.User +
		" password=" + c.Database.Password +
		" host=" + c.Database.Host +
		" port=" + strconv.Itoa(c.Database.Port) +
		" dbname=" + c.Database.DBName +
		" sslmode=" + c.Database.SSLMode
}

// Location resolves the timezone used for every calendar computation.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}

// SealingKey decodes the 32-byte key used to seal third-party tokens at rest.
func (c *Config) SealingKey() (*[32]byte, error) {
	if c.Security.TokenKey == "" {
		return nil, nil
	}
	raw, err := hex.DecodeString(c.Security.TokenKey)
	if err != nil || len(raw) != 32 {
		return nil, errors.New("TOKEN_SEALING_KEY must be 64 hex characters")
	}
	var key [32]byte
	copy(key[:], raw)
	return &key, nil
}

func (c *Config) ListenAddr() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

func (c *Config) SessionMaxAge() time.Duration {
	return time.Duration(c.Session.MaxAgeDays) * 24 * time.Hour
}

func (c *Config) IGDBTimeout() time.Duration {
	return time.Duration(c.IGDB.TimeoutSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func splitList(input string) []string {
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
