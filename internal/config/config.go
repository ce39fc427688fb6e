package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultMaxUploadBytes caps uploaded background images at 5 MB.
const DefaultMaxUploadBytes = 5 << 20

// Config captures the runtime configuration for the application.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logging   LoggingConfig   `toml:"logging"`
	Auth      AuthConfig      `toml:"auth"`
	AI        AIConfig        `toml:"ai"`
	Upload    UploadConfig    `toml:"upload"`
	Templates TemplatesConfig `toml:"templates"`
}

// ServerConfig configures the HTTP server runtime behavior.
type ServerConfig struct {
	Addr      string `toml:"addr"`
	PublicURL string `toml:"public_url"`
	StaticDir string `toml:"static_dir"`
}

// DatabaseConfig contains the database connection settings.
type DatabaseConfig struct {
	URL             string        `toml:"url"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `toml:"conn_max_idle_time"`
	UseMock         bool          `toml:"use_mock"`
}

// LoggingConfig selects the minimum log level.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// AuthConfig groups authentication settings.
type AuthConfig struct {
	Session SessionConfig `toml:"session"`
}

// SessionConfig controls the session cookie.
type SessionConfig struct {
	Lifetime     time.Duration `toml:"lifetime"`
	CookieName   string        `toml:"cookie_name"`
	CookieDomain string        `toml:"cookie_domain"`
	CookieSecure bool          `toml:"cookie_secure"`
}

// AIConfig configures the image generation client. An empty APIKey disables
// AI backgrounds.
type AIConfig struct {
	APIKey  string        `toml:"api_key"`
	BaseURL string        `toml:"base_url"`
	Model   string        `toml:"model"`
	Timeout time.Duration `toml:"timeout"`
}

// UploadConfig configures where custom backgrounds are stored.
type UploadConfig struct {
	Dir      string `toml:"dir"`
	URLPath  string `toml:"url_path"`
	MaxBytes int64  `toml:"max_bytes"`
}

// TemplatesConfig configures the template registry.
type TemplatesConfig struct {
	Default string `toml:"default"`
}

// Load inspects the environment and builds a Config value. When CARDLY_CONFIG
// names a TOML file its values are read first; environment variables win.
func Load() (Config, error) {
	file := Config{}
	if path := strings.TrimSpace(os.Getenv("CARDLY_CONFIG")); path != "" {
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := Config{}

	cfg.Server = ServerConfig{
		Addr: firstNonEmpty(
			os.Getenv("SERVER_ADDR"),
			os.Getenv("ADDR"),
			file.Server.Addr,
			":8080",
		),
		PublicURL: strings.TrimRight(firstNonEmpty(os.Getenv("PUBLIC_URL"), file.Server.PublicURL), "/"),
		StaticDir: firstNonEmpty(os.Getenv("STATIC_DIR"), file.Server.StaticDir, "web/static"),
	}

	cfg.Database = DatabaseConfig{
		URL: firstNonEmpty(
			os.Getenv("DATABASE_URL"),
			os.Getenv("DB_URL"),
			file.Database.URL,
		),
		MaxIdleConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_IDLE_CONNS"), file.Database.MaxIdleConns),
		MaxOpenConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_OPEN_CONNS"), file.Database.MaxOpenConns),
		ConnMaxLifetime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_LIFETIME"), file.Database.ConnMaxLifetime),
		ConnMaxIdleTime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_IDLE_TIME"), file.Database.ConnMaxIdleTime),
		UseMock:         parseBoolWithDefault(os.Getenv("DATABASE_USE_MOCK"), file.Database.UseMock),
	}

	cfg.Logging = LoggingConfig{
		Level: firstNonEmpty(os.Getenv("LOG_LEVEL"), file.Logging.Level, "info"),
	}

	cfg.Auth = AuthConfig{
		Session: SessionConfig{
			Lifetime:     parseDurationWithDefault(os.Getenv("SESSION_LIFETIME"), file.Auth.Session.Lifetime),
			CookieName:   firstNonEmpty(os.Getenv("SESSION_COOKIE_NAME"), file.Auth.Session.CookieName),
			CookieDomain: firstNonEmpty(os.Getenv("SESSION_COOKIE_DOMAIN"), file.Auth.Session.CookieDomain),
			CookieSecure: parseBoolWithDefault(os.Getenv("SESSION_COOKIE_SECURE"), file.Auth.Session.CookieSecure),
		},
	}

	cfg.AI = AIConfig{
		APIKey:  firstNonEmpty(os.Getenv("OPENAI_API_KEY"), file.AI.APIKey),
		BaseURL: firstNonEmpty(os.Getenv("OPENAI_BASE_URL"), file.AI.BaseURL),
		Model:   firstNonEmpty(os.Getenv("OPENAI_IMAGE_MODEL"), file.AI.Model),
		Timeout: parseDurationWithDefault(os.Getenv("OPENAI_TIMEOUT"), file.AI.Timeout),
	}

	maxBytes := file.Upload.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	cfg.Upload = UploadConfig{
		Dir:      firstNonEmpty(os.Getenv("UPLOAD_DIR"), file.Upload.Dir, "data/uploads"),
		URLPath:  firstNonEmpty(os.Getenv("UPLOAD_URL_PATH"), file.Upload.URLPath, "/media/"),
		MaxBytes: int64(parseIntWithDefault(os.Getenv("UPLOAD_MAX_BYTES"), int(maxBytes))),
	}

	cfg.Templates = TemplatesConfig{
		Default: firstNonEmpty(os.Getenv("DEFAULT_TEMPLATE"), file.Templates.Default),
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return Config{}, errors.New("server address must not be empty")
	}
	if !cfg.Database.UseMock && strings.TrimSpace(cfg.Database.URL) == "" {
		return Config{}, errors.New("database URL must be set unless DATABASE_USE_MOCK is enabled")
	}
	if cfg.Upload.MaxBytes <= 0 {
		return Config{}, fmt.Errorf("upload max bytes must be positive, got %d", cfg.Upload.MaxBytes)
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func parseIntWithDefault(value string, def int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseDurationWithDefault(value string, def time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseBoolWithDefault(value string, def bool) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}
