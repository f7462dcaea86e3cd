package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config stores the application configuration.
// Values come from the process environment, optionally seeded from a .env file.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Origins allowed to make credentialed cross-origin requests. Others get "*".
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// Database
	DBDriver   string `env:"DB_DRIVER" envDefault:"mysql"` // mysql or sqlite
	DBHost     string `env:"DB_HOST" envDefault:"127.0.0.1"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`
	DBUser     string `env:"DB_USER" envDefault:"root"`
	DBPassword string `env:"DB_PASSWORD"` // no default on purpose
	DBName     string `env:"DB_NAME" envDefault:"label"`
	DBPath     string `env:"DB_PATH" envDefault:"label.db"` // sqlite file when DB_DRIVER=sqlite
	DBLogLevel string `env:"DB_LOG_LEVEL" envDefault:"warn"`

	// Redis
	RedisHost     string `env:"REDIS_HOST" envDefault:"127.0.0.1"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Uploads
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"disk"` // disk or minio
	UploadDir      string `env:"UPLOAD_DIR" envDefault:"uploads"`
	MinioEndpoint  string `env:"MINIO_ENDPOINT" envDefault:"127.0.0.1:9000"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET" envDefault:"label"`
	MinioRegion    string `env:"MINIO_REGION" envDefault:"us-east-1"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	MinioPublicURL string `env:"MINIO_PUBLIC_URL"` // base URL prepended to object keys

	// OAuth
	OAuthClientID     string   `env:"OAUTH_CLIENT_ID"`
	OAuthClientSecret string   `env:"OAUTH_CLIENT_SECRET"`
	OAuthAuthURL      string   `env:"OAUTH_AUTH_URL"`
	OAuthTokenURL     string   `env:"OAUTH_TOKEN_URL"`
	OAuthUserInfoURL  string   `env:"OAUTH_USERINFO_URL"`
	OAuthRedirectURL  string   `env:"OAUTH_REDIRECT_URL" envDefault:"http://localhost:8080/api/oauth/callback"`
	OAuthScopes       []string `env:"OAUTH_SCOPES" envSeparator:"," envDefault:"openid,profile,email"`
	OwnerOpenID       string   `env:"OWNER_OPEN_ID"`

	// Sessions
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionCookie string        `env:"SESSION_COOKIE" envDefault:"app_session_id"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"8760h"`
	SecureCookies bool          `env:"SECURE_COOKIES" envDefault:"false"`

	// Logging
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"100"` // megabytes
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	LogMaxAge     int    `env:"LOG_MAX_AGE" envDefault:"30"` // days
	LogCompress   bool   `env:"LOG_COMPRESS" envDefault:"true"`

	WebAppDir string `env:"WEB_APP_DIR"`
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() (*Config, error) {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is Load for command entrypoints; it exits on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return cfg
}

// Validate checks values env.Parse cannot express.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.StorageBackend {
	case "disk", "minio":
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// RedisAddr returns host:port for the redis client.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// OAuthEnabled reports whether the external login flow is configured.
func (c *Config) OAuthEnabled() bool {
	return c.OAuthClientID != "" && c.OAuthAuthURL != "" && c.OAuthTokenURL != "" && c.OAuthUserInfoURL != ""
}
