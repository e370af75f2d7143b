package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	AuthModeStatic = "static"
	AuthModeJWT    = "jwt"
)

type Config struct {
	Env           string       `yaml:"env"`
	Port          string       `yaml:"port"`
	DefaultLocale string       `yaml:"default_locale"`
	DB            DBConfig     `yaml:"db"`
	MealDB        MealDBConfig `yaml:"mealdb"`
	Redis         RedisConfig  `yaml:"redis"`
	Auth          AuthConfig   `yaml:"auth"`
	S3            S3Config     `yaml:"s3"`
}

type DBConfig struct {
	Driver   string `yaml:"driver"` // "postgres" | "sqlite"
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Port     string `yaml:"port"`
	Path     string `yaml:"path"` // sqlite only
}

type MealDBConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

type AuthConfig struct {
	Mode string `yaml:"mode"`
	// Static is the answer of the stub predicate in static mode.
	Static     bool          `yaml:"static"`
	JWTSecret  string        `yaml:"jwt_secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	CookieName string        `yaml:"cookie_name"`
	// SecureCookie marks session and notice cookies Secure. Always on in
	// production.
	SecureCookie bool `yaml:"secure_cookie"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	PublicURL string `yaml:"public_url"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Env:           "development",
		Port:          "8080",
		DefaultLocale: "sv",
		DB: DBConfig{
			Driver: "postgres",
			Host:   "localhost",
			Port:   "5432",
			Path:   "recipebook.db",
		},
		MealDB: MealDBConfig{
			BaseURL:  "https://www.themealdb.com/api/json/v1/1",
			Timeout:  10 * time.Second,
			CacheTTL: 10 * time.Minute,
		},
		Auth: AuthConfig{
			Mode:       AuthModeStatic,
			Static:     true,
			TokenTTL:   72 * time.Hour,
			CookieName: "recipebook_session",
		},
	}
}

// Load reads .env (if present), then the optional YAML file at path, then
// environment variables. Later sources win.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	envString("ENV", &cfg.Env)
	envString("PORT", &cfg.Port)
	envString("DEFAULT_LOCALE", &cfg.DefaultLocale)

	envString("DB_DRIVER", &cfg.DB.Driver)
	envString("DB_HOST", &cfg.DB.Host)
	envString("DB_USER", &cfg.DB.User)
	envString("DB_PASSWORD", &cfg.DB.Password)
	envString("DB_NAME", &cfg.DB.Name)
	envString("DB_PORT", &cfg.DB.Port)
	envString("DB_PATH", &cfg.DB.Path)

	envString("MEALDB_BASE_URL", &cfg.MealDB.BaseURL)
	if err := envDuration("MEALDB_TIMEOUT", &cfg.MealDB.Timeout); err != nil {
		return err
	}
	if err := envDuration("MEALDB_CACHE_TTL", &cfg.MealDB.CacheTTL); err != nil {
		return err
	}

	envString("REDIS_URL", &cfg.Redis.URL)

	envString("AUTH_MODE", &cfg.Auth.Mode)
	if err := envBool("AUTH_STATIC", &cfg.Auth.Static); err != nil {
		return err
	}
	envString("JWT_SECRET", &cfg.Auth.JWTSecret)
	if err := envDuration("TOKEN_TTL", &cfg.Auth.TokenTTL); err != nil {
		return err
	}
	envString("SESSION_COOKIE", &cfg.Auth.CookieName)
	if err := envBool("SESSION_SECURE", &cfg.Auth.SecureCookie); err != nil {
		return err
	}
	if cfg.Env == "production" {
		cfg.Auth.SecureCookie = true
	}

	envString("S3_BUCKET", &cfg.S3.Bucket)
	envString("S3_REGION", &cfg.S3.Region)
	if cfg.S3.Region == "" {
		envString("AWS_REGION", &cfg.S3.Region)
	}
	envString("CLOUDFRONT_URL", &cfg.S3.PublicURL)
	return nil
}

func (c *Config) Validate() error {
	switch c.Auth.Mode {
	case AuthModeStatic:
	case AuthModeJWT:
		if c.Auth.JWTSecret == "" {
			return errors.New("config: JWT_SECRET is required when AUTH_MODE=jwt")
		}
	default:
		return fmt.Errorf("config: unknown auth mode %q", c.Auth.Mode)
	}
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unknown db driver %q", c.DB.Driver)
	}
	if c.MealDB.BaseURL == "" {
		return errors.New("config: mealdb base url is empty")
	}
	return nil
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func envBool(key string, dst *bool) error {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = b
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = d
	return nil
}
