// Package config loads the aashub configuration from YAML, a .env file and
// the environment, in that order of precedence (later wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Server       ServerConfig       `yaml:"server" json:"server"`
	UI           UIConfig           `yaml:"ui" json:"ui"`
	Log          LogConfig          `yaml:"log" json:"log"`
	Database     DatabaseConfig     `yaml:"database" json:"database"`
	Auth         AuthConfig         `yaml:"auth" json:"auth"`
	Mail         MailConfig         `yaml:"mail" json:"mail"`
	Verification VerificationConfig `yaml:"verification" json:"verification"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr" jsonschema:"description=Address to bind (host:port)"`
	// PublicURL prefixes links sent to users, e.g. the verification link.
	PublicURL    string   `yaml:"public_url" json:"public_url,omitempty" jsonschema:"description=Externally reachable base URL"`
	AllowOrigins []string `yaml:"allow_origins" json:"allow_origins,omitempty" jsonschema:"description=CORS origins; empty allows all"`
}

type UIConfig struct {
	Title string `yaml:"title" json:"title"`
	Theme string `yaml:"theme" json:"theme" jsonschema:"enum=light,enum=dark"`
	Mount string `yaml:"mount" json:"mount" jsonschema:"description=Selector of the mount anchor in index.html"`
}

type LogConfig struct {
	Level string `yaml:"level" json:"level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" json:"driver" jsonschema:"enum=sqlite,enum=mysql"`
	DSN    string `yaml:"dsn" json:"dsn,omitempty"`
}

type AuthConfig struct {
	Secret     string `yaml:"secret" json:"secret,omitempty" jsonschema:"description=HMAC secret for session tokens"`
	SecretFile string `yaml:"secret_file" json:"secret_file,omitempty" jsonschema:"description=File holding the HMAC secret"`
	TokenTTL   string `yaml:"token_ttl" json:"token_ttl" jsonschema:"description=Token lifetime (Go duration)"`
	BcryptCost int    `yaml:"bcrypt_cost" json:"bcrypt_cost" jsonschema:"minimum=4,maximum=31"`
}

type MailConfig struct {
	Address            string `yaml:"address" json:"address,omitempty"`
	Password           string `yaml:"password" json:"password,omitempty"`
	SMTPHost           string `yaml:"smtp_host" json:"smtp_host,omitempty" jsonschema:"description=Empty logs mails instead of sending"`
	SMTPPort           int    `yaml:"smtp_port" json:"smtp_port,omitempty"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify" json:"insecure_skip_verify,omitempty"`
}

type VerificationConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: "0.0.0.0:3000", PublicURL: "http://localhost:3000"},
		UI:     UIConfig{Title: "AAS Hub", Theme: "light", Mount: "#app"},
		Log:    LogConfig{Level: "info"},
		Database: DatabaseConfig{
			Driver: "sqlite",
		},
		Auth: AuthConfig{TokenTTL: "24h", BcryptCost: 14},
		Mail: MailConfig{SMTPPort: 465},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. An empty path means Path(). A missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		p, err := Path()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, err
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		dir, err := DotDir()
		if err != nil {
			return cfg, err
		}
		cfg.Database.DSN = filepath.Join(dir, "aashub.db")
	}
	return cfg, cfg.Validate()
}

// LoadEnvFile loads variables from a .env file into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("env file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("AASHUB_ADDR", &cfg.Server.Addr)
	str("SERVER_ADDRESS", &cfg.Server.PublicURL)
	str("AASHUB_LOG_LEVEL", &cfg.Log.Level)
	str("AASHUB_DB_DRIVER", &cfg.Database.Driver)
	str("AASHUB_DB_DSN", &cfg.Database.DSN)
	str("AASHUB_JWT_SECRET", &cfg.Auth.Secret)
	str("MAIL_ADDRESS", &cfg.Mail.Address)
	str("MAIL_PASSWORD", &cfg.Mail.Password)
	str("MAIL_SMTP", &cfg.Mail.SMTPHost)
	if v, ok := os.LookupEnv("SMTP_PORT"); ok && strings.TrimSpace(v) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("SMTP_PORT: %w", err)
		}
		cfg.Mail.SMTPPort = port
	}
	if v, ok := os.LookupEnv("VERIFICATION_ENABLED"); ok {
		cfg.Verification.Enabled = strings.TrimSpace(v) == "true"
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("config: server.addr is empty")
	}
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("config: database.driver %q: want sqlite or mysql", c.Database.Driver)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q: want debug, info, warn or error", c.Log.Level)
	}
	if _, err := c.Auth.TTL(); err != nil {
		return err
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("config: auth.bcrypt_cost %d out of range 4..31", c.Auth.BcryptCost)
	}
	return nil
}

// TTL parses TokenTTL.
func (a AuthConfig) TTL() (time.Duration, error) {
	d, err := time.ParseDuration(a.TokenTTL)
	if err != nil {
		return 0, fmt.Errorf("config: auth.token_ttl: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: auth.token_ttl %s must be positive", a.TokenTTL)
	}
	return d, nil
}

// LoadSecret returns Secret, or the trimmed content of SecretFile.
func (a AuthConfig) LoadSecret() (string, error) {
	if a.Secret != "" {
		return a.Secret, nil
	}
	if a.SecretFile == "" {
		return "", errors.New("config: no auth secret configured")
	}
	b, err := os.ReadFile(a.SecretFile)
	if err != nil {
		return "", fmt.Errorf("config: auth.secret_file: %w", err)
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		return "", fmt.Errorf("config: auth.secret_file %s is empty", a.SecretFile)
	}
	return s, nil
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
