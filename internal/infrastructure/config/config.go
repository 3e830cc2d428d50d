package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Mail drivers accepted in MAIL_DRIVER.
const (
	MailDriverSMTP = "smtp"
	MailDriverLog  = "log"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
	SwaggerEnabled  bool          `env:"SWAGGER_ENABLED,  default=false"`

	Auth     AuthConfig
	Recovery RecoveryConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Mail     MailConfig
}

type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET, required"`
	TokenTTL        time.Duration `env:"TOKEN_TTL,        default=24h"`
	BcryptCost      int           `env:"BCRYPT_COST,      default=12"`
	TokenRevocation bool          `env:"TOKEN_REVOCATION, default=true"`
}

type RecoveryConfig struct {
	CodeLength int           `env:"RECOVERY_CODE_LENGTH, default=6"`
	CodeTTL    time.Duration `env:"RECOVERY_CODE_TTL,    default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=accounts"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Password string `env:"REDIS_PASSWORD"`
}

type MailConfig struct {
	Driver       string `env:"MAIL_DRIVER,   default=smtp"`
	SMTPHost     string `env:"SMTP_HOST,     default=localhost"`
	SMTPPort     int    `env:"SMTP_PORT,     default=587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPTLS      string `env:"SMTP_TLS,      default=mandatory"`
	From         string `env:"MAIL_FROM,     default=no-reply@localhost"`
	AppName      string `env:"MAIL_APP_NAME, default=Accounts"`
}

// IsDevelopment reports whether the process runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
// It panics when JWT_SECRET is missing or a value cannot be parsed.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith is Load with an explicit source of values.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must not be blank")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Recovery.CodeTTL < 0 {
		return fmt.Errorf("RECOVERY_CODE_TTL must not be negative, got %s", c.Recovery.CodeTTL)
	}
	switch c.Mail.Driver {
	case MailDriverSMTP, MailDriverLog:
	default:
		return fmt.Errorf("MAIL_DRIVER must be %q or %q, got %q", MailDriverSMTP, MailDriverLog, c.Mail.Driver)
	}
	return nil
}
