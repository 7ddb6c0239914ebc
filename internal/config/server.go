package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"
)

// Значения по умолчанию для сервера
const (
	DefaultServerAddr     = ":8080"
	DefaultServerDB       = "loyalty-server.db"
	DefaultAccessTTL      = 15 * time.Minute
	DefaultRefreshTTL     = 30 * 24 * time.Hour
	DefaultCodeTTL        = 5 * time.Minute
	DefaultMaxCodeAttempt = 5
	minJWTSecretLen       = 32
)

// ServerConfig - конфигурация сервера
type ServerConfig struct {
	Addr            string
	DBPath          string
	JWTSecret       string
	LogLevel        string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	CodeTTL         time.Duration
	MaxCodeAttempts int
	RotateRefresh   bool
	ShowVersion     bool
}

// LoadServer читает конфигурацию сервера из флагов, окружения и .env
func LoadServer(args []string, output io.Writer, lookup func(string) (string, bool)) (*ServerConfig, error) {
	cfg := &ServerConfig{}

	flags := flag.NewFlagSet("loyalty-server", flag.ContinueOnError)
	if output != nil {
		flags.SetOutput(output)
	}

	flags.StringVar(&cfg.Addr, "addr", DefaultServerAddr, "HTTP server address")
	flags.StringVar(&cfg.DBPath, "db", DefaultServerDB, "Path to SQLite database")
	flags.StringVar(&cfg.JWTSecret, "jwt-secret", "", "JWT signing secret (env LOYALTY_JWT_SECRET)")
	flags.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flags.DurationVar(&cfg.AccessTTL, "access-ttl", DefaultAccessTTL, "Access token lifetime")
	flags.DurationVar(&cfg.RefreshTTL, "refresh-ttl", DefaultRefreshTTL, "Refresh token lifetime")
	flags.DurationVar(&cfg.CodeTTL, "code-ttl", DefaultCodeTTL, "One-time code lifetime")
	flags.IntVar(&cfg.MaxCodeAttempts, "max-code-attempts", DefaultMaxCodeAttempt, "Attempts allowed per code")
	flags.BoolVar(&cfg.RotateRefresh, "rotate-refresh", false, "Issue a new refresh token on every refresh")
	flags.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	envFile := flags.String("env-file", DefaultEnvFile, "Path to .env file")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	env, err := newEnvSource(*envFile, lookup)
	if err != nil {
		return nil, err
	}

	set := map[string]bool{}
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["jwt-secret"] {
		env.string("LOYALTY_JWT_SECRET", &cfg.JWTSecret)
	}
	if !set["addr"] {
		env.string("LOYALTY_ADDR", &cfg.Addr)
	}
	if !set["db"] {
		env.string("LOYALTY_SERVER_DB", &cfg.DBPath)
	}
	if !set["log-level"] {
		env.string("LOYALTY_LOG_LEVEL", &cfg.LogLevel)
	}
	if !set["rotate-refresh"] {
		if err := env.bool("LOYALTY_ROTATE_REFRESH", &cfg.RotateRefresh); err != nil {
			return nil, fmt.Errorf("invalid environment: %w", err)
		}
	}

	if cfg.ShowVersion {
		return cfg, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет конфигурацию сервера
func (c *ServerConfig) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("addr cannot be empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db cannot be empty"))
	}
	if len(c.JWTSecret) < minJWTSecretLen {
		errs = append(errs, fmt.Errorf("jwt secret must be at least %d characters", minJWTSecretLen))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.AccessTTL <= 0 {
		errs = append(errs, errors.New("access-ttl must be positive"))
	}
	if c.RefreshTTL <= c.AccessTTL {
		errs = append(errs, errors.New("refresh-ttl must be longer than access-ttl"))
	}
	if c.CodeTTL <= 0 {
		errs = append(errs, errors.New("code-ttl must be positive"))
	}
	if c.MaxCodeAttempts <= 0 {
		errs = append(errs, errors.New("max-code-attempts must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
