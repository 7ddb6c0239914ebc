package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Значения по умолчанию для клиента
const (
	DefaultServerURL       = "http://localhost:8080"
	DefaultDBPath          = "loyalty-client.db"
	DefaultRequestTimeout  = 30 * time.Second
	DefaultRefreshTimeout  = 30 * time.Second
	DefaultRefreshSkew     = 30 * time.Second
	DefaultCacheMaxSize    = 100 * 1024 * 1024
	DefaultCacheMaxAge     = 7 * 24 * time.Hour
	DefaultCacheMaxWidth   = 1200
	DefaultCacheQuality    = 80
	DefaultCleanupInterval = time.Hour
)

// CacheConfig - настройки дискового кэша изображений
type CacheConfig struct {
	Dir             string   `toml:"dir"`
	MaxSize         ByteSize `toml:"max_size"`
	MaxAge          Duration `toml:"max_age"`
	CleanupInterval Duration `toml:"cleanup_interval"`
	MaxWidth        int      `toml:"max_width"`
	Quality         int      `toml:"quality"`
}

// ClientConfig - итоговая конфигурация клиента
type ClientConfig struct {
	ServerURL      string      `toml:"server_url"`
	DBPath         string      `toml:"db_path"`
	LogLevel       string      `toml:"log_level"`
	Cache          CacheConfig `toml:"cache"`
	RequestTimeout Duration    `toml:"request_timeout"`
	RefreshTimeout Duration    `toml:"refresh_timeout"`
	RefreshSkew    Duration    `toml:"refresh_skew"`
	ShowVersion    bool        `toml:"-"`
}

// DefaultClientConfig возвращает конфигурацию по умолчанию
func DefaultClientConfig() *ClientConfig {
	cacheDir := filepath.Join(os.TempDir(), "loyalty")
	if dir, err := os.UserCacheDir(); err == nil {
		cacheDir = filepath.Join(dir, "loyalty")
	}

	return &ClientConfig{
		ServerURL:      DefaultServerURL,
		DBPath:         DefaultDBPath,
		LogLevel:       "info",
		RequestTimeout: Duration{DefaultRequestTimeout},
		RefreshTimeout: Duration{DefaultRefreshTimeout},
		RefreshSkew:    Duration{DefaultRefreshSkew},
		Cache: CacheConfig{
			Dir:             cacheDir,
			MaxSize:         DefaultCacheMaxSize,
			MaxAge:          Duration{DefaultCacheMaxAge},
			CleanupInterval: Duration{DefaultCleanupInterval},
			MaxWidth:        DefaultCacheMaxWidth,
			Quality:         DefaultCacheQuality,
		},
	}
}

// Options задают источники конфигурации; нулевые значения означают
// окружение процесса и .env в текущем каталоге
type Options struct {
	LookupEnv func(string) (string, bool)
	Output    io.Writer
	EnvFile   string
}

// LoadClient собирает конфигурацию клиента из (по возрастанию приоритета):
// значений по умолчанию, TOML файла, .env и окружения, флагов командной строки.
// Возвращает оставшиеся позиционные аргументы (команду и ее параметры).
func LoadClient(args []string, opts Options) (*ClientConfig, []string, error) {
	cfg := DefaultClientConfig()

	flags := flag.NewFlagSet("loyalty", flag.ContinueOnError)
	if opts.Output != nil {
		flags.SetOutput(opts.Output)
	}

	configPath := flags.String("config", "", "Path to TOML config file (env LOYALTY_CONFIG)")
	envFile := flags.String("env-file", DefaultEnvFile, "Path to .env file")
	showVersion := flags.Bool("version", false, "Show version information")
	serverURL := flags.String("server", cfg.ServerURL, "Server URL")
	dbPath := flags.String("db", cfg.DBPath, "Path to local database")
	logLevel := flags.String("log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	cacheDir := flags.String("cache-dir", cfg.Cache.Dir, "Image cache directory")
	requestTimeout := flags.Duration("timeout", cfg.RequestTimeout.Duration, "API request timeout")

	if err := flags.Parse(args); err != nil {
		return nil, nil, err
	}

	if opts.EnvFile != "" && !isFlagSet(flags, "env-file") {
		*envFile = opts.EnvFile
	}
	env, err := newEnvSource(*envFile, opts.LookupEnv)
	if err != nil {
		return nil, nil, err
	}

	// TOML файл
	path := *configPath
	if path == "" {
		path, _ = env.get("LOYALTY_CONFIG")
	}
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, nil, err
		}
	}

	// Окружение
	env.string("LOYALTY_SERVER_URL", &cfg.ServerURL)
	env.string("LOYALTY_DB", &cfg.DBPath)
	env.string("LOYALTY_LOG_LEVEL", &cfg.LogLevel)
	env.string("LOYALTY_CACHE_DIR", &cfg.Cache.Dir)
	if err := errors.Join(
		env.duration("LOYALTY_REQUEST_TIMEOUT", &cfg.RequestTimeout),
		env.duration("LOYALTY_REFRESH_TIMEOUT", &cfg.RefreshTimeout),
		env.duration("LOYALTY_REFRESH_SKEW", &cfg.RefreshSkew),
		env.duration("LOYALTY_CACHE_MAX_AGE", &cfg.Cache.MaxAge),
		env.size("LOYALTY_CACHE_MAX_SIZE", &cfg.Cache.MaxSize),
	); err != nil {
		return nil, nil, fmt.Errorf("invalid environment: %w", err)
	}

	// Явно заданные флаги перекрывают все остальное
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "server":
			cfg.ServerURL = *serverURL
		case "db":
			cfg.DBPath = *dbPath
		case "log-level":
			cfg.LogLevel = *logLevel
		case "cache-dir":
			cfg.Cache.Dir = *cacheDir
		case "timeout":
			cfg.RequestTimeout = Duration{*requestTimeout}
		}
	})
	cfg.ShowVersion = *showVersion

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, flags.Args(), nil
}

// Validate проверяет конфигурацию клиента
func (c *ClientConfig) Validate() error {
	var errs []error

	if c.ServerURL == "" {
		errs = append(errs, errors.New("server_url cannot be empty"))
	} else if u, err := url.Parse(c.ServerURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("server_url %q is not an absolute URL", c.ServerURL))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path cannot be empty"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.RequestTimeout.Duration <= 0 {
		errs = append(errs, errors.New("request_timeout must be positive"))
	}
	if c.RefreshTimeout.Duration <= 0 {
		errs = append(errs, errors.New("refresh_timeout must be positive"))
	}
	if c.RefreshSkew.Duration < 0 {
		errs = append(errs, errors.New("refresh_skew cannot be negative"))
	}
	if c.Cache.Dir == "" {
		errs = append(errs, errors.New("cache.dir cannot be empty"))
	}
	if c.Cache.MaxSize == 0 {
		errs = append(errs, errors.New("cache.max_size must be positive"))
	}
	if c.Cache.MaxAge.Duration <= 0 {
		errs = append(errs, errors.New("cache.max_age must be positive"))
	}
	if c.Cache.CleanupInterval.Duration <= 0 {
		errs = append(errs, errors.New("cache.cleanup_interval must be positive"))
	}
	if c.Cache.MaxWidth <= 0 {
		errs = append(errs, errors.New("cache.max_width must be positive"))
	}
	if c.Cache.Quality < 1 || c.Cache.Quality > 100 {
		errs = append(errs, fmt.Errorf("cache.quality must be between 1 and 100, got %d", c.Cache.Quality))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func decodeFile(path string, v any) error {
	md, err := toml.DecodeFile(path, v)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s not found: %w", path, err)
		}
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config file %s: unknown keys %v", path, undecoded)
	}
	return nil
}

func isFlagSet(flags *flag.FlagSet, name string) bool {
	set := false
	flags.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
