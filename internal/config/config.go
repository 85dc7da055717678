package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "STOCKTRACK"
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	KeyServerURL      = "server_url"
	KeyDebounce       = "debounce"
	KeyRequestTimeout = "request_timeout"
	KeyLogFile        = "log_file"
	KeyFormat         = "format"
	KeyServeAddr      = "serve.addr"
	KeyServeDriver    = "serve.driver"
	KeyServeDSN       = "serve.dsn"
)

const defaultConfigYAML = `# stocktrack configuration
# Every key can also be set with a STOCKTRACK_* environment variable
# (serve.addr -> STOCKTRACK_SERVE_ADDR) or a command-line flag.

server_url: http://localhost:8080/api/v1
debounce: 300ms
request_timeout: 10s

# log_file: /tmp/stocktrack.log

serve:
  addr: ":8080"
  driver: sqlite
  # dsn: ./stocktrack.sqlite
`

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"server":          KeyServerURL,
	"debounce":        KeyDebounce,
	"request-timeout": KeyRequestTimeout,
	"log-file":        KeyLogFile,
	"format":          KeyFormat,
	"addr":            KeyServeAddr,
	"driver":          KeyServeDriver,
	"dsn":             KeyServeDSN,
}

type Config struct {
	ServerURL      string
	Debounce       time.Duration
	RequestTimeout time.Duration
	LogFile        string
	Format         string
	Serve          ServeConfig

	// File is the config file that was read, empty when none existed.
	File string
}

type ServeConfig struct {
	Addr   string
	Driver string
	DSN    string
}

type LoadOptions struct {
	// Dir overrides the config directory (see Dir).
	Dir string
	// EnvFile is loaded into the process environment first; a missing file is ignored.
	EnvFile string
	// Flags are bound on top of env and file values.
	Flags *pflag.FlagSet
}

// Dir resolves the config directory: $STOCKTRACK_CONFIG_DIR, else ~/.stocktrack.
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv(envPrefix + "_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".stocktrack"), nil
}

func Load(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	dir := opts.Dir
	if dir == "" {
		d, err := Dir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := ensureDefaultConfigFile(dir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(KeyServerURL, "http://localhost:8080/api/v1")
	v.SetDefault(KeyDebounce, 300*time.Millisecond)
	v.SetDefault(KeyRequestTimeout, 10*time.Second)
	v.SetDefault(KeyFormat, "json")
	v.SetDefault(KeyServeAddr, ":8080")
	v.SetDefault(KeyServeDriver, "sqlite")
	v.SetDefault(KeyServeDSN, "")
	v.SetDefault(KeyLogFile, "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			f := opts.Flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	cfg := &Config{
		ServerURL:      strings.TrimSpace(v.GetString(KeyServerURL)),
		Debounce:       v.GetDuration(KeyDebounce),
		RequestTimeout: v.GetDuration(KeyRequestTimeout),
		LogFile:        strings.TrimSpace(v.GetString(KeyLogFile)),
		Format:         strings.TrimSpace(v.GetString(KeyFormat)),
		Serve: ServeConfig{
			Addr:   strings.TrimSpace(v.GetString(KeyServeAddr)),
			Driver: strings.TrimSpace(v.GetString(KeyServeDriver)),
			DSN:    strings.TrimSpace(v.GetString(KeyServeDSN)),
		},
		File: v.ConfigFileUsed(),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Debounce < 0 {
		return fmt.Errorf("%s must not be negative", KeyDebounce)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%s must be positive", KeyRequestTimeout)
	}
	switch c.Format {
	case "", "json", "edn", "table":
	default:
		return fmt.Errorf("unknown format: %s", c.Format)
	}
	switch c.Serve.Driver {
	case "sqlite", "pgx":
	default:
		return fmt.Errorf("unknown serve driver: %s (want sqlite or pgx)", c.Serve.Driver)
	}
	return nil
}

// ensureDefaultConfigFile writes a commented config.yaml the first time the directory is used.
func ensureDefaultConfigFile(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
