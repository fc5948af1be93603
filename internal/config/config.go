// Package config loads RoutineShell settings from defaults, an optional
// routine.yaml file, .env files and ROUTINE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variables read by RoutineShell.
const EnvPrefix = "ROUTINE"

// DefaultEndpoint is the chat endpoint used by the http provider when none is configured.
const DefaultEndpoint = "http://localhost:3000/api/chat"

// Supported values for the provider key.
const (
	ProviderHTTP      = "http"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Supported values for the storage.driver key.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config is the resolved application configuration.
type Config struct {
	Endpoint     string `mapstructure:"endpoint"`
	Provider     string `mapstructure:"provider"`
	Model        string `mapstructure:"model"`
	APIKey       string `mapstructure:"api_key"`
	SystemPrompt string `mapstructure:"system_prompt"`

	Catalog CatalogConfig `mapstructure:"catalog"`
	Storage StorageConfig `mapstructure:"storage"`

	Theme       string `mapstructure:"theme"`
	MetricsAddr string `mapstructure:"metrics_addr"`
	HistoryFile string `mapstructure:"history_file"`
	DebugHTTP   bool   `mapstructure:"debug_http"`

	// ConfigDir is where routine.yaml, .env and default data files live.
	ConfigDir string `mapstructure:"-"`
}

// CatalogConfig selects the product catalog source.
type CatalogConfig struct {
	// Source is a URL, a file path, "embedded:" or "s3://bucket/key".
	Source string `mapstructure:"source"`
}

// StorageConfig selects where the selection slot is persisted.
type StorageConfig struct {
	Driver      string `mapstructure:"driver"`
	Path        string `mapstructure:"path"`
	Key         string `mapstructure:"key"`
	RedisAddr   string `mapstructure:"redis_addr"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

type loadOptions struct {
	configDir  string
	workDir    string
	configFile string
}

// Option customizes Load.
type Option func(*loadOptions)

// WithConfigDir overrides the user configuration directory.
func WithConfigDir(dir string) Option {
	return func(o *loadOptions) { o.configDir = dir }
}

// WithWorkingDir overrides the directory searched for routine.yaml and the local .env.
func WithWorkingDir(dir string) Option {
	return func(o *loadOptions) { o.workDir = dir }
}

// WithConfigFile reads an explicit config file instead of searching for routine.yaml.
func WithConfigFile(path string) Option {
	return func(o *loadOptions) { o.configFile = path }
}

// SetDefaults registers the default value of every known key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("endpoint", DefaultEndpoint)
	v.SetDefault("provider", ProviderHTTP)
	v.SetDefault("model", "")
	v.SetDefault("api_key", "")
	v.SetDefault("system_prompt", "")
	v.SetDefault("catalog.source", "embedded:")
	v.SetDefault("storage.driver", DriverFile)
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.key", "selectedProducts")
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("theme", "default")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("history_file", "")
	v.SetDefault("debug_http", false)
}

// Load resolves configuration into a Config. Precedence, highest first:
// bound flags, environment, routine.yaml, .env files, defaults.
func Load(v *viper.Viper, opts ...Option) (*Config, error) {
	o := loadOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.configDir == "" {
		o.configDir = DefaultConfigDir()
	}
	if o.workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			o.workDir = wd
		}
	}

	SetDefaults(v)

	if err := applyDotEnv(v, o); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, o); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.ConfigDir = o.configDir
	cfg.applyDerivedDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultConfigDir returns ROUTINE_CONFIG_DIR or <user config dir>/routineshell.
func DefaultConfigDir() string {
	if dir := os.Getenv(EnvPrefix + "_CONFIG_DIR"); dir != "" {
		return dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return ".routineshell"
	}
	return filepath.Join(base, "routineshell")
}

// Validate checks enumerated keys.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderHTTP, ProviderOpenAI, ProviderAnthropic, ProviderGemini:
	default:
		return fmt.Errorf("unsupported provider %q (want http, openai, anthropic or gemini)", c.Provider)
	}

	switch c.Storage.Driver {
	case DriverMemory, DriverFile, DriverSQLite, DriverRedis, DriverPostgres:
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}

	if strings.TrimSpace(c.Storage.Key) == "" {
		return errors.New("storage.key cannot be empty")
	}
	if c.Provider == ProviderHTTP && strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("endpoint is required for the http provider")
	}
	if c.Storage.Driver == DriverPostgres && c.Storage.PostgresDSN == "" {
		return errors.New("storage.postgres_dsn is required for the postgres driver")
	}
	return nil
}

func (c *Config) applyDerivedDefaults() {
	if c.Storage.Path == "" {
		switch c.Storage.Driver {
		case DriverFile:
			c.Storage.Path = filepath.Join(c.ConfigDir, "selection.json")
		case DriverSQLite:
			c.Storage.Path = filepath.Join(c.ConfigDir, "routine.db")
		}
	}
	if c.HistoryFile == "" {
		c.HistoryFile = filepath.Join(c.ConfigDir, "history")
	}
}

// readConfigFile reads routine.yaml when present. A missing file is not an error.
func readConfigFile(v *viper.Viper, o loadOptions) error {
	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
	} else {
		v.SetConfigName("routine")
		v.SetConfigType("yaml")
		if o.workDir != "" {
			v.AddConfigPath(o.workDir)
		}
		v.AddConfigPath(o.configDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// applyDotEnv folds ROUTINE_* entries from the config-dir .env and then the
// local .env into viper defaults. Local entries win over config-dir entries.
func applyDotEnv(v *viper.Viper, o loadOptions) error {
	merged := make(map[string]string)
	for _, path := range []string{filepath.Join(o.configDir, ".env"), filepath.Join(o.workDir, ".env")} {
		envMap, err := readDotEnv(path)
		if err != nil {
			return err
		}
		for key, value := range envMap {
			merged[key] = value
		}
	}

	prefix := EnvPrefix + "_"
	for key, value := range merged {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		name := strings.TrimPrefix(key, prefix)
		if name == "CONFIG_DIR" || name == "LOG_LEVEL" {
			continue
		}
		if configKey, ok := envKeyToConfigKey(v, name); ok {
			v.SetDefault(configKey, value)
		}
	}
	return nil
}

func readDotEnv(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	envMap, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return envMap, nil
}

// envKeyToConfigKey maps STORAGE_REDIS_ADDR back to storage.redis_addr.
func envKeyToConfigKey(v *viper.Viper, name string) (string, bool) {
	want := strings.ToLower(name)
	for _, key := range v.AllKeys() {
		if strings.ReplaceAll(key, ".", "_") == want {
			return key, true
		}
	}
	return "", false
}
