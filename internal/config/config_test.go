package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func load(t *testing.T, v *viper.Viper, configDir, workDir string) *Config {
	t.Helper()
	cfg, err := Load(v, WithConfigDir(configDir), WithWorkingDir(workDir))
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	configDir := t.TempDir()
	cfg := load(t, viper.New(), configDir, t.TempDir())

	assert.Equal(t, ProviderHTTP, cfg.Provider)
	assert.Equal(t, "http://localhost:3000/api/chat", cfg.Endpoint)
	assert.Equal(t, "embedded:", cfg.Catalog.Source)
	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "selectedProducts", cfg.Storage.Key)
	assert.Equal(t, filepath.Join(configDir, "selection.json"), cfg.Storage.Path)
	assert.Equal(t, filepath.Join(configDir, "history"), cfg.HistoryFile)
	assert.Equal(t, "default", cfg.Theme)
	assert.False(t, cfg.DebugHTTP)
}

func TestLoad_ConfigFile(t *testing.T) {
	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, "routine.yaml"), `
endpoint: http://assistant.local/chat
storage:
  driver: sqlite
  key: picks
theme: plain
`)

	configDir := t.TempDir()
	cfg := load(t, viper.New(), configDir, workDir)

	assert.Equal(t, "http://assistant.local/chat", cfg.Endpoint)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "picks", cfg.Storage.Key)
	assert.Equal(t, filepath.Join(configDir, "routine.db"), cfg.Storage.Path)
	assert.Equal(t, "plain", cfg.Theme)
}

func TestLoad_EnvironmentBeatsConfigFile(t *testing.T) {
	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, "routine.yaml"), "endpoint: http://from-file/chat\n")
	t.Setenv("ROUTINE_ENDPOINT", "http://from-env/chat")
	t.Setenv("ROUTINE_STORAGE_KEY", "envSlot")

	cfg := load(t, viper.New(), t.TempDir(), workDir)

	assert.Equal(t, "http://from-env/chat", cfg.Endpoint)
	assert.Equal(t, "envSlot", cfg.Storage.Key)
}

func TestLoad_DotEnvPrecedence(t *testing.T) {
	configDir := t.TempDir()
	workDir := t.TempDir()
	writeFile(t, filepath.Join(configDir, ".env"), "ROUTINE_MODEL=from-config-dir\nROUTINE_THEME=plain\nOTHER=ignored\n")
	writeFile(t, filepath.Join(workDir, ".env"), "ROUTINE_MODEL=from-local\n")

	cfg := load(t, viper.New(), configDir, workDir)

	assert.Equal(t, "from-local", cfg.Model)
	assert.Equal(t, "plain", cfg.Theme)
}

func TestLoad_RealEnvBeatsDotEnv(t *testing.T) {
	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, ".env"), "ROUTINE_MODEL=from-dotenv\n")
	t.Setenv("ROUTINE_MODEL", "from-env")

	cfg := load(t, viper.New(), t.TempDir(), workDir)

	assert.Equal(t, "from-env", cfg.Model)
}

func TestLoad_FlagBeatsEnvironment(t *testing.T) {
	t.Setenv("ROUTINE_PROVIDER", "openai")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("provider", "", "")
	require.NoError(t, flags.Parse([]string{"--provider", "anthropic"}))

	v := viper.New()
	require.NoError(t, v.BindPFlag("provider", flags.Lookup("provider")))

	cfg := load(t, v, t.TempDir(), t.TempDir())
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, "catalog:\n  source: s3://bucket/catalog.json\n")

	cfg, err := Load(viper.New(), WithConfigDir(t.TempDir()), WithWorkingDir(t.TempDir()), WithConfigFile(path))
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/catalog.json", cfg.Catalog.Source)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "unknown provider", yaml: "provider: carrier-pigeon\n"},
		{name: "unknown driver", yaml: "storage:\n  driver: floppy\n"},
		{name: "empty key", yaml: "storage:\n  key: \"  \"\n"},
		{name: "postgres without dsn", yaml: "storage:\n  driver: postgres\n"},
		{name: "malformed yaml", yaml: "endpoint: [unterminated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workDir := t.TempDir()
			writeFile(t, filepath.Join(workDir, "routine.yaml"), tt.yaml)

			_, err := Load(viper.New(), WithConfigDir(t.TempDir()), WithWorkingDir(workDir))
			assert.Error(t, err)
		})
	}
}

func TestDefaultConfigDir_EnvOverride(t *testing.T) {
	t.Setenv("ROUTINE_CONFIG_DIR", "/tmp/routine-test")
	assert.Equal(t, "/tmp/routine-test", DefaultConfigDir())
}
