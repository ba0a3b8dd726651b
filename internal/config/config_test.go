package config

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeguess/internal/storage"
)

func execute(t *testing.T, args ...string) (*Config, error) {
	t.Helper()

	cfg := &Config{}
	var got *Config
	cmd := NewCommand(cfg, func(_ *cobra.Command, c *Config) error {
		got = c
		return nil
	})
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.Execute()
	return got, err
}

func TestDefaults(t *testing.T) {
	for _, legacy := range legacyEnv {
		t.Setenv(legacy, "")
	}

	cfg, err := execute(t)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Bind)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, storage.BackendFile, cfg.Storage)
	assert.Equal(t, DefaultIndexFile, cfg.IndexFile)
	assert.Equal(t, 50, cfg.MinLines)
	assert.False(t, cfg.Dev)
}

func TestFlags(t *testing.T) {
	cfg, err := execute(t, "--port", "9090", "--storage", "bolt", "--bolt_path", "/tmp/x.db", "-v")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, storage.BackendBolt, cfg.Storage)
	assert.Equal(t, "/tmp/x.db", cfg.BoltPath)
	assert.True(t, cfg.Verbose)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("CODEGUESS_MIN_LINES", "20")
	t.Setenv("CODEGUESS_SAMPLES_DIR", "/srv/samples")
	t.Setenv("PORT", "8081")
	t.Setenv("DEV", "1")

	cfg, err := execute(t)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.MinLines)
	assert.Equal(t, "/srv/samples", cfg.SamplesDir)
	assert.Equal(t, 8081, cfg.Port)
	assert.True(t, cfg.Dev)
	assert.Equal(t, 20, cfg.CatalogOptions().MinLines)
}

func TestPrefixedEnvBeatsLegacy(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("CODEGUESS_PORT", "8082")

	cfg, err := execute(t)
	require.NoError(t, err)
	assert.Equal(t, 8082, cfg.Port)
}

func TestFlagBeatsEnv(t *testing.T) {
	t.Setenv("CODEGUESS_PORT", "8082")

	cfg, err := execute(t, "--port", "7000")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:       3000,
			SamplesDir: "samples",
			DataDir:    "data",
			Storage:    storage.BackendFile,
			MinLines:   50,
			MongoDB:    "codeguess",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Port = 0 }, wantErr: "invalid port"},
		{name: "port too big", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "invalid port"},
		{name: "min lines", mutate: func(c *Config) { c.MinLines = 0 }, wantErr: "min-lines"},
		{name: "no samples", mutate: func(c *Config) { c.SamplesDir = "" }, wantErr: "samples-dir"},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage = "redis" }, wantErr: "unknown storage backend"},
		{name: "file without dir", mutate: func(c *Config) { c.DataDir = "" }, wantErr: "data-dir"},
		{name: "bolt without path", mutate: func(c *Config) { c.Storage = storage.BackendBolt }, wantErr: "bolt-path"},
		{name: "mongo without uri", mutate: func(c *Config) { c.Storage = storage.BackendMongo }, wantErr: "mongodb-uri"},
		{
			name: "mongo ok",
			mutate: func(c *Config) {
				c.Storage = storage.BackendMongo
				c.MongoURI = "mongodb://localhost:27017"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestExecute_RejectsInvalid(t *testing.T) {
	_, err := execute(t, "--storage", "redis")
	assert.ErrorContains(t, err, "unknown storage backend")
}
