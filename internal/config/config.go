// Package config builds the server command line and resolves settings from
// flags, CODEGUESS_* environment variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeguess/internal/catalog"
	"codeguess/internal/storage"
)

const (
	EnvPrefix = "CODEGUESS"

	DefaultPort      = 3000
	DefaultMongoDB   = "codeguess"
	DefaultIndexFile = "index.html"
)

type Config struct {
	Bind       string
	Port       int
	SamplesDir string
	StaticDir  string
	IndexFile  string
	DataDir    string
	Storage    string
	BoltPath   string
	MongoURI   string
	MongoDB    string
	MinLines   int
	Dev        bool
	Verbose    bool
}

// legacyEnv maps flag names to the unprefixed variables older deployments set.
var legacyEnv = map[string]string{
	"port":        "PORT",
	"static-dir":  "STATIC_DIR",
	"mongodb-uri": "MONGODB_URI",
	"mongodb-db":  "MONGODB_DB",
	"dev":         "DEV",
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.MinLines < 1 {
		return fmt.Errorf("invalid min-lines (must be positive): %d", c.MinLines)
	}
	if c.SamplesDir == "" {
		return errors.New("--samples-dir must not be empty")
	}

	switch c.Storage {
	case storage.BackendFile:
		if c.DataDir == "" {
			return errors.New("--data-dir is required for file storage")
		}
	case storage.BackendBolt:
		if c.BoltPath == "" {
			return errors.New("--bolt-path is required for bolt storage")
		}
	case storage.BackendMongo:
		if c.MongoURI == "" {
			return errors.New("--mongodb-uri is required for mongo storage")
		}
		if c.MongoDB == "" {
			return errors.New("--mongodb-db must not be empty")
		}
	default:
		return fmt.Errorf("unknown storage backend %q (want %s, %s or %s)",
			c.Storage, storage.BackendFile, storage.BackendBolt, storage.BackendMongo)
	}
	return nil
}

// CatalogOptions derives discovery options from the configured line minimum.
func (c *Config) CatalogOptions() catalog.Options {
	opts := catalog.DefaultOptions()
	opts.MinLines = c.MinLines
	return opts
}

// NewCommand returns the root command. run is called with the validated
// configuration once flags and environment have been merged.
func NewCommand(cfg *Config, run func(cmd *cobra.Command, cfg *Config) error) *cobra.Command {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "codeguess",
		Short: "Serves the guess-the-language game and its leaderboards.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: CODEGUESS_BIND)")
	fs.IntVarP(&cfg.Port, "port", "p", DefaultPort, "port to listen on (env: CODEGUESS_PORT, PORT)")
	fs.StringVar(&cfg.SamplesDir, "samples-dir", "examples_dump", "directory scanned for code samples (env: CODEGUESS_SAMPLES_DIR)")
	fs.StringVar(&cfg.StaticDir, "static-dir", "public", "directory holding the frontend (env: CODEGUESS_STATIC_DIR, STATIC_DIR)")
	fs.StringVar(&cfg.IndexFile, "index-file", DefaultIndexFile, "page served at / (env: CODEGUESS_INDEX_FILE)")
	fs.StringVar(&cfg.DataDir, "data-dir", "data", "directory for file storage (env: CODEGUESS_DATA_DIR)")
	fs.StringVar(&cfg.Storage, "storage", storage.BackendFile, "storage backend: file, bolt or mongo (env: CODEGUESS_STORAGE)")
	fs.StringVar(&cfg.BoltPath, "bolt-path", "data/codeguess.db", "bbolt database file (env: CODEGUESS_BOLT_PATH)")
	fs.StringVar(&cfg.MongoURI, "mongodb-uri", "", "MongoDB connection string (env: CODEGUESS_MONGODB_URI, MONGODB_URI)")
	fs.StringVar(&cfg.MongoDB, "mongodb-db", DefaultMongoDB, "MongoDB database name (env: CODEGUESS_MONGODB_DB, MONGODB_DB)")
	fs.IntVar(&cfg.MinLines, "min-lines", catalog.DefaultMinLines, "minimum line count of a sample file (env: CODEGUESS_MIN_LINES)")
	fs.BoolVar(&cfg.Dev, "dev", false, "development mode, accepts cross-origin API writes (env: CODEGUESS_DEV, DEV)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log at debug level (env: CODEGUESS_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		if legacy, ok := legacyEnv[f.Name]; ok {
			_ = v.BindEnv(f.Name, EnvPrefix+"_"+envKey(f.Name), legacy)
		} else {
			_ = v.BindEnv(f.Name)
		}
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

func envKey(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
