package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/clubmerge/internal/config"
	"github.com/agentstation/clubmerge/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	Format  string

	// Config file
	ConfigFile string

	// Pipeline configuration
	InputDir    string
	OutputDir   string
	BatchSize   int
	Workers     int
	MetricsFile string

	// Merge configuration
	ClubsFile       string
	Strategy        string
	Division        string
	Region          string
	CountryDivision string

	// Trace sink configuration
	TraceSink     string
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (CLUBMERGE_ prefix)
// 3. .env files
// 4. Config file (configFile, or ~/.clubmerge.yaml when empty)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	config.SetDefaults(v)
	config.Bind(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+configFile, err)
		}
	} else {
		// Search for config in standard locations
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".clubmerge")

		// Read config file (ignore error if not found)
		_ = v.ReadInConfig()
	}

	return &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		InputDir:    v.GetString(config.KeyInputDir),
		OutputDir:   v.GetString(config.KeyOutputDir),
		BatchSize:   v.GetInt(config.KeyBatchSize),
		Workers:     v.GetInt(config.KeyWorkers),
		MetricsFile: v.GetString(config.KeyMetricsFile),

		ClubsFile:       v.GetString(config.KeyClubsFile),
		Strategy:        v.GetString(config.KeyStrategy),
		Division:        v.GetString(config.KeyDivision),
		Region:          v.GetString(config.KeyRegion),
		CountryDivision: v.GetString(config.KeyCountry),

		TraceSink:     v.GetString(config.KeyTraceSink),
		Neo4jURI:      v.GetString(config.KeyNeo4jURI),
		Neo4jUser:     v.GetString(config.KeyNeo4jUser),
		Neo4jPassword: v.GetString(config.KeyNeo4jPassword),
		Neo4jDatabase: v.GetString(config.KeyNeo4jDatabase),

		LogLevel:  config.GetString(v, config.KeyLogLevel),
		LogFormat: v.GetString(config.KeyLogFormat),
		LogOutput: v.GetString(config.KeyLogOutput),
	}, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	if format != "" {
		c.Format = strings.ToLower(format)
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local is loaded first so it wins; godotenv never overrides a set variable
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}
