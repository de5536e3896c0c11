// Package config names the configuration keys of the CLI and reads them
// through Viper.
package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/agentstation/clubmerge/pkg/constants"
)

// Configuration keys. Each is also read from CLUBMERGE_<KEY> with dashes and
// dots replaced by underscores.
const (
	KeyInputDir      = "input-dir"
	KeyOutputDir     = "output-dir"
	KeyBatchSize     = "batch-size"
	KeyWorkers       = "workers"
	KeyClubsFile     = "clubs-file"
	KeyStrategy      = "strategy"
	KeyDivision      = "division"
	KeyRegion        = "region"
	KeyCountry       = "country-division"
	KeyTraceSink     = "trace-sink"
	KeyNeo4jURI      = "neo4j.uri"
	KeyNeo4jUser     = "neo4j.user"
	KeyNeo4jPassword = "neo4j.password"
	KeyNeo4jDatabase = "neo4j.database"
	KeyMetricsFile   = "metrics-file"
	KeyLogLevel      = "log-level"
	KeyLogFormat     = "log-format"
	KeyLogOutput     = "log-output"
)

// SetDefaults registers the default value of every key that has one.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyOutputDir, ".")
	v.SetDefault(KeyBatchSize, constants.MaxProfilesPerFile)
	v.SetDefault(KeyWorkers, constants.DefaultWorkers)
	v.SetDefault(KeyStrategy, "club-registry")
	v.SetDefault(KeyDivision, constants.DefaultDivision)
	v.SetDefault(KeyRegion, constants.DefaultRegion)
	v.SetDefault(KeyCountry, constants.DefaultCountryDivision)
	v.SetDefault(KeyTraceSink, "csv")
	v.SetDefault(KeyLogFormat, "auto")
	v.SetDefault(KeyLogOutput, "stderr")
}

// Bind configures v to read environment variables with the CLUBMERGE prefix.
func Bind(v *viper.Viper) {
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(v *viper.Viper, key string) string {
	viperValue := v.GetString(key)
	if viperValue != "" {
		return viperValue
	}
	// Check OS env directly for unprefixed names
	return os.Getenv(envName(key))
}

// envName returns the unprefixed environment name of key, LOG_LEVEL for log-level.
func envName(key string) string {
	return strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}
