package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaultsAndEnv(t *testing.T) {
	t.Setenv("CLUBMERGE_WORKERS", "3")
	t.Setenv("CLUBMERGE_NEO4J_URI", "bolt://graph:7687")

	v := viper.New()
	SetDefaults(v)
	Bind(v)

	assert.Equal(t, 3, v.GetInt(KeyWorkers))
	assert.Equal(t, 180000, v.GetInt(KeyBatchSize))
	assert.Equal(t, "bolt://graph:7687", v.GetString(KeyNeo4jURI))
	assert.Equal(t, "SN", v.GetString(KeyDivision))
}

func TestGetStringFallsBackToPlainEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	v := viper.New()
	Bind(v)
	assert.Equal(t, "debug", GetString(v, KeyLogLevel))

	t.Setenv("CLUBMERGE_LOG_LEVEL", "warn")
	assert.Equal(t, "warn", GetString(v, KeyLogLevel), "prefixed variable wins")
}
