package app

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadConfig verifies defaults are applied.
func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.LogFormat == "" {
		t.Error("LogFormat not set to default")
	}
	if config.BatchSize != 180000 {
		t.Errorf("BatchSize = %d, want 180000", config.BatchSize)
	}
	if config.Division != "SN" || config.Region != "EMEA" || config.CountryDivision != "DE" {
		t.Errorf("fixed overrides = %s/%s/%s, want SN/EMEA/DE", config.Division, config.Region, config.CountryDivision)
	}
}

// TestConfig_EnvironmentVariables verifies prefixed environment variables are read.
func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Setenv("CLUBMERGE_INPUT_DIR", "/data/users")
	t.Setenv("CLUBMERGE_WORKERS", "16")
	t.Setenv("CLUBMERGE_TRACE_SINK", "neo4j")
	t.Setenv("CLUBMERGE_NEO4J_URI", "bolt://graph:7687")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.InputDir != "/data/users" {
		t.Errorf("InputDir = %s, want /data/users", config.InputDir)
	}
	if config.Workers != 16 {
		t.Errorf("Workers = %d, want 16", config.Workers)
	}
	if config.TraceSink != "neo4j" {
		t.Errorf("TraceSink = %s, want neo4j", config.TraceSink)
	}
	if config.Neo4jURI != "bolt://graph:7687" {
		t.Errorf("Neo4jURI = %s, want bolt://graph:7687", config.Neo4jURI)
	}
}

// TestConfig_File verifies an explicit config file is read.
func TestConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clubmerge.yaml")
	content := `output-dir: /data/out
batch-size: 500
strategy: priority-list
neo4j:
  uri: bolt://localhost:7687
  database: profiles
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %s, want %s", config.ConfigFile, path)
	}
	if config.OutputDir != "/data/out" {
		t.Errorf("OutputDir = %s, want /data/out", config.OutputDir)
	}
	if config.BatchSize != 500 {
		t.Errorf("BatchSize = %d, want 500", config.BatchSize)
	}
	if config.Strategy != "priority-list" {
		t.Errorf("Strategy = %s, want priority-list", config.Strategy)
	}
	if config.Neo4jDatabase != "profiles" {
		t.Errorf("Neo4jDatabase = %s, want profiles", config.Neo4jDatabase)
	}
}

// TestConfig_UpdateFromFlags verifies flags win over loaded values.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{Format: "json", LogLevel: "info"}
	config.UpdateFromFlags(true, false, "YAML", "")

	if !config.Verbose {
		t.Error("Verbose not set from flag")
	}
	if config.Format != "yaml" {
		t.Errorf("Format = %s, want yaml", config.Format)
	}
	if config.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want unchanged info", config.LogLevel)
	}
}
