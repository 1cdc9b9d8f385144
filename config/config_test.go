package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "alice", cfg.Owner)
	assert.Equal(t, "sqlite", cfg.Driver)
	assert.False(t, cfg.Kafka.Enabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFiles_Precedence(t *testing.T) {
	yamlPath := write(t, "contract.yaml", `
driver: postgres
dsn: postgres://localhost/contract
owner: bob
currency: USD
kafka:
  brokers: [localhost:9092]
`)
	envPath := write(t, ".env", "CONTRACT_OWNER=carol\nCONTRACT_LOG_LEVEL=debug\n")
	t.Setenv("CONTRACT_LOG_LEVEL", "info")

	cfg, err := LoadFiles(yamlPath, envPath)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Driver)
	assert.Equal(t, "postgres://localhost/contract", cfg.DSN)
	assert.Equal(t, "carol", cfg.Owner, ".env overrides the YAML file")
	assert.Equal(t, "info", cfg.LogLevel, "the environment overrides .env")
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "contract.transactions", cfg.Kafka.Topic, "default kept")
	assert.NoError(t, cfg.Validate())
}

func TestLoadFiles_Missing(t *testing.T) {
	_, err := LoadFiles(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)

	cfg, err := LoadFiles("", filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFiles_Brokers(t *testing.T) {
	t.Setenv("CONTRACT_KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	cfg, err := LoadFiles("", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Driver = "mysql"
	cfg.Owner = ""
	cfg.Currency = "ZZZ"
	cfg.LogLevel = "loud"
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"mysql", "owner", "ZZZ", "loud"} {
		assert.ErrorContains(t, err, want)
	}
}

func TestLevel(t *testing.T) {
	cfg := Default()
	l, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)
}
