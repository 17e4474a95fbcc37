package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("LOOT_INT", "42")
	t.Setenv("LOOT_BAD_INT", "x")
	t.Setenv("LOOT_BOOL", "true")
	t.Setenv("LOOT_DUR", "3s")
	t.Setenv("LOOT_FLOAT", "2.5")

	assert.Equal(t, 42, EnvIntDefault("LOOT_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("LOOT_BAD_INT", 1))
	assert.Equal(t, 7, EnvIntDefault("LOOT_MISSING", 7))
	assert.True(t, EnvBoolDefault("LOOT_BOOL", false))
	assert.Equal(t, 3*time.Second, EnvDurationDefault("LOOT_DUR", time.Second))
	assert.InDelta(t, 2.5, EnvFloatDefault("LOOT_FLOAT", 1), 0.001)
	assert.Equal(t, "fallback", EnvDefault("LOOT_MISSING", "fallback"))
}

func TestLoad_ReadsDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT=9191\nKAFKA_BROKERS=k1:9092,k2:9092\n"), 0o600))
	t.Setenv("SERVER_PORT", "")
	t.Setenv("KAFKA_BROKERS", "")
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("KAFKA_BROKERS")

	cfg := Load(path, filepath.Join(dir, "missing.env"))

	assert.Equal(t, 9191, cfg.ServerPort)
	assert.Equal(t, ":9191", cfg.Addr())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "pgx", cfg.DatabaseDriver)
}

func TestCheckURL(t *testing.T) {
	t.Parallel()
	assert.NoError(t, CheckURL("http://auth:8081"))
	assert.NoError(t, CheckURL("https://api.example.com/base"))
	assert.Error(t, CheckURL(""))
	assert.Error(t, CheckURL("auth:8081"))
	assert.Error(t, CheckURL("ftp://files"))
	assert.Error(t, CheckURL("http://"))
}

func TestMustNonEmptyExits(t *testing.T) {
	code := -1
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = os.Exit })

	MustNonEmpty("set", "X")
	assert.Equal(t, -1, code)

	MustNonEmptyBytes(nil, "JWT_SECRET")
	assert.Equal(t, 1, code)

	code = -1
	MustURL("not a url", "AUTH_URL")
	assert.Equal(t, 1, code)
}
