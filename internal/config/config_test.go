package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LEDGER_TEST_FROM_DOTENV=loaded\n"), 0600))
	t.Setenv("LEDGER_TEST_FROM_DOTENV", "")
	require.NoError(t, os.Unsetenv("LEDGER_TEST_FROM_DOTENV"))

	loaded := loadEnvFile(filepath.Join(dir, "missing.env"), envFile)
	assert.Equal(t, envFile, loaded)
	assert.Equal(t, "loaded", os.Getenv("LEDGER_TEST_FROM_DOTENV"))
}

func TestLoadEnvFile_NoFile(t *testing.T) {
	assert.Equal(t, "", loadEnvFile(filepath.Join(t.TempDir(), ".env")))
}

func TestGetEnv(t *testing.T) {
	t.Setenv("LEDGER_TEST_GET_ENV", "value")
	assert.Equal(t, "value", GetEnv("LEDGER_TEST_GET_ENV", "fallback"))
	assert.Equal(t, "fallback", GetEnv("LEDGER_TEST_UNSET_KEY_XYZ", "fallback"))
}
