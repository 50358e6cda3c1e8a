package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "localhost:3000", cfg.Server.Addr())
	assert.Equal(t, "sqlite://accounts.db", cfg.DB.Url)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, 5, cfg.Balance.DefaultBatchSize)
	assert.Equal(t, 10000, cfg.Balance.MaxBatchSize)
	assert.Equal(t, 30*time.Second, cfg.Balance.Timeout)
	assert.Equal(t, 100, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoad_FromEnvFileInParentDirectory(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	content := "BALANCE_DEFAULT_BATCH_SIZE=3\nSERVER_PORT=8081\nSMTP_HOST=mail.example.com\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env.test"), []byte(content), 0o600))
	t.Chdir(nested)
	// godotenv never overrides variables that are already set; t.Setenv restores them afterwards.
	t.Setenv("BALANCE_DEFAULT_BATCH_SIZE", "")
	os.Unsetenv("BALANCE_DEFAULT_BATCH_SIZE") //nolint:errcheck
	t.Setenv("SERVER_PORT", "")
	os.Unsetenv("SERVER_PORT") //nolint:errcheck
	t.Setenv("SMTP_HOST", "")
	os.Unsetenv("SMTP_HOST") //nolint:errcheck

	cfg, err := Load("missing.env", ".env.test")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Balance.DefaultBatchSize)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "mail.example.com", cfg.SMTP.Host)
}

func TestLoad_RejectsInvalidBalanceSettings(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "zero default batch size", env: map[string]string{"BALANCE_DEFAULT_BATCH_SIZE": "0"}},
		{name: "max below default", env: map[string]string{"BALANCE_DEFAULT_BATCH_SIZE": "10", "BALANCE_MAX_BATCH_SIZE": "5"}},
		{name: "negative workers", env: map[string]string{"BALANCE_MAX_WORKERS": "-1"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestFindEnvFile(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "x", "y")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), nil, 0o600))
	t.Chdir(nested)

	found, err := FindEnvFile("")
	require.NoError(t, err)
	assert.Equal(t, ".env", filepath.Base(found))

	_, err = FindEnvFile("does-not-exist.env")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "****", maskValue("short"))
	assert.Equal(t, "po****5432", maskValue("postgres://user:pw@host:5432"))
}
