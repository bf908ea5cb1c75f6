package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd().Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])
	assert.True(t, names["import-etfs"])
}

func TestImportDryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etfs.csv")
	csv := "Ticker,Name,Canary Status,True Income Yield\n" +
		"QYLD,Nasdaq Covered Call,Dying,2.5\n" +
		"MSTY,MSTR Option Income,Healthy,40\n" +
		"QYLD,Duplicate,Dead,1\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	out, err := run(t, "import-etfs", path, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Parsed 2 ETFs")
	assert.Contains(t, out, "Dry run - no changes made")
}

func TestImportMissingFile(t *testing.T) {
	_, err := run(t, "import-etfs", filepath.Join(t.TempDir(), "nope.csv"), "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.csv")
}

func TestLoadConfig_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	env := "DATABASE_URL=postgres://localhost/yc_test\n" +
		"APP_ENV=test\n" +
		"CORS_ALLOWED_ORIGINS=https://a.example.com,https://b.example.com\n" +
		"ONE_DOLLAR_PRICE=price_one\n"
	require.NoError(t, os.WriteFile(path, []byte(env), 0o600))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.AppEnv)
	assert.Equal(t, "postgres://localhost/yc_test", cfg.DB.ConnectionString)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "price_one", cfg.Billing.OneDollarPrice)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "authenticated", cfg.Auth.Audience)
	assert.NotNil(t, newLogger(cfg))
}
