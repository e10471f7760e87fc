package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable ApplyEnv reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ETHIQ_CONFIG", "ETHIQ_BANK", "ETHIQ_DB_DRIVER", "ETHIQ_DB_DSN", "ETHIQ_HTTP_ADDR",
		"ETHIQ_SESSION_SECRET", "ETHIQ_CORS_ORIGINS", "ETHIQ_SECURE_COOKIES",
		"ETHIQ_SESSION_TTL", "ETHIQ_REPORT_DIR", "ETHIQ_ASSESSOR",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
bank: banks/custom.yaml
database:
  driver: postgres
  dsn: postgres://localhost/ethiq
server:
  addr: ":9090"
  session_ttl: 30m
  allowed_origins: [https://hr.example.com]
report:
  output_dir: /tmp/reports
assessor:
  enabled: false
`))
	require.NoError(t, err)
	assert.Equal(t, "banks/custom.yaml", cfg.Bank)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionTTL)
	assert.Equal(t, []string{"https://hr.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "/tmp/reports", cfg.Report.OutputDir)
	assert.False(t, cfg.Assessor.Enabled)
}

func TestParse_KeepsDefaultsForOmittedKeys(t *testing.T) {
	cfg, err := Parse([]byte("report:\n  output_dir: out\n"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.Server.SessionTTL)
	assert.True(t, cfg.Assessor.Enabled)

	empty, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), empty)
}

func TestParse_Rejects(t *testing.T) {
	_, err := Parse([]byte("unknown: 1\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("bank: a\n---\nbank: b\n"))
	assert.ErrorContains(t, err, "multiple YAML documents")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Database.Driver = "postgres"
	cfg.Server.Addr = ""
	cfg.Server.SessionTTL = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.dsn is required")
	assert.Contains(t, err.Error(), "server.addr")
	assert.Contains(t, err.Error(), "server.session_ttl")

	cfg = Default()
	cfg.Database.Driver = "oracle"
	assert.ErrorContains(t, cfg.Validate(), `got "oracle"`)
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	xdg := filepath.Join(dir, "xdg")
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "ethiq"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "ethiq", "config.yaml"), []byte("bank: from-xdg.yaml\n"), 0o644))
	t.Setenv("XDG_CONFIG_HOME", xdg)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-xdg.yaml", cfg.Bank)

	envPath := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(envPath, []byte("bank: from-env.yaml\n"), 0o644))
	t.Setenv("ETHIQ_CONFIG", envPath)
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env.yaml", cfg.Bank)

	flagPath := filepath.Join(dir, "flag.yaml")
	require.NoError(t, os.WriteFile(flagPath, []byte("bank: from-flag.yaml\n"), 0o644))
	cfg, err = Load(flagPath)
	require.NoError(t, err)
	assert.Equal(t, "from-flag.yaml", cfg.Bank)
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ETHIQ_DB_DRIVER", "postgres")
	t.Setenv("ETHIQ_DB_DSN", "postgres://db/ethiq")
	t.Setenv("ETHIQ_CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("ETHIQ_ASSESSOR", "no")
	t.Setenv("ETHIQ_SESSION_TTL", "45m")
	t.Setenv("ETHIQ_SECURE_COOKIES", "true")

	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://db/ethiq", cfg.Database.DSN)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.Assessor.Enabled)
	assert.Equal(t, 45*time.Minute, cfg.Server.SessionTTL)
	assert.True(t, cfg.Server.SecureCookies)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv_BadSessionTTL(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"no unit", "45"},
		{"garbage", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("ETHIQ_SESSION_TTL", tt.value)

			cfg := Default()
			cfg.ApplyEnv()
			assert.Equal(t, Default().Server.SessionTTL, cfg.Server.SessionTTL)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorContains(t, err, "ETHIQ_SESSION_TTL")
		})
	}
}
