package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wsreport.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
region: eu-west-1
inactivity_days: 120
output:
  path: /tmp/report.csv
  format: csv
directory:
  addr: ldaps://dc01.corp.example.com:636
  base_dn: DC=corp,DC=example,DC=com
  bind_dn: CN=svc-report,OU=Service,DC=corp,DC=example,DC=com
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, 120, cfg.InactivityDays)
	assert.Equal(t, 4, cfg.Concurrency) // default preserved
	assert.False(t, cfg.RetentionAdvisory())
}

func TestLoadConfigMissingRegion(t *testing.T) {
	path := writeConfig(t, "inactivity_days: 30\n")
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "region is required")
}

func TestValidateBounds(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unsupported region", func(c *Config) { c.Region = "mars-north-1" }, "unsupported region"},
		{"days too large", func(c *Config) { c.InactivityDays = 1000 }, "inactivity_days"},
		{"days zero", func(c *Config) { c.InactivityDays = 0 }, "inactivity_days"},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, "output format"},
		{"zero workers", func(c *Config) { c.Concurrency = 0 }, "concurrency"},
		{"ldap without base dn", func(c *Config) { c.Directory.Addr = "ldap://dc:389" }, "base_dn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Region = "us-east-1"
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestRetentionAdvisory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Region = "us-east-1"
	cfg.InactivityDays = 455
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.RetentionAdvisory())

	cfg.InactivityDays = 454
	assert.False(t, cfg.RetentionAdvisory())
}

func TestIsSupportedRegion(t *testing.T) {
	assert.True(t, IsSupportedRegion("ap-southeast-2"))
	assert.False(t, IsSupportedRegion("us-gov-west-1"))
}
