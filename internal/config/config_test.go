package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-contacts/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
// This prevents accidental deletion of keys required for runtime logic.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"KeyringService", config.KeyringService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestDefaults_Sanity checks that default values make sense logically.
func TestDefaults_Sanity(t *testing.T) {
	assert.Equal(t, 10, config.PhoneLength, "The fixed phone scheme is 10 digits")
	assert.Equal(t, 7, config.GreetingWindowDays, "Upcoming-birthday window is one week")
	assert.Equal(t, 2000, config.DefaultLeapYear, "Default leap year must be 2000 for consistency")
	assert.Equal(t, 30*time.Second, config.HTTPTimeout)
}

// TestUserAgent_Format ensures the UA string follows the standard format.
func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-Contacts/"), "UserAgent must start with AppName/")
}

func TestLoad_EnvDefaults(t *testing.T) {
	s, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.AddPolicyUpsert, s.AddPolicy)
	assert.Equal(t, config.DateSchemeLenient, s.DateScheme)
	assert.Equal(t, config.SourceModeLocal, s.Import.Mode)
	assert.Empty(t, s.ReminderTrigger)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ADD_POLICY", "unique")
	t.Setenv("DATE_SCHEME", "strict")
	t.Setenv("IMPORT_MODE", "web")
	t.Setenv("IMPORT_WEB_URL", "https://example.com/contacts.vcf")

	s, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.AddPolicyUnique, s.AddPolicy)
	assert.Equal(t, config.DateSchemeStrict, s.DateScheme)
	assert.Equal(t, config.SourceModeWeb, s.Import.Mode)
	assert.Equal(t, "https://example.com/contacts.vcf", s.Import.WebURL)
}

func TestLoad_RejectsUnknownPolicy(t *testing.T) {
	t.Setenv("ADD_POLICY", "maybe")

	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrConfigInvalid)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `add_policy: unique
date_scheme: strict
reminder_trigger: "-P1D"
import:
  mode: local
  local_path: /tmp/contacts.vcf
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, config.AddPolicyUnique, s.AddPolicy)
	assert.Equal(t, config.DateSchemeStrict, s.DateScheme)
	assert.Equal(t, "-P1D", s.ReminderTrigger)
	assert.Equal(t, "/tmp/contacts.vcf", s.Import.LocalPath)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrConfigMissing)
}
