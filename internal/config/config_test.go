package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
server:
  port: 9090
  request_timeout: 5s
backend:
  driver: appwrite
  endpoint: "https://appwrite.test/v1"
  project_id: "proj"
  database_id: "db"
  patient_collection_id: "patients"
  appointment_collection_id: "appointments"
  bucket_id: "ids"
admin:
  passkey_hash: "from-file"
  jwt_secret: "file-secret"
locale:
  timezone: "Europe/Paris"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFileAppliesDefaultsAndSecrets(t *testing.T) {
	t.Setenv("CARETRACK_APPWRITE_API_KEY", "env-key")
	t.Setenv("CARETRACK_ADMIN_JWT_SECRET", "env-secret")

	cfg, err := LoadFile(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "env-key", cfg.Backend.APIKey)
	assert.Equal(t, "env-secret", cfg.Admin.JWTSecret)
	assert.Equal(t, "from-file", cfg.Admin.PasskeyHash)
	assert.Equal(t, "caretrack_admin", cfg.Admin.CookieName)
	assert.Equal(t, "Europe/Paris", cfg.Locale.Location().String())
}

func TestLoadFileRejectsIncompleteAppwriteBackend(t *testing.T) {
	_, err := LoadFile(writeConfig(t, `
backend:
  driver: appwrite
admin:
  passkey_hash: "x"
  jwt_secret: "y"
`))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Backend: BackendConfig{Driver: "memory"},
			Admin:   AdminConfig{PasskeyHash: "h", JWTSecret: "s"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "memory backend", mutate: func(*Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.Backend.Driver = "mongo" }, wantErr: true},
		{name: "missing admin secret", mutate: func(c *Config) { c.Admin.JWTSecret = "" }, wantErr: true},
		{name: "s3 without bucket", mutate: func(c *Config) { c.Files.Driver = "s3" }, wantErr: true},
		{
			name: "s3 with bucket",
			mutate: func(c *Config) {
				c.Files = FilesConfig{Driver: "s3", S3Bucket: "b", PublicBaseURL: "https://cdn.test"}
			},
		},
		{
			name: "postgres without collections",
			mutate: func(c *Config) {
				c.Backend.Driver = "postgres"
				c.Database = DatabaseConfig{Host: "localhost", Name: "caretrack"}
			},
			wantErr: true,
		},
		{
			name: "postgres with s3 files",
			mutate: func(c *Config) {
				c.Backend = BackendConfig{Driver: "postgres", DatabaseID: "caretrack", PatientCollectionID: "patients", AppointmentCollectionID: "appointments"}
				c.Database = DatabaseConfig{Host: "localhost", Name: "caretrack"}
				c.Files = FilesConfig{Driver: "s3", S3Bucket: "b", PublicBaseURL: "https://cdn.test"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, LocaleConfig{Timezone: "Not/AZone"}.Location())
	assert.Equal(t, time.UTC, LocaleConfig{}.Location())
}
