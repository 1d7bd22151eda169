package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Files     FilesConfig     `mapstructure:"files"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Admin     AdminConfig     `mapstructure:"admin"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Locale    LocaleConfig    `mapstructure:"locale"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	// ImagesDir holds the doctor portraits served under /assets/images
	ImagesDir      string        `mapstructure:"images_dir"`
}

// BackendConfig selects and configures the backend gateway driver
type BackendConfig struct {
	// Driver is one of appwrite, postgres, memory
	Driver                  string        `mapstructure:"driver"`
	Endpoint                string        `mapstructure:"endpoint"`
	ProjectID               string        `mapstructure:"project_id"`
	APIKey                  string        `mapstructure:"api_key"`
	DatabaseID              string        `mapstructure:"database_id"`
	PatientCollectionID     string        `mapstructure:"patient_collection_id"`
	AppointmentCollectionID string        `mapstructure:"appointment_collection_id"`
	BucketID                string        `mapstructure:"bucket_id"`
	Timeout                 time.Duration `mapstructure:"timeout"`
	BreakerFailures         int           `mapstructure:"breaker_failures"`
	BreakerTimeout          time.Duration `mapstructure:"breaker_timeout"`
}

// FilesConfig selects the identification document storage. An empty driver uses the backend driver.
type FilesConfig struct {
	Driver        string `mapstructure:"driver"`
	S3Bucket      string `mapstructure:"s3_bucket"`
	S3Region      string `mapstructure:"s3_region"`
	S3Prefix      string `mapstructure:"s3_prefix"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

type RedisConfig struct {
	// URL empty keeps admin sessions in process
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
}

type AdminConfig struct {
	PasskeyHash  string        `mapstructure:"passkey_hash"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
	CookieName   string        `mapstructure:"cookie_name"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
}

type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	ClientTTL         time.Duration `mapstructure:"client_ttl"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

type LocaleConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// Location resolves the configured timezone, falling back to UTC
func (c LocaleConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Prefix  string `mapstructure:"prefix"`
	Path    string `mapstructure:"path"`
}

// Secrets are read from CARETRACK_* environment variables and override the file
type Secrets struct {
	AppwriteAPIKey   string `envconfig:"APPWRITE_API_KEY"`
	AdminPasskeyHash string `envconfig:"ADMIN_PASSKEY_HASH"`
	AdminJWTSecret   string `envconfig:"ADMIN_JWT_SECRET"`
	DatabasePassword string `envconfig:"DB_PASSWORD"`
	RedisURL         string `envconfig:"REDIS_URL"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.request_timeout", 20*time.Second)
	v.SetDefault("server.max_upload_bytes", 5<<20)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.images_dir", "./assets/images")

	v.SetDefault("backend.driver", "memory")
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("backend.breaker_failures", 5)
	v.SetDefault("backend.breaker_timeout", 30*time.Second)

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", 5*time.Second)

	v.SetDefault("admin.session_ttl", 12*time.Hour)
	v.SetDefault("admin.cookie_name", "caretrack_admin")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("rate_limit.client_ttl", 10*time.Minute)

	v.SetDefault("logging.level", "info")
	v.SetDefault("locale.timezone", "UTC")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.prefix", "caretrack")
	v.SetDefault("metrics.path", "/metrics")
}

// LoadConfig reads config.yml from the usual search paths. A missing file is not an
// error: defaults and environment variables still apply.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app/config")

	return load(v)
}

// LoadFile reads the configuration from an explicit path
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("caretrack")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var secrets Secrets
	if err := envconfig.Process("caretrack", &secrets); err != nil {
		return nil, fmt.Errorf("failed to read secrets from environment: %w", err)
	}
	cfg.applySecrets(secrets)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applySecrets(s Secrets) {
	if s.AppwriteAPIKey != "" {
		c.Backend.APIKey = s.AppwriteAPIKey
	}
	if s.AdminPasskeyHash != "" {
		c.Admin.PasskeyHash = s.AdminPasskeyHash
	}
	if s.AdminJWTSecret != "" {
		c.Admin.JWTSecret = s.AdminJWTSecret
	}
	if s.DatabasePassword != "" {
		c.Database.Password = s.DatabasePassword
	}
	if s.RedisURL != "" {
		c.Redis.URL = s.RedisURL
	}
}

// Validate checks the settings each driver needs
func (c *Config) Validate() error {
	switch c.Backend.Driver {
	case "memory":
	case "appwrite":
		if c.Backend.Endpoint == "" || c.Backend.ProjectID == "" || c.Backend.APIKey == "" {
			return fmt.Errorf("appwrite backend requires endpoint, project_id and api_key")
		}
	case "postgres":
		if c.Database.Host == "" || c.Database.Name == "" {
			return fmt.Errorf("postgres backend requires database.host and database.name")
		}
		if c.Files.Driver != "s3" {
			return fmt.Errorf("postgres backend requires files.driver s3")
		}
	default:
		return fmt.Errorf("unknown backend driver %q", c.Backend.Driver)
	}

	switch c.Files.Driver {
	case "", "backend":
	case "s3":
		if c.Files.S3Bucket == "" || c.Files.PublicBaseURL == "" {
			return fmt.Errorf("s3 file storage requires files.s3_bucket and files.public_base_url")
		}
	default:
		return fmt.Errorf("unknown files driver %q", c.Files.Driver)
	}

	if c.Backend.Driver != "memory" {
		if c.Backend.DatabaseID == "" || c.Backend.PatientCollectionID == "" || c.Backend.AppointmentCollectionID == "" {
			return fmt.Errorf("backend requires database_id, patient_collection_id and appointment_collection_id")
		}
	}

	if c.Admin.JWTSecret == "" || c.Admin.PasskeyHash == "" {
		return fmt.Errorf("admin.passkey_hash and admin.jwt_secret are required")
	}
	return nil
}
