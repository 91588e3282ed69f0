package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Azure    AzureConfig
	Privacy  PrivacyConfig
	Logging  LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// AzureConfig holds Azure service configuration
type AzureConfig struct {
	OpenAI  OpenAIConfig
	Storage StorageConfig
}

// OpenAIConfig holds Azure OpenAI configuration. The narrative feature is
// optional: when the endpoint, key and deployment are all unset, reports are
// generated without narratives.
type OpenAIConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
}

// Enabled reports whether report narratives should be generated
func (c OpenAIConfig) Enabled() bool {
	return c.Endpoint != "" && c.APIKey != "" && c.Deployment != ""
}

// StorageConfig holds Azure Blob Storage configuration
type StorageConfig struct {
	AccountName      string
	AccountKey       string
	ConnectionString string
	BlobEndpoint     string
	ReportContainer  string
}

// PrivacyConfig holds data-privacy related configuration. ExportKey, when
// set, is a hex-encoded 32-byte AES key used to encrypt data exports.
type PrivacyConfig struct {
	ExportKey string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	// Bind specific environment variables
	bindEnvVars(v)

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)

	// Database defaults
	v.SetDefault("database.maxopenconns", 25)
	v.SetDefault("database.maxidleconns", 5)
	v.SetDefault("database.connmaxlifetime", 5*time.Minute)

	// Azure Storage defaults
	v.SetDefault("azure.storage.reportcontainer", "health-reports")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")

	// Database
	v.BindEnv("database.url", "DATABASE_URL")

	// Azure OpenAI
	v.BindEnv("azure.openai.endpoint", "AZURE_OPENAI_ENDPOINT")
	v.BindEnv("azure.openai.apikey", "AZURE_OPENAI_API_KEY")
	v.BindEnv("azure.openai.deployment", "AZURE_OPENAI_DEPLOYMENT")

	// Azure Storage
	v.BindEnv("azure.storage.accountname", "AZURE_STORAGE_ACCOUNT_NAME")
	v.BindEnv("azure.storage.accountkey", "AZURE_STORAGE_ACCOUNT_KEY")
	v.BindEnv("azure.storage.connectionstring", "AZURE_STORAGE_CONNECTION_STRING")
	v.BindEnv("azure.storage.blobendpoint", "AZURE_STORAGE_BLOB_ENDPOINT")
	v.BindEnv("azure.storage.reportcontainer", "AZURE_STORAGE_REPORT_CONTAINER")

	// Privacy
	v.BindEnv("privacy.exportkey", "PRIVACY_EXPORT_KEY")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate required fields
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}

	if c.Azure.Storage.ConnectionString == "" && (c.Azure.Storage.AccountName == "" || c.Azure.Storage.AccountKey == "") {
		return fmt.Errorf("azure storage credentials are required (either connection string or account name + key)")
	}

	// OpenAI is optional but must be configured completely or not at all
	openai := c.Azure.OpenAI
	partiallySet := openai.Endpoint != "" || openai.APIKey != "" || openai.Deployment != ""
	if partiallySet && !openai.Enabled() {
		return fmt.Errorf("azure openai configuration is incomplete (endpoint, api key and deployment are all required)")
	}

	// A privacy export key, when provided, must be a hex-encoded 32-byte key
	if c.Privacy.ExportKey != "" && len(c.Privacy.ExportKey) != 64 {
		return fmt.Errorf("privacy.exportkey must be a 64-character hex string (32 bytes)")
	}

	return nil
}
