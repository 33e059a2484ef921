package config

import "time"

const (
	DefaultServerPort = 8000
	DefaultServerMode = "debug"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "protoscribe"
	DefaultDBMaxConns = 25

	DefaultRedisAddr = "localhost:6379"

	DefaultKafkaBroker = "localhost:9092"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "protocols"

	DefaultUploadDir     = "uploads"
	DefaultMaxFileSize   = 50 * 1024 * 1024 // 50 MB
	DefaultGuidelinesDir = "guidelines"

	DefaultLLMProvider    = "openai"
	DefaultLLMModel       = "gpt-4"
	DefaultAnthropicModel = "claude-3-sonnet-20240229"
	DefaultLLMTemperature = 0.3
	DefaultLLMMaxTokens   = 2000
	DefaultLLMTimeout     = 30 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// DefaultAllowedFileTypes lists the upload extensions accepted out of the box.
var DefaultAllowedFileTypes = []string{".pdf", ".docx", ".txt"}

// ApplyDefaults fills every zero-value field in cfg with the platform default.
// It must be called after unmarshalling raw config data and before Validate()
// so that optional-but-defaulted fields are never seen as missing.  Fields
// already set by the caller are left unchanged so explicit configuration
// always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = time.Hour
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "protoscribe"
	}

	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.ProducerRetries == 0 {
		cfg.Kafka.ProducerRetries = 3
	}

	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	if cfg.Storage.UploadDir == "" {
		cfg.Storage.UploadDir = DefaultUploadDir
	}
	if cfg.Storage.MaxFileSize == 0 {
		cfg.Storage.MaxFileSize = DefaultMaxFileSize
	}
	if len(cfg.Storage.AllowedFileTypes) == 0 {
		cfg.Storage.AllowedFileTypes = append([]string(nil), DefaultAllowedFileTypes...)
	}

	if cfg.Guidelines.Dir == "" {
		cfg.Guidelines.Dir = DefaultGuidelinesDir
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = DefaultLLMProvider
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = DefaultLLMModel
	}
	if cfg.LLM.AnthropicModel == "" {
		cfg.LLM.AnthropicModel = DefaultAnthropicModel
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = DefaultLLMTemperature
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = DefaultLLMMaxTokens
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = DefaultLLMTimeout
	}

	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = 50
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 100
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
