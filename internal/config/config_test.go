package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/protoscribe/internal/config"
)

// validConfig returns a Config that passes Validate() with all required fields set.
func validConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return cfg
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_InvalidServerPort(t *testing.T) {
	t.Parallel()
	cases := []int{-1, 65536, 100000}
	for _, p := range cases {
		p := p
		t.Run("", func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			cfg.Server.Port = p
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "server.port")
		})
	}
}

func TestConfig_Validate_InvalidServerMode(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Server.Mode = "production" // not an accepted value
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.mode")
}

func TestConfig_Validate_DatabaseDisabledSkipsChecks(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Database.Enabled = false
	cfg.Database.Host = ""
	cfg.Database.User = ""
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_DatabaseEnabledRequiresUser(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Database.Enabled = true
	cfg.Database.User = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.user")
}

func TestConfig_Validate_DatabaseEnabledRequiresHost(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Database.Enabled = true
	cfg.Database.User = "protoscribe"
	cfg.Database.Host = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.host")
}

func TestConfig_Validate_RedisEnabledRequiresAddr(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis.addr")
}

func TestConfig_Validate_KafkaEnabledRequiresBrokers(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Kafka.Enabled = true
	cfg.Kafka.Brokers = nil
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka.brokers")
}

func TestConfig_Validate_MinIOEnabledRequiresBucket(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.MinIO.Enabled = true
	cfg.MinIO.Bucket = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minio.bucket")
}

func TestConfig_Validate_EmptyAllowedFileTypes(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Storage.AllowedFileTypes = nil
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.allowed_file_types")
}

func TestConfig_Validate_InvalidLLMProvider(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.LLM.Provider = "cohere"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.provider")
}

func TestConfig_Validate_LLMTemperatureOutOfRange(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.LLM.Temperature = 2.5
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.temperature")
}

func TestConfig_Validate_InvalidLogLevel(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Log.Level = "verbose"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestConfig_Validate_InvalidLogFormat(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Log.Format = "xml"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format")
}

func TestConfig_SubStructs_ZeroValues(t *testing.T) {
	t.Parallel()

	cfg := config.Config{}
	assert.Equal(t, 0, cfg.Server.Port)
	assert.Equal(t, "", cfg.Server.Mode)
	assert.Equal(t, "", cfg.Database.Host)
	assert.Equal(t, "", cfg.Redis.Addr)
	assert.Nil(t, cfg.Kafka.Brokers)
	assert.Equal(t, "", cfg.LLM.Provider)
	assert.Equal(t, "", cfg.Log.Level)
}
