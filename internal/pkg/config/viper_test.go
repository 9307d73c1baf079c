package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shandysiswandi/glintai/internal/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
jwt:
  secret: "file-secret"
  audiences: " web , ,mobile"
modules:
  signin:
    notification_ttl_ms: 6000
    resend_cooldown_seconds: 30
    flow_idle_ttl_minutes: 10
    code:
      secret: "c2VjcmV0"
      broken: "%%%"
messaging:
  nsq:
    consumer_nsqd_addrs: ""
  kafka:
    brokers:
      - " kafka-1:9092"
      - ""
      - "kafka-2:9092"
`

func newConfig(t *testing.T) *config.Viper {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(sample))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cfg.Close() })

	return cfg
}

func TestNewViperFromBytes(t *testing.T) {
	_, err := config.NewViperFromBytes("", []byte(sample))
	assert.Error(t, err)

	_, err = config.NewViperFromBytes("yaml", []byte("a: [b"))
	assert.Error(t, err)
}

func TestViper_Durations(t *testing.T) {
	cfg := newConfig(t)

	assert.Equal(t, 6*time.Second, cfg.GetMillisecond("modules.signin.notification_ttl_ms"))
	assert.Equal(t, 30*time.Second, cfg.GetSecond("modules.signin.resend_cooldown_seconds"))
	assert.Equal(t, 10*time.Minute, cfg.GetMinute("modules.signin.flow_idle_ttl_minutes"))
	assert.Zero(t, cfg.GetSecond("modules.signin.missing"))
}

func TestViper_GetArray(t *testing.T) {
	cfg := newConfig(t)

	assert.Equal(t, []string{"web", "mobile"}, cfg.GetArray("jwt.audiences"))
	assert.Empty(t, cfg.GetArray("messaging.nsq.consumer_nsqd_addrs"))
	assert.Empty(t, cfg.GetArray("missing"))
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.GetArray("messaging.kafka.brokers"))
}

func TestViper_GetBinary(t *testing.T) {
	cfg := newConfig(t)

	assert.Equal(t, []byte("secret"), cfg.GetBinary("modules.signin.code.secret"))
	assert.Nil(t, cfg.GetBinary("modules.signin.code.broken"))
}

func TestViper_EnvOverride(t *testing.T) {
	t.Setenv(config.EnvPrefix+"_JWT_SECRET", "env-secret")
	cfg := newConfig(t)

	assert.Equal(t, "env-secret", cfg.GetString("jwt.secret"))
}

func TestNewViper_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := config.NewViper(path)
	require.NoError(t, err)
	assert.Equal(t, "file-secret", cfg.GetString("jwt.secret"))

	_, err = config.NewViper(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
