package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RIDEHUB_FIREBASE_PROJECT_ID", "ridehub-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, StorePostgres, cfg.Store.Kind)
	assert.Equal(t, TransportRedis, cfg.Events.Transport)
	assert.Equal(t, "ridehub:events", cfg.Redis.Stream)
	assert.Equal(t, "roles", cfg.Firebase.RolesClaim)
	assert.Equal(t, int32(10), cfg.DB.MaxConns)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RIDEHUB_FIREBASE_PROJECT_ID", "ridehub-test")
	t.Setenv("RIDEHUB_HTTP_ADDR", ":9090")
	t.Setenv("RIDEHUB_STORE_KIND", "memory")
	t.Setenv("RIDEHUB_EVENTS_TRANSPORT", "nats")
	t.Setenv("RIDEHUB_NATS_URL", "nats://bus:4222")
	t.Setenv("RIDEHUB_HTTP_WRITE_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, StoreMemory, cfg.Store.Kind)
	assert.Equal(t, TransportNATS, cfg.Events.Transport)
	assert.Equal(t, "nats://bus:4222", cfg.NATS.URL)
	assert.Equal(t, 30*time.Second, cfg.HTTP.WriteTimeout)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ridehub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
firebase:
  project_id: from-file
log:
  level: debug
events:
  transport: none
`), 0o600))
	t.Setenv("RIDEHUB_CONFIG", path)
	t.Setenv("RIDEHUB_LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Firebase.ProjectID)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, TransportNone, cfg.Events.Transport)
}

func TestValidateJoinsErrors(t *testing.T) {
	t.Setenv("RIDEHUB_STORE_KIND", "sqlite")
	t.Setenv("RIDEHUB_EVENTS_TRANSPORT", "kafka")

	_, err := Load()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "store.kind")
	assert.Contains(t, msg, "events.transport")
	assert.Contains(t, msg, "firebase.project_id")
}
