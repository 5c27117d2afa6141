package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, "gridtrack.cfg.json"), []byte(content), 0644)
	require.NoError(t, err)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	writeConfig(t, dir, `{
		"logLevel": "debug",
		"operatorId": "op-7",
		"sync": {
			"serverUrl": "https://relay.example.org",
			"apiKey": "secret",
			"broadcastInterval": "10s"
		},
		"viewport": {
			"width": 1920,
			"height": 1080
		},
		"storage": {
			"type": "gorm"
		}
	}`)

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", GetString("logLevel"))
	assert.Equal(t, "op-7", GetString("operatorId"))

	s := Sync()
	assert.Equal(t, "https://relay.example.org", s.ServerURL)
	assert.Equal(t, "secret", s.APIKey)
	assert.Equal(t, 10*time.Second, s.BroadcastInterval)
	// untouched key keeps its default
	assert.Equal(t, 2*time.Second, s.TelemetryInterval)

	v := Viewport()
	assert.Equal(t, 1920.0, v.Width)
	assert.Equal(t, 1080.0, v.Height)

	assert.Equal(t, "gorm", Storage().Type)
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	writeConfig(t, dir, `{}`)

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", GetString("logLevel"))
	assert.Equal(t, "./gridtracklogs", GetString("logsDir"))
	assert.Equal(t, "operator", GetString("operatorId"))

	s := Sync()
	assert.Equal(t, "http://localhost:5000", s.ServerURL)
	assert.Equal(t, 5*time.Second, s.BroadcastInterval)
	assert.Equal(t, 2*time.Second, s.TelemetryInterval)

	v := Viewport()
	assert.Equal(t, 1280.0, v.Width)
	assert.Equal(t, 800.0, v.Height)
	assert.Equal(t, 0.5, v.ZoomMin)
	assert.Equal(t, 5.0, v.ZoomMax)

	st := Storage()
	assert.Equal(t, "memory", st.Type)
	assert.Equal(t, "./exports", st.Memory.OutputDir)
	assert.False(t, st.Memory.CompressOutput)

	a := Alert()
	assert.Equal(t, 60*time.Second, a.OverdueAfter)
	assert.Equal(t, 30*time.Second, a.RescanInterval)

	p := Presence()
	assert.False(t, p.Enabled)
	assert.Equal(t, "localhost:6379", p.Address)
	assert.Equal(t, 30*time.Second, p.TTL)

	assert.False(t, GetBool("influx.enabled"))
	assert.False(t, GetBool("graylog.enabled"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()

	err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_InvalidJSON(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	writeConfig(t, dir, `{not json`)

	err := Load(dir)
	assert.Error(t, err)
}

func TestPresence_EnabledFromFile(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	writeConfig(t, dir, `{
		"presence": {
			"enabled": true,
			"address": "redis.local:6380",
			"ttl": "45s"
		}
	}`)

	require.NoError(t, Load(dir))

	p := Presence()
	assert.True(t, p.Enabled)
	assert.Equal(t, "redis.local:6380", p.Address)
	assert.Equal(t, 45*time.Second, p.TTL)
}
