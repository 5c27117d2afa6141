package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// SyncConfig holds the sync collaborator endpoint and poll cadence.
type SyncConfig struct {
	ServerURL         string        `json:"serverUrl" mapstructure:"serverUrl"`
	APIKey            string        `json:"apiKey" mapstructure:"apiKey"`
	BroadcastInterval time.Duration `json:"broadcastInterval" mapstructure:"broadcastInterval"`
	TelemetryInterval time.Duration `json:"telemetryInterval" mapstructure:"telemetryInterval"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
}

// MemoryConfig holds in-memory/JSON storage backend settings.
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// ViewportConfig sizes the render surface the transforms map into.
type ViewportConfig struct {
	Width   float64 `json:"width" mapstructure:"width"`
	Height  float64 `json:"height" mapstructure:"height"`
	ZoomMin float64 `json:"zoomMin" mapstructure:"zoomMin"`
	ZoomMax float64 `json:"zoomMax" mapstructure:"zoomMax"`
}

// AlertConfig tunes the overdue-acknowledgment re-alerts.
type AlertConfig struct {
	OverdueAfter   time.Duration `json:"overdueAfter" mapstructure:"overdueAfter"`
	RescanInterval time.Duration `json:"rescanInterval" mapstructure:"rescanInterval"`
}

// MonitorConfig tunes the status monitor cadence and output location.
type MonitorConfig struct {
	Interval  time.Duration `json:"interval" mapstructure:"interval"`
	StatusDir string        `json:"statusDir" mapstructure:"statusDir"`
}

// PresenceConfig configures the optional Redis live-state mirror.
type PresenceConfig struct {
	Enabled bool          `json:"enabled" mapstructure:"enabled"`
	Address string        `json:"address" mapstructure:"address"`
	TTL     time.Duration `json:"ttl" mapstructure:"ttl"`
}

// Load reads configuration from the JSON config file and sets default
// values. configDir is the directory containing the config file.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./gridtracklogs")
	viper.SetDefault("operatorId", "operator")

	viper.SetDefault("sync.serverUrl", "http://localhost:5000")
	viper.SetDefault("sync.apiKey", "")
	viper.SetDefault("sync.broadcastInterval", "5s")
	viper.SetDefault("sync.telemetryInterval", "2s")

	viper.SetDefault("viewport.width", 1280)
	viper.SetDefault("viewport.height", 800)
	viper.SetDefault("viewport.zoomMin", 0.5)
	viper.SetDefault("viewport.zoomMax", 5.0)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./exports")
	viper.SetDefault("storage.memory.compressOutput", false)

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "gridtrack")

	viper.SetDefault("alert.overdueAfter", "60s")
	viper.SetDefault("alert.rescanInterval", "30s")

	viper.SetDefault("monitor.interval", "10s")
	viper.SetDefault("monitor.statusDir", "./gridtracklogs")

	viper.SetDefault("presence.enabled", false)
	viper.SetDefault("presence.address", "localhost:6379")
	viper.SetDefault("presence.ttl", "30s")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "gridtrack-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetConfigName("gridtrack.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// Sync returns the decoded sync section.
func Sync() SyncConfig {
	return SyncConfig{
		ServerURL:         viper.GetString("sync.serverUrl"),
		APIKey:            viper.GetString("sync.apiKey"),
		BroadcastInterval: viper.GetDuration("sync.broadcastInterval"),
		TelemetryInterval: viper.GetDuration("sync.telemetryInterval"),
	}
}

// Storage returns the decoded storage section.
func Storage() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
	}
}

// Viewport returns the decoded viewport section.
func Viewport() ViewportConfig {
	return ViewportConfig{
		Width:   viper.GetFloat64("viewport.width"),
		Height:  viper.GetFloat64("viewport.height"),
		ZoomMin: viper.GetFloat64("viewport.zoomMin"),
		ZoomMax: viper.GetFloat64("viewport.zoomMax"),
	}
}

// Alert returns the decoded alert section.
func Alert() AlertConfig {
	return AlertConfig{
		OverdueAfter:   viper.GetDuration("alert.overdueAfter"),
		RescanInterval: viper.GetDuration("alert.rescanInterval"),
	}
}

// Monitor returns the decoded monitor section.
func Monitor() MonitorConfig {
	return MonitorConfig{
		Interval:  viper.GetDuration("monitor.interval"),
		StatusDir: viper.GetString("monitor.statusDir"),
	}
}

// Presence returns the decoded presence section.
func Presence() PresenceConfig {
	return PresenceConfig{
		Enabled: viper.GetBool("presence.enabled"),
		Address: viper.GetString("presence.address"),
		TTL:     viper.GetDuration("presence.ttl"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
