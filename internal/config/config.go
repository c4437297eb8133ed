// Package config holds the server's environment-configurable settings:
// world geometry, simulation pacing, and transport limits. Gameplay
// constants (mob, bomb, explosion, and powerup tuning) and the rate-limiter
// defaults live in their own packages instead.
// Each concern gets its own struct with a pure-literal Default*() and an
// env-overridable *FromEnv() constructor, the same shape as the teacher's
// internal/config/config.go.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// WORLD CONFIGURATION
// =============================================================================

// WorldConfig controls map geometry.
type WorldConfig struct {
	Width    int32   // Map width in tiles (bumped to odd if even)
	Height   int32   // Map height in tiles (bumped to odd if even)
	TileSize float64 // Pixel size of one tile
	ZoneSize int32   // Zone quota partition size in tiles
}

// DefaultWorld returns the default world configuration.
func DefaultWorld() WorldConfig {
	return WorldConfig{
		Width:    51,
		Height:   31,
		TileSize: 32,
		ZoneSize: 16,
	}
}

// WorldFromEnv overlays environment variables onto DefaultWorld.
func WorldFromEnv() WorldConfig {
	cfg := DefaultWorld()
	if w := getEnvInt("WORLD_WIDTH", 0); w > 0 {
		cfg.Width = int32(w)
	}
	if h := getEnvInt("WORLD_HEIGHT", 0); h > 0 {
		cfg.Height = int32(h)
	}
	if z := getEnvInt("ZONE_SIZE", 0); z > 0 {
		cfg.ZoneSize = int32(z)
	}
	return cfg
}

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig controls tick pacing and periodic scheduler timers.
type SimConfig struct {
	TickRate int // Target simulation rate in Hz

	MobSpawnDelayMinSeconds float64 // Lower bound of the random mob-spawn interval
	MobSpawnDelayMaxSeconds float64 // Upper bound of the random mob-spawn interval
	BlockRefillInterval     int     // Seconds between block-refill attempts
	FPSLogInterval          int     // Seconds between FPS log lines

	// ScreenWidth/ScreenHeight are the client's pixel viewport, used to size
	// the per-player chunk (§4.1 get_chunk).
	ScreenWidth  int32
	ScreenHeight int32
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TickRate:                30,
		MobSpawnDelayMinSeconds: 1,
		MobSpawnDelayMaxSeconds: 60,
		BlockRefillInterval:     10,
		FPSLogInterval:          5,
		ScreenWidth:             800,
		ScreenHeight:            600,
	}
}

// SimFromEnv overlays environment variables onto DefaultSim.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()
	if tr := getEnvInt("TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	return cfg
}

// =============================================================================
// SERVER / TRANSPORT CONFIGURATION
// =============================================================================

// ServerConfig controls the listening port and connection limits.
type ServerConfig struct {
	Port           int
	MetricsAddr    string // e.g. "127.0.0.1:9090"; empty disables metrics listener
	MaxConnections int
	QueueCapacity  int // Bounded inbound/outbound queue depth per connection (§5)
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:           9002,
		MetricsAddr:    "127.0.0.1:9090",
		MaxConnections: 500,
		QueueCapacity:  30,
	}
}

// ServerFromEnv overlays environment variables onto DefaultServer.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()
	if p := getEnvInt("GAME_PORT", 0); p > 0 {
		cfg.Port = p
	}
	if addr := os.Getenv("METRICS_ADDR"); addr != "" {
		cfg.MetricsAddr = addr
	}
	if mc := getEnvInt("MAX_CONNECTIONS", 0); mc > 0 {
		cfg.MaxConnections = mc
	}
	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	World  WorldConfig
	Sim    SimConfig
	Server ServerConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		World:  WorldFromEnv(),
		Sim:    SimFromEnv(),
		Server: ServerFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
