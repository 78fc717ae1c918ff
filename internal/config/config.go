package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lcalzada-xor/bmap/internal/core/domain"
	"github.com/lcalzada-xor/bmap/internal/core/services/freshness"
)

// Config holds all application configuration.
type Config struct {
	ProfilesPath string
	DBPath       string
	ReportPath   string
	Debug        bool

	ActiveWindowMs   int
	InactiveWindowMs int
	StrongThreshold  int // dBm
	WeakThreshold    int // dBm
	SweepPeriodMs    int

	MockBeacons    int
	EmitIntervalMs int
}

// Load parses command line flags and environment variables to populate Config.
// Flags take precedence over environment variables.
func Load() *Config {
	cfg := &Config{}

	// Defaults and Environment Variables
	cfg.ProfilesPath = getEnv("BMAP_PROFILES", "")
	cfg.DBPath = getEnv("BMAP_DB", getDefaultDBPath())
	cfg.ReportPath = getEnv("BMAP_REPORT", "")
	cfg.ActiveWindowMs = getEnvInt("BMAP_ACTIVE_MS", 5000)
	cfg.InactiveWindowMs = getEnvInt("BMAP_INACTIVE_MS", 30000)
	cfg.StrongThreshold = getEnvInt("BMAP_STRONG_DBM", -75)
	cfg.WeakThreshold = getEnvInt("BMAP_WEAK_DBM", -88)
	cfg.SweepPeriodMs = getEnvInt("BMAP_SWEEP_MS", 5000)

	// Command Line Flags (Override Env)
	flag.StringVar(&cfg.ProfilesPath, "profiles", cfg.ProfilesPath, "Path to device profiles JSON (empty for built-in defaults)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to SQLite label database")
	flag.StringVar(&cfg.ReportPath, "report", cfg.ReportPath, "Path to write a PDF inventory report on shutdown (empty to disable)")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable verbose debug logging")
	flag.IntVar(&cfg.ActiveWindowMs, "active", cfg.ActiveWindowMs, "Freshness active window in milliseconds")
	flag.IntVar(&cfg.InactiveWindowMs, "inactive", cfg.InactiveWindowMs, "Freshness inactive window in milliseconds")
	flag.IntVar(&cfg.StrongThreshold, "strong", cfg.StrongThreshold, "Strong signal threshold in dBm")
	flag.IntVar(&cfg.WeakThreshold, "weak", cfg.WeakThreshold, "Weak signal threshold in dBm")
	flag.IntVar(&cfg.SweepPeriodMs, "sweep", cfg.SweepPeriodMs, "Status sweep period in milliseconds")
	flag.IntVar(&cfg.MockBeacons, "beacons", 12, "Number of simulated advertisers")
	flag.IntVar(&cfg.EmitIntervalMs, "emit", 250, "Simulated advertisement interval in milliseconds")

	flag.Parse()

	return cfg
}

// Thresholds converts the configured windows into classifier thresholds.
func (c *Config) Thresholds() freshness.Thresholds {
	return freshness.Thresholds{
		ActiveWindow:   time.Duration(c.ActiveWindowMs) * time.Millisecond,
		InactiveWindow: time.Duration(c.InactiveWindowMs) * time.Millisecond,
		Strong:         c.StrongThreshold,
		Weak:           c.WeakThreshold,
	}
}

// SweepPeriod returns the sweep period as a duration.
func (c *Config) SweepPeriod() time.Duration {
	return time.Duration(c.SweepPeriodMs) * time.Millisecond
}

// EmitInterval returns the simulated advertisement interval as a duration.
func (c *Config) EmitInterval() time.Duration {
	return time.Duration(c.EmitIntervalMs) * time.Millisecond
}

// LoadProfiles reads the ordered device profile list from the configured JSON
// file, falling back to the built-in defaults when no path is set.
func (c *Config) LoadProfiles() ([]domain.DeviceProfile, error) {
	if c.ProfilesPath == "" {
		return DefaultProfiles(), nil
	}

	data, err := os.ReadFile(c.ProfilesPath)
	if err != nil {
		return nil, fmt.Errorf("reading profiles: %w", err)
	}

	var profiles []domain.DeviceProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parsing profiles: %w", err)
	}
	return profiles, nil
}

// DefaultProfiles is the built-in recognition set used when no profile file
// is configured.
func DefaultProfiles() []domain.DeviceProfile {
	return []domain.DeviceProfile{
		{Name: "Battery Tag", MatchKind: domain.MatchByService, ServiceUUID: "180f"},
		{Name: "Environment Sensor", MatchKind: domain.MatchByService, ServiceUUID: "181a"},
		{Name: "Eddystone Beacon", MatchKind: domain.MatchByService, ServiceUUID: "feaa"},
		{Name: "Apple Tracker", MatchKind: domain.MatchByManufacturer, CompanyID: 0x004C},
		{Name: "Nordic Tag", MatchKind: domain.MatchByManufacturer, CompanyID: 0x0059},
		{Name: "Espressif Node", MatchKind: domain.MatchByManufacturer, CompanyID: 0x02E5},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

// getDefaultDBPath returns the default database path in user's home directory.
// Creates the directory if it doesn't exist.
func getDefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: Could not get user home directory, using current dir: %v", err)
		return "bmap.db"
	}

	bmapDir := filepath.Join(home, ".bmap")
	if err := os.MkdirAll(bmapDir, 0755); err != nil {
		log.Printf("Warning: Could not create .bmap directory, using current dir: %v", err)
		return "bmap.db"
	}

	return filepath.Join(bmapDir, "bmap.db")
}
