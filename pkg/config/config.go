// Package config loads procmon settings from the environment and an optional .env file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ja7ad/procmon/pkg/system/proc"
)

// Config holds the settings of the procmon CLI. Environment variables
// (optionally from a .env file) provide the defaults; flags override them.
type Config struct {
	ProcRoot  string
	OSRelease string
	Passwd    string
	ClockTick int64

	Interval time.Duration
	Samples  int
	Warmup   int
	Top      int
	Output   string
	EMA      float64

	LogLevel  string
	LogFormat string
}

func Load() *Config {
	_ = godotenv.Load()

	interval := time.Second
	if raw := os.Getenv("PROCMON_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			interval = d
		}
	}

	return &Config{
		ProcRoot:  getEnv("PROCMON_PROC_ROOT", proc.DefaultRoot),
		OSRelease: getEnv("PROCMON_OS_RELEASE", proc.DefaultOSRelease),
		Passwd:    getEnv("PROCMON_PASSWD", proc.DefaultPasswd),
		ClockTick: proc.ClockTicks(),

		Interval: interval,
		Samples:  getEnvInt("PROCMON_SAMPLES", 0),
		Warmup:   getEnvInt("PROCMON_WARMUP", 1),
		Top:      getEnvInt("PROCMON_TOP", 15),
		Output:   strings.ToLower(getEnv("PROCMON_OUTPUT", "table")),
		EMA:      getEnvFloat("PROCMON_EMA", 0),

		LogLevel:  getEnv("PROCMON_LOG_LEVEL", "info"),
		LogFormat: getEnv("PROCMON_LOG_FORMAT", "text"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v >= 0 {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}
