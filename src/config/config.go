package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// ConfigPathEnvVar points at an alternate .env when none sits next
	// to the executable.
	ConfigPathEnvVar = "KICAD_IMPART_CONFIG"

	defaultPort         = 59999
	defaultPollInterval = 500 * time.Millisecond
	minPollInterval     = 50 * time.Millisecond
)

type Config struct {
	Port              int
	SrcPath           string
	DestPath          string
	PollInterval      time.Duration
	EnableFileLogging bool
	AutoImport        bool
	OverwriteImport   bool
}

// Load reads configuration from a .env file in the executable's
// directory (or the KICAD_IMPART_CONFIG path), with process environment
// variables taking precedence, and applies defaults and clamping.
func Load() (*Config, error) {
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	cfg := &Config{
		Port:              resolvePort(),
		SrcPath:           getEnvWithDefault("IMPART_SRC_PATH", "."),
		DestPath:          os.Getenv("IMPART_DEST_PATH"),
		PollInterval:      resolvePollInterval(),
		EnableFileLogging: boolEnv("ENABLE_FILE_LOGGING"),
		AutoImport:        boolEnv("IMPART_AUTO_IMPORT"),
		OverwriteImport:   boolEnv("IMPART_OVERWRITE_IMPORT"),
	}
	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}
	if alt := os.Getenv(ConfigPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}
	return ""
}

func resolvePort() int {
	if v := os.Getenv("IMPART_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1024 && n <= 65535 {
			return n
		}
	}
	return defaultPort
}

func resolvePollInterval() time.Duration {
	if v := os.Getenv("IMPART_POLL_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			d := time.Duration(n) * time.Millisecond
			if d < minPollInterval {
				return minPollInterval
			}
			return d
		}
	}
	return defaultPollInterval
}

func boolEnv(key string) bool {
	return strings.ToLower(os.Getenv(key)) == "true"
}

func getEnvWithDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
