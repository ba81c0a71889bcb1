package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/BurntSushi/toml"
)

// Config represents the TOML configuration structure
type Config struct {
	Logging struct {
		Debug int `toml:"debug"`
	} `toml:"logging"`

	Performance struct {
		NumParallel int `toml:"num_parallel"`
	} `toml:"performance"`

	Pretokenizer struct {
		CacheSize        int    `toml:"cache_size"`
		NativeCategories *bool  `toml:"native_categories"`
		MatchTimeout     string `toml:"match_timeout"`
	} `toml:"pretokenizer"`
}

var (
	configOnce sync.Once
	config     *Config
	configPath string
)

// GetConfigPaths returns the list of possible config file paths for the current OS
func GetConfigPaths() []string {
	var paths []string

	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			paths = append(paths, filepath.Join(appData, "ollama", "pretokenizer.toml"))
		}
		if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
			paths = append(paths, filepath.Join(userProfile, ".ollama", "pretokenizer.toml"))
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			paths = append(paths,
				filepath.Join(home, "Library", "Application Support", "ollama", "pretokenizer.toml"),
				filepath.Join(home, ".config", "ollama", "pretokenizer.toml"),
				filepath.Join(home, ".ollama", "pretokenizer.toml"),
			)
		}
	default: // Linux and others
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			paths = append(paths, filepath.Join(xdgConfig, "ollama", "pretokenizer.toml"))
		}
		home, err := os.UserHomeDir()
		if err == nil {
			paths = append(paths,
				filepath.Join(home, ".config", "ollama", "pretokenizer.toml"),
				filepath.Join(home, ".ollama", "pretokenizer.toml"),
			)
		}
		paths = append(paths, "/etc/ollama/pretokenizer.toml")
	}

	return paths
}

// loadConfig loads the first available configuration file
func loadConfig() (*Config, string, error) {
	for _, path := range GetConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			var cfg Config
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return nil, "", fmt.Errorf("error parsing config file %s: %w", path, err)
			}
			return &cfg, path, nil
		}
	}
	return nil, "", nil
}

// GetConfigValue returns the value for a given environment variable key from the config file
func GetConfigValue(key string) string {
	configOnce.Do(func() {
		var err error
		config, configPath, err = loadConfig()
		if err != nil {
			slog.Warn("failed to load config file", "error", err)
		} else if config != nil {
			slog.Debug("loaded config file", "path", configPath)
		}
	})

	if config == nil {
		return ""
	}

	switch key {
	case "OLLAMA_DEBUG":
		if config.Logging.Debug > 0 {
			return fmt.Sprintf("%d", config.Logging.Debug)
		}
	case "OLLAMA_NUM_PARALLEL":
		if config.Performance.NumParallel > 0 {
			return fmt.Sprintf("%d", config.Performance.NumParallel)
		}
	case "OLLAMA_PRETOKENIZER_CACHE":
		if config.Pretokenizer.CacheSize > 0 {
			return fmt.Sprintf("%d", config.Pretokenizer.CacheSize)
		}
	case "OLLAMA_PRETOKENIZER_NATIVE":
		if config.Pretokenizer.NativeCategories != nil {
			return fmt.Sprintf("%t", *config.Pretokenizer.NativeCategories)
		}
	case "OLLAMA_PRETOKENIZER_TIMEOUT":
		return config.Pretokenizer.MatchTimeout
	}

	return ""
}

// GenerateExampleConfig returns a commented example TOML configuration
func GenerateExampleConfig() string {
	return `# Pretokenizer Configuration File
# Environment variables take precedence over values set here.

[logging]
# 0 = info, 1 = debug, 2 = trace (default: 0)
debug = 0

[performance]
# Number of texts split in parallel by SplitBatch (default: 1)
num_parallel = 4

[pretokenizer]
# Number of compiled pattern lists kept by Split (default: 64)
cache_size = 64
# Match \p{..} classes natively instead of collapsing text (default: false)
native_categories = false
# Time limit for a single generic pattern match, e.g. "100ms" (default: none)
match_timeout = ""
`
}
