package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	// Set via OLLAMA_DEBUG in the environment
	Debug bool
	// Set via OLLAMA_NUM_PARALLEL in the environment
	NumParallel int
	// Set via OLLAMA_PRETOKENIZER_CACHE in the environment
	PatternCacheSize int
	// Set via OLLAMA_PRETOKENIZER_NATIVE in the environment
	NativeCategories bool
	// Set via OLLAMA_PRETOKENIZER_TIMEOUT in the environment
	MatchTimeout time.Duration

	debugLevel int
)

type EnvVar struct {
	Name        string
	Value       any
	Description string
}

func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"OLLAMA_DEBUG":                {"OLLAMA_DEBUG", Debug, "Log level of the pretokenizer logger (e.g. OLLAMA_DEBUG=1, OLLAMA_DEBUG=2 for trace)"},
		"OLLAMA_NUM_PARALLEL":         {"OLLAMA_NUM_PARALLEL", NumParallel, "Maximum number of texts split in parallel (default 1)"},
		"OLLAMA_PRETOKENIZER_CACHE":   {"OLLAMA_PRETOKENIZER_CACHE", PatternCacheSize, "Number of compiled pattern lists kept (default 64)"},
		"OLLAMA_PRETOKENIZER_NATIVE":  {"OLLAMA_PRETOKENIZER_NATIVE", NativeCategories, "Match unicode categories natively instead of collapsing text"},
		"OLLAMA_PRETOKENIZER_TIMEOUT": {"OLLAMA_PRETOKENIZER_TIMEOUT", MatchTimeout, "Time limit for a single generic pattern match (e.g. 100ms)"},
	}
}

func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}

// LogLevel maps OLLAMA_DEBUG to a slog level. 1 or true enables debug, 2
// enables trace.
func LogLevel() slog.Level {
	return slog.Level(-4 * min(debugLevel, 2))
}

// Clean quotes and spaces from the value
func clean(key string) string {
	return strings.Trim(os.Getenv(key), "\"' ")
}

// getenv prefers the environment and falls back to the config file
func getenv(key string) string {
	if s := clean(key); s != "" {
		return s
	}

	return strings.Trim(GetConfigValue(key), "\"' ")
}

func init() {
	LoadConfig()
}

func LoadConfig() {
	// default values
	Debug = false
	debugLevel = 0
	NumParallel = 1
	PatternCacheSize = 64
	NativeCategories = false
	MatchTimeout = 0

	if debug := getenv("OLLAMA_DEBUG"); debug != "" {
		if n, err := strconv.Atoi(debug); err == nil {
			debugLevel = max(n, 0)
		} else if d, err := strconv.ParseBool(debug); err == nil {
			if d {
				debugLevel = 1
			}
		} else {
			debugLevel = 1
		}

		Debug = debugLevel > 0
	}

	if onp := getenv("OLLAMA_NUM_PARALLEL"); onp != "" {
		val, err := strconv.Atoi(onp)
		if err != nil || val <= 0 {
			slog.Error("invalid setting must be greater than zero", "OLLAMA_NUM_PARALLEL", onp, "error", err)
		} else {
			NumParallel = val
		}
	}

	if size := getenv("OLLAMA_PRETOKENIZER_CACHE"); size != "" {
		val, err := strconv.Atoi(size)
		if err != nil || val <= 0 {
			slog.Error("invalid setting must be greater than zero", "OLLAMA_PRETOKENIZER_CACHE", size, "error", err)
		} else {
			PatternCacheSize = val
		}
	}

	if native := getenv("OLLAMA_PRETOKENIZER_NATIVE"); native != "" {
		d, err := strconv.ParseBool(native)
		if err != nil {
			slog.Error("invalid setting", "OLLAMA_PRETOKENIZER_NATIVE", native, "error", err)
		} else {
			NativeCategories = d
		}
	}

	if timeout := getenv("OLLAMA_PRETOKENIZER_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil || d < 0 {
			slog.Error("invalid setting", "OLLAMA_PRETOKENIZER_TIMEOUT", timeout, "error", err)
		} else {
			MatchTimeout = d
		}
	}
}
