// Package config loads the parameters that describe a cache hierarchy:
// geometry, queue sizes, bandwidth, and inclusion policy for each
// level, from a .env-style file with environment-variable overrides.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Level holds one cache level's configuration.
type Level struct {
	Name string

	Sets      int
	Ways      int
	BlockSize int

	RQSize, WQSize, PQSize, IVQSize int
	MSHRSize                        int

	MaxRead, MaxWrite, MaxFill int

	Inclusion string
}

// Hierarchy holds every level of a cache hierarchy plus the backing
// store latency beneath it.
type Hierarchy struct {
	Levels        []Level
	MemoryLatency uint64
}

// Load reads path (if it exists) into the process environment with
// godotenv, then builds a Hierarchy from CACHECORE_* variables, one
// level per name in CACHECORE_LEVELS (a comma-separated list, e.g.
// "L1,L2,LLC"). Every level field falls back to the cache package's
// own defaults when its variable is unset, so a minimal .env only
// needs to name the levels it wants to override.
func Load(path string) (Hierarchy, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				return Hierarchy{}, err
			}
		}
	}

	names := splitNonEmpty(os.Getenv("CACHECORE_LEVELS"))
	if len(names) == 0 {
		names = []string{"L1", "L2", "LLC"}
	}

	h := Hierarchy{
		MemoryLatency: envUint("CACHECORE_MEMORY_LATENCY", 200),
	}

	for _, name := range names {
		h.Levels = append(h.Levels, levelFromEnv(name))
	}

	return h, nil
}

func levelFromEnv(name string) Level {
	prefix := "CACHECORE_" + name + "_"

	return Level{
		Name:      name,
		Sets:      envInt(prefix+"SETS", 64),
		Ways:      envInt(prefix+"WAYS", 8),
		BlockSize: envInt(prefix+"BLOCK_SIZE", 64),
		RQSize:    envInt(prefix+"RQ_SIZE", 16),
		WQSize:    envInt(prefix+"WQ_SIZE", 16),
		PQSize:    envInt(prefix+"PQ_SIZE", 16),
		IVQSize:   envInt(prefix+"IVQ_SIZE", 16),
		MSHRSize:  envInt(prefix+"MSHR_SIZE", 16),
		MaxRead:   envInt(prefix+"MAX_READ", 1),
		MaxWrite:  envInt(prefix+"MAX_WRITE", 1),
		MaxFill:   envInt(prefix+"MAX_FILL", 0),
		Inclusion: envString(prefix+"INCLUSION", "inclusive"),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return n
}

func envUint(key string, fallback uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fallback
	}

	return n
}

func splitNonEmpty(s string) []string {
	var out []string

	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}

			start = i + 1
		}
	}

	return out
}
