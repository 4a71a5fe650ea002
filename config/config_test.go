package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarchlab/cachecore/config"
)

func TestLoadAppliesDefaultsWithNoFile(t *testing.T) {
	clearCachecoreEnv(t)

	h, err := config.Load("")
	require.NoError(t, err)

	require.Len(t, h.Levels, 3)
	assert.Equal(t, "L1", h.Levels[0].Name)
	assert.Equal(t, 64, h.Levels[0].Sets)
	assert.Equal(t, 8, h.Levels[0].Ways)
	assert.Equal(t, "inclusive", h.Levels[0].Inclusion)
	assert.Equal(t, uint64(200), h.MemoryLatency)
}

func TestLoadReadsEnvFile(t *testing.T) {
	clearCachecoreEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "hierarchy.env")

	contents := "CACHECORE_LEVELS=L1,LLC\n" +
		"CACHECORE_L1_SETS=8\n" +
		"CACHECORE_L1_WAYS=4\n" +
		"CACHECORE_LLC_INCLUSION=exclusive\n" +
		"CACHECORE_MEMORY_LATENCY=50\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	h, err := config.Load(path)
	require.NoError(t, err)

	require.Len(t, h.Levels, 2)
	assert.Equal(t, "L1", h.Levels[0].Name)
	assert.Equal(t, 8, h.Levels[0].Sets)
	assert.Equal(t, 4, h.Levels[0].Ways)
	assert.Equal(t, "LLC", h.Levels[1].Name)
	assert.Equal(t, "exclusive", h.Levels[1].Inclusion)
	assert.Equal(t, uint64(50), h.MemoryLatency)
}

func TestLoadIgnoresMissingFile(t *testing.T) {
	clearCachecoreEnv(t)

	h, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.env"))
	require.NoError(t, err)
	require.Len(t, h.Levels, 3)
}

// clearCachecoreEnv unsets every CACHECORE_ variable for the duration
// of the test, restoring the previous environment afterward, so tests
// don't see leftover state from the developer's own shell or a
// previous test in the same run.
func clearCachecoreEnv(t *testing.T) {
	t.Helper()

	for _, kv := range os.Environ() {
		name := kv
		for i, r := range kv {
			if r == '=' {
				name = kv[:i]
				break
			}
		}

		if len(name) >= len("CACHECORE_") && name[:len("CACHECORE_")] == "CACHECORE_" {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
}
