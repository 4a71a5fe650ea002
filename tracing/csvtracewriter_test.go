package tracing_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarchlab/cachecore/tracing"
)

func TestCSVTraceWriterWritesHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace")

	w := tracing.NewCSVTraceWriter(path)
	w.Init()

	w.Write(tracing.Task{ID: "t1", Kind: "read", StartCycle: 1, EndCycle: 2, Tags: []string{"cache_hit"}})
	w.Flush()

	contents, err := os.ReadFile(path + ".csv")
	require.NoError(t, err)

	body := string(contents)
	assert.Contains(t, body, "ID, ParentID, Kind, What, Where, StartCycle, EndCycle, Tags")
	assert.Contains(t, body, "t1")
	assert.Contains(t, body, "cache_hit")
}

func TestCSVTraceWriterPanicsIfFileAlreadyExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace")

	first := tracing.NewCSVTraceWriter(path)
	first.Init()

	second := tracing.NewCSVTraceWriter(path)
	assert.Panics(t, func() { second.Init() })
}
