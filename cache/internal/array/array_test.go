package array_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sarchlab/cachecore/cache/internal/array"
)

func TestFindMissesOnEmptyArray(t *testing.T) {
	a := array.New(4, 8)

	set := a.GetSet(0x1000, 6)
	assert.Equal(t, -1, a.Find(set, 0x1000, 6))
}

func TestFindHitsAfterInstall(t *testing.T) {
	a := array.New(4, 8)

	addr := uint64(0x4000)
	set := a.GetSet(addr, 6)

	b := a.Block(set, 2)
	b.Valid = true
	b.Address = addr

	way := a.Find(set, addr, 6)
	assert.Equal(t, 2, way)
}

func TestGetSetWrapsToSetCount(t *testing.T) {
	a := array.New(4, 8)

	set := a.GetSet(uint64(4)<<6, 6)
	assert.Equal(t, 0, set)
}
