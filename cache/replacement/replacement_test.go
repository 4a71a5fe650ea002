package replacement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sarchlab/cachecore/cache/internal/array"
	"github.com/sarchlab/cachecore/cache/replacement"
)

func TestLRUPrefersInvalidWay(t *testing.T) {
	a := array.New(1, 4)
	a.Block(0, 1).Valid = true

	policy := replacement.NewLRU()

	assert.Equal(t, 0, policy.FindVictim(a, 0))
}

func TestLRUEvictsOldestWhenAllValid(t *testing.T) {
	a := array.New(1, 2)

	for way := 0; way < 2; way++ {
		a.Block(0, way).Valid = true
	}

	policy := replacement.NewLRU()
	policy.Update(a, 0, 0, 10)
	policy.Update(a, 0, 1, 20)

	assert.Equal(t, 0, policy.FindVictim(a, 0))
}
