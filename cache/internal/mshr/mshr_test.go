package mshr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sarchlab/cachecore/cache/internal/mshr"
	"github.com/sarchlab/cachecore/mem"
)

func TestInsertAndFind(t *testing.T) {
	table := mshr.New(4)

	pkt := &mem.Packet{Address: 0x100}
	table.Insert(pkt)

	assert.Equal(t, pkt, table.Find(0x100))
	assert.Nil(t, table.Find(0x200))
	assert.Equal(t, mshr.NoEventCycle, pkt.EventCycle)
}

func TestFullRespectsCapacity(t *testing.T) {
	table := mshr.New(2)

	table.Insert(&mem.Packet{Address: 0x100})
	assert.False(t, table.Full())

	table.Insert(&mem.Packet{Address: 0x200})
	assert.True(t, table.Full())
}

func TestReturnDataKeepsReturnedEntriesAtFront(t *testing.T) {
	table := mshr.New(4)

	a := &mem.Packet{Address: 0x100}
	b := &mem.Packet{Address: 0x200}
	c := &mem.Packet{Address: 0x300}
	table.Insert(a)
	table.Insert(b)
	table.Insert(c)

	ok := table.ReturnData(0x200, 50)
	assert.True(t, ok)

	entries := table.Entries()
	assert.Equal(t, b, entries[0])
	assert.Equal(t, uint64(50), entries[0].EventCycle)
}

func TestReadyDequeuesInReturnOrder(t *testing.T) {
	table := mshr.New(4)

	a := &mem.Packet{Address: 0x100}
	b := &mem.Packet{Address: 0x200}
	table.Insert(a)
	table.Insert(b)

	table.ReturnData(0x100, 10)
	table.ReturnData(0x200, 20)

	assert.Nil(t, table.Ready(5))

	ready := table.Ready(10)
	assert.Equal(t, a, ready)

	assert.Nil(t, table.Ready(15))

	ready = table.Ready(20)
	assert.Equal(t, b, ready)

	assert.Nil(t, table.Ready(100))
}

func TestRemoveAdjustsReturnedPrefix(t *testing.T) {
	table := mshr.New(4)

	a := &mem.Packet{Address: 0x100}
	b := &mem.Packet{Address: 0x200}
	table.Insert(a)
	table.Insert(b)

	table.ReturnData(0x100, 10)

	assert.True(t, table.Remove(0x100))
	assert.Equal(t, 1, table.Occupancy())
	assert.Nil(t, table.Find(0x100))
}
