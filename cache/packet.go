package cache

import (
	"github.com/sarchlab/cachecore/id"
	"github.com/sarchlab/cachecore/mem"
)

// newPacket creates a packet of typ for address, tagged with a fresh
// ID and this cache's current fill level.
func (c *Comp) newPacket(typ mem.Type, address uint64) *mem.Packet {
	return &mem.Packet{
		ID:        id.Generate(),
		Type:      typ,
		Address:   address,
		FillLevel: c.fillLevel,
	}
}
