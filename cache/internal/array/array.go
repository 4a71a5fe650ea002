// Package array holds the tag/state array of a cache: a flat table of
// Blocks addressed by (set, way), plus the set/way arithmetic every
// cache level shares regardless of its replacement policy.
package array

// Block is one entry of a cache's tag array. It carries no byte
// contents, only an opaque Data word: this module models occupancy and
// coherence state.
type Block struct {
	Valid    bool
	Dirty    bool
	Prefetch bool

	Address  uint64
	VAddress uint64
	IP       uint64
	CPU      int

	// Data is the opaque payload word a fill installs and a later hit
	// reads back; this module tracks it only so it can round-trip
	// through the tag array, not to model byte contents.
	Data uint64

	// LRUStack is the replacement policy's recency counter. Higher
	// values are more recently used; a fresh fill is given the
	// maximum stack position.
	LRUStack uint64

	// PFMetadata is opaque, per-block state a prefetcher attaches at
	// fill time and reads back on a later hit to detect prefetch
	// accuracy or chain further prefetches.
	PFMetadata int
}

// Array is a flat, set-associative tag array.
type Array struct {
	sets   int
	ways   int
	blocks []Block
}

// New creates an Array with the given number of sets and ways, all
// entries initially invalid.
func New(sets, ways int) *Array {
	return &Array{
		sets:   sets,
		ways:   ways,
		blocks: make([]Block, sets*ways),
	}
}

// Sets returns the number of sets.
func (a *Array) Sets() int { return a.sets }

// Ways returns the number of ways.
func (a *Array) Ways() int { return a.ways }

// GetSet maps an address to its set index. Sets are selected from the
// address bits directly above the block offset, matching a simple
// power-of-two-sets, power-of-two-line-size direct mapping.
func (a *Array) GetSet(address uint64, blockSizeLog2 uint) int {
	return int((address >> blockSizeLog2) % uint64(a.sets))
}

// Block returns a pointer to the block at (set, way) so callers can
// read or mutate it in place.
func (a *Array) Block(set, way int) *Block {
	return &a.blocks[set*a.ways+way]
}

// Find returns the way holding address within its set, or -1 if no
// valid block matches.
func (a *Array) Find(set int, address uint64, blockSizeLog2 uint) int {
	tag := address >> blockSizeLog2

	for way := 0; way < a.ways; way++ {
		b := a.Block(set, way)
		if b.Valid && (b.Address>>blockSizeLog2) == tag {
			return way
		}
	}

	return -1
}
