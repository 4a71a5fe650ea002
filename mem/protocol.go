// Package mem defines the request/response protocol shared by every
// level of the cache hierarchy and the backing store beneath it, and
// provides a fixed-latency backing store implementation.
package mem

// Type identifies the kind of request or response carried by a Packet.
type Type int

// The packet types a cache or backing store can see. Values match the
// ChampSim PACKET type tags so that priority and merge rules translate
// directly.
const (
	TypeLoad Type = iota
	TypeRFO
	TypePrefetch
	TypeWriteback
	TypeTranslation
	TypeInvalidate
	TypeWritebackExclusive
	TypeNonValid
)

func (t Type) String() string {
	switch t {
	case TypeLoad:
		return "LOAD"
	case TypeRFO:
		return "RFO"
	case TypePrefetch:
		return "PREFETCH"
	case TypeWriteback:
		return "WRITEBACK"
	case TypeTranslation:
		return "TRANSLATION"
	case TypeInvalidate:
		return "INVALIDATE"
	case TypeWritebackExclusive:
		return "WRITEBACK_EXCLUSIVE"
	case TypeNonValid:
		return "NON_VALID"
	default:
		return "UNKNOWN"
	}
}

// InclusionPolicy controls how a cache's contents relate to the levels
// above it.
type InclusionPolicy int

const (
	// Inclusive caches keep a superset of every level above them.
	Inclusive InclusionPolicy = iota
	// Exclusive caches drop their own copy of a block when a read hits
	// it, and pass returning fill data to the requesters without
	// installing it.
	Exclusive
	// NINE ("not inclusive, not exclusive") caches place no constraint
	// relative to the level above them.
	NINE
	// NotCache marks a level that is not managed as a cache at all
	// (used for the virtual-memory/translation path).
	NotCache
)

// Packet is the unit of communication between a requester and the
// consumer handling its request. It is shared, by reference, across
// every queue and pipeline stage it passes through, so merge rules can
// record dependents without copying.
type Packet struct {
	// ID is a short string used for tracing; it is not part of the
	// original protocol but every packet carries one for tracing.Task
	// correlation.
	ID string

	Type Type

	// FillLevel is the level at which the request terminates, compared
	// as an ordered integer: a smaller value is closer to the CPU. A
	// cache records a miss in its MSHR only when FillLevel is not above
	// its own fill level.
	FillLevel int

	PFMetadata int

	CPU int

	Address          uint64
	VAddress         uint64
	Data             uint64
	InstrID          uint64
	IP               uint64
	IsManualPrefetch bool

	// PFOriginLevel is the FillLevel of whichever cache level first
	// issued this packet as a prefetch. A level compares its own
	// FillLevel against this to decide whether training itself on the
	// access would just be re-crediting the level that already trained
	// on it.
	PFOriginLevel int

	// DataValid reports whether Data holds real contents rather than a
	// placeholder, e.g. because the block backing a hit was dirty, or
	// an invalidate arrived carrying data that must be adopted before
	// the block is dropped.
	DataValid bool

	// InvOngoing counts upstream invalidates a writeback sitting in WQ
	// is waiting behind before it may retire on its own.
	InvOngoing int

	// MergeCount is how many invalidates have been folded into this
	// entry by AddIVQ, consumed against InvOngoing as each resolves.
	MergeCount int

	// MSHRInvalidCount is incremented every time an invalidate for this
	// address arrives while the miss this packet represents is still
	// outstanding in the MSHR.
	MSHRInvalidCount int

	// MSHRReturnDataInvalidCount is compared against MSHRInvalidCount by
	// the fill handler, which re-issues the miss when it is the smaller.
	// No code path assigns it, so it stays 0: any invalidate counted
	// against an MSHR entry before its fill makes that fill re-issue.
	MSHRReturnDataInvalidCount int

	// CycleEnqueued is the cycle this packet entered the MSHR, used to
	// accumulate total miss latency once its fill lands.
	CycleEnqueued uint64

	// TestPacket marks a packet used only to probe a lower level's
	// admission state before the real request is sent.
	TestPacket bool

	// EventCycle is the cycle at which this packet becomes ready to be
	// processed again. An in-flight MSHR entry sets this to the
	// sentinel value NoEventCycle.
	EventCycle uint64

	// ASIDTranslated is true once the vmem translator has supplied
	// Address for a virtual prefetch, so AddPQ admits the packet to PQ
	// instead of VAPQ.
	ASIDTranslated bool

	// ToReturn lists the requesters to notify, in order, when this
	// packet's data is available.
	ToReturn []Requester
}

// Queue type codes passed to Consumer.GetOccupancy/GetSize, matching
// the queue_type tagging a cache's admission queues use internally.
const (
	QueueMSHR = 0
	QueueRQ   = 1
	QueueWQ   = 2
	QueuePQ   = 3
	QueueIVQ  = 4
)

// NoEventCycle marks an MSHR entry whose fill has not yet returned.
const NoEventCycle = ^uint64(0)

// Requester is implemented by anything that can receive a completed
// packet back from a Consumer (a cache's upper_level, or a requesting
// CPU-side generator).
type Requester interface {
	// Name identifies the requester for tracing.
	Name() string

	// ReturnData delivers a completed request back to its origin.
	ReturnData(pkt *Packet)
}

// Consumer is implemented by anything that can accept requests: a
// cache level, or the backing store beneath the last level.
type Consumer interface {
	// AddRQ queues a load. Returns -2 if the queue is full, -1 if the
	// request was already satisfied by an in-flight entry, 0 if it was
	// merged into an existing miss, or the queue occupancy after
	// insertion.
	AddRQ(pkt *Packet) int

	// AddWQ queues a writeback or store-to-be-written-back.
	AddWQ(pkt *Packet) int

	// AddPQ queues a prefetch.
	AddPQ(pkt *Packet) int

	// AddIVQ queues an upstream invalidate.
	AddIVQ(pkt *Packet) int

	// GetOccupancy reports the current occupancy of the named queue
	// (one of the Queue* codes). address names the block being asked
	// about; the implementations in this module ignore it.
	GetOccupancy(queueType int, address uint64) uint64

	// GetSize reports the capacity of the named queue.
	GetSize(queueType int, address uint64) uint64
}
