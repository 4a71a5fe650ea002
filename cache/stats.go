package cache

// QueueStats counts admissions into one of a cache level's bounded
// queues.
type QueueStats struct {
	Access  uint64
	Merged  uint64
	Full    uint64
	ToCache uint64
	Forward uint64
}

// Stats accumulates per-access-type counters for one cache level.
// Access, Hit, Miss and TotalMissLatency leave out warmup accesses
// (Comp.warmup == true); the prefetch and queue counters do not.
type Stats struct {
	Access [8]uint64
	Hit    [8]uint64
	Miss   [8]uint64

	PFRequested uint64
	PFIssued    uint64
	PFUseful    uint64
	PFUseless   uint64
	PFFill      uint64

	TotalMissLatency uint64

	RQ  QueueStats
	WQ  QueueStats
	PQ  QueueStats
	IVQ QueueStats
}
