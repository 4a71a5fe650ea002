package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachecore/cache"
	"github.com/sarchlab/cachecore/mem"
)

type fakeRequester struct {
	name     string
	returned []*mem.Packet
}

func (f *fakeRequester) Name() string { return f.name }

func (f *fakeRequester) ReturnData(pkt *mem.Packet) {
	f.returned = append(f.returned, pkt)
}

func runCycles(comps []interface{ Tick() bool }, n int) {
	for i := 0; i < n; i++ {
		for _, c := range comps {
			c.Tick()
		}
	}
}

// fakeConsumer is a mem.Consumer whose AddWQ/AddIVQ can be made to
// report AdmitFull on demand, so a pipeline stage's stall-and-retry
// behavior can be exercised without waiting for a real queue to fill.
type fakeConsumer struct {
	name string

	full     bool
	wqCalls  []*mem.Packet
	ivqCalls []*mem.Packet
}

func (f *fakeConsumer) Name() string { return f.name }

func (f *fakeConsumer) ReturnData(_ *mem.Packet) {}

func (f *fakeConsumer) AddRQ(_ *mem.Packet) int { return 1 }

func (f *fakeConsumer) AddWQ(pkt *mem.Packet) int {
	if f.full {
		return cache.AdmitFull
	}

	f.wqCalls = append(f.wqCalls, pkt)

	return 1
}

func (f *fakeConsumer) AddPQ(_ *mem.Packet) int { return 1 }

func (f *fakeConsumer) AddIVQ(pkt *mem.Packet) int {
	if f.full {
		return cache.AdmitFull
	}

	f.ivqCalls = append(f.ivqCalls, pkt)

	return 1
}

func (f *fakeConsumer) GetOccupancy(_ int, _ uint64) uint64 { return 0 }

func (f *fakeConsumer) GetSize(_ int, _ uint64) uint64 { return 16 }

var _ = Describe("Cache pipeline", func() {
	var (
		backing *mem.Comp
		l1      *cache.Comp
		cpu     *fakeRequester
	)

	BeforeEach(func() {
		backing = mem.NewComp(mem.Config{Name: "DRAM", Latency: 5})
		l1 = cache.MakeBuilder().
			WithName("L1").
			WithSetsAndWays(4, 2).
			WithBlockSize(64).
			WithLowerLevel(backing).
			Build()
		cpu = &fakeRequester{name: "CPU"}
	})

	tick := func(n int) {
		runCycles([]interface{ Tick() bool }{l1, backing}, n)
	}

	It("misses on a cold read and later fills and returns the data", func() {
		pkt := &mem.Packet{Type: mem.TypeLoad, Address: 0x1000, ToReturn: []mem.Requester{cpu}}

		code := l1.AddRQ(pkt)
		Expect(code).To(BeNumerically(">", 0))

		tick(10)

		Expect(cpu.returned).To(HaveLen(1))
		Expect(cpu.returned[0].Address).To(Equal(uint64(0x1000)))
	})

	It("hits once the block has been filled", func() {
		first := &mem.Packet{Type: mem.TypeLoad, Address: 0x2000, ToReturn: []mem.Requester{cpu}}
		l1.AddRQ(first)
		tick(10)

		second := &mem.Packet{Type: mem.TypeLoad, Address: 0x2000, ToReturn: []mem.Requester{cpu}}
		code := l1.AddRQ(second)
		Expect(code).To(BeNumerically(">", 0))

		tick(2)

		Expect(cpu.returned).To(HaveLen(2))
		statsAfter := l1.Stats()
		Expect(statsAfter.Hit[mem.TypeLoad]).To(Equal(uint64(1)))
	})

	It("merges two loads to the same address into one miss", func() {
		a := &mem.Packet{Type: mem.TypeLoad, Address: 0x3000, ToReturn: []mem.Requester{cpu}}
		b := &mem.Packet{Type: mem.TypeLoad, Address: 0x3000, ToReturn: []mem.Requester{cpu}}

		l1.AddRQ(a)

		code := l1.AddRQ(b)
		Expect(code).To(Equal(cache.AdmitMerged))

		tick(10)

		Expect(cpu.returned).To(HaveLen(2))
	})

	It("stalls a dirty eviction until the lower level accepts the writeback, without resending it", func() {
		lower := &fakeConsumer{name: "L2"}
		small := cache.MakeBuilder().
			WithName("L1").
			WithSetsAndWays(1, 1).
			WithBlockSize(64).
			WithLowerLevel(lower).
			Build()

		small.AddWQ(&mem.Packet{Type: mem.TypeWritebackExclusive, Address: 0x1000})
		small.Tick()

		lower.full = true

		small.AddWQ(&mem.Packet{Type: mem.TypeWritebackExclusive, Address: 0x2000})

		for i := 0; i < 5; i++ {
			small.Tick()
		}

		Expect(lower.wqCalls).To(BeEmpty())

		lower.full = false

		for i := 0; i < 5; i++ {
			small.Tick()
		}

		Expect(lower.wqCalls).To(HaveLen(1))
		Expect(lower.wqCalls[0].Address).To(Equal(uint64(0x1000)))
	})

	It("stalls an inclusive eviction's upstream invalidate and sends it exactly once", func() {
		upper := &fakeConsumer{name: "CPU-side"}
		backing := mem.NewComp(mem.Config{Name: "DRAM", Latency: 2})
		small := cache.MakeBuilder().
			WithName("L1").
			WithSetsAndWays(1, 1).
			WithBlockSize(64).
			WithInclusionPolicy(mem.Inclusive).
			WithLowerLevel(backing).
			Build()
		small.AddUpperLevel(upper)

		ticked := []interface{ Tick() bool }{small, backing}

		small.AddRQ(&mem.Packet{Type: mem.TypeLoad, Address: 0x1000, ToReturn: []mem.Requester{cpu}})
		runCycles(ticked, 10)

		upper.full = true

		small.AddRQ(&mem.Packet{Type: mem.TypeLoad, Address: 0x2000, ToReturn: []mem.Requester{cpu}})
		runCycles(ticked, 10)

		Expect(upper.ivqCalls).To(BeEmpty())

		upper.full = false
		runCycles(ticked, 10)

		Expect(upper.ivqCalls).To(HaveLen(1))
		Expect(upper.ivqCalls[0].Address).To(Equal(uint64(0x1000)))
		Expect(cpu.returned).To(HaveLen(2))
	})

	It("cancels a pending writeback when an invalidate for the same address arrives first", func() {
		lower := &fakeConsumer{name: "L2"}
		small := cache.MakeBuilder().
			WithName("L1").
			WithSetsAndWays(1, 1).
			WithBlockSize(64).
			WithQueueLatency(3).
			WithLowerLevel(lower).
			Build()

		wb := &mem.Packet{Type: mem.TypeWritebackExclusive, Address: 0x1000}
		small.AddWQ(wb)
		small.AddIVQ(&mem.Packet{Type: mem.TypeInvalidate, Address: 0x1000})

		Expect(wb.Type).To(Equal(mem.TypeNonValid))

		for i := 0; i < 10; i++ {
			small.Tick()
		}

		Expect(lower.wqCalls).To(BeEmpty())
	})

	It("reports the RQ full once its capacity is exhausted", func() {
		for i := 0; i < 16; i++ {
			l1.AddRQ(&mem.Packet{
				Type:     mem.TypeLoad,
				Address:  uint64(i) * 0x1000,
				ToReturn: []mem.Requester{cpu},
			})
		}

		code := l1.AddRQ(&mem.Packet{Type: mem.TypeLoad, Address: 0xffff000, ToReturn: []mem.Requester{cpu}})
		Expect(code).To(Equal(cache.AdmitFull))
	})
})
