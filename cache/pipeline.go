package cache

// Tick advances this cache level by one cycle, in a fixed order every
// level shares: invalidates first (so a block due to be dropped is
// dropped before anything tries to fill or write back through it),
// then fills and writebacks (so the tag array reflects this cycle's
// completions before new hits are checked against it), then reads and
// prefetches, then the prefetcher's own per-cycle hook, and finally
// the cycle counter advances so every queue's enqueue-latency clock
// ticks together.
func (c *Comp) Tick() bool {
	progress := false

	writeBudget := c.maxWrite
	invalidateProgress, writeBudget := c.operateInvalidate(writeBudget)
	progress = invalidateProgress || progress

	progress = c.operateFillAndWriteback(writeBudget) || progress
	progress = c.operateReadsAndPrefetch() || progress

	if c.draining && !c.flushed {
		progress = c.drainStep() || progress
	}

	c.prefetcher.CycleOperate()

	c.cycle++

	return progress
}

// operateInvalidate drains IVQ against budget, the cycle's shared
// invalidate/write credit. It returns whether it made progress and how
// much of budget is left over for fills and writebacks.
func (c *Comp) operateInvalidate(budget int) (bool, int) {
	progress := false

	for budget > 0 {
		pkt := c.ivq.Front(c.cycle)
		if pkt == nil {
			break
		}

		if !c.handleInvalid(pkt) {
			break
		}

		c.ivq.Pop()
		progress = true
		budget--
	}

	return progress, budget
}

// operateFillAndWriteback spends whatever invalidate credit
// operateInvalidate left over on fills (capped separately by maxFill,
// since a fill also costs MSHR and array bandwidth invalidate doesn't)
// and then writebacks.
func (c *Comp) operateFillAndWriteback(budget int) bool {
	progress := false

	fills := 0
	for budget > 0 && fills < c.maxFill {
		if !c.handleFill() {
			break
		}

		progress = true
		budget--
		fills++
	}

	for budget > 0 {
		pkt := c.wq.Front(c.cycle)
		if pkt == nil {
			break
		}

		if !c.handleWriteback(pkt) {
			break
		}

		c.wq.Pop()
		progress = true
		budget--
	}

	return progress
}

func (c *Comp) operateReadsAndPrefetch() bool {
	progress := false

	credits := c.maxRead

	for credits > 0 {
		pkt := c.rq.Front(c.cycle)
		if pkt == nil {
			break
		}

		if !c.handleRead(pkt) {
			break
		}

		c.rq.Pop()
		progress = true
		credits--
	}

	if c.vaTranslatePrefetches() {
		progress = true
	}

	for credits > 0 {
		pkt := c.pq.Front(c.cycle)
		if pkt == nil {
			break
		}

		if !c.handleRead(pkt) {
			break
		}

		c.pq.Pop()
		progress = true
		credits--
	}

	return progress
}
