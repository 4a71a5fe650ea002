package tracing

import (
	"github.com/sarchlab/cachecore/hooking"
)

// CollectorHook is a hooking.Hook that assembles TaskStart/TaskTag/
// TaskEnd events into Task records and forwards finished tasks to a
// Writer. Grounded on the akita teacher's tagCacheHit/tagCacheMiss/
// tagMSHRHit hook taxonomy (mem/cache/tracing.go); the cache engine
// emits task start/end events and the cache_hit, cache_miss and
// mshr_hit tags.
type CollectorHook struct {
	writer  Writer
	pending map[string]*Task
}

// NewCollectorHook creates a hook that writes finished tasks to w.
func NewCollectorHook(w Writer) *CollectorHook {
	w.Init()

	return &CollectorHook{
		writer:  w,
		pending: make(map[string]*Task),
	}
}

// Func implements hooking.Hook.
func (h *CollectorHook) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case hooking.HookPosTaskStart:
		h.handleStart(ctx.Item.(hooking.TaskStart))
	case hooking.HookPosTaskTag:
		h.handleTag(ctx.Item.(hooking.TaskTag))
	case hooking.HookPosTaskEnd:
		h.handleEnd(ctx.Item.(hooking.TaskEnd))
	}
}

func (h *CollectorHook) handleStart(s hooking.TaskStart) {
	h.pending[s.ID] = &Task{
		ID:         s.ID,
		ParentID:   s.ParentID,
		Kind:       s.Kind,
		What:       s.What,
		Where:      s.Where,
		StartCycle: s.Cycle,
	}
}

func (h *CollectorHook) handleTag(t hooking.TaskTag) {
	task, ok := h.pending[t.TaskID]
	if !ok {
		return
	}

	task.Tags = append(task.Tags, t.What)
}

func (h *CollectorHook) handleEnd(e hooking.TaskEnd) {
	task, ok := h.pending[e.ID]
	if !ok {
		return
	}

	task.EndCycle = e.Cycle
	delete(h.pending, e.ID)

	h.writer.Write(*task)
}

// Flush flushes the underlying writer.
func (h *CollectorHook) Flush() {
	h.writer.Flush()
}
