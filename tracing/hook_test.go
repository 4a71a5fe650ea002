package tracing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarchlab/cachecore/hooking"
	"github.com/sarchlab/cachecore/tracing"
)

type fakeWriter struct {
	initCalled  bool
	flushCalled bool
	written     []tracing.Task
}

func (w *fakeWriter) Init() { w.initCalled = true }

func (w *fakeWriter) Write(task tracing.Task) { w.written = append(w.written, task) }

func (w *fakeWriter) Flush() { w.flushCalled = true }

func TestCollectorHookCallsInitOnCreation(t *testing.T) {
	w := &fakeWriter{}
	tracing.NewCollectorHook(w)

	assert.True(t, w.initCalled)
}

func TestCollectorHookAssemblesStartTagEndIntoOneTask(t *testing.T) {
	w := &fakeWriter{}
	hook := tracing.NewCollectorHook(w)

	hook.Func(hooking.HookCtx{
		Pos: hooking.HookPosTaskStart,
		Item: hooking.TaskStart{
			ID: "t1", ParentID: "p1", Kind: "read", What: "load", Where: "L1", Cycle: 10,
		},
	})

	hook.Func(hooking.HookCtx{
		Pos:  hooking.HookPosTaskTag,
		Item: hooking.TaskTag{TaskID: "t1", What: "cache_miss"},
	})

	hook.Func(hooking.HookCtx{
		Pos:  hooking.HookPosTaskEnd,
		Item: hooking.TaskEnd{ID: "t1", Cycle: 15},
	})

	require.Len(t, w.written, 1)

	task := w.written[0]
	assert.Equal(t, "t1", task.ID)
	assert.Equal(t, "p1", task.ParentID)
	assert.Equal(t, uint64(10), task.StartCycle)
	assert.Equal(t, uint64(15), task.EndCycle)
	assert.Equal(t, []string{"cache_miss"}, task.Tags)
}

func TestCollectorHookIgnoresTagsAndEndForUnknownTask(t *testing.T) {
	w := &fakeWriter{}
	hook := tracing.NewCollectorHook(w)

	hook.Func(hooking.HookCtx{
		Pos:  hooking.HookPosTaskTag,
		Item: hooking.TaskTag{TaskID: "unknown", What: "cache_hit"},
	})

	hook.Func(hooking.HookCtx{
		Pos:  hooking.HookPosTaskEnd,
		Item: hooking.TaskEnd{ID: "unknown", Cycle: 1},
	})

	assert.Empty(t, w.written)
}

func TestCollectorHookFlushDelegatesToWriter(t *testing.T) {
	w := &fakeWriter{}
	hook := tracing.NewCollectorHook(w)

	hook.Flush()

	assert.True(t, w.flushCalled)
}
