// Package hooking provides a small observer mechanism that cache and
// memory components use to report pipeline events (hits, misses,
// fills, invalidations) without taking a hard dependency on any
// particular tracing or monitoring backend.
package hooking

// HookPos names a site in a component's lifecycle where hooks can fire.
type HookPos struct {
	Name string
}

// A list of positions the cache engine invokes hooks from.
var (
	HookPosTaskStart = &HookPos{Name: "HookPosTaskStart"}
	HookPosTaskTag   = &HookPos{Name: "HookPosTaskTag"}
	HookPosTaskEnd   = &HookPos{Name: "HookPosTaskEnd"}
)

// HookCtx carries the information about the site a hook fired from.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Cycle  uint64
	Item   interface{}
	Detail interface{}
}

// Hookable is implemented by anything that accepts hooks.
type Hookable interface {
	AcceptHook(hook Hook)
	NumHooks() int
	Hooks() []Hook
}

// Hook is invoked by a Hookable object whenever it reaches one of its
// hook points.
type Hook interface {
	Func(ctx HookCtx)
}

// HookableBase implements Hookable and is meant to be embedded.
type HookableBase struct {
	hookList []Hook
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	return len(h.hookList)
}

// Hooks returns all the hooks registered.
func (h *HookableBase) Hooks() []Hook {
	return h.hookList
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.mustNotHaveDuplicatedHook(hook)
	h.hookList = append(h.hookList, hook)
}

func (h *HookableBase) mustNotHaveDuplicatedHook(hook Hook) {
	for _, existing := range h.hookList {
		if existing == hook {
			panic("duplicated hook")
		}
	}
}

// InvokeHook triggers all registered hooks with ctx.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hookList {
		hook.Func(ctx)
	}
}

// FuncHook adapts a plain function into a Hook.
type FuncHook func(ctx HookCtx)

// Func implements Hook.
func (f FuncHook) Func(ctx HookCtx) {
	f(ctx)
}
