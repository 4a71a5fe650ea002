package cache

import (
	"github.com/sarchlab/cachecore/hooking"
	"github.com/sarchlab/cachecore/mem"
)

func (c *Comp) traceReqStart(pkt *mem.Packet) {
	c.InvokeHook(hooking.HookCtx{
		Domain: c,
		Pos:    hooking.HookPosTaskStart,
		Cycle:  c.cycle,
		Item: hooking.TaskStart{
			ID:    pkt.ID,
			Kind:  "req",
			What:  pkt.Type.String(),
			Where: c.name,
			Cycle: c.cycle,
		},
	})
}

func (c *Comp) traceReqEnd(pkt *mem.Packet) {
	c.InvokeHook(hooking.HookCtx{
		Domain: c,
		Pos:    hooking.HookPosTaskEnd,
		Cycle:  c.cycle,
		Item: hooking.TaskEnd{
			ID:    pkt.ID,
			Cycle: c.cycle,
		},
	})
}

func (c *Comp) tag(pkt *mem.Packet, what string) {
	c.InvokeHook(hooking.HookCtx{
		Domain: c,
		Pos:    hooking.HookPosTaskTag,
		Cycle:  c.cycle,
		Item: hooking.TaskTag{
			TaskID: pkt.ID,
			What:   what,
		},
	})
}

func (c *Comp) tagCacheHit(pkt *mem.Packet) { c.tag(pkt, "cache_hit") }

func (c *Comp) tagCacheMiss(pkt *mem.Packet) { c.tag(pkt, "cache_miss") }

func (c *Comp) tagMSHRHit(pkt *mem.Packet) { c.tag(pkt, "mshr_hit") }
