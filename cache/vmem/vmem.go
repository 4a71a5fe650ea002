// Package vmem provides the virtual-to-physical translation interface
// a cache's prefetch path calls into before issuing a physically
// addressed request, and an identity-mapped default.
package vmem

// Translator maps a virtual address of a given CPU to a physical one.
type Translator interface {
	// Translate returns the physical address for vaddr, and whether
	// the translation is available yet. A translator backed by a real
	// page-table walk may return false while a walk is outstanding.
	Translate(cpu int, vaddr uint64) (paddr uint64, ready bool)
}

// Identity maps every virtual address to itself. It is the default
// used when a hierarchy is not modeling address translation.
type Identity struct{}

// NewIdentity returns a Translator with no translation overhead.
func NewIdentity() *Identity { return &Identity{} }

// Translate implements Translator.
func (*Identity) Translate(_ int, vaddr uint64) (uint64, bool) {
	return vaddr, true
}
