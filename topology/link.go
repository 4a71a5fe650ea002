package topology

import "github.com/sarchlab/cachecore/mem"

// Connect sets lower as upper's lower level, replacing any previous
// one. It does not register upper with lower, and does not take
// ownership of either side; both must already be registered with a
// Driver separately.
//
// Most hierarchies wire this up directly at construction time instead
// (each cache level is built with its lower level as a constructor
// argument), but Connect is useful for hierarchies assembled
// dynamically, such as from a configuration file.
func Connect(upper UpperLevel, lower mem.Consumer) {
	upper.SetLowerLevel(lower)
}

// UpperLevel is implemented by a cache level that can be told which
// consumer sits below it.
type UpperLevel interface {
	SetLowerLevel(mem.Consumer)
}
