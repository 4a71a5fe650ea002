// Package id generates short, sortable, globally unique identifiers for
// packets, trace files, and dump snapshots.
package id

import "github.com/rs/xid"

// Generator produces unique string identifiers.
type Generator interface {
	Generate() string
}

type xidGenerator struct{}

// NewGenerator returns a Generator backed by xid.
func NewGenerator() Generator {
	return xidGenerator{}
}

func (xidGenerator) Generate() string {
	return xid.New().String()
}

var defaultGenerator = NewGenerator()

// Generate returns a new unique string identifier using the package-level
// default generator.
func Generate() string {
	return defaultGenerator.Generate()
}
