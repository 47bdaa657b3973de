package sim

import (
	"github.com/vovakirdan/flaptrain/internal/config"
	"github.com/vovakirdan/flaptrain/internal/registry"
)

// Register the built-in variants with the registry.
func init() {
	for _, id := range config.BuiltinIDs() {
		id := id // per-iteration copy (pre-Go 1.22 loop semantics)
		registry.Register(id, func() config.Variant {
			v, _ := config.Builtin(id)
			return v
		})
	}
}
