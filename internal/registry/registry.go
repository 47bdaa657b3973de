// Package registry provides a global registry of simulation variants.
// Variants register themselves in init() functions, allowing the CLI to
// discover mode selector values without hardcoded lists.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/flaptrain/internal/config"
)

// VariantInfo contains metadata about a registered variant.
type VariantInfo struct {
	ID       string
	Title    string
	Features int
	Dual     bool
}

// Factory returns a fresh variant descriptor.
type Factory func() config.Variant

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]VariantInfo)
	mu        sync.RWMutex
)

// Register adds a variant factory to the registry.
// Panics if a variant with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: variant %q already registered", id))
	}

	factories[id] = f

	v := f()
	infos[id] = VariantInfo{
		ID:       id,
		Title:    v.Title,
		Features: v.Features.Count(),
		Dual:     v.Features.Dual,
	}
}

// List returns information about all registered variants, sorted by ID.
func List() []VariantInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]VariantInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// IDs returns the registered variant ids, sorted.
func IDs() []string {
	list := List()
	ids := make([]string, len(list))
	for i, info := range list {
		ids[i] = info.ID
	}
	return ids
}

// Create returns a fresh descriptor for the given variant id.
func Create(id string) (config.Variant, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return config.Variant{}, fmt.Errorf("registry: unknown variant %q", id)
	}

	return f(), nil
}

// Exists checks if a variant with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
