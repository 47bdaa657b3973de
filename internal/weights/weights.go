// Package weights reads and writes persisted policy weights.
//
// A document is a flat list of numbers for single-action variants or a
// two-element list of such lists (jump, power-up) for dual-action variants.
// Files ending in .yaml or .yml are YAML, everything else is JSON.
package weights

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/flaptrain/internal/sim"
)

// ErrMalformedWeightDocument is returned when a weight file cannot be read
// or does not have the expected shape.
var ErrMalformedWeightDocument = errors.New("weights: malformed weight document")

// Format is the on-disk encoding of a weight document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks the encoding from the file extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads a weight document.
func Load(path string) (sim.Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sim.Weights{}, fmt.Errorf("%w: %s: %v", ErrMalformedWeightDocument, path, err)
	}
	w, err := Decode(data, FormatFor(path))
	if err != nil {
		return sim.Weights{}, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// Decode parses a weight document from memory.
func Decode(data []byte, format Format) (sim.Weights, error) {
	var doc any
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return sim.Weights{}, fmt.Errorf("%w: %v", ErrMalformedWeightDocument, err)
	}

	list, ok := doc.([]any)
	if !ok || len(list) == 0 {
		return sim.Weights{}, fmt.Errorf("%w: expected a non-empty list", ErrMalformedWeightDocument)
	}

	if _, nested := list[0].([]any); !nested {
		jump, err := numbers(list)
		if err != nil {
			return sim.Weights{}, err
		}
		return sim.Weights{Jump: jump}, nil
	}

	if len(list) != 2 {
		return sim.Weights{}, fmt.Errorf("%w: dual document needs 2 vectors, got %d", ErrMalformedWeightDocument, len(list))
	}
	var vectors [2][]float64
	for i, item := range list {
		inner, ok := item.([]any)
		if !ok || len(inner) == 0 {
			return sim.Weights{}, fmt.Errorf("%w: vector %d is not a non-empty list", ErrMalformedWeightDocument, i)
		}
		if vectors[i], err = numbers(inner); err != nil {
			return sim.Weights{}, err
		}
	}
	return sim.Weights{Jump: vectors[0], PowerUp: vectors[1]}, nil
}

func numbers(list []any) ([]float64, error) {
	out := make([]float64, len(list))
	for i, item := range list {
		switch v := item.(type) {
		case float64:
			out[i] = v
		case int:
			out[i] = float64(v)
		case int64:
			out[i] = float64(v)
		default:
			return nil, fmt.Errorf("%w: element %d is %T, not a number", ErrMalformedWeightDocument, i, item)
		}
	}
	return out, nil
}

// Encode serializes weights in the given format.
func Encode(w sim.Weights, format Format) ([]byte, error) {
	var doc any = w.Jump
	if w.Dual() {
		doc = [][]float64{w.Jump, w.PowerUp}
	}
	switch format {
	case FormatYAML:
		return yaml.Marshal(doc)
	default:
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// Save writes weights to path, creating parent directories.
func Save(path string, w sim.Weights) error {
	data, err := Encode(w, FormatFor(path))
	if err != nil {
		return fmt.Errorf("weights: encode: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("weights: create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("weights: write %s: %w", path, err)
	}
	return nil
}
