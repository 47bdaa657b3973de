package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalidVariant is returned when a variant descriptor is inconsistent.
var ErrInvalidVariant = errors.New("config: invalid variant")

// Load resolves a variant descriptor starting from base.
// Search order: customPath -> ~/.flaptrain/variants/<id>.yaml -> ./configs/<id>.yaml -> base.
//
// YAML documents overlay base, so a file only needs the fields it changes.
// A custom path that cannot be read or parsed is an error; the other
// locations are skipped silently when unusable.
func Load(base Variant, customPath string) (Variant, error) {
	id, v := base.ID, base

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Variant{}, fmt.Errorf("config: cannot read %s: %w", customPath, err)
		}
		if err := overlay(&v, data); err != nil {
			return Variant{}, fmt.Errorf("config: cannot parse %s: %w", customPath, err)
		}
		return finish(v, id)
	}

	for _, path := range searchPaths(id) {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		candidate := v
		if err := overlay(&candidate, data); err != nil {
			continue
		}
		return finish(candidate, id)
	}

	return finish(v, id)
}

// overlay decodes a YAML document on top of an existing variant.
func overlay(v *Variant, data []byte) error {
	return yaml.Unmarshal(data, v)
}

// finish pins the id and validates the result.
func finish(v Variant, id string) (Variant, error) {
	v.ID = id
	if err := v.Validate(); err != nil {
		return Variant{}, err
	}
	return v, nil
}

func searchPaths(id string) []string {
	name := id + ".yaml"
	paths := make([]string, 0, 2)
	if p := userConfigPath(name); p != "" {
		paths = append(paths, p)
	}
	return append(paths, filepath.Join("configs", name))
}

// userConfigPath returns the path to a user variant file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".flaptrain", "variants", filename)
}

// Save writes a variant as YAML, e.g. to seed a user override file.
func Save(path string, v Variant) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("config: cannot encode %s: %w", v.ID, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("config: cannot create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: cannot write %s: %w", path, err)
	}
	return nil
}

// Validate checks that the descriptor can drive an episode.
func (v Variant) Validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w %q: %s", ErrInvalidVariant, v.ID, fmt.Sprintf(format, args...))
	}

	switch {
	case v.Playfield.Width <= 0 || v.Playfield.Height <= 0:
		return fail("playfield must have positive size")
	case v.Obstacles.Count <= 0:
		return fail("obstacle count must be positive")
	case v.Obstacles.Width <= 0:
		return fail("obstacle width must be positive")
	case v.Physics.AgentHalfExtent <= 0:
		return fail("agent half extent must be positive")
	case v.TickCap <= 0:
		return fail("tick cap must be positive")
	case v.Difficulty.InitialGap <= 0:
		return fail("initial gap must be positive")
	case v.Difficulty.GapFloor > v.Difficulty.InitialGap:
		return fail("gap floor %v above initial gap %v", v.Difficulty.GapFloor, v.Difficulty.InitialGap)
	case v.Difficulty.SpeedCeiling < v.Difficulty.InitialSpeed:
		return fail("speed ceiling %v below initial speed %v", v.Difficulty.SpeedCeiling, v.Difficulty.InitialSpeed)
	case v.Difficulty.GapStep < 0 || v.Difficulty.SpeedStep < 0:
		return fail("ramp steps must be non-negative")
	}

	// The gap-top spawn range [margin, height-gap-margin] must be non-empty
	// at the widest gap.
	if float64(v.Obstacles.Margin) > v.Playfield.Height-v.Difficulty.InitialGap-float64(v.Obstacles.Margin) {
		return fail("margin %d leaves no room for a gap of %v", v.Obstacles.Margin, v.Difficulty.InitialGap)
	}
	if v.Oscillation.BottomOffsetMax < 0 {
		return fail("bottom offset max must be non-negative")
	}
	if v.Shield.Enabled && v.Shield.Duration <= 0 {
		return fail("shield duration must be positive")
	}
	if v.PowerUps.Enabled {
		if !v.Shield.Enabled {
			return fail("power-ups require the shield mechanic")
		}
		if v.PowerUps.Chance <= 1 {
			return fail("power-up chance must be greater than 1")
		}
		if v.PowerUps.MinY > v.PowerUps.MaxY {
			return fail("power-up y range [%d, %d] is empty", v.PowerUps.MinY, v.PowerUps.MaxY)
		}
	}
	if v.Features.PowerUp && !v.PowerUps.Enabled {
		return fail("power-up features require power-ups")
	}
	if v.Features.Dual && !v.Shield.Enabled {
		return fail("a power-up weight vector requires the shield mechanic")
	}
	return nil
}
