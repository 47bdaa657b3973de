package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func builtin(t *testing.T, id string) Variant {
	t.Helper()
	v, ok := Builtin(id)
	if !ok {
		t.Fatalf("Builtin(%q) not found", id)
	}
	return v
}

func TestBuiltinFeatureCounts(t *testing.T) {
	tests := []struct {
		id    string
		count int
		dual  bool
	}{
		{VariantSimple, 5, false},
		{VariantComplex, 8, false},
		{VariantComplexQuadratic, 16, false},
		{VariantShield, 5, true},
		{VariantPowerUp, 7, true},
		{VariantPowerUpQuadratic, 20, true},
	}

	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			v, ok := Builtin(tc.id)
			if !ok {
				t.Fatalf("Builtin(%q) not found", tc.id)
			}
			if v.ID != tc.id {
				t.Errorf("ID = %q, expected %q", v.ID, tc.id)
			}
			if got := v.Features.Count(); got != tc.count {
				t.Errorf("Features.Count() = %d, expected %d", got, tc.count)
			}
			if v.Features.Dual != tc.dual {
				t.Errorf("Features.Dual = %v, expected %v", v.Features.Dual, tc.dual)
			}
			if err := v.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}

	if len(BuiltinIDs()) != len(tests) {
		t.Errorf("BuiltinIDs() = %v, expected %d variants", BuiltinIDs(), len(tests))
	}
}

func TestBuiltinReturnsFreshCopy(t *testing.T) {
	a, _ := Builtin(VariantSimple)
	a.Physics.Gravity = 99
	b, _ := Builtin(VariantSimple)
	if b.Physics.Gravity == 99 {
		t.Error("Builtin should not share state between calls")
	}
}

func TestObstaclesRespawnX(t *testing.T) {
	v, _ := Builtin(VariantSimple)
	if got := v.Obstacles.RespawnX(); got != 850 {
		t.Errorf("RespawnX() = %v, expected 850", got)
	}
}

func TestHillClimbBatchDefaults(t *testing.T) {
	for _, id := range BuiltinIDs() {
		hc := builtin(t, id).Training.HillClimb
		wantBatch, wantInit := 1, 1.0
		if id == VariantPowerUp {
			wantBatch, wantInit = 10, hc.ExploreRange
		}
		if hc.Batch != wantBatch || hc.InitRange != wantInit {
			t.Errorf("%s: batch %d init range %v, expected %d and %v", id, hc.Batch, hc.InitRange, wantBatch, wantInit)
		}
	}
}

func TestLoadBuiltinFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	v, err := Load(builtin(t, VariantComplex), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if v.Physics.Gravity != 0.6 || v.Wind.Strength != 0.2 {
		t.Errorf("unexpected built-in values: gravity %v wind %v", v.Physics.Gravity, v.Wind.Strength)
	}
}

func TestLoadCustomPathOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	doc := "title: Tuned\nphysics:\n  gravity: 0.4\ntick_cap: 500\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	v, err := Load(builtin(t, VariantSimple), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if v.Title != "Tuned" || v.Physics.Gravity != 0.4 || v.TickCap != 500 {
		t.Errorf("overlay not applied: %+v", v)
	}
	// Fields absent from the document keep built-in values.
	if v.Physics.JumpImpulse != -6 || v.Obstacles.Width != 50 {
		t.Errorf("overlay clobbered untouched fields: jump %v width %v", v.Physics.JumpImpulse, v.Obstacles.Width)
	}
	if v.ID != VariantSimple {
		t.Errorf("ID = %q, expected %q", v.ID, VariantSimple)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("physics: [1, 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("tick_cap: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(builtin(t, VariantSimple), filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing custom path")
	}
	if _, err := Load(builtin(t, VariantSimple), bad); err == nil {
		t.Error("expected error for malformed custom path")
	}
	if _, err := Load(builtin(t, VariantSimple), invalid); !errors.Is(err, ErrInvalidVariant) {
		t.Errorf("expected ErrInvalidVariant, got %v", err)
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, work)

	local := filepath.Join(work, "configs", VariantShield+".yaml")
	if err := os.MkdirAll(filepath.Dir(local), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(local, []byte("shield:\n  initial_charges: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	v, err := Load(builtin(t, VariantShield), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if v.Shield.InitialCharges != 7 || v.Shield.Duration != 150 {
		t.Errorf("local overlay: charges %d duration %d", v.Shield.InitialCharges, v.Shield.Duration)
	}

	// The user directory wins over ./configs.
	user := userConfigPath(VariantShield + ".yaml")
	if err := os.MkdirAll(filepath.Dir(user), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(user, []byte("shield:\n  initial_charges: 9\n"), 0644); err != nil {
		t.Fatal(err)
	}

	v, err = Load(builtin(t, VariantShield), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if v.Shield.InitialCharges != 9 {
		t.Errorf("user overlay: charges %d, expected 9", v.Shield.InitialCharges)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "powerup.yaml")
	v, _ := Builtin(VariantPowerUp)
	if err := Save(path, v); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(builtin(t, VariantPowerUp), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded != v {
		t.Errorf("saved variant differs after reload:\n got %+v\nwant %+v", loaded, v)
	}
}

func TestValidateRejectsInconsistentVariants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(v *Variant)
	}{
		{"zero playfield", func(v *Variant) { v.Playfield.Height = 0 }},
		{"no obstacles", func(v *Variant) { v.Obstacles.Count = 0 }},
		{"no room for gap", func(v *Variant) { v.Obstacles.Margin = 250 }},
		{"floor above gap", func(v *Variant) { v.Difficulty.GapFloor = 300 }},
		{"ceiling below speed", func(v *Variant) { v.Difficulty.SpeedCeiling = 0.5 }},
		{"powerup features without powerups", func(v *Variant) { v.Features.PowerUp = true }},
		{"dual without shield", func(v *Variant) { v.Features.Dual = true }},
		{"powerups without shield", func(v *Variant) {
			v.PowerUps = PowerUps{Enabled: true, Chance: 10, MinY: 100, MaxY: 500}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, _ := Builtin(VariantSimple)
			tc.mutate(&v)
			if err := v.Validate(); !errors.Is(err, ErrInvalidVariant) {
				t.Errorf("Validate() = %v, expected ErrInvalidVariant", err)
			}
		})
	}
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir in Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})
}
