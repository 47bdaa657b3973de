package sim

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/vovakirdan/flaptrain/internal/config"
)

func mustVariant(t *testing.T, id string) *config.Variant {
	t.Helper()
	v, ok := config.Builtin(id)
	if !ok {
		t.Fatalf("unknown variant %q", id)
	}
	return &v
}

// zeroWeights returns correctly shaped all-zero weights for a feature set.
func zeroWeights(f config.Features) Weights {
	w := Weights{Jump: make([]float64, f.Count())}
	if f.Dual {
		w.PowerUp = make([]float64, f.Count())
	}
	return w
}

func randomWeights(f config.Features, rng *rand.Rand) Weights {
	w := zeroWeights(f)
	for i := range w.Jump {
		w.Jump[i] = rng.Float64()*2 - 1
	}
	for i := range w.PowerUp {
		w.PowerUp[i] = rng.Float64()*2 - 1
	}
	return w
}

var idle = ControllerFunc(func(View) Actions { return Actions{} })

// recorder wraps a controller and keeps every decision.
type recorder struct {
	inner   Controller
	actions []Actions
}

func (r *recorder) Decide(view View) Actions {
	a := r.inner.Decide(view)
	r.actions = append(r.actions, a)
	return a
}

func TestDecisionScenarios(t *testing.T) {
	v := mustVariant(t, config.VariantSimple)
	view := View{
		Agent:     Agent{X: 50, Y: 300},
		Obstacles: []Obstacle{{BaseX: 150, X: 150, BaseHeight: 200, Height: 200}},
		Gap:       200,
	}

	tests := []struct {
		name    string
		weights []float64
		value   float64
		jump    bool
	}{
		{"distances cancel to positive", []float64{1, -1, 0, 0, 0}, 200, false},
		{"negative top distance jumps", []float64{-1, 0, 0, 0, 0}, -100, true},
		{"zero is not negative", []float64{0, 0, 0, 0, 0}, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewPolicy(v, Weights{Jump: tc.weights})
			if err != nil {
				t.Fatalf("NewPolicy() error = %v", err)
			}
			value, _, ok := p.Values(view)
			if !ok {
				t.Fatal("expected an obstacle ahead")
			}
			if value != tc.value {
				t.Errorf("decision value = %v, expected %v", value, tc.value)
			}
			if got := p.Decide(view); got.Jump != tc.jump || got.UsePowerUp {
				t.Errorf("Decide() = %+v, expected jump=%v", got, tc.jump)
			}
		})
	}
}

func TestJumpSetsImpulse(t *testing.T) {
	v := mustVariant(t, config.VariantSimple)
	e := NewEpisode(v, 1)
	e.agent.Velocity = 4
	e.obstacles = []Obstacle{{BaseX: 150, X: 150, BaseHeight: 200, Height: 200}}

	p, err := NewPolicy(v, Weights{Jump: []float64{-1, 0, 0, 0, 0}})
	if err != nil {
		t.Fatal(err)
	}
	res := e.Step(p)
	if !res.Actions.Jump {
		t.Fatal("expected a jump")
	}
	// Impulse replaces the velocity, then one tick of gravity applies.
	want := v.Physics.JumpImpulse + v.Physics.Gravity
	if e.agent.Velocity != want {
		t.Errorf("velocity = %v, expected %v", e.agent.Velocity, want)
	}
	if e.agent.Y != 300+want {
		t.Errorf("y = %v, expected %v", e.agent.Y, 300+want)
	}
}

func TestNoObstacleAheadMeansNoAction(t *testing.T) {
	v := mustVariant(t, config.VariantShield)
	p, err := NewPolicy(v, Weights{Jump: []float64{-1, -1, -1, -1, -1}, PowerUp: []float64{-1, -1, -1, -1, -1}})
	if err != nil {
		t.Fatal(err)
	}
	view := View{
		Agent:     Agent{X: 50, Y: 300},
		Obstacles: []Obstacle{{X: -30, Height: 200}},
		Gap:       200,
	}
	if got := p.Decide(view); got != (Actions{}) {
		t.Errorf("Decide() = %+v, expected no action", got)
	}
}

func TestNearestObstacle(t *testing.T) {
	v := mustVariant(t, config.VariantSimple)
	a := Agent{X: 50, Y: 300}

	tests := []struct {
		name      string
		obstacles []Obstacle
		want      int
	}{
		{"empty", nil, -1},
		{"closest ahead", []Obstacle{{X: 400}, {X: 120}, {X: 700}}, 1},
		{"behind is skipped", []Obstacle{{X: -21}, {X: 300}}, 1},
		{"trailing edge plus pad still reaches", []Obstacle{{X: -20}, {X: 300}}, 0},
		{"tie keeps first found", []Obstacle{{X: 500}, {X: 200}, {X: 200}}, 1},
		{"all behind", []Obstacle{{X: -100}, {X: -50}}, -1},
		{"shifted bottom segment extends reach", []Obstacle{{X: -60, BottomOffset: 40}, {X: 300}}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				if got := NearestObstacle(v, a, tc.obstacles); got != tc.want {
					t.Fatalf("NearestObstacle() = %d, expected %d", got, tc.want)
				}
			}
		})
	}
}

func TestNearestPowerUp(t *testing.T) {
	a := Agent{X: 50, Y: 300}
	dx, dy := NearestPowerUp(a, nil)
	if dx != PowerUpSentinel || dy != PowerUpSentinel {
		t.Errorf("no power-ups: got (%v, %v)", dx, dy)
	}

	powerUps := []PowerUp{
		{X: 30, Y: 100, Active: true},   // behind
		{X: 120, Y: 250, Active: false}, // collected
		{X: 200, Y: 400, Active: true},
		{X: 150, Y: 350, Active: true},
	}
	dx, dy = NearestPowerUp(a, powerUps)
	if dx != 100 || dy != 50 {
		t.Errorf("NearestPowerUp() = (%v, %v), expected (100, 50)", dx, dy)
	}
}

func TestAppendFeaturesLayout(t *testing.T) {
	v := mustVariant(t, config.VariantPowerUpQuadratic)
	view := View{
		Agent:     Agent{X: 50, Y: 320, Velocity: -2},
		Obstacles: []Obstacle{{X: 250, Height: 180, PhaseY: 0, PhaseX: 0}},
		Gap:       200,
		Wind:      0.1,
	}

	f := AppendFeatures(nil, v, view, 0)
	if len(f) != v.Features.Count() {
		t.Fatalf("len = %d, expected %d", len(f), v.Features.Count())
	}

	base := []float64{140, -60, 200, -2, 320, 0, 5, 0.1, PowerUpSentinel, PowerUpSentinel}
	for i, want := range base {
		if f[i] != want {
			t.Errorf("feature %d = %v, expected %v", i, f[i], want)
		}
		if f[len(base)+i] != want*want {
			t.Errorf("squared feature %d = %v, expected %v", i, f[len(base)+i], want*want)
		}
	}
}

func TestWeightShapeIsFatal(t *testing.T) {
	tests := []struct {
		variant string
		weights Weights
	}{
		{config.VariantSimple, Weights{Jump: make([]float64, 4)}},
		{config.VariantSimple, Weights{Jump: make([]float64, 6)}},
		{config.VariantSimple, Weights{Jump: make([]float64, 5), PowerUp: make([]float64, 5)}},
		{config.VariantComplexQuadratic, Weights{Jump: make([]float64, 8)}},
		{config.VariantShield, Weights{Jump: make([]float64, 5)}},
		{config.VariantPowerUp, Weights{Jump: make([]float64, 7), PowerUp: make([]float64, 10)}},
	}

	for _, tc := range tests {
		t.Run(tc.variant, func(t *testing.T) {
			v := mustVariant(t, tc.variant)
			if _, err := NewPolicy(v, tc.weights); err == nil {
				t.Error("NewPolicy() should reject the weights")
			} else if !errors.Is(err, ErrInvalidWeightShape) {
				t.Errorf("error = %v, expected ErrInvalidWeightShape", err)
			}
		})
	}
}

func TestInitialObstacles(t *testing.T) {
	v := mustVariant(t, config.VariantSimple)
	for seed := int64(0); seed < 50; seed++ {
		e := NewEpisode(v, seed)
		if len(e.obstacles) != 3 {
			t.Fatalf("seed %d: %d obstacles", seed, len(e.obstacles))
		}
		for i, o := range e.obstacles {
			if o.X != 400+float64(i)*300 {
				t.Errorf("seed %d: obstacle %d at x %v", seed, i, o.X)
			}
			if o.Height < 100 || o.Height > 300 {
				t.Errorf("seed %d: gap top %v outside [100, 300]", seed, o.Height)
			}
		}
	}
}

func TestOscillationKeepsBottomOffsetInRange(t *testing.T) {
	v := mustVariant(t, config.VariantComplex)
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		o := spawnObstacle(rng, v, 200, 850)
		if o.BottomOffset < -80 || o.BottomOffset > 80 {
			t.Fatalf("bottom offset %v outside [-80, 80]", o.BottomOffset)
		}
		advanceObstacle(&o, v.Oscillation, 1)
		if d := o.Height - o.BaseHeight; d < -30 || d > 30 {
			t.Fatalf("oscillation offset %v outside amplitude", d)
		}
		if d := o.X - o.BaseX; d < -5 || d > 5 {
			t.Fatalf("jitter %v outside [-5, 5]", d)
		}
		if o.BaseX != 849 {
			t.Fatalf("base x = %v, expected 849", o.BaseX)
		}
	}
}

func TestActivateShield(t *testing.T) {
	s := config.Shield{Enabled: true, Duration: 150}

	a := Agent{}
	if activateShield(&a, s) {
		t.Error("no charges: shield should not start")
	}

	a = Agent{Charges: 2, SurvivedShield: true}
	if !activateShield(&a, s) {
		t.Fatal("shield should start")
	}
	if a.Charges != 1 || a.ShieldTimer != 150 || a.SurvivedShield {
		t.Errorf("after activation: %+v", a)
	}
	if activateShield(&a, s) {
		t.Error("shield should not restart while active")
	}
	if a.Charges != 1 {
		t.Errorf("charges = %d, expected 1", a.Charges)
	}

	if activateShield(&Agent{Charges: 1}, config.Shield{}) {
		t.Error("disabled shield should never start")
	}
}

func TestCollectPowerUps(t *testing.T) {
	v := mustVariant(t, config.VariantPowerUp)
	a := Agent{X: 50, Y: 300}
	powerUps := []PowerUp{
		{X: 60, Y: 310, Active: true},
		{X: 60, Y: 310, Active: false},
		{X: 200, Y: 300, Active: true},
	}
	if n := collectPowerUps(&a, powerUps, v); n != 1 {
		t.Errorf("collected %d, expected 1", n)
	}
	if a.Charges != 1 || powerUps[0].Active || !powerUps[2].Active {
		t.Errorf("agent %+v power-ups %+v", a, powerUps)
	}
}
