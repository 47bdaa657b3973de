package sim

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/vovakirdan/flaptrain/internal/config"
)

// forceRecycle moves the oldest obstacle past the left edge so the next
// tick clears it.
func forceRecycle(e *Episode) {
	e.obstacles[0].BaseX = -100
	e.obstacles[0].X = -100
}

func TestRampAfterClears(t *testing.T) {
	v := mustVariant(t, config.VariantSimple)
	v.Physics.Gravity = 0
	e := NewEpisode(v, 9)

	checks := map[int][2]float64{
		5:  {190, 1.5},
		10: {180, 2.0},
	}
	for i := 1; i <= 10; i++ {
		forceRecycle(e)
		res := e.Step(idle)
		if res.Cleared != 1 {
			t.Fatalf("tick %d: cleared %d, expected 1", i, res.Cleared)
		}
		if want, ok := checks[i]; ok {
			view := e.View()
			if view.Gap != want[0] || view.Speed != want[1] {
				t.Errorf("after %d cleared: gap %v speed %v, expected %v %v", i, view.Gap, view.Speed, want[0], want[1])
			}
		}
	}

	res := e.Result()
	if res.Cleared != 10 || res.Score != 10*1000+10 || res.Outcome != Running {
		t.Errorf("Result() = %+v", res)
	}
	if len(e.obstacles) != v.Obstacles.Count {
		t.Errorf("obstacle window size %d, expected %d", len(e.obstacles), v.Obstacles.Count)
	}
	last := e.obstacles[len(e.obstacles)-1]
	if last.X != v.Obstacles.RespawnX() {
		t.Errorf("respawned obstacle at x %v, expected %v", last.X, v.Obstacles.RespawnX())
	}
}

func TestRampMonotonicWithinEpisode(t *testing.T) {
	v := mustVariant(t, config.VariantSimple)
	v.Physics.Gravity = 0
	e := NewEpisode(v, 4)

	prev := e.View()
	for i := 0; i < 200; i++ {
		forceRecycle(e)
		e.Step(idle)
		view := e.View()
		if view.Gap > prev.Gap || view.Speed < prev.Speed {
			t.Fatalf("tick %d: ramp regressed gap %v->%v speed %v->%v", i, prev.Gap, view.Gap, prev.Speed, view.Speed)
		}
		if view.Gap < 60 || view.Speed > 10 {
			t.Fatalf("tick %d: ramp out of bounds gap %v speed %v", i, view.Gap, view.Speed)
		}
		prev = view
	}
	if prev.Gap != 60 || prev.Speed != 10 {
		t.Errorf("ramp should saturate after 200 clears: gap %v speed %v", prev.Gap, prev.Speed)
	}
}

func TestShieldExpiryIgnoresCollisionAndPaysBonusNextTick(t *testing.T) {
	tests := []struct {
		variant string
		bonuses int
	}{
		{config.VariantPowerUp, 1},
		{config.VariantShield, 0}, // no survival bonus configured
	}

	for _, tc := range tests {
		t.Run(tc.variant, func(t *testing.T) {
			v := mustVariant(t, tc.variant)
			e := NewEpisode(v, 5)
			e.agent.ShieldTimer = 1
			e.obstacles = []Obstacle{
				{BaseX: 40, X: 40, BaseHeight: 500, Height: 500}, // top segment covers the agent
				{BaseX: 700, X: 700, BaseHeight: 200, Height: 200},
			}

			res := e.Step(idle)
			if res.Outcome != Running {
				t.Fatalf("collision on the expiring tick should be ignored, outcome %v", res.Outcome)
			}
			if e.agent.ShieldTimer != 0 || e.agent.Shielded() {
				t.Errorf("shield should be cleared, timer %d", e.agent.ShieldTimer)
			}
			if !e.agent.SurvivedShield {
				t.Error("survived-shield flag should be set")
			}
			if res.Score != 1 {
				t.Errorf("score after first tick = %v, expected 1", res.Score)
			}

			res = e.Step(idle)
			if res.Outcome != Collision {
				t.Errorf("unshielded collision should end the episode, outcome %v", res.Outcome)
			}
			if e.agent.SurvivedShield {
				t.Error("survived-shield flag should be consumed")
			}
			final := e.Result()
			if final.SurvivalBonuses != tc.bonuses {
				t.Errorf("survival bonuses = %d, expected %d", final.SurvivalBonuses, tc.bonuses)
			}
			if want := 2 + v.Scoring.SurvivalBonus; final.Score != want {
				t.Errorf("score = %v, expected %v", final.Score, want)
			}
		})
	}
}

func TestShieldBoundsCoverage(t *testing.T) {
	tests := []struct {
		variant string
		want    Outcome
	}{
		{config.VariantShield, Collision}, // shield only covers obstacles
		{config.VariantPowerUp, Running},  // shield covers everything
	}

	for _, tc := range tests {
		t.Run(tc.variant, func(t *testing.T) {
			v := mustVariant(t, tc.variant)
			e := NewEpisode(v, 2)
			e.agent.ShieldTimer = 50
			e.agent.Y = -10
			if res := e.Step(idle); res.Outcome != tc.want {
				t.Errorf("outcome = %v, expected %v", res.Outcome, tc.want)
			}
		})
	}
}

func TestShieldMultipliers(t *testing.T) {
	t.Run("ticks", func(t *testing.T) {
		v := mustVariant(t, config.VariantPowerUpQuadratic)
		e := NewEpisode(v, 8)
		e.agent.ShieldTimer = 100
		if res := e.Step(idle); res.Score != v.Scoring.ShieldMultiplier {
			t.Errorf("score = %v, expected %v", res.Score, v.Scoring.ShieldMultiplier)
		}
	})

	t.Run("obstacles", func(t *testing.T) {
		v := mustVariant(t, config.VariantPowerUp)
		e := NewEpisode(v, 8)
		e.agent.ShieldTimer = 100
		forceRecycle(e)
		res := e.Step(idle)
		want := v.Scoring.ObstaclePoints*v.Scoring.ShieldMultiplier + v.Scoring.TickPoints
		if res.Cleared != 1 || res.Score != want {
			t.Errorf("cleared %d score %v, expected 1 and %v", res.Cleared, res.Score, want)
		}
	})
}

func TestUsePowerUpConsumesCharge(t *testing.T) {
	v := mustVariant(t, config.VariantShield)
	e := NewEpisode(v, 3)
	use := ControllerFunc(func(View) Actions { return Actions{UsePowerUp: true} })

	res := e.Step(use)
	if !res.ShieldStarted {
		t.Fatal("first use should start a shield")
	}
	if e.agent.Charges != v.Shield.InitialCharges-1 {
		t.Errorf("charges = %d", e.agent.Charges)
	}
	// Countdown already ran once.
	if e.agent.ShieldTimer != v.Shield.Duration-1 {
		t.Errorf("timer = %d, expected %d", e.agent.ShieldTimer, v.Shield.Duration-1)
	}
	if res = e.Step(use); res.ShieldStarted {
		t.Error("use while shielded should do nothing")
	}
	if e.Result().ShieldsUsed != 1 {
		t.Errorf("shields used = %d, expected 1", e.Result().ShieldsUsed)
	}
}

func TestFallingAgentCollides(t *testing.T) {
	v := mustVariant(t, config.VariantSimple)
	res := NewEpisode(v, 1).Run(idle)

	// y after n idle ticks is 300 + 0.25*n*(n+1), which first exceeds 600 at n=35.
	want := Result{Score: 35, Ticks: 35, Outcome: Collision}
	if res != want {
		t.Errorf("Run() = %+v, expected %+v", res, want)
	}
}

func TestTickCapTimesOut(t *testing.T) {
	v := mustVariant(t, config.VariantSimple)
	v.Physics.Gravity = 0
	v.TickCap = 50

	e := NewEpisode(v, 1)
	res := e.Run(idle)
	if res.Outcome != Timeout {
		t.Fatalf("outcome = %v, expected timeout", res.Outcome)
	}
	if res.Ticks != 51 || res.Score != 51 {
		t.Errorf("ticks %d score %v, expected 51 and 51", res.Ticks, res.Score)
	}

	// Stepping a finished episode changes nothing.
	after := e.Step(idle)
	if after.Tick != 51 || after.Outcome != Timeout || e.Result() != res {
		t.Errorf("Step after end = %+v", after)
	}
}

func TestEpisodeDeterminism(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for _, id := range config.BuiltinIDs() {
		t.Run(id, func(t *testing.T) {
			v := mustVariant(t, id)
			w := randomWeights(v.Features, rng)

			for _, seed := range []int64{1, 2, 77} {
				run := func() (Result, []Actions) {
					p, err := NewPolicy(v, w)
					if err != nil {
						t.Fatalf("NewPolicy() error = %v", err)
					}
					rec := &recorder{inner: p}
					return NewEpisode(v, seed).Run(rec), rec.actions
				}

				res1, actions1 := run()
				res2, actions2 := run()
				if res1 != res2 {
					t.Errorf("seed %d: results differ: %+v vs %+v", seed, res1, res2)
				}
				if !reflect.DeepEqual(actions1, actions2) {
					t.Errorf("seed %d: action sequences differ", seed)
				}
				if res1.Ticks > v.TickCap+1 || res1.Outcome == Running {
					t.Errorf("seed %d: episode did not terminate properly: %+v", seed, res1)
				}
				if len(actions1) != res1.Ticks {
					t.Errorf("seed %d: %d decisions for %d ticks", seed, len(actions1), res1.Ticks)
				}
			}
		})
	}
}

func TestEpisodesDoNotShareState(t *testing.T) {
	v := mustVariant(t, config.VariantSimple)
	v.Physics.Gravity = 0

	a := NewEpisode(v, 6)
	b := NewEpisode(v, 6)
	for i := 0; i < 10; i++ {
		forceRecycle(a)
		a.Step(idle)
	}
	if b.View().Gap != v.Difficulty.InitialGap || b.View().Speed != v.Difficulty.InitialSpeed {
		t.Error("ramp progress leaked between episodes")
	}
	if a.View().Gap == b.View().Gap {
		t.Error("episode a should have ramped")
	}
}
