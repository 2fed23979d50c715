package interp

import (
	"testing"

	"github.com/ernie/q2netcore/internal/entitywire"
)

// Scenario F — interpolation at and around the exact server tick.
func TestScenarioFInterpolationAtServerTick(t *testing.T) {
	cfg := Config{}
	prev := entitywire.State{Origin: [3]float32{0, 0, 0}}
	current := entitywire.State{Origin: [3]float32{10, 0, 0}}

	serverTime := int32(1000)

	frac := LerpFrac(cfg, serverTime, 1000)
	if frac != 1 {
		t.Fatalf("frac at t=server_time = %v, want 1", frac)
	}
	tr := Entity(prev, current, frac)
	if tr.Origin != [3]float32{10, 0, 0} {
		t.Fatalf("origin = %v, want (10,0,0)", tr.Origin)
	}

	frac = LerpFrac(cfg, serverTime, 950)
	if frac != 0.5 {
		t.Fatalf("frac at t=950 = %v, want 0.5", frac)
	}
	tr = Entity(prev, current, frac)
	if tr.Origin != [3]float32{5, 0, 0} {
		t.Fatalf("origin = %v, want (5,0,0)", tr.Origin)
	}

	clamped := ClampRenderTime(cfg, serverTime, 800)
	if clamped != 900 {
		t.Fatalf("clamped time = %v, want 900", clamped)
	}
	frac = LerpFrac(cfg, serverTime, clamped)
	if frac != 0 {
		t.Fatalf("frac at clamped t=900 = %v, want 0", frac)
	}
	tr = Entity(prev, current, frac)
	if tr.Origin != [3]float32{0, 0, 0} {
		t.Fatalf("origin = %v, want (0,0,0)", tr.Origin)
	}
}

// Property 5 — interpolation bounds hold for pathological server_time values.
func TestLerpFracBounds(t *testing.T) {
	cfg := Config{}
	cases := []struct{ serverTime, t int32 }{
		{1000, -100000},
		{1000, 100000},
		{0, 0},
		{1000, 1000},
	}
	for _, c := range cases {
		frac := LerpFrac(cfg, c.serverTime, c.t)
		if frac < 0 || frac > 1 {
			t.Fatalf("lerp_frac out of bounds: %v for %+v", frac, c)
		}
	}
	if LerpFrac(Config{Timedemo: true}, 1000, -99999) != 1 {
		t.Fatal("timedemo must force lerp_frac = 1")
	}
}

func TestFrameLerpEntitySkipsInterpolation(t *testing.T) {
	prev := entitywire.State{Origin: [3]float32{0, 0, 0}}
	current := entitywire.State{Origin: [3]float32{100, 0, 0}, RenderFX: entitywire.RenderFXBeam}
	tr := Entity(prev, current, 0.1)
	if tr.Origin != current.Origin {
		t.Fatalf("beam entity should step discretely to current origin, got %v", tr.Origin)
	}
	if !tr.Stepped {
		t.Fatal("expected Stepped=true for a BEAM entity")
	}
}

func TestLerpAngleShortestArc(t *testing.T) {
	got := LerpAngle(350, 10, 0.5)
	if got != 0 && (got < -0.001 || got > 360.001) {
		t.Fatalf("got %v", got)
	}
	// 350 -> 10 the short way crosses 0/360, midpoint should be 0 (or 360).
	if !(got == 0 || got == 360) {
		t.Fatalf("expected shortest-arc midpoint 0 or 360, got %v", got)
	}
}
