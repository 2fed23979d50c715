package playerwire

import (
	"testing"

	"github.com/ernie/q2netcore/internal/msgbuf"
)

func TestPlayerStateRoundTrip(t *testing.T) {
	from := State{}
	to := State{
		PM: PMove{Type: 1, Origin: [3]float32{16, 0, 32}, Velocity: [3]float32{0, 0, 0}},
		ViewAngles: [3]float32{0, 90, 0},
		FOV:        90,
	}
	w := msgbuf.NewWriter()
	Encode(w, from, to)
	r := msgbuf.NewReader(w.Bytes())
	got := Decode(r, from, false)
	if r.Overflowed {
		t.Fatal("unexpected overflow")
	}
	if got.PM.Origin != to.PM.Origin {
		t.Fatalf("origin mismatch: got %v want %v", got.PM.Origin, to.PM.Origin)
	}
	if got.FOV != to.FOV {
		t.Fatalf("fov mismatch: got %v want %v", got.FOV, to.FOV)
	}
}

func TestDemoPlaybackForcesFreeze(t *testing.T) {
	from := State{}
	to := State{PM: PMove{Type: 2}}
	w := msgbuf.NewWriter()
	Encode(w, from, to)
	r := msgbuf.NewReader(w.Bytes())
	got := Decode(r, from, true)
	if got.PM.Type != PMTypeFreeze {
		t.Fatalf("expected demo playback to force FREEZE, got %v", got.PM.Type)
	}
}

func TestStatsDeltaOnlyWritesChanged(t *testing.T) {
	from := State{}
	from.Stats[3] = 5
	to := from
	to.Stats[3] = 5
	to.Stats[9] = 42
	w := msgbuf.NewWriter()
	Encode(w, from, to)
	r := msgbuf.NewReader(w.Bytes())
	got := Decode(r, from, false)
	if got.Stats[3] != 5 || got.Stats[9] != 42 {
		t.Fatalf("stats mismatch: %v", got.Stats)
	}
}
