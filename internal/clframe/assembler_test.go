package clframe

import (
	"testing"

	"github.com/ernie/q2netcore/internal/entitywire"
	"github.com/ernie/q2netcore/internal/msgbuf"
)

func writePacket(t *testing.T, serverFrame, deltaFrame int32, areaBits []byte, build func(w *msgbuf.Writer)) []byte {
	t.Helper()
	w := msgbuf.NewWriter()
	w.WriteLong(serverFrame)
	w.WriteLong(deltaFrame)
	_ = w.WriteByte(0) // surpress_count
	_ = w.WriteByte(byte(len(areaBits)))
	w.WriteData(areaBits)
	w.WriteUShort(0) // empty playerinfo flags
	w.WriteLong(0)   // empty statbits
	build(w)
	_ = w.WriteByte(0) // packetentities terminator: number 0, NUMBER16 clear
	return w.Bytes()
}

// Scenario A — baseline then delta.
func TestScenarioABaselineThenDelta(t *testing.T) {
	a := NewAssembler(nil)

	pkt1 := writePacket(t, 10, 0, nil, func(w *msgbuf.Writer) {
		from := entitywire.State{Number: 5}
		to := entitywire.State{Number: 5, Origin: [3]float32{100, 0, 64}, ModelIndex: [4]int{1, 0, 0, 0}}
		entitywire.Encode(w, from, to)
	})
	if _, err := a.Process(msgbuf.NewReader(pkt1), false); err != nil {
		t.Fatalf("packet 1: %v", err)
	}

	pkt2 := writePacket(t, 11, 10, nil, func(w *msgbuf.Writer) {
		from := entitywire.State{Number: 5, Origin: [3]float32{100, 0, 64}, ModelIndex: [4]int{1, 0, 0, 0}}
		to := from
		to.Origin[0] = 108
		entitywire.Encode(w, from, to)
	})
	if _, err := a.Process(msgbuf.NewReader(pkt2), false); err != nil {
		t.Fatalf("packet 2: %v", err)
	}

	cent := a.CEntity(5)
	if cent.Current.Origin != [3]float32{108, 0, 64} {
		t.Fatalf("current origin = %v, want (108,0,64)", cent.Current.Origin)
	}
	if cent.Prev.Origin != [3]float32{100, 0, 64} {
		t.Fatalf("prev origin = %v, want (100,0,64)", cent.Prev.Origin)
	}
	if cent.Current.ModelIndex[0] != 1 {
		t.Fatalf("model index = %d, want 1", cent.Current.ModelIndex[0])
	}
	if cent.ServerFrame != 11 {
		t.Fatalf("server frame = %d, want 11", cent.ServerFrame)
	}
}

// Scenario B — stale delta base.
func TestScenarioBStaleBase(t *testing.T) {
	a := NewAssembler(nil)
	pkt := writePacket(t, 200, 1, nil, func(w *msgbuf.Writer) {})
	f, err := a.Process(msgbuf.NewReader(pkt), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Valid {
		t.Fatal("expected frame to be invalid when delta base was never seen")
	}
}

// Property 3 — ring monotonicity.
func TestRingMonotonicity(t *testing.T) {
	a := NewAssembler(nil)
	var last int32
	for sf := int32(1); sf <= 5; sf++ {
		delta := sf - 1
		if sf == 1 {
			delta = 0
		}
		pkt := writePacket(t, sf, delta, nil, func(w *msgbuf.Writer) {
			from := entitywire.State{Number: 7}
			to := entitywire.State{Number: 7, Frame: int(sf)}
			entitywire.Encode(w, from, to)
		})
		if _, err := a.Process(msgbuf.NewReader(pkt), false); err != nil {
			t.Fatalf("frame %d: %v", sf, err)
		}
		last = sf
	}
	if a.CEntity(7).ServerFrame != last {
		t.Fatalf("got %d want %d", a.CEntity(7).ServerFrame, last)
	}
}
