package msgbuf

import "testing"

func TestCoordRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteCoord(108.0)
	w.WriteCoord(-64.125)
	r := NewReader(w.Bytes())
	if got := r.ReadCoord(); got != 108.0 {
		t.Fatalf("got %v want 108.0", got)
	}
	if got := r.ReadCoord(); got != -64.125 {
		t.Fatalf("got %v want -64.125", got)
	}
	if r.Overflowed {
		t.Fatal("unexpected overflow")
	}
}

func TestAngle8RoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteAngle8(180)
	r := NewReader(w.Bytes())
	got := r.ReadAngle8()
	if got < 179.9 || got > 180.1 {
		t.Fatalf("got %v want ~180", got)
	}
}

func TestReadBitsMoreBitsLayout(t *testing.T) {
	w := NewWriter()
	// 10 bits: low byte 0b10101010, next 2 bits 0b11
	w.WriteBits(0b10101010, 8)
	w.WriteBits(0b11, 2)
	r := NewReader(w.Bytes())
	if got := r.ReadBits(8); got != 0b10101010 {
		t.Fatalf("got %b", got)
	}
	if got := r.ReadBits(2); got != 0b11 {
		t.Fatalf("got %b", got)
	}
}

func TestOverreadSetsOverflow(t *testing.T) {
	r := NewReader([]byte{1, 2})
	r.ReadLong()
	if !r.Overflowed {
		t.Fatal("expected overflow reading a long from 2 bytes")
	}
	if r.ReadByte() != 0 {
		t.Fatal("reads after overflow must return zero")
	}
}

func TestDirRoundTripNearest(t *testing.T) {
	v := ByteDirs[42]
	idx := EncodeDir(v)
	if idx != 42 {
		t.Fatalf("expected nearest-table-entry round trip, got %d want 42", idx)
	}
}
