package transport

import (
	"bytes"
	"context"
	"io"
	"testing"
)

func TestCaptureRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewCaptureWriter(&buf)
	if err != nil {
		t.Fatalf("NewCaptureWriter: %v", err)
	}
	packets := [][]byte{
		[]byte("frame-one"),
		[]byte("frame-two-is-longer"),
		{},
	}
	for _, p := range packets {
		if err := w.WritePacket(p); err != nil {
			t.Fatalf("WritePacket: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	src, err := OpenCapture(&buf)
	if err != nil {
		t.Fatalf("OpenCapture: %v", err)
	}
	defer src.Close()

	for i, want := range packets {
		got, err := src.ReadPacket(context.Background())
		if err != nil {
			t.Fatalf("ReadPacket %d: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("packet %d: got %q want %q", i, got, want)
		}
	}
	if _, err := src.ReadPacket(context.Background()); err != io.EOF {
		t.Fatalf("expected io.EOF after last packet, got %v", err)
	}
}
