package bsp

import (
	"testing"

	"github.com/ernie/q2netcore/internal/trace"
)

// TestBoxHullSoundness covers Property 10: a trace swept against a
// synthetic per-entity box hull stops at the box's own faces regardless
// of the map's real geometry.
func TestBoxHullSoundness(t *testing.T) {
	b := &Bsp{
		Leaves: []Leaf{{Contents: 0}}, // leaf 0 is the shared empty leaf
	}
	initBoxHull(b)

	overlay := &BoxOverlay{}
	headnode := b.HeadnodeForBox(overlay, [3]float32{-16, -16, -16}, [3]float32{16, 16, 16})
	tree := OverlayTree{Bsp: b, Overlay: overlay}

	res := trace.BoxTrace(tree, headnode, [3]float32{-64, 0, 0}, [3]float32{64, 0, 0}, [3]float32{}, [3]float32{}, contentsMonster)
	if res.Fraction >= 1 {
		t.Fatalf("expected trace to stop at the box hull face, got fraction %v", res.Fraction)
	}
	if res.EndPos[0] > -15.9 || res.EndPos[0] < -16.1 {
		t.Fatalf("expected trace to stop near x=-16, got endpos %v", res.EndPos)
	}
}

func TestBoxHullMissesWhenOutsideBounds(t *testing.T) {
	b := &Bsp{
		Leaves: []Leaf{{Contents: 0}},
	}
	initBoxHull(b)

	overlay := &BoxOverlay{}
	headnode := b.HeadnodeForBox(overlay, [3]float32{-16, -16, -16}, [3]float32{16, 16, 16})
	tree := OverlayTree{Bsp: b, Overlay: overlay}

	res := trace.BoxTrace(tree, headnode, [3]float32{-64, 100, 0}, [3]float32{64, 100, 0}, [3]float32{}, [3]float32{}, contentsMonster)
	if res.Fraction != 1 {
		t.Fatalf("expected a clean miss far from the box, got fraction %v", res.Fraction)
	}
}
