// Package area tracks runtime area-portal open/closed state and answers
// area-connectivity queries (spec's AreaPortal).
package area

import "github.com/ernie/q2netcore/internal/bsp"

// State is the mutable per-session overlay on top of an immutable *bsp.Bsp:
// which portals are open, and the flood-fill bookkeeping used to answer
// AreasConnected. Kept separate from bsp.Bsp so the loaded map stays
// shareable across sessions (§3/§5), matching the BoxOverlay split used
// for box-hull traces.
type State struct {
	b *bsp.Bsp

	portalOpen []bool
	floodNums  []int32
	floodValid int32
}

// New builds an area.State over b with every portal open, matching the
// engine default before any CM_SetAreaPortalState call.
func New(b *bsp.Bsp) *State {
	s := &State{
		b:          b,
		portalOpen: make([]bool, countPortals(b)+1),
		floodNums:  make([]int32, len(b.Areas)),
	}
	for i := range s.portalOpen {
		s.portalOpen[i] = true
	}
	s.floodAreas()
	return s
}

func countPortals(b *bsp.Bsp) int {
	max := int32(0)
	for _, p := range b.AreaPortals {
		if p.PortalNum > max {
			max = p.PortalNum
		}
	}
	return int(max)
}

// SetAreaPortalState opens or closes portal, then reruns the flood fill,
// grounded on CM_SetAreaPortalState.
func (s *State) SetAreaPortalState(portal int, open bool) {
	if portal < 0 || portal >= len(s.portalOpen) {
		return
	}
	s.portalOpen[portal] = open
	s.floodAreas()
}

func (s *State) floodAreas() {
	s.floodValid++
	for area := range s.b.Areas {
		s.floodNums[area] = 0
	}
	floodNum := int32(0)
	for area := range s.b.Areas {
		if s.floodNums[area] != 0 {
			continue
		}
		floodNum++
		s.floodAreaR(int32(area), floodNum)
	}
}

// floodAreaR is the recursive flood-fill over open portals, grounded on
// FloodArea_r.
func (s *State) floodAreaR(areaNum, floodNum int32) {
	if s.floodNums[areaNum] != 0 {
		return
	}
	s.floodNums[areaNum] = floodNum

	a := s.b.Areas[areaNum]
	for i := int32(0); i < a.NumAreaPortals; i++ {
		ref := s.b.AreaPortals[a.FirstAreaPortal+i]
		if int(ref.PortalNum) >= len(s.portalOpen) || !s.portalOpen[ref.PortalNum] {
			continue
		}
		s.floodAreaR(ref.OtherArea, floodNum)
	}
}

// AreasConnected reports whether area1 and area2 share a flood number
// under the current portal-open state, grounded on CM_AreasConnected.
func (s *State) AreasConnected(area1, area2 int) bool {
	if area1 < 0 || area2 < 0 || area1 >= len(s.floodNums) || area2 >= len(s.floodNums) {
		return false
	}
	return s.floodNums[area1] == s.floodNums[area2]
}

// WriteAreaBits fills buf (one bit per area) with every area connected to
// area, for transmission in a frame's area_bits field. noAreas forces every
// bit set, matching the map_noareas debug cvar.
func (s *State) WriteAreaBits(buf []byte, area int, noAreas bool) int {
	numBytes := (len(s.b.Areas) + 7) / 8
	for i := range buf {
		buf[i] = 0
	}
	if noAreas {
		for i := 0; i < numBytes; i++ {
			buf[i] = 0xff
		}
		return numBytes
	}
	for i := range s.b.Areas {
		if s.AreasConnected(area, i) {
			buf[i>>3] |= 1 << uint(i&7)
		}
	}
	return numBytes
}

// PortalOpen reports the current open/closed flag for portal.
func (s *State) PortalOpen(portal int) bool {
	if portal < 0 || portal >= len(s.portalOpen) {
		return false
	}
	return s.portalOpen[portal]
}
