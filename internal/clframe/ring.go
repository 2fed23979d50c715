// Package clframe assembles the per-packet entity/player delta stream into
// dense Frames, maintaining the ring of recently parsed entities and the
// persistent per-edict CEntity slots that Interpolator and Predictor read.
package clframe

import (
	"github.com/ernie/q2netcore/internal/entitywire"
	"github.com/ernie/q2netcore/internal/playerwire"
)

// FrameWindow is the number of recently retained Frames kept for delta-base
// lookups (the original's UPDATE_BACKUP ring).
const FrameWindow = 64

// ParseEntitiesCapacity is the ring buffer capacity backing every retained
// Frame's entity list: at least 1024 entities per retained frame slot, per
// the ring invariant in §3 of the spec this module implements.
const ParseEntitiesCapacity = 1024 * FrameWindow

// MaxEdicts bounds entity numbers; re-exported for callers that only import
// clframe.
const MaxEdicts = entitywire.MaxEdicts

// Frame is one server snapshot as retained on the client.
type Frame struct {
	ServerFrame int32
	DeltaFrame  int32
	Valid       bool
	ServerTime  int32
	AreaBits    []byte
	PlayerState playerwire.State
	FirstIndex  int
	Count       int
}

// CEntity is the client's persistent per-edict slot.
type CEntity struct {
	Baseline    entitywire.State
	Current     entitywire.State
	Prev        entitywire.State
	ServerFrame int32
	TrailCount  int
	LerpOrigin  [3]float32
}
