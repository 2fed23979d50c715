package clframe

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/ernie/q2netcore/internal/config"
	"github.com/ernie/q2netcore/internal/entitywire"
	"github.com/ernie/q2netcore/internal/msgbuf"
	"github.com/ernie/q2netcore/internal/netlog"
	"github.com/ernie/q2netcore/internal/playerwire"
)

// Error kinds the core distinguishes per the error handling design: wire
// overflow and wire invalid are both fatal to the containing connection or
// frame and are always wrapped with context via fmt.Errorf("...: %w", err).
var (
	ErrWireOverflow = errors.New("clframe: overread past end of packet")
	ErrWireInvalid  = errors.New("clframe: entity number or area_bits length out of range")
)

// DefaultTeleportEvent is the event id the game layer uses to signal an explicit
// teleport. The core doesn't own the game's event catalog (§1, server-side
// game logic is an external collaborator); callers that use a different
// value should set Assembler.TeleportEvent after construction.
const DefaultTeleportEvent = 8

// TeleportDistance is the per-axis origin delta beyond which two
// consecutive states for the same entity are treated as a teleport rather
// than continuous motion (§9 open question: consistent per-axis float
// comparison, not magnitude-squared).
const TeleportDistance = 512

// Assembler consumes the frame/playerinfo/packetentities wire stream and
// produces dense Frames, maintaining the parse-entities ring and the
// per-edict CEntity array. It holds no package-level state; every field is
// explicit, matching the ClientSession design note.
type Assembler struct {
	TeleportEvent int

	frames    [FrameWindow]Frame
	haveFrame [FrameWindow]bool
	ring      [ParseEntitiesCapacity]entitywire.State
	head      int
	cents     [MaxEdicts]CEntity
	stats     *entitywire.BitStats
	lastFrame int32 // server_frame of the most recently assembled frame, 0 initially
	log       *netlog.Logger
	cfg       *config.Config
}

// NewAssembler builds an Assembler against cfg (the same Config instance
// passed to BspLoader/Interpolator/Predictor per the explicit-state design,
// §9); cfg may be nil to take every cvar at its default.
func NewAssembler(cfg *config.Config) *Assembler {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &Assembler{TeleportEvent: DefaultTeleportEvent, log: netlog.New(os.Stderr), cfg: cfg}
}

// Config returns the cvar set this Assembler was built with.
func (a *Assembler) Config() *config.Config { return a.cfg }

// SetBitStats attaches (or detaches, with nil) the additive bit-histogram.
func (a *Assembler) SetBitStats(s *entitywire.BitStats) { a.stats = s }

// SetLogger overrides the default stderr logger, letting callers (such as
// cmd/q2netdump) route assembler diagnostics through their own Logger.
func (a *Assembler) SetLogger(l *netlog.Logger) { a.log = l }

// SetBaseline records the connect-time spawn baseline for an edict number,
// used as the delta reference for entities not present in any retained
// frame.
func (a *Assembler) SetBaseline(number int, s entitywire.State) {
	a.cents[number].Baseline = s
}

// CEntity returns the persistent slot for an edict number.
func (a *Assembler) CEntity(number int) *CEntity {
	return &a.cents[number]
}

// FrameEntities materializes the dense entity list for f, handling ring
// wraparound.
func (a *Assembler) FrameEntities(f Frame) []entitywire.State {
	out := make([]entitywire.State, f.Count)
	for i := 0; i < f.Count; i++ {
		out[i] = a.ring[(f.FirstIndex+i)%ParseEntitiesCapacity]
	}
	return out
}

type oldCursor struct {
	frame    *Frame
	ring     *[ParseEntitiesCapacity]entitywire.State
	idx      int
	hasFrame bool
}

func (c *oldCursor) num() int {
	if !c.hasFrame || c.idx >= c.frame.Count {
		return MaxEdicts // sentinel: past end of list
	}
	return c.ring[(c.frame.FirstIndex+c.idx)%ParseEntitiesCapacity].Number
}

func (c *oldCursor) state() entitywire.State {
	return c.ring[(c.frame.FirstIndex+c.idx)%ParseEntitiesCapacity]
}

func (c *oldCursor) advance() { c.idx++ }

// Process reads one complete frame/playerinfo/packetentities packet and
// returns the assembled Frame. On WireOverflow/WireInvalid the returned
// error is non-nil and the caller must drop the entire incoming frame
// (§5: "no partial application").
func (a *Assembler) Process(r *msgbuf.Reader, demoPlayback bool) (Frame, error) {
	var f Frame
	f.ServerFrame = r.ReadLong()
	f.DeltaFrame = r.ReadLong()
	_ = r.ReadByte() // surpress_count: external collaborator concern, not used by the core

	var ref *Frame
	switch {
	case f.DeltaFrame <= 0:
		f.Valid = true
	default:
		slot := ringSlot(f.DeltaFrame)
		old := &a.frames[slot]
		switch {
		case !a.haveFrame[slot] || old.ServerFrame != f.DeltaFrame:
			f.Valid = false // StaleDeltaBase
		case a.head-old.FirstIndex > ParseEntitiesCapacity-128:
			f.Valid = false // ring has overrun the reference frame
		default:
			f.Valid = true
			ref = old
		}
	}

	f.ServerTime = f.ServerFrame * 100

	areaLen := int(r.ReadByte())
	if areaLen > 0 {
		f.AreaBits = r.ReadData(areaLen)
	}
	if r.Overflowed {
		return Frame{}, fmt.Errorf("reading area_bits: %w", ErrWireOverflow)
	}

	var refPlayer playerwire.State
	if ref != nil {
		refPlayer = ref.PlayerState
	}
	f.PlayerState = playerwire.Decode(r, refPlayer, demoPlayback)
	if r.Overflowed {
		return Frame{}, fmt.Errorf("reading playerinfo: %w", ErrWireOverflow)
	}

	if err := a.mergeEntities(r, &f, ref); err != nil {
		return Frame{}, err
	}

	slot := ringSlot(f.ServerFrame)
	a.frames[slot] = f
	a.haveFrame[slot] = true
	a.lastFrame = f.ServerFrame
	return f, nil
}

func ringSlot(frame int32) int {
	slot := int(frame) % FrameWindow
	if slot < 0 {
		slot += FrameWindow
	}
	return slot
}

func (a *Assembler) mergeEntities(r *msgbuf.Reader, f *Frame, ref *Frame) error {
	old := oldCursor{ring: &a.ring}
	if ref != nil {
		old.frame = ref
		old.hasFrame = true
	}

	f.FirstIndex = a.head

	emit := func(decoded entitywire.State) {
		a.applyCEntity(decoded, f.ServerFrame)
		a.ring[a.head%ParseEntitiesCapacity] = decoded
		a.head++
		f.Count++
	}

	for {
		mask, newNum := entitywire.ReadHeader(r)
		if r.Overflowed {
			return fmt.Errorf("reading packetentities header: %w", ErrWireOverflow)
		}
		if newNum == 0 {
			break
		}
		if newNum >= MaxEdicts {
			return fmt.Errorf("entity number %d: %w", newNum, ErrWireInvalid)
		}

		for old.num() < newNum {
			emit(entitywire.Decode(r, 0, old.state(), a.stats))
			old.advance()
		}

		switch {
		case mask.Has(entitywire.BitRemove):
			if old.num() != newNum {
				a.log.Warnf("U_REMOVE oldnum %d != newnum %d, advancing anyway", old.num(), newNum)
			}
			old.advance()
		case old.num() == newNum:
			decoded := entitywire.Decode(r, mask, old.state(), a.stats)
			emit(decoded)
			old.advance()
		default: // old.num() > newNum: new entity, delta against baseline
			baseline := a.cents[newNum].Baseline
			baseline.Number = newNum
			decoded := entitywire.Decode(r, mask, baseline, a.stats)
			emit(decoded)
		}
		if r.Overflowed {
			return fmt.Errorf("reading entity delta %d: %w", newNum, ErrWireOverflow)
		}
	}

	for old.num() != MaxEdicts {
		emit(entitywire.Decode(r, 0, old.state(), a.stats))
		old.advance()
	}

	return nil
}

func (a *Assembler) applyCEntity(decoded entitywire.State, serverFrame int32) {
	cent := &a.cents[decoded.Number]

	modelChanged := decoded.ModelIndex != cent.Current.ModelIndex
	teleported := decoded.Event == a.teleportEvent() || axisDeltaExceeds(decoded.Origin, cent.Current.Origin, TeleportDistance)

	if modelChanged || teleported {
		cent.ServerFrame = -99
	}

	notInLastFrame := cent.ServerFrame != serverFrame-1

	if notInLastFrame {
		cent.Prev = decoded
		if teleported {
			cent.LerpOrigin = decoded.Origin
		} else {
			cent.Prev.Origin = decoded.OldOrigin
			cent.LerpOrigin = decoded.OldOrigin
		}
		cent.TrailCount = 1024
	} else {
		cent.Prev = cent.Current
	}
	cent.Current = decoded
	cent.ServerFrame = serverFrame
}

func (a *Assembler) teleportEvent() int {
	if a.TeleportEvent == 0 {
		return DefaultTeleportEvent
	}
	return a.TeleportEvent
}

func axisDeltaExceeds(a, b [3]float32, threshold float64) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(float64(a[i])-float64(b[i])) > threshold {
			return true
		}
	}
	return false
}
