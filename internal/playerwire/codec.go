package playerwire

import "github.com/ernie/q2netcore/internal/msgbuf"

// Flag bits of the 16-bit playerinfo header, in wire order.
const (
	FlagPMType Bits = 1 << iota
	FlagPMOrigin
	FlagVelocity
	FlagPMTime
	FlagPMFlags
	FlagGravity
	FlagDeltaAngles
	FlagViewOffset
	FlagViewAngles
	FlagKickAngles
	FlagGunIndex
	FlagGunFrame
	FlagBlend
	FlagFOV
	FlagRDFlags
)

type Bits uint16

// quarterScale is the 1/4-unit precision of the signed-byte view offset,
// kick angle and gun offset/angle fields. Pmove origin and velocity use the
// 16-bit 1/8-unit Coord codec from msgbuf instead.
const quarterScale = 1.0 / 4.0

// DemoPlayback, when true, forces PM.Type to PMTypeFreeze after decode, per
// §4.4 ("In demo playback pm_type is overridden to FREEZE").
func Decode(r *msgbuf.Reader, from State, demoPlayback bool) State {
	flags := Bits(r.ReadUShort())
	to := from

	if flags&FlagPMType != 0 {
		to.PM.Type = PMType(r.ReadByte())
	}
	if flags&FlagPMOrigin != 0 {
		to.PM.Origin = r.ReadPos()
	}
	if flags&FlagVelocity != 0 {
		to.PM.Velocity = r.ReadPos()
	}
	if flags&FlagPMTime != 0 {
		to.PM.Time = r.ReadByte()
	}
	if flags&FlagPMFlags != 0 {
		to.PM.Flags = r.ReadByte()
	}
	if flags&FlagGravity != 0 {
		to.PM.Gravity = r.ReadShort()
	}
	if flags&FlagDeltaAngles != 0 {
		to.PM.DeltaAngles = [3]float32{r.ReadAngle16(), r.ReadAngle16(), r.ReadAngle16()}
	}
	if flags&FlagViewOffset != 0 {
		to.ViewOffset = readQuarterVec(r)
	}
	if flags&FlagViewAngles != 0 {
		to.ViewAngles = [3]float32{r.ReadAngle16(), r.ReadAngle16(), r.ReadAngle16()}
	}
	if flags&FlagKickAngles != 0 {
		to.KickAngles = readQuarterVec(r)
	}
	if flags&FlagGunIndex != 0 {
		to.GunIndex = int(r.ReadByte())
	}
	if flags&FlagGunFrame != 0 {
		to.GunFrame = int(r.ReadByte())
		to.GunOffset = readQuarterVec(r)
		to.GunAngles = readQuarterVec(r)
	}
	if flags&FlagBlend != 0 {
		for i := 0; i < 4; i++ {
			to.Blend[i] = float32(r.ReadByte()) / 255.0
		}
	}
	if flags&FlagFOV != 0 {
		to.FOV = float32(r.ReadByte())
	}
	if flags&FlagRDFlags != 0 {
		to.RDFlags = int(r.ReadByte())
	}

	statbits := r.ReadLong()
	for i := 0; i < NumStats; i++ {
		if statbits&(1<<uint(i)) != 0 {
			to.Stats[i] = r.ReadShort()
		}
	}

	if demoPlayback {
		to.PM.Type = PMTypeFreeze
	}
	return to
}

func readQuarterVec(r *msgbuf.Reader) [3]float32 {
	var v [3]float32
	for i := range v {
		v[i] = float32(r.ReadSignedByte()) * quarterScale
	}
	return v
}

func writeQuarterVec(w *msgbuf.Writer, v [3]float32) {
	for _, f := range v {
		w.WriteSignedByte(int8(f / quarterScale))
	}
}

// Encode writes the delta of to against from, mirroring Decode.
func Encode(w *msgbuf.Writer, from, to State) Bits {
	var flags Bits
	if to.PM.Type != from.PM.Type {
		flags |= FlagPMType
	}
	if to.PM.Origin != from.PM.Origin {
		flags |= FlagPMOrigin
	}
	if to.PM.Velocity != from.PM.Velocity {
		flags |= FlagVelocity
	}
	if to.PM.Time != from.PM.Time {
		flags |= FlagPMTime
	}
	if to.PM.Flags != from.PM.Flags {
		flags |= FlagPMFlags
	}
	if to.PM.Gravity != from.PM.Gravity {
		flags |= FlagGravity
	}
	if to.PM.DeltaAngles != from.PM.DeltaAngles {
		flags |= FlagDeltaAngles
	}
	if to.ViewOffset != from.ViewOffset {
		flags |= FlagViewOffset
	}
	if to.ViewAngles != from.ViewAngles {
		flags |= FlagViewAngles
	}
	if to.KickAngles != from.KickAngles {
		flags |= FlagKickAngles
	}
	if to.GunIndex != from.GunIndex {
		flags |= FlagGunIndex
	}
	if to.GunFrame != from.GunFrame || to.GunOffset != from.GunOffset || to.GunAngles != from.GunAngles {
		flags |= FlagGunFrame
	}
	if to.Blend != from.Blend {
		flags |= FlagBlend
	}
	if to.FOV != from.FOV {
		flags |= FlagFOV
	}
	if to.RDFlags != from.RDFlags {
		flags |= FlagRDFlags
	}

	w.WriteUShort(uint16(flags))

	if flags&FlagPMType != 0 {
		_ = w.WriteByte(byte(to.PM.Type))
	}
	if flags&FlagPMOrigin != 0 {
		w.WritePos(to.PM.Origin)
	}
	if flags&FlagVelocity != 0 {
		w.WritePos(to.PM.Velocity)
	}
	if flags&FlagPMTime != 0 {
		_ = w.WriteByte(to.PM.Time)
	}
	if flags&FlagPMFlags != 0 {
		_ = w.WriteByte(to.PM.Flags)
	}
	if flags&FlagGravity != 0 {
		w.WriteShort(to.PM.Gravity)
	}
	if flags&FlagDeltaAngles != 0 {
		for _, a := range to.PM.DeltaAngles {
			w.WriteAngle16(a)
		}
	}
	if flags&FlagViewOffset != 0 {
		writeQuarterVec(w, to.ViewOffset)
	}
	if flags&FlagViewAngles != 0 {
		for _, a := range to.ViewAngles {
			w.WriteAngle16(a)
		}
	}
	if flags&FlagKickAngles != 0 {
		writeQuarterVec(w, to.KickAngles)
	}
	if flags&FlagGunIndex != 0 {
		_ = w.WriteByte(byte(to.GunIndex))
	}
	if flags&FlagGunFrame != 0 {
		_ = w.WriteByte(byte(to.GunFrame))
		writeQuarterVec(w, to.GunOffset)
		writeQuarterVec(w, to.GunAngles)
	}
	if flags&FlagBlend != 0 {
		for _, c := range to.Blend {
			_ = w.WriteByte(byte(c * 255.0))
		}
	}
	if flags&FlagFOV != 0 {
		_ = w.WriteByte(byte(to.FOV))
	}
	if flags&FlagRDFlags != 0 {
		_ = w.WriteByte(byte(to.RDFlags))
	}

	var statbits int32
	for i := 0; i < NumStats; i++ {
		if to.Stats[i] != from.Stats[i] {
			statbits |= 1 << uint(i)
		}
	}
	w.WriteLong(statbits)
	for i := 0; i < NumStats; i++ {
		if statbits&(1<<uint(i)) != 0 {
			w.WriteShort(to.Stats[i])
		}
	}

	return flags
}
