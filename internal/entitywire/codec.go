package entitywire

import "github.com/ernie/q2netcore/internal/msgbuf"

// BitStats is additive profiling of which mask bits fire, mirroring the
// original client's bitcounts[32] instrumentation. Nil-safe: callers that
// don't care about the histogram just pass nil to Decode.
type BitStats struct {
	Counts [32]uint64
}

func (s *BitStats) observe(mask Bits) {
	if s == nil {
		return
	}
	for i := 0; i < 32; i++ {
		if mask&(1<<uint(i)) != 0 {
			s.Counts[i]++
		}
	}
}

// ReadHeader reads the variable-width bitmask (chasing MOREBITS1/2/3) and
// the entity number (8 or 16 bits depending on NUMBER16), per §4.2.
func ReadHeader(r *msgbuf.Reader) (mask Bits, number int) {
	b0 := uint32(r.ReadBits(8))
	mask = Bits(b0)
	if mask&BitMoreBits1 != 0 {
		b1 := uint32(r.ReadBits(8))
		mask |= Bits(b1) << 8
	}
	if mask&BitMoreBits2 != 0 {
		b2 := uint32(r.ReadBits(8))
		mask |= Bits(b2) << 16
	}
	if mask&BitMoreBits3 != 0 {
		b3 := uint32(r.ReadBits(8))
		mask |= Bits(b3) << 24
	}
	if mask&BitNumber16 != 0 {
		number = int(r.ReadBits(16))
	} else {
		number = int(r.ReadBits(8))
	}
	return mask, number
}

// Decode applies the fields named by mask onto a working copy seeded from
// from, per the field decoding matrix in §4.2. Two exceptions to "unset
// fields keep the reference value": old_origin is copied from from.Origin
// first, and Event is zeroed unless the EVENT bit is present (it is never
// delta-preserved).
func Decode(r *msgbuf.Reader, mask Bits, from State, stats *BitStats) State {
	stats.observe(mask)

	to := from
	to.OldOrigin = from.Origin
	to.Event = 0

	if mask.Has(BitModel) {
		to.ModelIndex[0] = int(r.ReadBits(8))
	}
	if mask.Has(BitModel2) {
		to.ModelIndex[1] = int(r.ReadBits(8))
	}
	if mask.Has(BitModel3) {
		to.ModelIndex[2] = int(r.ReadBits(8))
	}
	if mask.Has(BitModel4) {
		to.ModelIndex[3] = int(r.ReadBits(8))
	}

	switch {
	case mask.Has(BitFrame8):
		to.Frame = int(r.ReadByte())
	case mask.Has(BitFrame16):
		to.Frame = int(r.ReadUShort())
	}

	switch {
	case mask.Has(BitSkin8) && mask.Has(BitSkin16):
		to.Skinnum = int(r.ReadLong())
	case mask.Has(BitSkin8):
		to.Skinnum = int(r.ReadByte())
	case mask.Has(BitSkin16):
		to.Skinnum = int(r.ReadUShort())
	}

	switch {
	case mask.Has(BitEffects8) && mask.Has(BitEffects16):
		to.Effects = int(r.ReadLong())
	case mask.Has(BitEffects8):
		to.Effects = int(r.ReadByte())
	case mask.Has(BitEffects16):
		to.Effects = int(r.ReadUShort())
	}

	switch {
	case mask.Has(BitRenderFX8) && mask.Has(BitRenderFX16):
		to.RenderFX = int(r.ReadLong())
	case mask.Has(BitRenderFX8):
		to.RenderFX = int(r.ReadByte())
	case mask.Has(BitRenderFX16):
		to.RenderFX = int(r.ReadUShort())
	}

	if mask.Has(BitOrigin1) {
		to.Origin[0] = r.ReadCoord()
	}
	if mask.Has(BitOrigin2) {
		to.Origin[1] = r.ReadCoord()
	}
	if mask.Has(BitOrigin3) {
		to.Origin[2] = r.ReadCoord()
	}

	if mask.Has(BitAngle1) {
		to.Angles[0] = r.ReadAngle8()
	}
	if mask.Has(BitAngle2) {
		to.Angles[1] = r.ReadAngle8()
	}
	if mask.Has(BitAngle3) {
		to.Angles[2] = r.ReadAngle8()
	}

	if mask.Has(BitOldOrigin) {
		to.OldOrigin = r.ReadPos()
	}

	if mask.Has(BitSound) {
		to.Sound = int(r.ReadByte())
	}
	if mask.Has(BitEvent) {
		to.Event = int(r.ReadByte())
	}
	if mask.Has(BitSolid) {
		to.Solid = int(r.ReadUShort())
	}

	return to
}

// Encode writes the narrowest-width delta of to against from and returns
// the mask it chose, the inverse of Decode.
func Encode(w *msgbuf.Writer, from, to State) Bits {
	var mask Bits

	if to.ModelIndex[0] != from.ModelIndex[0] {
		mask |= BitModel
	}
	if to.ModelIndex[1] != from.ModelIndex[1] {
		mask |= BitModel2
	}
	if to.ModelIndex[2] != from.ModelIndex[2] {
		mask |= BitModel3
	}
	if to.ModelIndex[3] != from.ModelIndex[3] {
		mask |= BitModel4
	}

	if to.Frame != from.Frame {
		if to.Frame>>8 != 0 {
			mask |= BitFrame16
		} else {
			mask |= BitFrame8
		}
	}

	if to.Skinnum != from.Skinnum {
		switch {
		case to.Skinnum>>16 != 0:
			mask |= BitSkin8 | BitSkin16
		case to.Skinnum>>8 != 0:
			mask |= BitSkin16
		default:
			mask |= BitSkin8
		}
	}

	if to.Effects != from.Effects {
		switch {
		case to.Effects>>16 != 0:
			mask |= BitEffects8 | BitEffects16
		case to.Effects>>8 != 0:
			mask |= BitEffects16
		default:
			mask |= BitEffects8
		}
	}

	if to.RenderFX != from.RenderFX {
		switch {
		case to.RenderFX>>16 != 0:
			mask |= BitRenderFX8 | BitRenderFX16
		case to.RenderFX>>8 != 0:
			mask |= BitRenderFX16
		default:
			mask |= BitRenderFX8
		}
	}

	if to.Origin[0] != from.Origin[0] {
		mask |= BitOrigin1
	}
	if to.Origin[1] != from.Origin[1] {
		mask |= BitOrigin2
	}
	if to.Origin[2] != from.Origin[2] {
		mask |= BitOrigin3
	}

	if to.Angles[0] != from.Angles[0] {
		mask |= BitAngle1
	}
	if to.Angles[1] != from.Angles[1] {
		mask |= BitAngle2
	}
	if to.Angles[2] != from.Angles[2] {
		mask |= BitAngle3
	}

	if to.OldOrigin != from.Origin {
		mask |= BitOldOrigin
	}

	if to.Sound != from.Sound {
		mask |= BitSound
	}
	if to.Event != 0 {
		mask |= BitEvent
	}
	if to.Solid != from.Solid {
		mask |= BitSolid
	}

	if to.Number >= 1<<8 {
		mask |= BitNumber16
	}

	if mask&0xFFFFFF00 != 0 {
		mask |= BitMoreBits1
	}
	if mask&0xFFFF0000 != 0 {
		mask |= BitMoreBits2
	}
	if mask&0xFF000000 != 0 {
		mask |= BitMoreBits3
	}

	w.WriteBits(uint32(mask)&0xff, 8)
	if mask&BitMoreBits1 != 0 {
		w.WriteBits(uint32(mask>>8)&0xff, 8)
	}
	if mask&BitMoreBits2 != 0 {
		w.WriteBits(uint32(mask>>16)&0xff, 8)
	}
	if mask&BitMoreBits3 != 0 {
		w.WriteBits(uint32(mask>>24)&0xff, 8)
	}
	if mask&BitNumber16 != 0 {
		w.WriteBits(uint32(to.Number), 16)
	} else {
		w.WriteBits(uint32(to.Number), 8)
	}

	if mask.Has(BitModel) {
		w.WriteBits(uint32(to.ModelIndex[0]), 8)
	}
	if mask.Has(BitModel2) {
		w.WriteBits(uint32(to.ModelIndex[1]), 8)
	}
	if mask.Has(BitModel3) {
		w.WriteBits(uint32(to.ModelIndex[2]), 8)
	}
	if mask.Has(BitModel4) {
		w.WriteBits(uint32(to.ModelIndex[3]), 8)
	}

	switch {
	case mask.Has(BitFrame8):
		_ = w.WriteByte(byte(to.Frame))
	case mask.Has(BitFrame16):
		w.WriteUShort(uint16(to.Frame))
	}

	switch {
	case mask.Has(BitSkin8) && mask.Has(BitSkin16):
		w.WriteLong(int32(to.Skinnum))
	case mask.Has(BitSkin8):
		_ = w.WriteByte(byte(to.Skinnum))
	case mask.Has(BitSkin16):
		w.WriteUShort(uint16(to.Skinnum))
	}

	switch {
	case mask.Has(BitEffects8) && mask.Has(BitEffects16):
		w.WriteLong(int32(to.Effects))
	case mask.Has(BitEffects8):
		_ = w.WriteByte(byte(to.Effects))
	case mask.Has(BitEffects16):
		w.WriteUShort(uint16(to.Effects))
	}

	switch {
	case mask.Has(BitRenderFX8) && mask.Has(BitRenderFX16):
		w.WriteLong(int32(to.RenderFX))
	case mask.Has(BitRenderFX8):
		_ = w.WriteByte(byte(to.RenderFX))
	case mask.Has(BitRenderFX16):
		w.WriteUShort(uint16(to.RenderFX))
	}

	if mask.Has(BitOrigin1) {
		w.WriteCoord(to.Origin[0])
	}
	if mask.Has(BitOrigin2) {
		w.WriteCoord(to.Origin[1])
	}
	if mask.Has(BitOrigin3) {
		w.WriteCoord(to.Origin[2])
	}

	if mask.Has(BitAngle1) {
		w.WriteAngle8(to.Angles[0])
	}
	if mask.Has(BitAngle2) {
		w.WriteAngle8(to.Angles[1])
	}
	if mask.Has(BitAngle3) {
		w.WriteAngle8(to.Angles[2])
	}

	if mask.Has(BitOldOrigin) {
		w.WritePos(to.OldOrigin)
	}

	if mask.Has(BitSound) {
		_ = w.WriteByte(byte(to.Sound))
	}
	if mask.Has(BitEvent) {
		_ = w.WriteByte(byte(to.Event))
	}
	if mask.Has(BitSolid) {
		w.WriteUShort(uint16(to.Solid))
	}

	return mask
}
