// Package entitywire implements the variable-width bitmask delta codec for
// one entity's wire state, the wire format the server and client agree on
// for every entity in a packetentities stream.
package entitywire

// Bits is the 32-bit field-presence mask read from the wire ahead of an
// entity delta. Modeled as a strongly-typed bitset per the "Variants"
// design note rather than a naked uint32.
type Bits uint32

const (
	BitOrigin1 Bits = 1 << iota
	BitOrigin2
	BitAngle2
	BitAngle3
	BitFrame8
	BitEvent
	BitRemove
	BitMoreBits1

	BitNumber16
	BitOrigin3
	BitAngle1
	BitModel
	BitRenderFX8
	BitEffects8
	BitSpawnInstant // reserved bit 14; carries no payload, Encode never sets it and Decode ignores it
	BitMoreBits2

	BitSkin8
	BitFrame16
	BitRenderFX16
	BitEffects16
	BitModel2
	BitModel3
	BitModel4
	BitMoreBits3

	BitOldOrigin
	BitSkin16
	BitSound
	BitSolid
	_reservedBit28
	_reservedBit29
	_reservedBit30
	_reservedBit31
)

// Has reports whether every bit in mask is set.
func (b Bits) Has(mask Bits) bool { return b&mask == mask }
