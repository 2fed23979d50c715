// Package interp reconstructs continuous per-render-frame transforms from
// two adjacent server Frames plus a blend factor (spec's Interpolator).
package interp

import (
	"github.com/ernie/q2netcore/internal/entitywire"
	"github.com/ernie/q2netcore/internal/netlog"
	"github.com/ernie/q2netcore/internal/playerwire"
)

// teleportViewDistance is the per-axis pmove-origin delta beyond which the
// view is snapped instead of interpolated (256 world units * 8 = 2048,
// matching the original's much larger tolerance on the view compared to
// the 512-unit per-entity teleport threshold).
const teleportViewDistance = 256 * 8

// Config carries the two cvars the Interpolator consults (§6): cl_timedemo
// forces lerp_frac = 1, cl_showclamp logs when render time was clamped.
// Logger defaults to nil, in which case ClampRenderTime stays silent even
// with ShowClamp set — callers that want the log wire in a *netlog.Logger.
type Config struct {
	Timedemo  bool
	ShowClamp bool
	Logger    *netlog.Logger
}

// ClampRenderTime clamps t into [serverTime-100, serverTime] and returns the
// clamped time, logging any clamping when cfg.ShowClamp is set and
// cfg.Logger is non-nil.
func ClampRenderTime(cfg Config, serverTime, t int32) int32 {
	lo := serverTime - 100
	hi := serverTime
	switch {
	case t < lo:
		if cfg.ShowClamp && cfg.Logger != nil {
			cfg.Logger.Warnf("clamped render time %d up to %d", t, lo)
		}
		return lo
	case t > hi:
		if cfg.ShowClamp && cfg.Logger != nil {
			cfg.Logger.Warnf("clamped render time %d down to %d", t, hi)
		}
		return hi
	default:
		return t
	}
}

// LerpFrac computes the blend factor for one render frame (§4.5).
func LerpFrac(cfg Config, serverTime, t int32) float32 {
	if cfg.Timedemo {
		return 1
	}
	frac := 1 - float32(serverTime-t)/100.0
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return frac
}

// LerpAngle blends two angles along the shorter arc between them.
func LerpAngle(from, to, frac float32) float32 {
	delta := to - from
	if delta > 180 {
		delta -= 360
	} else if delta < -180 {
		delta += 360
	}
	return from + frac*delta
}

func lerpVec(from, to [3]float32, frac float32) [3]float32 {
	var out [3]float32
	for i := range out {
		out[i] = from[i] + frac*(to[i]-from[i])
	}
	return out
}

func lerpAngleVec(from, to [3]float32, frac float32) [3]float32 {
	var out [3]float32
	for i := range out {
		out[i] = LerpAngle(from[i], to[i], frac)
	}
	return out
}

// EntityTransform is the per-render-frame pose of one entity.
type EntityTransform struct {
	Number    int
	Origin    [3]float32
	Angles    [3]float32
	BackLerp  float32
	Stepped   bool // true when FRAMELERP/BEAM forced a discrete step
}

// Entity computes one entity's render transform from its previous and
// current server states. FRAMELERP and BEAM renderfx entities step their
// origin discretely rather than interpolating (§4.5).
func Entity(prev, current entitywire.State, lerpFrac float32) EntityTransform {
	t := EntityTransform{Number: current.Number, BackLerp: 1 - lerpFrac}
	if current.RenderFX&(entitywire.RenderFXFrameLerp|entitywire.RenderFXBeam) != 0 {
		t.Origin = current.Origin
		t.Angles = current.Angles
		t.Stepped = true
		return t
	}
	t.Origin = lerpVec(prev.Origin, current.Origin, lerpFrac)
	t.Angles = lerpAngleVec(prev.Angles, current.Angles, lerpFrac)
	return t
}

// ViewTransform is the per-render-frame local-player view pose.
type ViewTransform struct {
	Origin    [3]float32
	Angles    [3]float32
	KickAngle [3]float32
	Blend     [4]float32
	FOV       float32
	Teleported bool
}

// View interpolates the local player's view between two adjacent
// PlayerStates. Blend color never lerps — it snaps to current (§4.5).
func View(prev, current playerwire.State, lerpFrac float32) ViewTransform {
	var v ViewTransform
	v.Blend = current.Blend
	v.FOV = prev.FOV + lerpFrac*(current.FOV-prev.FOV)

	if axisDeltaExceeds(current.PM.Origin, prev.PM.Origin, teleportViewDistance) {
		v.Origin = current.PM.Origin
		v.Angles = current.ViewAngles
		v.KickAngle = current.KickAngles
		v.Teleported = true
		return v
	}

	v.Origin = lerpVec(prev.PM.Origin, current.PM.Origin, lerpFrac)
	v.Angles = lerpAngleVec(prev.ViewAngles, current.ViewAngles, lerpFrac)
	v.KickAngle = lerpVec(prev.KickAngles, current.KickAngles, lerpFrac)
	return v
}

// GunTransform is the view-weapon pose, added per SPEC_FULL §3 from the
// original's CL_AddViewWeapon (not named in the distilled spec, but
// present in the source this spec distills).
type GunTransform struct {
	Offset [3]float32
	Angles [3]float32
	Frame  int
}

// Gun interpolates the view-weapon offset/angles. When switching weapons
// (current.GunFrame == 0) the previous pose is treated as zero rather than
// blended from the old weapon's pose, matching the original's reset.
func Gun(prev, current playerwire.State, lerpFrac float32) GunTransform {
	prevOffset := prev.GunOffset
	prevAngles := prev.GunAngles
	if current.GunFrame == 0 {
		prevOffset = [3]float32{}
		prevAngles = [3]float32{}
	}
	return GunTransform{
		Offset: lerpVec(prevOffset, current.GunOffset, lerpFrac),
		Angles: lerpAngleVec(prevAngles, current.GunAngles, lerpFrac),
		Frame:  current.GunFrame,
	}
}

func axisDeltaExceeds(a, b [3]float32, threshold float64) bool {
	for i := 0; i < 3; i++ {
		d := float64(a[i]) - float64(b[i])
		if d < 0 {
			d = -d
		}
		if d > threshold {
			return true
		}
	}
	return false
}
