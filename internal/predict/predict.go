// Package predict runs the local player's movement physics forward from
// the last server-confirmed command, reconciling against the server's
// authoritative origin once it catches up (spec's Predictor).
package predict

import (
	"github.com/ernie/q2netcore/internal/config"
	"github.com/ernie/q2netcore/internal/playerwire"
)

// CommandRingSize bounds how many unacknowledged commands can be replayed;
// large enough to cover several seconds of commands at typical net rates.
const CommandRingSize = 256

// UserCmd is one client movement command (the original's user_command_t).
type UserCmd struct {
	Forward, Side, Up float32
	ViewAngles        [3]float32
	Buttons           uint8
	MsecDelta         uint8
}

// MoveFunc is the shared movement physics the Predictor replays commands
// through. Movement physics itself is server-side game logic and explicitly
// out of scope (§1); the Predictor only orchestrates replay and
// reconciliation around an injected mover.
type MoveFunc func(state playerwire.PMove, cmd UserCmd) playerwire.PMove

// stairStepThreshold is the minimum upward vertical displacement (world
// units) within one command that triggers stair-step smoothing.
const stairStepThreshold = 4

// reconcileWindowMs is the window over which a recorded stair step's view
// offset decays to zero (see StairOffset).
const reconcileWindowMs = 100

type Predictor struct {
	move MoveFunc

	cmds       [CommandRingSize]UserCmd
	haveCmd    [CommandRingSize]bool
	originAt   [CommandRingSize][3]float32 // predicted origin immediately after replaying seq
	lastSeq    int

	predictedOrigin [3]float32
	predictedAngles [3]float32

	predictedStep     float32
	predictedStepTime int64 // ms, set when a step was detected

	predictionError [3]float32

	// Disabled mirrors the "no-prediction" PlayerState flag (§4.6): when
	// true, callers should use Interpolator output raw instead of Predict.
	Disabled bool
}

// NewPredictor builds a Predictor driven by move, honoring cfg's cl_predict
// cvar (§6): when cfg disables prediction, Disabled starts true so callers
// fall back to raw Interpolator output. cfg may be nil, defaulting to
// prediction enabled.
func NewPredictor(move MoveFunc, cfg *config.Config) *Predictor {
	p := &Predictor{move: move}
	if cfg != nil {
		p.Disabled = !cfg.Predict()
	}
	return p
}

func slot(seq int) int {
	s := seq % CommandRingSize
	if s < 0 {
		s += CommandRingSize
	}
	return s
}

// RecordCommand stores a command at sequence number seq for later replay.
func (p *Predictor) RecordCommand(seq int, cmd UserCmd) {
	p.cmds[slot(seq)] = cmd
	p.haveCmd[slot(seq)] = true
	if seq > p.lastSeq {
		p.lastSeq = seq
	}
}

// Predict replays every command after fromSeq (the last server-confirmed
// command) through toSeq (usually the most recently recorded command)
// starting from confirmed, updating predicted origin/angles and detecting
// stair steps. nowMs stamps any stair step discovered during this replay.
func (p *Predictor) Predict(fromSeq, toSeq int, confirmed playerwire.PMove, nowMs int64) (origin, angles [3]float32) {
	state := confirmed
	for seq := fromSeq + 1; seq <= toSeq; seq++ {
		s := slot(seq)
		if !p.haveCmd[s] {
			continue
		}
		cmd := p.cmds[s]
		before := state.Origin
		state = p.move(state, cmd)
		dz := state.Origin[2] - before[2]
		if dz > stairStepThreshold {
			p.predictedStep = dz
			p.predictedStepTime = nowMs
		}
		p.originAt[s] = state.Origin
		angles = cmd.ViewAngles
	}
	p.predictedOrigin = state.Origin
	p.predictedAngles = angles
	return state.Origin, angles
}

// Reconcile compares the origin predicted at confirmedSeq against the
// server's authoritative origin for that same command, producing
// prediction_error to be absorbed over the next render interval.
func (p *Predictor) Reconcile(confirmedSeq int, serverOrigin [3]float32) {
	s := slot(confirmedSeq)
	if !p.haveCmd[s] {
		return
	}
	predictedAtSeq := p.originAt[s]
	for i := 0; i < 3; i++ {
		p.predictionError[i] = predictedAtSeq[i] - serverOrigin[i]
	}
}

// StairOffset returns the z-axis smoothing contribution to subtract from
// the view at time nowMs, decaying linearly to zero over
// reconcileWindowMs after a step was recorded.
func (p *Predictor) StairOffset(nowMs int64) float32 {
	if p.predictedStepTime == 0 {
		return 0
	}
	dt := nowMs - p.predictedStepTime
	if dt < 0 || dt >= reconcileWindowMs {
		return 0
	}
	return p.predictedStep * float32(reconcileWindowMs-dt) / reconcileWindowMs
}

// ViewOrigin is the final render-facing view origin: predicted origin plus
// view offset, minus the backlerp-scaled prediction error (absorbed evenly
// over one render interval) and the stair-step smoothing contribution.
func (p *Predictor) ViewOrigin(viewOffset [3]float32, backlerp float32, nowMs int64) [3]float32 {
	var out [3]float32
	for i := 0; i < 3; i++ {
		out[i] = p.predictedOrigin[i] + viewOffset[i] - backlerp*p.predictionError[i]
	}
	out[2] -= p.StairOffset(nowMs)
	return out
}

// PredictedOrigin and PredictedAngles expose the latest replay result.
func (p *Predictor) PredictedOrigin() [3]float32 { return p.predictedOrigin }
func (p *Predictor) PredictedAngles() [3]float32 { return p.predictedAngles }
func (p *Predictor) PredictionError() [3]float32 { return p.predictionError }
