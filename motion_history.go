package motionengine

import (
	"github.com/kickvision/motion-engine/internal/filterpy"
	"gonum.org/v1/gonum/mat"
)

// MotionHistoryCapacity is the fixed ring-buffer size for a MotionHistory,
// per §3 ("capacity 30, oldest-first").
const MotionHistoryCapacity = 30

// SmoothingMode selects whether a MotionHistory smooths incoming
// positions with a Kalman filter before storing them, per SPEC_FULL.md
// §11's adaptation of the teacher's FilterPyKalmanFilterFactory to
// per-joint smoothing.
type SmoothingMode int

const (
	RawHistory SmoothingMode = iota
	SmoothedHistory
)

// MotionHistory is a bounded per-joint FIFO of JointSamples supporting
// velocity/acceleration derivative queries, per §4.1. Low-confidence
// samples (confidence < 0.5) are stored (keeping the buffer's temporal
// window stable, per §3) but are excluded from every derivative query.
//
// Eviction mirrors the teacher's conditionallyAddToPastDetections: once
// the buffer is full, the oldest sample is dropped to make room for the
// newest, the same bounded-FIFO shape TrackedObject used for
// PastDetections.
type MotionHistory struct {
	samples []JointSample // oldest first, len <= MotionHistoryCapacity

	mode   SmoothingMode
	filter *filterpy.KalmanFilter // non-nil only when mode == SmoothedHistory
}

// NewMotionHistory creates an empty history in RawHistory mode.
func NewMotionHistory() *MotionHistory {
	return &MotionHistory{mode: RawHistory}
}

// NewSmoothedMotionHistory creates an empty history that smooths each
// incoming position with a per-joint Kalman filter (position+velocity
// state, dimZ=3) before it is stored, adapted from
// FilterPyKalmanFilterFactory.CreateFilter in the teacher.
func NewSmoothedMotionHistory(rMult, qMult, pMult float64) *MotionHistory {
	return &MotionHistory{mode: SmoothedHistory, filter: newJointKalmanFilter(rMult, qMult, pMult)}
}

// newJointKalmanFilter builds a constant-velocity Kalman filter over a
// single 3D point (dimZ=3, dimX=6), the same F/H/R/Q wiring
// FilterPyKalmanFilterFactory used for a flattened detection, specialized
// to one joint instead of numPoints*dimPoints.
func newJointKalmanFilter(rMult, qMult, pMult float64) *filterpy.KalmanFilter {
	const dimZ = 3
	const dimX = 2 * dimZ
	kf := filterpy.NewKalmanFilter(dimX, dimZ)

	F := kf.GetF()
	for i := 0; i < dimX; i++ {
		F.Set(i, i, 1.0)
	}
	const dt = 1.0
	for i := 0; i < dimZ; i++ {
		F.Set(i, dimZ+i, dt)
	}

	H := kf.GetH()
	for i := 0; i < dimZ; i++ {
		H.Set(i, i, 1.0)
	}

	R := kf.GetR()
	for i := 0; i < dimZ; i++ {
		R.Set(i, i, rMult)
	}

	Q := kf.GetQ()
	for i := 0; i < dimX; i++ {
		Q.Set(i, i, 1.0)
	}
	for i := dimZ; i < dimX; i++ {
		Q.Set(i, i, Q.At(i, i)*qMult)
	}

	P := kf.GetP()
	for i := 0; i < dimZ; i++ {
		P.Set(i, i, pMult)
	}

	return kf
}

// addFrame appends a sample, smoothing it first if configured, evicting
// the oldest sample if the buffer is full. Out-of-order timestamps
// (strictly less than the last stored one) are dropped per §7.
func (h *MotionHistory) addFrame(position Vec3, timestamp int64, confidence Confidence) {
	if n := len(h.samples); n > 0 && timestamp < h.samples[n-1].Timestamp {
		WarnOnce("motionengine: dropped out-of-order joint sample")
		return
	}

	if h.mode == SmoothedHistory {
		position = h.smooth(position)
	}

	sample := JointSample{Position: position, Timestamp: timestamp, Confidence: confidence}
	if len(h.samples) >= MotionHistoryCapacity {
		h.samples = h.samples[1:]
	}
	h.samples = append(h.samples, sample)
}

func (h *MotionHistory) smooth(position Vec3) Vec3 {
	z := mat.NewDense(3, 1, []float64{position.X, position.Y, position.Z})
	h.filter.Predict()
	h.filter.Update(z, nil, nil)
	state := h.filter.GetState()
	return Vec3{X: state.At(0, 0), Y: state.At(1, 0), Z: state.At(2, 0)}
}

// clear resets the history to empty.
func (h *MotionHistory) clear() {
	h.samples = nil
}

// size returns the number of stored samples (including low-confidence
// ones), the same count hasEnoughData and getPosition's bounds check use.
func (h *MotionHistory) size() int {
	return len(h.samples)
}

// hasEnoughData reports whether at least three samples are present.
func (h *MotionHistory) hasEnoughData() bool {
	return len(h.samples) >= 3
}

// getPosition returns the position k samples back (0 = most recent).
// ok is false when k is out of range.
func (h *MotionHistory) getPosition(k int) (Vec3, bool) {
	idx := len(h.samples) - 1 - k
	if k < 0 || idx < 0 {
		return Vec3{}, false
	}
	return h.samples[idx].Position, true
}

// validSamples returns the subset of stored samples that clear the
// confidence gate, oldest first, the set every derivative query below
// draws from per §3/§4.1.
func (h *MotionHistory) validSamples() []JointSample {
	valid := make([]JointSample, 0, len(h.samples))
	for _, s := range h.samples {
		if s.valid() {
			valid = append(valid, s)
		}
	}
	return valid
}

// interFrameVelocity computes the velocity (m/s) between two samples,
// scaling mm -> m and us -> s. A non-positive time delta yields zero
// velocity rather than dividing by zero.
func interFrameVelocity(prev, cur JointSample) Vec3 {
	dtUs := cur.Timestamp - prev.Timestamp
	if dtUs <= 0 {
		return Vec3{}
	}
	dtS := float64(dtUs) / 1e6
	delta := cur.Position.Sub(prev.Position).Scale(mmToM)
	return delta.Scale(1.0 / dtS)
}

// velocities returns the inter-frame velocity for every consecutive pair
// of valid samples, oldest-ending first.
func (h *MotionHistory) velocities() []Vec3 {
	valid := h.validSamples()
	if len(valid) < 2 {
		return nil
	}
	vs := make([]Vec3, 0, len(valid)-1)
	for i := 1; i < len(valid); i++ {
		vs = append(vs, interFrameVelocity(valid[i-1], valid[i]))
	}
	return vs
}

// getCurrentVelocity returns (p_last - p_prev)/dt in m/s over the two
// most recent valid samples; zero if fewer than two are available.
func (h *MotionHistory) getCurrentVelocity() Vec3 {
	vs := h.velocities()
	if len(vs) == 0 {
		return Vec3{}
	}
	return vs[len(vs)-1]
}

// getCurrentSpeed returns the magnitude of getCurrentVelocity.
func (h *MotionHistory) getCurrentSpeed() float64 {
	return magnitude(h.getCurrentVelocity())
}

// getCurrentAcceleration returns (v_last - v_prev)/dt; zero if fewer
// than three valid samples are available.
func (h *MotionHistory) getCurrentAcceleration() Vec3 {
	valid := h.validSamples()
	vs := h.velocities()
	if len(vs) < 2 {
		return Vec3{}
	}
	dtUs := valid[len(valid)-1].Timestamp - valid[len(valid)-2].Timestamp
	if dtUs <= 0 {
		return Vec3{}
	}
	dtS := float64(dtUs) / 1e6
	dv := vs[len(vs)-1].Sub(vs[len(vs)-2])
	return dv.Scale(1.0 / dtS)
}

// getVelocity returns the velocity k valid inter-frame gaps back (0 is
// most recent); ok is false when k is out of range.
func (h *MotionHistory) getVelocity(k int) (Vec3, bool) {
	vs := h.velocities()
	idx := len(vs) - 1 - k
	if k < 0 || idx < 0 {
		return Vec3{}, false
	}
	return vs[idx], true
}

// getAverageVelocity averages the last n valid inter-frame velocities,
// used to latch kick/header direction (§4.2, §4.4).
func (h *MotionHistory) getAverageVelocity(n int) Vec3 {
	vs := h.velocities()
	if len(vs) == 0 || n <= 0 {
		return Vec3{}
	}
	if n > len(vs) {
		n = len(vs)
	}
	return meanVelocity(vs[len(vs)-n:])
}

// getPeakSpeed returns the maximum speed observed across the current
// stored window.
func (h *MotionHistory) getPeakSpeed() float64 {
	peak := 0.0
	for _, v := range h.velocities() {
		if s := magnitude(v); s > peak {
			peak = s
		}
	}
	return peak
}
