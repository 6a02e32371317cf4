package motionengine

import "time"

// HeaderPhase is a stage of a head-strike event, per §3/§4.4.
type HeaderPhase int

const (
	HeaderIdle HeaderPhase = iota
	HeaderPreparation
	HeaderContact
	HeaderRecovery
)

// HeaderType classifies a completed header, per §3/§4.4.
type HeaderType int

const (
	HeaderUnknown HeaderType = iota
	HeaderPower
	HeaderGliding
	HeaderFlickOn
	HeaderDefensiveClear
)

// HeaderThresholds are the tunable gates of the header FSM, per §4.4.
type HeaderThresholds struct {
	VPreparation         float64
	PreparationMinTime   time.Duration
	PreparationTimeout    time.Duration
	PreparationDecelFactor float64
	ContactDuration       time.Duration
	RecoveryDuration      time.Duration
	RecoveryIdleSpeed     float64
	GlidingLeanDeg        float64
	PowerSpeed            float64
}

// DefaultHeaderThresholds returns the values §4.4 documents.
func DefaultHeaderThresholds() HeaderThresholds {
	return HeaderThresholds{
		VPreparation:           1.0,
		PreparationMinTime:     150 * time.Millisecond,
		PreparationTimeout:     2 * time.Second,
		PreparationDecelFactor: 0.6,
		ContactDuration:        50 * time.Millisecond,
		RecoveryDuration:       300 * time.Millisecond,
		RecoveryIdleSpeed:      0.5,
		GlidingLeanDeg:         45,
		PowerSpeed:             2.5,
	}
}

// HeaderQuality is the biomechanical score vector for a completed header.
type HeaderQuality struct {
	HeadVelocityMps float64
	NeckAngleDeg    float64
	BodyAlignment   float64
	Timing          float64
	Power           float64
	Overall         float64
}

// HeaderResult is emitted at the end of Recovery, §3.
type HeaderResult struct {
	SequenceID  int
	Type        HeaderType
	Direction   Vec3
	TimestampUs int64
	Valid       bool
	Quality     HeaderQuality
}

// HeaderCallback receives a completed HeaderResult.
type HeaderCallback func(HeaderResult)

// HeaderDetector owns six joint histories and runs the header phase FSM.
type HeaderDetector struct {
	thresholds HeaderThresholds
	ids        *EventIDFactory
	callback   HeaderCallback

	head        *MotionHistory
	neck        *MotionHistory
	spineChest  *MotionHistory
	pelvis      *MotionHistory
	shoulderL   *MotionHistory
	shoulderR   *MotionHistory

	phase         HeaderPhase
	phaseStartUs  int64
	peakHeadSpeed float64
	priorSpeed    float64
	latchedDir    Vec3

	inCallback bool
}

// NewHeaderDetector creates a detector with default thresholds.
func NewHeaderDetector() *HeaderDetector {
	return NewHeaderDetectorWithThresholds(DefaultHeaderThresholds())
}

// NewHeaderDetectorWithThresholds creates a detector with explicit tuning.
func NewHeaderDetectorWithThresholds(t HeaderThresholds) *HeaderDetector {
	return &HeaderDetector{
		thresholds: t,
		ids:        NewEventIDFactory(),
		head:       NewMotionHistory(),
		neck:       NewMotionHistory(),
		spineChest: NewMotionHistory(),
		pelvis:     NewMotionHistory(),
		shoulderL:  NewMotionHistory(),
		shoulderR:  NewMotionHistory(),
		phase:      HeaderIdle,
	}
}

// SetHeaderCallback registers (or clears, with nil) the completion callback.
func (d *HeaderDetector) SetHeaderCallback(cb HeaderCallback) {
	d.callback = cb
}

// Reset immediately returns the FSM to Idle without emitting (§5). Legal
// from any phase; two calls in succession are equivalent to one (§8).
func (d *HeaderDetector) Reset() {
	d.reset()
}

func (d *HeaderDetector) reset() {
	d.phase = HeaderIdle
	d.phaseStartUs = 0
	d.peakHeadSpeed = 0
	d.priorSpeed = 0
	d.latchedDir = Vec3{}
}

// ProcessSkeleton ingests one pose, updates histories, and advances the
// FSM. Must not be called reentrantly from within a HeaderCallback (§5).
func (d *HeaderDetector) ProcessSkeleton(frame SkeletonFrame) {
	d.processSkeleton(frame)
}

func (d *HeaderDetector) processSkeleton(frame SkeletonFrame) {
	d.ingest(frame, JointHead, d.head)
	d.ingest(frame, JointNeck, d.neck)
	d.ingest(frame, JointSpineChest, d.spineChest)
	d.ingest(frame, JointPelvis, d.pelvis)
	d.ingest(frame, JointShoulderLeft, d.shoulderL)
	d.ingest(frame, JointShoulderRight, d.shoulderR)

	if d.inCallback {
		return
	}

	switch d.phase {
	case HeaderIdle:
		d.tryEnterPreparation(frame.TimestampUs)
	case HeaderPreparation:
		d.updatePreparation(frame.TimestampUs)
	case HeaderContact:
		d.updateContact(frame.TimestampUs)
	case HeaderRecovery:
		d.updateRecovery(frame.TimestampUs)
	}
}

func (d *HeaderDetector) ingest(frame SkeletonFrame, joint JointID, hist *MotionHistory) {
	sample, ok := frame.Get(joint)
	if !ok {
		return
	}
	hist.addFrame(sample.Position, sample.Timestamp, sample.Confidence)
}

func (d *HeaderDetector) tryEnterPreparation(nowUs int64) {
	if !d.head.hasEnoughData() {
		return
	}
	speed := d.head.getCurrentSpeed()
	v := d.head.getCurrentVelocity()
	if speed > d.thresholds.VPreparation && (v.Y > 0 || v.Z > 0) {
		d.phase = HeaderPreparation
		d.phaseStartUs = nowUs
		d.peakHeadSpeed = speed
		d.priorSpeed = speed
	}
}

func (d *HeaderDetector) updatePreparation(nowUs int64) {
	elapsed := elapsedSince(d.phaseStartUs, nowUs)
	if elapsed > d.thresholds.PreparationTimeout {
		d.reset()
		return
	}
	if !d.head.hasEnoughData() {
		return
	}
	speed := d.head.getCurrentSpeed()
	if speed > d.peakHeadSpeed {
		d.peakHeadSpeed = speed
	}

	if elapsed >= d.thresholds.PreparationMinTime &&
		d.priorSpeed > d.thresholds.VPreparation &&
		speed < d.thresholds.PreparationDecelFactor*d.priorSpeed {
		d.latchedDir = normalize(d.head.getAverageVelocity(3))
		d.phase = HeaderContact
		d.phaseStartUs = nowUs
	}
	d.priorSpeed = speed
}

func (d *HeaderDetector) updateContact(nowUs int64) {
	elapsed := elapsedSince(d.phaseStartUs, nowUs)
	if elapsed >= d.thresholds.ContactDuration {
		d.phase = HeaderRecovery
		d.phaseStartUs = nowUs
	}
}

func (d *HeaderDetector) updateRecovery(nowUs int64) {
	elapsed := elapsedSince(d.phaseStartUs, nowUs)
	speed := d.head.getCurrentSpeed()
	if elapsed >= d.thresholds.RecoveryDuration || speed < d.thresholds.RecoveryIdleSpeed {
		result := d.assembleResult(nowUs)
		d.reset()
		d.dispatch(result)
	}
}

// classify implements the header-type heuristic from §4.4.
func (d *HeaderDetector) classify() HeaderType {
	headPos, _ := d.head.getPosition(0)
	pelvisPos, _ := d.pelvis.getPosition(0)
	lean := angleBetweenDeg(headPos.Sub(pelvisPos), up)
	v := d.head.getCurrentVelocity()

	switch {
	case lean > d.thresholds.GlidingLeanDeg:
		return HeaderGliding
	case d.peakHeadSpeed >= d.thresholds.PowerSpeed && v.Y < 0:
		return HeaderPower
	case absF(v.X) > absF(v.Z):
		return HeaderFlickOn
	case v.Y > 0:
		return HeaderDefensiveClear
	default:
		return HeaderPower
	}
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// quality computes HeaderQuality per §4.4.
func (d *HeaderDetector) quality() HeaderQuality {
	headPos, _ := d.head.getPosition(0)
	neckPos, _ := d.neck.getPosition(0)
	chestPos, _ := d.spineChest.getPosition(0)
	pelvisPos, _ := d.pelvis.getPosition(0)

	neckAngle := jointAngleDeg(headPos, neckPos, chestPos)
	alignDir := normalize(chestPos.Sub(pelvisPos))
	alignment := (alignDir.Dot(d.latchedDir) + 1) * 50

	power := 100 * d.peakHeadSpeed / 4
	if power > 100 {
		power = 100
	}
	timing := 60.0
	if d.peakHeadSpeed > 1.5 {
		timing = 80.0
	}
	overall := 0.4*power + 0.3*timing + 0.3*alignment

	return HeaderQuality{
		HeadVelocityMps: d.peakHeadSpeed,
		NeckAngleDeg:    neckAngle,
		BodyAlignment:   alignment,
		Timing:          timing,
		Power:           power,
		Overall:         overall,
	}
}

func (d *HeaderDetector) assembleResult(nowUs int64) HeaderResult {
	return HeaderResult{
		SequenceID:  d.ids.Next(),
		Type:        d.classify(),
		Direction:   d.latchedDir,
		TimestampUs: nowUs,
		Valid:       true,
		Quality:     d.quality(),
	}
}

func (d *HeaderDetector) dispatch(result HeaderResult) {
	if d.callback == nil {
		return
	}
	d.inCallback = true
	defer func() { d.inCallback = false }()
	d.callback(result)
}
