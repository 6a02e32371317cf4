package motionengine

import "time"

// KickPhase is a stage of a ballistic leg strike, per §3/§4.2.
type KickPhase int

const (
	KickIdle KickPhase = iota
	KickWindUp
	KickAcceleration
	KickContact
	KickFollowThrough
)

// Foot identifies which leg a detector has selected as dominant.
type Foot int

const (
	FootUnknown Foot = iota
	FootLeft
	FootRight
)

// KickType classifies a completed kick, per §3/§4.3. KickAnalyzer's
// classification is authoritative (§9).
type KickType int

const (
	KickUnknown KickType = iota
	KickInstep
	KickSideFootPass
	KickOutside
	KickToe
	KickVolley
	KickHeader
)

// KickThresholds are the tunable gates of the kick FSM, defaults per §4.2.
type KickThresholds struct {
	VWindUp              float64       // m/s
	VAcceleration         float64       // m/s
	VIdle                 float64       // m/s
	MinWindUpTime         time.Duration
	MinAccelerationTime   time.Duration
	WindUpTimeout         time.Duration
	FollowThroughDuration time.Duration
	// DecelerationFactor and PriorSpeedFactor gate the Acceleration->Contact
	// transition (§9: "preserved as defaults but should be exposed as
	// tuning parameters").
	DecelerationFactor float64
	PriorSpeedFactor   float64
	// DominantFootHysteresis is the multiple a candidate foot's speed must
	// exceed the other's by before dominance switches (§4.2).
	DominantFootHysteresis float64
}

// DefaultKickThresholds returns the values §4.2 documents as defaults.
func DefaultKickThresholds() KickThresholds {
	return KickThresholds{
		VWindUp:                0.5,
		VAcceleration:           2.0,
		VIdle:                   0.3,
		MinWindUpTime:           200 * time.Millisecond,
		MinAccelerationTime:     100 * time.Millisecond,
		WindUpTimeout:           2 * time.Second,
		FollowThroughDuration:   300 * time.Millisecond,
		DecelerationFactor:      0.7,
		PriorSpeedFactor:        0.8,
		DominantFootHysteresis:  1.5,
	}
}

// KickQuality is the biomechanical score vector for a completed kick, §3.
type KickQuality struct {
	FootVelocityMps    float64
	BallSpeedKmh       float64
	PowerScore         float64
	DirectionAngleDeg  float64
	AccuracyScore      float64
	KneeAngleDeg       float64
	HipRotationDeg     float64
	FollowThroughM     float64
	TechniqueScore     float64
	BodyLeanDeg        float64
	BalanceScore       float64
	OverallScore       float64
}

// KickResult is emitted at the end of FollowThrough, §3.
type KickResult struct {
	SequenceID int
	Type       KickType
	Foot       Foot
	Direction  Vec3
	TimestampUs int64
	Valid      bool
	Quality    KickQuality
}

// KickCallback receives a completed KickResult. Must not call back into
// processSkeleton (§5, §9).
type KickCallback func(KickResult)

// KickDetector owns nine joint histories (plus a spine-chest history for
// balance scoring) and runs the kick phase FSM (§4.2). Grounded on the teacher's TrackedObject: a single-owner struct
// advancing an internal lifecycle frame by frame and firing a callback
// exactly once per completed cycle.
type KickDetector struct {
	thresholds KickThresholds
	ids        *EventIDFactory
	callback   KickCallback

	pelvis   *MotionHistory
	hipL     *MotionHistory
	hipR     *MotionHistory
	kneeL    *MotionHistory
	kneeR    *MotionHistory
	ankleL   *MotionHistory
	ankleR   *MotionHistory
	footL    *MotionHistory
	footR    *MotionHistory

	spineChest *MotionHistory

	dominant Foot

	phase               KickPhase
	phaseStartUs        int64
	peakFootSpeed       float64
	priorFootSpeed      float64
	latchedDir          Vec3
	contactFootPos      Vec3
	windUpStartUs       int64
	windUpDurationS     float64
	followThroughEndPos Vec3

	target    TargetZone
	hasTarget bool

	analyzer *KickAnalyzer

	inCallback bool
}

// NewKickDetector creates a detector with default thresholds.
func NewKickDetector() *KickDetector {
	return NewKickDetectorWithThresholds(DefaultKickThresholds())
}

// NewKickDetectorWithThresholds creates a detector with explicit tuning.
func NewKickDetectorWithThresholds(t KickThresholds) *KickDetector {
	return &KickDetector{
		thresholds: t,
		ids:        NewEventIDFactory(),
		pelvis:     NewMotionHistory(),
		hipL:       NewMotionHistory(),
		hipR:       NewMotionHistory(),
		kneeL:      NewMotionHistory(),
		kneeR:      NewMotionHistory(),
		ankleL:     NewMotionHistory(),
		ankleR:     NewMotionHistory(),
		footL:      NewMotionHistory(),
		footR:      NewMotionHistory(),
		spineChest: NewMotionHistory(),
		dominant:   FootUnknown,
		phase:      KickIdle,
		analyzer:   NewKickAnalyzer(),
	}
}

// SetTargetZone configures the accuracy target KickAnalyzer scores
// against (§4.3). A radius <= 0 is accepted and simply yields
// AccuracyScore 0, not an error. Optional: without a configured target,
// AccuracyScore is 0 and the rest of KickQuality is unaffected.
func (d *KickDetector) SetTargetZone(z TargetZone) {
	d.target = z
	d.hasTarget = true
}

// SetKickCallback registers (or clears, with nil) the completion
// callback. A nil callback is legal; events are then discarded (§7).
func (d *KickDetector) SetKickCallback(cb KickCallback) {
	d.callback = cb
}

// Reset immediately returns the FSM to Idle without emitting (§5). Legal
// from any phase; two calls in succession are equivalent to one (§8).
func (d *KickDetector) Reset() {
	d.reset()
}

func (d *KickDetector) reset() {
	d.phase = KickIdle
	d.phaseStartUs = 0
	d.peakFootSpeed = 0
	d.priorFootSpeed = 0
	d.latchedDir = Vec3{}
	d.contactFootPos = Vec3{}
}

// ankleHistory/footHistory return the dominant-side history, or nil if
// dominance hasn't been established yet.
func (d *KickDetector) ankleHistory() *MotionHistory {
	switch d.dominant {
	case FootLeft:
		return d.ankleL
	case FootRight:
		return d.ankleR
	default:
		return nil
	}
}

func (d *KickDetector) footHistory() *MotionHistory {
	switch d.dominant {
	case FootLeft:
		return d.footL
	case FootRight:
		return d.footR
	default:
		return nil
	}
}

func (d *KickDetector) kneeHistory() *MotionHistory {
	switch d.dominant {
	case FootLeft:
		return d.kneeL
	case FootRight:
		return d.kneeR
	default:
		return nil
	}
}

func (d *KickDetector) hipHistory() *MotionHistory {
	switch d.dominant {
	case FootLeft:
		return d.hipL
	case FootRight:
		return d.hipR
	default:
		return nil
	}
}

// updateDominantFoot compares current foot speeds with hysteresis (§4.2).
func (d *KickDetector) updateDominantFoot() {
	lSpeed := d.footL.getCurrentSpeed()
	rSpeed := d.footR.getCurrentSpeed()
	h := d.thresholds.DominantFootHysteresis

	switch {
	case rSpeed > h*lSpeed && rSpeed > 0:
		d.dominant = FootRight
	case lSpeed > h*rSpeed && lSpeed > 0:
		d.dominant = FootLeft
	}
	// otherwise keep the prior choice (hysteresis)
}

// ProcessSkeleton ingests one pose, updates histories, and advances the
// FSM. Must not be called reentrantly from within a KickCallback (§5).
func (d *KickDetector) ProcessSkeleton(frame SkeletonFrame) {
	d.processSkeleton(frame)
}

func (d *KickDetector) processSkeleton(frame SkeletonFrame) {
	d.ingest(frame, JointPelvis, d.pelvis)
	d.ingest(frame, JointHipLeft, d.hipL)
	d.ingest(frame, JointHipRight, d.hipR)
	d.ingest(frame, JointKneeLeft, d.kneeL)
	d.ingest(frame, JointKneeRight, d.kneeR)
	d.ingest(frame, JointAnkleLeft, d.ankleL)
	d.ingest(frame, JointAnkleRight, d.ankleR)
	d.ingest(frame, JointFootLeft, d.footL)
	d.ingest(frame, JointFootRight, d.footR)
	d.ingest(frame, JointSpineChest, d.spineChest)

	d.updateDominantFoot()

	if d.inCallback {
		return
	}

	switch d.phase {
	case KickIdle:
		d.tryEnterWindUp(frame.TimestampUs)
	case KickWindUp:
		d.updateWindUp(frame.TimestampUs)
	case KickAcceleration:
		d.updateAcceleration(frame.TimestampUs)
	case KickContact:
		d.updateContact(frame.TimestampUs)
	case KickFollowThrough:
		d.updateFollowThrough(frame.TimestampUs)
	}
}

func (d *KickDetector) ingest(frame SkeletonFrame, joint JointID, hist *MotionHistory) {
	sample, ok := frame.Get(joint)
	if !ok {
		return
	}
	hist.addFrame(sample.Position, sample.Timestamp, sample.Confidence)
}

func (d *KickDetector) tryEnterWindUp(nowUs int64) {
	ankle := d.ankleHistory()
	if ankle == nil || !ankle.hasEnoughData() {
		return
	}
	speed := ankle.getCurrentSpeed()
	v := ankle.getCurrentVelocity()
	if speed > d.thresholds.VWindUp && v.Z < 0 {
		d.phase = KickWindUp
		d.phaseStartUs = nowUs
		d.windUpStartUs = nowUs
		d.peakFootSpeed = 0
	}
}

func (d *KickDetector) updateWindUp(nowUs int64) {
	elapsed := elapsedSince(d.phaseStartUs, nowUs)
	if elapsed > d.thresholds.WindUpTimeout {
		d.reset()
		return
	}

	foot := d.footHistory()
	if foot == nil || !foot.hasEnoughData() {
		return
	}
	speed := foot.getCurrentSpeed()
	v := foot.getCurrentVelocity()
	if elapsed >= d.thresholds.MinWindUpTime && speed > d.thresholds.VAcceleration && v.Z > 0 {
		d.windUpDurationS = float64(nowUs-d.windUpStartUs) / 1e6
		d.phase = KickAcceleration
		d.phaseStartUs = nowUs
		d.priorFootSpeed = speed
	}
}

func (d *KickDetector) updateAcceleration(nowUs int64) {
	foot := d.footHistory()
	if foot == nil || !foot.hasEnoughData() {
		return
	}
	speed := foot.getCurrentSpeed()
	if speed > d.peakFootSpeed {
		d.peakFootSpeed = speed
	}

	elapsed := elapsedSince(d.phaseStartUs, nowUs)
	t := d.thresholds
	if elapsed >= t.MinAccelerationTime &&
		d.priorFootSpeed > t.PriorSpeedFactor*t.VAcceleration &&
		speed < t.DecelerationFactor*d.priorFootSpeed {
		d.latchedDir = normalize(foot.getAverageVelocity(3))
		if pos, ok := foot.getPosition(0); ok {
			d.contactFootPos = pos
		}
		d.phase = KickContact
		d.phaseStartUs = nowUs
	}
	d.priorFootSpeed = speed
}

func (d *KickDetector) updateContact(nowUs int64) {
	foot := d.footHistory()
	if foot == nil || !foot.hasEnoughData() {
		return
	}
	v := foot.getCurrentVelocity()
	speed := foot.getCurrentSpeed()
	if v.Z > 0 && speed < d.thresholds.VAcceleration {
		d.phase = KickFollowThrough
		d.phaseStartUs = nowUs
	}
}

func (d *KickDetector) updateFollowThrough(nowUs int64) {
	elapsed := elapsedSince(d.phaseStartUs, nowUs)
	if elapsed >= d.thresholds.FollowThroughDuration {
		if foot := d.footHistory(); foot != nil {
			if pos, ok := foot.getPosition(0); ok {
				d.followThroughEndPos = pos
			}
		}
		result := d.assembleResult(nowUs)
		d.reset()
		d.dispatch(result)
	}
}

// assembleResult builds the provisional KickResult per §4.2 and then runs
// it through KickAnalyzer.Analyze (§4.3) for the refined Quality and the
// authoritative Type (§9) before the callback ever sees it.
func (d *KickDetector) assembleResult(nowUs int64) KickResult {
	var hipOpposite *MotionHistory
	switch d.dominant {
	case FootLeft:
		hipOpposite = d.hipR
	case FootRight:
		hipOpposite = d.hipL
	}

	in := AnalyzeInput{
		Ankle:               d.ankleHistory(),
		Foot:                d.footHistory(),
		Knee:                d.kneeHistory(),
		Hip:                 d.hipHistory(),
		Pelvis:              d.pelvis,
		HipOpposite:         hipOpposite,
		SpineChest:          d.spineChest,
		PeakFootSpeedMps:    d.peakFootSpeed,
		LatchedDirection:    d.latchedDir,
		ContactFootPos:      d.contactFootPos,
		FollowThroughEndPos: d.followThroughEndPos,
		WindUpDuration:      d.windUpDurationS,
		TargetZoneCenter:    d.target.CenterM,
		HasTarget:           d.hasTarget && d.target.RadiusM > 0,
	}
	kickType, quality := d.analyzer.Analyze(in)

	return KickResult{
		SequenceID:  d.ids.Next(),
		Type:        kickType,
		Foot:        d.dominant,
		Direction:   d.latchedDir,
		TimestampUs: nowUs,
		Valid:       true,
		Quality:     quality,
	}
}

func (d *KickDetector) dispatch(result KickResult) {
	if d.callback == nil {
		return
	}
	d.inCallback = true
	defer func() { d.inCallback = false }()
	d.callback(result)
}

// elapsedSince returns the duration between two microsecond timestamps,
// clamped to zero for non-positive deltas.
func elapsedSince(startUs, nowUs int64) time.Duration {
	if nowUs <= startUs {
		return 0
	}
	return time.Duration(nowUs-startUs) * time.Microsecond
}
