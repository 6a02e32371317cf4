package motionengine

import "math"

// KickAnalyzerConfig holds the tunable constants §4.3 names as defaults.
type KickAnalyzerConfig struct {
	MaxBallSpeedKmh    float64
	AccuracyMaxAngleDeg float64
	IdealKneeAngleDeg  float64
	KneeAngleToleranceDeg float64
	MaxHipRotationDeg  float64
	FollowThroughMaxM  float64
	InstepKneeAngleMaxDeg float64
	ToeWindUpMax       float64
	SideFootLateralDominance float64
}

// DefaultKickAnalyzerConfig returns the constants documented in §4.3.
func DefaultKickAnalyzerConfig() KickAnalyzerConfig {
	return KickAnalyzerConfig{
		MaxBallSpeedKmh:          120,
		AccuracyMaxAngleDeg:      45,
		IdealKneeAngleDeg:        135,
		KneeAngleToleranceDeg:    45,
		MaxHipRotationDeg:        90,
		FollowThroughMaxM:        0.8,
		InstepKneeAngleMaxDeg:    110,
		ToeWindUpMax:             0.25, // seconds
		SideFootLateralDominance: 1.0,
	}
}

// KickAnalyzer refines a provisional KickResult with biomechanical
// scoring and type classification, per §4.3. Stateless aside from config;
// one instance may analyze any number of kicks.
type KickAnalyzer struct {
	cfg KickAnalyzerConfig
}

// NewKickAnalyzer creates an analyzer with default constants.
func NewKickAnalyzer() *KickAnalyzer {
	return &KickAnalyzer{cfg: DefaultKickAnalyzerConfig()}
}

// NewKickAnalyzerWithConfig creates an analyzer with explicit tuning.
func NewKickAnalyzerWithConfig(cfg KickAnalyzerConfig) *KickAnalyzer {
	return &KickAnalyzer{cfg: cfg}
}

// AnalyzeInput is everything the analyzer needs from a just-completed
// kick to refine it: the dominant-side histories at the moment
// FollowThrough closed, plus the contact-entry/exit foot positions and
// windup duration the detector observed.
type AnalyzeInput struct {
	Ankle  *MotionHistory
	Foot   *MotionHistory
	Knee   *MotionHistory
	Hip    *MotionHistory
	Pelvis *MotionHistory

	HipOpposite *MotionHistory // the non-dominant hip, for hip-rotation vector
	SpineChest  *MotionHistory

	PeakFootSpeedMps   float64
	LatchedDirection   Vec3
	ContactFootPos     Vec3
	FollowThroughEndPos Vec3
	WindUpDuration     float64 // seconds
	TargetZoneCenter   Vec3    // meters; zero value means "no target configured"
	HasTarget          bool
}

// Analyze produces a refined KickQuality and kick-type classification.
func (a *KickAnalyzer) Analyze(in AnalyzeInput) (KickType, KickQuality) {
	q := KickQuality{}

	q.FootVelocityMps = in.PeakFootSpeedMps
	q.BallSpeedKmh = in.PeakFootSpeedMps * mpsToKmh
	q.PowerScore = 100 * math.Min(1, q.BallSpeedKmh/a.cfg.MaxBallSpeedKmh)

	q.AccuracyScore, q.DirectionAngleDeg = a.accuracy(in)

	kneeAngle, hipRotation, followThrough, technique := a.technique(in)
	q.KneeAngleDeg = kneeAngle
	q.HipRotationDeg = hipRotation
	q.FollowThroughM = followThrough
	q.TechniqueScore = technique

	q.BodyLeanDeg, q.BalanceScore = a.balance(in)

	q.OverallScore = 0.30*q.PowerScore + 0.25*q.AccuracyScore + 0.25*q.TechniqueScore + 0.20*q.BalanceScore

	kickType := a.classifyKickType(in, kneeAngle)
	return kickType, q
}

func (a *KickAnalyzer) accuracy(in AnalyzeInput) (score, angleDeg float64) {
	if !in.HasTarget {
		return 0, 0
	}
	footPos := in.ContactFootPos.Scale(mmToM)
	ideal := normalize(in.TargetZoneCenter.Sub(footPos))
	angle := angleBetweenDeg(ideal, in.LatchedDirection)
	score = 100 * math.Max(0, 1-angle/a.cfg.AccuracyMaxAngleDeg)
	return score, angle
}

func (a *KickAnalyzer) technique(in AnalyzeInput) (kneeAngle, hipRotation, followThroughM, technique float64) {
	if in.Hip != nil && in.Knee != nil && in.Ankle != nil {
		hipPos, _ := in.Hip.getPosition(0)
		kneePos, _ := in.Knee.getPosition(0)
		anklePos, _ := in.Ankle.getPosition(0)
		kneeAngle = jointAngleDeg(hipPos, kneePos, anklePos)
	}
	kneeScore := 100 * math.Max(0, 1-math.Abs(kneeAngle-a.cfg.IdealKneeAngleDeg)/a.cfg.KneeAngleToleranceDeg)

	if in.Hip != nil && in.HipOpposite != nil {
		hipPos, _ := in.Hip.getPosition(0)
		oppPos, _ := in.HipOpposite.getPosition(0)
		hipVec := hipPos.Sub(oppPos)
		rotation := angleBetweenDeg(hipVec, cameraX)
		if rotation > a.cfg.MaxHipRotationDeg {
			rotation = a.cfg.MaxHipRotationDeg
		}
		hipRotation = rotation
	}
	hipScore := 100 * hipRotation / a.cfg.MaxHipRotationDeg

	followThroughM = magnitude(in.FollowThroughEndPos.Sub(in.ContactFootPos)) * mmToM
	ftScore := 100 * math.Min(1, followThroughM/a.cfg.FollowThroughMaxM)

	technique = (kneeScore + hipScore + ftScore) / 3
	return kneeAngle, hipRotation, followThroughM, technique
}

func (a *KickAnalyzer) balance(in AnalyzeInput) (leanDeg, score float64) {
	if in.Pelvis == nil || in.SpineChest == nil {
		return 0, 100
	}
	pelvisPos, _ := in.Pelvis.getPosition(0)
	chestPos, _ := in.SpineChest.getPosition(0)
	leanDeg = angleBetweenDeg(chestPos.Sub(pelvisPos), up)
	score = 100 * math.Max(0, 1-leanDeg/45)
	return leanDeg, score
}

// classifyKickType implements the heuristic from §4.3. This is the
// authoritative classification; the detector's placeholder is a default
// only (§9).
func (a *KickAnalyzer) classifyKickType(in AnalyzeInput, kneeAngle float64) KickType {
	v := in.LatchedDirection

	pelvisHeight, kneeHeight, footHeight := 0.0, 0.0, 0.0
	if in.Pelvis != nil {
		if p, ok := in.Pelvis.getPosition(0); ok {
			pelvisHeight = p.Y
		}
	}
	if in.Knee != nil {
		if p, ok := in.Knee.getPosition(0); ok {
			kneeHeight = p.Y
		}
	}
	if in.Foot != nil {
		if p, ok := in.Foot.getPosition(0); ok {
			footHeight = p.Y
		}
	}

	switch {
	case kneeAngle < a.cfg.InstepKneeAngleMaxDeg && in.PeakFootSpeedMps > 2.0:
		return KickInstep
	case math.Abs(v.X) > math.Abs(v.Z)*a.cfg.SideFootLateralDominance:
		return KickSideFootPass
	case a.isOutsideFoot(in):
		return KickOutside
	case in.WindUpDuration < a.cfg.ToeWindUpMax && in.PeakFootSpeedMps > 1.0 && in.PeakFootSpeedMps < 3.0:
		return KickToe
	case pelvisHeight > seatedRestHeightMM+200 && footHeight > kneeHeight:
		return KickVolley
	default:
		return KickInstep
	}
}

// isOutsideFoot detects ankle-vs-hip lateral offset beyond a threshold
// (§4.3's "outer rotation" heuristic).
func (a *KickAnalyzer) isOutsideFoot(in AnalyzeInput) bool {
	if in.Ankle == nil || in.Hip == nil {
		return false
	}
	anklePos, ok1 := in.Ankle.getPosition(0)
	hipPos, ok2 := in.Hip.getPosition(0)
	if !ok1 || !ok2 {
		return false
	}
	return math.Abs(anklePos.X-hipPos.X) > outsideFootOffsetMM
}

// seatedRestHeightMM and outsideFootOffsetMM are supporting constants for
// the volley/outside-foot heuristics, which §4.3 describes qualitatively
// ("seated rest + 20cm", "threshold") without fixing a number.
const (
	seatedRestHeightMM  = 500.0
	outsideFootOffsetMM = 150.0
)
