package motionengine

import (
	"testing"

	"github.com/kickvision/motion-engine/internal/testutil"
)

func historyAt(pos Vec3) *MotionHistory {
	h := NewMotionHistory()
	h.addFrame(pos, 0, ConfidenceHigh)
	return h
}

func TestKickAnalyzer_OverallScoreFormula(t *testing.T) {
	a := NewKickAnalyzer()
	in := AnalyzeInput{
		Ankle:               historyAt(Vec3{Y: 400}),
		Foot:                historyAt(Vec3{Y: 100}),
		Knee:                historyAt(Vec3{Y: 500}),
		Hip:                 historyAt(Vec3{Y: 900, X: 100}),
		HipOpposite:         historyAt(Vec3{Y: 900, X: -100}),
		Pelvis:              historyAt(Vec3{Y: 950}),
		SpineChest:          historyAt(Vec3{Y: 1300}),
		PeakFootSpeedMps:    8.0,
		LatchedDirection:    Vec3{Z: 1},
		ContactFootPos:      Vec3{Z: 100},
		FollowThroughEndPos: Vec3{Z: 600},
		WindUpDuration:      0.4,
		TargetZoneCenter:    Vec3{Z: 5},
		HasTarget:           true,
	}
	_, q := a.Analyze(in)

	for _, s := range []float64{q.PowerScore, q.AccuracyScore, q.TechniqueScore, q.BalanceScore} {
		if s < 0 || s > 100 {
			t.Fatalf("sub-score out of [0,100]: %v", s)
		}
	}
	want := 0.30*q.PowerScore + 0.25*q.AccuracyScore + 0.25*q.TechniqueScore + 0.20*q.BalanceScore
	testutil.AssertAlmostEqual(t, q.OverallScore, want, 1e-9, "OverallScore")
}

func TestKickAnalyzer_AccuracyOnTarget(t *testing.T) {
	a := NewKickAnalyzer()
	in := AnalyzeInput{
		LatchedDirection: Vec3{Z: 1},
		ContactFootPos:   Vec3{},
		TargetZoneCenter: Vec3{Z: 5},
		HasTarget:        true,
	}
	score, angle := a.accuracy(in)
	testutil.AssertAlmostEqual(t, angle, 0, 1e-6, "angle for perfectly aligned direction")
	testutil.AssertAlmostEqual(t, score, 100, 1e-6, "score for perfectly aligned direction")
}

func TestKickAnalyzer_NoTargetZeroAccuracy(t *testing.T) {
	a := NewKickAnalyzer()
	score, _ := a.accuracy(AnalyzeInput{HasTarget: false})
	if score != 0 {
		t.Fatalf("score = %v, want 0 with no target configured", score)
	}
}
