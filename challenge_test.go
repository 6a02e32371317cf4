package motionengine

import "testing"

// kickTowards builds a KickResult whose direction projects onto zone z's
// grid cell center: goalGrid.project scales direction.X/Y by
// goalPlaneZ/direction.Z and re-centers Y, so this inverts that mapping.
func kickTowards(z GoalZone) KickResult {
	const scale = goalPlaneZ // direction.Z == 1
	dir := Vec3{
		X: sharedGoalGrid.centers[z][0] / scale,
		Y: (sharedGoalGrid.centers[z][1] - goalHeightM/2) / scale,
		Z: 1,
	}
	return KickResult{
		Valid:     true,
		Direction: normalize(dir),
		Quality:   KickQuality{BallSpeedKmh: 50, FootVelocityMps: 50 / mpsToKmh},
	}
}

func TestChallengeCore_AccuracyGridCompletion(t *testing.T) {
	cfg := DefaultChallengeConfig()
	c := NewChallengeCore(ChallengeAccuracyVariant, cfg)
	c.Begin(0)

	for z := GoalZone(0); z < numGoalZones; z++ {
		c.ProcessKick(kickTowards(z), int64(z)*100)
	}

	if c.State() != ChallengeComplete {
		t.Fatalf("state = %v, want Complete after all 9 zones hit", c.State())
	}
	r := c.Result()
	if r.SuccessCount != 9 {
		t.Fatalf("SuccessCount = %d, want 9", r.SuccessCount)
	}
	if r.Accuracy != 1.0 {
		t.Fatalf("Accuracy = %v, want 1.0", r.Accuracy)
	}
	if r.Grade != GradeS {
		t.Fatalf("Grade = %v, want S", r.Grade)
	}
}

func TestChallengeCore_PowerTierBonus(t *testing.T) {
	cfg := DefaultChallengeConfig()
	cfg.MaxAttempts = 1
	c := NewChallengeCore(ChallengePowerVariant, cfg)
	c.Begin(0)

	c.ProcessKick(KickResult{Valid: true, Quality: KickQuality{BallSpeedKmh: 125, FootVelocityMps: 125 / mpsToKmh}}, 100)

	if c.State() != ChallengeComplete {
		t.Fatalf("state = %v, want Complete after MaxAttempts reached", c.State())
	}
	r := c.Result()
	wantScore := 125*cfg.PointsPerKmh + cfg.WorldClassBonus
	if r.FinalScore != wantScore {
		t.Fatalf("FinalScore = %v, want %v", r.FinalScore, wantScore)
	}
}

func TestChallengeCore_PenaltyCleanSheetBonus(t *testing.T) {
	cfg := DefaultChallengeConfig()
	cfg.KicksPerPlayer = 2
	cfg.SuddenDeath = false
	cfg.GoalkeeperCoverage = 0 // keeper never saves
	c := NewChallengeCore(ChallengePenaltyVariant, cfg)
	c.Begin(0)

	for i := 0; i < 2; i++ {
		c.ProcessKick(kickTowards(ZoneMidCenter), int64(i)*100)
	}

	if c.State() != ChallengeComplete {
		t.Fatalf("state = %v, want Complete", c.State())
	}
	r := c.Result()
	if r.SuccessCount != 2 {
		t.Fatalf("SuccessCount = %d, want 2 goals with zero keeper coverage", r.SuccessCount)
	}
	wantScore := 2*cfg.PointsPerGoal + cfg.CleanSheetBonus
	if r.FinalScore != wantScore {
		t.Fatalf("FinalScore = %v, want %v (goals + clean sheet bonus)", r.FinalScore, wantScore)
	}
}

func TestChallengeCore_ZeroRadiusTargetYieldsZeroAccuracy(t *testing.T) {
	cfg := DefaultChallengeConfig()
	c := NewChallengeCore(ChallengeAccuracyVariant, cfg)
	c.SetTargetZone(TargetZone{CenterM: Vec3{Z: 5}, RadiusM: 0})
	c.Begin(0)

	for z := GoalZone(0); z < numGoalZones; z++ {
		c.ProcessKick(kickTowards(z), int64(z)*100)
	}

	r := c.Result()
	if r.Accuracy != 0 {
		t.Fatalf("Accuracy = %v, want 0 for a degenerate (radius <= 0) TargetZone", r.Accuracy)
	}
	if r.FinalScore != 0 {
		t.Fatalf("FinalScore = %v, want 0 for a degenerate TargetZone", r.FinalScore)
	}
}

func TestGradeForPercent(t *testing.T) {
	cases := []struct {
		pct  float64
		want Grade
	}{
		{0.96, GradeS}, {0.85, GradeA}, {0.70, GradeB}, {0.55, GradeC}, {0.40, GradeD}, {0.1, GradeF},
	}
	for _, tc := range cases {
		if g := gradeForPercent(tc.pct); g != tc.want {
			t.Fatalf("gradeForPercent(%v) = %v, want %v", tc.pct, g, tc.want)
		}
	}
}
