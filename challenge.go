package motionengine

import (
	"time"

	"github.com/kickvision/motion-engine/internal/motmetrics"
)

// ChallengeState is a challenge's lifecycle stage, shared by all three
// variants (§4.6).
type ChallengeState int

const (
	ChallengeIdle ChallengeState = iota
	ChallengeInstructions
	ChallengeCountdown
	ChallengeActive
	ChallengeComplete
)

// Grade is the letter grade derived from score percentage, per §4.6.
type Grade int

const (
	GradeF Grade = iota
	GradeD
	GradeC
	GradeB
	GradeA
	GradeS
)

func (g Grade) String() string {
	switch g {
	case GradeS:
		return "S"
	case GradeA:
		return "A"
	case GradeB:
		return "B"
	case GradeC:
		return "C"
	case GradeD:
		return "D"
	default:
		return "F"
	}
}

// gradeForPercent maps a score percentage in [0,1] to a letter grade,
// per §4.6's thresholds.
func gradeForPercent(pct float64) Grade {
	switch {
	case pct >= 0.95:
		return GradeS
	case pct >= 0.85:
		return GradeA
	case pct >= 0.70:
		return GradeB
	case pct >= 0.55:
		return GradeC
	case pct >= 0.40:
		return GradeD
	default:
		return GradeF
	}
}

// TargetZone is a spherical accuracy target, §3.
type TargetZone struct {
	CenterM Vec3
	RadiusM float64
}

// ChallengeResult aggregates a completed challenge session, §3.
type ChallengeResult struct {
	SequenceID      int
	FinalScore      float64
	AttemptCount    int
	SuccessCount    int
	Accuracy        float64
	MaxVelocityKmh  float64
	AvgVelocityKmh  float64
	DurationS       float64
	Pass            bool
	Grade           Grade
	UnlockedAchievements []string
}

// achievementRule names an achievement identifier and the predicate a
// completed ChallengeResult must satisfy to unlock it, the
// supplemented rule table SPEC_FULL.md §12 calls for.
type achievementRule struct {
	id   string
	when func(ChallengeResult) bool
}

var sharedAchievementRules = []achievementRule{
	{"clean_sweep", func(r ChallengeResult) bool { return r.Accuracy >= 1.0 }},
	{"sharpshooter", func(r ChallengeResult) bool { return r.Accuracy >= 0.8 }},
	{"thunderbolt", func(r ChallengeResult) bool { return r.MaxVelocityKmh >= 100 }},
	{"world_class", func(r ChallengeResult) bool { return r.MaxVelocityKmh >= 120 }},
	{"grade_s", func(r ChallengeResult) bool { return r.Grade == GradeS }},
}

func evaluateAchievements(r ChallengeResult) []string {
	var unlocked []string
	for _, rule := range sharedAchievementRules {
		if rule.when(r) {
			unlocked = append(unlocked, rule.id)
		}
	}
	return unlocked
}

// ChallengeVariant distinguishes the three modes §4.6 describes.
type ChallengeVariant int

const (
	ChallengeAccuracyVariant ChallengeVariant = iota
	ChallengePowerVariant
	ChallengePenaltyVariant
)

// ChallengeConfig holds the option set §6's table enumerates.
type ChallengeConfig struct {
	TimeLimitSeconds       float64
	MaxAttempts            int
	MinimumAccuracyForPass float64

	GoalkeeperReactionTime float64
	GoalkeeperCoverage     float64
	GoalkeeperRandomness   float64

	PointsPerKmh    float64
	GoodTierKmh     float64
	ExcellentTierKmh float64
	ExcellentBonus  float64
	WorldClassKmh   float64
	WorldClassBonus float64

	BaseZoneScore  float64
	CompletionBonus float64
	CornerMultiplier float64
	EdgeMultiplier  float64
	CenterMultiplier float64

	PointsPerGoal    float64
	CleanSheetBonus  float64
	KicksPerPlayer   int
	SuddenDeath      bool
	MissAngleThresholdDeg float64
}

// DefaultChallengeConfig returns the values §4.6 and §6 document.
func DefaultChallengeConfig() ChallengeConfig {
	return ChallengeConfig{
		TimeLimitSeconds:       60,
		MaxAttempts:            9,
		MinimumAccuracyForPass: 0.5,

		GoalkeeperReactionTime: 0.3,
		GoalkeeperCoverage:     0.6,
		GoalkeeperRandomness:   0.15,

		PointsPerKmh:     10,
		GoodTierKmh:      70,
		ExcellentTierKmh: 100,
		ExcellentBonus:   500,
		WorldClassKmh:    120,
		WorldClassBonus:  1500,

		BaseZoneScore:    100,
		CompletionBonus:  500,
		CornerMultiplier: 3,
		EdgeMultiplier:   2,
		CenterMultiplier: 1,

		PointsPerGoal:   100,
		CleanSheetBonus: 300,
		KicksPerPlayer:  5,
		SuddenDeath:     true,
		MissAngleThresholdDeg: 45,
	}
}

// zoneMultiplier returns the position multiplier for the accuracy grid,
// per §4.6: corners 3x, edges 2x, center 1x.
func (c ChallengeConfig) zoneMultiplier(z GoalZone) float64 {
	switch z {
	case ZoneTopLeft, ZoneTopRight, ZoneBottomLeft, ZoneBottomRight:
		return c.CornerMultiplier
	case ZoneMidCenter:
		return c.CenterMultiplier
	default:
		return c.EdgeMultiplier
	}
}

// PenaltyOutcome is the per-kick result of a penalty-shootout attempt.
type PenaltyOutcome int

const (
	PenaltyGoal PenaltyOutcome = iota
	PenaltySaved
	PenaltyMissed
)

// ChallengeCore drives one of the three challenge variants through the
// Idle->Instructions->Countdown->Active->Complete lifecycle, consuming
// KickResults and producing a ChallengeResult, §4.6.
type ChallengeCore struct {
	variant ChallengeVariant
	cfg     ChallengeConfig
	state   ChallengeState

	acc *motmetrics.ChallengeAccumulator

	target     TargetZone
	hasTarget  bool
	hitZones   map[GoalZone]bool

	keeper *GoalkeeperAI

	maxVelocityKmh float64
	sumVelocityKmh float64

	startedAt int64 // ms, caller-supplied clock
	endedAt   int64

	attempts int

	ids *EventIDFactory
}

// NewChallengeCore creates a challenge in the Idle state.
func NewChallengeCore(variant ChallengeVariant, cfg ChallengeConfig) *ChallengeCore {
	c := &ChallengeCore{
		variant:  variant,
		cfg:      cfg,
		state:    ChallengeIdle,
		hitZones: make(map[GoalZone]bool),
		ids:      NewEventIDFactory(),
	}
	switch variant {
	case ChallengeAccuracyVariant:
		c.acc = motmetrics.NewChallengeAccumulator("accuracy")
	case ChallengePowerVariant:
		c.acc = motmetrics.NewChallengeAccumulator("power")
	case ChallengePenaltyVariant:
		c.acc = motmetrics.NewChallengeAccumulator("penalty")
		c.keeper = NewGoalkeeperAI(GoalkeeperConfig{
			ReactionTimeS: cfg.GoalkeeperReactionTime,
			Coverage:      cfg.GoalkeeperCoverage,
			Randomness:    cfg.GoalkeeperRandomness,
		}, time.Now().UnixNano())
	}
	return c
}

// SetTargetZone configures the accuracy target (accuracy variant only;
// meaningless for power/penalty but harmless to call). A radius <= 0 is
// accepted and simply yields accuracy=0 (§7), not an error.
func (c *ChallengeCore) SetTargetZone(z TargetZone) {
	c.target = z
	c.hasTarget = true
}

// Begin transitions Idle -> Instructions -> Countdown -> Active.
// startMs is a caller-supplied wall-clock timestamp in milliseconds.
func (c *ChallengeCore) Begin(startMs int64) {
	c.state = ChallengeInstructions
	c.state = ChallengeCountdown
	c.state = ChallengeActive
	c.startedAt = startMs
}

// State returns the current lifecycle stage.
func (c *ChallengeCore) State() ChallengeState {
	return c.state
}

// ProcessKick feeds a completed KickResult into the active challenge. It
// is a no-op outside the Active state.
func (c *ChallengeCore) ProcessKick(kick KickResult, nowMs int64) {
	if c.state != ChallengeActive {
		return
	}

	switch c.variant {
	case ChallengeAccuracyVariant:
		c.processAccuracyKick(kick)
	case ChallengePowerVariant:
		c.processPowerKick(kick)
	case ChallengePenaltyVariant:
		c.processPenaltyKick(kick)
	}

	c.attempts++
	c.maybeComplete(nowMs)
}

func (c *ChallengeCore) processAccuracyKick(kick KickResult) {
	c.trackVelocity(kick.Quality.BallSpeedKmh)

	// A configured TargetZone with radius <= 0 is accepted, not an error,
	// but is degenerate: every kick scores accuracy 0 against it (§7).
	if c.hasTarget && c.target.RadiusM <= 0 {
		c.acc.Update(false, -1, 0)
		return
	}

	zone := sharedGoalGrid.project(kick.Direction)
	hit := !c.hitZones[zone]
	if hit {
		c.hitZones[zone] = true
	}
	mult := c.cfg.zoneMultiplier(zone)
	contribution := 0.0
	if hit {
		contribution = c.cfg.BaseZoneScore * mult
		if c.hasTarget {
			// A specific TargetZone is configured: weight the zone-grid
			// score by KickAnalyzer's direction-to-target accuracy (§4.6
			// scoringFactors), the only other consumer of TargetZoneCenter.
			contribution *= kick.Quality.AccuracyScore / 100
		}
	}
	c.acc.Update(hit, int(zone), contribution)
}

func (c *ChallengeCore) processPowerKick(kick KickResult) {
	v := kick.Quality.BallSpeedKmh
	c.trackVelocity(v)

	contribution := v * c.cfg.PointsPerKmh
	switch {
	case v >= c.cfg.WorldClassKmh:
		contribution += c.cfg.WorldClassBonus
	case v >= c.cfg.ExcellentTierKmh:
		contribution += c.cfg.ExcellentBonus
	}
	hit := v >= c.cfg.GoodTierKmh
	c.acc.Update(hit, -1, contribution)
}

func (c *ChallengeCore) processPenaltyKick(kick KickResult) {
	angle := angleBetweenDeg(kick.Direction, forward)
	c.trackVelocity(kick.Quality.BallSpeedKmh)

	if angle > c.cfg.MissAngleThresholdDeg {
		c.acc.Update(false, -1, 0)
		return
	}

	kickZone := sharedGoalGrid.project(kick.Direction)
	diveZone := c.keeper.PredictDive(kick.Direction)
	speedMps := kick.Quality.FootVelocityMps

	if c.keeper.WillSave(kickZone, diveZone, speedMps) {
		c.acc.Update(false, int(kickZone), 0)
		return
	}

	c.acc.Update(true, int(kickZone), c.cfg.PointsPerGoal)
}

func (c *ChallengeCore) trackVelocity(v float64) {
	if v > c.maxVelocityKmh {
		c.maxVelocityKmh = v
	}
	c.sumVelocityKmh += v
}

// maybeComplete checks the variant's completion predicate and, if met,
// transitions to Complete.
func (c *ChallengeCore) maybeComplete(nowMs int64) {
	done := false
	switch c.variant {
	case ChallengeAccuracyVariant:
		elapsedS := float64(nowMs-c.startedAt) / 1000.0
		done = len(c.hitZones) >= int(numGoalZones) ||
			c.attempts >= c.cfg.MaxAttempts ||
			elapsedS >= c.cfg.TimeLimitSeconds
	case ChallengePowerVariant:
		done = c.attempts >= c.cfg.MaxAttempts
	case ChallengePenaltyVariant:
		rounds := c.cfg.KicksPerPlayer
		done = c.attempts >= rounds
		if done && c.cfg.SuddenDeath && c.acc.NumHits == c.acc.NumMisses {
			// tied after regulation: extend one more round
			done = false
			rounds++
			c.cfg.KicksPerPlayer = rounds
		}
	}
	if done {
		c.endedAt = nowMs
		c.state = ChallengeComplete
	}
}

// Result computes the final ChallengeResult. Valid once State() ==
// ChallengeComplete, but may be called earlier to inspect progress.
func (c *ChallengeCore) Result() ChallengeResult {
	durationS := float64(c.endedAt-c.startedAt) / 1000.0
	if c.endedAt == 0 {
		durationS = 0
	}

	score := c.acc.TotalScoreContribution
	switch {
	case c.variant == ChallengeAccuracyVariant && len(c.hitZones) >= int(numGoalZones):
		score += c.cfg.CompletionBonus
	case c.variant == ChallengePenaltyVariant && c.acc.CleanSheet():
		score += c.cfg.CleanSheetBonus
	}

	avgVelocity := 0.0
	if c.acc.NumAttempts > 0 {
		avgVelocity = c.sumVelocityKmh / float64(c.acc.NumAttempts)
	}

	accuracy := c.acc.Accuracy()
	pass := accuracy >= c.cfg.MinimumAccuracyForPass

	maxPossible := c.maxPossibleScore()
	pct := 0.0
	if maxPossible > 0 {
		pct = score / maxPossible
		if pct > 1 {
			pct = 1
		}
	}

	r := ChallengeResult{
		SequenceID:     c.ids.Next(),
		FinalScore:     score,
		AttemptCount:   c.acc.NumAttempts,
		SuccessCount:   c.acc.NumHits,
		Accuracy:       accuracy,
		MaxVelocityKmh: c.maxVelocityKmh,
		AvgVelocityKmh: avgVelocity,
		DurationS:      durationS,
		Pass:           pass,
		Grade:          gradeForPercent(pct),
	}
	if c.variant == ChallengePenaltyVariant {
		r.Pass = c.acc.CleanSheet() || pass
	}
	r.UnlockedAchievements = evaluateAchievements(r)
	return r
}

// maxPossibleScore estimates the ceiling a grade percentage is computed
// against. Accuracy: every zone at its multiplier plus completion bonus.
// Power/Penalty: best-case tier bonus across the attempt budget.
func (c *ChallengeCore) maxPossibleScore() float64 {
	switch c.variant {
	case ChallengeAccuracyVariant:
		corners := 4 * c.cfg.CornerMultiplier
		edges := 4 * c.cfg.EdgeMultiplier
		center := c.cfg.CenterMultiplier
		return c.cfg.BaseZoneScore*(corners+edges+center) + c.cfg.CompletionBonus
	case ChallengePowerVariant:
		perAttempt := c.cfg.WorldClassKmh*c.cfg.PointsPerKmh + c.cfg.WorldClassBonus
		return perAttempt * float64(c.cfg.MaxAttempts)
	case ChallengePenaltyVariant:
		return c.cfg.PointsPerGoal*float64(c.cfg.KicksPerPlayer) + c.cfg.CleanSheetBonus
	default:
		return 0
	}
}
