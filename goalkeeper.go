package motionengine

import "math/rand"

// GoalkeeperConfig is GoalkeeperAI's tunable parameters, per §4.5.
type GoalkeeperConfig struct {
	ReactionTimeS float64
	Coverage      float64 // [0,1]
	Randomness    float64 // [0,1]
}

// DefaultGoalkeeperConfig returns reasonable mid-difficulty defaults.
func DefaultGoalkeeperConfig() GoalkeeperConfig {
	return GoalkeeperConfig{ReactionTimeS: 0.3, Coverage: 0.6, Randomness: 0.15}
}

// fastShotMps is the velocity above which a keeper's effective save
// probability is halved (§4.5: "fast shots beat the keeper").
const fastShotMps = 30.0

// GoalkeeperAI is a dive decision model consuming kick output. Its config
// carries ReactionTimeS, which PredictDive and WillSave do not read. Holds
// a private, seeded RNG: per §9 this must never be a globally-shared
// source, so tests can reproduce exact dive decisions.
type GoalkeeperAI struct {
	cfg      GoalkeeperConfig
	rng      *rand.Rand
	lastDive GoalZone
}

// NewGoalkeeperAI creates a keeper seeded deterministically for test
// reproducibility (§4.5, §9). Callers may Reseed.
func NewGoalkeeperAI(cfg GoalkeeperConfig, seed int64) *GoalkeeperAI {
	return &GoalkeeperAI{cfg: cfg, rng: rand.New(rand.NewSource(seed)), lastDive: ZoneMidCenter}
}

// Reseed replaces the keeper's RNG sequence.
func (g *GoalkeeperAI) Reseed(seed int64) {
	g.rng = rand.New(rand.NewSource(seed))
}

// PredictDive projects kickDirection onto the goal plane to pick a
// target zone, with probability Randomness choosing a uniformly random
// cell instead. Stores the decision as lastDive.
func (g *GoalkeeperAI) PredictDive(kickDirection Vec3) GoalZone {
	var dive GoalZone
	if g.rng.Float64() < g.cfg.Randomness {
		dive = GoalZone(g.rng.Intn(int(numGoalZones)))
	} else {
		dive = sharedGoalGrid.project(kickDirection)
	}
	g.lastDive = dive
	return dive
}

// LastDive returns the most recent PredictDive decision.
func (g *GoalkeeperAI) LastDive() GoalZone {
	return g.lastDive
}

// WillSave decides whether the keeper stops a shot at kickZone given its
// diveZone choice and the shot's speed (m/s), per §4.5.
func (g *GoalkeeperAI) WillSave(kickZone, diveZone GoalZone, speedMps float64) bool {
	var p float64
	switch {
	case kickZone == diveZone:
		p = g.cfg.Coverage
	case chebyshevAdjacent(kickZone, diveZone):
		p = g.cfg.Coverage * 0.5
	default:
		return false
	}
	if speedMps > fastShotMps {
		p *= 0.5
	}
	return g.rng.Float64() < p
}
