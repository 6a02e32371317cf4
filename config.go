package motionengine

import (
	"fmt"
	"time"

	"gopkg.in/ini.v1"
)

// LoadKickThresholds reads kick-detector tunables from an ini file's
// [Kick] section, falling back to §4.2's defaults for any missing key.
// Grounded on the teacher's NewVideoFromFrames seqinfo.ini parsing:
// ini.Load then Section().Key().MustX(default) for every field.
func LoadKickThresholds(path string) (KickThresholds, error) {
	t := DefaultKickThresholds()

	cfg, err := ini.Load(path)
	if err != nil {
		return t, fmt.Errorf("failed to load kick thresholds from %s: %w", path, err)
	}
	s := cfg.Section("Kick")

	t.VWindUp = s.Key("vWindUp").MustFloat64(t.VWindUp)
	t.VAcceleration = s.Key("vAcceleration").MustFloat64(t.VAcceleration)
	t.VIdle = s.Key("vIdle").MustFloat64(t.VIdle)
	t.MinWindUpTime = millisDuration(s, "minWindUpTimeMs", t.MinWindUpTime)
	t.MinAccelerationTime = millisDuration(s, "minAccelerationTimeMs", t.MinAccelerationTime)
	t.WindUpTimeout = millisDuration(s, "windUpTimeoutMs", t.WindUpTimeout)
	t.FollowThroughDuration = millisDuration(s, "followThroughDurationMs", t.FollowThroughDuration)
	t.DecelerationFactor = s.Key("decelerationFactor").MustFloat64(t.DecelerationFactor)
	t.PriorSpeedFactor = s.Key("priorSpeedFactor").MustFloat64(t.PriorSpeedFactor)
	t.DominantFootHysteresis = s.Key("dominantFootHysteresis").MustFloat64(t.DominantFootHysteresis)

	return t, nil
}

// millisDuration reads a millisecond integer key and converts it to a
// time.Duration, falling back to def if the key is absent or malformed.
func millisDuration(s *ini.Section, key string, def time.Duration) time.Duration {
	ms := s.Key(key).MustInt(int(def / time.Millisecond))
	return time.Duration(ms) * time.Millisecond
}

// LoadChallengeConfig reads challenge tunables from an ini file's
// [Challenge] section, per §6's configuration table.
func LoadChallengeConfig(path string) (ChallengeConfig, error) {
	c := DefaultChallengeConfig()

	cfg, err := ini.Load(path)
	if err != nil {
		return c, fmt.Errorf("failed to load challenge config from %s: %w", path, err)
	}
	s := cfg.Section("Challenge")

	c.TimeLimitSeconds = s.Key("timeLimitSeconds").MustFloat64(c.TimeLimitSeconds)
	c.MaxAttempts = s.Key("maxAttempts").MustInt(c.MaxAttempts)
	c.MinimumAccuracyForPass = clampUnit(s.Key("minimumAccuracyForPass").MustFloat64(c.MinimumAccuracyForPass))

	c.GoalkeeperReactionTime = s.Key("goalkeeperReactionTime").MustFloat64(c.GoalkeeperReactionTime)
	c.GoalkeeperCoverage = clampUnit(s.Key("goalkeeperCoverage").MustFloat64(c.GoalkeeperCoverage))
	c.GoalkeeperRandomness = clampUnit(s.Key("goalkeeperRandomness").MustFloat64(c.GoalkeeperRandomness))

	c.PointsPerKmh = s.Key("pointsPerKmh").MustFloat64(c.PointsPerKmh)
	c.GoodTierKmh = s.Key("goodTierKmh").MustFloat64(c.GoodTierKmh)
	c.ExcellentTierKmh = s.Key("excellentTierKmh").MustFloat64(c.ExcellentTierKmh)
	c.ExcellentBonus = s.Key("excellentBonus").MustFloat64(c.ExcellentBonus)
	c.WorldClassKmh = s.Key("worldClassKmh").MustFloat64(c.WorldClassKmh)
	c.WorldClassBonus = s.Key("worldClassBonus").MustFloat64(c.WorldClassBonus)

	c.PointsPerGoal = s.Key("pointsPerGoal").MustFloat64(c.PointsPerGoal)
	c.CleanSheetBonus = s.Key("cleanSheetBonus").MustFloat64(c.CleanSheetBonus)
	c.KicksPerPlayer = s.Key("kicksPerPlayer").MustInt(c.KicksPerPlayer)
	c.SuddenDeath = s.Key("suddenDeath").MustBool(c.SuddenDeath)
	c.MissAngleThresholdDeg = s.Key("missAngleThresholdDeg").MustFloat64(c.MissAngleThresholdDeg)

	return c, nil
}

// clampUnit clips a value to [0,1], with a warning on the values that
// needed clamping (§7, §9: configuration contract violations are
// tolerated, documented rather than fatal).
func clampUnit(v float64) float64 {
	if v < 0 || v > 1 {
		WarnOnce("motionengine: clamped out-of-range [0,1] config value")
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
