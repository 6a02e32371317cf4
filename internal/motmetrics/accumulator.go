// Copyright 2025 Nathan Michlo
// SPDX-License-Identifier: MIT
//
// This file adapts the event-accumulation shape of py-motmetrics'
// MOTAccumulator (frame-by-frame event counters plus per-entity lifecycle
// tracking, reduced to summary metrics on demand) to kiosk challenge
// scoring instead of multi-object-tracking evaluation.
// Original source: https://github.com/cheind/py-motmetrics/blob/master/motmetrics/mot.py
// Original Copyright (c) 2017-2019 Christoph Heindl, Jack Valmadre
// Original License: MIT
//
// See LICENSE file in this directory and THIRD_PARTY_LICENSES.md in repository root.

package motmetrics

// ZoneStreak tracks the hit/miss lifecycle of a single target-zone cell
// across a challenge attempt, the way TrackLifecycle tracked a single
// ground-truth object's matched/missed frames.
type ZoneStreak struct {
	ZoneID int // Identifies the grid cell (0-8 for a 3x3 grid)

	FirstAttemptFrame int // Sequence number of first attempt touching this zone
	LastAttemptFrame  int

	Attempts int // Number of attempts that targeted this zone
	Hits     int // Number of attempts that landed in this zone
}

// NewZoneStreak creates a new streak tracker for a grid cell.
func NewZoneStreak(zoneID, firstFrame int) *ZoneStreak {
	return &ZoneStreak{
		ZoneID:            zoneID,
		FirstAttemptFrame: firstFrame,
		LastAttemptFrame:  firstFrame,
	}
}

// UpdateHit records a landed attempt.
func (z *ZoneStreak) UpdateHit(frame int) {
	z.LastAttemptFrame = frame
	z.Attempts++
	z.Hits++
}

// UpdateMiss records an attempt that targeted this zone but missed it.
func (z *ZoneStreak) UpdateMiss(frame int) {
	z.LastAttemptFrame = frame
	z.Attempts++
}

// Coverage returns the hit ratio for this zone.
func (z *ZoneStreak) Coverage() float64 {
	if z.Attempts == 0 {
		return 0.0
	}
	return float64(z.Hits) / float64(z.Attempts)
}

// ChallengeAccumulator accumulates attempt-level events across a challenge
// session, in the same shape MOTAccumulator accumulates match/miss/switch
// events across a video sequence: Update() is called once per processed
// KickResult/HeaderResult, and summary metrics are read back at any time
// (typically at challenge completion).
type ChallengeAccumulator struct {
	ChallengeName string

	NumAttempts int // Total attempts fed to the accumulator
	NumHits     int // Attempts that counted as a success (on-target, goal, etc.)
	NumMisses   int // Attempts that did not count as a success

	TotalScoreContribution float64 // Sum of per-attempt score contributions

	CurrentStreak int // Consecutive hits ending at the most recent attempt
	BestStreak    int

	SequenceID int // Current attempt's sequence number (1-indexed)

	Zones map[int]*ZoneStreak // Per-zone lifecycle, keyed by grid cell ID
}

// NewChallengeAccumulator creates an accumulator for one challenge session.
func NewChallengeAccumulator(challengeName string) *ChallengeAccumulator {
	return &ChallengeAccumulator{
		ChallengeName: challengeName,
		Zones:         make(map[int]*ZoneStreak),
	}
}

// Update records one attempt. zoneID is -1 when the attempt is not
// associated with a grid cell (e.g. a pure max-power attempt).
func (acc *ChallengeAccumulator) Update(hit bool, zoneID int, scoreContribution float64) {
	acc.SequenceID++
	acc.NumAttempts++
	acc.TotalScoreContribution += scoreContribution

	if hit {
		acc.NumHits++
		acc.CurrentStreak++
		if acc.CurrentStreak > acc.BestStreak {
			acc.BestStreak = acc.CurrentStreak
		}
	} else {
		acc.NumMisses++
		acc.CurrentStreak = 0
	}

	if zoneID < 0 {
		return
	}

	streak, exists := acc.Zones[zoneID]
	if !exists {
		streak = NewZoneStreak(zoneID, acc.SequenceID)
		acc.Zones[zoneID] = streak
	}
	if hit {
		streak.UpdateHit(acc.SequenceID)
	} else {
		streak.UpdateMiss(acc.SequenceID)
	}
}

// Accuracy returns NumHits / NumAttempts, 0 if no attempts yet.
func (acc *ChallengeAccumulator) Accuracy() float64 {
	if acc.NumAttempts == 0 {
		return 0.0
	}
	return float64(acc.NumHits) / float64(acc.NumAttempts)
}

// ZonesHit returns the count of distinct zones with at least one hit, the
// way ComputeExtendedMetrics summarized lifecycle coverage across entities.
func (acc *ChallengeAccumulator) ZonesHit() int {
	hit := 0
	for _, z := range acc.Zones {
		if z.Hits > 0 {
			hit++
		}
	}
	return hit
}

// CleanSheet reports whether every attempt recorded so far was a hit
// (used by the penalty-shootout challenge's clean-sheet bonus).
func (acc *ChallengeAccumulator) CleanSheet() bool {
	return acc.NumAttempts > 0 && acc.NumMisses == 0
}
