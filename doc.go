/*
Package motionengine implements the motion analysis core of a soccer
kick/header recognition kiosk: per-joint motion-history buffers, phase
state machines for kick and header detection, a biomechanical quality
analyzer, and a goalkeeper decision model.

- motionengine fuses a stream of depth-camera skeleton poses into
  discrete, scored athletic events at roughly 30 Hz.
- This package does not acquire skeletons, render a UI, or persist
  sessions; it is driven synchronously by a caller that owns those
  concerns (see SPEC_FULL.md §1 and §6).

# Basic Usage

	detector := motionengine.NewKickDetector()
	detector.SetKickCallback(func(result motionengine.KickResult) {
		fmt.Printf("kick: %s foot=%s overall=%.1f\n",
			result.Type, result.Foot, result.Quality.OverallScore)
	})

	for frame := range skeletonFrames {
		detector.ProcessSkeleton(frame)
	}

# Core Types

MotionHistory is a bounded per-joint ring buffer with velocity and
acceleration derivative queries.

KickDetector and HeaderDetector drive phase state machines over their own
MotionHistory set and emit KickResult/HeaderResult via a registered
callback when a phase completes.

KickAnalyzer refines a completed kick with biomechanical power, accuracy,
technique and balance scores, and classifies the kick type.

GoalkeeperAI consumes a KickResult's direction and decides whether a
penalty-shootout attempt is saved.

ChallengeCore and its three variants (Accuracy, Power, PenaltyShootout)
consume kick events and produce a ChallengeResult.

# Filtering

  - RawHistory: derivatives computed directly from stored samples (default)
  - SmoothedHistory: per-joint Kalman smoothing via internal/filterpy before
    derivatives are taken, for noisier camera feeds
*/
package motionengine
