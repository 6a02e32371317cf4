// kickmotion is an example harness for the motion analysis engine. It is
// not part of the core contract (§6): it simulates a skeleton stream,
// feeds it through KickDetector/ChallengeCore, and prints
// a progress bar and results to the terminal.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	motionengine "github.com/kickvision/motion-engine"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: kickmotion <accuracy|power|penalty>")
	}

	variant, err := parseVariant(os.Args[1])
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Println("KickMotion Challenge Harness")
	fmt.Println("============================")
	fmt.Printf("Challenge: %s\n", os.Args[1])
	fmt.Println("Keys: q = quit, r = restart")
	fmt.Println()

	for {
		runChallenge(variant)

		key, err := readKey()
		if err != nil {
			// Non-interactive terminal (e.g. piped input/output): stop
			// after one run rather than looping forever.
			return
		}
		switch key {
		case 'q':
			return
		case 'r':
			continue
		default:
			return
		}
	}
}

func parseVariant(s string) (motionengine.ChallengeVariant, error) {
	switch s {
	case "accuracy":
		return motionengine.ChallengeAccuracyVariant, nil
	case "power":
		return motionengine.ChallengePowerVariant, nil
	case "penalty":
		return motionengine.ChallengePenaltyVariant, nil
	default:
		return 0, fmt.Errorf("unknown challenge %q (want accuracy|power|penalty)", s)
	}
}

func runChallenge(variant motionengine.ChallengeVariant) {
	cfg := motionengine.DefaultChallengeConfig()
	challenge := motionengine.NewChallengeCore(variant, cfg)
	challenge.Begin(0)

	kickDetector := motionengine.NewKickDetector()
	kickDetector.SetKickCallback(func(r motionengine.KickResult) {
		challenge.ProcessKick(r, r.TimestampUs/1000)
	})

	const frames = 300
	bar := progressbar.NewOptions(frames,
		progressbar.OptionSetDescription("simulating skeleton stream"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
	)

	cols, _ := motionengine.GetTerminalSize(80, 24)
	_ = cols

	for i := 0; i < frames && challenge.State() != motionengine.ChallengeComplete; i++ {
		frame := syntheticKickFrame(i)
		kickDetector.ProcessSkeleton(frame)
		_ = bar.Add(1)
		time.Sleep(time.Millisecond) // simulated frame pacing
	}
	fmt.Println()

	result := challenge.Result()
	fmt.Printf("Score: %.1f  Accuracy: %.0f%%  Grade: %s\n", result.FinalScore, result.Accuracy*100, result.Grade)
	if len(result.UnlockedAchievements) > 0 {
		fmt.Printf("Unlocked: %v\n", result.UnlockedAchievements)
	}
}

// syntheticKickFrame synthesizes a right-foot windup/acceleration/decay
// cycle, looping every 25 frames, for harness demonstration purposes.
func syntheticKickFrame(i int) motionengine.SkeletonFrame {
	t := int64(i) * 33333
	phase := i % 25
	z := 0.0
	switch {
	case phase < 10:
		z = -0.06 * float64(phase)
	case phase < 15:
		z = -0.6 + 0.10*float64(phase-9)
	default:
		z = 0.1 + 0.015*float64(phase-15)
	}
	pos := motionengine.Vec3{Z: z * 1000}

	f := motionengine.NewSkeletonFrame(t)
	f.Set(motionengine.JointPelvis, motionengine.Vec3{}, motionengine.ConfidenceHigh)
	f.Set(motionengine.JointHipRight, motionengine.Vec3{}, motionengine.ConfidenceHigh)
	f.Set(motionengine.JointKneeRight, motionengine.Vec3{Y: 500}, motionengine.ConfidenceHigh)
	f.Set(motionengine.JointAnkleRight, pos, motionengine.ConfidenceHigh)
	f.Set(motionengine.JointFootRight, pos, motionengine.ConfidenceHigh)
	f.Set(motionengine.JointHipLeft, motionengine.Vec3{}, motionengine.ConfidenceHigh)
	f.Set(motionengine.JointKneeLeft, motionengine.Vec3{}, motionengine.ConfidenceHigh)
	f.Set(motionengine.JointAnkleLeft, motionengine.Vec3{}, motionengine.ConfidenceHigh)
	f.Set(motionengine.JointFootLeft, motionengine.Vec3{}, motionengine.ConfidenceHigh)
	return f
}

// readKey reads a single raw keystroke from stdin, restoring terminal
// state before returning.
func readKey() (byte, error) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return 0, err
	}
	defer term.Restore(fd, oldState)

	buf := make([]byte, 1)
	if _, err := os.Stdin.Read(buf); err != nil {
		return 0, err
	}
	return buf[0], nil
}
