package motionengine

import "testing"

func fillHeaderStationary(f *SkeletonFrame) {
	for _, j := range []JointID{JointHead, JointNeck, JointSpineChest, JointPelvis, JointShoulderLeft, JointShoulderRight} {
		f.Set(j, Vec3{}, ConfidenceHigh)
	}
}

func TestHeaderDetector_QuietIdleEmitsNothing(t *testing.T) {
	d := NewHeaderDetector()
	fired := false
	d.SetHeaderCallback(func(HeaderResult) { fired = true })
	for i := 0; i < 60; i++ {
		f := NewSkeletonFrame(int64(i) * 33000)
		fillHeaderStationary(&f)
		d.processSkeleton(f)
	}
	if fired {
		t.Fatal("callback fired during quiet idle stream")
	}
}

func TestHeaderDetector_GlidingHeader(t *testing.T) {
	d := NewHeaderDetector()
	var results []HeaderResult
	d.SetHeaderCallback(func(r HeaderResult) { results = append(results, r) })

	var t0 int64
	const dtUs = int64(33333)

	// Establish a pelvis well below the head so a large lateral head
	// offset produces lean > 45deg.
	pelvisPos := Vec3{Y: 0}
	headPos := Vec3{Y: 900, X: 1600} // lean ~60deg from vertical, still > 45deg after the upward ramp

	emit := func(hs Vec3) {
		f := NewSkeletonFrame(t0)
		f.Set(JointPelvis, pelvisPos, ConfidenceHigh)
		f.Set(JointNeck, Vec3{Y: 850}, ConfidenceHigh)
		f.Set(JointSpineChest, Vec3{Y: 700}, ConfidenceHigh)
		f.Set(JointShoulderLeft, Vec3{Y: 800, X: -100}, ConfidenceHigh)
		f.Set(JointShoulderRight, Vec3{Y: 800, X: 100}, ConfidenceHigh)
		f.Set(JointHead, hs, ConfidenceHigh)
		d.processSkeleton(f)
		t0 += dtUs
	}

	// warm up with two stationary frames so getCurrentSpeed is computable.
	emit(headPos)
	emit(headPos)

	// ramp speed up past 1.0 m/s towards up+forward, long enough for the
	// 150ms Preparation minimum to elapse before the deceleration
	cur := headPos
	for i := 0; i < 6; i++ {
		cur = cur.Add(Vec3{Y: 60, Z: 20})
		emit(cur)
	}
	// sudden deceleration below 0.6x prior speed
	for i := 0; i < 2; i++ {
		cur = cur.Add(Vec3{Y: 2, Z: 1})
		emit(cur)
	}
	// let contact + recovery elapse
	for i := 0; i < 15; i++ {
		emit(cur)
	}

	if len(results) != 1 {
		t.Fatalf("got %d HeaderResults, want exactly 1", len(results))
	}
	if results[0].Type != HeaderGliding {
		t.Fatalf("Type = %v, want GlidingHeader", results[0].Type)
	}
}

func TestHeaderDetector_ResetIdempotent(t *testing.T) {
	d := NewHeaderDetector()
	d.phase = HeaderContact
	d.reset()
	d.reset()
	if d.phase != HeaderIdle {
		t.Fatalf("phase = %v, want Idle", d.phase)
	}
}
