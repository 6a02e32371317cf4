package motionengine

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// toRow packs a Vec3 into a 1x3 gonum matrix, the representation
// distances.go used for detection/object points before computing a norm.
func toRow(v Vec3) *mat.Dense {
	return mat.NewDense(1, 3, []float64{v.X, v.Y, v.Z})
}

// magnitude returns the Euclidean norm of v, computed the way
// Frobenius() in the teacher computed a distance: subtract, then
// mat.Norm(diff, 2).
func magnitude(v Vec3) float64 {
	zero := mat.NewDense(1, 3, nil)
	diff := mat.NewDense(1, 3, nil)
	diff.Sub(toRow(v), zero)
	return mat.Norm(diff, 2)
}

// normalize returns v scaled to unit length, or the zero vector if v is
// (near) zero length.
func normalize(v Vec3) Vec3 {
	m := magnitude(v)
	if m < 1e-9 {
		return Vec3{}
	}
	return v.Scale(1.0 / m)
}

// angleBetweenDeg returns the angle between two vectors in degrees,
// in [0,180]. Used for direction-accuracy scoring, hip rotation, body
// lean, and kick/header classification thresholds throughout §4.
func angleBetweenDeg(a, b Vec3) float64 {
	ma, mb := magnitude(a), magnitude(b)
	if ma < 1e-9 || mb < 1e-9 {
		return 0
	}
	cosTheta := a.Dot(b) / (ma * mb)
	cosTheta = math.Max(-1, math.Min(1, cosTheta))
	return math.Acos(cosTheta) * 180 / math.Pi
}

// jointAngleDeg computes the angle at `mid`, between rays mid->a and
// mid->b, in degrees. Used for knee angle (hip, knee, ankle) and neck
// angle (head, neck, spineChest) per §4.3/§4.4.
func jointAngleDeg(a, mid, b Vec3) float64 {
	return angleBetweenDeg(a.Sub(mid), b.Sub(mid))
}

// meanVelocity averages a slice of velocity vectors, used to latch kick
// and header direction over the last 3 frames (§4.2, §4.4).
func meanVelocity(vs []Vec3) Vec3 {
	if len(vs) == 0 {
		return Vec3{}
	}
	var sum Vec3
	for _, v := range vs {
		sum = sum.Add(v)
	}
	return sum.Scale(1.0 / float64(len(vs)))
}

// up is the engine's vertical reference axis (+Y), per §6.
var up = Vec3{X: 0, Y: 1, Z: 0}

// forward is the engine's forward axis (+Z, away from the camera), per §6.
var forward = Vec3{X: 0, Y: 0, Z: 1}

// cameraX is the engine's lateral reference axis (+X, camera-right), used
// by hip-rotation scoring (§4.3).
var cameraX = Vec3{X: 1, Y: 0, Z: 0}
