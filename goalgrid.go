package motionengine

import (
	"github.com/kickvision/motion-engine/internal/numpy"
	"github.com/kickvision/motion-engine/internal/scipy"
	"gonum.org/v1/gonum/mat"
)

// GoalZone identifies one of the nine 3x3 goal grid cells, per the
// GLOSSARY's "Grid cell". Rows top to bottom, columns left to right.
type GoalZone int

const (
	ZoneTopLeft GoalZone = iota
	ZoneTopCenter
	ZoneTopRight
	ZoneMidLeft
	ZoneMidCenter
	ZoneMidRight
	ZoneBottomLeft
	ZoneBottomCenter
	ZoneBottomRight

	numGoalZones = ZoneBottomRight + 1
)

// goalWidthM and goalHeightM describe the virtual goal plane used to
// project a kick/header direction into one of nine cells. Values
// approximate a regulation goal (7.32m x 2.44m).
const (
	goalWidthM  = 7.32
	goalHeightM = 2.44
	goalPlaneZ  = 11.0 // meters from the kicker, an arbitrary projection distance
)

// goalGrid holds the nine cell centers (x,y on the goal plane, meters),
// generated once via numpy.Linspace the way a grid of sample points would
// be built in the source material's coordinate utilities.
type goalGrid struct {
	centers [][2]float64 // len 9, row-major
}

var sharedGoalGrid = newGoalGrid()

func newGoalGrid() *goalGrid {
	xs := numpy.Linspace(-goalWidthM/2, goalWidthM/2, 3)
	ys := numpy.Linspace(goalHeightM, 0, 3) // top row = high Y

	centers := make([][2]float64, 0, 9)
	for _, y := range ys {
		for _, x := range xs {
			centers = append(centers, [2]float64{x, y})
		}
	}
	return &goalGrid{centers: centers}
}

// project maps a kick direction (assumed already normalized, +Z forward)
// onto the goal plane at goalPlaneZ and returns the nearest GoalZone,
// using scipy.Cdist the way the teacher used it for nearest-match lookup.
func (g *goalGrid) project(direction Vec3) GoalZone {
	if direction.Z <= 0 {
		// Degenerate/backward direction: fall back to center.
		return ZoneMidCenter
	}
	scale := goalPlaneZ / direction.Z
	x := numpy.Clip(direction.X*scale, -goalWidthM/2, goalWidthM/2)
	y := numpy.Clip(goalHeightM/2+direction.Y*scale, 0, goalHeightM)

	point := mat.NewDense(1, 2, []float64{x, y})
	cellMat := mat.NewDense(int(numGoalZones), 2, nil)
	for i, c := range g.centers {
		cellMat.Set(i, 0, c[0])
		cellMat.Set(i, 1, c[1])
	}

	dists := scipy.Cdist(point, cellMat, "euclidean")
	best, bestDist := 0, dists.At(0, 0)
	for i := 1; i < int(numGoalZones); i++ {
		if d := dists.At(0, i); d < bestDist {
			best, bestDist = i, d
		}
	}
	return GoalZone(best)
}

// chebyshevAdjacent reports whether two zones are Chebyshev-distance 1
// apart on the 3x3 grid (used by GoalkeeperAI.willSave).
func chebyshevAdjacent(a, b GoalZone) bool {
	ar, ac := int(a)/3, int(a)%3
	br, bc := int(b)/3, int(b)%3
	dr, dc := absInt(ar-br), absInt(ac-bc)
	cheb := dr
	if dc > cheb {
		cheb = dc
	}
	return cheb == 1
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
