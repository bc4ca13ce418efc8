package surfaceinput

import "math"

const (
	minPointCount   = 2
	maxMoveDistance = 10
)

// MovePath Returns the points a straight swipe from start towards end
// passes through, at most maxMoveDistance pixels apart per axis. The end
// point itself is not included.
func MovePath(start, end Vector2D) []Vector2D {
	dX := end.X - start.X
	dY := end.Y - start.Y

	xCount := int(math.Abs(dX)) / maxMoveDistance
	yCount := int(math.Abs(dY)) / maxMoveDistance
	count := max(xCount, yCount, minPointCount)

	actDeltaX := dX / float64(count)
	actDeltaY := dY / float64(count)

	points := make([]Vector2D, count)
	for i := range points {
		points[i] = Vector2D{
			X: start.X + actDeltaX*float64(i),
			Y: start.Y + actDeltaY*float64(i),
		}
	}
	return points
}

// normalizeAngle Folds an angle in radians into [0, 2π).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
