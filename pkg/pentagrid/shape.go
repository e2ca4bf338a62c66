package pentagrid

import "math"

// Shape is the rhombus class used for styling.
type Shape string

const (
	Thin  Shape = "thin"
	Thick Shape = "thick"
)

// thickThreshold is 36°, the acute angle of the thin Penrose rhombus.
// The small allowance keeps round-off at exactly 36° on the thin side.
const thickThreshold = math.Pi/5 + 1e-9

// AcuteAngle returns the acute angle between the edge vectors of families
// i and j in an n-family grid.
func AcuteAngle(n, i, j int) float64 {
	delta := i - j
	if delta < 0 {
		delta = -delta
	}
	delta %= n
	angle := float64(min(delta, n-delta)) * (2 * math.Pi / float64(n))
	return min(angle, math.Pi-angle)
}

// ShapeOf classifies the rhombus spanned by families i and j. It is
// symmetric in i and j.
//
// A rhombus is thick when its acute angle exceeds 36°. For n = 5 that
// makes families one or four apart thick (72°) and families two or three
// apart thin (36°), which are the two Penrose rhombi. Other n use the
// same threshold.
func ShapeOf(n, i, j int) Shape {
	if AcuteAngle(n, i, j) > thickThreshold {
		return Thick
	}
	return Thin
}
