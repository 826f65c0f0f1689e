package primitive

// Anchor is an SVG text-anchor value.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// mirrorThreshold is the layout angle past which labels flip to stay
// upright.
const mirrorThreshold = 90.0

// Mirrored reports whether a label at angle (degrees) reads right to left
// and must be turned 180 degrees.
func Mirrored(angle float64) bool {
	return angle > mirrorThreshold
}

// LabelOrientation applies the mirroring rule: past 90 degrees the text is
// anchored at its end and the local frame turned by 180 degrees; otherwise
// it is anchored at its start with no turn.
func LabelOrientation(angle float64) (Anchor, float64) {
	if Mirrored(angle) {
		return AnchorEnd, 180
	}
	return AnchorStart, 0
}

// LayoutAngleToArcAngle converts a layout angle (0 along +x, clockwise)
// to the arc convention used by d3-style arc generators (0 at 12 o'clock,
// clockwise).
func LayoutAngleToArcAngle(angle float64) float64 {
	return angle + 90
}
