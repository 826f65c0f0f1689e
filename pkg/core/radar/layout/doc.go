// Package layout computes radar geometry: ring radii per stage, an angular
// sector per dimension, and a polar position for every entity and
// dimension label.
//
// # Rings
//
// With n stages the radius unit is
//
//	unit = scale * innerRadius / (n + 1)
//
// Stages are visited by ascending level. The radius starts at
// HoleUnits*unit and grows by one unit per stage; the stage's ring sits at
// that radius and its entities half a unit inside it.
//
// # Sectors
//
// With N entities and D dimensions the angle unit is
//
//	angleUnit = 360 / (N + gapFactor*D)
//
// A cursor starts at -90 degrees. For each dimension in id order the
// cursor first skips a gap of gapFactor*angleUnit (the dimension's label
// sits there) and then advances one angleUnit per entity. The increments
// add up to exactly one turn.
//
// Each dimension's sector ends where the next one starts. The last sector
// wraps past 360 so its end is greater than its start.
//
// All angles are in degrees, measured clockwise from the positive x axis
// in SVG coordinates (y grows downward).
//
// [Compute] is pure: the same dataset and options always produce the same
// [Layout], bit for bit.
package layout
