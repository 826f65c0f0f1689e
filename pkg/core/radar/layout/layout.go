package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/polaris/pkg/core/radar"
	"github.com/matzehuels/polaris/pkg/errors"
)

// Polar is a position in polar coordinates. Angle is in degrees.
type Polar struct {
	Radius float64
	Angle  float64
}

// Cartesian converts to SVG coordinates (y down).
func (p Polar) Cartesian() (x, y float64) {
	rad := p.Angle * math.Pi / 180
	return p.Radius * math.Cos(rad), p.Radius * math.Sin(rad)
}

// Ring is the placement of one stage.
type Ring struct {
	StageID string
	Name    string
	Level   int

	// RingRadius is where the ring circle is drawn.
	RingRadius float64
	// NodeRadius is where the stage's entities sit, half a unit inside.
	NodeRadius float64
}

// DimensionPlacement is the sector owned by one dimension.
type DimensionPlacement struct {
	ID   string
	Name string

	// Polar is the label position; its angle starts the sector.
	Polar

	// EndAngle is where the sector ends. It is always greater than
	// Polar.Angle and may exceed 360.
	EndAngle float64

	// Entities is the number of entities in the sector.
	Entities int
}

// Sweep returns the angular width of the sector.
func (d DimensionPlacement) Sweep() float64 { return d.EndAngle - d.Angle }

// EntityPlacement is the position of one entity.
type EntityPlacement struct {
	ID          string
	Name        string
	DimensionID string
	StageID     string
	Polar
}

// Layout is the positioned output of [Compute]. Slices are ordered:
// rings innermost first, dimensions and entities in cursor order.
type Layout struct {
	Options Options

	// Unit is the radial distance between neighbouring rings.
	Unit float64
	// AngleUnit is the angle taken by one entity.
	AngleUnit float64

	Rings      []Ring
	Dimensions []DimensionPlacement
	Entities   []EntityPlacement

	// SegmentEnd maps a dimension id to its sector's end angle.
	SegmentEnd map[string]float64

	rings      map[string]int
	dimensions map[string]int
	entities   map[string]int
}

// Compute lays out a normalized dataset.
//
// It fails with EMPTY_INPUT when there are neither entities nor
// dimensions, with VALIDATION_FAILED when there are no stages or the
// options are invalid, and with INTERNAL_ERROR if the dataset's lookups
// are inconsistent.
func Compute(ds *radar.Dataset, opts Options) (*Layout, error) {
	if ds == nil || ds.Empty() {
		return nil, errors.New(errors.ErrCodeEmptyInput, "radar has no entities and no dimensions")
	}
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(ds.Stages()) == 0 {
		return nil, errors.Validation("radar has no stages")
	}

	l := &Layout{
		Options:    opts,
		rings:      make(map[string]int, len(ds.Stages())),
		dimensions: make(map[string]int, len(ds.Dimensions())),
		entities:   make(map[string]int, len(ds.Entities())),
		SegmentEnd: make(map[string]float64, len(ds.Dimensions())),
	}

	l.assignRings(ds.Stages())
	if err := l.assignAngles(ds); err != nil {
		return nil, err
	}
	l.assignSegments()
	return l, nil
}

func (l *Layout) assignRings(stages []radar.Stage) {
	o := l.Options
	l.Unit = o.ScaledInnerRadius() / float64(len(stages)+1)

	radius := float64(o.HoleUnits) * l.Unit
	l.Rings = make([]Ring, 0, len(stages))
	for _, s := range stages {
		radius += l.Unit
		l.rings[s.ID] = len(l.Rings)
		l.Rings = append(l.Rings, Ring{
			StageID:    s.ID,
			Name:       s.Name,
			Level:      s.Level,
			RingRadius: radius,
			NodeRadius: radius - l.Unit/2,
		})
	}
}

func (l *Layout) assignAngles(ds *radar.Dataset) error {
	o := l.Options
	dims := ds.Dimensions()
	total := float64(len(ds.Entities())) + o.GapFactor*float64(len(dims))
	l.AngleUnit = 360 / total

	labelRadius := o.ScaledInnerRadius() + *o.LabelOffset
	gap := o.GapFactor * l.AngleUnit
	angle := StartAngle

	l.Dimensions = make([]DimensionPlacement, 0, len(dims))
	l.Entities = make([]EntityPlacement, 0, len(ds.Entities()))
	for _, d := range dims {
		group := ds.EntitiesOf(d.ID)

		angle += gap
		l.dimensions[d.ID] = len(l.Dimensions)
		l.Dimensions = append(l.Dimensions, DimensionPlacement{
			ID:       d.ID,
			Name:     d.Name,
			Polar:    Polar{Radius: labelRadius, Angle: angle},
			Entities: len(group),
		})

		for _, e := range group {
			ring, ok := l.Ring(e.StageID)
			if !ok {
				return errors.Internal("entity %q: stage %q has no ring", e.ID, e.StageID)
			}
			angle += l.AngleUnit
			l.entities[e.ID] = len(l.Entities)
			l.Entities = append(l.Entities, EntityPlacement{
				ID:          e.ID,
				Name:        e.Name,
				DimensionID: e.DimensionID,
				StageID:     e.StageID,
				Polar:       Polar{Radius: ring.NodeRadius, Angle: angle},
			})
		}
	}

	if len(l.Entities) != len(ds.Entities()) {
		return errors.Internal("placed %d of %d entities", len(l.Entities), len(ds.Entities()))
	}
	return nil
}

// assignSegments closes each sector at the start of the next one by
// start angle. The last sector wraps around; a lone sector spans the full
// circle.
func (l *Layout) assignSegments() {
	order := make([]int, len(l.Dimensions))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(l.Dimensions[a].Angle, l.Dimensions[b].Angle)
	})

	for k, i := range order {
		start := l.Dimensions[i].Angle
		next := l.Dimensions[order[(k+1)%len(order)]].Angle
		if next <= start {
			next += 360
		}
		l.Dimensions[i].EndAngle = next
		l.SegmentEnd[l.Dimensions[i].ID] = next
	}
}

// Ring returns the ring of a stage.
func (l *Layout) Ring(stageID string) (Ring, bool) {
	i, ok := l.rings[stageID]
	if !ok {
		return Ring{}, false
	}
	return l.Rings[i], true
}

// Dimension returns the placement of a dimension.
func (l *Layout) Dimension(id string) (DimensionPlacement, bool) {
	i, ok := l.dimensions[id]
	if !ok {
		return DimensionPlacement{}, false
	}
	return l.Dimensions[i], true
}

// Entity returns the placement of an entity.
func (l *Layout) Entity(id string) (EntityPlacement, bool) {
	i, ok := l.entities[id]
	if !ok {
		return EntityPlacement{}, false
	}
	return l.Entities[i], true
}

// OuterRingRadius returns the radius of the outermost ring.
func (l *Layout) OuterRingRadius() float64 {
	if len(l.Rings) == 0 {
		return 0
	}
	return l.Rings[len(l.Rings)-1].RingRadius
}
