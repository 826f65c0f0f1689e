package radar

import (
	"cmp"
	"slices"

	"github.com/matzehuels/polaris/pkg/errors"
)

// Entity is a single item plotted on the radar.
type Entity struct {
	ID          string
	Name        string
	DimensionID string
	StageID     string
}

// Dimension is a categorical grouping that owns one angular sector.
type Dimension struct {
	ID   string
	Name string
}

// Stage is an ordered category mapped to one ring. Lower levels are inner
// rings.
type Stage struct {
	ID    string
	Name  string
	Level int
}

// Dataset is the validated, ordered form of a radar's input records.
//
// The zero value is an empty dataset with no lookups; use [Normalize] to
// build one. A Dataset is immutable after construction and safe for
// concurrent reads.
type Dataset struct {
	entities   []Entity
	dimensions []Dimension
	stages     []Stage

	dimIndex   map[string]int
	stageIndex map[string]int
}

// Normalize validates the records and returns them as an ordered Dataset.
// The argument slices are copied, never modified.
func Normalize(entities []Entity, dimensions []Dimension, stages []Stage) (*Dataset, error) {
	var problems errors.Problems

	ds := &Dataset{
		entities:   slices.Clone(entities),
		dimensions: slices.Clone(dimensions),
		stages:     slices.Clone(stages),
		dimIndex:   make(map[string]int, len(dimensions)),
		stageIndex: make(map[string]int, len(stages)),
	}

	slices.SortStableFunc(ds.dimensions, func(a, b Dimension) int {
		return cmp.Compare(a.ID, b.ID)
	})
	for i, d := range ds.dimensions {
		if err := errors.ValidateID("dimension", d.ID); err != nil {
			problems.Addf("%s", errors.UserMessage(err))
			continue
		}
		if _, dup := ds.dimIndex[d.ID]; dup {
			problems.Addf("duplicate dimension id %q", d.ID)
			continue
		}
		ds.dimIndex[d.ID] = i
	}

	slices.SortStableFunc(ds.stages, func(a, b Stage) int {
		return cmp.Compare(a.Level, b.Level)
	})
	levels := make(map[int]string, len(ds.stages))
	for i, s := range ds.stages {
		if err := errors.ValidateID("stage", s.ID); err != nil {
			problems.Addf("%s", errors.UserMessage(err))
			continue
		}
		if _, dup := ds.stageIndex[s.ID]; dup {
			problems.Addf("duplicate stage id %q", s.ID)
			continue
		}
		// A tied stage is still indexed so its entities are not also
		// reported as unknown.
		ds.stageIndex[s.ID] = i
		if other, tied := levels[s.Level]; tied {
			problems.Addf("stages %q and %q share level %d", other, s.ID, s.Level)
			continue
		}
		levels[s.Level] = s.ID
	}

	seen := make(map[string]bool, len(ds.entities))
	for _, e := range ds.entities {
		if err := errors.ValidateID("entity", e.ID); err != nil {
			problems.Addf("%s", errors.UserMessage(err))
			continue
		}
		if seen[e.ID] {
			problems.Addf("duplicate entity id %q", e.ID)
		}
		seen[e.ID] = true
		if _, ok := ds.dimIndex[e.DimensionID]; !ok {
			problems.Addf("entity %q: unknown dimension %q", e.ID, e.DimensionID)
		}
		if _, ok := ds.stageIndex[e.StageID]; !ok {
			problems.Addf("entity %q: unknown stage %q", e.ID, e.StageID)
		}
	}

	if err := problems.Err(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(ds.entities, compareEntities)
	return ds, nil
}

// compareEntities orders by dimension id, then stage id.
func compareEntities(a, b Entity) int {
	if c := cmp.Compare(a.DimensionID, b.DimensionID); c != 0 {
		return c
	}
	return cmp.Compare(a.StageID, b.StageID)
}

// Entities returns the entities in layout order. The slice must not be
// modified.
func (d *Dataset) Entities() []Entity { return d.entities }

// Dimensions returns the dimensions ordered by id.
func (d *Dataset) Dimensions() []Dimension { return d.dimensions }

// Stages returns the stages ordered by level, innermost first.
func (d *Dataset) Stages() []Stage { return d.stages }

// Dimension looks up a dimension by id.
func (d *Dataset) Dimension(id string) (Dimension, bool) {
	i, ok := d.dimIndex[id]
	if !ok {
		return Dimension{}, false
	}
	return d.dimensions[i], true
}

// Stage looks up a stage by id.
func (d *Dataset) Stage(id string) (Stage, bool) {
	i, ok := d.stageIndex[id]
	if !ok {
		return Stage{}, false
	}
	return d.stages[i], true
}

// StageIndex returns the ring position of a stage (0 = innermost).
func (d *Dataset) StageIndex(id string) (int, bool) {
	i, ok := d.stageIndex[id]
	return i, ok
}

// EntitiesOf returns the entities of one dimension, in layout order.
// Entities are sorted by dimension id so each group is contiguous.
func (d *Dataset) EntitiesOf(dimensionID string) []Entity {
	lo, _ := slices.BinarySearchFunc(d.entities, dimensionID, func(e Entity, id string) int {
		return cmp.Compare(e.DimensionID, id)
	})
	hi := lo
	for hi < len(d.entities) && d.entities[hi].DimensionID == dimensionID {
		hi++
	}
	return d.entities[lo:hi]
}

// Empty reports whether there is nothing to lay out: no entities and no
// dimensions.
func (d *Dataset) Empty() bool {
	return len(d.entities) == 0 && len(d.dimensions) == 0
}
