// Package radar defines the input records of a radar chart and the
// normalizer that turns them into a validated, deterministically ordered
// [Dataset].
//
// A radar places entities on concentric rings and angular sectors:
//
//   - A [Stage] is an ordered category (its Level). Each stage becomes one
//     ring; lower levels sit closer to the centre.
//   - A [Dimension] is a categorical grouping. Each dimension owns one
//     contiguous sector of the circle.
//   - An [Entity] belongs to exactly one dimension and one stage.
//
// # Normalization
//
// [Normalize] never mutates its arguments. It copies the records, rejects
// malformed input and sorts:
//
//   - entities by dimension id, then stage id (byte-wise), stable for ties
//   - dimensions by id
//   - stages by level
//
// All problems found are reported together in one VALIDATION_FAILED error
// from [github.com/matzehuels/polaris/pkg/errors].
//
// The positioned output lives in the layout subpackage; the records here
// stay free of computed coordinates.
package radar
