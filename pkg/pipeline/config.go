package pipeline

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/polaris/pkg/errors"
)

// LoadConfig reads pipeline options from a TOML file. Keys use the same
// names as the JSON API:
//
//	scale = 1.5
//	hole_units = 1
//	formats = ["svg", "json"]
//	ring_labels = true
//
// Unknown keys are rejected so typos do not silently fall back to
// defaults.
func LoadConfig(path string) (Options, error) {
	var opts Options
	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		if os.IsNotExist(err) {
			return Options{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Options{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return opts, nil
}

// LoadDefaultConfig reads [DefaultConfigFile] from the working directory.
// A missing file yields zero options.
func LoadDefaultConfig() (Options, error) {
	opts, err := LoadConfig(DefaultConfigFile)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return Options{}, nil
	}
	return opts, err
}

// Merge overlays the non-zero fields of override onto o. A non-nil
// LabelOffset wins even when it points at zero. Slices are
// replaced, not appended; booleans can only be switched on.
func (o Options) Merge(override Options) Options {
	if override.InnerRadius != 0 {
		o.InnerRadius = override.InnerRadius
	}
	if override.Scale != 0 {
		o.Scale = override.Scale
	}
	if override.GapFactor != 0 {
		o.GapFactor = override.GapFactor
	}
	if override.LabelOffset != nil {
		o.LabelOffset = override.LabelOffset
	}
	if override.HoleUnits != 0 {
		o.HoleUnits = override.HoleUnits
	}
	if override.MarkerRadius != 0 {
		o.MarkerRadius = override.MarkerRadius
	}
	if override.OuterRadius != 0 {
		o.OuterRadius = override.OuterRadius
	}
	if override.Zoom != 0 {
		o.Zoom = override.Zoom
	}
	if override.Title != "" {
		o.Title = override.Title
	}
	if len(override.Formats) > 0 {
		o.Formats = override.Formats
	}
	o.HideConnectors = o.HideConnectors || override.HideConnectors
	o.RingLabels = o.RingLabels || override.RingLabels
	o.Detailed = o.Detailed || override.Detailed
	o.Refresh = o.Refresh || override.Refresh
	if override.Logger != nil {
		o.Logger = override.Logger
	}
	o.validated = false
	return o
}
