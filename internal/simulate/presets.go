package simulate

import (
	"sort"

	"github.com/dmitriimaksimovdevelop/aquanova/internal/model"
)

// Preset is a named set of parameter overrides applied to a baseline.
type Preset struct {
	Name        string
	Description string
	Overrides   Overrides
}

// presets contains the built-in what-if scenarios.
var presets = map[string]Preset{
	"normal": {
		Name:        "normal",
		Description: "Baseline conditions, no changes",
		Overrides:   Overrides{},
	},
	"hypoxia": {
		Name:        "hypoxia",
		Description: "Aerator failure overnight",
		Overrides: Overrides{
			model.DissolvedOxygen: 3.5,
			model.Temperature:     31,
		},
	},
	"ammonia-spike": {
		Name:        "ammonia-spike",
		Description: "Overfeeding with a stalled bio-filter",
		Overrides: Overrides{
			model.Ammonia: 0.08,
			model.PH:      8.3,
		},
	},
	"heatwave": {
		Name:        "heatwave",
		Description: "Several days of extreme air temperature",
		Overrides: Overrides{
			model.Temperature:     35.5,
			model.DissolvedOxygen: 5.2,
		},
	},
	"storm-runoff": {
		Name:        "storm-runoff",
		Description: "Heavy rain washing sediment into the pond",
		Overrides: Overrides{
			model.Turbidity: 32,
			model.PH:        6.6,
			model.Salinity:  8,
		},
	},
}

// GetPreset returns the preset for the given name.
// Falls back to "normal" if unknown.
func GetPreset(name string) Preset {
	if p, ok := presets[name]; ok {
		return p
	}
	return presets["normal"]
}

// PresetNames returns the available preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
