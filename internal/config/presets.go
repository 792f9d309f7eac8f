package config

import "sort"

// Preset is a named body with its aerodynamic properties.
type Preset struct {
	Description     string
	Mass            float64
	Height          float64
	Area            float64
	DragCoefficient float64
}

var Presets = map[string]Preset{
	"ball": {
		Description: "1 kg ball from 10 m",
		Mass:        1, Height: 10, Area: 0.01, DragCoefficient: 0.47,
	},
	"feather": {
		Description: "5 g feather from 2 m",
		Mass:        0.005, Height: 2, Area: 0.01, DragCoefficient: 1.3,
	},
	"coin": {
		Description: "coin from the top of a 300 m tower",
		Mass:        0.0075, Height: 300, Area: 0.00046, DragCoefficient: 1.17,
	},
	"raindrop": {
		Description: "2 mm raindrop from 1000 m",
		Mass:        3.4e-5, Height: 1000, Area: 3.1e-6, DragCoefficient: 0.47,
	},
	"bowling_ball": {
		Description: "7 kg bowling ball from 50 m",
		Mass:        7, Height: 50, Area: 0.037, DragCoefficient: 0.47,
	},
	"skydiver": {
		Description: "belly-down skydiver from 3000 m",
		Mass:        80, Height: 3000, Area: 0.7, DragCoefficient: 1.0,
	},
}

func GetPreset(name string) (Preset, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
