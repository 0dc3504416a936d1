package config

import "sort"

var Presets = map[string]map[string]*Config{
	KindLP: {
		"bounded": {
			Name: "bounded", Kind: KindLP,
			A: [][]float64{{1, 1}, {1, 0}, {0, 1}},
			B: []float64{4, 2, 3},
			C: []float64{3, 2},
		},
		"unbounded": {
			Name: "unbounded", Kind: KindLP,
			A: [][]float64{{-1, 1}},
			B: []float64{1},
			C: []float64{1, 0},
		},
		"brewer": {
			Name: "brewer", Kind: KindLP,
			A: [][]float64{{5, 15}, {4, 4}, {35, 20}},
			B: []float64{480, 160, 1190},
			C: []float64{13, 23},
		},
		"three-var": {
			Name: "three-var", Kind: KindLP,
			A: [][]float64{{-1, 1, 0}, {1, 4, 0}, {2, 1, 0}, {3, -4, 0}, {0, 0, 1}},
			B: []float64{5, 45, 27, 24, 4},
			C: []float64{1, 1, 1},
		},
		"cycling": {
			Name: "cycling", Kind: KindLP,
			A: [][]float64{{0.5, -5.5, -2.5, 9}, {0.5, -1.5, -0.5, 1}, {1, 0, 0, 0}},
			B: []float64{0, 0, 1},
			C: []float64{10, -57, -9, -24},
		},
		"unbounded-4": {
			Name: "unbounded-4", Kind: KindLP,
			A: [][]float64{{-2, -9, 1, 9}, {1, 1, -1, -2}},
			B: []float64{3, 2},
			C: []float64{2, 3, -1, -12},
		},
		"tie": {
			Name: "tie", Kind: KindLP,
			A: [][]float64{{1, 1}, {1, 1}, {1, 0}},
			B: []float64{2, 2, 1},
			C: []float64{1, 1},
		},
	},
	KindGame: {
		"rps": {
			Name: "rps", Kind: KindGame,
			Payoff: [][]float64{{0, -1, 1}, {1, 0, -1}, {-1, 1, 0}},
		},
		"skewed": {
			Name: "skewed", Kind: KindGame,
			Payoff: [][]float64{{3, -1}, {-2, 1}},
		},
		"pennies": {
			Name: "pennies", Kind: KindGame,
			Payoff: [][]float64{{1, -1}, {-1, 1}},
		},
		"saddle": {
			Name: "saddle", Kind: KindGame,
			Payoff: [][]float64{{2, 3}, {1, 4}},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(kind, preset string) *Config {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	cfg, ok := kindPresets[preset]
	if !ok {
		return nil
	}
	out := cfg.Clone()
	if out.MaxPivots == 0 {
		out.MaxPivots = DefaultMaxPivots
	}
	return out
}

// FindPreset looks a preset up by name across all kinds, LPs first.
func FindPreset(name string) *Config {
	for _, kind := range []string{KindLP, KindGame} {
		if cfg := GetPreset(kind, name); cfg != nil {
			return cfg
		}
	}
	return nil
}

func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
