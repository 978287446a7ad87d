package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hoardmap/pkg/model"
)

func TestPrune_FullProjection(t *testing.T) {
	s := model.State{
		"identity": map[string]any{
			"device_name": "pixel-7",
			"serial":      "SECRET-123",
		},
		"power": map[string]any{
			"battery_percent": 81,
			"voltage_mv":      4120,
		},
		"network": map[string]any{
			"type":     "cellular",
			"operator": "TestNet",
			"cellular": map[string]any{
				"signal_strength": -97,
				"cell_id":         "deadbeef",
			},
		},
		"environment": map[string]any{
			"weather": map[string]any{
				"description": "light rain",
				"temperature": 14.5,
				"assessment":  "poor",
				"humidity":    88,
				"station_id":  "internal",
			},
			"wind": map[string]any{
				"speed":       3.4,
				"description": "gentle breeze",
				"direction":   "NW",
			},
		},
		"diagnostics": map[string]any{"verbose": "blob"},
	}

	got := Prune(s)

	want := model.State{
		"identity": map[string]any{"device_name": "pixel-7"},
		"power":    map[string]any{"battery_percent": 81},
		"network": map[string]any{
			"type":            "cellular",
			"operator":        "TestNet",
			"signal_strength": -97,
		},
		"environment": map[string]any{
			"weather": map[string]any{
				"description": "light rain",
				"temperature": 14.5,
				"assessment":  "poor",
				"humidity":    88,
			},
			"wind": map[string]any{
				"speed":       3.4,
				"description": "gentle breeze",
				"direction":   "NW",
			},
		},
	}
	assert.Equal(t, want, got)
}

func TestPrune_PartialAndEmpty(t *testing.T) {
	tests := []struct {
		name string
		in   model.State
		want model.State
	}{
		{
			name: "NilState",
			in:   nil,
			want: model.State{},
		},
		{
			name: "EmptyState",
			in:   model.State{},
			want: model.State{},
		},
		{
			name: "AllGroupsMissing",
			in:   model.State{"diagnostics": map[string]any{"x": 1}},
			want: model.State{},
		},
		{
			name: "NetworkWithoutCellular",
			in: model.State{
				"network": map[string]any{"type": "wifi"},
			},
			want: model.State{
				"network": map[string]any{"type": "wifi"},
			},
		},
		{
			name: "GroupWrongType",
			in:   model.State{"identity": "bogus", "power": 7},
			want: model.State{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Prune(tt.in))
		})
	}
}
