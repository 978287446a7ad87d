package state

import (
	"testing"
	"time"

	"hoardmap/pkg/model"
)

func validState() model.State {
	return model.State{
		"location": map[string]any{
			"longitude": 13.405,
			"latitude":  52.52,
		},
		"diagnostics": map[string]any{
			"timestamps": map[string]any{
				"device_event_timestamp_utc": "18.06.2024 14:03:55 UTC",
			},
		},
	}
}

func TestExtractPoint(t *testing.T) {
	pt, ok := ExtractPoint(validState())
	if !ok {
		t.Fatal("ExtractPoint() failed on valid state")
	}
	if pt.Lon != 13.405 || pt.Lat != 52.52 {
		t.Errorf("coordinates = (%v, %v), want (13.405, 52.52)", pt.Lon, pt.Lat)
	}
	want := time.Date(2024, 6, 18, 14, 3, 55, 0, time.UTC)
	if !pt.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", pt.Timestamp, want)
	}
	if pt.Timestamp.Location() != time.UTC {
		t.Errorf("Timestamp zone = %v, want UTC", pt.Timestamp.Location())
	}
}

func TestExtractPoint_NumericStrings(t *testing.T) {
	s := validState()
	s["location"] = map[string]any{
		"longitude": "13.405",
		"latitude":  "52.52",
	}

	pt, ok := ExtractPoint(s)
	if !ok {
		t.Fatal("ExtractPoint() should accept numeric string coordinates")
	}
	if pt.Lon != 13.405 || pt.Lat != 52.52 {
		t.Errorf("coordinates = (%v, %v), want (13.405, 52.52)", pt.Lon, pt.Lat)
	}
}

func TestExtractPoint_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(model.State)
	}{
		{
			name:   "MissingLocation",
			mutate: func(s model.State) { delete(s, "location") },
		},
		{
			name: "MissingLatitude",
			mutate: func(s model.State) {
				delete(s["location"].(map[string]any), "latitude")
			},
		},
		{
			name: "NonNumericLongitude",
			mutate: func(s model.State) {
				s["location"].(map[string]any)["longitude"] = "not-a-number"
			},
		},
		{
			name:   "MissingDiagnostics",
			mutate: func(s model.State) { delete(s, "diagnostics") },
		},
		{
			name: "UnparsableTimestamp",
			mutate: func(s model.State) {
				s["diagnostics"].(map[string]any)["timestamps"].(map[string]any)["device_event_timestamp_utc"] = "2024-06-18T14:03:55Z"
			},
		},
		{
			name: "TimestampWrongType",
			mutate: func(s model.State) {
				s["diagnostics"].(map[string]any)["timestamps"].(map[string]any)["device_event_timestamp_utc"] = 1718719435
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validState()
			tt.mutate(s)
			if _, ok := ExtractPoint(s); ok {
				t.Error("ExtractPoint() = ok, want invalid")
			}
		})
	}
}
