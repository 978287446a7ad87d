package state

import (
	"strconv"
	"time"

	"hoardmap/pkg/model"
)

// TimestampLayout is the textual date-time pattern the device firmware
// writes into diagnostics.timestamps.device_event_timestamp_utc.
const TimestampLayout = "02.01.2006 15:04:05 MST"

// ExtractPoint pulls a validated (lon, lat, timestamp, state) tuple out
// of a reconstructed full state. It returns ok=false for any missing
// field, wrong type, or unparsable timestamp; partial updates without a
// location are common and must not halt processing of the remaining
// history. The snapshot s must already be detached (see Reconstructor).
func ExtractPoint(s model.State) (model.TrackPoint, bool) {
	loc, ok := asMap(s["location"])
	if !ok {
		return model.TrackPoint{}, false
	}
	lon, ok := toFloat(loc["longitude"])
	if !ok {
		return model.TrackPoint{}, false
	}
	lat, ok := toFloat(loc["latitude"])
	if !ok {
		return model.TrackPoint{}, false
	}

	diag, ok := asMap(s["diagnostics"])
	if !ok {
		return model.TrackPoint{}, false
	}
	stamps, ok := asMap(diag["timestamps"])
	if !ok {
		return model.TrackPoint{}, false
	}
	raw, ok := stamps["device_event_timestamp_utc"].(string)
	if !ok {
		return model.TrackPoint{}, false
	}
	ts, err := time.Parse(TimestampLayout, raw)
	if err != nil {
		return model.TrackPoint{}, false
	}

	return model.TrackPoint{
		Lon:       lon,
		Lat:       lat,
		Timestamp: ts.UTC(),
		State:     s,
	}, true
}

// toFloat accepts the numeric shapes JSON decoding can produce, plus
// numeric strings, which some firmware revisions emit for coordinates.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
