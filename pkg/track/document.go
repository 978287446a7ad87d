package track

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"hoardmap/pkg/model"
	"hoardmap/pkg/state"
)

// Pipeline holds the per-segment processing parameters. One Pipeline is
// shared read-only across device runs.
type Pipeline struct {
	MaxJumpKm     float64
	Epsilon       float64
	MinPoints     int
	Smoother      Smoother
	IncludeStates bool
}

// BuildDocument turns a device's chronologically ordered track points
// into a GeoJSON feature collection: split into contiguous segments,
// simplify, smooth, and emit one LineString feature per surviving
// segment, in discovery order. Zero surviving segments still yield a
// well-formed empty collection; "no track" is a valid result distinct
// from "device does not exist".
func (p *Pipeline) BuildDocument(points []model.TrackPoint) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, seg := range Split(points, p.MaxJumpKm) {
		if len(seg) < p.MinPoints {
			continue
		}
		simplified := Simplify(seg, p.Epsilon)
		smoothed := p.Smoother.Smooth(simplified)
		fc.Append(p.feature(smoothed))
	}

	return fc
}

// feature builds one LineString feature with parallel, index-aligned
// time and states property arrays.
func (p *Pipeline) feature(seg model.Segment) *geojson.Feature {
	line := make(orb.LineString, len(seg))
	times := make([]string, len(seg))
	var states []model.State
	if p.IncludeStates {
		states = make([]model.State, len(seg))
	}

	for i, pt := range seg {
		line[i] = orb.Point{pt.Lon, pt.Lat}
		times[i] = pt.Timestamp.UTC().Format(time.RFC3339)
		if p.IncludeStates {
			states[i] = state.Prune(pt.State)
		}
	}

	f := geojson.NewFeature(line)
	f.Properties["time"] = times
	if p.IncludeStates {
		f.Properties["states"] = states
	}
	return f
}
