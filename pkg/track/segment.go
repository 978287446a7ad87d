package track

import (
	"hoardmap/pkg/geo"
	"hoardmap/pkg/model"
)

// Split partitions a chronologically ordered point sequence into
// spatially contiguous segments. A jump between neighbors larger than
// maxJumpKm closes the current segment and opens a new one: large
// unexplained jumps mean GPS re-acquisition, a device relocated in
// transit, or corrupt data, and must not render as a straight line
// across the gap. An unmeasurable distance (Inf sentinel) always breaks.
//
// Every input point ends up in exactly one segment; dropping segments
// that are too short to render is the document builder's job.
func Split(points []model.TrackPoint, maxJumpKm float64) []model.Segment {
	if len(points) == 0 {
		return nil
	}

	var segments []model.Segment
	current := model.Segment{points[0]}

	for _, pt := range points[1:] {
		prev := current[len(current)-1]
		d := geo.Distance(
			geo.Point{Lat: prev.Lat, Lon: prev.Lon},
			geo.Point{Lat: pt.Lat, Lon: pt.Lon},
		)
		if d > maxJumpKm {
			segments = append(segments, current)
			current = model.Segment{pt}
			continue
		}
		current = append(current, pt)
	}

	return append(segments, current)
}
