package track

import (
	"hoardmap/pkg/geo"
	"hoardmap/pkg/model"
)

// Simplify reduces a segment's vertex count with the Ramer-Douglas-Peucker
// algorithm: the point farthest from the chord between the first and last
// points is kept if it deviates more than epsilon, and the two halves are
// processed the same way; otherwise the whole run collapses to its
// endpoints. The perpendicular distance is planar in lon/lat degree space,
// matching the units epsilon was tuned in.
//
// The divide-and-conquer runs on an explicit work stack, so segment length
// never translates into call-stack depth. Ties break on the first index
// reaching the maximum, scanning left to right, which keeps output
// deterministic. Inputs shorter than 3 points are returned unchanged.
func Simplify(points model.Segment, epsilon float64) model.Segment {
	if len(points) < 3 {
		return points
	}

	keep := make([]bool, len(points))
	keep[0] = true
	keep[len(points)-1] = true

	type span struct{ first, last int }
	stack := []span{{0, len(points) - 1}}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.last-s.first < 2 {
			continue
		}

		start := geo.Point{Lat: points[s.first].Lat, Lon: points[s.first].Lon}
		end := geo.Point{Lat: points[s.last].Lat, Lon: points[s.last].Lon}

		maxDist := 0.0
		maxIdx := 0
		for i := s.first + 1; i < s.last; i++ {
			d := geo.PerpendicularDistance(geo.Point{Lat: points[i].Lat, Lon: points[i].Lon}, start, end)
			if d > maxDist {
				maxDist = d
				maxIdx = i
			}
		}

		if maxDist > epsilon {
			keep[maxIdx] = true
			stack = append(stack, span{s.first, maxIdx}, span{maxIdx, s.last})
		}
	}

	out := make(model.Segment, 0, len(points))
	for i, pt := range points {
		if keep[i] {
			out = append(out, pt)
		}
	}
	return out
}
