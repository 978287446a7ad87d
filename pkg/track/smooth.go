package track

import (
	"time"

	"hoardmap/pkg/model"
)

// Smoother produces a visually smooth point sequence from simplified
// vertices. Implementations must preserve sequence ordering and keep the
// timestamp sequence monotonic with the input.
type Smoother interface {
	Smooth(points model.Segment) model.Segment
}

// ChaikinSmoother applies corner-cutting subdivision: each iteration
// replaces every edge (p0, p1) with two points at the 1/4 and 3/4
// interpolation fractions, for both position and timestamp. The curve
// converges toward a smooth spline while staying inside the convex hull
// of the input, and the endpoints of the whole sequence never move.
type ChaikinSmoother struct {
	Iterations int
}

func (c ChaikinSmoother) Smooth(points model.Segment) model.Segment {
	for iter := 0; iter < c.Iterations; iter++ {
		if len(points) < 2 {
			return points
		}

		smoothed := make(model.Segment, 0, 2+2*(len(points)-1))
		smoothed = append(smoothed, points[0])
		for i := 0; i < len(points)-1; i++ {
			p0, p1 := points[i], points[i+1]
			smoothed = append(smoothed, cut(p0, p1, 0.25), cut(p0, p1, 0.75))
		}
		smoothed = append(smoothed, points[len(points)-1])
		points = smoothed
	}
	return points
}

// cut interpolates between p0 and p1 at fraction t. The new point
// inherits the state snapshot of whichever endpoint it sits closer to.
func cut(p0, p1 model.TrackPoint, t float64) model.TrackPoint {
	st := p0.State
	if t > 0.5 {
		st = p1.State
	}
	return model.TrackPoint{
		Lon:       (1-t)*p0.Lon + t*p1.Lon,
		Lat:       (1-t)*p0.Lat + t*p1.Lat,
		Timestamp: lerpTime(p0.Timestamp, p1.Timestamp, t),
		State:     st,
	}
}

func lerpTime(t0, t1 time.Time, t float64) time.Time {
	return t0.Add(time.Duration(t * float64(t1.Sub(t0)))).UTC()
}

// WindowSmoother replaces each position with the average over a centered
// window of neighbors, clipped at the sequence boundaries. It runs a
// single pass, keeps every original timestamp and state, and passes the
// sequence through unchanged when it is shorter than the window.
type WindowSmoother struct {
	Window int
}

func (w WindowSmoother) Smooth(points model.Segment) model.Segment {
	if w.Window < 2 || len(points) < w.Window {
		return points
	}

	half := w.Window / 2
	out := make(model.Segment, len(points))
	for i, pt := range points {
		lo := max(0, i-half)
		hi := min(len(points)-1, i+half)

		var lon, lat float64
		for j := lo; j <= hi; j++ {
			lon += points[j].Lon
			lat += points[j].Lat
		}
		n := float64(hi - lo + 1)

		out[i] = pt
		out[i].Lon = lon / n
		out[i].Lat = lat / n
	}
	return out
}
