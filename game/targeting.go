package game

import "math"

// Target is a read-only view of something a zombie can chase.
type Target struct {
	ID  string
	Pos Vec
}

func Distance(a, b Vec) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// ResolveTarget picks the nearest player inside PlayerAggroRadius, falling
// back to the nearest building inside BuildingAggroRadius. Equal distances
// resolve to whichever comes first in the slice.
func ResolveTarget(pos Vec, players, buildings []Target) (string, bool) {
	if id, d, ok := nearest(pos, players); ok && d < PlayerAggroRadius {
		return id, true
	}
	if id, d, ok := nearest(pos, buildings); ok && d < BuildingAggroRadius {
		return id, true
	}
	return "", false
}

func nearest(pos Vec, ts []Target) (string, float64, bool) {
	best := math.Inf(1)
	idx := -1
	for i, t := range ts {
		if d := Distance(pos, t.Pos); d < best {
			best = d
			idx = i
		}
	}
	if idx < 0 {
		return "", best, false
	}
	return ts[idx].ID, best, true
}
