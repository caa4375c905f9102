// Package internal holds the grid bookkeeping shared by the planner:
// coordinate/id conversion, bounds checks and parent-chain walking.
package internal

// Index returns the row-major linear id of (x, y) on a grid of the given width.
func Index(x, y, width int) int { return y*width + x }

// Coords is the inverse of Index.
func Coords(id, width int) (x, y int) { return id % width, id / width }

// InBounds reports whether (x, y) lies inside a width x height grid.
func InBounds(x, y, width, height int) bool {
	return x >= 0 && x < width && y >= 0 && y < height
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
