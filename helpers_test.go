package lpastar

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

const lethal = 254

func newTestPlanner(t *testing.T, width, height int, options ...Option) *Planner {
	t.Helper()
	options = append([]Option{WithResolution(1), WithVerifyInvariants(true)}, options...)
	p, err := NewPlanner(width, height, options...)
	require.NoError(t, err)
	return p
}

func freeMap(width, height int) Costmap { return make(Costmap, width*height) }

func block(costmap Costmap, width int, cells ...Cell) {
	for _, c := range cells {
		costmap[c.Y*width+c.X] = lethal
	}
}

// randomMap fills roughly density of the cells with lethal cost, keeping
// the given cells free.
func randomMap(rng *rand.Rand, width, height int, density float64, keep ...Cell) Costmap {
	costmap := freeMap(width, height)
	for i := range costmap {
		if rng.Float64() < density {
			costmap[i] = lethal
		}
	}
	for _, c := range keep {
		costmap[c.Y*width+c.X] = 0
	}
	return costmap
}

func octile(a, b Cell) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dy := math.Abs(float64(a.Y - b.Y))
	return math.Sqrt2*math.Min(dx, dy) + math.Abs(dx-dy)
}

// requireValidPath checks that path is a connected 8-neighbor walk from
// first to last that never enters a lethal cell.
func requireValidPath(t *testing.T, costmap Costmap, width int, path []Cell, first, last Cell) {
	t.Helper()
	require.NotEmpty(t, path)
	require.Equal(t, first, path[0])
	require.Equal(t, last, path[len(path)-1])
	for i, c := range path {
		require.Less(t, costmap[c.Y*width+c.X], byte(lethal), "path enters lethal cell %v", c)
		if i == 0 {
			continue
		}
		prev := path[i-1]
		dx, dy := abs(c.X-prev.X), abs(c.Y-prev.Y)
		require.True(t, max(dx, dy) == 1, "path jumps from %v to %v", prev, c)
	}
}

func plan(t *testing.T, p *Planner, costmap Costmap, start, goal Cell) (Result, error) {
	t.Helper()
	result, err := p.Plan(context.Background(), costmap, start, goal)
	require.NoError(t, p.CheckInvariants())
	return result, err
}
