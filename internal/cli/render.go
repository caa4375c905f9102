package cli

import (
	"io"
	"strings"

	"github.com/pdrpinto/lpastar"
	"github.com/pdrpinto/lpastar/internal/scenario"
)

// Render draws the scenario grid with the planned path. Lethal cells are
// '#', costed cells their cost digit, path cells '*', start 'S', goal 'G'
// and, when expand is set, expanded cells '+'.
func Render(w io.Writer, s *scenario.Scenario, result lpastar.Result, lethal byte, expand bool) {
	costmap := s.Costmap()
	grid := make([][]byte, s.Height)
	for y := range grid {
		grid[y] = make([]byte, s.Width)
		for x := range grid[y] {
			cost := costmap[y*s.Width+x]
			switch {
			case cost >= lethal:
				grid[y][x] = '#'
			case cost > 0:
				grid[y][x] = '0' + min(cost/25, 9)
			default:
				grid[y][x] = '.'
			}
		}
	}
	if expand {
		for _, c := range result.Expand {
			grid[c.Y][c.X] = '+'
		}
	}
	for _, c := range result.Path {
		grid[c.Y][c.X] = '*'
	}
	grid[s.Start.Y][s.Start.X] = 'S'
	grid[s.Goal.Y][s.Goal.X] = 'G'

	var sb strings.Builder
	for _, row := range grid {
		sb.Write(row)
		sb.WriteByte('\n')
	}
	_, _ = io.WriteString(w, sb.String())
}
