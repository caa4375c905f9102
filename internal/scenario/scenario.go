// Package scenario reads planning scenarios: grid size, resolution, start,
// goal and the costmap, from YAML files.
//
// The costmap is given as ASCII rows, row 0 being y = 0, and/or obstacle
// rectangles painted over them:
//
//	resolution: 0.05
//	start: [0, 0]
//	goal: {x: 4, y: 4}
//	rows:
//	  - "....."
//	  - "..#.."
//	  - "..5.."
//	obstacles:
//	  - {x: 0, y: 2, w: 2, h: 1}
//
// In rows '.' is free, '#' is lethal and a digit d costs d*25.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pdrpinto/lpastar"
)

// Cell values produced by the ASCII costmap.
const (
	FreeCost   = 0
	LethalCost = 255
	digitCost  = 25
)

// ErrInvalidScenario is returned for scenarios that cannot be planned on.
var ErrInvalidScenario = errors.New("invalid scenario")

// Point is a grid coordinate written either as [x, y] or {x: .., y: ..}.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// UnmarshalYAML accepts both the sequence and the mapping form.
func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var xy []int
		if err := value.Decode(&xy); err != nil {
			return err
		}
		if len(xy) != 2 {
			return fmt.Errorf("line %d: point needs 2 coordinates, got %d", value.Line, len(xy))
		}
		p.X, p.Y = xy[0], xy[1]
		return nil
	}
	type plain Point
	return value.Decode((*plain)(p))
}

// Cell converts the point to a planner cell.
func (p Point) Cell() lpastar.Cell { return lpastar.Cell{X: p.X, Y: p.Y} }

// Rect paints cells [X, X+W) x [Y, Y+H) with Cost, lethal when unset.
type Rect struct {
	X    int  `yaml:"x"`
	Y    int  `yaml:"y"`
	W    int  `yaml:"w"`
	H    int  `yaml:"h"`
	Cost *int `yaml:"cost,omitempty"`
}

// Scenario is one planning problem.
type Scenario struct {
	Width      int      `yaml:"width"`
	Height     int      `yaml:"height"`
	Resolution float64  `yaml:"resolution"`
	Start      Point    `yaml:"start"`
	Goal       Point    `yaml:"goal"`
	Rows       []string `yaml:"rows"`
	Obstacles  []Rect   `yaml:"obstacles"`

	costmap lpastar.Costmap
}

// Load reads and parses the scenario file at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scenario and builds its costmap.
func Parse(data []byte) (*Scenario, error) {
	s := &Scenario{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if err := s.build(); err != nil {
		return nil, err
	}
	return s, nil
}

// Costmap returns the scenario's costmap. The slice is shared; callers
// that modify it should copy first.
func (s *Scenario) Costmap() lpastar.Costmap { return s.costmap }

func (s *Scenario) build() error {
	if len(s.Rows) > 0 {
		if s.Height == 0 {
			s.Height = len(s.Rows)
		}
		if s.Width == 0 {
			s.Width = len(s.Rows[0])
		}
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: grid size %dx%d", ErrInvalidScenario, s.Width, s.Height)
	}
	if len(s.Rows) > 0 && len(s.Rows) != s.Height {
		return fmt.Errorf("%w: %d rows for height %d", ErrInvalidScenario, len(s.Rows), s.Height)
	}

	s.costmap = make(lpastar.Costmap, s.Width*s.Height)
	for y, row := range s.Rows {
		if len(row) != s.Width {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidScenario, y, len(row), s.Width)
		}
		for x, ch := range []byte(row) {
			cost, err := cellCost(ch)
			if err != nil {
				return fmt.Errorf("%w: row %d col %d: %w", ErrInvalidScenario, y, x, err)
			}
			s.costmap[y*s.Width+x] = cost
		}
	}

	for i, r := range s.Obstacles {
		cost := LethalCost
		if r.Cost != nil {
			cost = *r.Cost
		}
		if cost < 0 || cost > 255 {
			return fmt.Errorf("%w: obstacle %d cost %d", ErrInvalidScenario, i, cost)
		}
		for y := max(r.Y, 0); y < min(r.Y+r.H, s.Height); y++ {
			for x := max(r.X, 0); x < min(r.X+r.W, s.Width); x++ {
				s.costmap[y*s.Width+x] = byte(cost)
			}
		}
	}

	for name, p := range map[string]Point{"start": s.Start, "goal": s.Goal} {
		if p.X < 0 || p.X >= s.Width || p.Y < 0 || p.Y >= s.Height {
			return fmt.Errorf("%w: %s (%d, %d) outside %dx%d grid", ErrInvalidScenario, name, p.X, p.Y, s.Width, s.Height)
		}
	}
	if s.Start == s.Goal {
		return fmt.Errorf("%w: start equals goal", ErrInvalidScenario)
	}
	return nil
}

func cellCost(ch byte) (byte, error) {
	switch {
	case ch == '.' || ch == ' ':
		return FreeCost, nil
	case ch == '#':
		return LethalCost, nil
	case ch >= '0' && ch <= '9':
		return (ch - '0') * digitCost, nil
	default:
		return 0, fmt.Errorf("unknown cell %q", ch)
	}
}
