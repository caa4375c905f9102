package lpastar

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
)

// Default planner parameters. DefaultWindowSize covers 3.5 m at 0.05 m/cell.
const (
	DefaultResolution = 0.05
	DefaultWindowSize = 70
	DefaultLethalCost = 253
)

// inf is the sentinel cost of unreached or blocked cells.
var inf = math.Inf(1)

// Cell is a grid coordinate.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Node is the positional record of a planned cell: coordinates, cost from
// start, heuristic cost to goal, linear id and parent id (-1 for none).
type Node struct {
	X     int
	Y     int
	Cost  float64
	HCost float64
	ID    int
	PID   int
}

// Cell returns the node's coordinate.
func (n Node) Cell() Cell { return Cell{X: n.X, Y: n.Y} }

// Costmap is a row-major grid of per-cell costs, one byte per cell.
type Costmap []byte

// Result contains the outcome of a Plan call.
type Result struct {
	// Path runs from the robot's cell (or the closest path cell to it) to the goal.
	Path []Cell
	// Expand lists the cells expanded by this call, in expansion order.
	Expand []Cell
	// Cost is the cost of Path.
	Cost  float64
	Found bool
}

// Options defines parameters for the planner.
type Options struct {
	// Resolution is the cell size in meters.
	Resolution float64
	// WindowSize is the side, in cells, of the square inspected for
	// costmap changes around the robot on incremental calls.
	WindowSize int
	// LethalCost is the byte value at or above which a cell is impassable.
	LethalCost byte
	// CostFactor inflates edge costs by the mean cell cost of both
	// endpoints. Zero disables inflation.
	CostFactor float64
	// VerifyInvariants runs CheckInvariants after every repair.
	VerifyInvariants bool
	Logger           *slog.Logger
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithResolution sets the cell size in meters.
func WithResolution(resolution float64) Option {
	return func(options *Options) { options.Resolution = resolution }
}

// WithWindowSize sets the side of the incremental change-detection window.
func WithWindowSize(cells int) Option {
	return func(options *Options) { options.WindowSize = cells }
}

// WithLethalCost sets the impassable cost threshold.
func WithLethalCost(cost byte) Option {
	return func(options *Options) { options.LethalCost = cost }
}

// WithCostFactor enables cost inflation of edges through expensive cells.
func WithCostFactor(factor float64) Option {
	return func(options *Options) { options.CostFactor = factor }
}

// WithVerifyInvariants makes every repair check the consistency invariant.
func WithVerifyInvariants(verify bool) Option {
	return func(options *Options) { options.VerifyInvariants = verify }
}

// WithLogger sets the structured logger used by the planner.
func WithLogger(logger *slog.Logger) Option {
	return func(options *Options) { options.Logger = logger }
}

// Planner is an LPA* planning session over a fixed-size grid.
type Planner struct {
	width, height int
	options       Options
	logger        *slog.Logger
	sessionID     string

	grid     *gridIndex
	frontier *frontier

	// session state, kept between Plan calls
	lastCostmap Costmap
	start, goal *vertex
	path        []Cell
	poisoned    error

	// per-call state
	costmap   Costmap
	robot     Cell
	expand    []Cell
	refreshed map[int]struct{}
	repairing bool
}

// NewPlanner creates a planner for a width x height grid.
func NewPlanner(width, height int, options ...Option) (*Planner, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyMap, width, height)
	}

	// --- Apply options ---
	plannerOptions := Options{
		Resolution: DefaultResolution,
		WindowSize: DefaultWindowSize,
		LethalCost: DefaultLethalCost,
	}
	for _, option := range options {
		option(&plannerOptions)
	}
	if plannerOptions.Resolution <= 0 || math.IsNaN(plannerOptions.Resolution) {
		return nil, fmt.Errorf("%w: resolution %v", ErrInvalidConfig, plannerOptions.Resolution)
	}
	if plannerOptions.WindowSize <= 0 {
		return nil, fmt.Errorf("%w: window size %d", ErrInvalidConfig, plannerOptions.WindowSize)
	}
	if plannerOptions.CostFactor < 0 {
		return nil, fmt.Errorf("%w: cost factor %v", ErrInvalidConfig, plannerOptions.CostFactor)
	}
	if plannerOptions.Logger == nil {
		plannerOptions.Logger = slog.Default()
	}

	sessionID := uuid.NewString()
	p := &Planner{
		width:     width,
		height:    height,
		options:   plannerOptions,
		sessionID: sessionID,
		logger:    plannerOptions.Logger.With(slog.String("session_id", sessionID)),
		grid:      newGridIndex(width, height),
		frontier:  newFrontier(),
	}
	return p, nil
}

// SessionID identifies this planner in logs and traces.
func (p *Planner) SessionID() string { return p.sessionID }

// Width returns the grid width in cells.
func (p *Planner) Width() int { return p.width }

// Height returns the grid height in cells.
func (p *Planner) Height() int { return p.height }

// Reset discards all session state. The next Plan call searches from scratch.
func (p *Planner) Reset() {
	p.grid.reset()
	p.frontier.reset()
	p.lastCostmap = nil
	p.start, p.goal = nil, nil
	p.path = nil
	p.poisoned = nil
	p.repairing = false
}
