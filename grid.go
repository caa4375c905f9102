package lpastar

import (
	"fmt"

	"github.com/pdrpinto/lpastar/internal"
)

// vertex extends a Node with the LPA* bookkeeping. Node.Cost holds g and
// Node.PID the parent used for path extraction.
type vertex struct {
	Node
	rhs    float64
	key    float64
	handle *frontierItem // nil when not in the frontier
}

func (v *vertex) consistent() bool { return v.Cost == v.rhs }

// gridIndex owns the vertices of one session, created lazily and addressed
// by linear id.
type gridIndex struct {
	width, height int
	nodes         []*vertex
	created       []int // ids in creation order
}

func newGridIndex(width, height int) *gridIndex {
	return &gridIndex{
		width:  width,
		height: height,
		nodes:  make([]*vertex, width*height),
	}
}

// getOrCreate returns the vertex at (x, y), creating it with sentinel
// costs on first access.
func (g *gridIndex) getOrCreate(x, y int) (*vertex, error) {
	if !internal.InBounds(x, y, g.width, g.height) {
		return nil, fmt.Errorf("%w: (%d, %d) on %dx%d grid", ErrOutOfBounds, x, y, g.width, g.height)
	}
	id := internal.Index(x, y, g.width)
	if v := g.nodes[id]; v != nil {
		return v, nil
	}
	v := &vertex{
		Node: Node{X: x, Y: y, Cost: inf, HCost: inf, ID: id, PID: -1},
		rhs:  inf,
		key:  inf,
	}
	g.nodes[id] = v
	g.created = append(g.created, id)
	return v, nil
}

// at returns the vertex with the given id, creating it if needed. id must
// be a valid grid id.
func (g *gridIndex) at(id int) *vertex {
	x, y := internal.Coords(id, g.width)
	v, _ := g.getOrCreate(x, y)
	return v
}

// lookup returns the vertex with the given id or nil if it was never created.
func (g *gridIndex) lookup(id int) *vertex {
	if id < 0 || id >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// each calls fn for every created vertex in creation order.
func (g *gridIndex) each(fn func(v *vertex)) {
	for _, id := range g.created {
		fn(g.nodes[id])
	}
}

func (g *gridIndex) size() int { return len(g.created) }

func (g *gridIndex) reset() {
	clear(g.nodes)
	g.created = g.created[:0]
}
