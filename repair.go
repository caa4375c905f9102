package lpastar

// keyTolerance is the relative slack under which a frontier key counts as
// tied with the goal's key.
const keyTolerance = 1e-9

// canExpand reports whether the repair loop still has work: some frontier
// key does not exceed the goal's key, or the goal is inconsistent. Ties
// with the goal's key are expanded too, otherwise an underconsistent vertex
// on the goal's parent chain can be left stale under the scalar key.
func (p *Planner) canExpand() bool {
	top, ok := p.frontier.peekMin()
	if !ok {
		return false
	}
	goalKey := p.calculateKey(p.goal)
	return top.Key <= goalKey+keyTolerance*max(1, goalKey) || !p.goal.consistent()
}

// step performs one expansion of the repair loop and returns the expanded
// vertex. canExpand must hold.
func (p *Planner) step() *vertex {
	item, _ := p.frontier.popMin()
	u := p.grid.at(item.NodeID)
	u.handle = nil

	if u.Cost > u.rhs {
		// overconsistent: commit the improved estimate
		u.Cost = u.rhs
	} else {
		// underconsistent: an edge u relied on got worse
		u.Cost = inf
		p.updateVertex(u)
	}
	for _, v := range p.neighbors(u) {
		p.updateVertex(v)
	}

	p.expand = append(p.expand, u.Cell())
	return u
}

// computeShortestPath drains the frontier until the goal is consistent and
// no frontier entry could still lower its cost.
func (p *Planner) computeShortestPath() {
	for p.canExpand() {
		p.step()
	}
}
