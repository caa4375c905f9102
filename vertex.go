package lpastar

// calculateKey returns min(g, rhs) + h(s, goal).
func (p *Planner) calculateKey(s *vertex) float64 {
	s.HCost = p.heuristic(s, p.goal)
	return min(s.Cost, s.rhs) + s.HCost
}

// updateVertex recomputes rhs(u) and its parent from u's neighbors and
// keeps u in the frontier iff it is inconsistent. The start vertex keeps
// rhs = 0.
func (p *Planner) updateVertex(u *vertex) {
	if u == p.start {
		return
	}
	u.rhs, u.PID = inf, -1
	for _, v := range p.neighbors(u) {
		if v.Cost == inf {
			continue
		}
		if cost := v.Cost + p.edgeCost(v, u); cost < u.rhs {
			u.rhs, u.PID = cost, v.ID
		}
	}

	p.frontier.remove(u)
	if !u.consistent() {
		u.key = p.calculateKey(u)
		p.frontier.insertOrUpdate(u, u.key)
	}
}

// refresh re-evaluates a cell whose traversability changed, together with
// its neighbors, since the change alters every edge touching it and the
// diagonal edges it flanks. Each cell is refreshed at most once per call.
func (p *Planner) refresh(id int) bool {
	if _, done := p.refreshed[id]; done {
		return false
	}
	p.refreshed[id] = struct{}{}
	u := p.grid.at(id)
	p.updateVertex(u)
	for _, v := range p.neighbors(u) {
		p.updateVertex(v)
	}
	return true
}
