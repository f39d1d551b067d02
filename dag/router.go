package dag

// Router computes the next hop a branch instruction should take towards a
// target commit. It holds no state of its own beyond the graph it routes
// over; routing is not cached, since it only runs on branch instructions
// and the graph is cheap to walk compared to a program's straight-line
// step count.
type Router struct {
	g *Graph
}

// NewRouter returns a Router over g.
func NewRouter(g *Graph) *Router {
	return &Router{g: g}
}

// NextHop returns the child of from that lies on a shortest path (by edge
// count over the child/forward graph) to target. Ties are broken by
// earliest discovery in a breadth-first search rooted at from, which in
// turn is pinned to the order Graph.Children returns for each node (spec
// §9). If from == target, or if target is unreachable from any child of
// from, NextHop returns a *dag.Error of kind RoutingError.
//
// The search must terminate on cyclic graphs; it does so with a visited
// set, never re-enqueuing a commit once dequeued.
func (r *Router) NextHop(from, target Commit) (Commit, error) {
	if from == target {
		return "", newError(RoutingError, from, "already at target %s", target)
	}

	// pred maps a visited commit to the first-hop child of `from` that
	// reaches it; first-hop itself maps to itself, so that reconstructing
	// back to `from` yields that first hop directly.
	pred := map[Commit]Commit{from: ""}
	type queued struct {
		commit   Commit
		firstHop Commit
	}
	queue := make([]queued, 0, len(r.g.children))
	for _, c := range r.g.Children(from) {
		if _, seen := pred[c]; seen {
			continue
		}
		pred[c] = c
		queue = append(queue, queued{c, c})
		if c == target {
			return c, nil
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range r.g.Children(cur.commit) {
			if _, seen := pred[c]; seen {
				continue
			}
			pred[c] = cur.firstHop
			if c == target {
				return cur.firstHop, nil
			}
			queue = append(queue, queued{c, cur.firstHop})
		}
	}

	return "", newError(RoutingError, from, "no path to target %s", target)
}
