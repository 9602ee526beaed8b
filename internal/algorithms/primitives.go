package algorithms

import (
	"container/heap"
	"sort"
)

// blockSet is a set of handles to exclude from traversal, always excluding
// the given endpoints regardless of what it's asked to block: the search
// endpoints are never subject to node-culling or blacklist blocking.
type blockSet struct {
	nodes    map[string]struct{}
	edges    map[[2]string]struct{}
	keep     map[string]struct{}
}

func newBlockSet(ignored map[string]struct{}, blockedEdges map[[2]string]struct{}, keep ...string) blockSet {
	b := blockSet{nodes: map[string]struct{}{}, edges: blockedEdges, keep: map[string]struct{}{}}
	for _, k := range keep {
		b.keep[k] = struct{}{}
	}
	for n := range ignored {
		if _, ok := b.keep[n]; ok {
			continue
		}
		b.nodes[n] = struct{}{}
	}
	return b
}

func (b blockSet) nodeBlocked(h string) bool {
	_, ok := b.nodes[h]
	return ok
}

func (b blockSet) edgeBlocked(u, v string) bool {
	if b.edges == nil {
		return false
	}
	_, ok := b.edges[[2]string{u, v}]
	return ok
}

// unweightedShortestPath finds the shortest (fewest-edge) simple path from
// source to target via BFS, respecting blocked nodes/edges. Interior nodes
// only; source and target themselves are never treated as blocked.
func unweightedShortestPath(g View, source, target string, blocked blockSet) ([]string, float64, bool) {
	if source == target {
		return []string{source}, 0, true
	}
	prev := map[string]string{source: ""}
	queue := []string{source}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		succ, err := g.Successors(u)
		if err != nil {
			return nil, 0, false
		}
		for _, v := range succ {
			if v != target && blocked.nodeBlocked(v) {
				continue
			}
			if blocked.edgeBlocked(u, v) {
				continue
			}
			if _, seen := prev[v]; seen {
				continue
			}
			prev[v] = u
			if v == target {
				path := reconstruct(prev, source, target)
				return path, float64(len(path) - 1), true
			}
			queue = append(queue, v)
		}
	}
	return nil, 0, false
}

func reconstruct(prev map[string]string, source, target string) []string {
	var path []string
	for cur := target; ; {
		path = append(path, cur)
		if cur == source {
			break
		}
		cur = prev[cur]
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// edgeWeight resolves the traversal weight of an edge: overall-weighted
// searches use 1/belief-derived weight already stored on the edge
// (graphstore.EdgeAttrs.Weight); unweighted searches use a constant 1 so
// Dijkstra degenerates to BFS-by-hopcount.
func edgeWeight(g View, u, v string, weighted bool) float64 {
	if !weighted {
		return 1
	}
	attrs, ok := g.EdgeAttrs(u, v)
	if !ok || attrs.Weight <= 0 {
		return 1
	}
	return attrs.Weight
}

type dijkstraItem struct {
	handle string
	dist   float64
	index  int
}

type dijkstraQueue []*dijkstraItem

func (q dijkstraQueue) Len() int            { return len(q) }
func (q dijkstraQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q dijkstraQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i]; q[i].index = i; q[j].index = j }
func (q *dijkstraQueue) Push(x interface{}) {
	item := x.(*dijkstraItem)
	item.index = len(*q)
	*q = append(*q, item)
}
func (q *dijkstraQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// weightedShortestPath finds the least-cost simple path from source to
// target via Dijkstra's algorithm, respecting blocked nodes/edges.
func weightedShortestPath(g View, source, target string, blocked blockSet, weighted bool) ([]string, float64, bool) {
	if source == target {
		return []string{source}, 0, true
	}
	dist := map[string]float64{source: 0}
	prev := map[string]string{}
	visited := map[string]bool{}

	pq := &dijkstraQueue{{handle: source, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		u := heap.Pop(pq).(*dijkstraItem)
		if visited[u.handle] {
			continue
		}
		visited[u.handle] = true
		if u.handle == target {
			path := reconstruct(prev, source, target)
			return path, dist[target], true
		}
		succ, err := g.Successors(u.handle)
		if err != nil {
			return nil, 0, false
		}
		for _, v := range succ {
			if v != target && blocked.nodeBlocked(v) {
				continue
			}
			if blocked.edgeBlocked(u.handle, v) {
				continue
			}
			nd := dist[u.handle] + edgeWeight(g, u.handle, v, weighted)
			if cur, ok := dist[v]; !ok || nd < cur {
				dist[v] = nd
				prev[v] = u.handle
				heap.Push(pq, &dijkstraItem{handle: v, dist: nd})
			}
		}
	}
	return nil, 0, false
}

// yenKShortest computes up to limit shortest simple paths from source to
// target in nondecreasing cost order, honoring the ignore set, via Yen's
// algorithm. weighted selects Dijkstra vs. BFS for the underlying spur-path
// search.
func yenKShortest(g View, source, target string, ignored map[string]struct{}, weighted bool, limit int) []RawPath {
	shortest := func(blocked blockSet) ([]string, float64, bool) {
		if weighted {
			return weightedShortestPath(g, source, target, blocked, true)
		}
		return unweightedShortestPath(g, source, target, blocked)
	}

	first, cost, ok := shortest(newBlockSet(ignored, nil, source, target))
	if !ok {
		return nil
	}
	found := [][]string{first}
	costs := []float64{cost}

	type candidate struct {
		path []string
		cost float64
	}
	var candidates []candidate
	seen := map[string]bool{pathKey(first): true}

	for len(found) < limit {
		prevPath := found[len(found)-1]
		for i := 0; i < len(prevPath)-1; i++ {
			spurNode := prevPath[i]
			rootPath := append([]string(nil), prevPath[:i+1]...)

			blockedEdges := map[[2]string]struct{}{}
			for _, p := range found {
				if len(p) > i && pathPrefixEqual(p, rootPath, i+1) {
					blockedEdges[[2]string{p[i], p[i+1]}] = struct{}{}
				}
			}
			blockedNodes := map[string]struct{}{}
			for j := 0; j < i; j++ {
				blockedNodes[rootPath[j]] = struct{}{}
			}
			for n := range ignored {
				blockedNodes[n] = struct{}{}
			}

			blocked := newBlockSet(blockedNodes, blockedEdges, spurNode, target)
			spurPath, spurCost, ok := shortest(blocked)
			if !ok {
				continue
			}
			total := append(append([]string(nil), rootPath[:i]...), spurPath...)
			key := pathKey(total)
			if seen[key] {
				continue
			}
			totalCost := rootCost(rootPath, g, weighted) + spurCost
			candidates = append(candidates, candidate{path: total, cost: totalCost})
		}

		if len(candidates) == 0 {
			break
		}
		sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].cost < candidates[j].cost })
		best := candidates[0]
		candidates = candidates[1:]
		seen[pathKey(best.path)] = true
		found = append(found, best.path)
		costs = append(costs, best.cost)
	}

	out := make([]RawPath, len(found))
	for i, p := range found {
		out[i] = RawPath{Handles: p, Cost: costs[i]}
	}
	return out
}

func pathKey(p []string) string {
	key := ""
	for _, h := range p {
		key += h + ">"
	}
	return key
}

func pathPrefixEqual(p, prefix []string, n int) bool {
	if len(p) < n {
		return false
	}
	for i := 0; i < n; i++ {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

// rootCost sums the edge weights along root (the path from source up to and
// including the spur node); unweighted searches measure cost in hops, so
// the root contributes its edge count, len(root)-1, and adding the spur
// path's hop count gives the whole path's hop count.
func rootCost(root []string, g View, weighted bool) float64 {
	if !weighted {
		return float64(len(root) - 1)
	}
	var c float64
	for i := 0; i+1 < len(root); i++ {
		c += edgeWeight(g, root[i], root[i+1], true)
	}
	return c
}
