// Package algorithms implements the five path-finding algorithm families'
// invocation contracts (SPEC_FULL.md section 4.2): fixed argument bundles in,
// a lazy result stream out. The stream abstraction is shared across
// families so the path result manager (internal/resultmanager) can drive
// ShortestSimplePaths, BFS and Dijkstra identically.
package algorithms

import (
	"strings"

	"github.com/indralab/network-search/internal/graphstore"
)

// RawPath is one path as produced by an algorithm family, before any
// node/edge decoration: a sequence of opaque graph-store handles (plain
// node names for the unsigned graph, "name|sign" for the signed graph) and
// its cost under whatever ordering that family guarantees.
type RawPath struct {
	Handles []string
	Cost    float64
}

// PathIterator is the restartable lazy sequence with feedback described in
// SPEC_FULL.md's node-culling design note: the consumer may call Feedback
// with an additional ignore set before the next Next() call, and every
// subsequent path honors it. It is deliberately not implemented as a
// generator-with-send or control-flow-via-panic; Next/Feedback are ordinary
// methods on an explicit little state machine.
type PathIterator struct {
	generate func(ignored map[string]struct{}) []RawPath
	ignored  map[string]struct{}
	emitted  int
	cache    []RawPath
	dirty    bool
}

// NewPathIterator builds a PathIterator around a generation function that,
// given the current ignore set, returns the full ordered candidate list
// (longest list any Next() call so far has needed). After a Feedback call
// the list is regenerated, the paths already emitted are kept as a fixed
// prefix, and regenerated candidates equal to an emitted path are dropped,
// so no path is emitted twice and no unseen candidate is skipped.
func NewPathIterator(generate func(ignored map[string]struct{}) []RawPath) *PathIterator {
	return &PathIterator{
		generate: generate,
		ignored:  map[string]struct{}{},
		dirty:    true,
	}
}

// Next returns the next path in the stream, or ok=false when the
// generator is exhausted.
func (it *PathIterator) Next() (RawPath, bool) {
	if it.dirty {
		done := it.cache[:it.emitted]
		doneKeys := make(map[string]struct{}, len(done))
		for _, p := range done {
			doneKeys[strings.Join(p.Handles, "\x00")] = struct{}{}
		}
		next := append([]RawPath(nil), done...)
		for _, p := range it.generate(it.ignored) {
			if _, seen := doneKeys[strings.Join(p.Handles, "\x00")]; !seen {
				next = append(next, p)
			}
		}
		it.cache = next
		it.dirty = false
	}
	if it.emitted >= len(it.cache) {
		return RawPath{}, false
	}
	p := it.cache[it.emitted]
	it.emitted++
	return p, true
}

// Feedback adds handles to the ignore set honored by all subsequent Next()
// calls.
func (it *PathIterator) Feedback(extraIgnored map[string]struct{}) {
	if len(extraIgnored) == 0 {
		return
	}
	for h := range extraIgnored {
		it.ignored[h] = struct{}{}
	}
	it.dirty = true
}

// View re-exports graphstore.View so callers building a generate closure
// don't need a second import in the common case.
type View = graphstore.View
