package algorithms

// ShortestSimplePathsArgs is the fixed argument bundle for the
// ShortestSimplePaths family (SPEC_FULL.md section 4.2).
type ShortestSimplePathsArgs struct {
	Graph    View
	Source   string
	Target   string
	Weighted bool
	// MaxResults bounds how many simple paths the underlying Yen's search
	// will ever materialize; the result manager's own k_shortest cap is
	// enforced independently on top of this.
	MaxResults int
}

// ShortestSimplePaths returns a restartable lazy sequence of simple paths
// from Source to Target in nondecreasing cost order. Node-culling feedback
// delivered via PathIterator.Feedback excludes interior nodes from all
// subsequent candidates; Source and Target are never excludable.
func ShortestSimplePaths(args ShortestSimplePathsArgs) *PathIterator {
	limit := args.MaxResults
	if limit <= 0 {
		limit = 50
	}
	return NewPathIterator(func(ignored map[string]struct{}) []RawPath {
		return yenKShortest(args.Graph, args.Source, args.Target, ignored, args.Weighted, limit)
	})
}
