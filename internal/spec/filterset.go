package spec

// FilterSet is the explicit, post-filtering-relevant projection of a Spec.
// Result managers consume a FilterSet rather than the full Spec so that an
// algorithm family can drop the entries it has already enforced internally
// (see the per-family "already enforced" table) without risking drift
// between the spec and what filtering code reads from it.
type FilterSet struct {
	ExcludeStmts    []string
	HashBlacklist   []int64
	AllowedNS       []string
	NodeBlacklist   []string
	TerminalNS      []string
	PathLength      int
	BeliefCutoff    float64
	CuratedDBOnly   bool
	MaxPaths        int
	CullBestNode    int
	Weighted        bool
	ContextWeighted bool
	OverallWeighted bool
}

// NewFilterSet projects a Spec into its filter-relevant fields. ExcludeStmts
// holds the spec's stmt_filter allow-list as-is (already case-folded):
// statement types in the list are kept and every other type is excluded.
func NewFilterSet(s *Spec) FilterSet {
	return FilterSet{
		ExcludeStmts:    s.StmtFilter,
		HashBlacklist:   s.EdgeHashBlacklist,
		AllowedNS:       s.AllowedNS,
		NodeBlacklist:   s.NodeBlacklist,
		TerminalNS:      s.TerminalNS,
		PathLength:      s.PathLength,
		BeliefCutoff:    s.BeliefCutoff,
		CuratedDBOnly:   s.CuratedDBOnly,
		MaxPaths:        s.KShortest,
		CullBestNode:    s.CullBestNode,
		Weighted:        s.Weighted,
		ContextWeighted: s.ContextWeighted(),
		OverallWeighted: s.OverallWeighted(),
	}
}

// NoFilters reports whether every optional filter is at its default,
// letting a result manager skip filtering altogether.
func (f FilterSet) NoFilters() bool {
	return f.NoStmtFilters() && f.NoNodeFilters() && f.BeliefCutoff == 0 && !f.CuratedDBOnly
}

// NoStmtFilters reports whether no statement-level filter (type allow-list,
// hash blacklist) is active.
func (f FilterSet) NoStmtFilters() bool {
	return len(f.ExcludeStmts) == 0 && len(f.HashBlacklist) == 0
}

// NoNodeFilters reports whether no node-level filter (blacklist, namespace
// allow-list, terminal-namespace blacklist) is active.
func (f FilterSet) NoNodeFilters() bool {
	return len(f.NodeBlacklist) == 0 && len(f.AllowedNS) == 0 && len(f.TerminalNS) == 0
}

// WithoutNodeBlacklist returns a copy of f with NodeBlacklist cleared, used
// by families (SSP, BFS, Dijkstra) that already enforce the node blacklist
// internally so the result manager does not redundantly re-check it.
func (f FilterSet) WithoutNodeBlacklist() FilterSet {
	g := f
	g.NodeBlacklist = nil
	return g
}

// WithoutAllowedNS returns a copy of f with AllowedNS cleared.
func (f FilterSet) WithoutAllowedNS() FilterSet {
	g := f
	g.AllowedNS = nil
	return g
}

// WithoutTerminalNS returns a copy of f with TerminalNS cleared, used by
// families (BFS, Dijkstra) that already enforce the terminal-namespace
// blacklist internally via their NodeOK predicate.
func (f FilterSet) WithoutTerminalNS() FilterSet {
	g := f
	g.TerminalNS = nil
	return g
}

// WithoutStmtFilters returns a copy of f with statement-type and hash
// blacklist filters cleared, used by BFS which enforces both internally via
// its per-edge predicate.
func (f FilterSet) WithoutStmtFilters() FilterSet {
	g := f
	g.ExcludeStmts = nil
	g.HashBlacklist = nil
	return g
}

// WithoutBeliefAndCurated returns a copy of f with the belief cutoff and
// curated-only flag cleared.
func (f FilterSet) WithoutBeliefAndCurated() FilterSet {
	g := f
	g.BeliefCutoff = 0
	g.CuratedDBOnly = false
	return g
}

// WithoutPathLength returns a copy of f with the exact path-length filter
// cleared, used by BFS which enforces an upper bound via its depth limit.
func (f FilterSet) WithoutPathLength() FilterSet {
	g := f
	g.PathLength = 0
	return g
}
