// Package spec holds the user-facing search specification: the validated,
// immutable query the rest of the pipeline plans and executes, and its
// derived filter-set projection.
package spec

import (
	"github.com/go-playground/validator/v10"

	"github.com/indralab/network-search/internal/apperror"
	"github.com/indralab/network-search/internal/util"
)

const (
	defaultDepthLimit = 2
	defaultKShortest  = 50
	defaultTimeout    = 30.0
	maxSubgraphNodes  = 100
)

// Sign mirrors the wire-level "+"/"-" signing of a search. An absent sign is
// the empty string.
type Sign string

const (
	SignUp     Sign = "+"
	SignDown   Sign = "-"
	SignAbsent Sign = ""
)

var validate = validator.New()

// Input is the wire-level shape of a search specification. Numeric fields
// that have a meaningful default (DepthLimit, KShortest, UserTimeout) are
// pointers so that "field omitted" and "field explicitly set to zero" can be
// told apart; New collapses Input into the immutable Spec. Decoders must use
// json.Decoder.DisallowUnknownFields so unknown fields are rejected at this
// boundary, per the strict-validation requirement.
type Input struct {
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`

	StmtFilter        []string `json:"stmt_filter,omitempty"`
	EdgeHashBlacklist []int64  `json:"edge_hash_blacklist,omitempty"`
	AllowedNS         []string `json:"allowed_ns,omitempty"`
	NodeBlacklist     []string `json:"node_blacklist,omitempty"`
	TerminalNS        []string `json:"terminal_ns,omitempty"`

	PathLength *int `json:"path_length,omitempty" validate:"omitempty,min=1"`
	DepthLimit *int `json:"depth_limit,omitempty" validate:"omitempty,min=0"`

	Sign Sign `json:"sign,omitempty" validate:"omitempty,oneof=+ -"`

	Weighted      bool    `json:"weighted,omitempty"`
	BeliefCutoff  float64 `json:"belief_cutoff,omitempty" validate:"min=0,max=1"`
	CuratedDBOnly bool    `json:"curated_db_only,omitempty"`
	KShortest     *int    `json:"k_shortest,omitempty" validate:"omitempty,min=1"`
	MaxPerNode    int     `json:"max_per_node,omitempty" validate:"omitempty,min=1"`
	CullBestNode  int     `json:"cull_best_node,omitempty" validate:"omitempty,min=2"`

	MeshIDs               []string `json:"mesh_ids,omitempty"`
	StrictMeshIDFiltering bool     `json:"strict_mesh_id_filtering,omitempty"`
	ConstC                float64  `json:"const_c,omitempty"`
	ConstTK               float64  `json:"const_tk,omitempty"`

	UserTimeout *float64 `json:"user_timeout,omitempty" validate:"omitempty,min=0"`
	TwoWay      bool     `json:"two_way,omitempty"`

	SharedRegulators bool `json:"shared_regulators,omitempty"`

	SubgraphNodes []SubgraphNode `json:"subgraph_nodes,omitempty" validate:"omitempty,max=100,dive"`

	// Format is accepted but carries no query semantics: it is excluded
	// from Hash() and never influences planning.
	Format string `json:"format,omitempty"`
}

// Spec is the fully validated, immutable search specification produced by
// New. Every field has its default already applied.
type Spec struct {
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`

	StmtFilter        []string `json:"stmt_filter,omitempty"`
	EdgeHashBlacklist []int64  `json:"edge_hash_blacklist,omitempty"`
	AllowedNS         []string `json:"allowed_ns,omitempty"`
	NodeBlacklist     []string `json:"node_blacklist,omitempty"`
	TerminalNS        []string `json:"terminal_ns,omitempty"`

	PathLength int `json:"path_length,omitempty"`
	DepthLimit int `json:"depth_limit"`

	Sign Sign `json:"sign,omitempty"`

	Weighted      bool    `json:"weighted,omitempty"`
	BeliefCutoff  float64 `json:"belief_cutoff,omitempty"`
	CuratedDBOnly bool    `json:"curated_db_only,omitempty"`
	KShortest     int     `json:"k_shortest"`
	MaxPerNode    int     `json:"max_per_node,omitempty"`
	CullBestNode  int     `json:"cull_best_node,omitempty"`

	MeshIDs               []string `json:"mesh_ids,omitempty"`
	StrictMeshIDFiltering bool     `json:"strict_mesh_id_filtering,omitempty"`
	ConstC                float64  `json:"const_c,omitempty"`
	ConstTK               float64  `json:"const_tk,omitempty"`

	UserTimeout float64 `json:"user_timeout"`
	TwoWay      bool    `json:"two_way,omitempty"`

	SharedRegulators bool `json:"shared_regulators,omitempty"`

	SubgraphNodes []SubgraphNode `json:"subgraph_nodes,omitempty"`

	Format string `json:"format,omitempty"`
}

// SubgraphNode is one requested node of an induced-subgraph query
// (spec.md section 3's "(with possibly corrected namespace/identifier)"):
// Name is matched against the graph directly first; when that fails and
// Namespace/Identifier are both given, they are used as a fallback lookup
// against the graph's (namespace, identifier) reverse index.
type SubgraphNode struct {
	Name       string `json:"name" validate:"required"`
	Namespace  string `json:"namespace,omitempty"`
	Identifier string `json:"identifier,omitempty"`
}

// New validates an Input, applies the package's built-in defaults, and
// returns an immutable Spec. Equivalent to
// NewWithDefaults(in, defaultDepthLimit, defaultKShortest, defaultTimeout).
func New(in Input) (*Spec, error) {
	return NewWithDefaults(in, defaultDepthLimit, defaultKShortest, defaultTimeout)
}

// NewWithDefaults validates an Input, applies the given defaults to any
// field the caller omitted, and returns an immutable Spec. A deployment
// configures depthLimit/kShortest/userTimeout once at process start
// (config.DefaultsConfig) rather than hardcoding the package constants, so
// operators can tune them without a rebuild.
func NewWithDefaults(in Input, depthLimit, kShortest int, userTimeout float64) (*Spec, error) {
	if err := validate.Struct(in); err != nil {
		return nil, &apperror.ValidationError{Field: firstInvalidField(err), Reason: err.Error()}
	}

	s := &Spec{
		Source:                in.Source,
		Target:                in.Target,
		StmtFilter:            util.CaseFoldAll(in.StmtFilter),
		EdgeHashBlacklist:     in.EdgeHashBlacklist,
		AllowedNS:             util.CaseFoldAll(in.AllowedNS),
		NodeBlacklist:         in.NodeBlacklist,
		TerminalNS:            util.CaseFoldAll(in.TerminalNS),
		DepthLimit:            defaultOrValue(in.DepthLimit, depthLimit),
		Sign:                  in.Sign,
		Weighted:              in.Weighted,
		BeliefCutoff:          in.BeliefCutoff,
		CuratedDBOnly:         in.CuratedDBOnly,
		KShortest:             defaultOrValue(in.KShortest, kShortest),
		MaxPerNode:            in.MaxPerNode,
		CullBestNode:          in.CullBestNode,
		MeshIDs:               in.MeshIDs,
		StrictMeshIDFiltering: in.StrictMeshIDFiltering,
		ConstC:                in.ConstC,
		ConstTK:               in.ConstTK,
		UserTimeout:           defaultOrValueFloat(in.UserTimeout, userTimeout),
		TwoWay:                in.TwoWay,
		SharedRegulators:      in.SharedRegulators,
		SubgraphNodes:         in.SubgraphNodes,
		Format:                in.Format,
	}
	if in.PathLength != nil {
		s.PathLength = *in.PathLength
	}

	if err := s.validateShape(); err != nil {
		return nil, err
	}
	return s, nil
}

func defaultOrValue(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func defaultOrValueFloat(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func firstInvalidField(err error) string {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return verrs[0].Field()
	}
	return "unknown"
}

func (s *Spec) validateShape() error {
	if s.Source == "" && s.Target == "" && len(s.SubgraphNodes) == 0 {
		return &apperror.ValidationError{Field: "source/target", Reason: "at least one of source or target is required"}
	}
	if len(s.SubgraphNodes) > maxSubgraphNodes {
		return &apperror.ValidationError{Field: "subgraph_nodes", Reason: "must not exceed 100 nodes"}
	}
	return nil
}

// IsSubgraphRequest reports whether this spec names a distinct subgraph
// query rather than a path-finding query.
func (s *Spec) IsSubgraphRequest() bool {
	return len(s.SubgraphNodes) > 0
}

// ContextWeighted reports whether mesh-scoped reference counts, rather than
// belief, drive this search's weighting.
func (s *Spec) ContextWeighted() bool {
	return len(s.MeshIDs) > 0 && !s.StrictMeshIDFiltering
}

// OverallWeighted reports whether the search is weighted at all, whether
// explicitly or via mesh-scoped context weighting.
func (s *Spec) OverallWeighted() bool {
	return s.Weighted || s.ContextWeighted()
}

// Reverse returns a copy of s with Source and Target swapped. It does not
// mutate s.
func (s *Spec) Reverse() *Spec {
	r := *s
	r.Source, r.Target = s.Target, s.Source
	return &r
}

// Hash computes the stable 32-bit FNV-1a hash of the canonical-sorted JSON
// encoding of the spec, excluding the Format field. Two specs differing
// only in Format, or related by a double reversal, hash identically.
func (s *Spec) Hash() (string, error) {
	return util.CanonicalJSONHash(s, "format")
}
