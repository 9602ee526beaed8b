package graphstore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/indralab/network-search/internal/model"
)

// View is the uniform adjacency contract the algorithm family
// implementations consume. It lets a single SSP/BFS/Dijkstra implementation
// run against either the unsigned graph or the signed-node graph without
// knowing which: handles are opaque strings, encoding a plain node name for
// the unsigned view and a "name|sign" pair for the signed view.
type View interface {
	Successors(handle string) ([]string, error)
	Predecessors(handle string) ([]string, error)
	EdgeAttrs(u, v string) (EdgeAttrs, bool)
	NodeName(handle string) string
}

type unsignedView struct{ s *Store }

// UnsignedView returns the handle-based view over the unsigned graph;
// handles equal node names.
func (s *Store) UnsignedView() View { return unsignedView{s} }

func (v unsignedView) Successors(handle string) ([]string, error)   { return v.s.Successors(handle) }
func (v unsignedView) Predecessors(handle string) ([]string, error) { return v.s.Predecessors(handle) }
func (v unsignedView) EdgeAttrs(u, v2 string) (EdgeAttrs, bool)      { return v.s.EdgeAttrs(u, v2) }
func (v unsignedView) NodeName(handle string) string                { return handle }

type signedView struct{ s *Store }

// SignedView returns the handle-based view over the signed-node graph;
// handles are "name|sign" pairs built with EncodeSigned.
func (s *Store) SignedView() View { return signedView{s} }

// EncodeSigned renders a SignedNodeRef as an opaque handle.
func EncodeSigned(ref model.SignedNodeRef) string {
	return fmt.Sprintf("%s|%d", ref.Name, ref.Sign)
}

// DecodeSigned parses a handle produced by EncodeSigned.
func DecodeSigned(handle string) (model.SignedNodeRef, error) {
	i := strings.LastIndexByte(handle, '|')
	if i < 0 {
		return model.SignedNodeRef{}, fmt.Errorf("malformed signed handle %q", handle)
	}
	sign, err := strconv.Atoi(handle[i+1:])
	if err != nil {
		return model.SignedNodeRef{}, fmt.Errorf("malformed signed handle %q: %w", handle, err)
	}
	return model.SignedNodeRef{Name: handle[:i], Sign: sign}, nil
}

func (v signedView) Successors(handle string) ([]string, error) {
	ref, err := DecodeSigned(handle)
	if err != nil {
		return nil, err
	}
	refs, err := v.s.SignedSuccessors(ref)
	if err != nil {
		return nil, err
	}
	return encodeAll(refs), nil
}

func (v signedView) Predecessors(handle string) ([]string, error) {
	ref, err := DecodeSigned(handle)
	if err != nil {
		return nil, err
	}
	refs, err := v.s.SignedPredecessors(ref)
	if err != nil {
		return nil, err
	}
	return encodeAll(refs), nil
}

func (v signedView) EdgeAttrs(u, v2 string) (EdgeAttrs, bool) {
	uRef, err1 := DecodeSigned(u)
	vRef, err2 := DecodeSigned(v2)
	if err1 != nil || err2 != nil {
		return EdgeAttrs{}, false
	}
	return v.s.SignedEdgeAttrs(uRef, vRef)
}

func (v signedView) NodeName(handle string) string {
	ref, err := DecodeSigned(handle)
	if err != nil {
		return handle
	}
	return ref.Name
}

func encodeAll(refs []model.SignedNodeRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = EncodeSigned(r)
	}
	return out
}
