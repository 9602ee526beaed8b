package graphstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/indralab/network-search/internal/model"
	"github.com/indralab/network-search/internal/util"
)

// snapshotNode and snapshotEdge are the on-disk rows of a graph snapshot:
// the serialized form a build pipeline (out of scope here; see
// SPEC_FULL.md's non-goals) hands to the query service at process start.
type snapshotNode struct {
	Name       string `json:"name"`
	Namespace  string `json:"namespace"`
	Identifier string `json:"identifier"`
}

type snapshotEdge struct {
	From          string           `json:"from"`
	To            string           `json:"to"`
	Statements    []model.StmtData `json:"statements"`
	Belief        float64          `json:"belief"`
	Weight        float64          `json:"weight"`
	Sign          *int             `json:"sign,omitempty"`
	ContextWeight *float64         `json:"context_weight,omitempty"`
}

// snapshot is the top-level JSON document: one row per node, one row per
// edge, newline-delimited within each array for streaming-friendly writers
// upstream, but read here simply as two JSON arrays.
type snapshot struct {
	Nodes []snapshotNode `json:"nodes"`
	Edges []snapshotEdge `json:"edges"`
}

// edgeSignFromStatements returns the edge's recorded sign (attrs.Sign),
// defaulting to SignPlus when the edge carries none; the individual
// statements are not inspected. This is the one
// signFn the loader feeds to Store.BuildSignedGraph; once built, no other
// code path re-derives a sign from statement types.
func edgeSignFromStatements(attrs EdgeAttrs) int {
	if attrs.Sign != nil {
		return *attrs.Sign
	}
	return model.SignPlus
}

// LoadLocal populates a new Store from a snapshot JSON file on local disk. A
// ".gz" path is treated as a gzip+base64 blob (the same encoding the
// teacher's memcache layer round-trips payloads through) and is inflated
// with util.UnzipAndDecode before parsing.
func LoadLocal(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("graphstore: open %s: %w", path, err)
	}
	defer f.Close()

	if strings.HasSuffix(path, ".gz") {
		blob, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("graphstore: read %s: %w", path, err)
		}
		raw, err := util.UnzipAndDecode(string(blob))
		if err != nil {
			return nil, fmt.Errorf("graphstore: inflate %s: %w", path, err)
		}
		return load(bytes.NewReader(raw))
	}
	return load(f)
}

// LoadGCS populates a new Store from a snapshot JSON object in Google Cloud
// Storage, grounded on the teacher's memdb.LoadFromGcs object-listing
// pattern: bkt.Objects to find the object, then Object.NewReader to stream
// it. Unlike the teacher, the snapshot is a single object rather than a
// directory of tmcf/csv files, so the listing step is only used to give a
// clear "not found" error before attempting the read.
func LoadGCS(ctx context.Context, bucket, object string) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("graphstore: gcs client: %w", err)
	}
	defer client.Close()

	bkt := client.Bucket(bucket)
	found := false
	it := bkt.Objects(ctx, &storage.Query{Prefix: object})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("graphstore: list gs://%s/%s: %w", bucket, object, err)
		}
		if attrs.Name == object {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("graphstore: object gs://%s/%s not found", bucket, object)
	}

	r, err := bkt.Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("graphstore: read gs://%s/%s: %w", bucket, object, err)
	}
	defer r.Close()
	return load(r)
}

func load(r io.Reader) (*Store, error) {
	var snap snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("graphstore: decode snapshot: %w", err)
	}

	s := New()
	for _, n := range snap.Nodes {
		if err := s.AddNode(NodeAttrs{Name: n.Name, Namespace: n.Namespace, Identifier: n.Identifier}); err != nil {
			return nil, fmt.Errorf("graphstore: node %s: %w", n.Name, err)
		}
	}
	for _, e := range snap.Edges {
		byType := map[string][]model.StmtData{}
		for _, st := range e.Statements {
			byType[st.StmtType] = append(byType[st.StmtType], st)
		}
		attrs := EdgeAttrs{
			Statements:    byType,
			Belief:        e.Belief,
			Weight:        e.Weight,
			Sign:          e.Sign,
			ContextWeight: e.ContextWeight,
		}
		if err := s.AddEdge(e.From, e.To, attrs); err != nil {
			return nil, fmt.Errorf("graphstore: edge %s->%s: %w", e.From, e.To, err)
		}
	}
	if err := s.BuildSignedGraph(edgeSignFromStatements); err != nil {
		return nil, fmt.Errorf("graphstore: build signed graph: %w", err)
	}
	return s, nil
}
