package graphstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/indralab/network-search/internal/model"
	"github.com/indralab/network-search/internal/util"
)

const fixtureSnapshot = `{
  "nodes": [
    {"name": "BRCA1", "namespace": "HGNC", "identifier": "1100"},
    {"name": "BRCA2", "namespace": "HGNC", "identifier": "1101"}
  ],
  "edges": [
    {
      "from": "BRCA1",
      "to": "BRCA2",
      "belief": 0.9,
      "weight": 1.0,
      "statements": [
        {"stmt_type": "Phosphorylation", "evidence_count": 2, "stmt_hash": 42, "belief": 0.9, "curated": true}
      ]
    }
  ]
}`

func TestLoadParsesSnapshotAndBuildsSignedGraph(t *testing.T) {
	s, err := load(strings.NewReader(fixtureSnapshot))
	if err != nil {
		t.Fatalf("load() returned error: %v", err)
	}
	if s.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", s.NodeCount())
	}
	if !s.HasNode("BRCA1") || !s.HasNode("BRCA2") {
		t.Error("expected both nodes to be present")
	}

	attrs, ok := s.EdgeAttrs("BRCA1", "BRCA2")
	if !ok {
		t.Fatal("EdgeAttrs(BRCA1, BRCA2) = false, want true")
	}
	if len(attrs.Statements["Phosphorylation"]) != 1 {
		t.Errorf("expected one Phosphorylation statement, got %d", len(attrs.Statements["Phosphorylation"]))
	}

	succ, err := s.SignedSuccessors(model.SignedNodeRef{Name: "BRCA1", Sign: model.SignPlus})
	if err != nil {
		t.Fatalf("SignedSuccessors(BRCA1+) returned error: %v", err)
	}
	if len(succ) != 1 {
		t.Errorf("expected one signed successor, got %d", len(succ))
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	if _, err := load(strings.NewReader("{not json")); err == nil {
		t.Error("load() with malformed JSON should return an error")
	}
}

func TestLoadLocalInflatesGzipSnapshot(t *testing.T) {
	blob, err := util.ZipAndEncode([]byte(fixtureSnapshot))
	if err != nil {
		t.Fatalf("ZipAndEncode() returned error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "snapshot.json.gz")
	if err := os.WriteFile(path, []byte(blob), 0o644); err != nil {
		t.Fatalf("WriteFile() returned error: %v", err)
	}

	s, err := LoadLocal(path)
	if err != nil {
		t.Fatalf("LoadLocal() returned error: %v", err)
	}
	if s.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", s.NodeCount())
	}
}
