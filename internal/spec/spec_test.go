package spec

import "testing"

func mustNew(t *testing.T, in Input) *Spec {
	t.Helper()
	s, err := New(in)
	if err != nil {
		t.Fatalf("New(%+v) returned error: %v", in, err)
	}
	return s
}

func TestNewAppliesDefaults(t *testing.T) {
	s := mustNew(t, Input{Source: "BRCA1", Target: "BRCA2"})
	if s.DepthLimit != defaultDepthLimit {
		t.Errorf("DepthLimit = %d, want %d", s.DepthLimit, defaultDepthLimit)
	}
	if s.KShortest != defaultKShortest {
		t.Errorf("KShortest = %d, want %d", s.KShortest, defaultKShortest)
	}
	if s.UserTimeout != defaultTimeout {
		t.Errorf("UserTimeout = %v, want %v", s.UserTimeout, defaultTimeout)
	}
}

func TestNewExplicitZeroTimeoutIsHonored(t *testing.T) {
	zero := 0.0
	s := mustNew(t, Input{Source: "BRCA1", Target: "BRCA2", UserTimeout: &zero})
	if s.UserTimeout != 0 {
		t.Errorf("UserTimeout = %v, want 0 (explicit)", s.UserTimeout)
	}
}

func TestNewRequiresSourceOrTarget(t *testing.T) {
	if _, err := New(Input{}); err == nil {
		t.Fatal("New({}) should have failed validation")
	}
}

func TestNewFoldsCase(t *testing.T) {
	s := mustNew(t, Input{Source: "BRCA1", AllowedNS: []string{"HGNC"}, StmtFilter: []string{"Phosphorylation"}})
	if s.AllowedNS[0] != "hgnc" {
		t.Errorf("AllowedNS[0] = %q, want folded %q", s.AllowedNS[0], "hgnc")
	}
}

func TestNewFoldsTerminalNSCase(t *testing.T) {
	s := mustNew(t, Input{Source: "BRCA1", TerminalNS: []string{"FPLX"}})
	if s.TerminalNS[0] != "fplx" {
		t.Errorf("TerminalNS[0] = %q, want folded %q", s.TerminalNS[0], "fplx")
	}
}

func TestReverseSwapsSourceAndTarget(t *testing.T) {
	s := mustNew(t, Input{Source: "BRCA1", Target: "BRCA2"})
	r := s.Reverse()
	if r.Source != "BRCA2" || r.Target != "BRCA1" {
		t.Errorf("Reverse() = {%q,%q}, want {BRCA2,BRCA1}", r.Source, r.Target)
	}
	if s.Source != "BRCA1" {
		t.Error("Reverse() must not mutate the receiver")
	}
}

func TestHashStableUnderDoubleReversal(t *testing.T) {
	s := mustNew(t, Input{Source: "BRCA1", Target: "BRCA2"})
	h1, err := s.Hash()
	if err != nil {
		t.Fatal(err)
	}
	h2, err := s.Reverse().Reverse().Hash()
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Errorf("hash(spec) = %v, hash(reverse(reverse(spec))) = %v, want equal", h1, h2)
	}
}

func TestHashIgnoresFormat(t *testing.T) {
	a := mustNew(t, Input{Source: "BRCA1", Format: "json"})
	b := mustNew(t, Input{Source: "BRCA1", Format: "html"})
	h1, _ := a.Hash()
	h2, _ := b.Hash()
	if h1 != h2 {
		t.Errorf("hash should ignore format: %v != %v", h1, h2)
	}
}

func TestContextAndOverallWeighted(t *testing.T) {
	s := mustNew(t, Input{Source: "BRCA1", MeshIDs: []string{"D001"}})
	if !s.ContextWeighted() {
		t.Error("ContextWeighted() = false, want true")
	}
	if !s.OverallWeighted() {
		t.Error("OverallWeighted() = false, want true")
	}

	s2 := mustNew(t, Input{Source: "BRCA1", MeshIDs: []string{"D001"}, StrictMeshIDFiltering: true})
	if s2.ContextWeighted() {
		t.Error("ContextWeighted() = true with strict filtering, want false")
	}
}

func TestFilterSetNoFilters(t *testing.T) {
	s := mustNew(t, Input{Source: "BRCA1", Target: "BRCA2"})
	fs := NewFilterSet(s)
	if !fs.NoFilters() {
		t.Error("NoFilters() = false, want true for a bare spec")
	}

	s2 := mustNew(t, Input{Source: "BRCA1", Target: "BRCA2", NodeBlacklist: []string{"AR"}})
	fs2 := NewFilterSet(s2)
	if fs2.NoFilters() || fs2.NoNodeFilters() {
		t.Error("node blacklist should disable NoFilters/NoNodeFilters")
	}
	if !fs2.WithoutNodeBlacklist().NoNodeFilters() {
		t.Error("WithoutNodeBlacklist() should clear the node blacklist")
	}
}
