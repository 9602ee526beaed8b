package util

import (
	"testing"
)

func TestZipAndEncode(t *testing.T) {
	for _, c := range [][]byte{
		[]byte("abc123"),
		[]byte("<a>abc</a>"),
		[]byte(`["a":{"b":"c"}]`),
	} {
		r1, err := ZipAndEncode(c)
		if err != nil {
			t.Errorf("ZipAndEncode(%v) = %v", c, err)
			continue
		}

		r2, err := UnzipAndDecode(r1)
		if err != nil {
			t.Errorf("UnzipAndDecode(%v) = %v", r1, err)
			continue
		}

		if got, want := string(r2), string(c); got != want {
			t.Errorf("UnzipAndDecode(ZipAndEncode()) = %v, want %v", got, want)
		}
	}
}

func TestStringContainedIn(t *testing.T) {
	cases := []struct {
		target string
		strs   []string
		want   bool
	}{
		{"a", []string{"a", "b"}, true},
		{"c", []string{"a", "b"}, false},
		{"a", nil, false},
	}
	for _, c := range cases {
		if got := StringContainedIn(c.target, c.strs); got != c.want {
			t.Errorf("StringContainedIn(%q, %v) = %v, want %v", c.target, c.strs, got, c.want)
		}
	}
}

func TestCaseFold(t *testing.T) {
	cases := []struct{ in, want string }{
		{"HGNC", "hgnc"},
		{"MeSH", "mesh"},
		{"already-lower", "already-lower"},
	}
	for _, c := range cases {
		if got := CaseFold(c.in); got != c.want {
			t.Errorf("CaseFold(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"  ", nil},
		{"HGNC", []string{"HGNC"}},
		{"HGNC, FPLX ,MESH", []string{"HGNC", "FPLX", "MESH"}},
	}
	for _, c := range cases {
		got := SplitCSV(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("SplitCSV(%q) = %v, want %v", c.in, got, c.want)
		}
		for i := range c.want {
			if got[i] != c.want[i] {
				t.Errorf("SplitCSV(%q)[%d] = %q, want %q", c.in, i, got[i], c.want[i])
			}
		}
	}
}

func TestCanonicalJSONHashStableUnderKeyOrder(t *testing.T) {
	type spec struct {
		A string `json:"a"`
		B string `json:"b"`
	}
	h1, err := CanonicalJSONHash(spec{A: "x", B: "y"})
	if err != nil {
		t.Fatal(err)
	}
	h2, err := CanonicalJSONHash(map[string]string{"b": "y", "a": "x"})
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Errorf("CanonicalJSONHash should not depend on field declaration order: %v != %v", h1, h2)
	}
}

func TestCanonicalJSONHashIgnoresKeys(t *testing.T) {
	type spec struct {
		A      string `json:"a"`
		Format string `json:"format"`
	}
	h1, err := CanonicalJSONHash(spec{A: "x", Format: "json"}, "format")
	if err != nil {
		t.Fatal(err)
	}
	h2, err := CanonicalJSONHash(spec{A: "x", Format: "html"}, "format")
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Errorf("CanonicalJSONHash should ignore the format key: %v != %v", h1, h2)
	}
}
