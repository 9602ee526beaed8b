// Package util holds small generic helpers shared across the query
// pipeline: string-set operations, case folding, CSV parsing, gzip+base64
// snapshot blob encoding, and the canonical-JSON FNV-1a hash used to derive
// a stable query hash from a search spec.
package util

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// ZipAndEncode compresses the given contents using gzip and encodes it in
// base64. Used by the compress-snapshot CLI command to produce the ".gz"
// blob format graphstore.LoadLocal inflates with UnzipAndDecode.
func ZipAndEncode(contents []byte) (string, error) {
	var buf bytes.Buffer
	gzWriter := gzip.NewWriter(&buf)

	if _, err := gzWriter.Write(contents); err != nil {
		return "", err
	}
	if err := gzWriter.Flush(); err != nil {
		return "", err
	}
	if err := gzWriter.Close(); err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// UnzipAndDecode decompresses the given contents using gzip and decodes it
// from base64. graphstore.LoadLocal calls this on a ".gz" snapshot path.
func UnzipAndDecode(contents string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(contents)
	if err != nil {
		return nil, err
	}

	gzReader, err := gzip.NewReader(bytes.NewReader(decoded))
	if err != nil {
		return nil, err
	}
	defer gzReader.Close()
	return io.ReadAll(gzReader)
}

// StringContainedIn returns true if target is contained in strs.
func StringContainedIn(target string, strs []string) bool {
	for _, s := range strs {
		if s == target {
			return true
		}
	}
	return false
}

var foldCaser = cases.Fold()

// CaseFold lower-cases a string using Unicode case folding, the same
// normalization the search spec applies to namespaces and statement types
// before comparison (golang.org/x/text/cases, in the
// same style as the teacher's SnakeToCamel use of golang.org/x/text).
func CaseFold(s string) string {
	return foldCaser.String(s)
}

// CaseFoldAll applies CaseFold to every element of strs, returning a new
// slice.
func CaseFoldAll(strs []string) []string {
	out := make([]string, len(strs))
	for i, s := range strs {
		out[i] = CaseFold(s)
	}
	return out
}

// CanonicalJSONHash computes a stable 32-bit FNV-1a hash over the
// canonical-sorted JSON encoding of v, skipping any top-level key named in
// ignoreKeys. "Canonical-sorted" means: object keys at every nesting level
// are emitted in sorted order, which json.Marshal already guarantees for
// Go maps but not for struct fields in declaration order, so v is first
// round-tripped through a map.
func CanonicalJSONHash(v any, ignoreKeys ...string) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	var asMap map[string]any
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return "", err
	}
	for _, k := range ignoreKeys {
		delete(asMap, k)
	}

	canonical, err := canonicalize(asMap)
	if err != nil {
		return "", err
	}

	h := fnv.New32a()
	if _, err := h.Write(canonical); err != nil {
		return "", err
	}
	return fmt.Sprint(h.Sum32()), nil
}

// canonicalize re-marshals a decoded JSON value with map keys in sorted
// order at every level, recursively.
func canonicalize(v any) ([]byte, error) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			vb, err := canonicalize(val[k])
			if err != nil {
				return nil, err
			}
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case []any:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			ib, err := canonicalize(item)
			if err != nil {
				return nil, err
			}
			buf.Write(ib)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	default:
		return json.Marshal(val)
	}
}

// SplitCSV is a small convenience used when parsing comma-separated config
// values (e.g. allowed namespaces supplied on the CLI).
func SplitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
