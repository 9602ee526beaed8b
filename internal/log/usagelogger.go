package log

import (
	"log/slog"
)

// AlgorithmLog captures per-sub-query bookkeeping for one request: which
// algorithm family ran, how many results it produced, and whether it hit
// its deadline or result cap before the underlying iterator went dry.
type AlgorithmLog struct {
	AlgName    string `json:"alg_name"`
	ResultsN   int    `json:"results_n"`
	TimedOut   bool   `json:"timed_out"`
	CapReached bool   `json:"cap_reached"`
}

// UsageLog is the full structured record written for one handled search
// request. It is deliberately independent of the wire protocol: only the
// query hash, which is stable across request formats, identifies the query.
type UsageLog struct {
	QueryHash  string         `json:"query_hash"`
	ElapsedMs  int64          `json:"elapsed_ms"`
	TimedOut   bool           `json:"timed_out"`
	Algorithms []AlgorithmLog `json:"algorithms"`
}

// LogValue lets slog render a UsageLog as a structured group rather than a
// formatted string, so it survives JSON log ingestion intact.
func (u UsageLog) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("query_hash", u.QueryHash),
		slog.Int64("elapsed_ms", u.ElapsedMs),
		slog.Bool("timed_out", u.TimedOut),
		slog.Any("algorithms", u.Algorithms),
	)
}

// WriteUsageLog writes a structured log entry for one handled request. It is
// the only place request-level telemetry is emitted, so that changing the
// shape of usage analytics never requires touching the assembler itself.
func WriteUsageLog(u UsageLog) {
	slog.Info("handled_query", slog.Any("usage_log", u))
}
