// Package server bounds concurrent access to the assembler and tags each
// request with a correlation id for logging, independent of whatever
// transport (HTTP, CLI, test harness) calls it.
package server

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/indralab/network-search/internal/assembler"
	"github.com/indralab/network-search/internal/model"
	"github.com/indralab/network-search/internal/spec"
)

// Server wraps an Assembler with a bound on concurrent in-flight requests
// against the read-only graph store (SPEC_FULL.md's concurrency model: many
// requests run in parallel, but worker_pool_size caps how many at once).
type Server struct {
	Assembler assembler.Assembler
	sem       *semaphore.Weighted
}

// New returns a Server that admits at most maxConcurrent requests into the
// assembler at a time; additional requests block in Handle until a slot
// frees up or ctx is canceled.
func New(a assembler.Assembler, maxConcurrent int64) *Server {
	return &Server{Assembler: a, sem: semaphore.NewWeighted(maxConcurrent)}
}

// Handle acquires a worker slot, stamps the request with a correlation id,
// and delegates to the Assembler. The correlation id is attached to the log
// lines Handle itself writes for this request; the ctx passed on to the
// Assembler does not carry it.
func (s *Server) Handle(ctx context.Context, in spec.Input, depthLimit, kShortest int, userTimeout float64) (*model.Response, *model.SubgraphResults, error) {
	requestID := uuid.New().String()
	logger := slog.With("request_id", requestID)

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, nil, err
	}
	defer s.sem.Release(1)

	sp, err := spec.NewWithDefaults(in, depthLimit, kShortest, userTimeout)
	if err != nil {
		logger.Error("invalid search spec", "error", err)
		return nil, nil, err
	}

	logger.Info("handling search", "source", sp.Source, "target", sp.Target)
	resp, subgraph, err := s.Assembler.Handle(ctx, sp)
	if err != nil {
		logger.Error("search failed", "error", err)
		return nil, nil, err
	}
	return resp, subgraph, nil
}
