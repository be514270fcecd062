// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package api serves the read-only operator status endpoints.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luxfi/oracle/pool"
)

const shutdownGrace = 5 * time.Second

// Status is the snapshot published after every tick.
type Status struct {
	State     string               `json:"state"`
	Epoch     *pool.LiveEpochState `json:"epoch,omitempty"`
	LastError string               `json:"lastError,omitempty"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// Server exposes the latest published status. The tick loop hands
// snapshots over a size-1 channel, so a slow reader can never hold
// the loop back for more than one stale snapshot.
type Server struct {
	log      log.Logger
	gatherer prometheus.Gatherer
	updates  chan Status

	mu     sync.RWMutex
	latest *Status
}

func NewServer(logger log.Logger, gatherer prometheus.Gatherer) *Server {
	return &Server{
		log:      logger,
		gatherer: gatherer,
		updates:  make(chan Status, 1),
	}
}

// Publish replaces any pending snapshot without blocking.
func (s *Server) Publish(status Status) {
	for {
		select {
		case s.updates <- status:
			return
		default:
			select {
			case <-s.updates:
			default:
			}
		}
	}
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return router
}

// Serve consumes published snapshots and blocks until ctx is
// canceled or the listener fails.
func (s *Server) Serve(ctx context.Context, addr string) error {
	go s.consume(ctx)

	server := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()
	s.log.Info("status server listening", log.String("addr", addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errs:
		return err
	}
}

func (s *Server) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case status := <-s.updates:
			s.mu.Lock()
			s.latest = &status
			s.mu.Unlock()
		}
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()

	if latest == nil {
		http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(latest); err != nil {
		s.log.Warn("encoding status response", log.Err(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
