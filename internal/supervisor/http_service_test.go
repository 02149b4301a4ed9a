// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package supervisor

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

// fakeServer blocks in ListenAndServe until Shutdown is called, mirroring
// *http.Server's contract.
type fakeServer struct {
	listenErr error
	stop      chan struct{}
	shutdowns int
}

func newFakeServer() *fakeServer {
	return &fakeServer{stop: make(chan struct{})}
}

func (s *fakeServer) ListenAndServe() error {
	if s.listenErr != nil {
		return s.listenErr
	}
	<-s.stop
	return http.ErrServerClosed
}

func (s *fakeServer) Shutdown(_ context.Context) error {
	s.shutdowns++
	close(s.stop)
	return nil
}

func TestHTTPServiceGracefulShutdown(t *testing.T) {
	srv := newFakeServer()
	svc := NewHTTPService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return after cancellation")
	}
	if srv.shutdowns != 1 {
		t.Errorf("shutdowns = %d, want 1", srv.shutdowns)
	}
}

func TestHTTPServicePropagatesListenFailure(t *testing.T) {
	boom := errors.New("bind: address already in use")
	svc := NewHTTPService(&fakeServer{listenErr: boom}, time.Second)

	err := svc.Serve(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Serve() error = %v, want wrapped %v", err, boom)
	}
}

func TestHTTPServiceTreatsServerClosedAsClean(t *testing.T) {
	svc := NewHTTPService(&fakeServer{listenErr: http.ErrServerClosed}, time.Second)
	if err := svc.Serve(context.Background()); err != nil {
		t.Errorf("Serve() error = %v, want nil for ErrServerClosed", err)
	}
}
