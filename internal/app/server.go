// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/GermanBionicSystems/epcal/preview"
)

const shutdownTimeout = 5 * time.Second

const indexHTML = `<!DOCTYPE html>
<html>
<head><title>epcal</title></head>
<body style="background:#888">
<img src="/stream" alt="calendar page" style="image-rendering:pixelated;width:750px">
</body>
</html>
`

// Server exposes the preview sink and the runner status over HTTP.
type Server struct {
	sink   *preview.Sink
	runner *Runner
	router chi.Router
}

// NewServer returns a Server. runner may be nil.
func NewServer(sink *preview.Sink, runner *Runner) *Server {
	s := &Server{sink: sink, runner: runner}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/page.png", sink.ServePNG)
	r.Head("/page.png", sink.ServePNG)
	r.Get("/stream", sink.ServeHTTP)
	r.Get("/healthz", s.handleHealth)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

// health is the /healthz response.
type health struct {
	Frames    uint64    `json:"frames"`
	Updated   time.Time `json:"updated,omitzero"`
	Updates   uint64    `json:"updates"`
	Page      string    `json:"page,omitempty"`
	Mode      string    `json:"mode,omitempty"`
	LastError string    `json:"last_error,omitempty"`
	healthy   bool
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h := health{healthy: true}
	h.Frames, h.Updated = s.sink.Stats()

	if s.runner != nil {
		st := s.runner.Status()
		h.Updates = st.Updates
		if st.Updates > 0 {
			h.Page = st.Fields.String()
			h.Mode = st.Mode.String()
		}
		if st.Err != nil {
			h.LastError = st.Err.Error()
			h.healthy = false
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if !h.healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(h); err != nil {
		log.Debug().Err(err).Msg("writing health failed")
	}
}

// ListenAndServe serves on addr until ctx is done. Running streams are ended
// before the server shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("preview listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		_ = s.sink.Halt()

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}

// Run runs the runner and, if srv is not nil, the preview server until ctx is
// done or one of them fails.
func Run(ctx context.Context, r *Runner, srv *Server, addr string) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.Run(ctx)
	})

	if srv != nil {
		g.Go(func() error {
			return srv.ListenAndServe(ctx, addr)
		})
	}

	return g.Wait()
}
