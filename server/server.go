// Package server runs the taskboard HTTP surface: it wraps a handler with
// panic recovery and request logging, and shuts down gracefully on
// interrupt.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 5 * time.Second

// Options configures a server.
type Options struct {
	// Handler serves every request. Required.
	Handler http.Handler

	Logger *zerolog.Logger

	// ShutdownTimeout bounds graceful shutdown. Defaults to five seconds.
	ShutdownTimeout time.Duration

	// Check, when set, runs every CheckInterval while the server is up.
	Check         func(ctx context.Context) error
	CheckInterval time.Duration
}

// Server serves the wrapped handler.
type Server struct {
	handler         http.Handler
	log             zerolog.Logger
	shutdownTimeout time.Duration
	check           func(ctx context.Context) error
	checkInterval   time.Duration
}

// New creates a server.
func New(opts Options) (*Server, error) {
	if opts.Handler == nil {
		return nil, fmt.Errorf("handler is required")
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("cmp", "server").Logger()
	}
	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	return &Server{
		handler:         opts.Handler,
		log:             logger,
		shutdownTimeout: timeout,
		check:           opts.Check,
		checkInterval:   opts.CheckInterval,
	}, nil
}

// Handler returns the wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.recoverHandler(s.handler)
}

// Serve listens on addr until an interrupt arrives.
func (s *Server) Serve(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	return s.serve(listener, interrupts)
}

func (s *Server) serve(listener net.Listener, interrupts <-chan os.Signal) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ErrorLog:          log.New(s.log, "", 0),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info().Str("addr", listener.Addr().String()).Msg("listening")

	checkCtx, stopChecks := context.WithCancel(context.Background())
	checksDone := s.startChecks(checkCtx)

	listenErrs := make(chan error, 1)
	go func() {
		listenErrs <- server.Serve(listener)
	}()

	select {
	case err := <-listenErrs:
		stopChecks()
		<-checksDone
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("server stopped")
			return err
		}
		return nil
	case <-interrupts:
		s.log.Info().Msg("interrupt received, shutting down")
		stopChecks()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		shutdownErr := server.Shutdown(shutdownCtx)
		cancel()
		<-checksDone
		listenErr := <-listenErrs
		if errors.Is(listenErr, http.ErrServerClosed) {
			listenErr = nil
		}
		return errors.Join(shutdownErr, listenErr)
	}
}

func (s *Server) startChecks(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	if s.check == nil || s.checkInterval <= 0 {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		ticker := time.NewTicker(s.checkInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.check(ctx); err != nil && ctx.Err() == nil {
					s.log.Warn().Err(err).Msg("background check failed")
				}
			}
		}
	}()
	return done
}

func (s *Server) recoverHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		writer := &responseTracker{ResponseWriter: w}
		defer func() {
			if recovered := recover(); recovered != nil {
				s.log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", recovered).
					Bytes("stack", debug.Stack()).
					Msg("panic handling request")
				if !writer.wroteHeader {
					writeJSON(writer, http.StatusInternalServerError, map[string]any{"success": false, "error": "internal server error"})
				}
			}
			s.log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", writer.Status()).
				Dur("duration", time.Since(started)).
				Msg("request")
		}()
		next.ServeHTTP(writer, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type responseTracker struct {
	http.ResponseWriter
	wroteHeader bool
	status      int
}

func (w *responseTracker) WriteHeader(status int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseTracker) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(data)
}

// Status reports the response status, 200 when nothing was written.
func (w *responseTracker) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *responseTracker) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
