// Package httpapi exposes the storefront services over HTTP/JSON.
package httpapi

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/logging"
)

const (
	defaultReadHeaderTimeout = 5 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
)

type HTTPServer struct {
	address           string
	logger            logging.Logger
	users             UserService
	products          ProductService
	orders            OrderService
	pinger            Pinger
	readHeaderTimeout time.Duration
	shutdownTimeout   time.Duration
}

// Option tunes an HTTPServer.
type Option func(*HTTPServer)

func WithReadHeaderTimeout(d time.Duration) Option {
	return func(s *HTTPServer) {
		if d > 0 {
			s.readHeaderTimeout = d
		}
	}
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(s *HTTPServer) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

func NewHTTPServer(a string, l logging.Logger, us UserService, ps ProductService, os OrderService, p Pinger, opts ...Option) *HTTPServer {
	s := &HTTPServer{
		address:           a,
		logger:            l.With("module", "http_server"),
		users:             us,
		products:          ps,
		orders:            os,
		pinger:            p,
		readHeaderTimeout: defaultReadHeaderTimeout,
		shutdownTimeout:   defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully, waiting
// up to the shutdown timeout for in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: s.readHeaderTimeout,
		ErrorLog:          log.New(errorLogWriter{s.logger}, "", 0),
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}

// errorLogWriter routes net/http's internal error log into the structured logger.
type errorLogWriter struct {
	logger logging.Logger
}

func (w errorLogWriter) Write(p []byte) (int, error) {
	w.logger.Error(context.Background(), strings.TrimSpace(string(p)))
	return len(p), nil
}
