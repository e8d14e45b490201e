// Package gin exposes the extraction pipeline over HTTP.
package gin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/helpdoc"
	"github.com/gin-gonic/gin"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// Server is the HTTP shell around a Fetcher and a Processor.
type Server struct {
	router *gin.Engine
	server *http.Server
	ln     net.Listener

	// Addr is the address to listen on, e.g. ":8080".
	Addr string

	// BaseURL resolves relative url parameters.
	BaseURL string

	// Services used by the handlers.
	Fetcher   helpdoc.Fetcher
	Processor helpdoc.Processor

	// Containers lists up to limit candidate containers of a page. When set,
	// a failed selector override responds with them as availableSelectors.
	Containers func(html string, limit int) []helpdoc.Container

	Logger *slog.Logger
}

// NewServer creates a Server with its middleware and routes installed.
// Services must be assigned before the server handles requests.
func NewServer(logger *slog.Logger) *Server {
	s := &Server{
		router:  gin.New(),
		BaseURL: helpdoc.DefaultBaseURL,
		Logger:  logger,
	}

	s.router.Use(RecoveryMiddleware(logger))
	s.router.Use(RequestIDMiddleware())
	s.router.Use(LoggerMiddleware(logger))
	s.router.Use(CORSMiddleware())

	s.router.GET("/health", s.handleHealth)
	for _, path := range []string{"/", "/api/proxy"} {
		s.router.GET(path, s.handleExtract)
		s.router.OPTIONS(path, func(c *gin.Context) { c.Status(http.StatusOK) })
	}

	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// ServeHTTP lets the server be used as an http.Handler, mostly in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Open starts listening on Addr and serves requests in the background.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return fmt.Errorf("listen on %s: %w", s.Addr, err)
	}

	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("http server", "err", err)
		}
	}()

	s.Logger.Info("http server listening", "addr", s.ln.Addr().String())
	return nil
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
