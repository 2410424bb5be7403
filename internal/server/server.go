// Package server exposes the invoice lifecycle over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"cashflow/internal/lifecycle"
	"cashflow/internal/logger"
)

// DefaultShutdownTimeout bounds the graceful shutdown in Run.
const DefaultShutdownTimeout = 10 * time.Second

// Options configures the HTTP server.
type Options struct {
	Addr string

	// RateLimit is the sustained number of mutating requests per second.
	RateLimit float64
	Burst     int
}

// Server serves the lifecycle API.
type Server struct {
	engine  *lifecycle.Engine
	limiter *rate.Limiter
	router  *gin.Engine
	http    *http.Server
	log     zerolog.Logger
}

// New builds the router and wires every route to engine.
func New(engine *lifecycle.Engine, opts Options) *Server {
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5
	}
	if opts.Burst < 1 {
		opts.Burst = int(opts.RateLimit * 2)
		if opts.Burst < 1 {
			opts.Burst = 1
		}
	}

	s := &Server{
		engine:  engine,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst),
		log:     logger.WithComponent("server"),
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), cors())

	router.GET("/health", s.health)

	// The /api prefix keeps existing dashboard clients working.
	for _, prefix := range []string{"", "/api"} {
		group := router.Group(prefix)
		group.POST("/invoices", s.rateLimit(), s.postInvoices)
		group.POST("/networks", s.rateLimit(), s.postNetworks)
		group.GET("/networks", s.getNetworks)
		group.GET("/dashboard", s.getDashboard)
		group.GET("/todo", s.getTodo)
		group.GET("/journal/pending", s.getPendingJournal)
	}

	s.router = router
	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.http.Addr).Msg("HTTP server starting")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cashflow",
	})
}
