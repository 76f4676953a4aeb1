package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/paceboot/paceboot/internal/analysis"
	"github.com/paceboot/paceboot/internal/config"
	"github.com/paceboot/paceboot/internal/store"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	store     store.Store
	analyzer  *analysis.Analyzer
	cfg       *config.Config
	logger    *slog.Logger
	metrics   *metrics
	token     string
	tokenFile string
	router    *http.ServeMux
	startTime time.Time
}

func New(s store.Store, cfg *config.Config, tokenFile string, logger *slog.Logger) *Server {
	srv := &Server{
		store:     s,
		analyzer:  analysis.New(s, cfg.Analysis, logger),
		cfg:       cfg,
		logger:    logger,
		metrics:   newMetrics(),
		token:     generateToken(),
		tokenFile: tokenFile,
		router:    http.NewServeMux(),
		startTime: time.Now(),
	}

	srv.setupRoutes()
	return srv
}

func (s *Server) setupRoutes() {
	// Public endpoints
	s.router.HandleFunc("/health", s.handleHealth)
	s.router.HandleFunc("/api/compare", s.handleCompareAPI)
	s.router.Handle("/metrics", s.metrics.handler())

	// Dashboard endpoints (protected)
	s.router.Handle("/dashboard", s.authMiddleware(http.HandlerFunc(s.handleDashboard)))
	s.router.Handle("/dashboard/charts", s.authMiddleware(http.HandlerFunc(s.handleDashboardCharts)))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, printMessages bool) error {
	addr := net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	// The bound port differs from the configured one when that is 0.
	port := ln.Addr().(*net.TCPAddr).Port
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	// Write token to file for the token command
	if s.tokenFile != "" {
		if err := WriteTokenFile(s.tokenFile, TokenFile{Token: s.token, URL: baseURL}); err != nil {
			s.logger.Warn("failed to write token file", "path", s.tokenFile, "error", err)
		}
		defer os.Remove(s.tokenFile)
	}

	httpSrv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	s.logger.Info("server listening", "addr", ln.Addr().String())
	if printMessages {
		fmt.Println()
		fmt.Printf("paceboot running on %s\n", baseURL)
		fmt.Printf("Dashboard: %s/dashboard?token=%s\n", baseURL, s.token)
		fmt.Println()
		fmt.Println("Press Ctrl+C to stop")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func (s *Server) Token() string {
	return s.token
}

func (s *Server) StartTime() time.Time {
	return s.startTime
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func generateToken() string {
	bytes := make([]byte, 4)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to a simple token if crypto/rand fails
		return "a1b2c3d4"
	}
	return hex.EncodeToString(bytes)
}
