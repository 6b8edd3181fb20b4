package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/geoassist/geoassist/engine/agent"
	"github.com/geoassist/geoassist/engine/core"
	"github.com/geoassist/geoassist/engine/infra/monitoring"
	"github.com/geoassist/geoassist/pkg/config"
	"github.com/geoassist/geoassist/pkg/logger"
	"github.com/geoassist/geoassist/pkg/version"
)

// Server exposes the answering core over HTTP.
type Server struct {
	cfg          *config.ServerConfig
	orchestrator *agent.Orchestrator
	metrics      *monitoring.Collector
	httpServer   *http.Server
}

func New(cfg *config.ServerConfig, orchestrator *agent.Orchestrator, metrics *monitoring.Collector) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server: config is required")
	}
	if orchestrator == nil {
		return nil, errors.New("server: orchestrator is required")
	}
	if metrics == nil {
		return nil, errors.New("server: metrics collector is required")
	}
	return &Server{cfg: cfg, orchestrator: orchestrator, metrics: metrics}, nil
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

type askResponse struct {
	Answer    string          `json:"answer"`
	Citations []core.Citation `json:"citations"`
	TraceID   string          `json:"trace_id"`
	Trace     *core.Trace     `json:"trace,omitempty"`
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", s.handleHealth)
	api := router.Group("/api/v0")
	api.POST("/ask", s.handleAsk)
	api.GET("/stats", s.handleStats)
	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Get(),
	})
}

func (s *Server) handleAsk(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}
	question := strings.TrimSpace(req.Question)
	if len(question) > s.cfg.QuestionMaxLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("question exceeds maximum length of %d characters", s.cfg.QuestionMaxLength),
		})
		return
	}
	ctx := c.Request.Context()
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}
	answer := s.orchestrator.Run(ctx, question)
	resp := askResponse{
		Answer:    answer.Text,
		Citations: answer.Citations,
	}
	if answer.Trace != nil {
		resp.TraceID = answer.Trace.RequestID
		if c.Query("include_trace") == "true" {
			resp.Trace = answer.Trace
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.metrics.Snapshot())
}

// Start runs the HTTP server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.FromContext(ctx).Info("HTTP server listening", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen failed: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown failed: %w", err)
	}
	return nil
}
