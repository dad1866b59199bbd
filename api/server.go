package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"darksky-sensors/formatter"
	"darksky-sensors/host"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 1000
)

// Refresher triggers an on-demand forecast refresh
type Refresher interface {
	Refresh(ctx context.Context) error
	LastUpdateSuccess() bool
}

// Forecaster exposes the weather entity's forecast array
type Forecaster interface {
	Forecast() []formatter.ForecastEntry
}

// HistoryReader loads recorded states
type HistoryReader interface {
	History(ctx context.Context, entityID string, limit int) ([]host.State, error)
}

// Server represents the API server
type Server struct {
	states     *StateStore
	refresher  Refresher
	forecaster Forecaster
	history    HistoryReader
	router     *gin.Engine
	server     *http.Server
	logger     *logrus.Entry
}

// Option customizes a Server
type Option func(*Server)

// WithForecaster exposes a weather entity's forecast on /api/forecast
func WithForecaster(f Forecaster) Option {
	return func(s *Server) { s.forecaster = f }
}

// WithHistory exposes recorded states on /api/history
func WithHistory(h HistoryReader) Option {
	return func(s *Server) { s.history = h }
}

// NewServer creates a new API server
func NewServer(states *StateStore, refresher Refresher, addr string, logger *logrus.Logger, opts ...Option) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	server := &Server{
		states:    states,
		refresher: refresher,
		router:    router,
		server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger.WithField("component", "api"),
	}
	for _, opt := range opts {
		opt(server)
	}

	group := router.Group("/api")
	group.GET("/health", server.handleHealthCheck)
	group.GET("/states", server.handleGetAllStates)
	group.GET("/states/:entity_id", server.handleGetState)
	group.GET("/forecast", server.handleGetForecast)
	group.POST("/refresh", server.handleRefresh)
	group.GET("/history/:entity_id", server.handleGetHistory)

	return server
}

// Handler returns the HTTP handler, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins the API server
func (s *Server) Start() error {
	s.logger.WithField("addr", s.server.Addr).Info("starting API server")
	return s.server.ListenAndServe()
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleHealthCheck reports whether the last refresh succeeded
func (s *Server) handleHealthCheck(c *gin.Context) {
	status := "ok"
	if !s.refresher.LastUpdateSuccess() {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":              status,
		"last_update_success": s.refresher.LastUpdateSuccess(),
		"timestamp":           time.Now().Format(time.RFC3339),
	})
}

// handleGetAllStates returns every entity state
func (s *Server) handleGetAllStates(c *gin.Context) {
	c.JSON(http.StatusOK, s.states.GetAllStates())
}

// handleGetState returns one entity state
func (s *Server) handleGetState(c *gin.Context) {
	entityID := c.Param("entity_id")
	state, exists := s.states.GetState(entityID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("entity not found: %s", entityID)})
		return
	}
	c.JSON(http.StatusOK, state)
}

// handleGetForecast returns the weather entity's forecast array
func (s *Server) handleGetForecast(c *gin.Context) {
	if s.forecaster == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no weather entity configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"forecast":  s.forecaster.Forecast(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleRefresh runs a refresh and reports its outcome
func (s *Server) handleRefresh(c *gin.Context) {
	if err := s.refresher.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}

// handleGetHistory returns recorded states of one entity, newest first
func (s *Server) handleGetHistory(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recorder is disabled"})
		return
	}

	limit := defaultHistoryLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(l, maxHistoryLimit)
	}

	entityID := c.Param("entity_id")
	states, err := s.history.History(c.Request.Context(), entityID, limit)
	if err != nil {
		s.logger.WithError(err).WithField("entity_id", entityID).Error("failed to load history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entity_id": entityID,
		"states":    states,
		"count":     len(states),
	})
}

// requestLogger logs every request through logrus
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	log := logger.WithField("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("request handled")
	}
}
