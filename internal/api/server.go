// Package api exposes the discovery pipeline over HTTP.
package api

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/scholarstream/scholarstream/internal/discovery"
	"github.com/scholarstream/scholarstream/internal/jobs"
	"github.com/scholarstream/scholarstream/internal/models"
	"github.com/scholarstream/scholarstream/internal/store"
)

type Server struct {
	Echo         *echo.Echo
	orchestrator *discovery.Orchestrator
	store        store.Store
	logger       *zap.Logger
}

type discoverRequest struct {
	UserID  string             `json:"userId"`
	Profile models.UserProfile `json:"profile"`
}

func NewServer(orchestrator *discovery.Orchestrator, s store.Store, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// CORS: allow frontend origins from env or default to localhost
	allowedOrigins := []string{"http://localhost:3000"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	srv := &Server{
		Echo:         e,
		orchestrator: orchestrator,
		store:        s,
		logger:       logger.Named("api"),
	}

	srv.routes()
	return srv
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)

	api := s.Echo.Group("/api/scholarships")
	api.POST("/discover", s.handleDiscover)
	api.GET("/discovery-status/:job_id", s.handleDiscoveryStatus)
	api.GET("/matched/:user_id", s.handleMatched)

	saved := api.Group("/saved/:user_id")
	saved.POST("/:id", s.handleSave)
	saved.DELETE("/:id", s.handleUnsave)
	saved.GET("", s.handleGetSaved)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleDiscover(c echo.Context) error {
	var req discoverRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.UserID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "userId is required"})
	}

	resp, err := s.orchestrator.Discover(c.Request().Context(), req.UserID, req.Profile)
	if err != nil {
		s.logger.Error("discovery request failed",
			zap.String("user_id", req.UserID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	status := http.StatusOK
	if resp.Status == models.JobProcessing {
		status = http.StatusAccepted
	}
	return c.JSON(status, resp)
}

func (s *Server) handleDiscoveryStatus(c echo.Context) error {
	jobID := c.Param("job_id")

	status, err := s.orchestrator.JobStatus(c.Request().Context(), jobID)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Job not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, status)
}

func (s *Server) handleMatched(c echo.Context) error {
	userID := c.Param("user_id")

	matched, err := s.orchestrator.Matched(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	var totalValue float64
	for _, m := range matched {
		totalValue += m.Amount
	}
	return c.JSON(http.StatusOK, map[string]any{
		"scholarships": matched,
		"total":        len(matched),
		"totalValue":   totalValue,
	})
}

func (s *Server) handleSave(c echo.Context) error {
	userID := c.Param("user_id")
	id := c.Param("id")

	if _, err := s.store.GetOpportunity(c.Request().Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Scholarship not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	if err := s.store.AddSavedOpportunity(c.Request().Context(), userID, id); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleUnsave(c echo.Context) error {
	userID := c.Param("user_id")
	id := c.Param("id")

	if err := s.store.RemoveSavedOpportunity(c.Request().Context(), userID, id); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleGetSaved(c echo.Context) error {
	userID := c.Param("user_id")
	ctx := c.Request().Context()

	ids, err := s.store.GetSavedOpportunities(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	saved := make([]models.Opportunity, 0, len(ids))
	for _, id := range ids {
		opp, err := s.store.GetOpportunity(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		saved = append(saved, opp)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"scholarships": saved,
		"total":        len(saved),
	})
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}
