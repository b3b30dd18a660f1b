// Package api serves the dashboard's HTTP API: scoring, live data,
// forecasting, weather impact, the chat assistant and image diagnosis.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmitriimaksimovdevelop/aquanova/internal/assistant"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/forecast"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/model"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/store"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/weather"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 5 * time.Second

// LiveFeed supplies the most recent live reading.
type LiveFeed interface {
	Latest() (model.Reading, error)
}

// Deps are the collaborators the API delegates to. Nil History disables
// /api/history and nil Diagnoser disables /api/diagnose.
type Deps struct {
	Live       LiveFeed
	History    store.Store
	Forecaster forecast.Forecaster
	Weather    weather.Provider
	Chat       assistant.ChatResponder
	Diagnoser  assistant.ImageDiagnoser
	Noise      model.NoiseSource
	Location   string
	Mode       string
	Logger     *zap.Logger
}

// Server is the HTTP API.
type Server struct {
	deps   Deps
	logger *zap.Logger
	engine *gin.Engine
}

// NewServer builds the router.
func NewServer(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Forecaster == nil {
		deps.Forecaster = forecast.NewLinearForecaster()
	}
	if deps.Weather == nil {
		deps.Weather = &weather.Fallback{Logger: deps.Logger}
	}
	if deps.Chat == nil {
		deps.Chat = assistant.Offline{}
	}
	if deps.Location == "" {
		deps.Location = "Burrishoole Catchment, Ireland"
	}
	if deps.Mode == "" {
		deps.Mode = "Action-Based Expert Rules"
	}

	s := &Server{deps: deps, logger: deps.Logger}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(s.logger))
	router.Use(corsMiddleware())

	router.GET("/", s.handleRoot)
	router.POST("/predict", s.handlePredict)

	api := router.Group("/api")
	api.GET("/live-data", s.handleLiveData)
	api.GET("/history", s.handleHistory)
	api.POST("/forecast", s.handleForecast)
	api.GET("/weather-impact", s.handleWeatherImpact)
	api.POST("/chat", s.handleChat)
	api.POST("/diagnose", s.handleDiagnose)
	api.POST("/simulate", s.handleSimulate)
	api.GET("/parameters", s.handleParameters)

	return router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("API stopped")
	return nil
}
