// Package api exposes the HTTP and WebSocket surface of the fee advisor.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solana-fee-advisor/internal/congestion"
	"solana-fee-advisor/internal/domain"
	"solana-fee-advisor/internal/fees"
	"solana-fee-advisor/internal/notifications"
	"solana-fee-advisor/internal/observability"
)

// SampleRecorder accepts congestion samples for persistence without blocking.
type SampleRecorder interface {
	Record(rec *domain.NetworkStatusRecord) bool
}

// Options contains configuration for creating a Server.
type Options struct {
	Classifier        *congestion.Classifier
	Generator         *congestion.Generator
	Calculator        *fees.Calculator
	Notifications     *notifications.Service
	Recorder          SampleRecorder // optional
	CORSOrigins       []string       // empty allows all origins
	BroadcastInterval time.Duration  // Default: 10s
	StorageMode       string         // reported by /status
	Logger            *zap.Logger
	Clock             func() time.Time
}

// Server wires the engine components to HTTP routes.
type Server struct {
	router        *gin.Engine
	classifier    *congestion.Classifier
	generator     *congestion.Generator
	calculator    *fees.Calculator
	notifications *notifications.Service
	recorder      SampleRecorder
	hub           *Hub
	storageMode   string
	logger        *zap.Logger
	now           func() time.Time
	started       time.Time
}

// NewServer creates a Server and registers all routes.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	s := &Server{
		classifier:    opts.Classifier,
		generator:     opts.Generator,
		calculator:    opts.Calculator,
		notifications: opts.Notifications,
		recorder:      opts.Recorder,
		storageMode:   opts.StorageMode,
		logger:        logger.Named("api"),
		now:           now,
		started:       now(),
	}

	s.hub = NewHub(HubOptions{
		Snapshot: s.sample,
		Interval: opts.BroadcastInterval,
		Logger:   logger,
		Clock:    now,
	})

	s.router = s.newRouter(opts.CORSOrigins)
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the WebSocket hub so the caller can run its broadcast loop.
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) newRouter(corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(s.logger))
	r.Use(recoveryMiddleware(s.logger))
	r.Use(corsMiddleware(corsOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(observability.Handler()))
	r.GET("/status", s.handleStatus)
	r.GET("/ws", s.hub.ServeWS)

	api := r.Group("/api")
	{
		api.GET("/network-status", s.handleNetworkStatus)
		api.GET("/historical-data", s.handleHistoricalData)
		api.POST("/priority-fee-recommendation", s.handlePriorityFee)

		api.GET("/notifications", s.handleListNotifications)
		api.POST("/notifications/settings", s.handleSaveSettings)
		api.POST("/notifications/sample", s.handleCreateSamples)
		api.POST("/notifications/read", s.handleMarkRead)
	}

	return r
}

// sample classifies a fresh congestion sample and hands it to the recorder.
func (s *Server) sample() domain.CongestionReport {
	report := s.classifier.Classify()
	observability.RecordCongestionReport(string(report.CongestionStatus), report.CongestionPercentage)

	if s.recorder != nil {
		s.recorder.Record(domain.NewNetworkStatusRecord(report, s.now().UnixMilli()))
	}
	return report
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status      string    `json:"status"`
	Uptime      string    `json:"uptime"`
	Started     time.Time `json:"started"`
	StorageMode string    `json:"storage_mode"`
	WSClients   int       `json:"ws_clients"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Status:      "running",
		Uptime:      s.now().Sub(s.started).Truncate(time.Second).String(),
		Started:     s.started,
		StorageMode: s.storageMode,
		WSClients:   s.hub.ClientCount(),
	})
}
