// Package httpserver wires the public endpoints and the two API surfaces:
// API-key authenticated ingestion and bearer-token authenticated analytics.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pulseboard/pulseboard/internal/access"
	"github.com/pulseboard/pulseboard/internal/analytics"
	"github.com/pulseboard/pulseboard/internal/auth"
	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/handlers"
	"github.com/pulseboard/pulseboard/internal/ingest"
	"github.com/pulseboard/pulseboard/internal/store"
)

// requestLogger emits one structured line per request.
func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Info("request")
	}
}

// NewRouter builds the service router.
// Public: /health, /ready
// Ingestion: POST /v1/ingest (x-api-key)
// Analytics: GET /v1/analytics/:projectId/{mrr,active-users,churn} (bearer)
func NewRouter(cfg *config.Config, log *logrus.Logger, st *store.Store) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the DB dependency is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	ingestSvc := ingest.NewService(st, st)
	handlers.RegisterIngestRoutes(r, ingestSvc, log)

	gate := access.NewGate(st, st)
	analyticsSvc := analytics.NewService(gate, st)

	authed := r.Group("/")
	authed.Use(auth.Middleware([]byte(cfg.JWTSecret)))
	handlers.RegisterAnalyticsRoutes(authed, analyticsSvc, log)

	return r
}
