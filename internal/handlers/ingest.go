package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pulseboard/pulseboard/internal/apperr"
	"github.com/pulseboard/pulseboard/internal/event"
	"github.com/pulseboard/pulseboard/internal/ingest"
)

// Ingester is the slice of the ingestion service the handler needs.
type Ingester interface {
	Ingest(ctx context.Context, apiKey string, items []event.Incoming) (*ingest.Result, error)
}

// RegisterIngestRoutes registers the write-path endpoint.
//
// POST /v1/ingest
// - Tenant context comes from the x-api-key header; an absent header is a
//   request-shape error (400), an unknown key an authentication failure (401).
// - All-or-nothing: a malformed batch writes nothing and returns the
//   itemized issue list.
func RegisterIngestRoutes(r gin.IRoutes, svc Ingester, log *logrus.Logger) {
	r.POST("/v1/ingest", func(c *gin.Context) {
		apiKey := c.GetHeader("x-api-key")
		if apiKey == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Missing x-api-key header"})
			return
		}

		var items []event.Incoming
		if err := c.ShouldBindJSON(&items); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON payload"})
			return
		}

		res, err := svc.Ingest(c.Request.Context(), apiKey, items)
		if err != nil {
			var verr *apperr.ValidationError
			switch {
			case errors.As(err, &verr):
				c.JSON(http.StatusBadRequest, verr)
			case errors.Is(err, apperr.ErrUnauthorized):
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid API key"})
			default:
				log.WithError(err).Error("ingest failed")
				c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			}
			return
		}

		c.JSON(http.StatusOK, res)
	})
}
