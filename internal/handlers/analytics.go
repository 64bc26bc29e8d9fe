package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pulseboard/pulseboard/internal/analytics"
	"github.com/pulseboard/pulseboard/internal/apperr"
	"github.com/pulseboard/pulseboard/internal/auth"
	"github.com/pulseboard/pulseboard/internal/timeseries"
)

// Analytics is the slice of the analytics service the handlers need.
type Analytics interface {
	MRR(ctx context.Context, projectID, userID string, q analytics.Query) (*analytics.Series, error)
	ActiveUsers(ctx context.Context, projectID, userID string, q analytics.Query) (*analytics.Series, error)
	Churn(ctx context.Context, projectID, userID string, q analytics.Query) (*analytics.Series, error)
}

// queryDateLayouts accepts a calendar date or a full timestamp.
var queryDateLayouts = []string{"2006-01-02", time.RFC3339}

func parseQueryDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range queryDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			u := t.UTC()
			return &u, nil
		}
	}
	return nil, errors.New("dates must be YYYY-MM-DD or RFC3339")
}

func parseAnalyticsQuery(c *gin.Context) (analytics.Query, error) {
	var q analytics.Query
	var err error

	if q.From, err = parseQueryDate(c.Query("from")); err != nil {
		return q, errors.New("from: " + err.Error())
	}
	if q.To, err = parseQueryDate(c.Query("to")); err != nil {
		return q, errors.New("to: " + err.Error())
	}
	if q.Interval, err = timeseries.ParseGrain(c.Query("interval")); err != nil {
		return q, err
	}
	return q, nil
}

// RegisterAnalyticsRoutes registers the serving-path endpoints.
//
// GET /v1/analytics/:projectId/mrr
// GET /v1/analytics/:projectId/active-users
// GET /v1/analytics/:projectId/churn
//
// All three share the from/to/interval query contract and the dense
// {labels, series} response. The route group must carry the bearer-token
// middleware; access to the project is checked per request.
func RegisterAnalyticsRoutes(r gin.IRoutes, svc Analytics, log *logrus.Logger) {
	metric := func(name string, fn func(ctx context.Context, projectID, userID string, q analytics.Query) (*analytics.Series, error)) gin.HandlerFunc {
		return func(c *gin.Context) {
			q, err := parseAnalyticsQuery(c)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}

			res, err := fn(c.Request.Context(), c.Param("projectId"), auth.UserID(c), q)
			if err != nil {
				switch {
				case errors.Is(err, apperr.ErrNotFound):
					c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
				case errors.Is(err, apperr.ErrForbidden):
					c.JSON(http.StatusForbidden, gin.H{"message": "Access denied - you are not a member of this project's team"})
				case errors.Is(err, apperr.ErrUnauthorized):
					c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
				default:
					log.WithError(err).WithField("metric", name).Error("analytics query failed")
					c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
				}
				return
			}

			c.JSON(http.StatusOK, res)
		}
	}

	r.GET("/v1/analytics/:projectId/mrr", metric("mrr", svc.MRR))
	r.GET("/v1/analytics/:projectId/active-users", metric("active_users", svc.ActiveUsers))
	r.GET("/v1/analytics/:projectId/churn", metric("churn", svc.Churn))
}
