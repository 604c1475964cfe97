package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// AuditStatus reports the last background consistency audit.
// *workers.ConsistencyAudit satisfies it.
type AuditStatus interface {
	Last() (workers.LastRun, bool)
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client *mongo.Client
	Audit  AuditStatus // nil when the worker is disabled
	Log    *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client and logger.
func NewHandler(client *mongo.Client, audit AuditStatus, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		Audit:  audit,
		Log:    logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status      string             `json:"status"`
	Database    string             `json:"database"`
	Message     string             `json:"message,omitempty"`
	Error       string             `json:"error,omitempty"`
	Consistency *consistencyStatus `json:"consistency,omitempty"`
}

// consistencyStatus is a summary of the last audit run.
type consistencyStatus struct {
	LastRun    time.Time `json:"last_run"`
	Consistent bool      `json:"consistent"`
	Drifts     int       `json:"drifts"`
	Error      string    `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "consistency":{"last_run":"…","consistent":true,"drifts":0} }
//
// On DB failure: 503 and
//
//	{ "status":"error", "message":"Database unavailable", "error":"…"}
//
// Drift never makes the check fail; it is informational.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		apierr.JSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	if h.Audit != nil {
		if last, ok := h.Audit.Last(); ok {
			cs := &consistencyStatus{
				LastRun:    last.At,
				Consistent: last.Err == nil && last.Report.Consistent(),
				Drifts:     len(last.Report.Drifts),
			}
			if last.Err != nil {
				cs.Error = last.Err.Error()
			}
			resp.Consistency = cs
		}
	}

	apierr.JSON(w, http.StatusOK, resp)
}
