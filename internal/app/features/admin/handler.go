// internal/app/features/admin/handler.go
package admin

import (
	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	"github.com/dalemusser/staffhub/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves operator endpoints: on-demand consistency audits and the
// audit event log.
type Handler struct {
	DB      *mongo.Database
	Auditor workers.Auditor
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
}

// NewHandler constructs an admin Handler. auditor is usually the posting
// synchronizer.
func NewHandler(db *mongo.Database, auditor workers.Auditor, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Auditor: auditor,
		Log:     logger,
		ErrLog:  errLog,
	}
}
