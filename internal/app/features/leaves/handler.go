// internal/app/features/leaves/handler.go
package leaves

import (
	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	"github.com/dalemusser/staffhub/internal/app/system/leavepolicy"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves leave requests. Status changes go through Policy, which
// owns the overlap rule.
type Handler struct {
	DB     *mongo.Database
	Policy *leavepolicy.Service
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, policy *leavepolicy.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Policy: policy,
		Log:    logger,
		ErrLog: errLog,
	}
}
