// internal/app/features/postings/handler.go
package postings

import (
	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	"github.com/dalemusser/staffhub/internal/app/system/postingsync"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves /employee-postings. Every write goes through the posting
// synchronizer; nothing here touches is_active or school trainer sets.
type Handler struct {
	DB     *mongo.Database
	Sync   *postingsync.Synchronizer
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs a postings Handler.
func NewHandler(db *mongo.Database, sync *postingsync.Synchronizer, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Sync:   sync,
		Log:    logger,
		ErrLog: errLog,
	}
}
