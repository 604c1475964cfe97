// internal/app/features/invoices/handler.go
package invoices

import (
	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	"github.com/dalemusser/staffhub/internal/app/system/billing"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves invoices. Generation and status changes go through
// Billing so every write is audited.
type Handler struct {
	DB      *mongo.Database
	Billing *billing.Generator
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, gen *billing.Generator, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Billing: gen,
		Log:     logger,
		ErrLog:  errLog,
	}
}
