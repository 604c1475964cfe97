// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops the background worker and cleanly tears down DB connections.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Services != nil && deps.Services.Worker != nil {
		deps.Services.Worker.Stop()
	}
	if deps.Services != nil && deps.Services.Limiter != nil {
		deps.Services.Limiter.Stop()
	}
	if deps.StaffHubMongoClient != nil {
		logger.Info("disconnecting StaffHub MongoDB client")
		if err := deps.StaffHubMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
