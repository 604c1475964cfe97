// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/staffhub/internal/app/store/audit"
	"github.com/dalemusser/staffhub/internal/app/system/auditlog"
	"github.com/dalemusser/staffhub/internal/app/system/billing"
	"github.com/dalemusser/staffhub/internal/app/system/leavepolicy"
	"github.com/dalemusser/staffhub/internal/app/system/postingsync"
	"github.com/dalemusser/staffhub/internal/app/system/ratelimit"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Services are the long-lived domain services shared by handlers.
type Services struct {
	AuditLog *auditlog.Logger
	Sync     *postingsync.Synchronizer
	Billing  *billing.Generator
	Leaves   *leavepolicy.Service
	Worker   *workers.ConsistencyAudit // nil when consistency_interval is 0
	Limiter  *ratelimit.Limiter        // nil when admin_rate_limit is 0
}

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It
// applies the configured timeouts, builds the domain services and starts
// the consistency worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Services == nil {
		return errors.New("startup: services not allocated")
	}

	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	*deps.Services = buildServices(appCfg, deps, logger)

	if w := deps.Services.Worker; w != nil {
		w.Start()
	} else {
		logger.Info("consistency audit worker disabled")
	}

	cur := timeouts.Current()
	logger.Info("staffhub started",
		zap.Bool("allow_provisional_postings", appCfg.AllowProvisionalPostings),
		zap.Duration("timeout_short", cur.Short),
		zap.Duration("timeout_medium", cur.Medium),
		zap.Duration("timeout_long", cur.Long))
	return nil
}

func buildServices(appCfg AppConfig, deps DBDeps, logger *zap.Logger) Services {
	db := deps.StaffHubMongoDatabase

	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Posting:     appCfg.AuditLogPostings,
		Billing:     appCfg.AuditLogBilling,
		Consistency: appCfg.AuditLogConsistency,
	})
	sync := postingsync.New(db, auditLog, logger, postingsync.Options{
		AllowProvisional: appCfg.AllowProvisionalPostings,
	})

	s := Services{
		AuditLog: auditLog,
		Sync:     sync,
		Billing:  billing.New(db, auditLog, logger, appCfg.InvoicePrefix),
		Leaves:   leavepolicy.New(db, logger),
	}
	if appCfg.AdminRateLimit > 0 {
		s.Limiter = ratelimit.New(appCfg.AdminRateLimit, time.Minute)
	}
	if appCfg.ConsistencyInterval > 0 {
		s.Worker = workers.NewConsistencyAudit(sync, logger, appCfg.ConsistencyInterval, appCfg.ConsistencyRepair)
	}
	return s
}
