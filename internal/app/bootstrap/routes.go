// internal/app/bootstrap/routes.go
package bootstrap

import (
	"errors"
	"net/http"

	adminfeature "github.com/dalemusser/staffhub/internal/app/features/admin"
	employeesfeature "github.com/dalemusser/staffhub/internal/app/features/employees"
	errorsfeature "github.com/dalemusser/staffhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/staffhub/internal/app/features/health"
	invoicesfeature "github.com/dalemusser/staffhub/internal/app/features/invoices"
	leavesfeature "github.com/dalemusser/staffhub/internal/app/features/leaves"
	postingsfeature "github.com/dalemusser/staffhub/internal/app/features/postings"
	schoolsfeature "github.com/dalemusser/staffhub/internal/app/features/schools"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed, so deps.Services is populated.
//
// Every feature owns a chi sub-router; this function only mounts them.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	svc := deps.Services
	if svc == nil || svc.Sync == nil {
		return nil, errors.New("build handler: services not started")
	}
	db := deps.StaffHubMongoDatabase

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators.
	// A nil worker must reach the handler as a nil interface.
	var auditStatus healthfeature.AuditStatus
	if svc.Worker != nil {
		auditStatus = svc.Worker
	}
	healthHandler := healthfeature.NewHandler(deps.StaffHubMongoClient, auditStatus, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Master data
	schoolsHandler := schoolsfeature.NewHandler(db, errLog, logger)
	r.Mount("/schools", schoolsfeature.Routes(schoolsHandler))

	employeesHandler := employeesfeature.NewHandler(db, errLog, logger)
	r.Mount("/employees", employeesfeature.Routes(employeesHandler))

	// Postings run through the synchronizer
	postingsHandler := postingsfeature.NewHandler(db, svc.Sync, errLog, logger)
	r.Mount("/employee-postings", postingsfeature.Routes(postingsHandler))

	leavesHandler := leavesfeature.NewHandler(db, svc.Leaves, errLog, logger)
	r.Mount("/leaves", leavesfeature.Routes(leavesHandler))

	// Billing
	invoicesHandler := invoicesfeature.NewHandler(db, svc.Billing, errLog, logger)
	r.Mount("/invoices", invoicesfeature.Routes(invoicesHandler))

	// Operations; on-demand audits are expensive, so /admin is rate limited
	adminHandler := adminfeature.NewHandler(db, svc.Sync, errLog, logger)
	if svc.Limiter != nil {
		r.With(svc.Limiter.Middleware).Mount("/admin", adminfeature.Routes(adminHandler))
	} else {
		r.Mount("/admin", adminfeature.Routes(adminHandler))
	}

	return r, nil
}
