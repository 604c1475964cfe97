// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/staffhub/internal/app/system/auditlog"
	"github.com/dalemusser/staffhub/internal/app/system/billing"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for StaffHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, invoice_prefix, etc.
//   - Environment variables: STAFFHUB_MONGO_URI, STAFFHUB_INVOICE_PREFIX, etc.
//   - Command-line flags: --mongo_uri, --invoice_prefix, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "staffhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Posting rules
	{Name: "allow_provisional_postings", Default: false, Desc: "Activate postings with no monthly billing salary (logged as provisional)"},

	// Consistency audit
	{Name: "consistency_interval", Default: "15m", Desc: "How often to audit school trainer sets (0 disables)"},
	{Name: "consistency_repair", Default: false, Desc: "Repair drift found by scheduled audits"},

	// Audit logging settings
	{Name: "audit_log_postings", Default: "all", Desc: "Posting event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_billing", Default: "all", Desc: "Billing event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_consistency", Default: "all", Desc: "Consistency event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Billing
	{Name: "invoice_prefix", Default: billing.DefaultPrefix, Desc: "Invoice number prefix"},

	// Operator endpoints
	{Name: "admin_rate_limit", Default: 10, Desc: "Requests per minute per client on /admin (0 disables)"},

	// Database timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document reads"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for lists and simple writes"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for posting sync, invoice generation and audits"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, STAFFHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "STAFFHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		AllowProvisionalPostings: appValues.Bool("allow_provisional_postings"),

		ConsistencyInterval: appValues.Duration("consistency_interval", 15*time.Minute),
		ConsistencyRepair:   appValues.Bool("consistency_repair"),

		AuditLogPostings:    strings.ToLower(appValues.String("audit_log_postings")),
		AuditLogBilling:     strings.ToLower(appValues.String("audit_log_billing")),
		AuditLogConsistency: strings.ToLower(appValues.String("audit_log_consistency")),

		InvoicePrefix: strings.TrimSpace(appValues.String("invoice_prefix")),

		AdminRateLimit: appValues.Int("admin_rate_limit"),

		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI format is checked before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateAppConfig(appCfg)
}

// validateAppConfig checks the settings that do not need a logger.
func validateAppConfig(appCfg AppConfig) error {
	if strings.TrimSpace(appCfg.MongoDatabase) == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	if appCfg.AdminRateLimit < 0 {
		return fmt.Errorf("admin_rate_limit must not be negative")
	}
	if appCfg.ConsistencyInterval < 0 {
		return fmt.Errorf("consistency_interval must not be negative")
	}
	for key, v := range map[string]string{
		"audit_log_postings":    appCfg.AuditLogPostings,
		"audit_log_billing":     appCfg.AuditLogBilling,
		"audit_log_consistency": appCfg.AuditLogConsistency,
	} {
		switch v {
		case "", auditlog.All, auditlog.DB, auditlog.Log, auditlog.Off:
		default:
			return fmt.Errorf("%s must be one of all, db, log, off; got %q", key, v)
		}
	}
	for key, d := range map[string]time.Duration{
		"timeout_short":  appCfg.TimeoutShort,
		"timeout_medium": appCfg.TimeoutMedium,
		"timeout_long":   appCfg.TimeoutLong,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", key)
		}
	}
	return nil
}
