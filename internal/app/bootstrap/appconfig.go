// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP ports,
// TLS, logging level and format, CORS and request body limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Posting rules
	AllowProvisionalPostings bool // activate postings without a billing rate (with a warning)

	// Consistency audit worker
	ConsistencyInterval time.Duration // 0 disables the worker
	ConsistencyRepair   bool          // fix drift found by scheduled runs

	// Audit logging: "all" (db+log), "db", "log" or "off"
	AuditLogPostings    string
	AuditLogBilling     string
	AuditLogConsistency string

	// Billing
	InvoicePrefix string // first segment of invoice numbers

	// Requests per minute per client on /admin; 0 disables the limit
	AdminRateLimit int

	// Database operation deadlines (zero keeps the built-in default)
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
