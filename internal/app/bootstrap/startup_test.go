package bootstrap

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/testutil"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:            "mongodb://localhost:27017",
		MongoDatabase:       "staffhub",
		MongoMaxPoolSize:    100,
		MongoMinPoolSize:    10,
		ConsistencyInterval: 15 * time.Minute,
		AuditLogPostings:    "all",
		AuditLogBilling:     "db",
		AuditLogConsistency: "off",
	}
}

func TestValidateAppConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"valid", func(*AppConfig) {}, ""},
		{"worker disabled", func(c *AppConfig) { c.ConsistencyInterval = 0 }, ""},
		{"empty database", func(c *AppConfig) { c.MongoDatabase = " " }, "mongo_database"},
		{"pool sizes reversed", func(c *AppConfig) { c.MongoMinPoolSize = 200 }, "mongo_min_pool_size"},
		{"negative interval", func(c *AppConfig) { c.ConsistencyInterval = -time.Second }, "consistency_interval"},
		{"unknown audit destination", func(c *AppConfig) { c.AuditLogBilling = "file" }, "audit_log_billing"},
		{"negative timeout", func(c *AppConfig) { c.TimeoutLong = -time.Second }, "timeout_long"},
		{"negative rate limit", func(c *AppConfig) { c.AdminRateLimit = -1 }, "admin_rate_limit"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := validateAppConfig(cfg)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("validateAppConfig() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("validateAppConfig() = %v, want error mentioning %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidateConfig_BadURI(t *testing.T) {
	cfg := validConfig()
	cfg.MongoURI = "postgres://localhost"
	if err := ValidateConfig(nil, cfg, testLogger()); err == nil {
		t.Fatal("ValidateConfig accepted a non-mongo URI")
	}
}

func TestStartupAndRoutes(t *testing.T) {
	db := testutil.SetupSchemaDB(t)
	t.Cleanup(timeouts.Reset)

	cfg := validConfig()
	cfg.ConsistencyInterval = 0
	cfg.TimeoutLong = 45 * time.Second
	deps := DBDeps{
		StaffHubMongoClient:   db.Client(),
		StaffHubMongoDatabase: db,
		Services:              &Services{},
	}

	if err := Startup(context.Background(), nil, cfg, deps, testLogger()); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}
	if deps.Services.Sync == nil || deps.Services.Billing == nil || deps.Services.Leaves == nil {
		t.Fatalf("services not built: %+v", deps.Services)
	}
	if deps.Services.Worker != nil {
		t.Error("worker built with consistency_interval 0")
	}
	if deps.Services.Limiter != nil {
		t.Error("limiter built with admin_rate_limit 0")
	}
	if got := timeouts.Long(); got != 45*time.Second {
		t.Errorf("timeouts.Long() = %v, want 45s", got)
	}

	handler, err := BuildHandler(nil, cfg, deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler failed: %v", err)
	}

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"schools", http.MethodGet, "/schools", http.StatusOK},
		{"employees", http.MethodGet, "/employees", http.StatusOK},
		{"postings", http.MethodGet, "/employee-postings", http.StatusOK},
		{"leaves", http.MethodGet, "/leaves", http.StatusOK},
		{"invoices", http.MethodGet, "/invoices", http.StatusOK},
		{"audit events", http.MethodGet, "/admin/audit-events", http.StatusOK},
		{"consistency", http.MethodPost, "/admin/consistency", http.StatusOK},
		{"unknown path", http.MethodGet, "/nope", http.StatusNotFound},
		{"wrong method", http.MethodPatch, "/schools", http.StatusMethodNotAllowed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			handler.ServeHTTP(rec, testutil.NewRequest(tc.method, tc.path))
			rec.AssertStatus(t, tc.want)
			switch tc.want {
			case http.StatusNotFound:
				rec.AssertErrorCode(t, apierr.CodeNotFound)
			case http.StatusMethodNotAllowed:
				rec.AssertErrorCode(t, apierr.CodeMethodNotAllowed)
			}
		})
	}

	if err := Shutdown(context.Background(), nil, cfg, DBDeps{Services: deps.Services}, testLogger()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestBuildHandler_AdminRateLimit(t *testing.T) {
	db := testutil.SetupSchemaDB(t)
	cfg := validConfig()
	cfg.ConsistencyInterval = 0
	cfg.AdminRateLimit = 1
	deps := DBDeps{StaffHubMongoClient: db.Client(), StaffHubMongoDatabase: db, Services: &Services{}}
	if err := Startup(context.Background(), nil, cfg, deps, testLogger()); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}
	defer deps.Services.Limiter.Stop()

	handler, err := BuildHandler(nil, cfg, deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler failed: %v", err)
	}

	rec := testutil.NewRecorder()
	handler.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/admin/audit-events"))
	rec.AssertStatus(t, http.StatusOK)

	rec = testutil.NewRecorder()
	handler.ServeHTTP(rec, testutil.NewRequest(http.MethodPost, "/admin/consistency"))
	rec.AssertStatus(t, http.StatusTooManyRequests)

	// Other routes are not limited.
	rec = testutil.NewRecorder()
	handler.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/schools"))
	rec.AssertStatus(t, http.StatusOK)
}

func TestBuildHandler_RequiresServices(t *testing.T) {
	if _, err := BuildHandler(nil, validConfig(), DBDeps{}, testLogger()); err == nil {
		t.Fatal("BuildHandler succeeded without services")
	}
}
