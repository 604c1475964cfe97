// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dalemusser/staffhub/internal/app/store/audit"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destination settings.
const (
	All = "all" // MongoDB + zap
	DB  = "db"
	Log = "log"
	Off = "off"
)

// Config holds audit logging configuration, one destination per category.
type Config struct {
	Posting     string
	Billing     string
	Consistency string
}

// Logger writes audit events to MongoDB (via audit.Store) and zap.
// A nil *Logger is valid and discards everything.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}
	if event.EmployeeID != nil {
		fields = append(fields, zap.String("employee_id", event.EmployeeID.Hex()))
	}
	if event.SchoolID != nil {
		fields = append(fields, zap.String("school_id", event.SchoolID.Hex()))
	}
	if event.PostingID != nil {
		fields = append(fields, zap.String("posting_id", event.PostingID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

func (l *Logger) setting(category string) string {
	var s string
	switch category {
	case audit.CategoryPosting:
		s = l.config.Posting
	case audit.CategoryBilling:
		s = l.config.Billing
	case audit.CategoryConsistency:
		s = l.config.Consistency
	}
	if s == "" {
		return All
	}
	return s
}

// Log records an audit event according to the category's destination.
// Store failures are logged, never returned.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := l.setting(event.Category)
	if setting == Off {
		return
	}
	if setting == All || setting == Log {
		l.logToZap(event)
	}
	if (setting == All || setting == DB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func oid(id primitive.ObjectID) *primitive.ObjectID { return &id }

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// --- Posting events ---

// PostingActivated logs that p became the employee's active posting.
func (l *Logger) PostingActivated(ctx context.Context, p models.EmployeePosting) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryPosting,
		EventType:  audit.EventPostingActivated,
		EmployeeID: oid(p.EmployeeID),
		SchoolID:   oid(p.SchoolID),
		PostingID:  oid(p.ID),
		Success:    true,
		Details: map[string]string{
			"status":                 p.Status,
			"monthly_billing_salary": money(p.MonthlyBillingSalary),
		},
	})
}

// PostingSuperseded logs that old was deactivated in favour of newID.
func (l *Logger) PostingSuperseded(ctx context.Context, old models.EmployeePosting, newID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryPosting,
		EventType:  audit.EventPostingSuperseded,
		EmployeeID: oid(old.EmployeeID),
		SchoolID:   oid(old.SchoolID),
		PostingID:  oid(old.ID),
		Success:    true,
		Details:    map[string]string{"superseded_by": newID.Hex()},
	})
}

// PostingEnded logs a resignation or termination.
func (l *Logger) PostingEnded(ctx context.Context, p models.EmployeePosting) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryPosting,
		EventType:  audit.EventPostingEnded,
		EmployeeID: oid(p.EmployeeID),
		SchoolID:   oid(p.SchoolID),
		PostingID:  oid(p.ID),
		Success:    true,
		Details:    map[string]string{"status": p.Status},
	})
}

// PostingRejected logs an activation that was refused.
func (l *Logger) PostingRejected(ctx context.Context, p models.EmployeePosting, reason string) {
	ev := audit.Event{
		Category:      audit.CategoryPosting,
		EventType:     audit.EventPostingRejected,
		EmployeeID:    oid(p.EmployeeID),
		SchoolID:      oid(p.SchoolID),
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"monthly_billing_salary": money(p.MonthlyBillingSalary)},
	}
	if !p.ID.IsZero() {
		ev.PostingID = oid(p.ID)
	}
	l.Log(ctx, ev)
}

// PostingProvisional logs a posting activated without a valid billing rate.
func (l *Logger) PostingProvisional(ctx context.Context, p models.EmployeePosting) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryPosting,
		EventType:     audit.EventPostingProvisional,
		EmployeeID:    oid(p.EmployeeID),
		SchoolID:      oid(p.SchoolID),
		PostingID:     oid(p.ID),
		Success:       true,
		FailureReason: "monthly billing salary missing or not positive",
	})
}

// --- Billing events ---

// InvoiceGenerated logs a generated (or regenerated) draft invoice.
func (l *Logger) InvoiceGenerated(ctx context.Context, inv models.Invoice) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryBilling,
		EventType: audit.EventInvoiceGenerated,
		SchoolID:  oid(inv.SchoolID),
		Success:   true,
		Details: map[string]string{
			"invoice_number": inv.InvoiceNumber,
			"period":         fmt.Sprintf("%04d-%02d", inv.Year, inv.Month),
			"lines":          strconv.Itoa(len(inv.Lines)),
			"subtotal":       money(inv.Subtotal),
		},
	})
}

// InvoiceStatusChanged logs an invoice lifecycle transition.
func (l *Logger) InvoiceStatusChanged(ctx context.Context, inv models.Invoice, from string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryBilling,
		EventType: audit.EventInvoiceStatusChanged,
		SchoolID:  oid(inv.SchoolID),
		Success:   true,
		Details: map[string]string{
			"invoice_number": inv.InvoiceNumber,
			"from":           from,
			"to":             inv.Status,
		},
	})
}

// --- Consistency events ---

// Drift logs a trainer-set mismatch found at a school.
func (l *Logger) Drift(ctx context.Context, schoolID primitive.ObjectID, missing, extra int, repaired bool) {
	eventType := audit.EventDriftDetected
	if repaired {
		eventType = audit.EventDriftRepaired
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryConsistency,
		EventType: eventType,
		SchoolID:  oid(schoolID),
		Success:   repaired,
		Details: map[string]string{
			"missing": strconv.Itoa(missing),
			"extra":   strconv.Itoa(extra),
		},
	})
}
