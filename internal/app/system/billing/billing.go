// Package billing builds monthly school invoices from postings and leave.
package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	employeestore "github.com/dalemusser/staffhub/internal/app/store/employees"
	invoicestore "github.com/dalemusser/staffhub/internal/app/store/invoices"
	leavestore "github.com/dalemusser/staffhub/internal/app/store/leaves"
	postingstore "github.com/dalemusser/staffhub/internal/app/store/postings"
	schoolstore "github.com/dalemusser/staffhub/internal/app/store/schools"
	"github.com/dalemusser/staffhub/internal/app/system/auditlog"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	ErrInvalidPeriod  = errors.New("invoice period must be a month between 1 and 12 of a year from 2000")
	ErrSchoolNotFound = errors.New("school not found")
)

// DefaultPrefix starts every invoice number unless configured otherwise.
const DefaultPrefix = "INV"

// Generator builds and stores draft invoices.
type Generator struct {
	postings  *postingstore.Store
	schools   *schoolstore.Store
	employees *employeestore.Store
	leaves    *leavestore.Store
	invoices  *invoicestore.Store
	audit     *auditlog.Logger
	log       *zap.Logger
	prefix    string
	now       func() time.Time
}

// New creates a Generator. An empty prefix means DefaultPrefix.
func New(db *mongo.Database, auditLog *auditlog.Logger, logger *zap.Logger, prefix string) *Generator {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Generator{
		postings:  postingstore.New(db),
		schools:   schoolstore.New(db),
		employees: employeestore.New(db),
		leaves:    leavestore.New(db),
		invoices:  invoicestore.New(db),
		audit:     auditLog,
		log:       logger,
		prefix:    prefix,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// InvoiceNumber formats PREFIX-YYYYMM-XXXXXXXX with a random suffix.
func InvoiceNumber(prefix string, year int, month time.Month) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%04d%02d-%s", prefix, year, int(month), suffix)
}

// Generate computes the school's invoice for the month and stores it as a
// draft. Regenerating replaces the lines of an existing draft; an issued or
// paid invoice yields invoicestore.ErrInvoiceLocked.
func (g *Generator) Generate(ctx context.Context, schoolID primitive.ObjectID, year, month int) (models.Invoice, error) {
	if year < 2000 || month < 1 || month > 12 {
		return models.Invoice{}, ErrInvalidPeriod
	}
	m := time.Month(month)

	school, err := g.schools.GetByID(ctx, schoolID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Invoice{}, ErrSchoolNotFound
		}
		return models.Invoice{}, fmt.Errorf("load school: %w", err)
	}

	// Fail before computing anything when the period is already locked.
	if existing, err := g.invoices.FindForPeriod(ctx, schoolID, year, month); err == nil && existing.Locked() {
		return existing, invoicestore.ErrInvoiceLocked
	}

	from, to := MonthBounds(year, m)
	postings, err := g.postings.OverlappingPeriod(ctx, schoolID, from, to)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("load postings: %w", err)
	}

	empIDs := make([]primitive.ObjectID, 0, len(postings))
	for _, p := range postings {
		empIDs = append(empIDs, p.EmployeeID)
	}
	names, err := g.employees.NamesByID(ctx, empIDs)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("load employee names: %w", err)
	}
	unpaid, err := g.leaves.ApprovedOfTypeInPeriod(ctx, empIDs, models.LeaveUnpaid, from, to.AddDate(0, 0, -1))
	if err != nil {
		return models.Invoice{}, fmt.Errorf("load unpaid leave: %w", err)
	}
	leaveByEmp := make(map[primitive.ObjectID][]models.Leave)
	for _, l := range unpaid {
		leaveByEmp[l.EmployeeID] = append(leaveByEmp[l.EmployeeID], l)
	}

	inv := models.Invoice{
		InvoiceNumber: InvoiceNumber(g.prefix, year, m),
		SchoolID:      schoolID,
		SchoolName:    school.Name,
		Year:          year,
		Month:         month,
		Lines:         []models.InvoiceLine{},
		GeneratedAt:   g.now(),
	}
	for _, p := range postings {
		if p.MonthlyBillingSalary <= 0 {
			g.log.Warn("posting skipped from invoice: no billing rate",
				zap.String("posting_id", p.ID.Hex()),
				zap.String("school_id", schoolID.Hex()),
				zap.Int("year", year),
				zap.Int("month", month))
			continue
		}
		line, ok := Line(p, leaveByEmp[p.EmployeeID], year, m)
		if !ok {
			continue
		}
		line.EmployeeName = names[p.EmployeeID]
		inv.Lines = append(inv.Lines, line)
		inv.Subtotal += line.Amount
	}
	inv.Subtotal = Round2(inv.Subtotal)

	saved, err := g.invoices.SaveDraft(ctx, inv)
	if err != nil {
		if errors.Is(err, invoicestore.ErrInvoiceLocked) {
			return saved, err
		}
		return models.Invoice{}, fmt.Errorf("save invoice: %w", err)
	}

	g.log.Info("invoice generated",
		zap.String("invoice_id", saved.ID.Hex()),
		zap.String("invoice_number", saved.InvoiceNumber),
		zap.String("school_id", schoolID.Hex()),
		zap.Int("lines", len(saved.Lines)),
		zap.Float64("subtotal", saved.Subtotal))
	g.audit.InvoiceGenerated(ctx, saved)
	return saved, nil
}

// SetStatus moves an invoice along draft -> issued -> paid, or to void.
func (g *Generator) SetStatus(ctx context.Context, id primitive.ObjectID, to string) (models.Invoice, error) {
	before, err := g.invoices.GetByID(ctx, id)
	if err != nil {
		return models.Invoice{}, err
	}
	inv, err := g.invoices.SetStatus(ctx, id, to)
	if err != nil {
		return inv, err
	}
	g.audit.InvoiceStatusChanged(ctx, inv, before.Status)
	return inv, nil
}
