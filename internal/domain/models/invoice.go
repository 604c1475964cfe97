// internal/domain/models/invoice.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	InvoiceDraft  = "draft"
	InvoiceIssued = "issued"
	InvoicePaid   = "paid"
	InvoiceVoid   = "void"
)

// InvoiceStatuses lists the accepted invoice status values.
var InvoiceStatuses = []string{InvoiceDraft, InvoiceIssued, InvoicePaid, InvoiceVoid}

// Invoice is the monthly bill sent to one school.
// Only one non-void invoice exists per (school_id, year, month).
type Invoice struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	InvoiceNumber string             `bson:"invoice_number" json:"invoice_number"`
	SchoolID      primitive.ObjectID `bson:"school_id" json:"school_id"`
	SchoolName    string             `bson:"school_name" json:"school_name"`
	Year          int                `bson:"year" json:"year"`
	Month         int                `bson:"month" json:"month"`
	Lines         []InvoiceLine      `bson:"lines" json:"lines"`
	Subtotal      float64            `bson:"subtotal" json:"subtotal"`
	Status        string             `bson:"status" json:"status"`
	GeneratedAt   time.Time          `bson:"generated_at" json:"generated_at"`
	IssuedAt      *time.Time         `bson:"issued_at,omitempty" json:"issued_at,omitempty"`
	PaidAt        *time.Time         `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// InvoiceLine bills one posting for the invoice month.
type InvoiceLine struct {
	PostingID            primitive.ObjectID `bson:"posting_id" json:"posting_id"`
	EmployeeID           primitive.ObjectID `bson:"employee_id" json:"employee_id"`
	EmployeeName         string             `bson:"employee_name" json:"employee_name"`
	MonthlyBillingSalary float64            `bson:"monthly_billing_salary" json:"monthly_billing_salary"`
	DaysInMonth          int                `bson:"days_in_month" json:"days_in_month"`
	PostedDays           int                `bson:"posted_days" json:"posted_days"`
	UnpaidLeaveDays      int                `bson:"unpaid_leave_days" json:"unpaid_leave_days"`
	BillableDays         int                `bson:"billable_days" json:"billable_days"`
	Amount               float64            `bson:"amount" json:"amount"`
}

// Locked reports whether the invoice may no longer be regenerated.
func (inv Invoice) Locked() bool {
	return inv.Status == InvoiceIssued || inv.Status == InvoicePaid
}
