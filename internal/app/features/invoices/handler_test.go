package invoices_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/staffhub/internal/app/features/errors"
	"github.com/dalemusser/staffhub/internal/app/features/invoices"
	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/dalemusser/staffhub/internal/app/system/billing"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/staffhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (chi.Router, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupSchemaDB(t)
	logger := zap.NewNop()
	gen := billing.New(db, nil, logger, "")
	handler := invoices.NewHandler(db, gen, uierrors.NewErrorLogger(logger), logger)
	return invoices.Routes(handler), testutil.NewFixtures(t, db)
}

func generate(t *testing.T, router chi.Router, schoolID primitive.ObjectID, year, month int) (*testutil.ResponseRecorder, models.Invoice) {
	t.Helper()
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, http.MethodPost, "/generate", map[string]any{
		"school_id": schoolID.Hex(), "year": year, "month": month,
	}))
	var inv models.Invoice
	if rec.Code == http.StatusOK {
		rec.DecodeJSON(t, &inv)
	}
	return rec, inv
}

func setStatus(t *testing.T, router chi.Router, id primitive.ObjectID, status string) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, http.MethodPost, "/"+id.Hex()+"/status", map[string]any{"status": status}))
	return rec
}

func TestGenerateAndIssue(t *testing.T) {
	router, fx := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	school := fx.CreateSchool(ctx, "Green Valley", 2)
	emp := fx.CreateEmployee(ctx, "Asha Rao")
	fx.CreatePosting(ctx, emp.ID, school.ID, models.PostingContinue, true, 30000, testutil.Day(2023, time.June, 1))
	fx.CreateLeave(ctx, emp.ID, models.LeaveUnpaid, models.LeaveApproved, testutil.Day(2024, time.April, 1), testutil.Day(2024, time.April, 3))

	rec, draft := generate(t, router, school.ID, 2024, 4)
	rec.AssertStatus(t, http.StatusOK)
	if draft.Status != models.InvoiceDraft || !strings.HasPrefix(draft.InvoiceNumber, "INV-202404-") {
		t.Fatalf("draft = %s %s", draft.Status, draft.InvoiceNumber)
	}
	if len(draft.Lines) != 1 || draft.Lines[0].BillableDays != 27 || draft.Subtotal != 27000 {
		t.Fatalf("lines = %+v subtotal = %v", draft.Lines, draft.Subtotal)
	}

	// Regenerating a draft keeps its identity.
	rec, again := generate(t, router, school.ID, 2024, 4)
	rec.AssertStatus(t, http.StatusOK)
	if again.ID != draft.ID || again.InvoiceNumber != draft.InvoiceNumber {
		t.Errorf("regenerated draft changed identity: %s/%s -> %s/%s", draft.ID.Hex(), draft.InvoiceNumber, again.ID.Hex(), again.InvoiceNumber)
	}

	rec = setStatus(t, router, draft.ID, "Issued")
	rec.AssertStatus(t, http.StatusOK)
	var issued models.Invoice
	rec.DecodeJSON(t, &issued)
	if issued.Status != models.InvoiceIssued || issued.IssuedAt == nil {
		t.Errorf("issued = %+v", issued)
	}

	rec, _ = generate(t, router, school.ID, 2024, 4)
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertErrorCode(t, apierr.CodeInvoiceLocked)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/"+draft.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)
	var stored models.Invoice
	rec.DecodeJSON(t, &stored)
	if stored.Status != models.InvoiceIssued || stored.Subtotal != 27000 {
		t.Errorf("stored = %s %v", stored.Status, stored.Subtotal)
	}
}

func TestHandleStatus_Transitions(t *testing.T) {
	router, fx := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	school := fx.CreateSchool(ctx, "Green Valley", 1)
	_, inv := generate(t, router, school.ID, 2024, 1)

	tests := []struct {
		name   string
		status string
		want   int
		code   string
	}{
		{"draft to paid", "paid", http.StatusConflict, apierr.CodeConflict},
		{"back to draft", "draft", http.StatusUnprocessableEntity, apierr.CodeValidationFailed},
		{"draft to void", "void", http.StatusOK, ""},
		{"void is final", "issued", http.StatusConflict, apierr.CodeConflict},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := setStatus(t, router, inv.ID, tc.status)
			rec.AssertStatus(t, tc.want)
			if tc.code != "" {
				rec.AssertErrorCode(t, tc.code)
			}
		})
	}

	rec := setStatus(t, router, primitive.NewObjectID(), "issued")
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleGenerate_Invalid(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"month out of range", map[string]any{"school_id": primitive.NewObjectID().Hex(), "year": 2024, "month": 13}, http.StatusUnprocessableEntity},
		{"year too early", map[string]any{"school_id": primitive.NewObjectID().Hex(), "year": 1999, "month": 1}, http.StatusUnprocessableEntity},
		{"bad school id", map[string]any{"school_id": "x", "year": 2024, "month": 1}, http.StatusUnprocessableEntity},
		{"unknown school", map[string]any{"school_id": primitive.NewObjectID().Hex(), "year": 2024, "month": 1}, http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			router.ServeHTTP(rec, testutil.NewJSONRequest(t, http.MethodPost, "/generate", tc.body))
			rec.AssertStatus(t, tc.status)
		})
	}
}

func TestServeList_Filters(t *testing.T) {
	router, fx := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fx.CreateSchool(ctx, "A", 1)
	b := fx.CreateSchool(ctx, "B", 1)
	generate(t, router, a.ID, 2024, 1)
	_, feb := generate(t, router, a.ID, 2024, 2)
	generate(t, router, b.ID, 2024, 2)
	setStatus(t, router, feb.ID, "issued")

	tests := []struct {
		name   string
		query  string
		status int
		want   int64
	}{
		{"all", "", http.StatusOK, 3},
		{"by school", "?school_id=" + a.ID.Hex(), http.StatusOK, 2},
		{"by period", "?year=2024&month=2", http.StatusOK, 2},
		{"by status", "?status=issued", http.StatusOK, 1},
		{"other year", "?year=2023", http.StatusOK, 0},
		{"bad month", "?month=0", http.StatusBadRequest, 0},
		{"bad year", "?year=abc", http.StatusBadRequest, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			router.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/"+tc.query))
			rec.AssertStatus(t, tc.status)
			if tc.status != http.StatusOK {
				return
			}
			var page struct {
				Items []models.Invoice `json:"items"`
				Total int64            `json:"total"`
			}
			rec.DecodeJSON(t, &page)
			if page.Total != tc.want {
				t.Errorf("total = %d, want %d", page.Total, tc.want)
			}
		})
	}
}
