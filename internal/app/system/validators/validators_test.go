package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/staffhub/internal/app/system/validators"
	"github.com/dalemusser/staffhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	collMap := make(map[string]bool)
	for _, name := range names {
		collMap[name] = true
	}

	for _, expected := range []string{"schools", "employees", "employee_postings", "leaves", "invoices", "audit_events"} {
		if !collMap[expected] {
			t.Errorf("expected collection %q to exist", expected)
		}
	}
}

func TestValidators_RejectAndAccept(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	now := time.Now().UTC()
	oid := primitive.NewObjectID

	tests := []struct {
		name    string
		coll    string
		doc     bson.M
		wantErr bool
	}{
		{
			name: "valid school",
			coll: "schools",
			doc: bson.M{"name": "Green Valley", "name_ci": "green valley", "code": "GV01",
				"trainers_required": 2, "current_trainers": bson.A{}, "status": "active"},
		},
		{
			name: "school needs at least one trainer",
			coll: "schools",
			doc: bson.M{"name": "Zero", "name_ci": "zero", "code": "Z01",
				"trainers_required": 0, "current_trainers": bson.A{}, "status": "active"},
			wantErr: true,
		},
		{
			name: "school trainer set holds each employee once",
			coll: "schools",
			doc: func() bson.M {
				e := oid()
				return bson.M{"name": "Dup", "name_ci": "dup", "code": "D01",
					"trainers_required": 2, "current_trainers": bson.A{e, e}, "status": "active"}
			}(),
			wantErr: true,
		},
		{
			name:    "employee without code",
			coll:    "employees",
			doc:     bson.M{"full_name": "Asha", "full_name_ci": "asha", "status": "active"},
			wantErr: true,
		},
		{
			name: "valid employee without email",
			coll: "employees",
			doc:  bson.M{"employee_code": "E1", "full_name": "Asha", "full_name_ci": "asha", "status": "active"},
		},
		{
			name: "valid posting",
			coll: "employee_postings",
			doc: bson.M{"employee_id": oid(), "school_id": oid(), "status": "continue",
				"is_active": true, "start_date": now, "monthly_billing_salary": 50000.0},
		},
		{
			name: "provisional posting with zero rate",
			coll: "employee_postings",
			doc: bson.M{"employee_id": oid(), "school_id": oid(), "status": "continue",
				"is_active": true, "start_date": now, "monthly_billing_salary": 0.0},
		},
		{
			name: "posting with unknown status",
			coll: "employee_postings",
			doc: bson.M{"employee_id": oid(), "school_id": oid(), "status": "transferred",
				"is_active": false, "start_date": now, "monthly_billing_salary": 1.0},
			wantErr: true,
		},
		{
			name: "posting with negative rate",
			coll: "employee_postings",
			doc: bson.M{"employee_id": oid(), "school_id": oid(), "status": "continue",
				"is_active": false, "start_date": now, "monthly_billing_salary": -5.0},
			wantErr: true,
		},
		{
			name: "leave with unknown type",
			coll: "leaves",
			doc: bson.M{"employee_id": oid(), "leave_type": "vacation", "from_date": now,
				"to_date": now, "status": "pending"},
			wantErr: true,
		},
		{
			name: "invoice month out of range",
			coll: "invoices",
			doc: bson.M{"invoice_number": "INV-1", "school_id": oid(), "year": 2024, "month": 13,
				"lines": bson.A{}, "subtotal": 0.0, "status": "draft"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Collection(tt.coll).InsertOne(ctx, tt.doc)
			if tt.wantErr && err == nil {
				t.Errorf("expected validation error inserting into %s", tt.coll)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error inserting into %s: %v", tt.coll, err)
			}
		})
	}
}
