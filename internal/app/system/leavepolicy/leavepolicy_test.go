package leavepolicy_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/staffhub/internal/app/system/leavepolicy"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/staffhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestDay(t *testing.T) {
	in := time.Date(2024, time.March, 5, 23, 59, 0, 0, time.FixedZone("X", -3*3600))
	want := time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC)
	if got := leavepolicy.Day(in); !got.Equal(want) {
		t.Errorf("Day(%v) = %v, want %v", in, got, want)
	}
}

func TestCreate_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	svc := leavepolicy.New(db, zap.NewNop())
	emp := fx.CreateEmployee(ctx, "Asha Rao")

	tests := []struct {
		name  string
		leave models.Leave
		want  error
	}{
		{"unknown type", models.Leave{EmployeeID: emp.ID, LeaveType: "holiday", FromDate: testutil.Day(2024, 1, 2), ToDate: testutil.Day(2024, 1, 3)}, leavepolicy.ErrInvalidType},
		{"reversed range", models.Leave{EmployeeID: emp.ID, LeaveType: models.LeaveSick, FromDate: testutil.Day(2024, 1, 3), ToDate: testutil.Day(2024, 1, 2)}, leavepolicy.ErrInvalidRange},
		{"unknown employee", models.Leave{EmployeeID: primitive.NewObjectID(), LeaveType: models.LeaveSick, FromDate: testutil.Day(2024, 1, 2), ToDate: testutil.Day(2024, 1, 2)}, leavepolicy.ErrEmployeeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tt.leave); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	l, err := svc.Create(ctx, models.Leave{
		EmployeeID: emp.ID,
		LeaveType:  models.LeaveCasual,
		FromDate:   time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC),
		ToDate:     time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
		Status:     models.LeaveApproved,
	})
	if err != nil {
		t.Fatalf("Create single-day leave failed: %v", err)
	}
	if l.Status != models.LeavePending {
		t.Errorf("status = %q, want pending regardless of input", l.Status)
	}
	if l.Days() != 1 {
		t.Errorf("Days() = %d, want 1", l.Days())
	}
}

func TestApprove_RejectsOverlap(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	svc := leavepolicy.New(db, zap.NewNop())
	emp := fx.CreateEmployee(ctx, "Asha Rao")
	other := fx.CreateEmployee(ctx, "Someone Else")

	fx.CreateLeave(ctx, emp.ID, models.LeaveSick, models.LeaveApproved, testutil.Day(2024, 1, 10), testutil.Day(2024, 1, 12))
	clash := fx.CreateLeave(ctx, emp.ID, models.LeaveUnpaid, models.LeavePending, testutil.Day(2024, 1, 12), testutil.Day(2024, 1, 14))
	adjacent := fx.CreateLeave(ctx, emp.ID, models.LeaveUnpaid, models.LeavePending, testutil.Day(2024, 1, 13), testutil.Day(2024, 1, 14))
	otherEmp := fx.CreateLeave(ctx, other.ID, models.LeaveUnpaid, models.LeavePending, testutil.Day(2024, 1, 10), testutil.Day(2024, 1, 12))

	if _, err := svc.Approve(ctx, clash.ID); !errors.Is(err, leavepolicy.ErrLeaveOverlap) {
		t.Errorf("overlapping approve: err = %v, want ErrLeaveOverlap", err)
	}
	if _, err := svc.Approve(ctx, adjacent.ID); err != nil {
		t.Errorf("adjacent approve failed: %v", err)
	}
	if _, err := svc.Approve(ctx, otherEmp.ID); err != nil {
		t.Errorf("other employee approve failed: %v", err)
	}
	// Now the clash overlaps two approved leaves; still refused.
	if _, err := svc.Approve(ctx, clash.ID); !errors.Is(err, leavepolicy.ErrLeaveOverlap) {
		t.Errorf("second overlapping approve: err = %v, want ErrLeaveOverlap", err)
	}
}

func TestRejectAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	svc := leavepolicy.New(db, zap.NewNop())
	emp := fx.CreateEmployee(ctx, "Asha Rao")

	pending := fx.CreateLeave(ctx, emp.ID, models.LeaveCasual, models.LeavePending, testutil.Day(2024, 2, 1), testutil.Day(2024, 2, 1))
	decided := fx.CreateLeave(ctx, emp.ID, models.LeaveCasual, models.LeavePending, testutil.Day(2024, 2, 5), testutil.Day(2024, 2, 5))

	l, err := svc.Reject(ctx, decided.ID)
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if l.Status != models.LeaveRejected {
		t.Errorf("status = %q, want rejected", l.Status)
	}
	if _, err := svc.Approve(ctx, decided.ID); !errors.Is(err, leavepolicy.ErrNotPending) {
		t.Errorf("approve rejected leave: err = %v, want ErrNotPending", err)
	}
	if err := svc.Delete(ctx, decided.ID); !errors.Is(err, leavepolicy.ErrNotPending) {
		t.Errorf("delete decided leave: err = %v, want ErrNotPending", err)
	}
	if err := svc.Delete(ctx, pending.ID); err != nil {
		t.Errorf("delete pending leave failed: %v", err)
	}
	if err := svc.Delete(ctx, pending.ID); !errors.Is(err, leavepolicy.ErrLeaveNotFound) {
		t.Errorf("delete twice: err = %v, want ErrLeaveNotFound", err)
	}
}
