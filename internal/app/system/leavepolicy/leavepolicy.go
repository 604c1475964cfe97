// Package leavepolicy applies the leave request rules: valid dates and
// type on create, no overlapping approved leave for one employee.
package leavepolicy

import (
	"context"
	"errors"
	"fmt"
	"time"

	employeestore "github.com/dalemusser/staffhub/internal/app/store/employees"
	leavestore "github.com/dalemusser/staffhub/internal/app/store/leaves"
	"github.com/dalemusser/staffhub/internal/app/system/keylock"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	ErrLeaveOverlap     = errors.New("leave overlaps another approved leave of the employee")
	ErrInvalidRange     = errors.New("to_date must not be before from_date")
	ErrInvalidType      = errors.New("unknown leave type")
	ErrNotPending       = errors.New("leave is no longer pending")
	ErrLeaveNotFound    = errors.New("leave not found")
	ErrEmployeeNotFound = errors.New("employee not found")
)

type Service struct {
	leaves    *leavestore.Store
	employees *employeestore.Store
	locks     keylock.Locker
	log       *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Service {
	return &Service{
		leaves:    leavestore.New(db),
		employees: employeestore.New(db),
		log:       logger,
	}
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsValidType reports whether leaveType is one of models.LeaveTypes.
func IsValidType(leaveType string) bool {
	for _, t := range models.LeaveTypes {
		if t == leaveType {
			return true
		}
	}
	return false
}

// Create stores a pending leave request. Dates are truncated to whole days.
func (s *Service) Create(ctx context.Context, l models.Leave) (models.Leave, error) {
	if !IsValidType(l.LeaveType) {
		return models.Leave{}, ErrInvalidType
	}
	l.FromDate, l.ToDate = Day(l.FromDate), Day(l.ToDate)
	if l.ToDate.Before(l.FromDate) {
		return models.Leave{}, ErrInvalidRange
	}
	if _, err := s.employees.GetByID(ctx, l.EmployeeID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Leave{}, ErrEmployeeNotFound
		}
		return models.Leave{}, err
	}
	l.Status = models.LeavePending
	return s.leaves.Create(ctx, l)
}

// Approve approves a pending leave unless it shares a day with another
// approved leave of the same employee.
func (s *Service) Approve(ctx context.Context, id primitive.ObjectID) (models.Leave, error) {
	l, err := s.get(ctx, id)
	if err != nil {
		return models.Leave{}, err
	}

	unlock := s.locks.Lock(l.EmployeeID.Hex())
	defer unlock()

	clash, err := s.leaves.ApprovedOverlapping(ctx, l.EmployeeID, l.FromDate, l.ToDate, l.ID)
	if err != nil {
		return models.Leave{}, fmt.Errorf("check overlapping leave: %w", err)
	}
	if len(clash) > 0 {
		s.log.Info("leave approval refused: overlap",
			zap.String("leave_id", l.ID.Hex()),
			zap.String("employee_id", l.EmployeeID.Hex()),
			zap.String("overlaps", clash[0].ID.Hex()))
		return l, ErrLeaveOverlap
	}
	return s.transition(ctx, l, models.LeaveApproved)
}

// Reject rejects a pending leave.
func (s *Service) Reject(ctx context.Context, id primitive.ObjectID) (models.Leave, error) {
	l, err := s.get(ctx, id)
	if err != nil {
		return models.Leave{}, err
	}
	return s.transition(ctx, l, models.LeaveRejected)
}

// Delete removes a pending leave. Decided leaves stay as history.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	n, err := s.leaves.DeleteInStatus(ctx, id, models.LeavePending)
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := s.get(ctx, id); err != nil {
			return err
		}
		return ErrNotPending
	}
	return nil
}

func (s *Service) get(ctx context.Context, id primitive.ObjectID) (models.Leave, error) {
	l, err := s.leaves.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Leave{}, ErrLeaveNotFound
		}
		return models.Leave{}, err
	}
	return l, nil
}

func (s *Service) transition(ctx context.Context, l models.Leave, to string) (models.Leave, error) {
	if err := s.leaves.SetStatus(ctx, l.ID, models.LeavePending, to); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return l, ErrNotPending
		}
		return models.Leave{}, err
	}
	l.Status = to
	return l, nil
}
