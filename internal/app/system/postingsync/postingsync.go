// Package postingsync keeps school trainer sets and employee postings in step.
//
// Every posting write that can change who is working where goes through a
// Synchronizer. A unit of work holds the employee's lock, runs inside one
// transaction (when the deployment supports it) and applies, in order:
//
//   - terminal status (resign, terminate): pull the employee from the
//     posting's school unless another active posting keeps them there,
//     deactivate the posting and stamp its end date.
//   - active status (continue, change_school): check the billing rate,
//     deactivate every other active posting of the employee (pulling the
//     employee from those schools), add the employee to the posting's
//     school, activate the posting.
//
// Reconciliation writes go straight to the stores and never call back into
// the Synchronizer, so a unit cannot re-trigger itself.
package postingsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	employeestore "github.com/dalemusser/staffhub/internal/app/store/employees"
	postingstore "github.com/dalemusser/staffhub/internal/app/store/postings"
	schoolstore "github.com/dalemusser/staffhub/internal/app/store/schools"
	"github.com/dalemusser/staffhub/internal/app/system/auditlog"
	"github.com/dalemusser/staffhub/internal/app/system/keylock"
	"github.com/dalemusser/staffhub/internal/app/system/txn"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	ErrInvalidBillingRate = errors.New("monthly billing salary must be greater than zero for an active posting")
	ErrInvalidStatus      = errors.New("unknown posting status")
	ErrPostingNotFound    = errors.New("posting not found")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrSchoolNotFound     = errors.New("school not found")
	ErrEndBeforeStart     = errors.New("end date is before the posting's start date")
)

// Options tune a Synchronizer.
type Options struct {
	// AllowProvisional lets a posting become active without a positive
	// billing rate. The activation is logged and reported as a warning.
	AllowProvisional bool
	// Now overrides the clock used for end dates.
	Now func() time.Time
}

// Synchronizer is safe for concurrent use.
type Synchronizer struct {
	db        *mongo.Database
	postings  *postingstore.Store
	schools   *schoolstore.Store
	employees *employeestore.Store
	audit     *auditlog.Logger
	log       *zap.Logger

	locks            keylock.Locker
	allowProvisional bool
	now              func() time.Time
}

// New builds a Synchronizer over db. auditLog may be nil.
func New(db *mongo.Database, auditLog *auditlog.Logger, logger *zap.Logger, opts Options) *Synchronizer {
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Synchronizer{
		db:               db,
		postings:         postingstore.New(db),
		schools:          schoolstore.New(db),
		employees:        employeestore.New(db),
		audit:            auditLog,
		log:              logger,
		allowProvisional: opts.AllowProvisional,
		now:              now,
	}
}

// Result describes what one unit of work changed.
type Result struct {
	Posting     models.EmployeePosting `json:"posting"`
	Superseded  []primitive.ObjectID   `json:"superseded,omitempty"`
	AddedTo     []primitive.ObjectID   `json:"added_to,omitempty"`
	RemovedFrom []primitive.ObjectID   `json:"removed_from,omitempty"`
	Warnings    []string               `json:"warnings,omitempty"`

	postingChanged bool
	superseded     []models.EmployeePosting
	provisional    bool
}

// Changed reports whether the unit wrote anything.
func (r Result) Changed() bool {
	return r.postingChanged || len(r.Superseded) > 0 || len(r.AddedTo) > 0 || len(r.RemovedFrom) > 0
}

// Create inserts p and reconciles it. An empty status means continue.
// ID, IsActive and EndDate are owned by the synchronizer: IsActive is
// derived from the status and EndDate is kept only for terminal postings.
func (s *Synchronizer) Create(ctx context.Context, p models.EmployeePosting) (Result, error) {
	if p.Status == "" {
		p.Status = models.PostingContinue
	}
	if !models.IsValidPostingStatus(p.Status) {
		return Result{}, ErrInvalidStatus
	}
	if err := s.mustExist(ctx, p.EmployeeID, p.SchoolID); err != nil {
		return Result{}, err
	}

	p.ID = primitive.NewObjectID()
	p.IsActive = false
	if !p.Terminal() {
		p.EndDate = nil
	}
	if p.StartDate.IsZero() {
		p.StartDate = s.now()
	}
	if err := checkDates(p); err != nil {
		return Result{}, err
	}

	unlock := s.locks.Lock(p.EmployeeID.Hex())
	defer unlock()

	var res Result
	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		res = Result{}
		if err := s.checkBilling(p, &res); err != nil {
			return err
		}
		created, err := s.postings.Create(ctx, p)
		if err != nil {
			return fmt.Errorf("create posting: %w", err)
		}
		res.postingChanged = true
		return s.reconcile(ctx, created, &res)
	})
	return s.finish(ctx, p, res, err)
}

// Update applies u to the posting and reconciles the result.
func (s *Synchronizer) Update(ctx context.Context, id primitive.ObjectID, u postingstore.Update) (Result, error) {
	if u.Status != nil && !models.IsValidPostingStatus(*u.Status) {
		return Result{}, ErrInvalidStatus
	}
	cur, err := s.postings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Result{}, ErrPostingNotFound
		}
		return Result{}, err
	}
	if u.SchoolID != nil && *u.SchoolID != cur.SchoolID {
		if _, err := s.schools.GetByID(ctx, *u.SchoolID); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return Result{}, ErrSchoolNotFound
			}
			return Result{}, err
		}
	}

	unlock := s.locks.Lock(cur.EmployeeID.Hex())
	defer unlock()

	var res Result
	var next models.EmployeePosting
	err = txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		res = Result{}
		cur, err := s.postings.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrPostingNotFound
			}
			return err
		}
		next = u.Apply(cur)
		if err := checkDates(next); err != nil {
			return err
		}
		if err := s.checkBilling(next, &res); err != nil {
			return err
		}

		// Moving an active posting: the old school loses the trainer.
		if cur.IsActive && next.SchoolID != cur.SchoolID {
			removed, err := s.schools.RemoveTrainer(ctx, cur.SchoolID, cur.EmployeeID)
			if err != nil {
				return fmt.Errorf("remove trainer from previous school: %w", err)
			}
			if removed {
				res.RemovedFrom = append(res.RemovedFrom, cur.SchoolID)
			}
		}

		if err := s.postings.Update(ctx, id, u); err != nil {
			return fmt.Errorf("update posting: %w", err)
		}
		return s.reconcile(ctx, next, &res)
	})
	return s.finish(ctx, next, res, err)
}

// End resigns or terminates a posting. status must be terminal.
func (s *Synchronizer) End(ctx context.Context, id primitive.ObjectID, status string, at *time.Time) (Result, error) {
	if !models.IsTerminalStatus(status) {
		return Result{}, ErrInvalidStatus
	}
	return s.Update(ctx, id, postingstore.Update{Status: &status, EndDate: at})
}

// Reconcile re-runs reconciliation for a stored posting. A posting that is
// already reconciled yields a Result with Changed() == false.
func (s *Synchronizer) Reconcile(ctx context.Context, id primitive.ObjectID) (Result, error) {
	p, err := s.postings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Result{}, ErrPostingNotFound
		}
		return Result{}, err
	}

	unlock := s.locks.Lock(p.EmployeeID.Hex())
	defer unlock()

	var res Result
	err = txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		res = Result{}
		fresh, err := s.postings.GetByID(ctx, id)
		if err != nil {
			return err
		}
		p = fresh
		if err := s.checkBilling(p, &res); err != nil {
			return err
		}
		return s.reconcile(ctx, p, &res)
	})
	return s.finish(ctx, p, res, err)
}

func (s *Synchronizer) mustExist(ctx context.Context, employeeID, schoolID primitive.ObjectID) error {
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrEmployeeNotFound
		}
		return err
	}
	if _, err := s.schools.GetByID(ctx, schoolID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrSchoolNotFound
		}
		return err
	}
	return nil
}

// checkBilling applies the billing-rate rule to a posting about to be (or
// stay) active. Terminal postings are not checked.
func (s *Synchronizer) checkBilling(p models.EmployeePosting, res *Result) error {
	if p.Terminal() || p.MonthlyBillingSalary > 0 {
		return nil
	}
	if !s.allowProvisional {
		return ErrInvalidBillingRate
	}
	res.provisional = true
	res.Warnings = append(res.Warnings, "monthly billing salary is missing or not positive; posting activated provisionally")
	return nil
}

// checkDates rejects a terminal posting whose given end date falls before
// its start date.
func checkDates(p models.EmployeePosting) error {
	if p.Terminal() && p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return ErrEndBeforeStart
	}
	return nil
}

// stillPostedAt reports whether the employee holds an active, non-terminal
// posting other than p at p's school.
func (s *Synchronizer) stillPostedAt(ctx context.Context, p models.EmployeePosting) (bool, error) {
	others, err := s.postings.OtherActive(ctx, p.EmployeeID, p.ID)
	if err != nil {
		return false, err
	}
	for _, o := range others {
		if o.SchoolID == p.SchoolID && !o.Terminal() {
			return true, nil
		}
	}
	return false, nil
}

// reconcile performs the branch for p's status. p must reflect the stored
// document after any pending update.
func (s *Synchronizer) reconcile(ctx context.Context, p models.EmployeePosting, res *Result) error {
	now := s.now()

	if p.Terminal() {
		// A later active posting at the same school keeps the employee there.
		posted, err := s.stillPostedAt(ctx, p)
		if err != nil {
			return fmt.Errorf("find other active postings: %w", err)
		}
		if !posted {
			removed, err := s.schools.RemoveTrainer(ctx, p.SchoolID, p.EmployeeID)
			if err != nil {
				return fmt.Errorf("remove trainer: %w", err)
			}
			if removed {
				res.RemovedFrom = append(res.RemovedFrom, p.SchoolID)
			}
		}
		end := now
		if p.EndDate != nil {
			end = *p.EndDate
		}
		changed, err := s.postings.Deactivate(ctx, p.ID, end)
		if err != nil {
			return fmt.Errorf("deactivate posting: %w", err)
		}
		if changed {
			res.postingChanged = true
		}
		p.IsActive = false
		p.EndDate = &end
		res.Posting = p
		return nil
	}

	others, err := s.postings.OtherActive(ctx, p.EmployeeID, p.ID)
	if err != nil {
		return fmt.Errorf("find other active postings: %w", err)
	}
	for _, o := range others {
		if o.SchoolID != p.SchoolID {
			removed, err := s.schools.RemoveTrainer(ctx, o.SchoolID, o.EmployeeID)
			if err != nil {
				return fmt.Errorf("remove trainer from superseded posting's school: %w", err)
			}
			if removed {
				res.RemovedFrom = append(res.RemovedFrom, o.SchoolID)
			}
		}
		if _, err := s.postings.Deactivate(ctx, o.ID, now); err != nil {
			return fmt.Errorf("deactivate superseded posting: %w", err)
		}
		res.Superseded = append(res.Superseded, o.ID)
		res.superseded = append(res.superseded, o)
	}

	added, err := s.schools.AddTrainer(ctx, p.SchoolID, p.EmployeeID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrSchoolNotFound
		}
		return fmt.Errorf("add trainer: %w", err)
	}
	if added {
		res.AddedTo = append(res.AddedTo, p.SchoolID)
	}

	changed, err := s.postings.Activate(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("activate posting: %w", err)
	}
	if changed {
		res.postingChanged = true
	}
	p.IsActive = true
	p.EndDate = nil
	res.Posting = p
	return nil
}

// finish logs and audits the outcome of a unit of work.
func (s *Synchronizer) finish(ctx context.Context, p models.EmployeePosting, res Result, err error) (Result, error) {
	if err != nil {
		if errors.Is(err, ErrInvalidBillingRate) {
			s.log.Warn("posting activation rejected",
				zap.String("employee_id", p.EmployeeID.Hex()),
				zap.String("school_id", p.SchoolID.Hex()),
				zap.Float64("monthly_billing_salary", p.MonthlyBillingSalary))
			s.audit.PostingRejected(ctx, p, err.Error())
		}
		return Result{}, err
	}

	for _, o := range res.superseded {
		s.audit.PostingSuperseded(ctx, o, res.Posting.ID)
	}
	if res.postingChanged {
		if res.Posting.IsActive {
			s.audit.PostingActivated(ctx, res.Posting)
		} else {
			s.audit.PostingEnded(ctx, res.Posting)
		}
	}
	if res.provisional {
		s.log.Warn("posting activated without a valid billing rate",
			zap.String("posting_id", res.Posting.ID.Hex()),
			zap.String("employee_id", res.Posting.EmployeeID.Hex()))
		s.audit.PostingProvisional(ctx, res.Posting)
	}

	s.log.Debug("posting reconciled",
		zap.String("posting_id", res.Posting.ID.Hex()),
		zap.Bool("active", res.Posting.IsActive),
		zap.Int("superseded", len(res.Superseded)),
		zap.Bool("changed", res.Changed()))
	return res, nil
}
