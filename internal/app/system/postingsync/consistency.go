package postingsync

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Drift is a trainer-set mismatch at one school.
type Drift struct {
	SchoolID   primitive.ObjectID   `json:"school_id"`
	SchoolName string               `json:"school_name"`
	Missing    []primitive.ObjectID `json:"missing,omitempty"` // actively posted, not in current_trainers
	Extra      []primitive.ObjectID `json:"extra,omitempty"`   // in current_trainers, not actively posted
	Repaired   int                  `json:"repaired"`
}

// Report is the outcome of one consistency audit.
type Report struct {
	StartedAt      time.Time            `json:"started_at"`
	FinishedAt     time.Time            `json:"finished_at"`
	SchoolsChecked int                  `json:"schools_checked"`
	Drifts         []Drift              `json:"drifts"`
	MultipleActive []primitive.ObjectID `json:"multiple_active"`
	OrphanSchools  []primitive.ObjectID `json:"orphan_schools,omitempty"` // active postings naming a missing school
	Repair         bool                 `json:"repair"`
}

// Consistent reports whether the audit found nothing to fix.
func (r Report) Consistent() bool {
	return len(r.Drifts) == 0 && len(r.MultipleActive) == 0 && len(r.OrphanSchools) == 0
}

// Audit compares every school's trainer set with the employees holding an
// active, non-terminal posting there. With repair set, each mismatched
// trainer is re-checked under the employee's lock and fixed.
func (s *Synchronizer) Audit(ctx context.Context, repair bool) (Report, error) {
	rep := Report{StartedAt: s.now(), Repair: repair, Drifts: []Drift{}, MultipleActive: []primitive.ObjectID{}}

	expected, err := s.postings.ActiveBySchool(ctx)
	if err != nil {
		return rep, fmt.Errorf("load active postings: %w", err)
	}
	schools, err := s.schools.Find(ctx, bson.M{},
		options.Find().
			SetProjection(bson.M{"name": 1, "current_trainers": 1}).
			SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return rep, fmt.Errorf("load schools: %w", err)
	}

	seen := make(map[primitive.ObjectID]bool, len(schools))
	for _, sc := range schools {
		seen[sc.ID] = true
		rep.SchoolsChecked++

		d := diffTrainers(sc.CurrentTrainers, expected[sc.ID])
		if len(d.Missing) == 0 && len(d.Extra) == 0 {
			continue
		}
		d.SchoolID = sc.ID
		d.SchoolName = sc.Name

		if repair {
			n, err := s.repairSchool(ctx, d)
			if err != nil {
				return rep, err
			}
			d.Repaired = n
		}

		s.log.Warn("trainer set drift",
			zap.String("school_id", sc.ID.Hex()),
			zap.Int("missing", len(d.Missing)),
			zap.Int("extra", len(d.Extra)),
			zap.Int("repaired", d.Repaired))
		s.audit.Drift(ctx, sc.ID, len(d.Missing), len(d.Extra), repair)
		rep.Drifts = append(rep.Drifts, d)
	}

	for id := range expected {
		if !seen[id] {
			rep.OrphanSchools = append(rep.OrphanSchools, id)
		}
	}
	sortIDs(rep.OrphanSchools)

	multi, err := s.postings.EmployeesWithMultipleActive(ctx)
	if err != nil {
		return rep, fmt.Errorf("find employees with multiple active postings: %w", err)
	}
	if len(multi) > 0 {
		rep.MultipleActive = multi
		s.log.Error("employees with more than one active posting", zap.Int("count", len(multi)))
	}

	rep.FinishedAt = s.now()
	return rep, nil
}

// repairSchool fixes each mismatched trainer of d and returns how many
// writes it made. Each decision is re-made against the employee's current
// active posting while holding the employee's lock.
func (s *Synchronizer) repairSchool(ctx context.Context, d Drift) (int, error) {
	fixed := 0
	fix := func(employeeID primitive.ObjectID) error {
		unlock := s.locks.Lock(employeeID.Hex())
		defer unlock()

		belongs, err := s.postedAt(ctx, employeeID, d.SchoolID)
		if err != nil {
			return err
		}
		var changed bool
		if belongs {
			changed, err = s.schools.AddTrainer(ctx, d.SchoolID, employeeID)
		} else {
			changed, err = s.schools.RemoveTrainer(ctx, d.SchoolID, employeeID)
		}
		if err != nil {
			return fmt.Errorf("repair trainer set of school %s: %w", d.SchoolID.Hex(), err)
		}
		if changed {
			fixed++
		}
		return nil
	}

	for _, id := range d.Missing {
		if err := fix(id); err != nil {
			return fixed, err
		}
	}
	for _, id := range d.Extra {
		if err := fix(id); err != nil {
			return fixed, err
		}
	}
	return fixed, nil
}

// postedAt reports whether the employee currently holds an active,
// non-terminal posting at schoolID.
func (s *Synchronizer) postedAt(ctx context.Context, employeeID, schoolID primitive.ObjectID) (bool, error) {
	active, err := s.postings.Find(ctx, bson.M{"employee_id": employeeID, "is_active": true})
	if err != nil {
		return false, err
	}
	for _, p := range active {
		if p.SchoolID == schoolID && !models.IsTerminalStatus(p.Status) {
			return true, nil
		}
	}
	return false, nil
}

func diffTrainers(current, expected []primitive.ObjectID) Drift {
	cur := make(map[primitive.ObjectID]bool, len(current))
	for _, id := range current {
		cur[id] = true
	}
	exp := make(map[primitive.ObjectID]bool, len(expected))
	for _, id := range expected {
		exp[id] = true
	}

	var d Drift
	for id := range exp {
		if !cur[id] {
			d.Missing = append(d.Missing, id)
		}
	}
	for id := range cur {
		if !exp[id] {
			d.Extra = append(d.Extra, id)
		}
	}
	sortIDs(d.Missing)
	sortIDs(d.Extra)
	return d
}

func sortIDs(ids []primitive.ObjectID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Hex() < ids[j].Hex() })
}
