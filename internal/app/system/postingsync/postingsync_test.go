package postingsync_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/staffhub/internal/app/store/audit"
	postingstore "github.com/dalemusser/staffhub/internal/app/store/postings"
	"github.com/dalemusser/staffhub/internal/app/system/auditlog"
	"github.com/dalemusser/staffhub/internal/app/system/indexes"
	"github.com/dalemusser/staffhub/internal/app/system/postingsync"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/staffhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type env struct {
	db     *mongo.Database
	fx     *testutil.Fixtures
	sync   *postingsync.Synchronizer
	events *audit.Store
}

func setup(t *testing.T, opts postingsync.Options) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	events := audit.New(db)
	al := auditlog.New(events, zap.NewNop(), auditlog.Config{Posting: auditlog.DB, Consistency: auditlog.DB})
	return env{
		db:     db,
		fx:     testutil.NewFixtures(t, db),
		sync:   postingsync.New(db, al, zap.NewNop(), opts),
		events: events,
	}
}

func posting(emp, school primitive.ObjectID, salary float64) models.EmployeePosting {
	return models.EmployeePosting{
		EmployeeID:           emp,
		SchoolID:             school,
		Status:               models.PostingContinue,
		StartDate:            testutil.Day(2024, time.January, 1),
		MonthlyBillingSalary: salary,
	}
}

func activeCount(t *testing.T, e env, emp primitive.ObjectID) int64 {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	n, err := e.db.Collection("employee_postings").CountDocuments(ctx, bson.M{"employee_id": emp, "is_active": true})
	if err != nil {
		t.Fatalf("count active postings: %v", err)
	}
	return n
}

func TestCreate_ActivatesAndAddsTrainer(t *testing.T) {
	e := setup(t, postingsync.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	emp := e.fx.CreateEmployee(ctx, "Asha Rao")
	a := e.fx.CreateSchool(ctx, "School A", 2)

	res, err := e.sync.Create(ctx, posting(emp.ID, a.ID, 50000))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !res.Posting.IsActive {
		t.Error("expected posting to be active")
	}
	if !res.Changed() {
		t.Error("expected Changed() for a new posting")
	}
	if len(res.AddedTo) != 1 || res.AddedTo[0] != a.ID {
		t.Errorf("AddedTo = %v, want [%s]", res.AddedTo, a.ID.Hex())
	}

	stored := e.fx.Posting(ctx, res.Posting.ID)
	if !stored.IsActive || stored.EndDate != nil {
		t.Errorf("stored posting active=%v end=%v, want active with no end date", stored.IsActive, stored.EndDate)
	}
	if !e.fx.School(ctx, a.ID).HasTrainer(emp.ID) {
		t.Error("expected employee in school A trainers")
	}
}

func TestCreate_SupersedesPreviousPosting(t *testing.T) {
	e := setup(t, postingsync.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	emp := e.fx.CreateEmployee(ctx, "Asha Rao")
	a := e.fx.CreateSchool(ctx, "School A", 2)
	b := e.fx.CreateSchool(ctx, "School B", 2)

	p1, err := e.sync.Create(ctx, posting(emp.ID, a.ID, 50000))
	if err != nil {
		t.Fatalf("Create P1 failed: %v", err)
	}
	p2, err := e.sync.Create(ctx, posting(emp.ID, b.ID, 60000))
	if err != nil {
		t.Fatalf("Create P2 failed: %v", err)
	}

	if len(p2.Superseded) != 1 || p2.Superseded[0] != p1.Posting.ID {
		t.Errorf("Superseded = %v, want [%s]", p2.Superseded, p1.Posting.ID.Hex())
	}
	if len(p2.RemovedFrom) != 1 || p2.RemovedFrom[0] != a.ID {
		t.Errorf("RemovedFrom = %v, want [%s]", p2.RemovedFrom, a.ID.Hex())
	}

	old := e.fx.Posting(ctx, p1.Posting.ID)
	if old.IsActive {
		t.Error("P1 should be inactive")
	}
	if old.EndDate == nil {
		t.Error("P1 should carry an end date")
	}
	if e.fx.School(ctx, a.ID).HasTrainer(emp.ID) {
		t.Error("employee should have left school A")
	}
	if !e.fx.School(ctx, b.ID).HasTrainer(emp.ID) {
		t.Error("employee should be in school B")
	}
	if n := activeCount(t, e, emp.ID); n != 1 {
		t.Errorf("active postings = %d, want 1", n)
	}
}

func TestEnd_ResignRemovesTrainer(t *testing.T) {
	e := setup(t, postingsync.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	emp := e.fx.CreateEmployee(ctx, "Asha Rao")
	b := e.fx.CreateSchool(ctx, "School B", 1)

	created, err := e.sync.Create(ctx, posting(emp.ID, b.ID, 60000))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	res, err := e.sync.End(ctx, created.Posting.ID, models.PostingResign, nil)
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if res.Posting.IsActive {
		t.Error("expected posting to be inactive")
	}
	if len(res.RemovedFrom) != 1 || res.RemovedFrom[0] != b.ID {
		t.Errorf("RemovedFrom = %v, want [%s]", res.RemovedFrom, b.ID.Hex())
	}

	stored := e.fx.Posting(ctx, created.Posting.ID)
	if stored.IsActive || stored.EndDate == nil {
		t.Errorf("stored posting active=%v end=%v, want inactive with end date", stored.IsActive, stored.EndDate)
	}
	if stored.Status != models.PostingResign {
		t.Errorf("status = %q, want %q", stored.Status, models.PostingResign)
	}
	if e.fx.School(ctx, b.ID).HasTrainer(emp.ID) {
		t.Error("employee should have left school B")
	}
}

func TestEnd_KeepsGivenEndDate(t *testing.T) {
	e := setup(t, postingsync.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	emp := e.fx.CreateEmployee(ctx, "Asha Rao")
	a := e.fx.CreateSchool(ctx, "School A", 1)

	created, err := e.sync.Create(ctx, posting(emp.ID, a.ID, 50000))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	end := testutil.Day(2024, time.March, 15)
	if _, err := e.sync.End(ctx, created.Posting.ID, models.PostingTerminate, &end); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	stored := e.fx.Posting(ctx, created.Posting.ID)
	if stored.EndDate == nil || !stored.EndDate.Equal(end) {
		t.Errorf("end date = %v, want %v", stored.EndDate, end)
	}
}

func TestEnd_RejectsNonTerminalStatus(t *testing.T) {
	e := setup(t, postingsync.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := e.sync.End(ctx, primitive.NewObjectID(), models.PostingContinue, nil)
	if !errors.Is(err, postingsync.ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestEnd_RejectsEndBeforeStart(t *testing.T) {
	e := setup(t, postingsync.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	emp := e.fx.CreateEmployee(ctx, "Asha Rao")
	a := e.fx.CreateSchool(ctx, "School A", 1)

	created, err := e.sync.Create(ctx, posting(emp.ID, a.ID, 50000))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	early := testutil.Day(2023, time.December, 1)
	_, err = e.sync.End(ctx, created.Posting.ID, models.PostingResign, &early)
	if !errors.Is(err, postingsync.ErrEndBeforeStart) {
		t.Fatalf("End err = %v, want ErrEndBeforeStart", err)
	}
	if stored := e.fx.Posting(ctx, created.Posting.ID); !stored.IsActive || stored.EndDate != nil {
		t.Errorf("rejected end changed the posting: active=%v end=%v", stored.IsActive, stored.EndDate)
	}
	if !e.fx.School(ctx, a.ID).HasTrainer(emp.ID) {
		t.Error("rejected end removed the trainer")
	}

	history := posting(emp.ID, a.ID, 50000)
	history.Status = models.PostingTerminate
	history.EndDate = &early
	if _, err := e.sync.Create(ctx, history); !errors.Is(err, postingsync.ErrEndBeforeStart) {
		t.Errorf("Create err = %v, want ErrEndBeforeStart", err)
	}
}

// Writes to an ended posting leave the employee in the trainer set of a
// school where they hold a newer active posting.
func TestTerminal_EndedPostingKeepsCurrentTrainer(t *testing.T) {
	tests := []struct {
		name string
		act  func(ctx context.Context, e env, ended models.EmployeePosting) (primitive.ObjectID, error)
	}{
		{"edit remark of ended posting", func(ctx context.Context, e env, ended models.EmployeePosting) (primitive.ObjectID, error) {
			remark := "transferred back"
			_, err := e.sync.Update(ctx, ended.ID, postingstore.Update{Remark: &remark})
			return ended.ID, err
		}},
		{"reconcile ended posting", func(ctx context.Context, e env, ended models.EmployeePosting) (primitive.ObjectID, error) {
			_, err := e.sync.Reconcile(ctx, ended.ID)
			return ended.ID, err
		}},
		{"create terminal posting at current school", func(ctx context.Context, e env, ended models.EmployeePosting) (primitive.ObjectID, error) {
			end := testutil.Day(2023, time.June, 30)
			history := posting(ended.EmployeeID, ended.SchoolID, 40000)
			history.Status = models.PostingResign
			history.StartDate = testutil.Day(2023, time.January, 1)
			history.EndDate = &end
			res, err := e.sync.Create(ctx, history)
			return res.Posting.ID, err
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := setup(t, postingsync.Options{})
			ctx, cancel := testutil.TestContext()
			defer cancel()

			emp := e.fx.CreateEmployee(ctx, "Asha Rao")
			a := e.fx.CreateSchool(ctx, "School A", 2)

			p1, err := e.sync.Create(ctx, posting(emp.ID, a.ID, 50000))
			if err != nil {
				t.Fatalf("Create P1 failed: %v", err)
			}
			if _, err := e.sync.End(ctx, p1.Posting.ID, models.PostingResign, nil); err != nil {
				t.Fatalf("End P1 failed: %v", err)
			}
			p3, err := e.sync.Create(ctx, posting(emp.ID, a.ID, 60000))
			if err != nil {
				t.Fatalf("Create P3 failed: %v", err)
			}

			terminalID, err := tc.act(ctx, e, e.fx.Posting(ctx, p1.Posting.ID))
			if err != nil {
				t.Fatalf("write to ended posting failed: %v", err)
			}

			if !e.fx.School(ctx, a.ID).HasTrainer(emp.ID) {
				t.Error("employee was pulled from school A while P3 is active there")
			}
			if !e.fx.Posting(ctx, p3.Posting.ID).IsActive {
				t.Error("P3 should still be active")
			}

			again, err := e.sync.Reconcile(ctx, terminalID)
			if err != nil {
				t.Fatalf("Reconcile failed: %v", err)
			}
			if again.Changed() {
				t.Errorf("reconciling the ended posting changed %+v", again)
			}

			rep, err := e.sync.Audit(ctx, false)
			if err != nil {
				t.Fatalf("Audit failed: %v", err)
			}
			if !rep.Consistent() {
				t.Errorf("audit found drift: %+v", rep)
			}
		})
	}
}

func TestTerminal_AbsentTrainerIsNoop(t *testing.T) {
	e := setup(t, postingsync.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	emp := e.fx.CreateEmployee(ctx, "Asha Rao")
	a := e.fx.CreateSchool(ctx, "School A", 1)
	// Active posting whose school never listed the employee.
	p := e.fx.CreatePosting(ctx, emp.ID, a.ID, models.PostingContinue, true, 50000, testutil.Day(2024, time.January, 1))

	res, err := e.sync.End(ctx, p.ID, models.PostingResign, nil)
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if len(res.RemovedFrom) != 0 {
		t.Errorf("RemovedFrom = %v, want none", res.RemovedFrom)
	}
	if e.fx.Posting(ctx, p.ID).IsActive {
		t.Error("posting should be inactive")
	}
}

func TestCreate_InvalidBillingRateRejected(t *testing.T) {
	e := setup(t, postingsync.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	emp := e.fx.CreateEmployee(ctx, "Asha Rao")
	a := e.fx.CreateSchool(ctx, "School A", 1)

	for _, salary := range []float64{0, -100} {
		_, err := e.sync.Create(ctx, posting(emp.ID, a.ID, salary))
		if !errors.Is(err, postingsync.ErrInvalidBillingRate) {
			t.Fatalf("salary %v: err = %v, want ErrInvalidBillingRate", salary, err)
		}
	}

	n, err := e.db.Collection("employee_postings").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count postings: %v", err)
	}
	if n != 0 {
		t.Errorf("postings stored = %d, want 0", n)
	}
	if len(e.fx.School(ctx, a.ID).CurrentTrainers) != 0 {
		t.Error("school trainers should be untouched")
	}

	rejected, err := e.events.CountByFilter(ctx, audit.QueryFilter{EventType: audit.EventPostingRejected})
	if err != nil {
		t.Fatalf("count audit events: %v", err)
	}
	if rejected != 2 {
		t.Errorf("posting_rejected events = %d, want 2", rejected)
	}
}

func TestCreate_ProvisionalAllowed(t *testing.T) {
	e := setup(t, postingsync.Options{AllowProvisional: true})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	emp := e.fx.CreateEmployee(ctx, "Asha Rao")
	a := e.fx.CreateSchool(ctx, "School A", 1)

	res, err := e.sync.Create(ctx, posting(emp.ID, a.ID, 0))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !res.Posting.IsActive {
		t.Error("expected provisional posting to be active")
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a billing warning")
	}
	if !e.fx.School(ctx, a.ID).HasTrainer(emp.ID) {
		t.Error("employee should be in school A")
	}
}

func TestTerminal_SkipsBillingCheck(t *testing.T) {
	e := setup(t, postingsync.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	emp := e.fx.CreateEmployee(ctx, "Asha Rao")
	a := e.fx.CreateSchool(ctx, "School A", 1)
	p := e.fx.CreatePosting(ctx, emp.ID, a.ID, models.PostingContinue, true, 0, testutil.Day(2024, time.January, 1))
	e.fx.AddTrainer(ctx, a.ID, emp.ID)

	if _, err := e.sync.End(ctx, p.ID, models.PostingTerminate, nil); err != nil {
		t.Fatalf("End of a zero-rate posting failed: %v", err)
	}
	if e.fx.School(ctx, a.ID).HasTrainer(emp.ID) {
		t.Error("employee should have left school A")
	}
}

func TestReconcile_AlreadyReconciledChangesNothing(t *testing.T) {
	e := setup(t, postingsync.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	emp := e.fx.CreateEmployee(ctx, "Asha Rao")
	a := e.fx.CreateSchool(ctx, "School A", 1)

	created, err := e.sync.Create(ctx, posting(emp.ID, a.ID, 50000))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	before := e.fx.Posting(ctx, created.Posting.ID)

	res, err := e.sync.Reconcile(ctx, created.Posting.ID)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if res.Changed() {
		t.Errorf("expected no changes, got %+v", res)
	}
	after := e.fx.Posting(ctx, created.Posting.ID)
	if !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Error("reconcile should not rewrite an already reconciled posting")
	}

	ended, err := e.sync.End(ctx, created.Posting.ID, models.PostingResign, nil)
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if !ended.Changed() {
		t.Error("ending an active posting should report changes")
	}
	again, err := e.sync.Reconcile(ctx, created.Posting.ID)
	if err != nil {
		t.Fatalf("Reconcile after end failed: %v", err)
	}
	if again.Changed() {
		t.Errorf("expected no changes for an ended posting, got %+v", again)
	}
}

func TestReconcile_FixesMissingTrainer(t *testing.T) {
	e := setup(t, postingsync.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	emp := e.fx.CreateEmployee(ctx, "Asha Rao")
	a := e.fx.CreateSchool(ctx, "School A", 1)
	p := e.fx.CreatePosting(ctx, emp.ID, a.ID, models.PostingContinue, true, 50000, testutil.Day(2024, time.January, 1))

	res, err := e.sync.Reconcile(ctx, p.ID)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(res.AddedTo) != 1 {
		t.Errorf("AddedTo = %v, want school A", res.AddedTo)
	}
	if !e.fx.School(ctx, a.ID).HasTrainer(emp.ID) {
		t.Error("employee should be in school A")
	}
}

func TestReconcile_NotFound(t *testing.T) {
	e := setup(t, postingsync.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := e.sync.Reconcile(ctx, primitive.NewObjectID())
	if !errors.Is(err, postingsync.ErrPostingNotFound) {
		t.Errorf("err = %v, want ErrPostingNotFound", err)
	}
}

func TestUpdate_MoveActivePosting(t *testing.T) {
	e := setup(t, postingsync.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	emp := e.fx.CreateEmployee(ctx, "Asha Rao")
	a := e.fx.CreateSchool(ctx, "School A", 1)
	b := e.fx.CreateSchool(ctx, "School B", 1)

	created, err := e.sync.Create(ctx, posting(emp.ID, a.ID, 50000))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	status := models.PostingChangeSchool
	res, err := e.sync.Update(ctx, created.Posting.ID, postingstore.Update{SchoolID: &b.ID, Status: &status})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(res.RemovedFrom) != 1 || res.RemovedFrom[0] != a.ID {
		t.Errorf("RemovedFrom = %v, want [%s]", res.RemovedFrom, a.ID.Hex())
	}
	if len(res.AddedTo) != 1 || res.AddedTo[0] != b.ID {
		t.Errorf("AddedTo = %v, want [%s]", res.AddedTo, b.ID.Hex())
	}
	if e.fx.School(ctx, a.ID).HasTrainer(emp.ID) {
		t.Error("employee should have left school A")
	}
	if !e.fx.School(ctx, b.ID).HasTrainer(emp.ID) {
		t.Error("employee should be in school B")
	}
}

func TestUpdate_ValidationErrors(t *testing.T) {
	e := setup(t, postingsync.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	emp := e.fx.CreateEmployee(ctx, "Asha Rao")
	a := e.fx.CreateSchool(ctx, "School A", 1)
	created, err := e.sync.Create(ctx, posting(emp.ID, a.ID, 50000))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	bogus := "on_hold"
	zero := 0.0
	missing := primitive.NewObjectID()

	tests := []struct {
		name string
		id   primitive.ObjectID
		u    postingstore.Update
		want error
	}{
		{"unknown status", created.Posting.ID, postingstore.Update{Status: &bogus}, postingsync.ErrInvalidStatus},
		{"zero rate on active posting", created.Posting.ID, postingstore.Update{MonthlyBillingSalary: &zero}, postingsync.ErrInvalidBillingRate},
		{"unknown school", created.Posting.ID, postingstore.Update{SchoolID: &missing}, postingsync.ErrSchoolNotFound},
		{"unknown posting", primitive.NewObjectID(), postingstore.Update{}, postingsync.ErrPostingNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.sync.Update(ctx, tt.id, tt.u)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	stored := e.fx.Posting(ctx, created.Posting.ID)
	if stored.MonthlyBillingSalary != 50000 || !stored.IsActive {
		t.Errorf("rejected updates must not persist, got salary=%v active=%v", stored.MonthlyBillingSalary, stored.IsActive)
	}
}

func TestCreate_UnknownReferences(t *testing.T) {
	e := setup(t, postingsync.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	emp := e.fx.CreateEmployee(ctx, "Asha Rao")
	a := e.fx.CreateSchool(ctx, "School A", 1)

	if _, err := e.sync.Create(ctx, posting(primitive.NewObjectID(), a.ID, 1)); !errors.Is(err, postingsync.ErrEmployeeNotFound) {
		t.Errorf("err = %v, want ErrEmployeeNotFound", err)
	}
	if _, err := e.sync.Create(ctx, posting(emp.ID, primitive.NewObjectID(), 1)); !errors.Is(err, postingsync.ErrSchoolNotFound) {
		t.Errorf("err = %v, want ErrSchoolNotFound", err)
	}
	bad := posting(emp.ID, a.ID, 1)
	bad.Status = "retired"
	if _, err := e.sync.Create(ctx, bad); !errors.Is(err, postingsync.ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestCreate_ConcurrentForOneEmployee(t *testing.T) {
	e := setup(t, postingsync.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	emp := e.fx.CreateEmployee(ctx, "Asha Rao")
	const n = 8
	schools := make([]models.School, n)
	for i := range schools {
		schools[i] = e.fx.CreateSchool(ctx, "School "+string(rune('A'+i)), 1)
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(school primitive.ObjectID) {
			defer wg.Done()
			if _, err := e.sync.Create(ctx, posting(emp.ID, school, 1000)); err != nil {
				errs <- err
			}
		}(schools[i].ID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent Create failed: %v", err)
	}

	if got := activeCount(t, e, emp.ID); got != 1 {
		t.Fatalf("active postings = %d, want 1", got)
	}
	holding := 0
	for _, s := range schools {
		if e.fx.School(ctx, s.ID).HasTrainer(emp.ID) {
			holding++
		}
	}
	if holding != 1 {
		t.Errorf("schools listing the employee = %d, want 1", holding)
	}
}

func TestResult_Changed(t *testing.T) {
	if (postingsync.Result{}).Changed() {
		t.Error("empty result should not report changes")
	}
	if !(postingsync.Result{AddedTo: []primitive.ObjectID{primitive.NewObjectID()}}).Changed() {
		t.Error("result with an added school should report changes")
	}
}
