package postingsync_test

import (
	"testing"
	"time"

	"github.com/dalemusser/staffhub/internal/app/store/audit"
	"github.com/dalemusser/staffhub/internal/app/system/postingsync"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/staffhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestAudit_ConsistentAfterSync(t *testing.T) {
	e := setup(t, postingsync.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	emp := e.fx.CreateEmployee(ctx, "Asha Rao")
	a := e.fx.CreateSchool(ctx, "School A", 1)
	b := e.fx.CreateSchool(ctx, "School B", 1)
	if _, err := e.sync.Create(ctx, posting(emp.ID, a.ID, 50000)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := e.sync.Create(ctx, posting(emp.ID, b.ID, 60000)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rep, err := e.sync.Audit(ctx, false)
	if err != nil {
		t.Fatalf("Audit failed: %v", err)
	}
	if !rep.Consistent() {
		t.Errorf("expected consistent report, got %+v", rep)
	}
	if rep.SchoolsChecked != 2 {
		t.Errorf("SchoolsChecked = %d, want 2", rep.SchoolsChecked)
	}
}

func TestAudit_DetectsDrift(t *testing.T) {
	e := setup(t, postingsync.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	missing := e.fx.CreateEmployee(ctx, "Missing Trainer")
	extra := e.fx.CreateEmployee(ctx, "Extra Trainer")
	a := e.fx.CreateSchool(ctx, "School A", 2)

	e.fx.CreatePosting(ctx, missing.ID, a.ID, models.PostingContinue, true, 50000, testutil.Day(2024, time.January, 1))
	e.fx.AddTrainer(ctx, a.ID, extra.ID)

	rep, err := e.sync.Audit(ctx, false)
	if err != nil {
		t.Fatalf("Audit failed: %v", err)
	}
	if len(rep.Drifts) != 1 {
		t.Fatalf("drifts = %d, want 1", len(rep.Drifts))
	}
	d := rep.Drifts[0]
	if len(d.Missing) != 1 || d.Missing[0] != missing.ID {
		t.Errorf("Missing = %v, want [%s]", d.Missing, missing.ID.Hex())
	}
	if len(d.Extra) != 1 || d.Extra[0] != extra.ID {
		t.Errorf("Extra = %v, want [%s]", d.Extra, extra.ID.Hex())
	}
	if d.Repaired != 0 {
		t.Errorf("Repaired = %d, want 0 without repair", d.Repaired)
	}

	// Detection alone leaves the data as it was.
	school := e.fx.School(ctx, a.ID)
	if school.HasTrainer(missing.ID) || !school.HasTrainer(extra.ID) {
		t.Error("audit without repair must not write")
	}

	n, err := e.events.CountByFilter(ctx, audit.QueryFilter{EventType: audit.EventDriftDetected})
	if err != nil {
		t.Fatalf("count audit events: %v", err)
	}
	if n != 1 {
		t.Errorf("drift_detected events = %d, want 1", n)
	}
}

func TestAudit_Repair(t *testing.T) {
	e := setup(t, postingsync.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	missing := e.fx.CreateEmployee(ctx, "Missing Trainer")
	extra := e.fx.CreateEmployee(ctx, "Extra Trainer")
	resigned := e.fx.CreateEmployee(ctx, "Resigned Trainer")
	a := e.fx.CreateSchool(ctx, "School A", 3)

	e.fx.CreatePosting(ctx, missing.ID, a.ID, models.PostingContinue, true, 50000, testutil.Day(2024, time.January, 1))
	e.fx.AddTrainer(ctx, a.ID, extra.ID)
	// Active flag left behind on a resigned posting: not a trainer.
	e.fx.CreatePosting(ctx, resigned.ID, a.ID, models.PostingResign, true, 50000, testutil.Day(2024, time.January, 1))
	e.fx.AddTrainer(ctx, a.ID, resigned.ID)

	rep, err := e.sync.Audit(ctx, true)
	if err != nil {
		t.Fatalf("Audit failed: %v", err)
	}
	if len(rep.Drifts) != 1 || rep.Drifts[0].Repaired != 3 {
		t.Fatalf("drifts = %+v, want one drift with 3 repairs", rep.Drifts)
	}

	school := e.fx.School(ctx, a.ID)
	if !school.HasTrainer(missing.ID) {
		t.Error("missing trainer should have been added")
	}
	if school.HasTrainer(extra.ID) || school.HasTrainer(resigned.ID) {
		t.Error("extra trainers should have been removed")
	}

	again, err := e.sync.Audit(ctx, false)
	if err != nil {
		t.Fatalf("second Audit failed: %v", err)
	}
	if len(again.Drifts) != 0 {
		t.Errorf("expected no drift after repair, got %+v", again.Drifts)
	}
}

func TestAudit_ReportsOrphanSchools(t *testing.T) {
	e := setup(t, postingsync.Options{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	emp := e.fx.CreateEmployee(ctx, "Asha Rao")
	gone := e.fx.CreateSchool(ctx, "Closed School", 1)
	e.fx.CreatePosting(ctx, emp.ID, gone.ID, models.PostingContinue, true, 50000, testutil.Day(2024, time.January, 1))
	if _, err := e.db.Collection("schools").DeleteOne(ctx, bson.M{"_id": gone.ID}); err != nil {
		t.Fatalf("delete school: %v", err)
	}

	rep, err := e.sync.Audit(ctx, false)
	if err != nil {
		t.Fatalf("Audit failed: %v", err)
	}
	if len(rep.OrphanSchools) != 1 || rep.OrphanSchools[0] != gone.ID {
		t.Errorf("OrphanSchools = %v, want [%s]", rep.OrphanSchools, gone.ID.Hex())
	}
	if rep.Consistent() {
		t.Error("report with orphan schools should not be consistent")
	}
}
