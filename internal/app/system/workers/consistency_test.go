package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/staffhub/internal/app/system/postingsync"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeAuditor struct {
	calls   atomic.Int32
	repairs atomic.Int32
	err     error
	drift   bool
}

func (f *fakeAuditor) Audit(ctx context.Context, repair bool) (postingsync.Report, error) {
	f.calls.Add(1)
	if repair {
		f.repairs.Add(1)
	}
	if _, ok := ctx.Deadline(); !ok {
		return postingsync.Report{}, errors.New("audit run without a deadline")
	}
	rep := postingsync.Report{SchoolsChecked: 2, Repair: repair}
	if f.drift {
		rep.Drifts = []postingsync.Drift{{SchoolID: primitive.NewObjectID(), Missing: []primitive.ObjectID{primitive.NewObjectID()}}}
	}
	return rep, f.err
}

func TestConsistencyAudit_Run(t *testing.T) {
	tests := []struct {
		name    string
		auditor *fakeAuditor
		repair  bool
		wantErr bool
	}{
		{"clean", &fakeAuditor{}, false, false},
		{"drift with repair", &fakeAuditor{drift: true}, true, false},
		{"failure", &fakeAuditor{err: errors.New("db down")}, false, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := NewConsistencyAudit(tc.auditor, zap.NewNop(), time.Hour, tc.repair)

			if _, ok := w.Last(); ok {
				t.Fatal("Last() ok before any run")
			}

			rep, err := w.Run(context.Background())
			if (err != nil) != tc.wantErr {
				t.Fatalf("Run() err = %v, wantErr %v", err, tc.wantErr)
			}
			if rep.Repair != tc.repair {
				t.Errorf("Repair = %v, want %v", rep.Repair, tc.repair)
			}

			last, ok := w.Last()
			if !ok {
				t.Fatal("Last() not ok after run")
			}
			if (last.Err != nil) != tc.wantErr {
				t.Errorf("Last().Err = %v", last.Err)
			}
			if last.At.IsZero() {
				t.Error("Last().At not set")
			}
		})
	}
}

func TestConsistencyAudit_StartStop(t *testing.T) {
	a := &fakeAuditor{}
	w := NewConsistencyAudit(a, zap.NewNop(), 10*time.Millisecond, false)
	w.Start()

	deadline := time.Now().Add(2 * time.Second)
	for a.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	w.Stop()
	w.Stop()

	if a.calls.Load() < 2 {
		t.Fatalf("auditor called %d times, want at least 2", a.calls.Load())
	}
	after := a.calls.Load()
	time.Sleep(40 * time.Millisecond)
	if a.calls.Load() != after {
		t.Error("worker kept running after Stop")
	}
}
