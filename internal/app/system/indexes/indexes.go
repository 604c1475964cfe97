// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Names of indexes other packages rely on.
const (
	ActivePostingIndex = "uniq_postings_employee_active"
	InvoicePeriodIndex = "uniq_invoices_school_period"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureSchools(ctx, db); err != nil {
		problems = append(problems, "schools: "+err.Error())
	}
	if err := ensureEmployees(ctx, db); err != nil {
		problems = append(problems, "employees: "+err.Error())
	}
	// the at-most-one-active rule lives here
	if err := ensurePostings(ctx, db); err != nil {
		problems = append(problems, "employee_postings: "+err.Error())
	}
	if err := ensureLeaves(ctx, db); err != nil {
		problems = append(problems, "leaves: "+err.Error())
	}
	if err := ensureInvoices(ctx, db); err != nil {
		problems = append(problems, "invoices: "+err.Error())
	}
	if err := ensureAuditEvents(ctx, db); err != nil {
		problems = append(problems, "audit_events: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name    string `bson:"name"`
	Key     bson.D `bson:"key"`
	Unique  *bool  `bson:"unique,omitempty"`
	Partial bson.D `bson:"partialFilterExpression,omitempty"`
}

type desiredIndex struct {
	model   mongo.IndexModel
	name    string
	unique  *bool
	partial string
	sig     string
}

func describe(m mongo.IndexModel) desiredIndex {
	d := desiredIndex{model: m, sig: keySig(m.Keys.(bson.D))}
	if m.Options != nil {
		if m.Options.Name != nil {
			d.name = *m.Options.Name
		}
		d.unique = m.Options.Unique
		if m.Options.PartialFilterExpression != nil {
			d.partial = filterSig(m.Options.PartialFilterExpression)
		}
	}
	return d
}

func (d desiredIndex) isUnique() bool { return d.unique != nil && *d.unique }

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

// filterSig renders a partial filter as canonical extended JSON so a stored
// filter and a desired one compare equal.
func filterSig(filter interface{}) string {
	if filter == nil {
		return ""
	}
	raw, err := bson.Marshal(filter)
	if err != nil {
		return fmt.Sprintf("%v", filter)
	}
	var doc bson.D
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return fmt.Sprintf("%v", filter)
	}
	if len(doc) == 0 {
		return ""
	}
	out, err := bson.MarshalExtJSON(doc, true, false)
	if err != nil {
		return fmt.Sprintf("%v", doc)
	}
	return string(out)
}

func sameBoolPtr(a, b *bool) bool {
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func listIndexes(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{} // sig -> index
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

// createErr explains a failed create, calling out duplicates that block a
// unique index.
func createErr(coll *mongo.Collection, d desiredIndex, err error) string {
	if isDuplicateKeyErr(err) && d.isUnique() {
		helper := ""
		if d.name == ActivePostingIndex {
			helper = " - employees with several active postings exist; run the consistency audit or:\n" +
				`db.employee_postings.aggregate([{ $match: { is_active: true } }, { $group: { _id: "$employee_id", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`
		}
		return fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)%s", coll.Name(), d.name, helper)
	}
	return fmt.Sprintf("%s(%s): %v", coll.Name(), d.name, err)
}

// replace drops the index called oldName and creates d in its place.
func replace(ctx context.Context, coll *mongo.Collection, oldName string, d desiredIndex) error {
	if _, err := coll.Indexes().DropOne(ctx, oldName); err != nil {
		zap.L().Warn("drop existing index failed",
			zap.String("collection", coll.Name()),
			zap.String("name", oldName),
			zap.String("keys", d.sig),
			zap.Error(err))
		return fmt.Errorf("%s(%s): drop failed: %v", coll.Name(), d.name, err)
	}
	if _, err := coll.Indexes().CreateOne(ctx, d.model); err != nil {
		zap.L().Warn("create index failed",
			zap.String("collection", coll.Name()),
			zap.String("name", d.name),
			zap.Error(err))
		return errors.New(createErr(coll, d, err))
	}
	return nil
}

func matches(d desiredIndex, ex existingIndex) bool {
	return sameBoolPtr(d.unique, ex.Unique) && d.partial == filterSig(ex.Partial)
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		d := describe(m)

		start := time.Now()
		zap.L().Info("ensuring index",
			zap.String("collection", coll.Name()),
			zap.String("name", d.name),
			zap.String("keys", d.sig),
			zap.Bool("unique", d.isUnique()),
			zap.String("partial", d.partial))

		existing := listIndexes(ctx, coll)

		if ex, ok := existing[d.sig]; ok {
			switch {
			case matches(d, ex) && (d.name == "" || ex.Name == d.name):
				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", d.sig),
					zap.String("took", time.Since(start).String()))
			default:
				// Name or options differ (e.g. upgrading to unique or partial).
				if err := replace(ctx, coll, ex.Name, d); err != nil {
					errs = append(errs, err.Error())
					continue
				}
				zap.L().Info("index dropped and recreated",
					zap.String("collection", coll.Name()),
					zap.String("from", ex.Name),
					zap.String("name", d.name),
					zap.String("keys", d.sig),
					zap.String("took", time.Since(start).String()))
			}
			continue
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err == nil {
			zap.L().Info("index ensured",
				zap.String("collection", coll.Name()),
				zap.String("name", d.name),
				zap.String("created_name", created),
				zap.String("keys", d.sig),
				zap.Bool("unique", d.isUnique()),
				zap.String("took", time.Since(start).String()))
			continue
		}

		if isOptionsConflictErr(err) {
			// Someone created the same keys concurrently; reconcile against it.
			if ex, ok := listIndexes(ctx, coll)[d.sig]; ok {
				if matches(d, ex) {
					zap.L().Info("reusing existing index (post-conflict)",
						zap.String("collection", coll.Name()),
						zap.String("name", ex.Name),
						zap.String("keys", d.sig))
					continue
				}
				if rerr := replace(ctx, coll, ex.Name, d); rerr != nil {
					errs = append(errs, rerr.Error())
				}
				continue
			}
		}

		zap.L().Warn("index ensure failed",
			zap.String("collection", coll.Name()),
			zap.String("name", d.name),
			zap.String("keys", d.sig),
			zap.Bool("unique", d.isUnique()),
			zap.String("took", time.Since(start).String()),
			zap.Error(err))
		errs = append(errs, createErr(coll, d, err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureSchools(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("schools")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_schools_code"),
		},
		// Name prefix search + stable sort
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_schools_nameci__id"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_schools_status_nameci__id"),
		},
		{
			Keys:    bson.D{{Key: "city_ci", Value: 1}},
			Options: options.Index().SetName("idx_schools_cityci"),
		},
		// "which school lists this trainer" lookups
		{
			Keys:    bson.D{{Key: "current_trainers", Value: 1}},
			Options: options.Index().SetName("idx_schools_current_trainers"),
		},
	})
}

func ensureEmployees(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("employees")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "employee_code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_employees_code"),
		},
		// Email is optional; only present values must be unique.
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_employees_email").
				SetPartialFilterExpression(bson.D{{Key: "email", Value: bson.D{{Key: "$type", Value: "string"}}}}),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_employees_status_fullnameci_id"),
		},
		{
			Keys:    bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_employees_fullnameci_id"),
		},
	})
}

func ensurePostings(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("employee_postings")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// At most one active posting per employee.
		{
			Keys: bson.D{{Key: "employee_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName(ActivePostingIndex).
				SetPartialFilterExpression(bson.D{{Key: "is_active", Value: true}}),
		},
		// Posting history per employee, newest first
		{
			Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "start_date", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_postings_employee_start_id"),
		},
		// School listings and billing period scans
		{
			Keys:    bson.D{{Key: "school_id", Value: 1}, {Key: "is_active", Value: 1}, {Key: "start_date", Value: -1}},
			Options: options.Index().SetName("idx_postings_school_active_start"),
		},
		// Consistency audit: all active postings grouped by school
		{
			Keys:    bson.D{{Key: "is_active", Value: 1}, {Key: "school_id", Value: 1}, {Key: "employee_id", Value: 1}},
			Options: options.Index().SetName("idx_postings_active_school_employee"),
		},
	})
}

func ensureLeaves(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("leaves")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Overlap checks and billing look up approved leave by employee and range.
		{
			Keys: bson.D{
				{Key: "employee_id", Value: 1},
				{Key: "status", Value: 1},
				{Key: "from_date", Value: 1},
				{Key: "to_date", Value: 1},
			},
			Options: options.Index().SetName("idx_leaves_employee_status_from_to"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "from_date", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_leaves_status_from_id"),
		},
	})
}

func ensureInvoices(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("invoices")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "invoice_number", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_invoices_number"),
		},
		// One live invoice per school and month; void ones are kept as history.
		{
			Keys: bson.D{{Key: "school_id", Value: 1}, {Key: "year", Value: 1}, {Key: "month", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName(InvoicePeriodIndex).
				SetPartialFilterExpression(bson.D{{Key: "status", Value: bson.D{
					{Key: "$in", Value: bson.A{"draft", "issued", "paid"}},
				}}}),
		},
		{
			Keys:    bson.D{{Key: "year", Value: -1}, {Key: "month", Value: -1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_invoices_period_status"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("audit_events")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_category_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_employee_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "school_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_school_timestamp"),
		},
	})
}
