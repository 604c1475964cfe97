// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/staffhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("schools", schoolsSchema())
	ensure("employees", employeesSchema())
	// Transactions cannot create collections on older servers, so the
	// posting synchronizer relies on these existing up front.
	ensure("employee_postings", postingsSchema())
	ensure("leaves", leavesSchema())
	ensure("invoices", invoicesSchema())
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func enum(values []string) bson.A {
	out := bson.A{}
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

var (
	nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	number   = bson.A{"double", "int", "long", "decimal"}
)

func schoolsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci", "code", "trainers_required", "current_trainers", "status"},
			"properties": bson.M{
				"name":              nonBlank,
				"name_ci":           nonBlank,
				"code":              nonBlank,
				"trainers_required": bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 1},
				"current_trainers": bson.M{
					"bsonType":    "array",
					"uniqueItems": true,
					"items":       bson.M{"bsonType": "objectId"},
				},
				"status": bson.M{"enum": bson.A{"active", "inactive"}},
			},
		},
	}
}

func employeesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"employee_code", "full_name", "full_name_ci", "status"},
			"properties": bson.M{
				"employee_code": nonBlank,
				"full_name":     nonBlank,
				"full_name_ci":  nonBlank,
				"email":         bson.M{"bsonType": bson.A{"string", "null"}},
				"joining_date":  bson.M{"bsonType": bson.A{"date", "null"}},
				"status":        bson.M{"enum": bson.A{"active", "inactive"}},
			},
		},
	}
}

func postingsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"employee_id", "school_id", "status", "is_active", "start_date", "monthly_billing_salary"},
			"properties": bson.M{
				"employee_id": bson.M{"bsonType": "objectId"},
				"school_id":   bson.M{"bsonType": "objectId"},
				"status":      bson.M{"enum": enum(models.PostingStatuses)},
				"is_active":   bson.M{"bsonType": "bool"},
				"start_date":  bson.M{"bsonType": "date"},
				"end_date":    bson.M{"bsonType": bson.A{"date", "null"}},
				// zero is allowed so provisional postings can be stored
				"monthly_billing_salary": bson.M{"bsonType": number, "minimum": 0},
				"remark":                 bson.M{"bsonType": "string"},
			},
		},
	}
}

func leavesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"employee_id", "leave_type", "from_date", "to_date", "status"},
			"properties": bson.M{
				"employee_id": bson.M{"bsonType": "objectId"},
				"leave_type":  bson.M{"enum": enum(models.LeaveTypes)},
				"from_date":   bson.M{"bsonType": "date"},
				"to_date":     bson.M{"bsonType": "date"},
				"reason":      bson.M{"bsonType": "string"},
				"status":      bson.M{"enum": enum(models.LeaveStatuses)},
			},
		},
	}
}

func invoicesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"invoice_number", "school_id", "year", "month", "lines", "subtotal", "status"},
			"properties": bson.M{
				"invoice_number": nonBlank,
				"school_id":      bson.M{"bsonType": "objectId"},
				"year":           bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 2000},
				"month":          bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 1, "maximum": 12},
				"lines":          bson.M{"bsonType": "array"},
				"subtotal":       bson.M{"bsonType": number, "minimum": 0},
				"status":         bson.M{"enum": enum(models.InvoiceStatuses)},
			},
		},
	}
}
