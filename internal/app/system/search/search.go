// internal/app/system/search/search.go
package search

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
)

// PrefixOr builds an $or of case-folded prefix ranges over the given
// *_ci fields, e.g.
//
//	{"$or": [{"name_ci": {"$gte": "ab", "$lt": "ab\uffff"}}, ...]}
//
// Range queries on a folded field use its index; a regex would not.
// It returns nil when q folds to nothing.
func PrefixOr(q string, fields ...string) []bson.M {
	fq := text.Fold(q)
	if fq == "" {
		return nil
	}
	hi := fq + "\uffff"
	out := make([]bson.M, 0, len(fields))
	for _, f := range fields {
		out = append(out, bson.M{f: bson.M{"$gte": fq, "$lt": hi}})
	}
	return out
}

// EmailPivot reports whether a people search should match the email field
// rather than names: the query looks like an address.
func EmailPivot(q string) bool {
	return strings.Contains(q, "@")
}

// EmailPrefix is the lowercased prefix range for an email pivot.
func EmailPrefix(q string) bson.M {
	e := strings.ToLower(strings.TrimSpace(q))
	return bson.M{"email": bson.M{"$gte": e, "$lt": e + "\uffff"}}
}

// Apply adds the search clause to filter. An existing $or in filter is
// kept by moving both into $and.
func Apply(filter bson.M, or []bson.M) {
	if len(or) == 0 {
		return
	}
	if prev, ok := filter["$or"]; ok {
		delete(filter, "$or")
		filter["$and"] = []bson.M{{"$or": prev}, {"$or": or}}
		return
	}
	filter["$or"] = or
}
