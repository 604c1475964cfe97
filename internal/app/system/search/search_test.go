package search

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestPrefixOr(t *testing.T) {
	tests := []struct {
		name   string
		q      string
		fields []string
		want   int
	}{
		{"two fields", "Green", []string{"name_ci", "city_ci"}, 2},
		{"blank query", "   ", []string{"name_ci"}, 0},
		{"one field", "x", []string{"full_name_ci"}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := PrefixOr(tc.q, tc.fields...)
			if len(got) != tc.want {
				t.Fatalf("len = %d, want %d", len(got), tc.want)
			}
			for i, f := range tc.fields[:tc.want] {
				r, ok := got[i][f].(bson.M)
				if !ok {
					t.Fatalf("clause %d missing field %s", i, f)
				}
				lo := r["$gte"].(string)
				if r["$lt"] != lo+"\uffff" {
					t.Errorf("upper bound = %v", r["$lt"])
				}
			}
		})
	}
}

func TestEmailPivot(t *testing.T) {
	tests := []struct {
		q    string
		want bool
	}{
		{"jane@school.org", true},
		{"@school", true},
		{"jane doe", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := EmailPivot(tc.q); got != tc.want {
			t.Errorf("EmailPivot(%q) = %v, want %v", tc.q, got, tc.want)
		}
	}
}

func TestEmailPrefix(t *testing.T) {
	got := EmailPrefix("  Jane@X ")["email"].(bson.M)
	if got["$gte"] != "jane@x" {
		t.Errorf("$gte = %v", got["$gte"])
	}
}

func TestApply(t *testing.T) {
	f := bson.M{"status": "active"}
	Apply(f, nil)
	if _, ok := f["$or"]; ok {
		t.Fatal("empty clause added $or")
	}

	Apply(f, []bson.M{{"a": 1}})
	if _, ok := f["$or"]; !ok {
		t.Fatal("$or not set")
	}

	Apply(f, []bson.M{{"b": 1}})
	if _, ok := f["$or"]; ok {
		t.Error("$or kept beside $and")
	}
	if and, ok := f["$and"].([]bson.M); !ok || len(and) != 2 {
		t.Errorf("$and = %v", f["$and"])
	}
}
