// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PageSize is the default number of rows returned by list endpoints.
const PageSize = 50

// MaxPageSize caps the "limit" query parameter.
const MaxPageSize = 200

// Params is a limit/offset window.
type Params struct {
	Limit  int
	Offset int
}

// Parse reads "limit" and "offset" from the query string. Missing or
// invalid values fall back to PageSize and 0; limit is capped at
// MaxPageSize.
func Parse(r *http.Request) Params {
	p := Params{Limit: PageSize}
	if n, err := strconv.Atoi(query.Get(r, "limit")); err == nil && n > 0 {
		p.Limit = n
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if n, err := strconv.Atoi(query.Get(r, "offset")); err == nil && n > 0 {
		p.Offset = n
	}
	return p
}

// FindOptions applies the window and a stable sort. _id is appended as a
// tiebreaker unless sort already ends with it.
func (p Params) FindOptions(sort bson.D) *options.FindOptions {
	if len(sort) == 0 || sort[len(sort)-1].Key != "_id" {
		dir := 1
		if len(sort) > 0 {
			if v, ok := sort[len(sort)-1].Value.(int); ok {
				dir = v
			}
		}
		sort = append(sort, bson.E{Key: "_id", Value: dir})
	}
	return options.Find().
		SetSort(sort).
		SetSkip(int64(p.Offset)).
		SetLimit(int64(p.Limit))
}

// Page is the JSON envelope for list responses.
type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// NewPage wraps items; a nil slice is rendered as [].
func NewPage[T any](items []T, total int64, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Limit: p.Limit, Offset: p.Offset}
}
