// Package reqparam reads typed values from chi URL parameters and the
// query string. Parse failures come back as bad_request API errors.
package reqparam

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/dalemusser/staffhub/internal/app/system/normalize"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the calendar date format accepted in query strings.
const DateLayout = "2006-01-02"

// ObjectID parses the URL parameter key as an ObjectID.
func ObjectID(r *http.Request, key string) (primitive.ObjectID, *apierr.Error) {
	raw := chi.URLParam(r, key)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apierr.BadRequest("invalid " + key + ": " + strconv.Quote(raw))
	}
	return id, nil
}

// QueryObjectID parses an optional id filter from the query string.
// An absent value or "all" yields nil.
func QueryObjectID(r *http.Request, key string) (*primitive.ObjectID, *apierr.Error) {
	raw := normalize.FilterID(query.Get(r, key))
	if raw == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, apierr.BadRequest("invalid " + key + ": " + strconv.Quote(raw))
	}
	return &id, nil
}

// QueryInt parses an optional integer. ok is false when the key is absent.
func QueryInt(r *http.Request, key string) (n int, ok bool, e *apierr.Error) {
	raw := query.Get(r, key)
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, apierr.BadRequest(key + " must be an integer")
	}
	return n, true, nil
}

// QueryBool parses an optional boolean; absent means false.
func QueryBool(r *http.Request, key string) (bool, *apierr.Error) {
	raw := query.Get(r, key)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apierr.BadRequest(key + " must be true or false")
	}
	return b, nil
}

// QueryDate parses an optional YYYY-MM-DD date as midnight UTC.
func QueryDate(r *http.Request, key string) (*time.Time, *apierr.Error) {
	raw := query.Get(r, key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil, apierr.BadRequest(key + " must be a date (YYYY-MM-DD)")
	}
	return &t, nil
}

// Date is a JSON date accepted as "YYYY-MM-DD" or RFC 3339. It decodes to
// midnight UTC of the given calendar day.
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("date %q must be YYYY-MM-DD", s)
	}
	t = t.UTC()
	d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}

// TimePtr returns the date as a *time.Time; nil for a nil Date.
func (d *Date) TimePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
