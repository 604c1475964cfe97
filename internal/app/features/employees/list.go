// internal/app/features/employees/list.go
package employees

import (
	"context"
	"net/http"

	employeestore "github.com/dalemusser/staffhub/internal/app/store/employees"
	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/dalemusser/staffhub/internal/app/system/normalize"
	"github.com/dalemusser/staffhub/internal/app/system/paging"
	"github.com/dalemusser/staffhub/internal/app/system/search"
	"github.com/dalemusser/staffhub/internal/app/system/status"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
)

// ServeList handles GET /employees.
//
// Query: q (name or code prefix; an email prefix when q contains "@"),
// status (active|inactive|all), limit, offset. Sorted by name, or by email
// when searching by email.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := query.Search(r, "q")
	st := normalize.Status(query.Get(r, "status"))
	if st == "all" {
		st = ""
	}
	if st != "" && !status.IsValid(st) {
		apierr.Write(w, apierr.BadRequest("status must be active, inactive or all"))
		return
	}
	pg := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	filter := bson.M{}
	if st != "" {
		filter["status"] = st
	}
	sortField := "full_name_ci"
	if search.EmailPivot(q) {
		for k, v := range search.EmailPrefix(q) {
			filter[k] = v
		}
		sortField = "email"
	} else {
		or := search.PrefixOr(q, "full_name_ci")
		if code := normalize.Code(q); code != "" {
			or = append(or, bson.M{"employee_code": bson.M{"$gte": code, "$lt": code + "\uffff"}})
		}
		search.Apply(filter, or)
	}

	store := employeestore.New(h.DB)
	total, err := store.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count employees failed", err)
		return
	}
	list, err := store.Find(ctx, filter, pg.FindOptions(bson.D{{Key: sortField, Value: 1}}))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find employees failed", err)
		return
	}
	apierr.JSON(w, http.StatusOK, paging.NewPage(list, total, pg))
}
