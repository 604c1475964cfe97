// internal/app/features/schools/list.go
package schools

import (
	"context"
	"net/http"

	schoolstore "github.com/dalemusser/staffhub/internal/app/store/schools"
	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/dalemusser/staffhub/internal/app/system/normalize"
	"github.com/dalemusser/staffhub/internal/app/system/paging"
	"github.com/dalemusser/staffhub/internal/app/system/search"
	"github.com/dalemusser/staffhub/internal/app/system/status"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
)

// ServeList handles GET /schools.
//
// Query: q (name, city or code prefix), status (active|inactive|all),
// limit, offset. Sorted by name.
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
	or := search.PrefixOr(q, "name_ci", "city_ci")
	if code := normalize.Code(q); code != "" {
		or = append(or, bson.M{"code": bson.M{"$gte": code, "$lt": code + "\uffff"}})
	}
	search.Apply(filter, or)

	store := schoolstore.New(h.DB)
	total, err := store.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count schools failed", err)
		return
	}
	list, err := store.Find(ctx, filter, pg.FindOptions(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find schools failed", err)
		return
	}

	items := make([]schoolView, 0, len(list))
	for _, s := range list {
		items = append(items, view(s))
	}
	apierr.JSON(w, http.StatusOK, paging.NewPage(items, total, pg))
}
