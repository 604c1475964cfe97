// internal/app/features/leaves/list.go
package leaves

import (
	"context"
	"net/http"

	leavestore "github.com/dalemusser/staffhub/internal/app/store/leaves"
	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/dalemusser/staffhub/internal/app/system/leavepolicy"
	"github.com/dalemusser/staffhub/internal/app/system/normalize"
	"github.com/dalemusser/staffhub/internal/app/system/paging"
	"github.com/dalemusser/staffhub/internal/app/system/reqparam"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
)

// ServeList handles GET /leaves.
//
// Query: employee_id, status, type, from, to (YYYY-MM-DD; leaves touching
// the range), limit, offset. Latest from_date first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}

	empID, e := reqparam.QueryObjectID(r, "employee_id")
	if e != nil {
		apierr.Write(w, e)
		return
	}
	if empID != nil {
		filter["employee_id"] = *empID
	}
	if st := normalize.Status(query.Get(r, "status")); st != "" && st != "all" {
		if !oneOf(st, models.LeaveStatuses) {
			apierr.Write(w, apierr.BadRequest("unknown leave status "+st))
			return
		}
		filter["status"] = st
	}
	if lt := normalize.Status(query.Get(r, "type")); lt != "" && lt != "all" {
		if !leavepolicy.IsValidType(lt) {
			apierr.Write(w, apierr.BadRequest("unknown leave type "+lt))
			return
		}
		filter["leave_type"] = lt
	}

	from, e := reqparam.QueryDate(r, "from")
	if e != nil {
		apierr.Write(w, e)
		return
	}
	to, e := reqparam.QueryDate(r, "to")
	if e != nil {
		apierr.Write(w, e)
		return
	}
	if from != nil && to != nil && to.Before(*from) {
		apierr.Write(w, apierr.BadRequest("to must not be before from"))
		return
	}
	if from != nil {
		filter["to_date"] = bson.M{"$gte": *from}
	}
	if to != nil {
		filter["from_date"] = bson.M{"$lte": *to}
	}
	pg := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := leavestore.New(h.DB)
	total, err := store.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count leaves failed", err)
		return
	}
	list, err := store.Find(ctx, filter, pg.FindOptions(bson.D{{Key: "from_date", Value: -1}, {Key: "_id", Value: 1}}))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find leaves failed", err)
		return
	}

	items := make([]leaveView, 0, len(list))
	for _, l := range list {
		items = append(items, viewOf(l))
	}
	apierr.JSON(w, http.StatusOK, paging.NewPage(items, total, pg))
}

// ServeView handles GET /leaves/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, e := reqparam.ObjectID(r, "id")
	if e != nil {
		apierr.Write(w, e)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	l, err := leavestore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, "load leave failed", err)
		return
	}
	apierr.JSON(w, http.StatusOK, viewOf(l))
}

func oneOf(s string, set []string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
