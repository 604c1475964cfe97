// internal/app/features/postings/list.go
package postings

import (
	"context"
	"net/http"

	postingstore "github.com/dalemusser/staffhub/internal/app/store/postings"
	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/dalemusser/staffhub/internal/app/system/normalize"
	"github.com/dalemusser/staffhub/internal/app/system/paging"
	"github.com/dalemusser/staffhub/internal/app/system/reqparam"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
)

// ServeList handles GET /employee-postings.
//
// Query: employee_id, school_id, status, active (true|false), limit,
// offset. Newest start date first.
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
	schoolID, e := reqparam.QueryObjectID(r, "school_id")
	if e != nil {
		apierr.Write(w, e)
		return
	}
	if schoolID != nil {
		filter["school_id"] = *schoolID
	}
	if st := normalize.Status(query.Get(r, "status")); st != "" && st != "all" {
		if !models.IsValidPostingStatus(st) {
			apierr.Write(w, apierr.BadRequest("unknown posting status "+st))
			return
		}
		filter["status"] = st
	}
	if query.Get(r, "active") != "" {
		active, e := reqparam.QueryBool(r, "active")
		if e != nil {
			apierr.Write(w, e)
			return
		}
		filter["is_active"] = active
	}
	pg := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := postingstore.New(h.DB)
	total, err := store.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count postings failed", err)
		return
	}
	list, err := store.Find(ctx, filter, pg.FindOptions(bson.D{{Key: "start_date", Value: -1}}))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find postings failed", err)
		return
	}
	apierr.JSON(w, http.StatusOK, paging.NewPage(list, total, pg))
}

// ServeView handles GET /employee-postings/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, e := reqparam.ObjectID(r, "id")
	if e != nil {
		apierr.Write(w, e)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := postingstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, "load posting failed", err)
		return
	}
	apierr.JSON(w, http.StatusOK, p)
}
