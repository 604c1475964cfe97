// internal/app/features/admin/auditevents.go
package admin

import (
	"net/http"
	"time"

	"github.com/dalemusser/staffhub/internal/app/store/audit"
	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/dalemusser/staffhub/internal/app/system/paging"
	"github.com/dalemusser/staffhub/internal/app/system/reqparam"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

var categories = map[string]bool{
	audit.CategoryPosting:     true,
	audit.CategoryBilling:     true,
	audit.CategoryConsistency: true,
}

// ServeAuditEvents handles GET /admin/audit-events.
//
// Query: category, event_type, employee_id, school_id, posting_id,
// from, to (YYYY-MM-DD, to is inclusive), limit, offset. Newest first.
func (h *Handler) ServeAuditEvents(w http.ResponseWriter, r *http.Request) {
	filter := audit.QueryFilter{
		Category:  query.Get(r, "category"),
		EventType: query.Get(r, "event_type"),
	}
	if filter.Category != "" && !categories[filter.Category] {
		apierr.Write(w, apierr.BadRequest("unknown category "+filter.Category))
		return
	}

	var e *apierr.Error
	if filter.EmployeeID, e = reqparam.QueryObjectID(r, "employee_id"); e != nil {
		apierr.Write(w, e)
		return
	}
	if filter.SchoolID, e = reqparam.QueryObjectID(r, "school_id"); e != nil {
		apierr.Write(w, e)
		return
	}
	if filter.PostingID, e = reqparam.QueryObjectID(r, "posting_id"); e != nil {
		apierr.Write(w, e)
		return
	}
	if filter.StartTime, e = reqparam.QueryDate(r, "from"); e != nil {
		apierr.Write(w, e)
		return
	}
	to, e := reqparam.QueryDate(r, "to")
	if e != nil {
		apierr.Write(w, e)
		return
	}
	if to != nil {
		// End of day
		end := to.Add(24*time.Hour - time.Nanosecond)
		filter.EndTime = &end
	}

	pg := paging.Parse(r)
	filter.Limit, filter.Offset = int64(pg.Limit), int64(pg.Offset)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit event list")
	defer cancel()

	store := audit.New(h.DB)
	events, err := store.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err)
		return
	}
	total, err := store.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events failed", err)
		return
	}
	apierr.JSON(w, http.StatusOK, paging.NewPage(events, total, pg))
}
