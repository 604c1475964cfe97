// internal/app/features/invoices/list.go
package invoices

import (
	"context"
	"net/http"

	invoicestore "github.com/dalemusser/staffhub/internal/app/store/invoices"
	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/dalemusser/staffhub/internal/app/system/normalize"
	"github.com/dalemusser/staffhub/internal/app/system/paging"
	"github.com/dalemusser/staffhub/internal/app/system/reqparam"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"github.com/dalemusser/staffhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
)

// ServeList handles GET /invoices.
//
// Query: school_id, year, month, status, limit, offset. Latest period first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}

	schoolID, e := reqparam.QueryObjectID(r, "school_id")
	if e != nil {
		apierr.Write(w, e)
		return
	}
	if schoolID != nil {
		filter["school_id"] = *schoolID
	}
	year, ok, e := reqparam.QueryInt(r, "year")
	if e != nil {
		apierr.Write(w, e)
		return
	}
	if ok {
		filter["year"] = year
	}
	month, ok, e := reqparam.QueryInt(r, "month")
	if e != nil {
		apierr.Write(w, e)
		return
	}
	if ok {
		if month < 1 || month > 12 {
			apierr.Write(w, apierr.BadRequest("month must be between 1 and 12"))
			return
		}
		filter["month"] = month
	}
	if st := normalize.Status(query.Get(r, "status")); st != "" && st != "all" {
		if !validStatus(st) {
			apierr.Write(w, apierr.BadRequest("unknown invoice status "+st))
			return
		}
		filter["status"] = st
	}
	pg := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := invoicestore.New(h.DB)
	total, err := store.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count invoices failed", err)
		return
	}
	list, err := store.Find(ctx, filter, pg.FindOptions(bson.D{
		{Key: "year", Value: -1},
		{Key: "month", Value: -1},
		{Key: "invoice_number", Value: 1},
	}))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find invoices failed", err)
		return
	}
	apierr.JSON(w, http.StatusOK, paging.NewPage(list, total, pg))
}

// ServeView handles GET /invoices/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, e := reqparam.ObjectID(r, "id")
	if e != nil {
		apierr.Write(w, e)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	inv, err := invoicestore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, "load invoice failed", err)
		return
	}
	apierr.JSON(w, http.StatusOK, inv)
}

func validStatus(s string) bool {
	for _, v := range models.InvoiceStatuses {
		if v == s {
			return true
		}
	}
	return false
}
