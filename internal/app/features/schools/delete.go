// internal/app/features/schools/delete.go
package schools

import (
	"context"
	"net/http"

	postingstore "github.com/dalemusser/staffhub/internal/app/store/postings"
	schoolstore "github.com/dalemusser/staffhub/internal/app/store/schools"
	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/dalemusser/staffhub/internal/app/system/reqparam"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /schools/{id}. A school that still has
// trainers, or an active posting pointing at it, cannot be deleted.
//
// Route: DELETE /schools/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, e := reqparam.ObjectID(r, "id")
	if e != nil {
		apierr.Write(w, e)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := schoolstore.New(h.DB)
	school, err := store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, "load school failed", err)
		return
	}
	if len(school.CurrentTrainers) > 0 {
		apierr.Write(w, apierr.Conflict("school still has trainers posted"))
		return
	}
	active, err := postingstore.New(h.DB).Count(ctx, bson.M{"school_id": id, "is_active": true})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count active postings failed", err)
		return
	}
	if active > 0 {
		apierr.Write(w, apierr.Conflict("school has active postings"))
		return
	}

	if _, err := store.Delete(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "delete school failed", err)
		return
	}
	h.Log.Info("school deleted", zap.String("school_id", id.Hex()))
	w.WriteHeader(http.StatusNoContent)
}
