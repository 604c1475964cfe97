// internal/app/features/admin/consistency.go
package admin

import (
	"net/http"

	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/dalemusser/staffhub/internal/app/system/reqparam"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleConsistency handles POST /admin/consistency[?repair=true].
//
// Runs one audit now and returns the report. Drift is a 200; only a failed
// audit is an error.
func (h *Handler) HandleConsistency(w http.ResponseWriter, r *http.Request) {
	repair, e := reqparam.QueryBool(r, "repair")
	if e != nil {
		apierr.Write(w, e)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "consistency audit")
	defer cancel()

	rep, err := h.Auditor.Audit(ctx, repair)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "consistency audit failed", err)
		return
	}
	h.Log.Info("consistency audit requested",
		zap.Bool("repair", repair),
		zap.Bool("consistent", rep.Consistent()),
		zap.Int("drifts", len(rep.Drifts)))
	apierr.JSON(w, http.StatusOK, rep)
}
