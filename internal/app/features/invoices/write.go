// internal/app/features/invoices/write.go
package invoices

import (
	"context"
	"net/http"

	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/dalemusser/staffhub/internal/app/system/inputval"
	"github.com/dalemusser/staffhub/internal/app/system/reqparam"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleGenerate handles POST /invoices/generate.
//
// Body: {"school_id": "...", "year": 2024, "month": 3}. Returns the draft.
// A period whose invoice is issued or paid answers 409 invoice_locked.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var in generateInput
	if e := apierr.DecodeJSON(r, &in); e != nil {
		apierr.Write(w, e)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		apierr.Write(w, apierr.Validation(res))
		return
	}
	schoolID, _ := primitive.ObjectIDFromHex(in.SchoolID)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "invoice generate")
	defer cancel()

	inv, err := h.Billing.Generate(ctx, schoolID, in.Year, in.Month)
	if err != nil {
		h.ErrLog.Respond(w, r, "generate invoice failed", err)
		return
	}
	apierr.JSON(w, http.StatusOK, inv)
}

// HandleStatus handles POST /invoices/{id}/status.
//
// Allowed: draft -> issued | void, issued -> paid | void.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	id, e := reqparam.ObjectID(r, "id")
	if e != nil {
		apierr.Write(w, e)
		return
	}
	var in statusInput
	if e := apierr.DecodeJSON(r, &in); e != nil {
		apierr.Write(w, e)
		return
	}
	in.clean()
	if res := inputval.Validate(in); res.HasErrors() {
		apierr.Write(w, apierr.Validation(res))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	inv, err := h.Billing.SetStatus(ctx, id, in.Status)
	if err != nil {
		h.ErrLog.Respond(w, r, "invoice status change failed", err)
		return
	}
	h.Log.Info("invoice status changed",
		zap.String("invoice_id", inv.ID.Hex()),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("status", inv.Status))
	apierr.JSON(w, http.StatusOK, inv)
}
