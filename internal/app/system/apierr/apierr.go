// Package apierr renders API errors as JSON and maps domain errors to
// HTTP status codes.
//
// Every error response has the shape
//
//	{"error": {"code": "not_found", "message": "posting not found", "fields": {...}}}
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	employeestore "github.com/dalemusser/staffhub/internal/app/store/employees"
	invoicestore "github.com/dalemusser/staffhub/internal/app/store/invoices"
	postingstore "github.com/dalemusser/staffhub/internal/app/store/postings"
	schoolstore "github.com/dalemusser/staffhub/internal/app/store/schools"
	"github.com/dalemusser/staffhub/internal/app/system/billing"
	"github.com/dalemusser/staffhub/internal/app/system/inputval"
	"github.com/dalemusser/staffhub/internal/app/system/leavepolicy"
	"github.com/dalemusser/staffhub/internal/app/system/postingsync"
	"go.mongodb.org/mongo-driver/mongo"
)

// Error codes.
const (
	CodeBadRequest          = "bad_request"
	CodeValidationFailed    = "validation_failed"
	CodeNotFound            = "not_found"
	CodeConflict            = "conflict"
	CodeInvalidBillingRate  = "invalid_billing_rate"
	CodeActivePostingExists = "active_posting_exists"
	CodeInvoiceLocked       = "invoice_locked"
	CodeLeaveOverlap        = "leave_overlap"
	CodeMethodNotAllowed    = "method_not_allowed"
	CodeRateLimited         = "rate_limited"
	CodeInternal            = "internal"
)

// Error is an API error. It implements error so handlers can return it
// through the same paths as domain errors.
type Error struct {
	Status  int               `json:"-"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

// New builds an Error.
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, CodeBadRequest, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, CodeNotFound, message)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, CodeConflict, message)
}

// Validation turns a failed inputval.Result into a 422.
func Validation(res *inputval.Result) *Error {
	return &Error{
		Status:  http.StatusUnprocessableEntity,
		Code:    CodeValidationFailed,
		Message: res.First(),
		Fields:  res.Fields(),
	}
}

// Internal is what clients see for unexpected failures. The cause is logged,
// never returned.
var Internal = New(http.StatusInternalServerError, CodeInternal, "internal server error")

type envelope struct {
	Error *Error `json:"error"`
}

// JSON writes v as a JSON body with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Write renders e.
func Write(w http.ResponseWriter, e *Error) {
	JSON(w, e.Status, envelope{Error: e})
}

// maxBody bounds request bodies read by DecodeJSON.
const maxBody = 1 << 20

// DecodeJSON reads a single JSON object from r into v. Unknown fields are
// rejected. Failures come back as a bad_request *Error.
func DecodeJSON(r *http.Request, v any) *Error {
	if r.Body == nil {
		return BadRequest("request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var syn *json.SyntaxError
		var typ *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return BadRequest("request body is required")
		case errors.As(err, &syn):
			return BadRequest(fmt.Sprintf("malformed JSON at offset %d", syn.Offset))
		case errors.As(err, &typ):
			return BadRequest(fmt.Sprintf("field %q has the wrong type", typ.Field))
		default:
			return BadRequest(err.Error())
		}
	}
	if dec.More() {
		return BadRequest("request body must contain a single JSON object")
	}
	return nil
}

type mapping struct {
	target error
	status int
	code   string
}

var mappings = []mapping{
	{postingsync.ErrPostingNotFound, http.StatusNotFound, CodeNotFound},
	{postingsync.ErrEmployeeNotFound, http.StatusNotFound, CodeNotFound},
	{postingsync.ErrSchoolNotFound, http.StatusNotFound, CodeNotFound},
	{leavepolicy.ErrLeaveNotFound, http.StatusNotFound, CodeNotFound},
	{leavepolicy.ErrEmployeeNotFound, http.StatusNotFound, CodeNotFound},
	{billing.ErrSchoolNotFound, http.StatusNotFound, CodeNotFound},

	{postingsync.ErrInvalidBillingRate, http.StatusUnprocessableEntity, CodeInvalidBillingRate},
	{postingsync.ErrInvalidStatus, http.StatusUnprocessableEntity, CodeValidationFailed},
	{postingsync.ErrEndBeforeStart, http.StatusUnprocessableEntity, CodeValidationFailed},
	{leavepolicy.ErrInvalidRange, http.StatusUnprocessableEntity, CodeValidationFailed},
	{leavepolicy.ErrInvalidType, http.StatusUnprocessableEntity, CodeValidationFailed},
	{billing.ErrInvalidPeriod, http.StatusUnprocessableEntity, CodeValidationFailed},

	{postingstore.ErrActivePostingExists, http.StatusConflict, CodeActivePostingExists},
	{invoicestore.ErrInvoiceLocked, http.StatusConflict, CodeInvoiceLocked},
	{leavepolicy.ErrLeaveOverlap, http.StatusConflict, CodeLeaveOverlap},
	{schoolstore.ErrDuplicateSchool, http.StatusConflict, CodeConflict},
	{employeestore.ErrDuplicateEmployee, http.StatusConflict, CodeConflict},
	{invoicestore.ErrDuplicateInvoice, http.StatusConflict, CodeConflict},
	{invoicestore.ErrInvalidTransition, http.StatusConflict, CodeConflict},
	{leavepolicy.ErrNotPending, http.StatusConflict, CodeConflict},
}

// From maps err to an API error. The second result is false when err is
// not a known client error; the returned value is then Internal.
func From(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, apiErr.Status < 500
	}
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return New(m.status, m.code, m.target.Error()), true
		}
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound("not found"), true
	}
	return Internal, false
}
