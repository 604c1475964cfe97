// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/staffhub/internal/app/system/apierr"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger writes JSON error responses and logs server-side failures
// with the request context attached. One is built in bootstrap and shared
// by every feature handler.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	return fields
}

// LogServerError logs msg with err and responds 500. The client only sees
// the generic internal error.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e.log.Error(msg, e.fields(r, err)...)
	apierr.Write(w, apierr.Internal)
}

// Respond maps err to its API error and writes it. Unknown errors are
// logged under msg and answered with 500.
func (e *ErrorLogger) Respond(w http.ResponseWriter, r *http.Request, msg string, err error) {
	apiErr, client := apierr.From(err)
	if !client {
		e.LogServerError(w, r, msg, err)
		return
	}
	if apiErr.Status == http.StatusConflict {
		e.log.Info(msg, append(e.fields(r, err), zap.String("code", apiErr.Code))...)
	}
	apierr.Write(w, apiErr)
}

// NotFound answers routes that do not exist.
func NotFound(w http.ResponseWriter, r *http.Request) {
	apierr.Write(w, apierr.NotFound("no route for "+r.URL.Path))
}

// MethodNotAllowed answers known routes hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apierr.Write(w, apierr.New(http.StatusMethodNotAllowed, apierr.CodeMethodNotAllowed,
		r.Method+" is not allowed on "+r.URL.Path))
}
