// internal/app/system/txn/txn.go
package txn

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var fallbackOnce sync.Once

// Run executes fn as one MongoDB transaction.
//
// fn must use the ctx it is given so its operations join the session, and it
// must be safe to call more than once: the driver retries transient
// transaction errors. On deployments without transactions (a standalone
// mongod, some DocumentDB versions) fn runs once without a transaction and
// a warning is logged the first time that happens.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return runPlain(ctx, log, err, fn)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return runPlain(ctx, log, err, fn)
	}
	return err
}

func runPlain(ctx context.Context, log *zap.Logger, cause error, fn func(ctx context.Context) error) error {
	fallbackOnce.Do(func() {
		if log != nil {
			log.Warn("transactions unavailable; running multi-document writes without a transaction",
				zap.Error(cause))
		}
	})
	return fn(ctx)
}

// IsNotSupported reports whether err means the server cannot run
// transactions, as opposed to the transaction itself failing.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263:
			return true
		}
	}
	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "illegal operation"):
		return true
	case strings.Contains(s, "transaction") && (strings.Contains(s, "replica set") || strings.Contains(s, "session")):
		return true
	case strings.Contains(s, "session") && strings.Contains(s, "not supported"):
		return true
	}
	return false
}
