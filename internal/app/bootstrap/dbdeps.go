// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
//
// Services is allocated by ConnectDB and filled in by Startup, so the
// later hooks (which receive DBDeps by value) all see the same instances.
type DBDeps struct {
	StaffHubMongoClient   *mongo.Client
	StaffHubMongoDatabase *mongo.Database
	Services              *Services
}
