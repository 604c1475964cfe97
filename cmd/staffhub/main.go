// Command staffhub serves the StaffHub back-office API: schools, employees,
// postings, leave and monthly invoicing.
package main

import (
	"context"
	"log"

	"github.com/dalemusser/staffhub/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
