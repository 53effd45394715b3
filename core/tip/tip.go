// Package tip defines the study tips shown on the reports view.
package tip

import "context"

// SeedTips are inserted by Store.Initialize when the tip table is empty.
var SeedTips = []string{
	"Break your study sessions into focused 25-minute blocks.",
	"Review your notes within 24 hours to improve retention.",
	"Alternate between different courses to avoid burnout.",
}

type (
	Lister interface {
		ListTips(ctx context.Context) ([]string, error)
	}

	// Store is a seed-only side table of advisory strings.
	Store interface {
		Lister
		// Initialize creates the tip table if needed and seeds it when empty. It is idempotent.
		Initialize(ctx context.Context) error
	}
)
