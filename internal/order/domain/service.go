package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Service ingests orders and serves the dashboard views of them. IngestResult
// reports whether the order was stored or recognized as a replay.
type IngestResult struct {
	Order    Response
	Accepted bool
}

type Service interface {
	// Ingest stores a new order, fans it out to feed subscribers, and
	// records a notification. A reference seen before is dropped without a
	// second notification.
	Ingest(ctx context.Context, restaurantID snowflake.ID, in Incoming) (IngestResult, error)

	List(ctx context.Context, restaurantID snowflake.ID, since time.Time, limit int) ([]Response, error)
}
