package venuescore

import "context"

// CountsSource answers the four counting queries a score is computed from.
// The queries are independent; the engine runs them concurrently.
type CountsSource interface {
	CountEventsCompleted(ctx context.Context, venueID string) (int, error)
	CountRefunds(ctx context.Context, venueID string) (int, error)
	CountDisputes(ctx context.Context, venueID string) (int, error)
	CountSafetyIncidents(ctx context.Context, venueID string) (int, error)
}

// VenueStore lists the fleet and persists scores. UpdateScore writes the
// total and its components together; a reader never sees a score without the
// breakdown that produced it.
type VenueStore interface {
	ListVenueIDs(ctx context.Context) ([]string, error)
	UpdateScore(ctx context.Context, venueID string, components Components) error
}
