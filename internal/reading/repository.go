package reading

import (
	"context"
)

// Repository provides read access to the hourly readings collection.
// The serving path never writes; ingestion happens out of band through
// the bulk importer.
type Repository interface {
	// FindInWindow returns readings for a station whose pollutant value
	// is present and whose timestamp falls inside the window, ordered
	// ascending on the raw stored timestamp.
	FindInWindow(ctx context.Context, station, pollutant string, w Window) ([]Reading, error)

	// ListStations returns the distinct station names present in the
	// collection, sorted ascending.
	ListStations(ctx context.Context) ([]string, error)
}
