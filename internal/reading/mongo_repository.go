package reading

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository reads from the hourly_data collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository creates a repository over an already-connected
// collection handle. The handle is long-lived and shared across
// concurrent requests; the driver provides per-query isolation.
func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

// FindInWindow implements Repository.
//
// The sort is on the raw timestamp field, so documents arrive grouped
// by representation (BSON orders strings before datetimes). Callers
// that need true chronological order re-sort on the reconciled instant.
func (r *MongoRepository) FindInWindow(ctx context.Context, station, pollutant string, w Window) ([]Reading, error) {
	cursor, err := r.coll.Find(ctx, w.Filter(station, pollutant),
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find readings: %w", err)
	}

	var readings []Reading
	if err := cursor.All(ctx, &readings); err != nil {
		return nil, fmt.Errorf("decode readings: %w", err)
	}
	return readings, nil
}

// ListStations implements Repository.
func (r *MongoRepository) ListStations(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "station", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct stations: %w", err)
	}

	stations := make([]string, 0, len(values))
	for _, v := range values {
		if name, ok := v.(string); ok {
			stations = append(stations, name)
		}
	}
	sort.Strings(stations)
	return stations, nil
}
