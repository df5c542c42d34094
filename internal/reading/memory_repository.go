package reading

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is a Repository backed by a slice, used in tests.
// Its matching rules mirror the store-side predicate: exact station
// match, pollutant present and non-null, timestamp evaluated per
// representation branch.
type InMemoryRepository struct {
	mu       sync.RWMutex
	readings []Reading
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Add appends readings to the repository.
func (r *InMemoryRepository) Add(readings ...Reading) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readings = append(r.readings, readings...)
}

// FindInWindow implements Repository.
func (r *InMemoryRepository) FindInWindow(_ context.Context, station, pollutant string, w Window) ([]Reading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []Reading
	for _, doc := range r.readings {
		if doc.Station != station {
			continue
		}
		if doc.Value(pollutant) == nil {
			continue
		}
		if !w.Contains(doc.Timestamp) {
			continue
		}
		matched = append(matched, doc)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		ti, erri := ReconcileTimestamp(matched[i].Timestamp)
		tj, errj := ReconcileTimestamp(matched[j].Timestamp)
		if erri != nil || errj != nil {
			return false
		}
		return ti.Before(tj)
	})
	return matched, nil
}

// ListStations implements Repository.
func (r *InMemoryRepository) ListStations(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var stations []string
	for _, doc := range r.readings {
		if _, ok := seen[doc.Station]; ok {
			continue
		}
		seen[doc.Station] = struct{}{}
		stations = append(stations, doc.Station)
	}
	sort.Strings(stations)
	return stations, nil
}
