// Package station serves the directory of monitoring stations known to
// the readings collection.
package station

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Lister returns the distinct station names present in the store.
type Lister interface {
	ListStations(ctx context.Context) ([]string, error)
}

// Service provides station directory operations.
type Service struct {
	lister Lister
	logger zerolog.Logger
}

// NewService creates a new station service.
func NewService(lister Lister, logger zerolog.Logger) *Service {
	return &Service{lister: lister, logger: logger}
}

// List returns all station names, sorted ascending. Never nil on
// success.
func (s *Service) List(ctx context.Context) ([]string, error) {
	stations, err := s.lister.ListStations(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("op", "list_stations").Msg("station query failed")
		return nil, fmt.Errorf("list stations: %w", err)
	}
	if stations == nil {
		stations = []string{}
	}
	return stations, nil
}
