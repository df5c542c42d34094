package reading

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Service resolves hourly and daily pollutant trends. It is stateless;
// every call is a single round-trip to the repository followed by
// in-process shaping, so concurrent use needs no coordination.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService creates a trend service over a repository.
func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// observation pairs a reading's reconciled instant with its value.
type observation struct {
	at    time.Time
	value float64
}

// HourlyTrend returns the observed values for a station, calendar date
// and pollutant code as (hour-of-day, value) pairs in chronological
// order. Hours without a reading produce no entry; unlike the daily
// aggregation there is no gap filling here, which the chart frontend
// relies on. The result is never nil.
func (s *Service) HourlyTrend(ctx context.Context, station, date, pollutant string) ([]HourlyPoint, error) {
	window, err := DayWindow(date)
	if err != nil {
		return nil, err
	}

	readings, err := s.repo.FindInWindow(ctx, station, pollutant, window)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("op", "hourly_trend").
			Str("station", station).
			Str("date", date).
			Msg("trend query failed")
		return nil, fmt.Errorf("hourly trend query: %w", err)
	}

	observations := s.collect(readings, pollutant)

	points := make([]HourlyPoint, 0, len(observations))
	for _, o := range observations {
		points = append(points, HourlyPoint{Hour: o.at.Hour(), Value: o.value})
	}
	return points, nil
}

// DailyTrend returns one entry per calendar day of the requested month
// in ascending day order. Days with at least one qualifying reading
// carry the arithmetic mean of that day's values rounded to two
// decimals; days without data carry an explicit nil. The result length
// always equals the number of days in the month.
func (s *Service) DailyTrend(ctx context.Context, station, month, pollutant string) ([]DailyPoint, error) {
	window, err := MonthWindow(month)
	if err != nil {
		return nil, err
	}

	readings, err := s.repo.FindInWindow(ctx, station, pollutant, window)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("op", "daily_trend").
			Str("station", station).
			Str("month", month).
			Msg("trend query failed")
		return nil, fmt.Errorf("daily trend query: %w", err)
	}

	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, o := range s.collect(readings, pollutant) {
		day := o.at.Day()
		sums[day] += o.value
		counts[day]++
	}

	days := window.Days()
	points := make([]DailyPoint, 0, days)
	for day := 1; day <= days; day++ {
		point := DailyPoint{Date: fmt.Sprintf("%s-%02d", month, day)}
		if counts[day] > 0 {
			mean := round2(sums[day] / float64(counts[day]))
			point.Value = &mean
		}
		points = append(points, point)
	}
	return points, nil
}

// collect reconciles timestamps and extracts pollutant values,
// dropping readings with unparseable timestamps or null values. The
// result is sorted by reconciled instant: the store sorts on the raw
// field, which groups string-typed timestamps apart from date-typed
// ones instead of interleaving them chronologically.
func (s *Service) collect(readings []Reading, pollutant string) []observation {
	observations := make([]observation, 0, len(readings))
	for _, doc := range readings {
		at, err := ReconcileTimestamp(doc.Timestamp)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("station", doc.Station).
				Msg("skipping reading with unparseable timestamp")
			continue
		}
		value := doc.Value(pollutant)
		if value == nil {
			continue
		}
		observations = append(observations, observation{at: at, value: *value})
	}

	sort.SliceStable(observations, func(i, j int) bool {
		return observations[i].at.Before(observations[j].at)
	})
	return observations
}

// round2 rounds half away from zero to two decimal places, matching
// how daily means have always been presented.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
