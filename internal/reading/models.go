// Package reading provides access to stored hourly pollutant readings
// and the trend queries built on top of them.
package reading

import (
	"errors"
)

// Query errors.
var (
	ErrInvalidDate  = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidMonth = errors.New("invalid month, expected YYYY-MM")

	// ErrUnparseableTimestamp marks a stored timestamp that matches
	// neither the date nor the string representation. Readings carrying
	// one are skipped, never surfaced as request failures.
	ErrUnparseableTimestamp = errors.New("unparseable timestamp")
)

// Well-known pollutant codes as persisted by the importers. The query
// path does not validate against this list; any code is accepted as a
// field lookup key.
const (
	PollutantPM25  = "PM25"
	PollutantPM10  = "PM10"
	PollutantNO2   = "NO2"
	PollutantNO    = "NO"
	PollutantNOx   = "NOx"
	PollutantNH3   = "NH3"
	PollutantSO2   = "SO2"
	PollutantCO    = "CO"
	PollutantOzone = "Ozone"
)

// Reading is one persisted observation document from the hourly_data
// collection.
//
// Timestamp is intentionally untyped: historical imports wrote the raw
// CSV value ("YYYY-MM-DD HH:MM:SS" string) while newer imports write a
// real BSON datetime, and both live side by side in the collection.
// ReconcileTimestamp normalizes either form to a UTC instant.
type Reading struct {
	Station    string              `bson:"station"`
	City       string              `bson:"city"`
	Timestamp  any                 `bson:"timestamp"`
	Pollutants map[string]*float64 `bson:"pollutants"`
}

// Value returns the stored concentration for a pollutant code, or nil
// when the key is absent or explicitly null.
func (r *Reading) Value(pollutant string) *float64 {
	if r.Pollutants == nil {
		return nil
	}
	return r.Pollutants[pollutant]
}

// HourlyPoint is one observed value within a single day.
type HourlyPoint struct {
	Hour  int
	Value float64
}

// DailyPoint is the averaged value for one calendar day. Value is nil
// for days with no qualifying readings.
type DailyPoint struct {
	Date  string
	Value *float64
}
