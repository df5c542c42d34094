// Package importer loads station CSV exports into the readings
// collection. Each raw-data folder is named after a station (with
// underscores for spaces) and holds one CSV per year.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/delhiair/delhiair/internal/reading"
)

// timestampColumn is the CSV column holding the observation time.
const timestampColumn = "Timestamp"

// defaultBatchSize bounds a single InsertMany call.
const defaultBatchSize = 1000

// fieldMap maps raw CSV headers to stored pollutant codes. Columns not
// listed here are dropped.
var fieldMap = map[string]string{
	"PM2.5 (µg/m³)":   reading.PollutantPM25,
	"PM10 (µg/m³)":    reading.PollutantPM10,
	"NO (µg/m³)":      reading.PollutantNO,
	"NO2 (µg/m³)":     reading.PollutantNO2,
	"NOx (ppb)":       reading.PollutantNOx,
	"NH3 (µg/m³)":     reading.PollutantNH3,
	"SO2 (µg/m³)":     reading.PollutantSO2,
	"CO (mg/m³)":      reading.PollutantCO,
	"Ozone (µg/m³)":   reading.PollutantOzone,
	"Benzene (µg/m³)": "Benzene",
	"Toluene (µg/m³)": "Toluene",
	"Xylene (µg/m³)":  "Xylene",
	"O Xylene":        "O Xylene",
	"EthBenzene":      "EthBenzene",
	"MPXylene":        "MPXylene",
	"AT":              "AT",
	"RH":              "RH",
	"WS":              "WS",
	"WD":              "WD",
	"RF":              "RF",
	"TOTRF":           "TOTRF",
	"SR":              "SR",
	"BP":              "BP",
	"VWS":             "VWS",
}

// Importer reads station CSV files and inserts the parsed readings.
type Importer struct {
	coll      *mongo.Collection
	logger    zerolog.Logger
	batchSize int
}

// New creates an Importer writing to the given collection.
func New(coll *mongo.Collection, logger zerolog.Logger) *Importer {
	return &Importer{coll: coll, logger: logger, batchSize: defaultBatchSize}
}

// ParseCSV reads one station CSV and returns the valid readings. Rows
// whose timestamp cannot be parsed are skipped and counted.
func ParseCSV(r io.Reader, station, city string) ([]reading.Reading, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	timestampIdx := -1
	pollutantCols := make(map[int]string)
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == timestampColumn {
			timestampIdx = i
			continue
		}
		if code, ok := fieldMap[h]; ok {
			pollutantCols[i] = code
		}
	}
	if timestampIdx == -1 {
		return nil, 0, fmt.Errorf("missing %q column", timestampColumn)
	}

	var (
		readings []reading.Reading
		skipped  int
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read row: %w", err)
		}
		if timestampIdx >= len(row) {
			skipped++
			continue
		}

		ts, err := time.ParseInLocation(reading.TimeLayout, strings.TrimSpace(row[timestampIdx]), time.UTC)
		if err != nil {
			skipped++
			continue
		}

		pollutants := make(map[string]*float64, len(pollutantCols))
		for i, code := range pollutantCols {
			if i >= len(row) {
				pollutants[code] = nil
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
			if err != nil {
				pollutants[code] = nil
				continue
			}
			pollutants[code] = &v
		}

		readings = append(readings, reading.Reading{
			Station:    station,
			City:       city,
			Timestamp:  ts,
			Pollutants: pollutants,
		})
	}

	return readings, skipped, nil
}

// ImportFile parses a single CSV file and inserts its readings.
func (im *Importer) ImportFile(ctx context.Context, path, station, city string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	readings, skipped, err := ParseCSV(f, station, city)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	if skipped > 0 {
		im.logger.Warn().
			Str("file", path).
			Int("skipped", skipped).
			Msg("rows skipped due to invalid timestamps")
	}
	if len(readings) == 0 {
		im.logger.Warn().Str("file", path).Msg("no valid records found")
		return 0, nil
	}

	for start := 0; start < len(readings); start += im.batchSize {
		end := start + im.batchSize
		if end > len(readings) {
			end = len(readings)
		}
		docs := make([]any, 0, end-start)
		for _, rd := range readings[start:end] {
			docs = append(docs, rd)
		}
		if _, err := im.coll.InsertMany(ctx, docs); err != nil {
			return start, fmt.Errorf("insert batch: %w", err)
		}
	}

	im.logger.Info().
		Str("file", path).
		Str("station", station).
		Int("records", len(readings)).
		Msg("file imported")
	return len(readings), nil
}

// ImportDir walks a raw-data directory laid out as
// <dir>/<Station_Name>/<file>.csv and imports every CSV. The station
// name is the folder name with underscores replaced by spaces.
func (im *Importer) ImportDir(ctx context.Context, dir, city string) (int, error) {
	total := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}

		station := strings.ReplaceAll(filepath.Base(filepath.Dir(path)), "_", " ")
		n, err := im.ImportFile(ctx, path, station, city)
		if err != nil {
			return err
		}
		total += n
		return nil
	})
	return total, err
}
