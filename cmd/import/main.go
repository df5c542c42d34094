// Package main provides the CSV import tool for station raw data.
//
// Usage:
//
//	import -dir ./raw_data                      # bulk import every station folder
//	import -file data.csv -station "R K Puram"  # import a single file
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/delhiair/delhiair/internal/database"
	"github.com/delhiair/delhiair/internal/importer"
)

func main() {
	var (
		dir     = flag.String("dir", "", "raw-data directory laid out as <dir>/<Station_Name>/*.csv")
		file    = flag.String("file", "", "single CSV file to import (requires -station)")
		station = flag.String("station", "", "station name for -file mode")
		city    = flag.String("city", "Delhi", "city recorded on every reading")
	)
	flag.Parse()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", "delhiair-import").
		Logger()

	if (*dir == "") == (*file == "") {
		log.Fatal().Msg("exactly one of -dir or -file is required")
	}
	if *file != "" && *station == "" {
		log.Fatal().Msg("-file requires -station")
	}

	ctx := context.Background()

	dbConfig := database.ConfigFromEnv()
	client, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if disconnectErr := client.Disconnect(disconnectCtx); disconnectErr != nil {
			log.Error().Err(disconnectErr).Msg("failed to disconnect from database")
		}
	}()

	im := importer.New(database.ReadingsCollection(client, dbConfig), log)

	var total int
	if *dir != "" {
		total, err = im.ImportDir(ctx, *dir, *city)
	} else {
		total, err = im.ImportFile(ctx, *file, *station, *city)
	}
	if err != nil {
		log.Fatal().Err(err).Int("imported", total).Msg("import failed")
	}

	log.Info().Int("imported", total).Msg("import complete")
}
