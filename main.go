package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"

	"github.com/kaitlin-del/SiteSheets/adapters"
	"github.com/kaitlin-del/SiteSheets/aggregator"
	"github.com/kaitlin-del/SiteSheets/batch"
	"github.com/kaitlin-del/SiteSheets/cache"
	"github.com/kaitlin-del/SiteSheets/config"
	"github.com/kaitlin-del/SiteSheets/models"
	"github.com/kaitlin-del/SiteSheets/projection"
	"github.com/kaitlin-del/SiteSheets/server"
	"github.com/kaitlin-del/SiteSheets/storage"
)

func main() {
	serve := flag.Bool("serve", false, "start the HTTP API instead of running once")
	input := flag.String("input", "", "batch input CSV (latitude,longitude[,fast,rapid,ultra])")
	output := flag.String("output", "", "result CSV path (defaults to CSV_OUTPUT_PATH)")
	lat := flag.Float64("lat", 0, "site latitude (single-site mode)")
	lon := flag.Float64("lon", 0, "site longitude (single-site mode)")
	fast := flag.Int("fast", 0, "number of fast chargers")
	rapid := flag.Int("rapid", 0, "number of rapid chargers")
	ultra := flag.Int("ultra", 0, "number of ultra-rapid chargers")
	flag.Parse()

	log.SetHandler(text.New(os.Stderr))
	logger := log.Log

	cfg := config.Load()
	logger.Infof("=== EV site sheet generator starting ===")
	logger.Infof("Config — competitor radius: %dm | amenities radius: %dm | concurrency: %d | power factor: %.2f",
		cfg.CompetitorRadiusM, cfg.AmenitiesRadiusM, cfg.MaxConcurrency, cfg.PowerFactor)

	store := buildCache(cfg, logger)
	client := adapters.NewClient(cfg, store, logger)
	places := adapters.NewPlacesAdapter(client, cfg.PlacesBaseURL, cfg.PlacesAPIKey)

	agg := aggregator.New(cfg, logger, aggregator.Deps{
		Projector: projection.NewTransformer(),
		Admin:     adapters.NewPostcodeAdapter(client, cfg.PostcodesBaseURL),
		Geocoder:  adapters.NewGeocodeAdapter(client, cfg.NominatimBaseURL),
		Roads:     adapters.NewRoadsAdapter(client, cfg.RoadsBaseURL, cfg.PlacesBaseURL, cfg.PlacesAPIKey),
		Traffic:   adapters.NewTrafficAdapter(client, cfg.TrafficBaseURL, cfg.TomTomAPIKey),
		Places:    places,
		Stations:  adapters.NewStationsAdapter(client, places, cfg.PlacesBaseURL, cfg.PlacesAPIKey, cfg.DetailRPS, logger),
		Elevation: adapters.NewElevationAdapter(client, cfg.ElevationBaseURL),
	})
	runner := batch.NewRunner(agg, cfg.MaxConcurrency, logger)

	if *serve {
		srv := server.New(cfg, logger, agg, runner)
		if err := srv.Run(); err != nil {
			logger.Errorf("server stopped: %v", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	outputPath := *output
	if outputPath == "" {
		outputPath = cfg.CSVOutputPath
	}

	if *input != "" {
		runBatch(ctx, cfg, logger, runner, *input, outputPath)
		return
	}

	runSingle(ctx, logger, agg, outputPath, models.SiteQuery{
		Latitude:   *lat,
		Longitude:  *lon,
		FastCount:  *fast,
		RapidCount: *rapid,
		UltraCount: *ultra,
	})
}

// buildCache picks the memoization backend: Redis when configured and
// reachable, the in-process map otherwise.
func buildCache(cfg *config.Config, logger log.Interface) cache.Cache {
	if cfg.RedisAddr == "" {
		return cache.NewMemory()
	}

	r := cache.NewRedis(cfg.RedisAddr, 24*time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Ping(ctx); err != nil {
		logger.Warnf("[main] Redis at %s unreachable (%v) — using in-memory cache", cfg.RedisAddr, err)
		return cache.NewMemory()
	}
	logger.Infof("[main] using Redis cache at %s", cfg.RedisAddr)
	return r
}

func runSingle(ctx context.Context, logger log.Interface, agg *aggregator.Aggregator, outputPath string, query models.SiteQuery) {
	record, err := agg.Aggregate(ctx, query)
	if err != nil {
		logger.Errorf("site analysis rejected: %v", err)
		os.Exit(1)
	}

	item := models.BatchItem{Latitude: record.Latitude, Longitude: record.Longitude, Record: record}
	row := storage.RecordRow(item)
	for i, column := range storage.Header {
		fmt.Printf("%-24s %s\n", column, row[i])
	}
	for _, w := range record.Warnings {
		logger.Warnf("partial data: %s", w)
	}

	writeResults(logger, outputPath, []models.BatchItem{item})
}

func runBatch(ctx context.Context, cfg *config.Config, logger log.Interface, runner *batch.Runner, inputPath, outputPath string) {
	f, err := os.Open(inputPath)
	if err != nil {
		logger.Errorf("could not open batch input: %v", err)
		os.Exit(1)
	}
	defer f.Close()

	defaults := models.SiteQuery{
		FastKW:            cfg.FastKW,
		RapidKW:           cfg.RapidKW,
		UltraKW:           cfg.UltraKW,
		CompetitorRadiusM: cfg.CompetitorRadiusM,
		AmenitiesRadiusM:  cfg.AmenitiesRadiusM,
	}
	queries, err := storage.ReadQueries(f, defaults)
	if err != nil {
		logger.Errorf("batch input rejected: %v", err)
		os.Exit(1)
	}
	logger.Infof("[main] loaded %d sites from %s", len(queries), inputPath)

	items := runner.Run(ctx, queries, func(done, total int) {
		logger.Infof("[main] progress: %d/%d (%.0f%%)", done, total, float64(done)/float64(total)*100)
	})

	failed := 0
	for _, item := range items {
		if item.Failed() {
			failed++
		}
	}
	logger.Infof("[main] batch complete: %d ok rows, %d failed", len(items)-failed, failed)

	writeResults(logger, outputPath, items)
}

func writeResults(logger log.Interface, path string, items []models.BatchItem) {
	w, err := storage.OpenCSVFile(path)
	if err != nil {
		logger.Errorf("could not create result CSV: %v", err)
		os.Exit(1)
	}
	defer w.Close()

	if err := w.AppendAll(items); err != nil {
		logger.Errorf("CSV write failed: %v", err)
		os.Exit(1)
	}
	logger.Infof("[main] results saved to %s", path)
}
