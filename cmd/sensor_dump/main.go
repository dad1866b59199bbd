package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"darksky-sensors/cache"
	"darksky-sensors/config"
	"darksky-sensors/coordinator"
	"darksky-sensors/datasource"
	"darksky-sensors/entity"
	"darksky-sensors/host"
	"darksky-sensors/providers/darksky"

	"github.com/joho/godotenv"
)

func main() {
	configFile := flag.String("config", "", "Path to configuration file")
	repeat := flag.Int("repeat", 1, "Refresh this many times to exercise the cache")
	flag.Parse()

	// Load .env file
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Println("Warning: Error loading .env file:", err)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration:\n%v", err)
	}
	logger := cfg.NewLogger()

	client := darksky.NewClient(cfg.DarkSky.APIKey, cfg.Client.Timeout, cfg.Client.Retries, logger)
	cached := cache.NewCachedForecastSource(client, cache.NewMemoryStore(), time.Minute, logger)

	lat, lon := cfg.Location()
	coord := coordinator.New(cached, datasource.Request{
		Latitude:  lat,
		Longitude: lon,
		Language:  cfg.DarkSky.Language,
		Units:     cfg.Units(),
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for i := 0; i < *repeat; i++ {
		if err := coord.Refresh(ctx); err != nil {
			log.Fatalf("Refresh failed: %v", err)
		}
	}

	entities := entity.SetupSensors(entity.SensorConfig{
		Name:        cfg.Sensor.Name,
		Latitude:    lat,
		Longitude:   lon,
		Conditions:  cfg.Conditions(),
		DayOffsets:  cfg.Sensor.Forecast,
		HourOffsets: cfg.Sensor.HourlyForecast,
	}, coord, logger)

	forecast := coord.Snapshot()
	fmt.Printf("Forecast for %.4f,%.4f (%s, units %s)\n\n", forecast.Latitude, forecast.Longitude, forecast.Timezone, forecast.Flags.Units)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATE\tUNIT\tICON")
	for _, e := range entities {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name(), host.FormatState(e.State()), e.Unit(), e.Icon())
	}
	w.Flush()

	hits, misses := cached.CacheStats()
	fmt.Printf("\nStats for %s: %d cache hits, %d cache misses\n", cached.Name(), hits, misses)
}
