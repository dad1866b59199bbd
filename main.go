package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"darksky-sensors/api"
	"darksky-sensors/cache"
	"darksky-sensors/config"
	"darksky-sensors/coordinator"
	"darksky-sensors/datasource"
	"darksky-sensors/entity"
	"darksky-sensors/host"
	"darksky-sensors/providers/darksky"
	"darksky-sensors/publisher"
	"darksky-sensors/recorder"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	// Parse command line arguments
	configFile := flag.String("config", "", "Path to configuration file (default: search for config.yaml)")
	port := flag.Int("port", 0, "Port to run the server on (overrides server.port)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration:\n%v", err)
	}

	logger := cfg.NewLogger()
	gin.SetMode(cfg.Server.GinMode)

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("service stopped")
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("unable to parse redis url: %w", err)
		}
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()
	}

	source := buildSource(cfg, logger, redisClient)

	lat, lon := cfg.Location()
	coord := coordinator.New(source, datasource.Request{
		Latitude:  lat,
		Longitude: lon,
		Language:  cfg.DarkSky.Language,
		Units:     cfg.Units(),
	}, logger)

	// The first refresh happens before any entity exists; a failure leaves
	// every entity unavailable until the next tick.
	if err := coord.Refresh(ctx); err != nil {
		logger.WithError(err).Warn("initial forecast refresh failed")
	}

	states := api.NewStateStore()
	registry := host.NewRegistry(logger, states)
	serverOpts := []api.Option{}

	if cfg.Recorder.Enabled {
		rec, err := recorder.Open(cfg.Recorder.Path, logger)
		if err != nil {
			return err
		}
		defer rec.Close()
		registry.AddWriter(rec)
		rec.StartPurge(ctx, cfg.Recorder.KeepDays)
		serverOpts = append(serverOpts, api.WithHistory(rec))
	}

	if cfg.Redis.Publish {
		registry.AddWriter(publisher.New(redisClient, cfg.Redis.ChannelPrefix))
	}

	sensors := entity.SetupSensors(entity.SensorConfig{
		Name:        cfg.Sensor.Name,
		Latitude:    lat,
		Longitude:   lon,
		Conditions:  cfg.Conditions(),
		DayOffsets:  cfg.Sensor.Forecast,
		HourOffsets: cfg.Sensor.HourlyForecast,
	}, coord, logger)

	mode, err := entity.ParseMode(cfg.Weather.Mode)
	if err != nil {
		return err
	}
	weather := entity.NewWeather(coord, cfg.Weather.Name, mode, lat, lon)
	serverOpts = append(serverOpts, api.WithForecaster(weather))

	ids := registry.Add(append(sensors, weather)...)
	logger.WithFields(logrus.Fields{
		"entities": len(ids),
		"units":    cfg.Units(),
		"source":   source.Name(),
	}).Info("entities added")

	stopRefresh := coord.Start(ctx)

	server := api.NewServer(states, coord, cfg.GetServerAddr(), logger, serverOpts...)
	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for shutdown signal
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serverErr:
		if err != nil {
			logger.WithError(err).Error("server stopped")
		}
	}

	stopRefresh()
	registry.RemoveAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// buildSource wraps the Dark Sky client with the configured rate limiter and cache
func buildSource(cfg *config.Config, logger *logrus.Logger, redisClient *redis.Client) datasource.ForecastSource {
	var source datasource.ForecastSource = darksky.NewClient(cfg.DarkSky.APIKey, cfg.Client.Timeout, cfg.Client.Retries, logger)

	if cfg.Client.RateLimit.Enabled {
		source = datasource.NewRateLimitedForecastSource(source, cfg.Client.RateLimit.RPS, cfg.Client.RateLimit.Burst)
		logger.WithFields(logrus.Fields{
			"rps":   cfg.Client.RateLimit.RPS,
			"burst": cfg.Client.RateLimit.Burst,
		}).Info("applied rate limiting to forecast source")
	}

	switch cfg.Cache.Backend {
	case "memory":
		source = cache.NewCachedForecastSource(source, cache.NewMemoryStore(), cfg.Cache.TTL, logger)
	case "redis":
		source = cache.NewCachedForecastSource(source, cache.NewRedisStore(redisClient), cfg.Cache.TTL, logger)
	}

	return source
}

var _ entity.Source = (*coordinator.Coordinator)(nil)
