package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"skipper-service/advisory"
	"skipper-service/analysis"
	"skipper-service/api"
	"skipper-service/cache"
	"skipper-service/catalog"
	"skipper-service/datasource"
	"skipper-service/metrics"
	"skipper-service/providers/gemini"
	"skipper-service/providers/openweathermap"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	// Parse command line arguments
	port := flag.Int("port", 8080, "Port to run the server on")
	configFile := flag.String("config", "config.json", "Path to configuration file")
	dbPath := flag.String("db", "", "Path to the route catalog database (overrides config)")
	enableRateLimiting := flag.Bool("rate-limit", false, "Limit inbound analysis requests")
	devLog := flag.Bool("dev-log", false, "Human-readable development logging")
	flag.Parse()

	logger, err := newLogger(*devLog)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := run(logger, *port, *configFile, *dbPath, *enableRateLimiting); err != nil {
		logger.Fatalw("Server exited", "error", err)
	}
	logger.Info("Shutdown complete")
}

func run(logger *zap.SugaredLogger, port int, configFile, dbPath string, rateLimit bool) error {
	config, err := datasource.LoadConfigOrDefault(configFile)
	if err != nil {
		return err
	}
	if dbPath != "" {
		config.DatabasePath = dbPath
	}
	if rateLimit {
		config.RateLimit.Enabled = true
	}

	// Keys are checked per request; a missing one only disables analyses
	if config.WeatherAPIKey() == "" {
		logger.Warn("OpenWeatherMap API key not configured; analyses will fail")
	}
	if config.TextAPIKey() == "" {
		logger.Warn("Gemini API key not configured; analyses will fail")
	}

	store, err := catalog.Open(config.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()
	routes := cache.NewCachedRouteCatalog(store, time.Duration(config.RouteCacheTTL), logger.Named("routes"))

	timeout := time.Duration(config.RequestTimeout)
	m := metrics.New()

	forecasts := openweathermap.NewForecastClient().
		WithBaseURL(config.OpenWeatherMap.BaseURL).
		WithTimeout(timeout)
	generator := gemini.NewClient(config.Gemini.Model).
		WithBaseURL(config.Gemini.BaseURL).
		WithTimeout(timeout)
	composer := advisory.NewComposer(generator, logger.Named("advisory"), m)

	orchestrator := analysis.NewOrchestrator(routes, forecasts, composer, config, logger.Named("analysis"),
		analysis.WithMetrics(m))

	opts := []api.Option{api.WithMetrics(m)}
	if config.RateLimit.Enabled {
		opts = append(opts, api.WithRateLimit(config.RateLimit.RPS, config.RateLimit.Burst))
		logger.Infow("Applied inbound rate limiting", "rps", config.RateLimit.RPS, "burst", config.RateLimit.Burst)
	}
	server := api.NewServer(orchestrator, routes, port, logger.Named("api"), opts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newLogger(dev bool) (*zap.SugaredLogger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if dev {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
