// Package bootstrap assembles the service from configuration: database,
// enrichment pipeline, live sources, insights, and the HTTP server.
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonesrussell/globalpulse/internal/api"
	"github.com/jonesrussell/globalpulse/internal/config"
	"github.com/jonesrussell/globalpulse/internal/data"
	"github.com/jonesrussell/globalpulse/internal/geminiclient"
	"github.com/jonesrussell/globalpulse/internal/geo"
	"github.com/jonesrussell/globalpulse/internal/ingest"
	"github.com/jonesrussell/globalpulse/internal/insights"
	"github.com/jonesrussell/globalpulse/internal/logging"
	"github.com/jonesrussell/globalpulse/internal/sentiment"
	"github.com/jonesrussell/globalpulse/internal/sources"
	"github.com/jonesrussell/globalpulse/internal/store"
	"github.com/jonesrussell/globalpulse/internal/telemetry"
)

// App holds every wired component of the running service.
type App struct {
	Config   *config.Config
	Logger   logging.Logger
	DB       *sqlx.DB
	Records  *store.Records
	Pipeline *ingest.Pipeline
	Server   *api.Server
}

// ConfigPath returns the configuration file path, honoring CONFIG_PATH.
func ConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config.yml"
}

// NewApp loads configuration and wires the full service.
func NewApp(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	logger = logger.With(logging.String("service", cfg.Service.Name))

	db, err := store.Open(store.Config{
		Driver:          cfg.Database.Driver,
		Path:            cfg.Database.Path,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxConnections,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	records := store.NewRecords(db)
	if err = records.EnsureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	logger.Info("Database ready", logging.String("driver", cfg.Database.Driver))

	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	gemini := geminiclient.NewClient(geminiclient.Config{
		APIKey:  cfg.Gemini.APIKey,
		Model:   cfg.Gemini.Model,
		Timeout: cfg.Gemini.Timeout,
	})

	var remote sentiment.Engine
	if gemini.Configured() {
		remote = sentiment.NewRemoteEngine(gemini)
		logger.Info("Remote sentiment engine configured",
			logging.String("model", cfg.Gemini.Model),
			logging.Bool("auto", cfg.Gemini.UseForSentiment),
			logging.Int("max_calls", cfg.Gemini.MaxSentimentCalls))
	}

	router := sentiment.NewRouter(sentiment.NewLexiconEngine(), remote, sentiment.RouterConfig{
		RemoteEnabled:  cfg.Gemini.UseForSentiment,
		MaxRemoteCalls: cfg.Gemini.MaxSentimentCalls,
		Metrics:        metrics,
	}, logger)

	pipeline := ingest.NewPipeline(records, router, geo.NewInferencer(data.CountryKeywords), metrics, logger)

	srcs := liveSources(cfg, logger)
	logger.Info("Live sources configured", logging.Int("count", len(srcs)))

	handler := api.NewHandler(
		records,
		pipeline,
		insights.NewGenerator(gemini, logger),
		srcs,
		cfg.Sources.SamplePath,
		api.ServiceInfo{Name: cfg.Service.Name, Version: cfg.Service.Version},
		logger,
	)

	server := api.NewServer(
		api.NewRouter(handler, cfg.Service.Debug),
		api.ServerConfig{Port: cfg.Service.Port},
		logger,
	)

	return &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Records:  records,
		Pipeline: pipeline,
		Server:   server,
	}, nil
}

// Close releases the app's resources.
func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
}

func liveSources(cfg *config.Config, logger logging.Logger) []sources.Source {
	var srcs []sources.Source
	if cfg.Sources.YouTubeAPIKey != "" {
		srcs = append(srcs, sources.NewYouTube(sources.YouTubeConfig{
			APIKey:  cfg.Sources.YouTubeAPIKey,
			Timeout: cfg.Sources.Timeout,
		}, logger))
	}
	if cfg.Sources.NewsAPIKey != "" {
		srcs = append(srcs, sources.NewNewsAPI(sources.NewsAPIConfig{
			APIKey:  cfg.Sources.NewsAPIKey,
			Timeout: cfg.Sources.Timeout,
		}, logger))
	}
	return srcs
}
