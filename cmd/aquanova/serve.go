package main

import (
	"context"
	"fmt"
	"math/rand"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmitriimaksimovdevelop/aquanova/internal/api"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/assistant"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/config"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/logging"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/model"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/poller"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/source"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/store"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/weather"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API with live polling",
		Long: `Start the HTTP API. Readings are pulled from the configured source on a
cron schedule, stored in SQLite and exposed at /api/live-data and
/api/history. Chat and image diagnosis use Gemini when GEMINI_API_KEY is
set; weather uses OpenWeather when OPENWEATHER_API_KEY is set and falls
back to simulated data otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if cfg.Logging.Verbose {
				if l, err := logging.New(true); err == nil {
					logger = l
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, err := newService(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer svc.Close()

			if err := svc.poller.Start(ctx); err != nil {
				return err
			}
			return svc.api.Run(ctx, cfg.Server.Addr)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file path")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}

// service is the wired dashboard backend.
type service struct {
	source source.Source
	store  store.Store
	poller *poller.Poller
	api    *api.Server
	mode   string
}

// Close stops polling and releases the store.
func (s *service) Close() error {
	s.poller.Stop()
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// newService wires source, store, poller, assistant and weather into the API.
func newService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*service, error) {
	src, err := openSource(cfg, logger)
	if err != nil {
		return nil, err
	}

	var st store.Store
	if cfg.Store.Path != "" {
		sq, err := store.OpenSQLite(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		st = sq
		logger.Info("Reading history enabled", zap.String("path", sq.Path))
	}

	p := poller.New(src, st, poller.Config{
		Schedule:  cfg.Source.PollSchedule,
		Retention: cfg.RetentionDuration(),
	}, logger)

	chat, diagnoser, mode := newAssistant(ctx, cfg, logger)

	var primary weather.Provider
	if cfg.Weather.APIKey != "" {
		primary = weather.NewOpenWeather(cfg.Weather.APIKey, cfg.Weather.Lat, cfg.Weather.Lon)
	} else {
		logger.Info("OPENWEATHER_API_KEY not set, using simulated weather")
	}

	deps := api.Deps{
		Live:     p,
		Chat:     chat,
		Weather:  &weather.Fallback{Primary: primary, Logger: logger},
		Noise:    model.NewLockedNoise(cfg.Source.Seed),
		Location: cfg.Weather.Location,
		Mode:     mode,
		Logger:   logger,
	}
	if st != nil {
		deps.History = st
	}
	if diagnoser != nil {
		deps.Diagnoser = diagnoser
	}

	return &service{
		source: src,
		store:  st,
		poller: p,
		api:    api.NewServer(deps),
		mode:   mode,
	}, nil
}

// openSource builds the configured live source. A dataset that cannot be
// opened falls back to the random walk so the dashboard still has data.
func openSource(cfg *config.Config, logger *zap.Logger) (source.Source, error) {
	var rng *rand.Rand
	if cfg.Source.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Source.Seed))
	}

	switch cfg.Source.Kind {
	case config.SourceRandom:
		return source.NewRandomWalk(rng), nil
	case config.SourceDataset:
		ds, err := source.OpenDataset(cfg.Source.DatasetPath)
		if err != nil {
			logger.Warn("Dataset unavailable, falling back to random walk",
				zap.String("path", cfg.Source.DatasetPath), zap.Error(err))
			return source.NewRandomWalk(rng), nil
		}
		logger.Info("Streaming dataset", zap.String("path", cfg.Source.DatasetPath), zap.Int("rows", ds.Len()))
		return ds, nil
	}
	return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
}

// newAssistant returns the Gemini-backed chat and diagnoser when a key is
// configured, else the offline rule-based chat and no diagnoser.
func newAssistant(ctx context.Context, cfg *config.Config, logger *zap.Logger) (assistant.ChatResponder, assistant.ImageDiagnoser, string) {
	if cfg.Gemini.APIKey == "" {
		logger.Info("GEMINI_API_KEY not set, chat runs offline and diagnosis is disabled")
		return assistant.Offline{}, nil, "Action-Based Expert Rules"
	}

	gem, err := assistant.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		logger.Warn("Gemini unavailable, chat runs offline", zap.Error(err))
		return assistant.Offline{}, nil, "Action-Based Expert Rules"
	}
	gem.Timeout = cfg.GeminiTimeout()
	logger.Info("Gemini assistant enabled", zap.String("model", gem.Model()))
	return &assistant.GeminiChat{Gen: gem}, assistant.NewDiagnoser(gem, logger), "Expert Rules + Gemini Assistant"
}
