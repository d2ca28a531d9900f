package main

import (
	"context"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/boadinoel/fsri/internal/adapters/biosecurity"
	"github.com/boadinoel/fsri/internal/adapters/movement"
	"github.com/boadinoel/fsri/internal/adapters/policy"
	"github.com/boadinoel/fsri/internal/adapters/production"
	"github.com/boadinoel/fsri/internal/application"
	"github.com/boadinoel/fsri/internal/infrastructure/db"
	"github.com/boadinoel/fsri/internal/infrastructure/fetch"
	httpserver "github.com/boadinoel/fsri/internal/interfaces/http"
	"github.com/boadinoel/fsri/internal/rules"
	"github.com/boadinoel/fsri/internal/stream"
)

// buildPipeline assembles the scoring pipeline from configuration. The
// returned cleanup closes the database pool and the stream writer. A nil
// metrics registry disables pipeline and cache instrumentation.
func buildPipeline(ctx context.Context, cfg *application.Config, metrics *httpserver.MetricsRegistry) (*application.Pipeline, func(), error) {
	var cache *fetch.Cache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).
				Msg("Redis unreachable, upstream cache disabled")
		} else {
			cache = fetch.NewCache(rdb, cfg.RedisTTL())
		}
	}

	fetchOpts := fetch.Options{
		Timeout: cfg.FetchTimeout(),
		RPS:     cfg.Fetch.RPS,
		Burst:   cfg.Fetch.Burst,
		Cache:   cache,
	}
	if metrics != nil {
		fetchOpts.Stats = metrics
	}
	client := fetch.NewClient(fetchOpts)

	gauges := movement.DefaultGauges()
	if cfg.GaugesFile != "" {
		loaded, err := movement.LoadGauges(cfg.GaugesFile)
		if err != nil {
			return nil, nil, err
		}
		gauges = loaded
	}

	outbreaks, err := biosecurity.LoadOutbreaks(cfg.OutbreaksFile)
	if err != nil {
		return nil, nil, err
	}

	store := rules.NewStore(nil)
	if raw, err := os.ReadFile(cfg.RulesFile); err == nil {
		doc, perr := rules.ParseDocument(raw)
		if perr != nil {
			return nil, nil, perr
		}
		store = rules.NewStore(doc)
		log.Info().Int("rules", doc.Len()).Str("file", cfg.RulesFile).
			Msg("Rule document loaded")
	} else {
		log.Warn().Str("file", cfg.RulesFile).
			Msg("Rules file not found, starting with no action rules")
	}

	dbCfg := db.DefaultConfig()
	dbCfg.DSN = cfg.Database.DSN
	manager, err := db.NewManager(ctx, dbCfg)
	if err != nil {
		return nil, nil, err
	}

	publisher := stream.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)

	scorers := application.Scorers{
		Production:  production.New(client, cfg.NASSKey),
		Movement:    movement.New(client, gauges),
		Policy:      policy.New(),
		Biosecurity: biosecurity.New(client, outbreaks),
	}

	pipeline := application.NewPipeline(scorers, store, manager.Repository(), publisher)
	if metrics != nil {
		pipeline.SetObserver(metrics)
	}

	cleanup := func() {
		if publisher != nil {
			if err := publisher.Close(); err != nil {
				log.Warn().Err(err).Msg("Stream writer close failed")
			}
		}
		if err := manager.Close(); err != nil {
			log.Warn().Err(err).Msg("Database close failed")
		}
	}

	return pipeline, cleanup, nil
}
