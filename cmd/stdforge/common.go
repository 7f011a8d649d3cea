package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/stdforge/stdforge/internal/apikey"
	"github.com/stdforge/stdforge/internal/classifier"
	"github.com/stdforge/stdforge/internal/cluster"
	"github.com/stdforge/stdforge/internal/config"
	"github.com/stdforge/stdforge/internal/convert"
	"github.com/stdforge/stdforge/internal/legacyapi"
	"github.com/stdforge/stdforge/internal/pipeline"
	"github.com/stdforge/stdforge/internal/targetapi"
)

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

func newController(ctx context.Context, cfg config.Config) (*cluster.Controller, error) {
	c, err := classifier.New(ctx, cfg.Classifier)
	if err != nil {
		return nil, err
	}
	log.Info().Str("classifier", c.Name()).Msg("classifier ready")
	return cluster.New(c, nil, cfg.Cluster.Options()), nil
}

// collectionLabels fetches the collection name index from the legacy system.
// Without a source key configured the index is empty and standard names keep
// their group name as-is.
func collectionLabels(ctx context.Context, cfg config.Config) (map[string]string, error) {
	if cfg.Source.Key == "" {
		log.Warn().Msg("no source key configured, standard names will not be prefixed")
		return map[string]string{}, nil
	}
	key, err := apikey.DecodeSource(cfg.Source.Key)
	if err != nil {
		return nil, fmt.Errorf("decode source key: %w", err)
	}
	collections, err := legacyapi.New(key).ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list legacy collections: %w", err)
	}
	return legacyapi.NameIndex(collections), nil
}

func newImporter(cfg config.Config) (*targetapi.Client, error) {
	if cfg.Target.Key == "" {
		return nil, fmt.Errorf("target key is required for import")
	}
	key, err := apikey.DecodeTarget(cfg.Target.Key)
	if err != nil {
		return nil, fmt.Errorf("decode target key: %w", err)
	}
	return targetapi.New(key), nil
}

func newRunner(ctx context.Context, cfg config.Config, importer pipeline.Importer) (*pipeline.Runner, error) {
	controller, err := newController(ctx, cfg)
	if err != nil {
		return nil, err
	}
	labels, err := collectionLabels(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &pipeline.Runner{
		Controller: controller,
		Convert:    convert.Record,
		Labels:     labels,
		Importer:   importer,
		OutputDir:  cfg.OutputDir,
	}, nil
}
