package container

import (
	"fmt"

	"go.uber.org/zap"

	"farmstat/adapters/excel"
	"farmstat/adapters/stats/engine"
	"farmstat/domain/dataset"
	"farmstat/internal/api"
	"farmstat/internal/config"
	"farmstat/internal/logging"
	"farmstat/internal/session"
	"farmstat/internal/testkit"
	"farmstat/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *logging.Logger

	// Data is the dataset every request runs against. Seed is -1 when it was read
	// from a file.
	Data dataset.Dataset
	Seed int64

	Engine  *engine.StatsEngine
	Tracker *session.Tracker
	Metrics *api.Metrics
	Server  *api.Server
}

// New builds the dependency graph from cfg.
func New(cfg *config.Config) (*Container, error) {
	logger, err := logging.New(cfg.Log.Logging())
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	c := &Container{Config: cfg, Logger: logger}

	if err := c.initDataset(); err != nil {
		return nil, err
	}
	if err := c.initEngine(); err != nil {
		return nil, err
	}
	c.initServer()

	return c, nil
}

func (c *Container) initDataset() error {
	cfg := c.Config.Dataset
	log := c.Logger.Component("dataset")

	if cfg.File != "" {
		var reader ports.DatasetReader = excel.NewDataReader(cfg.File, log)
		data, err := reader.ReadData()
		if err != nil {
			return fmt.Errorf("failed to load dataset: %w", err)
		}
		c.Data, c.Seed = data, -1
		return nil
	}

	seed := cfg.Seed
	if seed < 0 {
		seed = testkit.NewSeed()
	}
	c.Data = testkit.NewFarmGenerator(testkit.GeneratorConfig{Seed: seed, FarmCount: cfg.Size}).Generate()
	c.Seed = seed
	log.Info("dataset generated", zap.Int64("seed", seed), zap.Int("farms", len(c.Data)))
	return nil
}

func (c *Container) initEngine() error {
	policy, err := c.Config.Analysis.LevelPolicy()
	if err != nil {
		return err
	}
	c.Engine = engine.NewStatsEngine(
		engine.WithLevelPolicy(policy),
		engine.WithLogger(c.Logger.Component("engine")),
		engine.WithBatchConcurrency(c.Config.Analysis.BatchConcurrency),
	)
	return nil
}

func (c *Container) initServer() {
	c.Tracker = session.NewTracker()
	c.Metrics = api.NewMetrics()
	c.Server = api.NewServer(api.Deps{
		Engine:  c.Engine,
		Tracker: c.Tracker,
		Data:    c.Data,
		Seed:    c.Seed,
		Metrics: c.Metrics,
		Logger:  c.Logger.Component("api"),
	})
}

// Close flushes buffered logs.
func (c *Container) Close() error {
	_ = c.Logger.Sync()
	return nil
}
