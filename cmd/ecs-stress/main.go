package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/plus3/excess/ecs"
)

//go:embed schema.yaml
var defaultSchema []byte

func main() {
	schemaPath := flag.String("schema", "", "YAML schema file. The embedded breakout schema is used when empty.")
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	queryCount := flag.Int("queries", 20, "The number of random queries to define and watch.")
	churnRate := flag.Float64("churn", 0.01, "Fraction of live entities replaced on every tick.")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Random seed.")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error).")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	logger, err := newLogger(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger, config{
		schemaPath:     *schemaPath,
		duration:       *duration,
		entities:       *entityCount,
		queries:        *queryCount,
		churn:          *churnRate,
		seed:           *seed,
		gcPauseMetrics: *gcPauseMetrics,
	}); err != nil {
		logger.Fatal("stress test failed", zap.Error(err))
	}
}

type config struct {
	schemaPath     string
	duration       time.Duration
	entities       int
	queries        int
	churn          float64
	seed           uint64
	gcPauseMetrics bool
}

func loadSchema(path string) (ecs.Schema, string, error) {
	if path == "" {
		schema, err := ecs.ParseSchema(defaultSchema)
		return schema, "breakout (embedded)", err
	}
	f, err := os.Open(path)
	if err != nil {
		return ecs.Schema{}, path, err
	}
	defer f.Close()
	schema, err := ecs.LoadSchema(f)
	return schema, path, err
}

func run(logger *zap.Logger, cfg config) error {
	logger.Info("starting ECS stress test", zap.Uint64("seed", cfg.seed))

	// 1. Setup Manager, World, and Scheduler
	schema, schemaName, err := loadSchema(cfg.schemaPath)
	if err != nil {
		return err
	}
	manager := ecs.NewManager(ecs.WithLogger(logger))
	if err := manager.RegisterSchema(schema); err != nil {
		return err
	}
	components := manager.Components()
	if len(components) == 0 {
		return fmt.Errorf("schema %s defines no components", schemaName)
	}

	world := ecs.NewWorld(manager, ecs.WithLogger(logger))
	scheduler := ecs.NewScheduler(world, ecs.WithLogger(logger))
	rng := rand.New(rand.NewPCG(cfg.seed, cfg.seed^0x9e3779b97f4a7c15))

	report := &Report{
		Schema:         schemaName,
		Seed:           cfg.seed,
		Duration:       cfg.duration,
		Entities:       cfg.entities,
		Components:     len(components),
		ChurnRate:      cfg.churn,
		GCPauseMetrics: cfg.gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	queries, err := randomQueries(rng, world, components, cfg.queries)
	if err != nil {
		return err
	}
	for _, q := range queries {
		q.AddEnterListener(func(ecs.Entity) { report.Entered++ })
		q.AddExitListener(func(ecs.Entity) { report.Exited++ })
	}
	scheduler.Watch(queries...)
	report.Queries = len(world.Queries())

	churn := &churnSystem{rng: rng, components: components, rate: cfg.churn}
	mutate := &mutateSystem{queries: queries}
	if err := scheduler.Register(churn); err != nil {
		return err
	}
	if err := scheduler.Register(mutate); err != nil {
		return err
	}
	movement, ok := newMovementSystem(manager)
	if ok {
		if err := scheduler.Register(movement); err != nil {
			return err
		}
	} else {
		logger.Info("schema has no Position and Velocity, movement disabled")
	}

	// 2. Populate the world with initial entities
	logger.Info("populating world", zap.Int("entities", cfg.entities))
	for i := 0; i < cfg.entities; i++ {
		if err := spawnRandom(rng, components, world.CreateEntity()); err != nil {
			return err
		}
	}
	logger.Info("population complete")

	// 3. Run the simulation loop
	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info("running simulation", zap.Duration("duration", cfg.duration))
	ctx, cancel := context.WithTimeout(context.Background(), cfg.duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			if err := scheduler.Once(deltaTime.Seconds()); err != nil {
				return err
			}
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	report.FinalEntities = world.Len()
	report.Created = churn.created
	report.Removed = churn.removed
	report.Writes = mutate.writes
	if movement != nil {
		report.Moved = movement.moved
	}
	report.Systems = scheduler.GetStats().Systems

	logger.Info("simulation finished", zap.Int64("updates", totalUpdates))

	// 4. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	fmt.Println("--- End of Report ---")

	return nil
}
