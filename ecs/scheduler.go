package ecs

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Ticks           int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Scheduler runs systems in order against one world. After each tick it
// applies the frame's commands and polls the enter and exit listeners of
// every watched query.
type Scheduler struct {
	world       *World
	log         *zap.Logger
	systems     []System
	systemStats []*systemStatsInternal
	watched     []*Query
	ticks       int64
}

// NewScheduler creates a new scheduler for the given world.
func NewScheduler(world *World, opts ...Option) *Scheduler {
	cfg := newConfig(opts)
	return &Scheduler{
		world:   world,
		log:     cfg.logger.With(zap.Stringer("world", world.ID())),
		systems: make([]System, 0),
	}
}

// Register adds a system to the scheduler and builds its tagged Query
// fields. Fields that are already set are left alone.
func (s *Scheduler) Register(system System) error {
	if err := s.initializeQueries(system); err != nil {
		return err
	}
	s.systems = append(s.systems, system)

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	systemName := systemType.Name()

	s.systemStats = append(s.systemStats, &systemStatsInternal{
		name:        systemName,
		minDuration: time.Duration(1<<63 - 1),
	})
	s.log.Debug("system registered", zap.String("system", systemName))
	return nil
}

var queryType = reflect.TypeOf((*Query)(nil))

func (s *Scheduler) initializeQueries(system System) error {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}

	if systemValue.Kind() != reflect.Struct {
		return nil
	}

	systemType := systemValue.Type()

	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		fieldType := systemType.Field(i)

		if !field.CanSet() || field.Type() != queryType || !field.IsNil() {
			continue
		}
		tag, ok := fieldType.Tag.Lookup("ecs")
		if !ok {
			continue
		}

		q, notify, err := s.queryFromTag(tag)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", systemType.Name(), fieldType.Name, err)
		}
		field.Set(reflect.ValueOf(q))
		if notify {
			s.Watch(q)
		}
	}
	return nil
}

// queryFromTag parses `with=A,B;without=C;notify`.
func (s *Scheduler) queryFromTag(tag string) (*Query, bool, error) {
	var with, without []*Component
	notify := false

	for _, part := range strings.Split(tag, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "notify" {
			notify = true
			continue
		}
		key, list, ok := strings.Cut(part, "=")
		if !ok {
			return nil, false, fmt.Errorf("invalid ecs tag option %q", part)
		}
		components, err := s.lookupComponents(list)
		if err != nil {
			return nil, false, err
		}
		switch strings.TrimSpace(key) {
		case "with":
			with = append(with, components...)
		case "without":
			without = append(without, components...)
		default:
			return nil, false, fmt.Errorf("invalid ecs tag option %q", key)
		}
	}

	q, err := s.world.DefineQuery(with, without)
	if err != nil {
		return nil, false, err
	}
	return q, notify, nil
}

func (s *Scheduler) lookupComponents(list string) ([]*Component, error) {
	var out []*Component
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		c, ok := s.world.manager.Component(name)
		if !ok {
			return nil, fmt.Errorf("component %q is not defined", name)
		}
		out = append(out, c)
	}
	return out, nil
}

// Watch adds queries whose listeners are notified after every tick. A query
// is watched at most once.
func (s *Scheduler) Watch(queries ...*Query) {
	for _, q := range queries {
		if q == nil || q.world != s.world || q.closed {
			continue
		}
		dup := false
		for _, w := range s.watched {
			if w == q {
				dup = true
				break
			}
		}
		if !dup {
			s.watched = append(s.watched, q)
		}
	}
}

// Once executes all registered systems once with the given delta time, then
// flushes the frame's commands and notifies watched queries: enter listeners
// first, then exit listeners, in watch order. A flush error is returned after
// the notifications have run.
func (s *Scheduler) Once(dt float64) error {
	frame := newUpdateFrame(dt, s.world)

	for i, system := range s.systems {
		start := time.Now()
		system.Execute(frame)
		duration := time.Since(start)

		stats := s.systemStats[i]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}

	err := frame.Commands.Flush(s.world)
	if err != nil {
		s.log.Warn("command flush failed", zap.Int64("tick", s.ticks), zap.Error(err))
	}

	s.watched = slices.DeleteFunc(s.watched, (*Query).Closed)
	for _, q := range s.watched {
		q.NotifyEntered()
	}
	for _, q := range s.watched {
		q.NotifyExited()
	}

	s.ticks++
	return err
}

// Run executes all systems repeatedly at the given interval until the
// context is cancelled or a tick fails. Cancellation returns nil.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			if err := s.Once(dt); err != nil {
				return err
			}
		}
	}
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Ticks:       s.ticks,
		Systems:     make([]SystemStats, len(s.systemStats)),
	}

	var totalExecs int64
	for i, internal := range s.systemStats {
		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
