package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/excess/ecs"
)

type pathRecord struct {
	Points [4]float32
	Cursor uint8
}

type healthRecord struct {
	Now    int32 `ecs:"current"`
	Max    int32
	Cached string `ecs:"-"`
	hidden bool
}

func TestRecordRoundTrip(t *testing.T) {
	f := newFixture(t)
	paths := ecs.MustBind[pathRecord](f.path)
	assert.Same(t, f.path, paths.Component())

	e := f.world.CreateEntity()
	want := pathRecord{Points: [4]float32{0.5, 1, 1.5, 2}, Cursor: 3}
	require.NoError(t, paths.Set(e, want))
	assert.True(t, f.path.Has(e))

	got, err := paths.Get(e)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	values, err := f.path.ReadFrom(e)
	require.NoError(t, err)
	assert.Equal(t, ecs.Values{"points": []float64{0.5, 1, 1.5, 2}, "cursor": 3.0}, values)
}

func TestRecordTagsAndSkippedFields(t *testing.T) {
	f := newFixture(t)
	health, err := ecs.Bind[healthRecord](f.health)
	require.NoError(t, err)

	e := f.world.CreateEntity()
	require.NoError(t, f.health.SetOn(e, ecs.Values{"current": 70, "max": 100}))

	got, err := health.Get(e)
	require.NoError(t, err)
	assert.Equal(t, healthRecord{Now: 70, Max: 100}, got)

	got.Now = -5
	got.Cached = "ignored"
	require.NoError(t, health.Set(e, got))
	values, err := f.health.ReadFrom(e)
	require.NoError(t, err)
	assert.Equal(t, ecs.Values{"current": -5.0, "max": 100.0}, values)
}

func TestRecordErrors(t *testing.T) {
	f := newFixture(t)
	health := ecs.MustBind[healthRecord](f.health)
	e := f.world.CreateEntity()

	_, err := health.Get(e)
	var notAttached *ecs.NotAttachedError
	require.ErrorAs(t, err, &notAttached)

	require.NoError(t, f.world.RemoveEntity(e))
	var unknown *ecs.UnknownEntityError
	require.ErrorAs(t, health.Set(e, healthRecord{}), &unknown)
	_, err = health.Get(e)
	require.ErrorAs(t, err, &unknown)
}

func TestBindRejectsMismatches(t *testing.T) {
	f := newFixture(t)

	type wrongScalar struct {
		X float32
		Y float64
	}
	type wrongArrayLen struct {
		Points [3]float32
		Cursor uint8
	}
	type missingField struct {
		X float64
	}
	type extraField struct {
		X, Y float64
		Z    float64
	}
	type sliceForArray struct {
		Points []float32
		Cursor uint8
	}

	tests := []struct {
		name  string
		bind  func() error
		field string
	}{
		{"wrong scalar type", func() error { _, err := ecs.Bind[wrongScalar](f.position); return err }, "x"},
		{"wrong array length", func() error { _, err := ecs.Bind[wrongArrayLen](f.path); return err }, "points"},
		{"missing field", func() error { _, err := ecs.Bind[missingField](f.position); return err }, "y"},
		{"extra field", func() error { _, err := ecs.Bind[extraField](f.position); return err }, "z"},
		{"slice for array", func() error { _, err := ecs.Bind[sliceForArray](f.path); return err }, "points"},
		{"not a struct", func() error { _, err := ecs.Bind[float64](f.position); return err }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var schemaErr *ecs.SchemaError
			require.ErrorAs(t, tt.bind(), &schemaErr)
			assert.Equal(t, tt.field, schemaErr.Field)
		})
	}

	assert.Panics(t, func() { ecs.MustBind[missingField](f.position) })
}

func TestRecordIter(t *testing.T) {
	f := newFixture(t)
	health := ecs.MustBind[healthRecord](f.health)

	for i := int32(1); i <= 3; i++ {
		e := f.world.CreateEntity()
		require.NoError(t, health.Set(e, healthRecord{Now: i, Max: 10}))
	}
	f.spawn(t, f.position)

	q, err := f.world.DefineQuery([]*ecs.Component{f.health}, nil)
	require.NoError(t, err)

	var total int32
	for _, h := range health.Iter(q) {
		total += h.Now
	}
	assert.Equal(t, int32(6), total)
}
