package gate

import (
	"context"
	"testing"

	"github.com/fox-one/pkg/property"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lever/core"
)

type fakeProperties struct {
	values map[string]property.Value
}

func (s *fakeProperties) Get(ctx context.Context, key string) (property.Value, error) {
	return s.values[key], nil
}

func (s *fakeProperties) Save(ctx context.Context, key string, value interface{}) error {
	s.values[key] = property.Parse(value)
	return nil
}

func (s *fakeProperties) Expire(ctx context.Context, key string) error {
	delete(s.values, key)
	return nil
}

func (s *fakeProperties) List(ctx context.Context) (map[string]property.Value, error) {
	return s.values, nil
}

func newTestGate() (core.IGateService, *fakeProperties) {
	cfg := &core.Config{Owners: []string{"admin"}}
	properties := &fakeProperties{values: map[string]property.Value{}}
	return New(cfg, properties), properties
}

func TestPaused(t *testing.T) {
	ctx := context.Background()
	svc, properties := newTestGate()

	// unset reads as running
	paused, err := svc.Paused(ctx)
	require.Nil(t, err)
	assert.False(t, paused)

	// the flag round-trips through its string representation
	require.Nil(t, svc.SetPaused(ctx, true))
	assert.Equal(t, "true", properties.values[GateKeyPaused].String())

	paused, err = svc.Paused(ctx)
	require.Nil(t, err)
	assert.True(t, paused)

	require.Nil(t, svc.SetPaused(ctx, false))
	paused, err = svc.Paused(ctx)
	require.Nil(t, err)
	assert.False(t, paused)
}

func TestRunners(t *testing.T) {
	ctx := context.Background()
	svc, properties := newTestGate()

	ok, err := svc.IsRunner(ctx, "keeper")
	require.Nil(t, err)
	assert.False(t, ok)

	require.Nil(t, svc.AddRunner(ctx, "keeper"))
	require.Nil(t, svc.AddRunner(ctx, "bot"))

	// adding twice keeps the list deduplicated
	require.Nil(t, svc.AddRunner(ctx, "keeper"))
	assert.Equal(t, "keeper,bot", properties.values[GateKeyRunners].String())

	ok, err = svc.IsRunner(ctx, "keeper")
	require.Nil(t, err)
	assert.True(t, ok)

	require.Nil(t, svc.RemoveRunner(ctx, "keeper"))
	ok, err = svc.IsRunner(ctx, "keeper")
	require.Nil(t, err)
	assert.False(t, ok)

	ok, err = svc.IsRunner(ctx, "bot")
	require.Nil(t, err)
	assert.True(t, ok)
}

func TestIsOwner(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestGate()

	ok, err := svc.IsOwner(ctx, "admin")
	require.Nil(t, err)
	assert.True(t, ok)

	ok, err = svc.IsOwner(ctx, "mallory")
	require.Nil(t, err)
	assert.False(t, ok)
}
