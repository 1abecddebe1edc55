package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var (
	up   = pingFunc(func(context.Context) error { return nil })
	down = pingFunc(func(context.Context) error { return errors.New("connection refused") })
)

func TestCheckReady(t *testing.T) {
	s := NewHealthChecker(up, nil).CheckReady(context.Background())
	assert.Equal(t, "healthy", s.Status)
	assert.Nil(t, s.Cache)

	s = NewHealthChecker(down, nil).CheckReady(context.Background())
	assert.Equal(t, "unhealthy", s.Status)
	assert.Equal(t, "connection refused", s.Database.Error)
}

func TestCheckReady_CacheDoesNotFailReadiness(t *testing.T) {
	s := NewHealthChecker(up, down).CheckReady(context.Background())

	assert.Equal(t, "healthy", s.Status)
	require.NotNil(t, s.Cache)
	assert.Equal(t, "unhealthy", s.Cache.Status)
}
