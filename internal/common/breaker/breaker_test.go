package breaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stream-advisor/internal/common/config"
	"stream-advisor/internal/common/logger"
)

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b := New("test-open", config.ResilienceConfig{FailureThreshold: 2, OpenTimeout: 60000}, logger.NewTestLogger(t))
	ctx := context.Background()
	boom := errors.New("boom")

	calls := 0
	failing := func(context.Context) error {
		calls++
		return boom
	}

	assert.ErrorIs(t, b.Do(ctx, failing), boom)
	assert.ErrorIs(t, b.Do(ctx, failing), boom)
	assert.Equal(t, "open", b.State())

	err := b.Do(ctx, failing)
	require.Error(t, err)
	assert.True(t, IsOpen(err))
	assert.Equal(t, 2, calls, "an open breaker does not call through")
}

func TestBreaker_HalfOpenRecovers(t *testing.T) {
	b := New("test-recover", config.ResilienceConfig{FailureThreshold: 1, OpenTimeout: 20}, nil)
	ctx := context.Background()

	require.Error(t, b.Do(ctx, func(context.Context) error { return errors.New("down") }))
	assert.Equal(t, "open", b.State())

	time.Sleep(40 * time.Millisecond)
	require.NoError(t, b.Do(ctx, func(context.Context) error { return nil }))
	assert.Equal(t, "closed", b.State())
}

func TestBreaker_Defaults(t *testing.T) {
	b := New("test-defaults", config.ResilienceConfig{}, nil)
	for i := 0; i < defaultFailureThreshold-1; i++ {
		_ = b.Do(context.Background(), func(context.Context) error { return errors.New("x") })
	}
	assert.Equal(t, "closed", b.State())
	assert.Equal(t, "test-defaults", b.Name())
}
