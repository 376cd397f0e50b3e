package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient(&Config{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client
}

func TestNewClient(t *testing.T) {
	t.Run("nil config rejected", func(t *testing.T) {
		_, err := NewClient(nil)
		assert.Error(t, err)
	})

	t.Run("applies pool size default", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		defer mr.Close()

		config := &Config{Address: mr.Addr()}
		client, err := NewClient(config)
		require.NoError(t, err)
		defer client.Close()

		assert.Equal(t, 10, config.PoolSize)
	})

	t.Run("unreachable server fails", func(t *testing.T) {
		_, err := NewClient(&Config{Address: "127.0.0.1:1"})
		assert.Error(t, err)
	})
}

func TestHealth(t *testing.T) {
	client := setupTestRedis(t)
	assert.NoError(t, client.Health())
}

func TestCheckRateLimit(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		count, err := client.CheckRateLimit(ctx, "rate_limit:u1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}

	// Separate keys are counted independently.
	count, err := client.CheckRateLimit(ctx, "rate_limit:u2", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPublishSubscribe(t *testing.T) {
	client := setupTestRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := client.Subscribe(ctx, "events:u1")
	defer sub.Close()

	// Wait for the subscription to be established before publishing.
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, client.Publish(ctx, "events:u1", []byte(`{"kind":"created"}`)))

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, `{"kind":"created"}`, msg.Payload)
	case <-ctx.Done():
		t.Fatal("timed out waiting for published message")
	}
}
