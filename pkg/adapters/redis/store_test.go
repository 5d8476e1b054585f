package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/voyant/pkg/adapters/redis"
	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/ports"
)

func newTestClient(t *testing.T) *backend.Client {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	return backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
}

func TestRedisStore_Contract(t *testing.T) {
	store := redis.NewFromClient(newTestClient(t))
	ports.RunPlanStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	planRunID := "run-ttl"

	err = store.Save(ctx, planRunID, &domain.PlanState{PlanRunID: planRunID, State: domain.RunComplete})
	require.NoError(t, err)

	runs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, runs, planRunID)

	// Fast forward miniredis past the TTL for key expiration.
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, planRunID)
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)

	// Index pruning keys off time.Now(), so wait past the TTL as well.
	time.Sleep(1200 * time.Millisecond)

	runs, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	store := redis.NewFromClient(client, redis.WithPrefix("custom:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "run-1", &domain.PlanState{PlanRunID: "run-1", State: domain.RunPreparing}))

	assert.True(t, mr.Exists("custom:run-1"))
	assert.False(t, mr.Exists("voyant:plan:run-1"))
}
