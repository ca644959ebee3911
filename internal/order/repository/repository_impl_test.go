package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/ordinlampo/ordinlampo/internal/config"
	"github.com/ordinlampo/ordinlampo/internal/money"
	"github.com/ordinlampo/ordinlampo/internal/order/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) (domain.Repository, *snowflake.Node) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Order{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := Provide(RepositoryParam{
		Cfg: config.Config{StorageDriver: config.StorageDriverGorm},
		DB:  db,
	})
	return repo, node
}

func TestInsertRejectsDuplicateReference(t *testing.T) {
	repo, node := newTestRepo(t)
	ctx := context.Background()
	rid := node.Generate()

	first := &domain.Order{
		ID:           node.Generate(),
		RestaurantID: rid,
		ExternalRef:  "ord-1",
		OrderType:    domain.TypeDelivery,
		TotalCents:   1400,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.Insert(ctx, first))

	replay := &domain.Order{
		ID:           node.Generate(),
		RestaurantID: rid,
		ExternalRef:  "ord-1",
		OrderType:    domain.TypeDelivery,
		TotalCents:   1400,
		CreatedAt:    time.Now().UTC(),
	}
	assert.ErrorIs(t, repo.Insert(ctx, replay), domain.ErrDuplicateOrder)

	// The same reference under another restaurant is a different order.
	other := &domain.Order{
		ID:           node.Generate(),
		RestaurantID: node.Generate(),
		ExternalRef:  "ord-1",
		OrderType:    domain.TypePickup,
		TotalCents:   900,
		CreatedAt:    time.Now().UTC(),
	}
	assert.NoError(t, repo.Insert(ctx, other))
}

func TestListNewestFirstWithSinceAndLimit(t *testing.T) {
	repo, node := newTestRepo(t)
	ctx := context.Background()
	rid := node.Generate()

	base := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		order := &domain.Order{
			ID:           node.Generate(),
			RestaurantID: rid,
			ExternalRef:  "ord-" + string(rune('a'+i)),
			OrderType:    domain.TypePickup,
			TotalCents:   money.Cents(100 * (i + 1)),
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Insert(ctx, order))
	}

	orders, err := repo.List(ctx, rid, time.Time{}, 3)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "ord-e", orders[0].ExternalRef)
	assert.Equal(t, "ord-d", orders[1].ExternalRef)

	orders, err = repo.List(ctx, rid, base.Add(3*time.Minute), 50)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestWindowAggregatesAreHalfOpen(t *testing.T) {
	repo, node := newTestRepo(t)
	ctx := context.Background()
	rid := node.Generate()

	start := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	insertAt := func(ref string, at time.Time, total money.Cents) {
		require.NoError(t, repo.Insert(ctx, &domain.Order{
			ID:           node.Generate(),
			RestaurantID: rid,
			ExternalRef:  ref,
			OrderType:    domain.TypeDelivery,
			TotalCents:   total,
			CreatedAt:    at,
		}))
	}

	insertAt("before", start.Add(-time.Second), 9999)
	insertAt("at-start", start, 1000)
	insertAt("inside", start.Add(72*time.Hour), 2000)
	insertAt("at-end", end, 9999)

	count, err := repo.CountInWindow(ctx, rid, start, end)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	sum, err := repo.SumInWindow(ctx, rid, start, end)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(3000), sum)
}

func TestSumInWindowEmpty(t *testing.T) {
	repo, node := newTestRepo(t)

	sum, err := repo.SumInWindow(context.Background(), node.Generate(),
		time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, money.Cents(0), sum)
}
