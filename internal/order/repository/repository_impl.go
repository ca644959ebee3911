package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ordinlampo/ordinlampo/internal/config"
	"github.com/ordinlampo/ordinlampo/internal/money"
	"github.com/ordinlampo/ordinlampo/internal/order/domain"
	pkgdb "github.com/ordinlampo/ordinlampo/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// RepositoryParam is the repository dependency set.
type RepositoryParam struct {
	fx.In

	Cfg config.Config
	DB  *gorm.DB `optional:"true"`
}

// Provide constructs the order repository. The file storage driver runs
// without a database; orders then live in memory only.
func Provide(p RepositoryParam) domain.Repository {
	if p.Cfg.StorageDriver == config.StorageDriverFile || p.DB == nil {
		return NewMemory()
	}
	return &repository{db: p.DB}
}

func (r *repository) Insert(ctx context.Context, order *domain.Order) error {
	err := r.db.WithContext(ctx).Create(order).Error
	if err != nil && pkgdb.IsDuplicateKeyErr(err) {
		return domain.ErrDuplicateOrder
	}
	return err
}

func (r *repository) List(ctx context.Context, restaurantID snowflake.ID, since time.Time, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	var orders []domain.Order
	q := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Limit(limit)
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) CountInWindow(ctx context.Context, restaurantID snowflake.ID, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("restaurant_id = ? AND created_at >= ? AND created_at < ?", restaurantID, start, end).
		Count(&count).Error
	return count, err
}

func (r *repository) SumInWindow(ctx context.Context, restaurantID snowflake.ID, start, end time.Time) (money.Cents, error) {
	var total *int64
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("SUM(total_cents)").
		Where("restaurant_id = ? AND created_at >= ? AND created_at < ?", restaurantID, start, end).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return money.Cents(*total), nil
}
