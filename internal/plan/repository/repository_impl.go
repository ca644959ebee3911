package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/ordinlampo/ordinlampo/internal/config"
	plandomain "github.com/ordinlampo/ordinlampo/internal/plan/domain"
	restaurantdomain "github.com/ordinlampo/ordinlampo/internal/restaurant/domain"
	"github.com/ordinlampo/ordinlampo/pkg/db/option"
	pkgrepo "github.com/ordinlampo/ordinlampo/pkg/repository"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type repo struct{}

// RepositoryParam is the repository dependency set.
type RepositoryParam struct {
	fx.In

	Cfg   config.Config
	Store restaurantdomain.Store
}

// Provide selects the catalog backend: the database normally, the built-in
// in-memory catalog under the file storage driver.
func Provide(p RepositoryParam) plandomain.Repository {
	if p.Cfg.StorageDriver == config.StorageDriverFile {
		return NewMemory(plandomain.BuiltinCatalog(), p.Store)
	}
	return &repo{}
}

// plans binds the generic store to the session passed by the service. The
// db handle arrives per call so the same repository serves transactions.
func (r *repo) plans(db *gorm.DB) pkgrepo.Repository[plandomain.Plan] {
	return pkgrepo.ProvideStore[plandomain.Plan](db)
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]plandomain.Plan, error) {
	rows, err := r.plans(db).Find(ctx,
		&plandomain.Plan{Active: true},
		option.WithOrderBy("per_order_fee_cents DESC"),
	)
	if err != nil {
		return nil, err
	}
	out := make([]plandomain.Plan, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	return out, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*plandomain.Plan, error) {
	return r.plans(db).FindOne(ctx, &plandomain.Plan{Code: code})
}

func (r *repo) ActivePlanForRestaurant(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID) (*plandomain.Plan, error) {
	var plan plandomain.Plan
	err := db.WithContext(ctx).Raw(
		`SELECT p.* FROM plans p
		 JOIN restaurants r ON r.plan_code = p.code
		 WHERE r.id = ?`,
		restaurantID,
	).Scan(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == 0 {
		return nil, nil
	}
	return &plan, nil
}

func (r *repo) AssignToRestaurant(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID, code string, status plandomain.SubscriptionStatus) error {
	return db.WithContext(ctx).Exec(
		`UPDATE restaurants SET plan_code = ?, subscription_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		code,
		status,
		restaurantID,
	).Error
}
