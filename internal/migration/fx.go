package migration

import (
	"github.com/ordinlampo/ordinlampo/internal/config"
	"github.com/ordinlampo/ordinlampo/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module applies schema and seeds on startup. The file storage driver has
// no database; SQL migrations are postgres-only and other dialects fall
// back to gorm's auto migration.
var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.StorageDriver == config.StorageDriverFile {
			return nil
		}

		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else if err := AutoMigrate(conn); err != nil {
			return err
		}

		if err := seed.EnsurePlans(conn); err != nil {
			return err
		}
		if cfg.BootstrapDemoRestaurant {
			return seed.EnsureDemoRestaurant(conn)
		}
		return nil
	}),
)
