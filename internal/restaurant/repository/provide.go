package repository

import (
	"github.com/bwmarrin/snowflake"
	"github.com/ordinlampo/ordinlampo/internal/config"
	"github.com/ordinlampo/ordinlampo/internal/restaurant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StoreParam holds the dependencies either store implementation may need.
// DB is optional so the file driver can run without a database connection.
type StoreParam struct {
	fx.In

	Cfg  config.Config
	Log  *zap.Logger
	Node *snowflake.Node
	DB   *gorm.DB `optional:"true"`
}

// Provide selects the store implementation from the configured driver.
func Provide(p StoreParam) domain.Store {
	if p.Cfg.StorageDriver == "file" {
		p.Log.Info("using file-backed restaurant store",
			zap.String("path", p.Cfg.FileStorePath),
		)
		return NewFileStore(p.Cfg.FileStorePath)
	}
	return NewGormStore(p.DB, p.Node)
}
