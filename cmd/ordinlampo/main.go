package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/ordinlampo/ordinlampo/internal/cache"
	"github.com/ordinlampo/ordinlampo/internal/clock"
	"github.com/ordinlampo/ordinlampo/internal/config"
	"github.com/ordinlampo/ordinlampo/internal/migration"
	"github.com/ordinlampo/ordinlampo/internal/observability"
	"github.com/ordinlampo/ordinlampo/internal/server"
	"github.com/ordinlampo/ordinlampo/pkg/db"
	"go.uber.org/fx"
)

func main() {
	modules := []fx.Option{
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,
		cache.Module,
		server.Module,
	}

	// The file storage driver runs without a database, so the connection
	// and schema modules only load for the gorm driver.
	if config.Load().StorageDriver != config.StorageDriverFile {
		modules = append(modules, db.Module, migration.Module)
	}

	app := fx.New(modules...)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
