package main

import (
	"github.com/aibuildx/platform/internal/config"
	"github.com/aibuildx/platform/internal/migration"
	"github.com/aibuildx/platform/internal/observability"
	"github.com/aibuildx/platform/internal/scheduler"
	"github.com/aibuildx/platform/internal/server"
	"github.com/aibuildx/platform/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
