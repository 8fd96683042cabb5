package project

import (
	"github.com/aibuildx/platform/internal/project/repository"
	"github.com/aibuildx/platform/internal/project/service"
	"github.com/aibuildx/platform/internal/project/store"
	"go.uber.org/fx"
)

var Module = fx.Module("project.service",
	fx.Provide(repository.New),
	fx.Provide(store.NewLocal),
	fx.Provide(service.New),
)
