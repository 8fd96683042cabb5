package plan

import (
	"github.com/aibuildx/platform/internal/plan/repository"
	"github.com/aibuildx/platform/internal/plan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("plan.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
