package company

import (
	"github.com/aibuildx/platform/internal/company/repository"
	"github.com/aibuildx/platform/internal/company/service"
	"go.uber.org/fx"
)

var Module = fx.Module("company.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
