package auth

import (
	"github.com/aibuildx/platform/internal/auth/repository"
	"github.com/aibuildx/platform/internal/auth/service"
	"github.com/aibuildx/platform/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
	fx.Provide(session.NewManager),
)
