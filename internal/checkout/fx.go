package checkout

import (
	"github.com/aibuildx/platform/internal/checkout/gateway"
	"github.com/aibuildx/platform/internal/checkout/repository"
	"github.com/aibuildx/platform/internal/checkout/service"
	"go.uber.org/fx"
)

var Module = fx.Module("checkout.service",
	fx.Provide(repository.New),
	fx.Provide(fx.Annotate(gateway.NewRazorpay, fx.As(new(gateway.Gateway)))),
	fx.Provide(service.New),
)
