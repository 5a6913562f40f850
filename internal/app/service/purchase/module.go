package purchase

import (
	"go.uber.org/fx"

	"github.com/suniorfit/backend/internal/platform/tap"
)

func newGateway(c *tap.Client) Gateway { return c }

// Module exposes the purchase service via Fx.
var Module = fx.Options(
	fx.Provide(newGateway),
	fx.Provide(NewService),
)
