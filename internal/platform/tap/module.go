package tap

import (
	"errors"

	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/suniorfit/backend/pkg/config"
)

// ErrInvalidSignature means the webhook hash check failed under a fail-closed
// policy and the request must be rejected.
var ErrInvalidSignature = errors.New("invalid webhook signature")

func newSignatureVerifier(cfg *cfgpkg.Config, log *zap.SugaredLogger) *SignatureVerifier {
	return NewSignatureVerifier(cfg.Tap.WebhookSigningSecret(), cfg.IsProd(), log)
}

var Module = fx.Options(
	fx.Provide(NewClient),
	fx.Provide(newSignatureVerifier),
)
