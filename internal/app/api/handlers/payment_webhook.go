package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/suniorfit/backend/internal/app/service/reconciler"
	"github.com/suniorfit/backend/internal/models"
	"github.com/suniorfit/backend/internal/platform/tap"
	"github.com/suniorfit/backend/pkg/logctx"
	"github.com/suniorfit/backend/pkg/response"
	"github.com/suniorfit/backend/pkg/types"
)

// WebhookAuditor appends webhook delivery records; satisfied by the webhook
// audit log service.
type WebhookAuditor interface {
	Save(ctx context.Context, evt *models.WebhookEvent)
}

// @Summary      Tap Webhook
// @Description  Handles Tap charge webhooks. Verifies the hash header, updates the payments ledger and creates the pending purchase.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        payload body string true "Tap charge object"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/payment/webhook/tap [post]
// ApiTapWebhook handles Tap charge notifications
func ApiTapWebhook(verifier *tap.SignatureVerifier, rec *reconciler.Service, audit WebhookAuditor, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logctx.FromGin(c, logger)

		// the provider must always get an answer, even if handling blows up
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("webhook_tap_panic", "panic", fmt.Sprintf("%v", r))
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, "internal error"))
			}
		}()

		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			log.Errorw("webhook_tap_body_read_error", "error", err.Error())
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "cannot read body"))
			return
		}

		record := &models.WebhookEvent{
			Provider: string(types.PaymentProviderTap),
			TraceID:  c.GetString("traceID"),
			Status:   models.WebhookEventStatusReceived,
			Payload:  datatypes.JSON(raw),
		}

		evt, err := tap.ParseWebhook(raw)
		if err != nil {
			log.Errorw("webhook_tap_parse_error", "error", err.Error())
			record.Status = models.WebhookEventStatusHandleFailed
			audit.Save(c.Request.Context(), record)
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		record.ChargeID = evt.ChargeID
		log.Infow("webhook_tap_received", "charge_id", evt.ChargeID, "status", evt.Status)

		if err := verifier.Verify(evt, c.Request.Header); err != nil {
			record.Status = models.WebhookEventStatusHandleFailed
			audit.Save(c.Request.Context(), record)
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid signature"))
			return
		}

		result, err := rec.Process(c.Request.Context(), evt)
		if err != nil {
			log.Errorw("webhook_tap_handle_error", "charge_id", evt.ChargeID, "error", err.Error())
			record.Status = models.WebhookEventStatusHandleFailed
			audit.Save(c.Request.Context(), record)

			switch {
			case errors.Is(err, reconciler.ErrMalformedMetadata):
				c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			case errors.Is(err, reconciler.ErrTraineeNotFound), errors.Is(err, reconciler.ErrCoachNotFound):
				c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			default:
				// the ledger write already happened or failed durably; a retry
				// from the provider is safe either way
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			}
			return
		}

		record.Status = models.WebhookEventStatusHandled
		if resBytes, err := json.Marshal(result); err == nil {
			res := datatypes.JSON(resBytes)
			record.Result = &res
		}
		audit.Save(c.Request.Context(), record)

		log.Infow("webhook_tap_handled", "charge_id", evt.ChargeID, "outcome", result.Outcome)
		c.JSON(http.StatusOK, response.OKT(result))
	}
}
