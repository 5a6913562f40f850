package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mw "github.com/suniorfit/backend/internal/app/api/middleware"
	"github.com/suniorfit/backend/internal/app/service/purchase"
	"github.com/suniorfit/backend/internal/models"
	cfgpkg "github.com/suniorfit/backend/pkg/config"
	"github.com/suniorfit/backend/pkg/logctx"
	"github.com/suniorfit/backend/pkg/response"
)

// @Summary      Purchase a plan
// @Description  Creates a hosted-checkout Tap charge for the authenticated trainee. The purchase itself is created later by the webhook.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body purchase.PurchaseRequest true "Coach, plan type and optional item selections"
// @Success      200  {object}  handlers.RespCheckout
// @Router       /api/v1/payment/pay [post]
func ApiCreateCharge(svc *purchase.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		traineeID, ok := mw.TraineeProfileID(c)
		if !ok {
			c.JSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeError, "trainee profile required"))
			return
		}

		var req purchase.PurchaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if !req.PlanType.Valid() {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, fmt.Sprintf("invalid plan_type: %s", req.PlanType)))
			return
		}

		res, err := svc.CreateCharge(c.Request.Context(), traineeID, &req)
		if err != nil {
			switch {
			case errors.Is(err, purchase.ErrCoachNotFound), errors.Is(err, purchase.ErrTraineeNotFound):
				c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			case errors.Is(err, purchase.ErrInvalidAmount):
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			default:
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			}
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Payment redirect
// @Description  Landing endpoint for the browser after hosted checkout. Re-queries the charge at the provider and either returns JSON or bounces to the app deep link.
// @Tags         Payment
// @Produce      json
// @Param        tap_id query string true "Charge id appended by Tap"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/payment/redirect [get]
func ApiPaymentRedirect(svc *purchase.Service, cfg *cfgpkg.Config, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		chargeID := c.Query("tap_id")
		if chargeID == "" {
			chargeID = c.Query("charge_id")
		}
		if chargeID == "" {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing tap_id"))
			return
		}

		status := "UNKNOWN"
		charge, err := svc.ChargeStatus(c.Request.Context(), chargeID)
		if err != nil {
			logctx.FromGin(c, logger).Errorw("payment_redirect_status_error", "charge_id", chargeID, "error", err.Error())
		} else if charge != nil {
			status = strings.ToUpper(charge.Status)
		}

		if wantsJSON(c) {
			c.JSON(http.StatusOK, response.OKT(gin.H{
				"charge_id": chargeID,
				"status":    status,
				"success":   models.IsSuccessStatus(status),
			}))
			return
		}

		target := fmt.Sprintf("%s?charge_id=%s&status=%s",
			cfg.Tap.MobileRedirect, url.QueryEscape(chargeID), url.QueryEscape(status))
		c.Redirect(http.StatusFound, target)
	}
}

// wantsJSON: API clients ask for JSON explicitly; everything else is a browser
// that should be bounced into the app.
func wantsJSON(c *gin.Context) bool {
	if c.Query("format") == "json" {
		return true
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
