package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/suniorfit/backend/internal/app/api/middleware"
	"github.com/suniorfit/backend/internal/app/service/purchase"
	"github.com/suniorfit/backend/pkg/response"
)

// @Summary      List pending purchases
// @Description  Returns the authenticated coach's purchases awaiting a plan, newest first.
// @Tags         Purchase
// @Produce      json
// @Success      200  {object}  handlers.RespPurchaseList
// @Router       /api/v1/purchases/pending [get]
func ApiListPendingPurchases(svc *purchase.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		coachID, ok := mw.CoachProfileID(c)
		if !ok {
			c.JSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeError, "coach profile required"))
			return
		}
		rows, err := svc.PendingForCoach(c.Request.Context(), coachID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

// @Summary      List completed purchases
// @Description  Returns the authenticated coach's materialized purchases, most recently purchased first.
// @Tags         Purchase
// @Produce      json
// @Success      200  {object}  handlers.RespPurchaseList
// @Router       /api/v1/purchases/completed [get]
func ApiListCompletedPurchases(svc *purchase.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		coachID, ok := mw.CoachProfileID(c)
		if !ok {
			c.JSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeError, "coach profile required"))
			return
		}
		rows, err := svc.CompletedForCoach(c.Request.Context(), coachID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}
