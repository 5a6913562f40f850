package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suniorfit/backend/internal/app/service/ledger"
	"github.com/suniorfit/backend/internal/app/service/statistics"
	"github.com/suniorfit/backend/pkg/response"
	"github.com/suniorfit/backend/pkg/types"
)

type ListPaymentsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

// @Summary      List Payments (Admin)
// @Description  Retrieves a paginated and filterable view over the payments ledger.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ListPaymentsRequest true "List payments request with filters, pagination, and sorting"
// @Success      200  {object}  handlers.RespListPayments
// @Router       /api/v1/admin/list_payments [post]
func ApiListPayments(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListPaymentsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.ScanPayments(c.Request.Context(), &ledger.ScanPaymentsRequest{
			Filters: req.Filters, From: req.From, Size: req.Size, SortBy: req.SortBy, SortOrder: req.SortOrder,
		})
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Get Payment (Admin)
// @Description  Returns one ledger entry plus its full webhook delivery history.
// @Tags         Admin
// @Produce      json
// @Param        charge_id path string true "Charge id"
// @Success      200  {object}  handlers.RespPaymentDetail
// @Router       /api/v1/admin/payments/{charge_id} [get]
func ApiGetPayment(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		chargeID := c.Param("charge_id")
		if chargeID == "" {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing charge_id"))
			return
		}
		res, err := svc.GetByChargeID(c.Request.Context(), chargeID)
		if err != nil {
			if errors.Is(err, ledger.ErrPaymentNotFound) {
				c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Get Statistics (Admin)
// @Description  Retrieves daily charge, GMV and purchase funnel statistics.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body statistics.StatisticRequest true "Statistic request parameters"
// @Success      200  {object}  handlers.RespStatistic
// @Router       /api/v1/admin/get_statistics [post]
// ApiGetStatistics handles POST /api/v1/admin/get_statistics
func ApiGetStatistics(svc *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.StatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.GetStatistics(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminRoutes(r gin.IRouter, led *ledger.Service, stats *statistics.Service) {
	r.POST("/list_payments", ApiListPayments(led))
	r.GET("/payments/:charge_id", ApiGetPayment(led))
	r.POST("/get_statistics", ApiGetStatistics(stats))
}
