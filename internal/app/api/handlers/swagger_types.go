package handlers

import (
	"github.com/suniorfit/backend/internal/app/service/ledger"
	"github.com/suniorfit/backend/internal/app/service/purchase"
	"github.com/suniorfit/backend/internal/app/service/statistics"
	"github.com/suniorfit/backend/internal/models"
	"github.com/suniorfit/backend/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespCheckout wraps the hosted-checkout handoff in the standard envelope.
type RespCheckout struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    purchase.CheckoutInfo    `json:"data"`
}

// RespPurchaseList wraps a list of trainee purchases in the standard envelope.
type RespPurchaseList struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.TraineePlan     `json:"data"`
}

// RespPlan wraps a single plan in the standard envelope.
type RespPlan struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Plan              `json:"data"`
}

// RespPlanList wraps a list of plans in the standard envelope.
type RespPlanList struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.Plan            `json:"data"`
}

// RespNotificationList wraps a list of notifications in the standard envelope.
type RespNotificationList struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.Notification    `json:"data"`
}

// RespListPayments wraps ScanPaymentsResponse in the standard envelope.
type RespListPayments struct {
	Code    response.APIResponseCode    `json:"code"`
	Message string                      `json:"message"`
	Data    ledger.ScanPaymentsResponse `json:"data"`
}

// RespPaymentDetail wraps a ledger entry with its webhook history in the standard envelope.
type RespPaymentDetail struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ledger.PaymentDetail     `json:"data"`
}

// RespStatistic wraps StatisticResponse in the standard envelope.
type RespStatistic struct {
	Code    response.APIResponseCode     `json:"code"`
	Message string                       `json:"message"`
	Data    statistics.StatisticResponse `json:"data"`
}
