package ledger

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/suniorfit/backend/internal/app/service/webhooklog"
	"github.com/suniorfit/backend/internal/models"
	"github.com/suniorfit/backend/pkg/types"
)

var ErrPaymentNotFound = errors.New("payment not found")

// Service is the back-office read surface over the payments ledger.
type Service struct {
	db     *gorm.DB
	events *webhooklog.Service
	log    *zap.SugaredLogger
}

func New(db *gorm.DB, events *webhooklog.Service, log *zap.SugaredLogger) *Service {
	return &Service{db: db, events: events, log: log}
}

// filtersAnd combines multiple CommonFilter into a single clause.Expression.
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

type ScanPaymentsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanPaymentsResponse struct {
	Items []*models.Payment `json:"items"`
	Total int64             `json:"total"`
}

// ScanPayments implements paginated admin listing with filters.
func (s *Service) ScanPayments(ctx context.Context, req *ScanPaymentsRequest) (*ScanPaymentsResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.Payment{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count payments: %w", err)
	}

	var rows []*models.Payment

	q := tx.Limit(req.Size)

	if req.From > 0 {
		q = q.Offset(req.From)
	}

	if req.SortBy != "" {
		q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return &ScanPaymentsResponse{Items: rows, Total: total}, nil
}

type PaymentDetail struct {
	Payment *models.Payment        `json:"payment"`
	Events  []*models.WebhookEvent `json:"events"`
}

// GetByChargeID returns one ledger entry plus its webhook delivery history.
func (s *Service) GetByChargeID(ctx context.Context, chargeID string) (*PaymentDetail, error) {
	var p models.Payment
	err := s.db.WithContext(ctx).Where("charge_id = ?", chargeID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}

	events, err := s.events.ListByCharge(ctx, chargeID)
	if err != nil {
		return nil, err
	}
	return &PaymentDetail{Payment: &p, Events: events}, nil
}

// Module exposes the ledger read service via Fx.
var Module = fx.Options(
	fx.Provide(New),
)
