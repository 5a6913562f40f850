package reconciler

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/suniorfit/backend/internal/models"
	"github.com/suniorfit/backend/internal/platform/tap"
)

// Store is the persistence surface the reconciler needs.
type Store interface {
	// UpsertPayment writes the ledger row keyed by charge_id,
	// last-delivery-wins on the mutable fields.
	UpsertPayment(ctx context.Context, p *models.Payment) error
	// FindTrainee returns nil (no error) when the trainee does not exist.
	FindTrainee(ctx context.Context, id int64) (*models.TraineeProfile, error)
	// FindCoach returns nil (no error) when the coach does not exist.
	FindCoach(ctx context.Context, id int64) (*models.CoachProfile, error)
	// CreatePurchase inserts a pending purchase; created=false means the
	// idempotency key already exists and nothing was written.
	CreatePurchase(ctx context.Context, tp *models.TraineePlan) (created bool, err error)
}

type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) UpsertPayment(ctx context.Context, p *models.Payment) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "charge_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "amount", "currency", "metadata", "raw", "updated_at"}),
	}).Create(p).Error
}

func (s *gormStore) FindTrainee(ctx context.Context, id int64) (*models.TraineeProfile, error) {
	var t models.TraineeProfile
	err := s.db.WithContext(ctx).Preload("User").First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *gormStore) FindCoach(ctx context.Context, id int64) (*models.CoachProfile, error) {
	var c models.CoachProfile
	err := s.db.WithContext(ctx).Preload("User").First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *gormStore) CreatePurchase(ctx context.Context, tp *models.TraineePlan) (bool, error) {
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "trainee_id"}, {Name: "coach_profile_id"}, {Name: "charge_id"}},
		DoNothing: true,
	}).Create(tp)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func paymentFromEvent(evt *tap.WebhookEvent) *models.Payment {
	p := &models.Payment{
		ChargeID: evt.ChargeID,
		Amount:   evt.AmountValue(),
		Currency: evt.Currency,
		Status:   evt.Status,
		Raw:      datatypes.JSON(evt.Raw),
	}
	if meta, ok := evt.Object["metadata"]; ok {
		p.Metadata = marshalJSON(meta)
	}
	if ref, ok := evt.Object["reference"]; ok {
		p.Reference = marshalJSON(ref)
	}
	return p
}

func marshalJSON(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
