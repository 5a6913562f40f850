package purchase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/suniorfit/backend/internal/models"
	"github.com/suniorfit/backend/internal/platform/tap"
	cfgpkg "github.com/suniorfit/backend/pkg/config"
	"github.com/suniorfit/backend/pkg/logctx"
	"github.com/suniorfit/backend/pkg/types"
)

var (
	ErrTraineeNotFound = errors.New("trainee profile not found")
	ErrCoachNotFound   = errors.New("coach profile not found")
	// ErrInvalidAmount: the coach has no usable price for the requested plan
	// type; nothing is charged.
	ErrInvalidAmount = errors.New("calculated amount is invalid or zero")
)

// Gateway is the slice of the Tap client this service needs.
type Gateway interface {
	CreateCharge(ctx context.Context, req *tap.CreateChargeRequest) (*tap.CreateChargeResult, error)
	RetrieveCharge(ctx context.Context, chargeID string) (*tap.Charge, error)
}

// Service initiates charges for trainees and serves purchase listings for
// coaches.
type Service struct {
	db      *gorm.DB
	gateway Gateway
	cfg     *cfgpkg.Config
	log     *zap.SugaredLogger
}

func NewService(db *gorm.DB, gateway Gateway, cfg *cfgpkg.Config, log *zap.SugaredLogger) *Service {
	return &Service{db: db, gateway: gateway, cfg: cfg, log: log}
}

type PurchaseRequest struct {
	CoachProfileID int64          `json:"coach_profile_id" binding:"required"`
	PlanType       types.PlanType `json:"plan_type" binding:"required"`
	// Items: optional workout/meal selections recorded with the purchase and
	// handed to the coach at materialization time.
	Items any `json:"items"`
}

type CheckoutInfo struct {
	CheckoutURL string `json:"checkout_url"`
	ChargeID    string `json:"charge_id"`
	PaymentID   int64  `json:"payment_id"`
}

// CreateCharge creates a hosted-checkout Tap charge for the trainee and
// records the INITIATED ledger row correlated by charge id. The charge
// outcome comes back later through the webhook.
func (s *Service) CreateCharge(ctx context.Context, traineeID int64, req *PurchaseRequest) (*CheckoutInfo, error) {
	var trainee models.TraineeProfile
	err := s.db.WithContext(ctx).Preload("User").First(&trainee, traineeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTraineeNotFound
	}
	if err != nil {
		return nil, err
	}

	var coach models.CoachProfile
	err = s.db.WithContext(ctx).First(&coach, req.CoachProfileID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCoachNotFound
	}
	if err != nil {
		return nil, err
	}

	amount := PriceForPlanType(&coach, req.PlanType)
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	metadata := map[string]any{
		"trainee_id":       trainee.ID,
		"coach_profile_id": coach.ID,
		"plan_type":        string(req.PlanType),
	}
	if req.Items != nil {
		metadata["items"] = req.Items
	}

	var customer *tap.Customer
	if trainee.User != nil {
		customer = &tap.Customer{FirstName: trainee.User.Name, Email: trainee.User.Email}
	}

	result, err := s.gateway.CreateCharge(ctx, &tap.CreateChargeRequest{
		Amount:      amount,
		Currency:    s.cfg.Tap.Currency,
		Description: fmt.Sprintf("Purchase %s plan from coach #%d", req.PlanType, coach.ID),
		Metadata:    metadata,
		Customer:    customer,
		CallbackURL: s.cfg.Tap.CallbackURL,
		RedirectURL: s.cfg.Tap.RedirectURL,
	})
	if err != nil {
		var raw json.RawMessage
		if result != nil {
			raw = result.Raw
		}
		logctx.FromCtx(ctx, s.log).Errorw("charge_create_failed",
			"trainee_id", traineeID, "coach_profile_id", coach.ID, "error", err.Error(), "raw", string(raw))
		return nil, fmt.Errorf("create charge: %w", err)
	}

	metaBytes, _ := json.Marshal(metadata)
	payment := &models.Payment{
		ChargeID: result.ChargeID,
		Amount:   amount,
		Currency: s.cfg.Tap.Currency,
		Status:   "INITIATED",
		Metadata: datatypes.JSON(metaBytes),
		Raw:      datatypes.JSON(result.Raw),
	}
	if err := s.db.WithContext(ctx).Create(payment).Error; err != nil {
		// checkout already exists at the provider; the webhook upsert will
		// recreate the ledger row, so log and keep going
		logctx.FromCtx(ctx, s.log).Errorw("payment_ledger_create_failed",
			"charge_id", result.ChargeID, "error", err.Error())
	}

	logctx.FromCtx(ctx, s.log).Infow("charge_created",
		"charge_id", result.ChargeID, "trainee_id", traineeID, "coach_profile_id", coach.ID, "amount", amount)

	return &CheckoutInfo{CheckoutURL: result.CheckoutURL, ChargeID: result.ChargeID, PaymentID: payment.ID}, nil
}

// ChargeStatus re-queries the provider for a charge's current state; used by
// the browser-facing redirect endpoint.
func (s *Service) ChargeStatus(ctx context.Context, chargeID string) (*tap.Charge, error) {
	return s.gateway.RetrieveCharge(ctx, chargeID)
}

// PendingForCoach returns a coach's purchases awaiting materialization,
// newest first.
func (s *Service) PendingForCoach(ctx context.Context, coachID int64) ([]*models.TraineePlan, error) {
	return s.listForCoach(ctx, coachID, types.PurchaseStatusPending, "created_at DESC")
}

// CompletedForCoach returns a coach's materialized purchases, most recently
// purchased first.
func (s *Service) CompletedForCoach(ctx context.Context, coachID int64) ([]*models.TraineePlan, error) {
	return s.listForCoach(ctx, coachID, types.PurchaseStatusCompleted, "purchased_at DESC")
}

func (s *Service) listForCoach(ctx context.Context, coachID int64, status types.PurchaseStatus, order string) ([]*models.TraineePlan, error) {
	var rows []*models.TraineePlan
	err := s.db.WithContext(ctx).
		Preload("Trainee.User").
		Preload("Plan.Workouts").
		Preload("Plan.Meals").
		Where("coach_profile_id = ? AND status = ?", coachID, status).
		Order(order).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// PriceForPlanType resolves the amount a coach charges for a plan type.
func PriceForPlanType(coach *models.CoachProfile, planType types.PlanType) float64 {
	switch planType {
	case types.PlanTypeNutrition:
		return coach.NutritionPrice
	case types.PlanTypeWorkout:
		return coach.WorkoutPrice
	case types.PlanTypeFullPackage:
		return coach.FullPackagePrice
	default:
		return 0
	}
}
