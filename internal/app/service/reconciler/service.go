package reconciler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/suniorfit/backend/internal/app/service/notification"
	"github.com/suniorfit/backend/internal/models"
	"github.com/suniorfit/backend/internal/platform/tap"
	"github.com/suniorfit/backend/pkg/logctx"
	"github.com/suniorfit/backend/pkg/types"
)

var (
	// ErrMalformedMetadata means the charge metadata lacks the purchase
	// correlation fields. The ledger row is already written; the payment is
	// not lost, but it needs manual follow-up.
	ErrMalformedMetadata = errors.New("webhook metadata missing purchase fields")
	ErrTraineeNotFound   = errors.New("trainee not found")
	ErrCoachNotFound     = errors.New("coach profile not found")
)

type Outcome string

const (
	// OutcomeProcessed: a new pending purchase was created.
	OutcomeProcessed Outcome = "processed"
	// OutcomeIgnored: non-successful status; only the ledger was updated.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeAlreadyProcessed: replayed delivery; idempotent no-op.
	OutcomeAlreadyProcessed Outcome = "already_processed"
)

type Result struct {
	Outcome  Outcome             `json:"outcome"`
	Purchase *models.TraineePlan `json:"purchase,omitempty"`
}

// Notifier is the slice of the notification dispatcher the reconciler needs.
type Notifier interface {
	Dispatch(ctx context.Context, recipientID int64, typ types.NotificationType, p notification.Payload) (*models.Notification, error)
}

// Service turns verified webhook events into ledger updates and pending
// purchases. Safe under at-least-once delivery: replays of the same charge
// resolve to OutcomeAlreadyProcessed via the storage-level uniqueness key.
type Service struct {
	store Store
	notif Notifier
	log   *zap.SugaredLogger
}

func NewService(store Store, notif Notifier, log *zap.SugaredLogger) *Service {
	return &Service{store: store, notif: notif, log: log}
}

// Process reconciles one webhook delivery.
//
// The ledger upsert is unconditional: failed and pending charges are recorded
// too, and a ledger write failure fails the whole operation. Everything after
// it returns structured errors without losing the payment record.
func (s *Service) Process(ctx context.Context, evt *tap.WebhookEvent) (*Result, error) {
	log := logctx.FromCtx(ctx, s.log)

	if err := s.store.UpsertPayment(ctx, paymentFromEvent(evt)); err != nil {
		return nil, fmt.Errorf("upsert payment ledger: %w", err)
	}

	if !models.IsSuccessStatus(evt.Status) {
		log.Infow("webhook_ignored_not_successful", "charge_id", evt.ChargeID, "status", evt.Status)
		return &Result{Outcome: OutcomeIgnored}, nil
	}

	meta := evt.Metadata
	if !meta.HasPurchaseFields() {
		log.Errorw("webhook_metadata_malformed",
			"charge_id", evt.ChargeID,
			"trainee_id", meta.TraineeID,
			"coach_profile_id", meta.CoachProfileID,
			"plan_type", meta.PlanType,
		)
		return nil, ErrMalformedMetadata
	}

	trainee, err := s.store.FindTrainee(ctx, meta.TraineeID)
	if err != nil {
		return nil, fmt.Errorf("find trainee %d: %w", meta.TraineeID, err)
	}
	if trainee == nil {
		log.Errorw("webhook_trainee_not_found", "charge_id", evt.ChargeID, "trainee_id", meta.TraineeID)
		return nil, ErrTraineeNotFound
	}

	coach, err := s.store.FindCoach(ctx, meta.CoachProfileID)
	if err != nil {
		return nil, fmt.Errorf("find coach %d: %w", meta.CoachProfileID, err)
	}
	if coach == nil {
		log.Errorw("webhook_coach_not_found", "charge_id", evt.ChargeID, "coach_profile_id", meta.CoachProfileID)
		return nil, ErrCoachNotFound
	}

	purchase := &models.TraineePlan{
		TraineeID:      meta.TraineeID,
		CoachProfileID: meta.CoachProfileID,
		PlanType:       types.PlanType(meta.PlanType),
		Items:          marshalJSON(meta.Items),
		ChargeID:       evt.ChargeID,
		PurchasedAt:    time.Now(),
		Status:         types.PurchaseStatusPending,
	}

	// ON CONFLICT DO NOTHING on (trainee_id, coach_profile_id, charge_id)
	// closes the race between concurrent deliveries of the same charge.
	created, err := s.store.CreatePurchase(ctx, purchase)
	if err != nil {
		return nil, fmt.Errorf("create pending purchase: %w", err)
	}
	if !created {
		log.Infow("webhook_already_processed", "charge_id", evt.ChargeID)
		return &Result{Outcome: OutcomeAlreadyProcessed}, nil
	}

	log.Infow("webhook_purchase_created",
		"charge_id", evt.ChargeID,
		"trainee_plan_id", purchase.ID,
		"trainee_id", meta.TraineeID,
		"coach_profile_id", meta.CoachProfileID,
		"plan_type", meta.PlanType,
	)

	s.notifyCoach(ctx, coach, trainee, purchase)

	return &Result{Outcome: OutcomeProcessed, Purchase: purchase}, nil
}

func (s *Service) notifyCoach(ctx context.Context, coach *models.CoachProfile, trainee *models.TraineeProfile, purchase *models.TraineePlan) {
	var traineeName string
	if trainee.User != nil {
		traineeName = trainee.User.Name
	}

	_, err := s.notif.Dispatch(ctx, coach.UserID, types.NotificationTypeTraineePurchase, notification.Payload{
		Data: map[string]any{
			"trainee_id":      purchase.TraineeID,
			"trainee_name":    traineeName,
			"trainee_plan_id": purchase.ID,
			"plan_type":       string(purchase.PlanType),
			"charge_id":       purchase.ChargeID,
		},
	})
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("webhook_coach_notify_failed",
			"charge_id", purchase.ChargeID, "coach_profile_id", coach.ID, "error", err.Error())
	}
}
