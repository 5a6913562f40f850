package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/suniorfit/backend/internal/app/service/notification"
	"github.com/suniorfit/backend/internal/models"
	"github.com/suniorfit/backend/pkg/logctx"
	"github.com/suniorfit/backend/pkg/types"
)

var (
	ErrPurchaseNotFound = errors.New("trainee purchase not found")
	// ErrPurchaseNotPending: the purchase was already materialized (or is
	// otherwise not in pending state); surfaced to the caller as a conflict.
	ErrPurchaseNotPending = errors.New("trainee purchase is not pending")
	// ErrNotPurchaseOwner: only the coach the purchase was made from may
	// materialize it.
	ErrNotPurchaseOwner = errors.New("purchase belongs to another coach")
	ErrPlanNotFound     = errors.New("plan not found")
	ErrNotPlanOwner     = errors.New("plan belongs to another coach")
)

// Notifier is the slice of the notification dispatcher this service needs.
type Notifier interface {
	Dispatch(ctx context.Context, recipientID int64, typ types.NotificationType, p notification.Payload) (*models.Notification, error)
}

// Service materializes pending purchases into concrete Plans and manages the
// plans a coach owns.
type Service struct {
	store Store
	notif Notifier
	log   *zap.SugaredLogger
}

func NewService(store Store, notif Notifier, log *zap.SugaredLogger) *Service {
	return &Service{store: store, notif: notif, log: log}
}

type CreatePlanRequest struct {
	TraineePlanID int64          `json:"trainee_plan_id" binding:"required"`
	Type          types.PlanType `json:"type" binding:"required"`
	Title         string         `json:"title" binding:"required"`
	Description   string         `json:"description"`
	WorkoutIDs    []int64        `json:"workout_ids"`
	MealIDs       []int64        `json:"meal_ids"`
}

// CreateFromPurchase converts a pending purchase into a Plan assigned to the
// trainee, as one atomic transaction: plan creation, workout/meal
// attachment, purchase completion and trainee assignment all commit or none
// do. coachID is the authenticated caller's coach profile.
func (s *Service) CreateFromPurchase(ctx context.Context, coachID int64, req *CreatePlanRequest) (*models.Plan, error) {
	var created *models.Plan
	var purchase *models.TraineePlan

	err := s.store.InTransaction(ctx, func(tx Store) error {
		var err error
		purchase, err = tx.FindPurchaseForUpdate(ctx, req.TraineePlanID)
		if err != nil {
			return fmt.Errorf("load purchase %d: %w", req.TraineePlanID, err)
		}
		if purchase == nil {
			return ErrPurchaseNotFound
		}
		if purchase.CoachProfileID != coachID {
			return ErrNotPurchaseOwner
		}
		if !purchase.IsPending() {
			return ErrPurchaseNotPending
		}

		p := &models.Plan{
			CoachProfileID: coachID,
			Type:           req.Type,
			Title:          req.Title,
			Description:    req.Description,
		}
		if err := tx.CreatePlan(ctx, p); err != nil {
			return fmt.Errorf("create plan: %w", err)
		}

		// membership sets; duplicate ids in the request are ignored
		if err := tx.AttachWorkouts(ctx, p.ID, req.WorkoutIDs); err != nil {
			return fmt.Errorf("attach workouts: %w", err)
		}
		if err := tx.AttachMeals(ctx, p.ID, req.MealIDs); err != nil {
			return fmt.Errorf("attach meals: %w", err)
		}

		completed, err := tx.CompletePurchase(ctx, purchase.ID, p.ID)
		if err != nil {
			return fmt.Errorf("complete purchase: %w", err)
		}
		if !completed {
			// lost a race with a concurrent materialization
			return ErrPurchaseNotPending
		}

		// Attach the plan to the trainee, carrying the purchase correlation
		// forward. A retried materialization of a different purchase row must
		// not attach the same charge twice.
		purchasedAt := purchase.PurchasedAt
		if purchasedAt.IsZero() {
			purchasedAt = time.Now()
		}
		if err := tx.CreateAssignmentIfAbsent(ctx, &models.PlanAssignment{
			PlanID:      p.ID,
			TraineeID:   purchase.TraineeID,
			ChargeID:    purchase.ChargeID,
			Items:       purchase.Items,
			PurchasedAt: purchasedAt,
		}); err != nil {
			return fmt.Errorf("assign plan to trainee: %w", err)
		}

		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	logctx.FromCtx(ctx, s.log).Infow("plan_materialized",
		"plan_id", created.ID,
		"trainee_plan_id", purchase.ID,
		"trainee_id", purchase.TraineeID,
		"coach_profile_id", coachID,
		"charge_id", purchase.ChargeID,
	)

	s.notifyTrainee(ctx, purchase, created)

	return s.Get(ctx, created.ID)
}

func (s *Service) notifyTrainee(ctx context.Context, purchase *models.TraineePlan, p *models.Plan) {
	traineeUserID, err := s.store.TraineeUserID(ctx, purchase.TraineeID)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("plan_notify_lookup_failed",
			"trainee_id", purchase.TraineeID, "error", err.Error())
		return
	}

	_, err = s.notif.Dispatch(ctx, traineeUserID, types.NotificationTypePlanCreated, notification.Payload{
		Data: map[string]any{
			"plan_id":          p.ID,
			"plan_title":       p.Title,
			"coach_profile_id": purchase.CoachProfileID,
			"trainee_plan_id":  purchase.ID,
		},
	})
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("plan_notify_failed",
			"plan_id", p.ID, "trainee_id", purchase.TraineeID, "error", err.Error())
	}
}

// Get returns a plan with its workouts and meals.
func (s *Service) Get(ctx context.Context, planID int64) (*models.Plan, error) {
	p, err := s.store.FindPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPlanNotFound
	}
	return p, nil
}

// ListForCoach returns all plans owned by a coach.
func (s *Service) ListForCoach(ctx context.Context, coachID int64) ([]*models.Plan, error) {
	return s.store.ListPlansByCoach(ctx, coachID)
}

type UpdatePlanRequest struct {
	Type        *types.PlanType `json:"type"`
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	WorkoutIDs  []int64         `json:"workout_ids"`
	MealIDs     []int64         `json:"meal_ids"`
}

// Update edits a plan the coach owns; nil fields are left untouched and
// non-nil id lists replace the current membership sets.
func (s *Service) Update(ctx context.Context, coachID, planID int64, req *UpdatePlanRequest) (*models.Plan, error) {
	err := s.store.InTransaction(ctx, func(tx Store) error {
		p, err := tx.FindPlan(ctx, planID)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrPlanNotFound
		}
		if p.CoachProfileID != coachID {
			return ErrNotPlanOwner
		}

		if req.Type != nil {
			p.Type = *req.Type
		}
		if req.Title != nil {
			p.Title = *req.Title
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if err := tx.UpdatePlan(ctx, p); err != nil {
			return fmt.Errorf("update plan: %w", err)
		}

		if req.WorkoutIDs != nil {
			if err := tx.ReplaceWorkouts(ctx, planID, req.WorkoutIDs); err != nil {
				return fmt.Errorf("replace workouts: %w", err)
			}
		}
		if req.MealIDs != nil {
			if err := tx.ReplaceMeals(ctx, planID, req.MealIDs); err != nil {
				return fmt.Errorf("replace meals: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, planID)
}

// Delete removes a plan the coach owns.
func (s *Service) Delete(ctx context.Context, coachID, planID int64) error {
	return s.store.InTransaction(ctx, func(tx Store) error {
		p, err := tx.FindPlan(ctx, planID)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrPlanNotFound
		}
		if p.CoachProfileID != coachID {
			return ErrNotPlanOwner
		}
		return tx.DeletePlan(ctx, planID)
	})
}
