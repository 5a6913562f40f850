package plan

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/suniorfit/backend/internal/models"
	"github.com/suniorfit/backend/pkg/types"
)

// Store is the persistence surface of the materializer. InTransaction hands
// the callback a Store scoped to one database transaction, so the whole
// materialization sequence commits atomically.
type Store interface {
	InTransaction(ctx context.Context, fn func(tx Store) error) error

	// FindPurchaseForUpdate returns nil (no error) when absent; inside a
	// transaction the row is locked until commit.
	FindPurchaseForUpdate(ctx context.Context, id int64) (*models.TraineePlan, error)
	// CompletePurchase flips pending→completed and links the plan;
	// completed=false means the row was no longer pending.
	CompletePurchase(ctx context.Context, purchaseID, planID int64) (completed bool, err error)

	CreatePlan(ctx context.Context, p *models.Plan) error
	FindPlan(ctx context.Context, id int64) (*models.Plan, error)
	ListPlansByCoach(ctx context.Context, coachID int64) ([]*models.Plan, error)
	UpdatePlan(ctx context.Context, p *models.Plan) error
	DeletePlan(ctx context.Context, id int64) error

	AttachWorkouts(ctx context.Context, planID int64, workoutIDs []int64) error
	AttachMeals(ctx context.Context, planID int64, mealIDs []int64) error
	ReplaceWorkouts(ctx context.Context, planID int64, workoutIDs []int64) error
	ReplaceMeals(ctx context.Context, planID int64, mealIDs []int64) error

	// CreateAssignmentIfAbsent attaches the plan to the trainee unless an
	// assignment with the same charge_id already exists for that trainee.
	CreateAssignmentIfAbsent(ctx context.Context, a *models.PlanAssignment) error
	TraineeUserID(ctx context.Context, traineeID int64) (int64, error)
}

type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) InTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (s *gormStore) FindPurchaseForUpdate(ctx context.Context, id int64) (*models.TraineePlan, error) {
	var tp models.TraineePlan
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&tp, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tp, nil
}

func (s *gormStore) CompletePurchase(ctx context.Context, purchaseID, planID int64) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.TraineePlan{}).
		Where("id = ? AND status = ?", purchaseID, types.PurchaseStatusPending).
		Updates(map[string]any{"status": types.PurchaseStatusCompleted, "plan_id": planID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *gormStore) CreatePlan(ctx context.Context, p *models.Plan) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *gormStore) FindPlan(ctx context.Context, id int64) (*models.Plan, error) {
	var p models.Plan
	err := s.db.WithContext(ctx).
		Preload("Workouts").
		Preload("Meals").
		First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *gormStore) ListPlansByCoach(ctx context.Context, coachID int64) ([]*models.Plan, error) {
	var plans []*models.Plan
	err := s.db.WithContext(ctx).
		Preload("Workouts").
		Preload("Meals").
		Where("coach_profile_id = ?", coachID).
		Order("created_at DESC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (s *gormStore) UpdatePlan(ctx context.Context, p *models.Plan) error {
	return s.db.WithContext(ctx).
		Model(&models.Plan{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{"type": p.Type, "title": p.Title, "description": p.Description}).Error
}

func (s *gormStore) DeletePlan(ctx context.Context, id int64) error {
	// membership rows first, then the plan itself
	if err := s.db.WithContext(ctx).Where("plan_id = ?", id).Delete(&models.PlanWorkout{}).Error; err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("plan_id = ?", id).Delete(&models.PlanMeal{}).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.Plan{}, id).Error
}

func (s *gormStore) AttachWorkouts(ctx context.Context, planID int64, workoutIDs []int64) error {
	if len(workoutIDs) == 0 {
		return nil
	}
	rows := make([]*models.PlanWorkout, 0, len(workoutIDs))
	for _, id := range workoutIDs {
		rows = append(rows, &models.PlanWorkout{PlanID: planID, WorkoutID: id})
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(rows).Error
}

func (s *gormStore) AttachMeals(ctx context.Context, planID int64, mealIDs []int64) error {
	if len(mealIDs) == 0 {
		return nil
	}
	rows := make([]*models.PlanMeal, 0, len(mealIDs))
	for _, id := range mealIDs {
		rows = append(rows, &models.PlanMeal{PlanID: planID, MealID: id})
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(rows).Error
}

func (s *gormStore) ReplaceWorkouts(ctx context.Context, planID int64, workoutIDs []int64) error {
	if err := s.db.WithContext(ctx).Where("plan_id = ?", planID).Delete(&models.PlanWorkout{}).Error; err != nil {
		return err
	}
	return s.AttachWorkouts(ctx, planID, workoutIDs)
}

func (s *gormStore) ReplaceMeals(ctx context.Context, planID int64, mealIDs []int64) error {
	if err := s.db.WithContext(ctx).Where("plan_id = ?", planID).Delete(&models.PlanMeal{}).Error; err != nil {
		return err
	}
	return s.AttachMeals(ctx, planID, mealIDs)
}

func (s *gormStore) CreateAssignmentIfAbsent(ctx context.Context, a *models.PlanAssignment) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "trainee_id"}, {Name: "charge_id"}},
		DoNothing: true,
	}).Create(a).Error
}

func (s *gormStore) TraineeUserID(ctx context.Context, traineeID int64) (int64, error) {
	var t models.TraineeProfile
	if err := s.db.WithContext(ctx).First(&t, traineeID).Error; err != nil {
		return 0, err
	}
	return t.UserID, nil
}
