package models

import (
	"time"

	"github.com/suniorfit/backend/pkg/types"

	"gorm.io/datatypes"
)

// Plan is a coach-authored bundle of workouts and meals. It is only ever
// created through materialization of a pending TraineePlan purchase.
type Plan struct {
	ID             int64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CoachProfileID int64          `gorm:"column:coach_profile_id;not null;index" json:"coach_profile_id"`
	Type           types.PlanType `gorm:"column:type;type:varchar(32);not null" json:"type"`
	Title          string         `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description    string         `gorm:"column:description;type:text" json:"description"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	Coach    *CoachProfile `gorm:"foreignKey:CoachProfileID" json:"coach,omitempty"`
	Workouts []*Workout    `gorm:"many2many:plan_workout;joinForeignKey:PlanID;joinReferences:WorkoutID" json:"workouts,omitempty"`
	Meals    []*Meal       `gorm:"many2many:plan_meal;joinForeignKey:PlanID;joinReferences:MealID" json:"meals,omitempty"`
}

func (Plan) TableName() string {
	return "plans"
}

// PlanWorkout is the plan↔workout membership row. Membership only, no order.
type PlanWorkout struct {
	PlanID    int64     `gorm:"column:plan_id;primaryKey" json:"plan_id"`
	WorkoutID int64     `gorm:"column:workout_id;primaryKey" json:"workout_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (PlanWorkout) TableName() string {
	return "plan_workout"
}

// PlanMeal is the plan↔meal membership row.
type PlanMeal struct {
	PlanID    int64     `gorm:"column:plan_id;primaryKey" json:"plan_id"`
	MealID    int64     `gorm:"column:meal_id;primaryKey" json:"meal_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (PlanMeal) TableName() string {
	return "plan_meal"
}

// PlanAssignment attaches a materialized Plan to a trainee, carrying the
// purchase correlation forward from the originating TraineePlan. The
// (trainee_id, charge_id) unique index guards against a retried
// materialization attaching the same paid-for plan twice.
type PlanAssignment struct {
	ID          int64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PlanID      int64          `gorm:"column:plan_id;not null;index" json:"plan_id"`
	TraineeID   int64          `gorm:"column:trainee_id;not null;uniqueIndex:unique_assignment_trainee_charge,priority:1" json:"trainee_id"`
	ChargeID    string         `gorm:"column:charge_id;type:varchar(64);not null;uniqueIndex:unique_assignment_trainee_charge,priority:2" json:"charge_id"`
	Items       datatypes.JSON `gorm:"column:items;type:jsonb" json:"items"`
	PurchasedAt time.Time      `gorm:"column:purchased_at;default:null" json:"purchased_at"`
	CreatedAt   time.Time      `json:"created_at"`

	Plan *Plan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (PlanAssignment) TableName() string {
	return "plan_trainee"
}
