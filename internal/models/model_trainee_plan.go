package models

import (
	"time"

	"github.com/suniorfit/backend/pkg/types"

	"gorm.io/datatypes"
)

// TraineePlan is a trainee's purchase of a plan from a coach, created by the
// webhook reconciler once a charge is captured and completed by the coach
// when the actual Plan is authored.
//
// The (trainee_id, coach_profile_id, charge_id) unique index is the
// idempotency key for at-least-once webhook delivery: a replayed webhook hits
// the index instead of creating a second purchase.
type TraineePlan struct {
	ID             int64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TraineeID      int64          `gorm:"column:trainee_id;not null;uniqueIndex:unique_trainee_coach_charge,priority:1;index" json:"trainee_id"`
	CoachProfileID int64          `gorm:"column:coach_profile_id;not null;uniqueIndex:unique_trainee_coach_charge,priority:2;index" json:"coach_profile_id"`
	// PlanID 教练创建Plan后回填
	PlanID   *int64         `gorm:"column:plan_id" json:"plan_id"`
	PlanType types.PlanType `gorm:"column:plan_type;type:varchar(32);not null" json:"plan_type"`
	// Items 购买时选择的workout/meal id等原始信息，物化时原样带入assignment
	Items       datatypes.JSON       `gorm:"column:items;type:jsonb" json:"items"`
	ChargeID    string               `gorm:"column:charge_id;type:varchar(64);not null;uniqueIndex:unique_trainee_coach_charge,priority:3" json:"charge_id"`
	PurchasedAt time.Time            `gorm:"column:purchased_at;default:null" json:"purchased_at"`
	Status      types.PurchaseStatus `gorm:"column:status;type:varchar(16);not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`

	Trainee *TraineeProfile `gorm:"foreignKey:TraineeID" json:"trainee,omitempty"`
	Coach   *CoachProfile   `gorm:"foreignKey:CoachProfileID" json:"coach,omitempty"`
	Plan    *Plan           `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (TraineePlan) TableName() string {
	return "trainee_plan"
}

// IsPending reports whether the purchase still awaits materialization.
func (tp *TraineePlan) IsPending() bool {
	return tp != nil && tp.Status == types.PurchaseStatusPending
}
