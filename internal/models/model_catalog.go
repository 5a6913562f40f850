package models

import "time"

// Workout is a coach-authored workout attached to plans by membership.
type Workout struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CoachProfileID int64     `gorm:"column:coach_profile_id;not null;index" json:"coach_profile_id"`
	Title          string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Workout) TableName() string {
	return "workouts"
}

// Meal is a coach-authored meal attached to plans by membership.
type Meal struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CoachProfileID int64     `gorm:"column:coach_profile_id;not null;index" json:"coach_profile_id"`
	Title          string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Meal) TableName() string {
	return "meals"
}
