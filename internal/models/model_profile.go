package models

import "time"

// User is the account record both coach and trainee profiles hang off.
type User struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`
	Phone     string    `gorm:"column:phone;type:varchar(32)" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// CoachProfile carries the per-plan-type prices a trainee is charged.
type CoachProfile struct {
	ID     int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	// 三种套餐价格，货币由配置决定
	NutritionPrice   float64 `gorm:"column:nutrition_price;type:decimal(12,2)" json:"nutrition_price"`
	WorkoutPrice     float64 `gorm:"column:workout_price;type:decimal(12,2)" json:"workout_price"`
	FullPackagePrice float64 `gorm:"column:full_package_price;type:decimal(12,2)" json:"full_package_price"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (CoachProfile) TableName() string {
	return "coach_profiles"
}

type TraineeProfile struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (TraineeProfile) TableName() string {
	return "trainee_profiles"
}
