package models

import (
	"time"

	"github.com/suniorfit/backend/pkg/types"

	"gorm.io/datatypes"
)

// Notification is the persisted copy of a user-facing notification. The row
// is the durable source of truth; real-time push is best-effort on top.
type Notification struct {
	ID          string                 `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	RecipientID int64                  `gorm:"column:recipient_id;not null;index:idx_notification_recipient" json:"recipient_id"`
	Type        types.NotificationType `gorm:"column:type;type:varchar(64);not null" json:"type"`
	Title       string                 `gorm:"column:title;type:varchar(255)" json:"title"`
	Message     string                 `gorm:"column:message;type:text" json:"message"`
	// 阿拉伯语文案，客户端按语言选用
	TitleAr   string         `gorm:"column:title_ar;type:varchar(255)" json:"title_ar"`
	MessageAr string         `gorm:"column:message_ar;type:text" json:"message_ar"`
	Data      datatypes.JSON `gorm:"column:data;type:jsonb" json:"data"`
	DeepLink  string         `gorm:"column:deep_link;type:varchar(255)" json:"deep_link"`
	ReadAt    *time.Time     `gorm:"column:read_at;default:null" json:"read_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) IsRead() bool {
	return n != nil && n.ReadAt != nil
}
