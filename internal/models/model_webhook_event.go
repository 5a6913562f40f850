package models

import (
	"time"

	"gorm.io/datatypes"
)

type WebhookEventStatus string

const (
	WebhookEventStatusReceived     WebhookEventStatus = "received"
	WebhookEventStatusHandled      WebhookEventStatus = "handled"
	WebhookEventStatusHandleFailed WebhookEventStatus = "handle_failed"
)

// WebhookEvent is the append-only audit record of webhook deliveries. The
// payments ledger keeps only the latest state per charge; this log keeps the
// full history so replays and disputes can be reconstructed.
type WebhookEvent struct {
	ID       string             `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	Provider string             `gorm:"column:provider;type:varchar(32);not null" json:"provider"`
	ChargeID string             `gorm:"column:charge_id;type:varchar(64);index:idx_webhook_event_charge_id" json:"charge_id"`
	TraceID  string             `gorm:"column:trace_id;type:varchar(64)" json:"trace_id"`
	Status   WebhookEventStatus `gorm:"column:status;type:varchar(16);not null" json:"status"`
	Payload  datatypes.JSON     `gorm:"column:payload;type:jsonb" json:"payload"`
	Result   *datatypes.JSON    `gorm:"column:result;type:jsonb" json:"result"`
	CreatedAt time.Time         `json:"created_at"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}
