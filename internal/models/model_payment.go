package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Payment is the ledger entry for a single charge attempt at the payment
// provider. One row per charge_id; every webhook delivery for the same charge
// overwrites the mutable fields with the latest observed state.
type Payment struct {
	ID       int64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ChargeID string         `gorm:"column:charge_id;type:varchar(64);not null;uniqueIndex:unique_payment_charge_id" json:"charge_id"`
	Amount   float64        `gorm:"column:amount;type:decimal(12,2)" json:"amount"`
	Currency string         `gorm:"column:currency;type:varchar(10)" json:"currency"`
	Status   string         `gorm:"column:status;type:varchar(32)" json:"status"`
	// Reference 自由格式的关联信息（订单号、交易号等）
	Reference datatypes.JSON `gorm:"column:reference;type:jsonb" json:"reference"`
	// Metadata 创建charge时附带的键值信息，webhook回传后用于定位购买人
	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	// Raw 最近一次收到的完整provider payload
	Raw       datatypes.JSON `gorm:"column:raw;type:jsonb" json:"raw"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// IsSuccessful reports whether the provider considers the charge captured.
func (p *Payment) IsSuccessful() bool {
	if p == nil {
		return false
	}
	return IsSuccessStatus(p.Status)
}

// IsSuccessStatus reports whether a provider-reported status belongs to the
// success set. Tap reports CAPTURED for card charges and SUCCESS for some
// wallet flows; comparison is case-insensitive.
func IsSuccessStatus(status string) bool {
	switch strings.ToUpper(status) {
	case "CAPTURED", "SUCCESS":
		return true
	}
	return false
}
