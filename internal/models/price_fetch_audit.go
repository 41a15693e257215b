package models

import (
	"time"

	"gorm.io/datatypes"
)

// PriceFetchAudit records one upstream price fetch: the window requested,
// how many bars came back and the raw provider payload. Kept for debugging
// bad tickers without re-hitting the provider.
type PriceFetchAudit struct {
	ID            uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	CommodityName string         `gorm:"type:text;index;not null" json:"commodity_name"`
	Ticker        string         `gorm:"type:text;not null" json:"ticker"`
	WindowStart   time.Time      `gorm:"type:date" json:"window_start"`
	WindowEnd     time.Time      `gorm:"type:date" json:"window_end"`
	BarCount      int            `gorm:"not null" json:"bar_count"`
	Error         *string        `gorm:"type:text" json:"error,omitempty"`
	RawJSON       datatypes.JSON `gorm:"type:jsonb" json:"-"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
}

func (PriceFetchAudit) TableName() string {
	return "price_fetch_audits"
}
