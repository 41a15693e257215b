package models

import "time"

// PriceMapping links a COT commodity name to the provider ticker its price
// history is fetched under. AutoMapped rows were seeded from the static
// ticker table; Verified marks mappings a human has checked.
type PriceMapping struct {
	CommodityName string    `gorm:"primaryKey;type:text" json:"commodity_name"`
	TickerSymbol  string    `gorm:"type:text;index" json:"ticker_symbol"`
	TickerType    string    `gorm:"type:text" json:"ticker_type"`
	AutoMapped    bool      `gorm:"not null;default:false" json:"auto_mapped"`
	Verified      bool      `gorm:"not null;default:false" json:"verified"`
	Notes         *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (PriceMapping) TableName() string {
	return "commodity_price_mappings"
}
