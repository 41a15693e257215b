package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceBar is one daily OHLCV bar for a commodity, sourced from the price
// provider and cached in storage. Close is the only required price field.
type PriceBar struct {
	ID            uint64           `gorm:"primaryKey;autoIncrement" json:"-"`
	CommodityName string           `gorm:"type:text;not null;uniqueIndex:ux_price_commodity_date,priority:1;index" json:"commodity_name"`
	Date          time.Time        `gorm:"type:date;not null;uniqueIndex:ux_price_commodity_date,priority:2" json:"date"`
	Open          *decimal.Decimal `gorm:"type:numeric(20,6)" json:"open,omitempty"`
	High          *decimal.Decimal `gorm:"type:numeric(20,6)" json:"high,omitempty"`
	Low           *decimal.Decimal `gorm:"type:numeric(20,6)" json:"low,omitempty"`
	Close         decimal.Decimal  `gorm:"type:numeric(20,6);not null" json:"close"`
	Volume        *int64           `json:"volume,omitempty"`
}

func (PriceBar) TableName() string {
	return "commodity_prices"
}
