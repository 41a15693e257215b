package models

import "time"

// CotReport is one disaggregated Commitment of Traders snapshot for a
// commodity/exchange pair on a report date. Rows are written once by the
// loader and are read-only afterwards.
type CotReport struct {
	ID                 uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	ReportDate         time.Time `gorm:"type:date;not null;uniqueIndex:ux_cot_commodity_date,priority:3;index" json:"report_date"`
	ReportDateText     string    `gorm:"type:text" json:"report_date_text"`
	CommodityName      string    `gorm:"type:text;not null;uniqueIndex:ux_cot_commodity_date,priority:1;index" json:"commodity_name"`
	ExchangeName       string    `gorm:"type:text;not null;uniqueIndex:ux_cot_commodity_date,priority:2;index" json:"exchange_name"`
	CommodityType      string    `gorm:"type:text;index" json:"commodity_type"`
	CFTCCommodityCode  string    `gorm:"type:text;index" json:"cftc_commodity_code"`
	ContractMarketCode string    `gorm:"type:text" json:"cftc_contract_market_code"`
	ContractUnits      string    `gorm:"type:text" json:"contract_units"`

	OpenInterestAll float64 `gorm:"not null;index" json:"open_interest_all"`

	ProdMercLong  float64 `json:"prod_merc_positions_long_all"`
	ProdMercShort float64 `json:"prod_merc_positions_short_all"`

	SwapLong   float64 `json:"swap_positions_long_all"`
	SwapShort  float64 `json:"swap_positions_short_all"`
	SwapSpread float64 `json:"swap_positions_spread_all"`

	MMoneyLong   float64 `json:"m_money_positions_long_all"`
	MMoneyShort  float64 `json:"m_money_positions_short_all"`
	MMoneySpread float64 `json:"m_money_positions_spread_all"`

	OtherReptLong   float64 `json:"other_rept_positions_long_all"`
	OtherReptShort  float64 `json:"other_rept_positions_short_all"`
	OtherReptSpread float64 `json:"other_rept_positions_spread_all"`

	TotReptLong  float64 `json:"tot_rept_positions_long_all"`
	TotReptShort float64 `json:"tot_rept_positions_short_all"`

	NonReptLong  float64 `json:"non_rept_positions_long_all"`
	NonReptShort float64 `json:"non_rept_positions_short_all"`

	PctOIProdMercLong  float64 `json:"pct_of_oi_prod_merc_long_all"`
	PctOIProdMercShort float64 `json:"pct_of_oi_prod_merc_short_all"`
	PctOISwapLong      float64 `json:"pct_of_oi_swap_long_all"`
	PctOISwapShort     float64 `json:"pct_of_oi_swap_short_all"`
	PctOIMMoneyLong    float64 `json:"pct_of_oi_m_money_long_all"`
	PctOIMMoneyShort   float64 `json:"pct_of_oi_m_money_short_all"`
	PctOITotReptLong   float64 `json:"pct_of_oi_tot_rept_long_all"`
	PctOITotReptShort  float64 `json:"pct_of_oi_tot_rept_short_all"`
}

func (CotReport) TableName() string {
	return "cot_reports"
}
