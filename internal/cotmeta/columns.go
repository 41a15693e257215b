package cotmeta

// ColumnAlias maps a technical COT column name to the short label shown to
// users and a description of what the column measures.
type ColumnAlias struct {
	Column      string `json:"column"`
	ShortLabel  string `json:"short_label"`
	Description string `json:"description"`
}

const noDescription = "No description available"

// columnAliases is process-wide constant data, loaded once and never mutated.
// Short labels must stay unique: formula translation relies on the
// label -> column direction being unambiguous.
var columnAliases = []ColumnAlias{
	{"As_of_Date_In_Form_YYMMDD", "Date", "Report date in YYMMDD format"},
	{"Report_Date_as_MM_DD_YYYY", "Report Date", "Report date in MM/DD/YYYY format"},
	{"CFTC_Contract_Market_Code", "Market Code", "CFTC contract market code"},
	{"CFTC_Commodity_Code", "Commodity Code", "CFTC commodity classification code"},
	{"Contract_Units", "Contract Units", "Number of units per contract"},

	{"Open_Interest_All", "Open Interest", "Total open interest for all contracts"},

	{"Prod_Merc_Positions_Long_ALL", "Prod/Merc Long", "Producer/Merchant long positions (all contracts)"},
	{"Prod_Merc_Positions_Short_ALL", "Prod/Merc Short", "Producer/Merchant short positions (all contracts)"},

	// The doubled underscore in the short/spread swap columns is how the
	// raw CFTC workbooks spell them; kept verbatim so formulas written
	// against exported CSVs keep working.
	{"Swap_Positions_Long_All", "Swap Long", "Swap dealer long positions (all contracts)"},
	{"Swap__Positions_Short_All", "Swap Short", "Swap dealer short positions (all contracts)"},
	{"Swap__Positions_Spread_All", "Swap Spread", "Swap dealer spread positions (all contracts)"},

	{"M_Money_Positions_Long_ALL", "MM Long", "Money Manager (Managed Money) long positions (all contracts)"},
	{"M_Money_Positions_Short_ALL", "MM Short", "Money Manager (Managed Money) short positions (all contracts)"},
	{"M_Money_Positions_Spread_ALL", "MM Spread", "Money Manager spread positions (all contracts)"},

	{"Other_Rept_Positions_Long_ALL", "Other Rept Long", "Other reportable long positions (all contracts)"},
	{"Other_Rept_Positions_Short_ALL", "Other Rept Short", "Other reportable short positions (all contracts)"},
	{"Other_Rept_Positions_Spread_ALL", "Other Rept Spread", "Other reportable spread positions (all contracts)"},

	{"Tot_Rept_Positions_Long_All", "Total Rept Long", "Total reportable long positions (all contracts)"},
	{"Tot_Rept_Positions_Short_All", "Total Rept Short", "Total reportable short positions (all contracts)"},

	{"NonRept_Positions_Long_All", "Non-Rept Long", "Non-reportable long positions (all contracts)"},
	{"NonRept_Positions_Short_All", "Non-Rept Short", "Non-reportable short positions (all contracts)"},

	{"Pct_of_OI_Prod_Merc_Long_All", "% OI Prod/Merc Long", "Producer/Merchant long positions as percentage of open interest"},
	{"Pct_of_OI_Prod_Merc_Short_All", "% OI Prod/Merc Short", "Producer/Merchant short positions as percentage of open interest"},
	{"Pct_of_OI_Swap_Long_All", "% OI Swap Long", "Swap dealer long positions as percentage of open interest"},
	{"Pct_of_OI_Swap_Short_All", "% OI Swap Short", "Swap dealer short positions as percentage of open interest"},
	{"Pct_of_OI_M_Money_Long_All", "% OI MM Long", "Money Manager long positions as percentage of open interest"},
	{"Pct_of_OI_M_Money_Short_All", "% OI MM Short", "Money Manager short positions as percentage of open interest"},
	{"Pct_of_OI_Tot_Rept_Long_All", "% OI Total Rept Long", "Total reportable long positions as percentage of open interest"},
	{"Pct_of_OI_Tot_Rept_Short_All", "% OI Total Rept Short", "Total reportable short positions as percentage of open interest"},
}

var (
	byColumn = func() map[string]ColumnAlias {
		m := make(map[string]ColumnAlias, len(columnAliases))
		for _, a := range columnAliases {
			m[a.Column] = a
		}
		return m
	}()
	byShortLabel = func() map[string]string {
		m := make(map[string]string, len(columnAliases))
		for _, a := range columnAliases {
			m[a.ShortLabel] = a.Column
		}
		return m
	}()
)

// ShortLabel returns the user-facing label for a technical column name.
// Unregistered columns are returned unchanged.
func ShortLabel(column string) string {
	if a, ok := byColumn[column]; ok {
		return a.ShortLabel
	}
	return column
}

// Description returns the description for a technical column name, or a
// fixed sentinel when the column is not registered.
func Description(column string) string {
	if a, ok := byColumn[column]; ok {
		return a.Description
	}
	return noDescription
}

// ColumnForShortLabel resolves a short label back to its technical column
// name. The second return reports whether the label is registered.
func ColumnForShortLabel(label string) (string, bool) {
	col, ok := byShortLabel[label]
	return col, ok
}

// Aliases returns the full registry in declaration order.
func Aliases() []ColumnAlias {
	out := make([]ColumnAlias, len(columnAliases))
	copy(out, columnAliases)
	return out
}
