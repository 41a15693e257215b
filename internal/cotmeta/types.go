package cotmeta

import "strings"

type typeRule struct {
	label    string
	keywords []string
}

// Classification is keyword-based and ordered: the first rule whose keyword
// appears in the upper-cased commodity name wins. Energy products must be
// checked before natural gas because names like "NAT GAS BASIS" carry both
// kinds of keywords in the raw data.
var typeRules = []typeRule{
	{"Metals", []string{
		"GOLD", "SILVER", "COPPER", "ALUMINUM", "ALUMINIUM", "PLATINUM",
		"PALLADIUM", "COBALT", "LITHIUM", "STEEL", "SCRAP", "HRC", "HOT-ROLL",
	}},
	{"Energy - Oil & Products", []string{
		"CRUDE", "WTI", "BRENT", "GASOLINE", "HEATING OIL", "ULSD", "USLD",
		"PROPANE", "ETHANE", "BUTANE", "NAPHTHA", "FUEL OIL", "JET",
		"MARINE FUEL", "RBOB", "CBOB", "CRACK", "BALMO",
	}},
	{"Natural Gas", []string{
		"NATURAL GAS", "NAT GAS", "HENRY HUB", "BASIS", "INDEX", "CITYGATE",
		"FINANCIAL", "PENULTIMATE", "LD1", "ICE", "NYME",
	}},
	{"Power & Emissions", []string{
		"ERCOT", "PJM", "NYISO", "CAISO", "MISO", "ISONE", "CARBON", "RGGI",
		"REC", "AEC", "COMPLIANCE", "EMISSIONS", "OFFSET", "VINTAGE",
		"DA PEAK", "DA OFF", "RT PK", "RT OFF", "DAY-AHEAD", "REAL-TIME",
		"HUB", "ZONE", "MONTH_OFF", "MONTH_ON", "OFF_DAP", "ON_DAP",
	}},
	{"Agricultural - Grains", []string{
		"CORN", "WHEAT", "SOYBEAN", "CANOLA", "OATS", "RICE", "ROUGH RICE",
	}},
	{"Agricultural - Softs", []string{
		"COFFEE", "COCOA", "SUGAR", "COTTON", "ORANGE JUICE", "FRZN CONCENTRATED",
	}},
	{"Livestock", []string{"CATTLE", "FEEDER", "HOGS", "LEAN HOGS"}},
	{"Dairy", []string{"MILK", "CHEESE", "BUTTER", "WHEY", "DRY MILK"}},
	{"Other Industrial", []string{"LUMBER", "RANDOM LENGTH", "UREA", "PALM OIL"}},
}

// CommodityType buckets a commodity name into a coarse category used by the
// dashboard's type filter.
func CommodityType(commodityName string) string {
	name := strings.ToUpper(commodityName)
	for _, rule := range typeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.label
			}
		}
	}
	return "Other"
}
