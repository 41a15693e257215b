package cotmeta

import (
	"sort"
	"strings"
)

// TickerPair holds the Yahoo Finance tickers for a commodity. Futures is the
// preferred symbol; ETF is a fallback when the futures contract has no quote
// history.
type TickerPair struct {
	Futures string
	ETF     string
}

const (
	TickerTypeFutures = "futures"
	TickerTypeETF     = "etf"
)

var tickerMapping = map[string]TickerPair{
	// Metals
	"GOLD":      {"GC=F", "GLD"},
	"SILVER":    {"SI=F", "SLV"},
	"COPPER":    {"HG=F", "CPER"},
	"PLATINUM":  {"PL=F", "PPLT"},
	"PALLADIUM": {"PA=F", "PALL"},

	// Energy - crude
	"CRUDE OIL, LIGHT SWEET": {"CL=F", "USO"},
	"CRUDE OIL":              {"CL=F", "USO"},
	"WTI":                    {"CL=F", "USO"},
	"BRENT CRUDE":            {"BZ=F", "BNO"},
	"BRENT":                  {"BZ=F", "BNO"},

	// Energy - products
	"GASOLINE":      {"RB=F", "UGA"},
	"RBOB GASOLINE": {"RB=F", "UGA"},
	"HEATING OIL":   {"HO=F", "UHN"},
	"NATURAL GAS":   {"NG=F", "UNG"},
	"NAT GAS":       {"NG=F", "UNG"},

	// Grains
	"CORN":         {"ZC=F", "CORN"},
	"WHEAT":        {"ZW=F", "WEAT"},
	"SOYBEANS":     {"ZS=F", "SOYB"},
	"SOYBEAN OIL":  {"ZL=F", ""},
	"SOYBEAN MEAL": {"ZM=F", ""},
	"OATS":         {"ZO=F", ""},
	"ROUGH RICE":   {"ZR=F", ""},
	"RICE":         {"ZR=F", ""},

	// Softs
	"COFFEE":       {"KC=F", "JO"},
	"SUGAR":        {"SB=F", "CANE"},
	"COTTON":       {"CT=F", "BAL"},
	"ORANGE JUICE": {"OJ=F", ""},
	"COCOA":        {"CC=F", "NIB"},

	// Livestock
	"LIVE CATTLE":   {"LE=F", "COW"},
	"CATTLE":        {"LE=F", "COW"},
	"FEEDER CATTLE": {"GF=F", ""},
	"FEEDER":        {"GF=F", ""},
	"LEAN HOGS":     {"HE=F", ""},
	"HOGS":          {"HE=F", ""},

	// Dairy
	"MILK":   {"DC=F", ""},
	"CHEESE": {"DA=F", ""},
	"BUTTER": {"DB=F", ""},

	// Other
	"LUMBER":               {"LBS=F", ""},
	"RANDOM LENGTH LUMBER": {"LBS=F", ""},
}

// nameVariants maps a canonical name to alternate spellings seen in the COT
// data, so that e.g. "LEAN HOGS FINANCIAL" still resolves to the hogs ticker.
var nameVariants = map[string][]string{
	"CRUDE OIL, LIGHT SWEET": {"CRUDE OIL", "WTI CRUDE", "LIGHT SWEET CRUDE"},
	"GASOLINE":               {"RBOB GASOLINE", "GASOLINE RBOB"},
	"NATURAL GAS":            {"NAT GAS", "HENRY HUB", "NATURAL GAS FINANCIAL"},
	"LIVE CATTLE":            {"CATTLE", "LIVE CATTLE FINANCIAL"},
	"FEEDER CATTLE":          {"FEEDER", "FEEDER CATTLE FINANCIAL"},
	"LEAN HOGS":              {"HOGS", "LEAN HOGS FINANCIAL"},
	"MILK":                   {"MILK, CLASS III", "MILK CLASS III"},
	"CORN":                   {"CORN FINANCIAL"},
	"WHEAT":                  {"WHEAT FINANCIAL"},
	"SOYBEANS":               {"SOYBEANS FINANCIAL"},
}

// Substring matching walks keys longest-first so "ROUGH RICE" wins over
// "RICE" regardless of map iteration order.
var sortedTickerKeys = func() []string {
	keys := make([]string, 0, len(tickerMapping))
	for k := range tickerMapping {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

var exchangeSuffixes = []string{
	" FINANCIAL",
	" - FINANCIAL",
	" - ICE",
	" - CME",
	" - NYMEX",
	" - COMEX",
}

// NormalizeCommodityName upper-cases and strips exchange suffixes that do not
// affect ticker lookup.
func NormalizeCommodityName(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	for _, suffix := range exchangeSuffixes {
		n = strings.TrimSuffix(n, suffix)
	}
	return strings.TrimSpace(n)
}

func pickTicker(pair TickerPair, preferFutures bool) string {
	if preferFutures && pair.Futures != "" {
		return pair.Futures
	}
	if pair.ETF != "" {
		return pair.ETF
	}
	return pair.Futures
}

// TickerForCommodity resolves a commodity name to a Yahoo Finance ticker.
// Resolution order: exact match, substring match against the mapping keys,
// then the variant table. Returns "" when nothing matches.
func TickerForCommodity(name string, preferFutures bool) string {
	upper := NormalizeCommodityName(name)

	if pair, ok := tickerMapping[upper]; ok {
		return pickTicker(pair, preferFutures)
	}
	for _, key := range sortedTickerKeys {
		if strings.Contains(upper, key) {
			return pickTicker(tickerMapping[key], preferFutures)
		}
	}
	for base, variants := range nameVariants {
		for _, v := range variants {
			if upper == v || strings.Contains(upper, v) {
				if pair, ok := tickerMapping[base]; ok {
					return pickTicker(pair, preferFutures)
				}
			}
		}
	}
	return ""
}

// TickersForCommodity returns both futures and ETF tickers for a commodity,
// with ok=false when the commodity has no mapping at all.
func TickersForCommodity(name string) (TickerPair, bool) {
	upper := NormalizeCommodityName(name)
	if pair, ok := tickerMapping[upper]; ok {
		return pair, true
	}
	for _, key := range sortedTickerKeys {
		if strings.Contains(upper, key) {
			return tickerMapping[key], true
		}
	}
	return TickerPair{}, false
}

// TickerType classifies a ticker symbol the way the mapping table does:
// anything carrying the "=F" futures marker is a futures symbol.
func TickerType(ticker string) string {
	if strings.Contains(ticker, "=F") {
		return TickerTypeFutures
	}
	return TickerTypeETF
}
