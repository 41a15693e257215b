package cotmeta

import "regexp"

// VintageGroup collects commodity contracts that share a base name and
// exchange but differ only in vintage year (e.g. carbon allowance V2024 vs
// V2025). Groups are keyed per exchange so the same base name on two
// exchanges stays separate.
type VintageGroup struct {
	BaseName    string   `json:"base_name"`
	Exchange    string   `json:"exchange"`
	Commodities []string `json:"commodities"`
	Pattern     string   `json:"vintage_pattern"`
	Description string   `json:"description"`
}

var vintageGroups = []VintageGroup{
	{
		BaseName: "CALIF CARBON ALLOWANCE",
		Exchange: "ICE FUTURES ENERGY DIV",
		Commodities: []string{
			"CALIF CARBON ALLOWANCE V2022",
			"CALIF CARBON ALLOWANCE V2023",
			"CALIF CARBON ALLOWANCE V2024",
			"CALIF CARBON ALLOWANCE V2025",
		},
		Pattern:     "V{YYYY}",
		Description: "California Carbon Allowance with vintage years",
	},
	{
		BaseName: "CALIF CARBON ALLOWANCE",
		Exchange: "CHICAGO MERCANTILE EXCHANGE",
		Commodities: []string{
			"CALIF CARBON ALLOWANCE V2022",
			"CALIF CARBON ALLOWANCE V2023",
			"CALIF CARBON ALLOWANCE V2024",
			"CALIF CARBON ALLOWANCE V2025",
		},
		Pattern:     "V{YYYY}",
		Description: "California Carbon Allowance with vintage years",
	},
	{
		BaseName: "CALIF CARBON ALL",
		Exchange: "ICE FUTURES ENERGY DIV",
		Commodities: []string{
			"CALIF CARBON ALL VINTAGE 2025",
			"CALIF CARBON ALL VINTAGE 2026",
		},
		Pattern:     "VINTAGE {YYYY}",
		Description: "California Carbon All vintage series",
	},
	{
		BaseName: "CALIF CARBON",
		Exchange: "ICE FUTURES ENERGY DIV",
		// CALIF CARBON CURRENT AUCTION is deliberately absent: it is a
		// contract of its own, not a vintage.
		Commodities: []string{
			"CALIF CARBON 21",
			"CALIF CARBON 22",
			"CALIF CARBON 23",
			"CALIF CARBON ALL VINTAGE 2025",
			"CALIF CARBON ALL VINTAGE 2026",
			"CALIF CARBON ALLOWANCE V2022",
			"CALIF CARBON ALLOWANCE V2023",
			"CALIF CARBON ALLOWANCE V2024",
			"CALIF CARBON ALLOWANCE V2025",
			"CALIF CARBON VINTAGE 2021",
			"CALIF CARBON VINTAGE SPEC 2028",
		},
		Pattern:     "Mixed (V{YYYY}, {YY}, VINTAGE {YYYY})",
		Description: "California Carbon - various vintage formats",
	},
	{
		BaseName: "RGGI",
		Exchange: "ICE FUTURES ENERGY DIV",
		Commodities: []string{
			"RGGI VINTAGE 2021",
			"RGGI V2022-ICE",
			"RGGI VINTAGE 2022",
			"RGGI V2023",
			"RGGI V2024",
			"RGGI V2025",
			"RGGI V2026",
		},
		Pattern:     "V{YYYY} or VINTAGE {YYYY}",
		Description: "Regional Greenhouse Gas Initiative credits",
	},
	{
		BaseName: "NEW JERSEY RECs CLASS 2",
		Exchange: "ICE FUTURES ENERGY DIV",
		Commodities: []string{
			"NEW JERSEY RECs CLASS 2 V2025",
			"NEW JERSEY RECs CLASS 2 V2026",
			"NEW JERSEY RECs CLASS 2 V2027",
		},
		Pattern:     "V{YYYY}",
		Description: "New Jersey Renewable Energy Certificates Class 2",
	},
	{
		BaseName: "PENNSYLVANIA AEC TIER 2",
		Exchange: "ICE FUTURES ENERGY DIV",
		Commodities: []string{
			"PENNSYLVANIA AEC TIER 2-V2024",
			"PENNSYLVANIA AEC TIER 2-V2025",
			"PENNSYLVANIA AEC TIER 2-V2026",
			"PENNSYLVANIA AEC TIER 2-V2027",
			"PENNSYLVANIA AEC TIER 2-V2028",
		},
		Pattern:     "V{YYYY}",
		Description: "Pennsylvania Alternative Energy Credit Tier 2",
	},
	{
		BaseName: "PJM TRI-Q RECs CLASS 1",
		Exchange: "ICE FUTURES ENERGY DIV",
		Commodities: []string{
			"PJM TRI-Q RECs CLASS 1 V2022",
			"PJM TRI-Q RECs CLASS 1 V2023",
		},
		Pattern:     "V{YYYY}",
		Description: "PJM Tri-Qualified Renewable Energy Certificates Class 1",
	},
	{
		BaseName: "TX GREEN-E REC",
		Exchange: "ICE FUTURES ENERGY DIV",
		Commodities: []string{
			"TX GREEN-E REC V22 BACK HALF",
			"TX GREEN-E REC V22 FRONT HALF",
			"TX GREEN-E REC V23 BACK HALF",
			"TX GREEN-E REC V23 FRONT HALF",
			"TX GREEN-E REC V24 BACK HALF",
			"TX GREEN-E REC V24 FRONT HALF",
			"TX GREEN-E REC V25 BACK HALF",
			"TX GREEN-E REC V25 FRONT HALF",
		},
		Pattern:     "V{YY} {HALF}",
		Description: "Texas Green-E Renewable Energy Certificates with vintage and half-year",
	},
	{
		BaseName: "TX REC CRS",
		Exchange: "ICE FUTURES ENERGY DIV",
		Commodities: []string{
			"TX REC CRS V26 BACK HALF",
			"TX REC CRS V26 FRONT HALF",
			"TX REC CRS V27 BACK HALF",
			"TX REC CRS V27 FRONT HALF",
			"TX REC CRS V28 BACK HALF",
			"TX REC CRS V28 FRONT HALF",
			"TX REC CRS V29 BACK HALF",
			"TX REC CRS V29 FRONT HALF",
			"TX REC CRS V30 BACK HALF",
			"TX REC CRS V30 FRONT HALF",
		},
		Pattern:     "V{YY} {HALF}",
		Description: "Texas Renewable Energy Credit CRS with vintage and half-year",
	},
	{
		BaseName: "WASHINGTON CARBON",
		Exchange: "ICE FUTURES ENERGY DIV",
		Commodities: []string{
			"WASHINGTON CARBON V2023",
			"WASHINGTON CARBON V2024",
		},
		Pattern:     "V{YYYY}",
		Description: "Washington Carbon Allowance",
	},
	{
		BaseName: "WASHINGTON CARBON ALL",
		Exchange: "ICE FUTURES ENERGY DIV",
		Commodities: []string{
			"WASHINGTON CARBON ALL V2024",
			"WASHINGTON CARBON ALL V2025",
		},
		Pattern:     "V{YYYY}",
		Description: "Washington Carbon All vintage series",
	},
}

type groupKey struct {
	commodity string
	exchange  string
}

var groupIndex = func() map[groupKey]*VintageGroup {
	m := make(map[groupKey]*VintageGroup)
	for i := range vintageGroups {
		g := &vintageGroups[i]
		for _, c := range g.Commodities {
			m[groupKey{c, g.Exchange}] = g
		}
	}
	return m
}()

// VintageGroups returns all configured groups.
func VintageGroups() []VintageGroup {
	out := make([]VintageGroup, len(vintageGroups))
	copy(out, vintageGroups)
	return out
}

// VintageGroupFor returns the group a commodity/exchange pair belongs to,
// or nil when the commodity is not a vintage contract.
func VintageGroupFor(commodity, exchange string) *VintageGroup {
	if exchange != "" {
		return groupIndex[groupKey{commodity, exchange}]
	}
	for k, g := range groupIndex {
		if k.commodity == commodity {
			return g
		}
	}
	return nil
}

// IsVintageCommodity reports whether the commodity belongs to any vintage group.
func IsVintageCommodity(commodity, exchange string) bool {
	return VintageGroupFor(commodity, exchange) != nil
}

var vintagePatterns = []struct {
	re     *regexp.Regexp
	digits int
}{
	{regexp.MustCompile(`(?i)V(\d{4})`), 4},
	{regexp.MustCompile(`(?i)VINTAGE\s+(\d{4})`), 4},
	{regexp.MustCompile(`(?i)V(\d{2})\s`), 2},
	{regexp.MustCompile(`(?i)V(\d{2})$`), 2},
	{regexp.MustCompile(`\b(\d{4})\b`), 4},
	{regexp.MustCompile(`\b(\d{2})\b`), 2},
}

// ExtractVintageYear pulls the 4-digit vintage year out of a commodity name,
// widening 2-digit years into the 2000s. Returns "" when no year is present.
func ExtractVintageYear(commodity string) string {
	for _, p := range vintagePatterns {
		if m := p.re.FindStringSubmatch(commodity); m != nil {
			if p.digits == 2 {
				return "20" + m[1]
			}
			return m[1]
		}
	}
	return ""
}
