// Package industry maps fine-grained census industry codes onto the coarse
// sector groups used by the employment-change dataset, and derives per-sector
// job-loss probabilities from that dataset.
package industry

// Group identifies one of the coarse sector groups. Values are the 8-digit
// sector series codes used by the employment statistics source, so a Group
// can be matched directly against the rate table's key column.
type Group int

// Unclassified marks a census code outside every crosswalk range. Records
// carrying it are excluded from the analysis universe.
const Unclassified Group = 0

// The 13 sector groups.
const (
	MiningLogging        Group = 10000000
	Construction         Group = 20000000
	Manufacturing        Group = 30000000
	WholesaleTrade       Group = 41000000
	RetailTrade          Group = 42000000
	TransportUtilities   Group = 43000000
	Information          Group = 50000000
	FinancialActivities  Group = 55000000
	ProfessionalBusiness Group = 60000000
	EducationHealth      Group = 65000000
	LeisureHospitality   Group = 70000000
	OtherServices        Group = 80000000
	Government           Group = 90000000
)

// codeRange maps an inclusive span of census industry codes to a sector group.
type codeRange struct {
	lo, hi int
	group  Group
}

// crosswalk orders the census-code ranges; the first matching range wins.
// Agriculture (0170-0290), the military ranges (9670-9870), the
// last-worked-5+-years-ago sentinel (9920), and every other gap have no
// sector series and classify to Unclassified. Utilities (0570-0690) and
// transportation (6070-6390) share one sector series, so distinct groups
// number 13 across 14 ranges.
var crosswalk = []codeRange{
	{370, 490, MiningLogging},
	{570, 690, TransportUtilities},
	{770, 770, Construction},
	{1070, 3990, Manufacturing},
	{4070, 4590, WholesaleTrade},
	{4670, 5790, RetailTrade},
	{6070, 6390, TransportUtilities},
	{6470, 6780, Information},
	{6870, 7190, FinancialActivities},
	{7270, 7790, ProfessionalBusiness},
	{7860, 8470, EducationHealth},
	{8560, 8690, LeisureHospitality},
	{8770, 9290, OtherServices},
	{9370, 9590, Government},
}

// Classify returns the sector group for a fine-grained census industry code.
// The second return value is false when the code falls outside every range;
// such records are excluded from all downstream survey universes. Negative
// codes are a caller contract violation and classify as Unclassified like any
// other out-of-range value.
func Classify(code int) (Group, bool) {
	for _, r := range crosswalk {
		if code >= r.lo && code <= r.hi {
			return r.group, true
		}
	}
	return Unclassified, false
}

// Groups returns the distinct sector groups in ascending code order.
func Groups() []Group {
	return []Group{
		MiningLogging,
		Construction,
		Manufacturing,
		WholesaleTrade,
		RetailTrade,
		TransportUtilities,
		Information,
		FinancialActivities,
		ProfessionalBusiness,
		EducationHealth,
		LeisureHospitality,
		OtherServices,
		Government,
	}
}

// String returns the sector label for a group.
func (g Group) String() string {
	switch g {
	case MiningLogging:
		return "Mining and Logging"
	case Construction:
		return "Construction"
	case Manufacturing:
		return "Manufacturing"
	case WholesaleTrade:
		return "Wholesale Trade"
	case RetailTrade:
		return "Retail Trade"
	case TransportUtilities:
		return "Transportation, Warehousing, and Utilities"
	case Information:
		return "Information"
	case FinancialActivities:
		return "Financial Activities"
	case ProfessionalBusiness:
		return "Professional and Business Services"
	case EducationHealth:
		return "Education and Health Services"
	case LeisureHospitality:
		return "Leisure and Hospitality"
	case OtherServices:
		return "Other Services"
	case Government:
		return "Government"
	}
	return "Unclassified"
}
