package reports

import "strings"

// Company expense buckets. Raw category strings are matched against
// keyword lists, first hit wins, anything unmatched lands in other.
const (
	CompanyCategoryPayroll   = "payroll"
	CompanyCategorySoftware  = "software"
	CompanyCategoryMarketing = "marketing"
	CompanyCategoryOffice    = "office"
	CompanyCategoryInsurance = "insurance"
	CompanyCategoryOther     = "other"
)

// companyKeywords maps each bucket to the substrings that select it.
// Match order is fixed so overlapping category strings bucket
// deterministically.
var companyKeywords = []struct {
	bucket   string
	keywords []string
}{
	{CompanyCategoryPayroll, []string{"payroll", "salary", "wages"}},
	{CompanyCategorySoftware, []string{"software", "saas", "subscription"}},
	{CompanyCategoryMarketing, []string{"marketing", "advertis"}},
	{CompanyCategoryOffice, []string{"office", "rent", "supplies"}},
	{CompanyCategoryInsurance, []string{"insurance"}},
}

// CompanyCategory buckets a raw company-level expense category string by
// case-insensitive substring match.
func CompanyCategory(raw string) string {
	lowered := strings.ToLower(raw)
	for _, entry := range companyKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lowered, keyword) {
				return entry.bucket
			}
		}
	}
	return CompanyCategoryOther
}

// Property expense categories are a fixed enum on the expense row.
const (
	PropertyCategoryMaintenance = "MAINTENANCE"
	PropertyCategoryRepair      = "REPAIR"
	PropertyCategoryUtility     = "UTILITY"
	PropertyCategoryInsurance   = "INSURANCE"
	PropertyCategoryTax         = "TAX"
	PropertyCategoryOther       = "OTHER"
)

var propertyCategories = map[string]struct{}{
	PropertyCategoryMaintenance: {},
	PropertyCategoryRepair:      {},
	PropertyCategoryUtility:     {},
	PropertyCategoryInsurance:   {},
	PropertyCategoryTax:         {},
}

// PropertyCategory normalizes a stored property expense category. Unknown
// values collapse into OTHER.
func PropertyCategory(raw string) string {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if _, ok := propertyCategories[upper]; ok {
		return upper
	}
	return PropertyCategoryOther
}

// ValidPropertyCategory reports whether raw is one of the enum values.
// Import validation uses this before rows are persisted.
func ValidPropertyCategory(raw string) bool {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if _, ok := propertyCategories[upper]; ok {
		return true
	}
	return upper == PropertyCategoryOther
}
