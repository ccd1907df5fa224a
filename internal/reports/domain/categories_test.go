package reports

import "testing"

func TestCompanyCategory(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Payroll - June", CompanyCategoryPayroll},
		{"Staff Salary", CompanyCategoryPayroll},
		{"SaaS subscription", CompanyCategorySoftware},
		{"Online Advertising", CompanyCategoryMarketing},
		{"Office rent", CompanyCategoryOffice},
		{"E&O Insurance", CompanyCategoryInsurance},
		{"Travel", CompanyCategoryOther},
		{"", CompanyCategoryOther},
	}
	for _, tc := range cases {
		if got := CompanyCategory(tc.raw); got != tc.want {
			t.Errorf("CompanyCategory(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestPropertyCategory(t *testing.T) {
	if got := PropertyCategory(" maintenance "); got != PropertyCategoryMaintenance {
		t.Fatalf("expected MAINTENANCE, got %q", got)
	}
	if got := PropertyCategory("landscaping"); got != PropertyCategoryOther {
		t.Fatalf("expected OTHER for unknown category, got %q", got)
	}
}

func TestValidPropertyCategory(t *testing.T) {
	for _, valid := range []string{"MAINTENANCE", "repair", "Utility", "TAX", "other"} {
		if !ValidPropertyCategory(valid) {
			t.Errorf("expected %q to be valid", valid)
		}
	}
	if ValidPropertyCategory("landscaping") {
		t.Error("expected landscaping to be invalid")
	}
}
