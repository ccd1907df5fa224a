package billing

import "testing"

func TestFeeFlatIgnoresUnpaidAmount(t *testing.T) {
	cfg := LateFeeConfig{FeeType: FeeTypeFlat, FeeAmount: 50, IsActive: true}
	fee, err := cfg.Fee(1800)
	if err != nil {
		t.Fatalf("fee: %v", err)
	}
	if fee != 50 {
		t.Fatalf("expected flat fee 50, got %v", fee)
	}
}

func TestFeePercentageCapped(t *testing.T) {
	maxFee := 100.0
	cfg := LateFeeConfig{FeeType: FeeTypePercentage, FeeAmount: 5, MaxFeeAmount: &maxFee, IsActive: true}
	fee, err := cfg.Fee(3000)
	if err != nil {
		t.Fatalf("fee: %v", err)
	}
	if fee != 100 {
		t.Fatalf("expected capped fee 100, got %v", fee)
	}
}

func TestFeePercentageUncapped(t *testing.T) {
	cfg := LateFeeConfig{FeeType: FeeTypePercentage, FeeAmount: 5, IsActive: true}
	fee, err := cfg.Fee(1800)
	if err != nil {
		t.Fatalf("fee: %v", err)
	}
	if fee != 90 {
		t.Fatalf("expected fee 90, got %v", fee)
	}
}

func TestFeeUnknownType(t *testing.T) {
	cfg := LateFeeConfig{FeeType: "WEEKLY", FeeAmount: 5}
	if _, err := cfg.Fee(100); err == nil {
		t.Fatal("expected error for unknown fee type")
	}
}

func TestDefaultLateFeeConfig(t *testing.T) {
	cfg := DefaultLateFeeConfig()
	if cfg.GracePeriodDays != 5 || cfg.FeeType != FeeTypeFlat || cfg.FeeAmount != 50 || !cfg.IsActive {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}
