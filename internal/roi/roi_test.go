package roi

import (
	"errors"
	"testing"
)

func TestCalculate_TraditionalLabDefaults(t *testing.T) {
	res, err := Calculate(Input{AvgCaseValue: 500, MonthlyVolume: 100})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if res.CurrentRevenue != 50000 {
		t.Fatalf("currentRevenue = %v, want 50000", res.CurrentRevenue)
	}
	if res.PotentialRevenue != 87500 {
		t.Fatalf("potentialRevenue = %v, want 87500", res.PotentialRevenue)
	}
	if res.MonthlyIncrease != 37500 || res.AnnualIncrease != 450000 {
		t.Fatalf("unexpected increases: %+v", res)
	}
	if res.PercentageROI != 1150 {
		t.Fatalf("percentageROI = %d, want 1150", res.PercentageROI)
	}
	if res.BreakEvenMonths != 1 {
		t.Fatalf("breakEvenMonths = %d, want 1", res.BreakEvenMonths)
	}
}

func TestCalculate_CustomGrowth(t *testing.T) {
	res, err := Calculate(Input{AvgCaseValue: 100, MonthlyVolume: 40, GrowthMultiplier: 1.5, NewClientGrowth: 0.5})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	// 150 * 60 = 9000 potential against 4000 today.
	if res.MonthlyIncrease != 5000 {
		t.Fatalf("monthlyIncrease = %v, want 5000", res.MonthlyIncrease)
	}
	if res.PercentageROI != 67 {
		t.Fatalf("percentageROI = %d, want 67", res.PercentageROI)
	}
	if res.BreakEvenMonths != 2 {
		t.Fatalf("breakEvenMonths = %d, want 2", res.BreakEvenMonths)
	}
}

func TestCalculate_IncreaseBelowInvestment(t *testing.T) {
	res, err := Calculate(Input{AvgCaseValue: 10, MonthlyVolume: 10})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if res.BreakEvenMonths != 0 {
		t.Fatalf("breakEvenMonths = %d, want 0", res.BreakEvenMonths)
	}
	if res.PercentageROI >= 0 {
		t.Fatalf("expected negative ROI, got %d", res.PercentageROI)
	}
}

func TestCalculate_RejectsNonPositiveInput(t *testing.T) {
	for _, in := range []Input{
		{AvgCaseValue: 0, MonthlyVolume: 10},
		{AvgCaseValue: 10, MonthlyVolume: -1},
		{AvgCaseValue: 10, MonthlyVolume: 10, GrowthMultiplier: -1},
	} {
		if _, err := Calculate(in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Calculate(%+v) err = %v", in, err)
		}
	}
}

func TestBenchmarks(t *testing.T) {
	b := Benchmarks()
	if b["digitalLab"].AvgCaseValue != 1200 || b["traditionalLab"].ClientRetention != 0.85 {
		t.Fatalf("unexpected benchmarks: %+v", b)
	}
}
