package roi

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	DefaultGrowthMultiplier = 1.4
	DefaultNewClientGrowth  = 0.25
)

// MonthlyInvestment is the assumed marketing spend ROI is measured against.
var MonthlyInvestment = decimal.NewFromInt(3000)

// ErrInvalidInput is returned for non-positive case economics or negative growth.
var ErrInvalidInput = errors.New("invalid roi input")

// Input describes a lab's current case economics.
type Input struct {
	AvgCaseValue     float64 `json:"avgCaseValue"`
	MonthlyVolume    float64 `json:"monthlyVolume"`
	GrowthMultiplier float64 `json:"growthMultiplier,omitempty"`
	NewClientGrowth  float64 `json:"newClientGrowth,omitempty"`
}

// Result is the projected effect of going digital.
type Result struct {
	CurrentRevenue   float64 `json:"currentRevenue"`
	PotentialRevenue float64 `json:"potentialRevenue"`
	MonthlyIncrease  float64 `json:"monthlyIncrease"`
	AnnualIncrease   float64 `json:"annualIncrease"`
	PercentageROI    int64   `json:"percentageROI"`
	BreakEvenMonths  int64   `json:"breakEvenMonths"`
}

// Benchmark is a reference lab profile shown on the dashboards.
type Benchmark struct {
	AvgCaseValue    float64 `json:"avgCaseValue"`
	MonthlyVolume   float64 `json:"monthlyVolume"`
	GrowthRate      float64 `json:"growthRate"`
	ClientRetention float64 `json:"clientRetention"`
}

// Benchmarks returns the traditional and digital lab reference profiles.
func Benchmarks() map[string]Benchmark {
	return map[string]Benchmark{
		"traditionalLab": {AvgCaseValue: 500, MonthlyVolume: 100, GrowthRate: -0.02, ClientRetention: 0.85},
		"digitalLab":     {AvgCaseValue: 1200, MonthlyVolume: 150, GrowthRate: 0.15, ClientRetention: 0.94},
	}
}

// Calculate projects revenue growth and payback for in. Zero growth
// parameters fall back to the defaults. BreakEvenMonths is 0 when the monthly
// increase never covers the investment.
func Calculate(in Input) (Result, error) {
	if in.AvgCaseValue <= 0 || in.MonthlyVolume <= 0 {
		return Result{}, fmt.Errorf("%w: case value and volume must be positive", ErrInvalidInput)
	}
	if in.GrowthMultiplier < 0 || in.NewClientGrowth < 0 {
		return Result{}, fmt.Errorf("%w: growth parameters must not be negative", ErrInvalidInput)
	}
	if in.GrowthMultiplier == 0 {
		in.GrowthMultiplier = DefaultGrowthMultiplier
	}
	if in.NewClientGrowth == 0 {
		in.NewClientGrowth = DefaultNewClientGrowth
	}

	caseValue := decimal.NewFromFloat(in.AvgCaseValue)
	volume := decimal.NewFromFloat(in.MonthlyVolume)
	twelve := decimal.NewFromInt(12)

	current := caseValue.Mul(volume)
	improvedCase := caseValue.Mul(decimal.NewFromFloat(in.GrowthMultiplier))
	improvedVolume := volume.Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(in.NewClientGrowth)))
	potential := improvedCase.Mul(improvedVolume)

	monthlyIncrease := potential.Sub(current)
	annualIncrease := monthlyIncrease.Mul(twelve)

	annualInvestment := MonthlyInvestment.Mul(twelve)
	percentage := annualIncrease.Sub(annualInvestment).Div(annualInvestment).Mul(decimal.NewFromInt(100))

	var breakEven int64
	if surplus := monthlyIncrease.Sub(MonthlyInvestment); surplus.IsPositive() {
		breakEven = MonthlyInvestment.Div(surplus).Ceil().IntPart()
	}

	return Result{
		CurrentRevenue:   current.InexactFloat64(),
		PotentialRevenue: potential.InexactFloat64(),
		MonthlyIncrease:  monthlyIncrease.InexactFloat64(),
		AnnualIncrease:   annualIncrease.InexactFloat64(),
		PercentageROI:    roundHalfUp(percentage),
		BreakEvenMonths:  breakEven,
	}, nil
}

func roundHalfUp(d decimal.Decimal) int64 {
	return d.Add(decimal.NewFromFloat(0.5)).Floor().IntPart()
}
