package pipeline

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"crm-forecast-mcp/internal/crm"
)

func TestCalculateWeightedProbabilityStageMonotonic(t *testing.T) {
	stages := []crm.Stage{
		crm.StageProspecting,
		crm.StageQualification,
		crm.StageProposal,
		crm.StageNegotiation,
	}

	prev := -1.0
	for _, stage := range stages {
		p := CalculateWeightedProbability(stage, 50_000, 10, time.Time{}, "")
		if p < prev {
			t.Errorf("Stage %s regressed: %v < %v", stage, p, prev)
		}
		if p < 0 || p > 1 {
			t.Errorf("Stage %s probability out of [0,1]: %v", stage, p)
		}
		prev = p
	}
}

func TestCalculateWeightedProbabilityClosedStages(t *testing.T) {
	if p := CalculateWeightedProbability(crm.StageClosedWon, 50_000, 200, time.Time{}, ""); p != 1 {
		t.Errorf("CLOSED_WON must be 1, got %v", p)
	}
	if p := CalculateWeightedProbability(crm.StageClosedLost, 50_000, 5, time.Now(), ""); p != 0 {
		t.Errorf("CLOSED_LOST must be 0, got %v", p)
	}
}

func TestCalculateWeightedProbabilityStaleness(t *testing.T) {
	fresh := CalculateWeightedProbability(crm.StageProposal, 50_000, 10, time.Time{}, "")
	aging := CalculateWeightedProbability(crm.StageProposal, 50_000, 75, time.Time{}, "")
	stale := CalculateWeightedProbability(crm.StageProposal, 50_000, 120, time.Time{}, "")

	if !(stale < aging && aging < fresh) {
		t.Errorf("Expected staleness to lower probability: fresh=%v aging=%v stale=%v", fresh, aging, stale)
	}
}

func TestCalculateWeightedProbabilityRecencyReward(t *testing.T) {
	touched := CalculateWeightedProbability(crm.StageProposal, 50_000, 10, time.Now().AddDate(0, 0, -2), "")
	idle := CalculateWeightedProbability(crm.StageProposal, 50_000, 10, time.Now().AddDate(0, 0, -30), "")

	if touched <= idle {
		t.Errorf("Recent activity should raise probability: touched=%v idle=%v", touched, idle)
	}
}

func TestCalculateWeightedProbabilityUnknownStage(t *testing.T) {
	p := CalculateWeightedProbability(crm.Stage("LIMBO"), 50_000, 10, time.Time{}, "")
	if p < 0 || p > 1 {
		t.Errorf("Unknown stage must still produce a valid probability, got %v", p)
	}
}

func TestCalculateRiskScore(t *testing.T) {
	tests := []struct {
		name        string
		deal        crm.WeightedDeal
		competitors int
		minRisk     float64
		maxRisk     float64
	}{
		{"HealthyDeal", crm.WeightedDeal{DaysInStage: 5, Probability: 0.9}, 0, 0, 20},
		{"StalledLongshot", crm.WeightedDeal{DaysInStage: 120, Probability: 0.1}, 5, 90, 100},
		{"MidPipeline", crm.WeightedDeal{DaysInStage: 45, Probability: 0.5}, 1, 30, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risk := CalculateRiskScore(tt.deal, tt.competitors)
			if risk < tt.minRisk || risk > tt.maxRisk {
				t.Errorf("Risk %v outside expected [%v, %v]", risk, tt.minRisk, tt.maxRisk)
			}
		})
	}
}

func TestCalculateRiskScoreMonotonicInStagnation(t *testing.T) {
	base := crm.WeightedDeal{Probability: 0.5}

	prev := -1.0
	for _, days := range []int{0, 30, 60, 90, 120} {
		d := base
		d.DaysInStage = days
		risk := CalculateRiskScore(d, 0)
		if risk < prev {
			t.Errorf("Risk regressed at %d days: %v < %v", days, risk, prev)
		}
		prev = risk
	}
}

func TestCalculatePriority(t *testing.T) {
	tests := []struct {
		name     string
		deal     crm.WeightedDeal
		expected crm.Priority
	}{
		{"HighRiskHighValue", crm.WeightedDeal{RiskScore: 80, WeightedValue: 200_000}, crm.PriorityCritical},
		{"HighRiskSmallValue", crm.WeightedDeal{RiskScore: 80, WeightedValue: 10_000}, crm.PriorityHigh},
		{"BigWeightedValue", crm.WeightedDeal{RiskScore: 20, WeightedValue: 600_000}, crm.PriorityHigh},
		{"MidValue", crm.WeightedDeal{RiskScore: 20, WeightedValue: 150_000}, crm.PriorityMedium},
		{"LikelySmallDeal", crm.WeightedDeal{RiskScore: 20, WeightedValue: 5_000, Probability: 0.7}, crm.PriorityMedium},
		{"SmallLongshot", crm.WeightedDeal{RiskScore: 20, WeightedValue: 5_000, Probability: 0.2}, crm.PriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculatePriority(tt.deal); got != tt.expected {
				t.Errorf("CalculatePriority() = %v, want %v", got, tt.expected)
			}
			// Pure function: a second call must agree.
			if again := CalculatePriority(tt.deal); again != tt.expected {
				t.Errorf("Priority not deterministic: %v", again)
			}
		})
	}
}

func TestEnrichDealWeightedValue(t *testing.T) {
	now := time.Now()
	deal := crm.Deal{
		ID:        "D-1",
		Value:     250_000,
		Stage:     crm.StageNegotiation,
		CreatedAt: now.AddDate(0, 0, -40),
		UpdatedAt: now.AddDate(0, 0, -3),
	}

	w := EnrichDeal(deal, now)

	if math.Abs(w.WeightedValue-w.Value*w.Probability) > 1e-9 {
		t.Errorf("weightedValue must equal value*probability: %v != %v*%v", w.WeightedValue, w.Value, w.Probability)
	}
	if w.RiskScore < 0 || w.RiskScore > 100 {
		t.Errorf("Risk score out of [0,100]: %v", w.RiskScore)
	}
	if w.Priority == "" {
		t.Error("Priority must be assigned")
	}
}

func TestEnrichDealsPreservesOrder(t *testing.T) {
	now := time.Now()
	var deals []crm.Deal
	for i := 0; i < 50; i++ {
		deals = append(deals, crm.Deal{
			ID:        fmt.Sprintf("D-%03d", i),
			Value:     float64(1000 * (i + 1)),
			Stage:     crm.StageQualification,
			CreatedAt: now.AddDate(0, 0, -i),
			UpdatedAt: now.AddDate(0, 0, -i),
		})
	}

	enriched, err := EnrichDeals(context.Background(), deals, now)
	if err != nil {
		t.Fatalf("EnrichDeals failed: %v", err)
	}
	if len(enriched) != len(deals) {
		t.Fatalf("Expected %v results, got %v", len(deals), len(enriched))
	}
	for i, w := range enriched {
		if w.ID != deals[i].ID {
			t.Fatalf("Order broken at %d: got %v want %v", i, w.ID, deals[i].ID)
		}
	}
}

func TestEnrichDealsEmpty(t *testing.T) {
	enriched, err := EnrichDeals(context.Background(), nil, time.Now())
	if err != nil {
		t.Fatalf("EnrichDeals failed on empty input: %v", err)
	}
	if len(enriched) != 0 {
		t.Errorf("Expected no results, got %v", enriched)
	}
}
