package crm

import (
	"testing"
	"time"
)

func TestStageIsClosed(t *testing.T) {
	tests := []struct {
		stage  Stage
		closed bool
	}{
		{StageProspecting, false},
		{StageQualification, false},
		{StageProposal, false},
		{StageNegotiation, false},
		{StageClosedWon, true},
		{StageClosedLost, true},
		{Stage("LIMBO"), false},
	}

	for _, tt := range tests {
		if got := tt.stage.IsClosed(); got != tt.closed {
			t.Errorf("%s.IsClosed() = %v, want %v", tt.stage, got, tt.closed)
		}
	}
}

func TestDaysInPipeline(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	d := Deal{CreatedAt: now.AddDate(0, 0, -40)}
	if got := d.DaysInPipeline(now); got != 40 {
		t.Errorf("Expected 40 days, got %v", got)
	}

	// Zero and future creation times never go negative.
	if got := (Deal{}).DaysInPipeline(now); got != 0 {
		t.Errorf("Zero CreatedAt should yield 0, got %v", got)
	}
	future := Deal{CreatedAt: now.AddDate(0, 0, 5)}
	if got := future.DaysInPipeline(now); got != 0 {
		t.Errorf("Future CreatedAt should yield 0, got %v", got)
	}
}

func TestCriteriaFromDealDefaults(t *testing.T) {
	now := time.Now()
	c := CriteriaFromDeal(Deal{ID: "D-1", Value: -50, Probability: 1.4, CompetitorCount: -3}, now)

	if c.RelationshipStrength != RelationshipWeak {
		t.Errorf("Missing relationship should default WEAK, got %v", c.RelationshipStrength)
	}
	if c.Urgency != UrgencyLow {
		t.Errorf("Missing urgency should default LOW, got %v", c.Urgency)
	}
	if c.MarketTiming != TimingFair {
		t.Errorf("Missing timing should default FAIR, got %v", c.MarketTiming)
	}
	if c.DealSize != 0 || c.CompetitorCount != 0 {
		t.Errorf("Negative inputs must clamp to 0, got size=%v competitors=%v", c.DealSize, c.CompetitorCount)
	}
	if c.Probability != 1 {
		t.Errorf("Probability must clamp to 1, got %v", c.Probability)
	}
}

func TestNewWeightedDealRecomputesValue(t *testing.T) {
	d := Deal{ID: "D-1", Value: 200_000}

	w := NewWeightedDeal(d, 0.6, 12)
	if w.WeightedValue != 120_000 {
		t.Errorf("Expected weighted value 120000, got %v", w.WeightedValue)
	}
	if w.DaysInStage != 12 {
		t.Errorf("Expected 12 days in stage, got %v", w.DaysInStage)
	}

	// Out-of-range probabilities clamp before multiplying.
	if w := NewWeightedDeal(d, 1.8, 0); w.WeightedValue != 200_000 {
		t.Errorf("Probability above 1 must clamp, got weighted %v", w.WeightedValue)
	}
}
