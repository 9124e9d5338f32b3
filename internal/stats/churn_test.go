package stats

import "testing"

func TestPredictChurnProbabilityBounds(t *testing.T) {
	tests := []struct {
		name     string
		features ChurnFeatures
	}{
		{"ZeroValue", ChurnFeatures{}},
		{"ExtremeRisk", ChurnFeatures{DaysSinceLastActivity: 10000, RelationshipStrength: "WEAK"}},
		{"ExtremeSafety", ChurnFeatures{
			DaysSinceLastActivity: 0,
			TotalRevenue:          100_000_000,
			DealCount:             500,
			AvgDealSize:           5_000_000,
			RelationshipStrength:  "EXCELLENT",
		}},
		{"NegativeInputs", ChurnFeatures{DaysSinceLastActivity: -5, TotalRevenue: -100, DealCount: -3}},
		{"UnknownRelationship", ChurnFeatures{RelationshipStrength: "BEST_FRIENDS"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PredictChurnProbability(tt.features)
			if p < 0.01 || p > 0.95 {
				t.Errorf("Churn probability out of [0.01, 0.95]: %v", p)
			}
		})
	}
}

func TestPredictChurnProbabilityOrdering(t *testing.T) {
	atRisk := ChurnFeatures{
		DaysSinceLastActivity: 300,
		TotalRevenue:          5000,
		DealCount:             1,
		AvgDealSize:           5000,
		RelationshipStrength:  "WEAK",
	}
	healthy := ChurnFeatures{
		DaysSinceLastActivity: 3,
		TotalRevenue:          2_000_000,
		DealCount:             25,
		AvgDealSize:           400_000,
		RelationshipStrength:  "EXCELLENT",
	}

	pRisk := PredictChurnProbability(atRisk)
	pHealthy := PredictChurnProbability(healthy)

	if pRisk <= pHealthy {
		t.Errorf("Expected at-risk account to score higher: risk=%v healthy=%v", pRisk, pHealthy)
	}
}
