package stats

import (
	"strings"
	"testing"
)

func TestGenerateInsightsRevenueSwing(t *testing.T) {
	up := GenerateInsights(AggregateStats{CurrentRevenue: 150, PreviousRevenue: 100})
	if !containsSubstring(up, "up") {
		t.Errorf("Expected an upswing insight, got %v", up)
	}

	down := GenerateInsights(AggregateStats{CurrentRevenue: 80, PreviousRevenue: 100})
	if !containsSubstring(down, "down") {
		t.Errorf("Expected a downswing insight, got %v", down)
	}

	// A 5% move is noise, not a trend.
	flat := GenerateInsights(AggregateStats{CurrentRevenue: 105, PreviousRevenue: 100})
	if containsSubstring(flat, "Revenue is") {
		t.Errorf("Expected no revenue insight for a 5%% move, got %v", flat)
	}
}

func TestGenerateInsightsConcentration(t *testing.T) {
	insights := GenerateInsights(AggregateStats{
		PipelineByStage: map[string]float64{
			"NEGOTIATION": 900,
			"PROPOSAL":    50,
			"PROSPECTING": 50,
		},
	})
	if !containsSubstring(insights, "NEGOTIATION") {
		t.Errorf("Expected a concentration insight naming NEGOTIATION, got %v", insights)
	}
}

func TestGenerateInsightsConversion(t *testing.T) {
	excellent := GenerateInsights(AggregateStats{ConversionRate: 0.3})
	if !containsSubstring(excellent, "excellent") {
		t.Errorf("Expected an excellent-conversion insight, got %v", excellent)
	}

	poor := GenerateInsights(AggregateStats{ConversionRate: 0.05})
	if !containsSubstring(poor, "needs improvement") {
		t.Errorf("Expected a needs-improvement insight, got %v", poor)
	}
}

func TestGenerateInsightsPlaceholder(t *testing.T) {
	insights := GenerateInsights(AggregateStats{})
	if len(insights) != 1 {
		t.Fatalf("Expected exactly the placeholder, got %v", insights)
	}
	if !strings.Contains(insights[0], "No significant trends") {
		t.Errorf("Expected placeholder string, got %v", insights[0])
	}
}

func containsSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
