package stats

import (
	"math"
	"testing"
)

func TestForecastTimeSeriesFlat(t *testing.T) {
	results := ForecastTimeSeries([]float64{10, 10, 10, 10}, 3, 0.95)

	if len(results) != 3 {
		t.Fatalf("Expected 3 periods, got %v", len(results))
	}
	for i, r := range results {
		if r.Trend != TrendStable {
			t.Errorf("Period %d: expected stable trend, got %v", i+1, r.Trend)
		}
		if math.Abs(r.Predicted-10) > 0.01 {
			t.Errorf("Period %d: expected predicted ~10, got %v", i+1, r.Predicted)
		}
	}
}

func TestForecastTimeSeriesIncreasing(t *testing.T) {
	results := ForecastTimeSeries([]float64{10, 12, 14, 16}, 2, 0.95)

	if results[0].Trend != TrendIncreasing {
		t.Errorf("Expected increasing trend, got %v", results[0].Trend)
	}
	// Perfect line: next value continues the slope with a zero-width band.
	if math.Abs(results[0].Predicted-18) > 0.01 {
		t.Errorf("Expected predicted 18, got %v", results[0].Predicted)
	}
	if math.Abs(results[1].Predicted-20) > 0.01 {
		t.Errorf("Expected predicted 20, got %v", results[1].Predicted)
	}
}

func TestForecastTimeSeriesConfidenceDecays(t *testing.T) {
	results := ForecastTimeSeries([]float64{5, 7, 6, 9, 8, 11}, 5, 0.95)

	for i := 1; i < len(results); i++ {
		if results[i].Confidence >= results[i-1].Confidence {
			t.Errorf("Confidence must strictly decrease until the floor: period %d = %v, period %d = %v",
				i, results[i-1].Confidence, i+1, results[i].Confidence)
		}
	}
	if last := results[len(results)-1].Confidence; last < 0.1 {
		t.Errorf("Confidence must not drop below 0.1, got %v", last)
	}
}

func TestForecastTimeSeriesBandsWiden(t *testing.T) {
	results := ForecastTimeSeries([]float64{5, 9, 4, 10, 6, 11}, 3, 0.95)

	prevWidth := -1.0
	for i, r := range results {
		width := r.UpperBound - r.LowerBound
		if r.LowerBound < 0 {
			t.Errorf("Period %d: lower bound below 0: %v", i+1, r.LowerBound)
		}
		if width < prevWidth {
			t.Errorf("Period %d: band narrowed from %v to %v", i+1, prevWidth, width)
		}
		prevWidth = width
	}
}

func TestForecastTimeSeriesShortHistory(t *testing.T) {
	tests := []struct {
		name      string
		history   []float64
		predicted float64
	}{
		{"Empty", nil, 0},
		{"OnePoint", []float64{42}, 42},
		{"TwoPoints", []float64{5, 8}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := ForecastTimeSeries(tt.history, 3, 0.95)
			if len(results) != 3 {
				t.Fatalf("Expected 3 flat periods, got %v", len(results))
			}
			for _, r := range results {
				if r.Predicted != tt.predicted {
					t.Errorf("Expected flat forecast %v, got %v", tt.predicted, r.Predicted)
				}
				if r.Confidence != 0.5 {
					t.Errorf("Expected 50%% confidence, got %v", r.Confidence)
				}
				if r.Trend != TrendStable {
					t.Errorf("Expected stable trend, got %v", r.Trend)
				}
			}
		})
	}
}
