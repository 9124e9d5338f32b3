package stats

import (
	"fmt"
	"math"
)

// AggregateStats is the period-over-period summary insights are derived from.
type AggregateStats struct {
	CurrentRevenue  float64            `json:"currentRevenue"`
	PreviousRevenue float64            `json:"previousRevenue"`
	PipelineByStage map[string]float64 `json:"pipelineByStage"` // stage -> value
	ConversionRate  float64            `json:"conversionRate"`  // 0-1
}

// GenerateInsights turns aggregate numbers into short human-readable
// observations. If no rule fires, a single placeholder string is returned so
// consumers always have something to show.
func GenerateInsights(agg AggregateStats) []string {
	var insights []string

	if agg.PreviousRevenue > 0 {
		delta := (agg.CurrentRevenue - agg.PreviousRevenue) / agg.PreviousRevenue
		if delta > 0.1 {
			insights = append(insights, fmt.Sprintf("Revenue is up %.0f%% versus the previous period", delta*100))
		} else if delta < -0.1 {
			insights = append(insights, fmt.Sprintf("Revenue is down %.0f%% versus the previous period", math.Abs(delta)*100))
		}
	}

	if stage, share := dominantStage(agg.PipelineByStage); share > 0.5 {
		insights = append(insights, fmt.Sprintf("Pipeline is concentrated: %.0f%% of open value sits in %s", share*100, stage))
	}

	if agg.ConversionRate > 0.25 {
		insights = append(insights, fmt.Sprintf("Conversion rate of %.0f%% is excellent", agg.ConversionRate*100))
	} else if agg.ConversionRate > 0 && agg.ConversionRate < 0.10 {
		insights = append(insights, fmt.Sprintf("Conversion rate of %.0f%% needs improvement", agg.ConversionRate*100))
	}

	if len(insights) == 0 {
		insights = append(insights, "No significant trends detected in the current period")
	}
	return insights
}

func dominantStage(byStage map[string]float64) (string, float64) {
	total := 0.0
	for _, v := range byStage {
		total += v
	}
	if total <= 0 {
		return "", 0
	}

	best := ""
	bestValue := 0.0
	for stage, v := range byStage {
		if v > bestValue || (v == bestValue && stage < best) {
			best = stage
			bestValue = v
		}
	}
	return best, bestValue / total
}
