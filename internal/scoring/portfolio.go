package scoring

import "crm-forecast-mcp/internal/crm"

// PortfolioMetrics summarizes a scored pipeline.
type PortfolioMetrics struct {
	AverageScore      float64                  `json:"averageScore"`
	CountByPriority   map[crm.Priority]int     `json:"countByPriority"`
	CountByRisk       map[crm.RiskLevel]int    `json:"countByRisk"`
	TotalValue        float64                  `json:"totalValue"`
	HighPriorityValue float64                  `json:"highPriorityValue"` // CRITICAL + HIGH priority
	AtRiskValue       float64                  `json:"atRiskValue"`       // HIGH + CRITICAL risk
	DealCount         int                      `json:"dealCount"`
}

// CalculatePortfolioMetrics aggregates a list of opportunity scores. Empty
// input returns zeroed metrics with initialized (empty) count maps.
func CalculatePortfolioMetrics(scores []OpportunityScore) PortfolioMetrics {
	m := PortfolioMetrics{
		CountByPriority: make(map[crm.Priority]int),
		CountByRisk:     make(map[crm.RiskLevel]int),
		DealCount:       len(scores),
	}
	if len(scores) == 0 {
		return m
	}

	sum := 0.0
	for _, s := range scores {
		sum += s.TotalScore
		m.CountByPriority[s.Priority]++
		m.CountByRisk[s.RiskLevel]++
		m.TotalValue += s.DealValue

		if s.Priority == crm.PriorityCritical || s.Priority == crm.PriorityHigh {
			m.HighPriorityValue += s.DealValue
		}
		if s.RiskLevel == crm.RiskCritical || s.RiskLevel == crm.RiskHigh {
			m.AtRiskValue += s.DealValue
		}
	}

	m.AverageScore = round2(sum / float64(len(scores)))
	return m
}
