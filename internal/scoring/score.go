// Package scoring turns per-deal facts into a weighted 0-100 opportunity
// score with priority and risk classifications, and aggregates scored deals
// into portfolio-level metrics.
package scoring

import (
	"math"
	"sort"
	"strings"

	"crm-forecast-mcp/internal/crm"
)

// Component weights; they sum to 1.0.
const (
	weightDealSize     = 0.25
	weightProbability  = 0.20
	weightUrgency      = 0.15
	weightCompetition  = 0.10
	weightRelationship = 0.10
	weightBudget       = 0.10
	weightTiming       = 0.10
)

// ComponentScores are the seven sub-scores behind a total, each 0-100.
type ComponentScores struct {
	DealSizeScore     float64 `json:"dealSizeScore"`
	ProbabilityScore  float64 `json:"probabilityScore"`
	UrgencyScore      float64 `json:"urgencyScore"`
	CompetitionScore  float64 `json:"competitionScore"`
	RelationshipScore float64 `json:"relationshipScore"`
	BudgetScore       float64 `json:"budgetScore"`
	TimingScore       float64 `json:"timingScore"`
}

// OpportunityScore is the scored view of a single deal.
type OpportunityScore struct {
	DealID         string          `json:"dealId"`
	DealName       string          `json:"dealName"`
	DealValue      float64         `json:"dealValue"`
	TotalScore     float64         `json:"totalScore"`
	Components     ComponentScores `json:"components"`
	Priority       crm.Priority    `json:"priority"`
	RiskLevel      crm.RiskLevel   `json:"riskLevel"`
	Recommendation string          `json:"recommendation"`
}

// CalculateOpportunityScore scores one deal's criteria. Every component and
// the total land in [0,100]; the total is rounded to two decimals.
func CalculateOpportunityScore(dealID, dealName string, c crm.ScoringCriteria) OpportunityScore {
	c = sanitize(c)

	components := ComponentScores{
		DealSizeScore:     dealSizeScore(c.DealSize),
		ProbabilityScore:  c.Probability * 100,
		UrgencyScore:      urgencyScore(c.Urgency, c.DaysInPipeline),
		CompetitionScore:  competitionScore(c.CompetitorCount),
		RelationshipScore: relationshipScore(c.RelationshipStrength),
		BudgetScore:       budgetScore(c.BudgetApproved),
		TimingScore:       timingScore(c.MarketTiming),
	}

	total := components.DealSizeScore*weightDealSize +
		components.ProbabilityScore*weightProbability +
		components.UrgencyScore*weightUrgency +
		components.CompetitionScore*weightCompetition +
		components.RelationshipScore*weightRelationship +
		components.BudgetScore*weightBudget +
		components.TimingScore*weightTiming
	total = round2(total)

	priority := classifyPriority(total, c)
	riskLevel := classifyRisk(total, c)

	return OpportunityScore{
		DealID:         dealID,
		DealName:       dealName,
		DealValue:      c.DealSize,
		TotalScore:     total,
		Components:     components,
		Priority:       priority,
		RiskLevel:      riskLevel,
		Recommendation: buildRecommendation(priority, c),
	}
}

// RankOpportunities scores a list of deals and orders it by descending total
// score, breaking ties on deal ID for a deterministic listing.
func RankOpportunities(deals []crm.Deal, criteria []crm.ScoringCriteria) []OpportunityScore {
	n := len(deals)
	if len(criteria) < n {
		n = len(criteria)
	}

	scores := make([]OpportunityScore, 0, n)
	for i := 0; i < n; i++ {
		scores = append(scores, CalculateOpportunityScore(deals[i].ID, deals[i].Name, criteria[i]))
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].TotalScore != scores[j].TotalScore {
			return scores[i].TotalScore > scores[j].TotalScore
		}
		return scores[i].DealID < scores[j].DealID
	})
	return scores
}

func sanitize(c crm.ScoringCriteria) crm.ScoringCriteria {
	if c.DealSize < 0 {
		c.DealSize = 0
	}
	if c.Probability < 0 {
		c.Probability = 0
	} else if c.Probability > 1 {
		c.Probability = 1
	}
	if c.DaysInPipeline < 0 {
		c.DaysInPipeline = 0
	}
	if c.CompetitorCount < 0 {
		c.CompetitorCount = 0
	}
	return c
}

func urgencyScore(u crm.Urgency, daysInPipeline int) float64 {
	var base float64
	switch u {
	case crm.UrgencyCritical:
		base = 100
	case crm.UrgencyHigh:
		base = 80
	case crm.UrgencyMedium:
		base = 60
	default:
		base = 40
	}

	// Old deals lose urgency credit; fresh deals gain a little.
	if daysInPipeline > 90 {
		base *= 0.8
	} else if daysInPipeline < 30 {
		base *= 1.1
	}

	return clamp100(base)
}

func competitionScore(count int) float64 {
	switch {
	case count == 0:
		return 100
	case count == 1:
		return 80
	case count == 2:
		return 60
	case count == 3:
		return 40
	default:
		return 20
	}
}

func relationshipScore(r crm.RelationshipStrength) float64 {
	switch r {
	case crm.RelationshipExcellent:
		return 100
	case crm.RelationshipStrong:
		return 80
	case crm.RelationshipModerate:
		return 60
	default:
		return 40
	}
}

func budgetScore(approved bool) float64 {
	if approved {
		return 100
	}
	return 30
}

func timingScore(t crm.MarketTiming) float64 {
	switch t {
	case crm.TimingExcellent:
		return 100
	case crm.TimingGood:
		return 80
	case crm.TimingFair:
		return 60
	default:
		return 40
	}
}

func dealSizeScore(size float64) float64 {
	switch {
	case size >= 10_000_000:
		return 100
	case size >= 5_000_000:
		return 90
	case size >= 1_000_000:
		return 80
	case size >= 500_000:
		return 70
	case size >= 100_000:
		return 60
	case size >= 50_000:
		return 50
	case size >= 10_000:
		return 40
	default:
		return 20
	}
}

// classifyPriority applies the priority ladder top-down; the first matching
// rung wins.
func classifyPriority(total float64, c crm.ScoringCriteria) crm.Priority {
	switch {
	case c.Urgency == crm.UrgencyCritical && total > 70,
		c.DealSize > 1_000_000 && c.Probability > 0.7,
		total > 85:
		return crm.PriorityCritical
	case total > 75,
		c.DealSize > 500_000 && c.Probability > 0.5:
		return crm.PriorityHigh
	case total > 60:
		return crm.PriorityMedium
	default:
		return crm.PriorityLow
	}
}

// classifyRisk accumulates risk points from the deal's weak spots, then
// lets a very strong or very weak total score shift the result.
func classifyRisk(total float64, c crm.ScoringCriteria) crm.RiskLevel {
	risk := 0.0
	if c.CompetitorCount > 3 {
		risk += 30
	}
	if !c.BudgetApproved {
		risk += 25
	}
	if c.RelationshipStrength == crm.RelationshipWeak {
		risk += 20
	}
	if c.Probability < 0.3 {
		risk += 25
	}
	if c.DaysInPipeline > 90 {
		risk += 20
	}
	if c.MarketTiming == crm.TimingPoor {
		risk += 15
	}

	if total > 80 {
		risk -= 20
	} else if total < 50 {
		risk += 20
	}

	risk = clamp100(risk)

	switch {
	case risk > 70:
		return crm.RiskCritical
	case risk > 50:
		return crm.RiskHigh
	case risk > 30:
		return crm.RiskMedium
	default:
		return crm.RiskLow
	}
}

// buildRecommendation joins the priority directive with any conditional
// directives, pipe-separated, in a fixed order.
func buildRecommendation(p crm.Priority, c crm.ScoringCriteria) string {
	var directives []string

	switch p {
	case crm.PriorityCritical:
		directives = append(directives, "Prioritize immediately: engage executive sponsor and accelerate the close plan")
	case crm.PriorityHigh:
		directives = append(directives, "Schedule a follow-up within 48 hours and confirm next steps")
	case crm.PriorityMedium:
		directives = append(directives, "Maintain a regular touch cadence and advance one stage this month")
	default:
		directives = append(directives, "Monitor passively; invest selling time elsewhere first")
	}

	if c.CompetitorCount > 3 {
		directives = append(directives, "High competition: lead with differentiators and proof points")
	}
	if !c.BudgetApproved {
		directives = append(directives, "Budget not approved: secure financial sign-off before advancing")
	}
	if c.RelationshipStrength == crm.RelationshipWeak {
		directives = append(directives, "Weak relationship: invest in key stakeholders before pushing to close")
	}
	if c.DaysInPipeline > 60 {
		directives = append(directives, "Deal is stagnating: re-qualify and create a compelling event")
	}

	return strings.Join(directives, " | ")
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
