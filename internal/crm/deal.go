// Package crm defines the deal domain model shared by the scoring,
// pipeline and forecasting packages. All types are plain value objects;
// nothing here touches storage or the network.
package crm

import "time"

// Stage is a deal's discrete pipeline position.
type Stage string

const (
	StageProspecting   Stage = "PROSPECTING"
	StageQualification Stage = "QUALIFICATION"
	StageProposal      Stage = "PROPOSAL"
	StageNegotiation   Stage = "NEGOTIATION"
	StageClosedWon     Stage = "CLOSED_WON"
	StageClosedLost    Stage = "CLOSED_LOST"
)

// IsClosed reports whether the stage is terminal (won or lost).
func (s Stage) IsClosed() bool {
	return s == StageClosedWon || s == StageClosedLost
}

// Priority is the urgency-of-attention classification for a deal.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// RiskLevel is the likelihood-of-loss classification for a deal.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Urgency grades how time-sensitive a deal is.
type Urgency string

const (
	UrgencyLow      Urgency = "LOW"
	UrgencyMedium   Urgency = "MEDIUM"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyCritical Urgency = "CRITICAL"
)

// RelationshipStrength grades the quality of the customer relationship.
type RelationshipStrength string

const (
	RelationshipWeak      RelationshipStrength = "WEAK"
	RelationshipModerate  RelationshipStrength = "MODERATE"
	RelationshipStrong    RelationshipStrength = "STRONG"
	RelationshipExcellent RelationshipStrength = "EXCELLENT"
)

// MarketTiming grades how favorable the market window is.
type MarketTiming string

const (
	TimingPoor      MarketTiming = "POOR"
	TimingFair      MarketTiming = "FAIR"
	TimingGood      MarketTiming = "GOOD"
	TimingExcellent MarketTiming = "EXCELLENT"
)

// Deal is a raw pipeline record as supplied by the deal store. The scoring
// core reads it and never mutates it.
type Deal struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Value         float64    `json:"value"`
	Stage         Stage      `json:"stage"`
	Probability   float64    `json:"probability"` // externally supplied raw estimate, 0-1
	OwnerID       string     `json:"ownerId"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	ExpectedClose *time.Time `json:"expectedClose,omitempty"`

	// Qualitative facts captured by reps; optional, defaults are conservative.
	CompetitorCount      int                  `json:"competitorCount"`
	DecisionMakerAccess  bool                 `json:"decisionMakerAccess"`
	BudgetApproved       bool                 `json:"budgetApproved"`
	RelationshipStrength RelationshipStrength `json:"relationshipStrength,omitempty"`
	Urgency              Urgency              `json:"urgency,omitempty"`
	MarketTiming         MarketTiming         `json:"marketTiming,omitempty"`
}

// DaysInPipeline returns whole days since the deal was created, relative to now.
func (d Deal) DaysInPipeline(now time.Time) int {
	if d.CreatedAt.IsZero() || now.Before(d.CreatedAt) {
		return 0
	}
	return int(now.Sub(d.CreatedAt).Hours() / 24)
}

// DaysSinceUpdate returns whole days since the last recorded activity.
func (d Deal) DaysSinceUpdate(now time.Time) int {
	if d.UpdatedAt.IsZero() || now.Before(d.UpdatedAt) {
		return 0
	}
	return int(now.Sub(d.UpdatedAt).Hours() / 24)
}

// ScoringCriteria is the normalized per-deal input to the opportunity scorer.
type ScoringCriteria struct {
	DealSize             float64              `json:"dealSize"`
	Probability          float64              `json:"probability"`
	DaysInPipeline       int                  `json:"daysInPipeline"`
	CompetitorCount      int                  `json:"competitorCount"`
	DecisionMakerAccess  bool                 `json:"decisionMakerAccess"`
	BudgetApproved       bool                 `json:"budgetApproved"`
	RelationshipStrength RelationshipStrength `json:"relationshipStrength"`
	Urgency              Urgency              `json:"urgency"`
	MarketTiming         MarketTiming         `json:"marketTiming"`
}

// CriteriaFromDeal derives scoring criteria from a raw deal record.
// Missing qualitative fields degrade to their most conservative grade.
func CriteriaFromDeal(d Deal, now time.Time) ScoringCriteria {
	c := ScoringCriteria{
		DealSize:             d.Value,
		Probability:          clamp01(d.Probability),
		DaysInPipeline:       d.DaysInPipeline(now),
		CompetitorCount:      d.CompetitorCount,
		DecisionMakerAccess:  d.DecisionMakerAccess,
		BudgetApproved:       d.BudgetApproved,
		RelationshipStrength: d.RelationshipStrength,
		Urgency:              d.Urgency,
		MarketTiming:         d.MarketTiming,
	}
	if c.RelationshipStrength == "" {
		c.RelationshipStrength = RelationshipWeak
	}
	if c.Urgency == "" {
		c.Urgency = UrgencyLow
	}
	if c.MarketTiming == "" {
		c.MarketTiming = TimingFair
	}
	if c.DealSize < 0 {
		c.DealSize = 0
	}
	if c.CompetitorCount < 0 {
		c.CompetitorCount = 0
	}
	return c
}

// WeightedDeal is a deal enriched with a modeled close probability and risk.
type WeightedDeal struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Value         float64    `json:"value"`
	Stage         Stage      `json:"stage"`
	Probability   float64    `json:"probability"`
	WeightedValue float64    `json:"weightedValue"`
	DaysInStage   int        `json:"daysInStage"`
	RiskScore     float64    `json:"riskScore"`
	Priority      Priority   `json:"priority"`
	ExpectedClose *time.Time `json:"expectedClose,omitempty"`
}

// NewWeightedDeal builds a WeightedDeal, recomputing the weighted value from
// its parts. The weighted value is never stored independently.
func NewWeightedDeal(d Deal, probability float64, daysInStage int) WeightedDeal {
	p := clamp01(probability)
	return WeightedDeal{
		ID:            d.ID,
		Name:          d.Name,
		Value:         d.Value,
		Stage:         d.Stage,
		Probability:   p,
		WeightedValue: d.Value * p,
		DaysInStage:   daysInStage,
		ExpectedClose: d.ExpectedClose,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
