// Package pipeline enriches raw deals with a modeled close probability, a
// risk score and a priority bucket. Enrichment is per-deal and side-effect
// free, so a list of deals can be fanned out across workers.
package pipeline

import (
	"context"
	"math"
	"runtime"
	"time"

	"crm-forecast-mcp/internal/crm"

	"golang.org/x/sync/errgroup"
)

// Observed operating thresholds. 90 days of stage residency marks a stalled
// deal; a risk score above 70 elevates priority.
const (
	StalenessDays    = 90
	ElevatedRiskBar  = 70.0
	softStalenessDay = 60
	recentActivity   = 7
)

// Stage base probabilities. Values are heuristic (not calibrated against
// historical closes) but strictly non-decreasing along the pipeline.
var stageBaseProbability = map[crm.Stage]float64{
	crm.StageProspecting:   0.10,
	crm.StageQualification: 0.25,
	crm.StageProposal:      0.50,
	crm.StageNegotiation:   0.75,
	crm.StageClosedWon:     1.00,
	crm.StageClosedLost:    0.00,
}

// CalculateWeightedProbability models a close probability in [0,1] from the
// deal's stage, size, stage residency and activity recency. Later stages
// never score below earlier ones for otherwise-identical deals; stalled
// deals are penalized and recently-touched deals rewarded.
func CalculateWeightedProbability(stage crm.Stage, dealSize float64, daysInStage int, lastUpdated time.Time, priorityHint crm.Priority) float64 {
	base, ok := stageBaseProbability[stage]
	if !ok {
		base = stageBaseProbability[crm.StageProspecting]
	}
	if stage.IsClosed() {
		return base
	}

	p := base

	// Staleness penalty: heuristic multipliers under the observed 90-day bar.
	switch {
	case daysInStage > StalenessDays:
		p *= 0.6
	case daysInStage > softStalenessDay:
		p *= 0.85
	}

	// Recency reward for deals touched within the last week.
	if !lastUpdated.IsZero() && time.Since(lastUpdated) <= recentActivity*24*time.Hour {
		p *= 1.1
	}

	// A large deal under active executive attention closes slightly more
	// often in this book of business; the bump is deliberately small.
	if priorityHint == crm.PriorityCritical || priorityHint == crm.PriorityHigh {
		if dealSize >= 100_000 {
			p *= 1.05
		}
	}

	if p > 0.99 {
		p = 0.99 // open deals never reach certainty
	}
	if p < 0 {
		p = 0
	}
	return p
}

// CalculateRiskScore grades a weighted deal 0-100. Risk rises with stage
// stagnation, low close probability and competitor pressure.
func CalculateRiskScore(d crm.WeightedDeal, competitorCount int) float64 {
	stagnation := math.Min(float64(d.DaysInStage)/StalenessDays, 1.0) * 40
	probabilityGap := (1 - d.Probability) * 40
	competition := math.Min(float64(competitorCount)*5, 20)

	risk := stagnation + probabilityGap + competition
	if risk > 100 {
		risk = 100
	}
	if risk < 0 {
		risk = 0
	}
	return math.Round(risk*100) / 100
}

// CalculatePriority buckets a weighted deal. A risk score above the elevated
// bar promotes the deal regardless of size; otherwise size and probability
// decide.
func CalculatePriority(d crm.WeightedDeal) crm.Priority {
	switch {
	case d.RiskScore > ElevatedRiskBar && d.WeightedValue >= 100_000:
		return crm.PriorityCritical
	case d.RiskScore > ElevatedRiskBar || d.WeightedValue >= 500_000:
		return crm.PriorityHigh
	case d.WeightedValue >= 100_000 || d.Probability > 0.5:
		return crm.PriorityMedium
	default:
		return crm.PriorityLow
	}
}

// EnrichDeal computes the full weighted view of a single deal as of now.
func EnrichDeal(d crm.Deal, now time.Time) crm.WeightedDeal {
	daysInStage := d.DaysSinceUpdate(now)
	p := CalculateWeightedProbability(d.Stage, d.Value, daysInStage, d.UpdatedAt, "")
	w := crm.NewWeightedDeal(d, p, daysInStage)
	w.RiskScore = CalculateRiskScore(w, d.CompetitorCount)
	w.Priority = CalculatePriority(w)
	return w
}

// EnrichDeals fans per-deal enrichment out across workers and returns the
// results in input order.
func EnrichDeals(ctx context.Context, deals []crm.Deal, now time.Time) ([]crm.WeightedDeal, error) {
	if len(deals) == 0 {
		return nil, nil
	}

	enriched := make([]crm.WeightedDeal, len(deals))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, d := range deals {
		i, d := i, d
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			enriched[i] = EnrichDeal(d, now)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return enriched, nil
}
