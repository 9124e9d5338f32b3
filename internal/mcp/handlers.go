package mcp

import (
	"context"
	"fmt"
	"sort"
	"time"

	"crm-forecast-mcp/internal/crm"
	"crm-forecast-mcp/internal/dealstore"
	"crm-forecast-mcp/internal/forecast"
	"crm-forecast-mcp/internal/pipeline"
	"crm-forecast-mcp/internal/scoring"
	"crm-forecast-mcp/internal/stats"
)

func (s *Server) handleImportDeals(path string) (interface{}, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}

	imported := dealstore.NewStore()
	if err := importFile(imported, path, s.cfg.DealSource); err != nil {
		return nil, err
	}

	merged := s.store.Put(s.cfg.DealSource, imported.All(s.cfg.DealSource))
	if err := s.store.Save(s.cfg.DataPath, s.cfg.DealSource); err != nil {
		return nil, fmt.Errorf("deals merged but not persisted: %w", err)
	}

	return map[string]interface{}{
		"merged": merged,
		"total":  s.store.Count(s.cfg.DealSource),
	}, nil
}

func (s *Server) handleScoreOpportunities(dealIDs []string) (interface{}, error) {
	deals := s.store.Open(s.cfg.DealSource)
	if len(dealIDs) > 0 {
		wanted := make(map[string]bool, len(dealIDs))
		for _, id := range dealIDs {
			wanted[id] = true
		}
		var filtered []crm.Deal
		for _, d := range deals {
			if wanted[d.ID] {
				filtered = append(filtered, d)
			}
		}
		deals = filtered
	}
	if len(deals) == 0 {
		return nil, fmt.Errorf("no open deals to score")
	}

	// Scoring consumes the modeled close probability, not the raw estimate
	// carried on the deal record.
	now := time.Now()
	enriched, err := pipeline.EnrichDeals(context.Background(), deals, now)
	if err != nil {
		return nil, err
	}

	criteria := make([]crm.ScoringCriteria, len(deals))
	for i, d := range deals {
		criteria[i] = crm.CriteriaFromDeal(d, now)
		criteria[i].Probability = enriched[i].Probability
	}

	return scoring.RankOpportunities(deals, criteria), nil
}

func (s *Server) handlePortfolioMetrics() (interface{}, error) {
	ranked, err := s.handleScoreOpportunities(nil)
	if err != nil {
		return nil, err
	}
	return scoring.CalculatePortfolioMetrics(ranked.([]scoring.OpportunityScore)), nil
}

func (s *Server) handleRevenueForecast(period string, confidence float64) (interface{}, error) {
	p := forecast.Period(period)
	switch p {
	case forecast.PeriodWeek, forecast.PeriodMonth, forecast.PeriodQuarter, forecast.PeriodYear:
	case "":
		p = forecast.PeriodQuarter
	default:
		return nil, fmt.Errorf("unknown period %q: use week, month, quarter or year", period)
	}

	deals := s.store.Open(s.cfg.DealSource)
	if len(deals) == 0 {
		return nil, fmt.Errorf("no open deals to forecast")
	}

	now := time.Now()
	enriched, err := pipeline.EnrichDeals(context.Background(), deals, now)
	if err != nil {
		return nil, err
	}

	return forecast.Aggregate(enriched, p, confidence, now), nil
}

// RevenueTrend is the response of get_revenue_trend.
type RevenueTrend struct {
	Months    []string               `json:"months"`
	Revenue   []float64              `json:"revenue"`
	Smoothed  []float64              `json:"smoothed"`
	Forecast  []stats.ForecastResult `json:"forecast"`
	Anomalies []stats.Anomaly        `json:"anomalies"`
	Insights  []string               `json:"insights"`
}

func (s *Server) handleRevenueTrend(monthsBack, periodsAhead int) (interface{}, error) {
	if monthsBack <= 0 {
		monthsBack = 12
	}
	if periodsAhead <= 0 {
		periodsAhead = 3
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -monthsBack, 0)

	trend := RevenueTrend{
		Months:  make([]string, monthsBack),
		Revenue: make([]float64, monthsBack),
	}
	for i := 0; i < monthsBack; i++ {
		monthStart := start.AddDate(0, i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)
		trend.Months[i] = monthStart.Format("2006-01")
		for _, d := range s.store.ClosedWonBetween(s.cfg.DealSource, monthStart, monthEnd) {
			trend.Revenue[i] += d.Value
		}
	}

	trend.Smoothed = stats.ExponentialMovingAverage(trend.Revenue, stats.DefaultAlpha)
	trend.Forecast = stats.ForecastTimeSeries(trend.Revenue, periodsAhead, 0.95)
	trend.Anomalies = stats.DetectAnomalies(trend.Revenue, 2)
	trend.Insights = stats.GenerateInsights(s.aggregateStats(trend.Revenue, now))

	return trend, nil
}

// aggregateStats derives the insight inputs from the revenue series and the
// current book of deals.
func (s *Server) aggregateStats(monthlyRevenue []float64, now time.Time) stats.AggregateStats {
	agg := stats.AggregateStats{
		PipelineByStage: make(map[string]float64),
	}
	if n := len(monthlyRevenue); n >= 2 {
		agg.CurrentRevenue = monthlyRevenue[n-1]
		agg.PreviousRevenue = monthlyRevenue[n-2]
	}

	won, lost := 0, 0
	for _, d := range s.store.All(s.cfg.DealSource) {
		switch d.Stage {
		case crm.StageClosedWon:
			won++
		case crm.StageClosedLost:
			lost++
		default:
			agg.PipelineByStage[string(d.Stage)] += d.Value
		}
	}
	if won+lost > 0 {
		agg.ConversionRate = float64(won) / float64(won+lost)
	}
	return agg
}

// AccountSegment is one k-means cluster of open deals.
type AccountSegment struct {
	Centroid struct {
		Value          float64 `json:"value"`
		Probability    float64 `json:"probability"`
		DaysInPipeline float64 `json:"daysInPipeline"`
	} `json:"centroid"`
	DealIDs []string `json:"dealIds"`
}

func (s *Server) handleSegmentAccounts(clusters int) (interface{}, error) {
	deals := s.store.Open(s.cfg.DealSource)
	if len(deals) == 0 {
		return nil, fmt.Errorf("no open deals to segment")
	}
	if clusters <= 0 {
		clusters = stats.DefaultK
	}

	now := time.Now()
	// Scale the dimensions so value does not swamp probability and age.
	points := make([][]float64, len(deals))
	for i, d := range deals {
		points[i] = []float64{
			d.Value / 1000, // thousands
			d.Probability * 100,
			float64(d.DaysInPipeline(now)),
		}
	}

	result := stats.KMeansClustering(points, clusters, stats.DefaultMaxIterations)

	segments := make([]AccountSegment, len(result.Centroids))
	for c, centroid := range result.Centroids {
		segments[c].Centroid.Value = centroid[0] * 1000
		segments[c].Centroid.Probability = centroid[1] / 100
		segments[c].Centroid.DaysInPipeline = centroid[2]
	}
	for i, c := range result.Assignments {
		segments[c].DealIDs = append(segments[c].DealIDs, deals[i].ID)
	}
	return segments, nil
}

// ChurnAssessment is one owner's churn estimate.
type ChurnAssessment struct {
	OwnerID          string              `json:"ownerId"`
	ChurnProbability float64             `json:"churnProbability"`
	Features         stats.ChurnFeatures `json:"features"`
}

func (s *Server) handleChurnRisk() (interface{}, error) {
	deals := s.store.All(s.cfg.DealSource)
	if len(deals) == 0 {
		return nil, fmt.Errorf("no deals in store")
	}

	now := time.Now()
	byOwner := make(map[string][]crm.Deal)
	for _, d := range deals {
		byOwner[d.OwnerID] = append(byOwner[d.OwnerID], d)
	}

	var assessments []ChurnAssessment
	for owner, owned := range byOwner {
		features := ownerChurnFeatures(owned, now)
		assessments = append(assessments, ChurnAssessment{
			OwnerID:          owner,
			ChurnProbability: stats.PredictChurnProbability(features),
			Features:         features,
		})
	}

	sort.Slice(assessments, func(i, j int) bool {
		if assessments[i].ChurnProbability != assessments[j].ChurnProbability {
			return assessments[i].ChurnProbability > assessments[j].ChurnProbability
		}
		return assessments[i].OwnerID < assessments[j].OwnerID
	})
	return assessments, nil
}

func ownerChurnFeatures(deals []crm.Deal, now time.Time) stats.ChurnFeatures {
	features := stats.ChurnFeatures{
		DaysSinceLastActivity: -1, // min over deals below
		RelationshipStrength:  string(crm.RelationshipWeak),
	}

	relRank := map[crm.RelationshipStrength]int{
		crm.RelationshipWeak:      0,
		crm.RelationshipModerate:  1,
		crm.RelationshipStrong:    2,
		crm.RelationshipExcellent: 3,
	}
	bestRel := 0

	wonValue := 0.0
	for _, d := range deals {
		if days := d.DaysSinceUpdate(now); features.DaysSinceLastActivity < 0 || days < features.DaysSinceLastActivity {
			features.DaysSinceLastActivity = days
		}
		if d.Stage == crm.StageClosedWon {
			wonValue += d.Value
		}
		if rank, ok := relRank[d.RelationshipStrength]; ok && rank > bestRel {
			bestRel = rank
			features.RelationshipStrength = string(d.RelationshipStrength)
		}
	}

	features.TotalRevenue = wonValue
	features.DealCount = len(deals)
	if len(deals) > 0 {
		total := 0.0
		for _, d := range deals {
			total += d.Value
		}
		features.AvgDealSize = total / float64(len(deals))
	}
	return features
}
