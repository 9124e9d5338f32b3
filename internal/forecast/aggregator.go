// Package forecast buckets enriched deals into a period revenue forecast:
// per-stage counts, per-month totals, and a risk summary over the horizon.
package forecast

import (
	"math"
	"time"

	"crm-forecast-mcp/internal/crm"
)

// Period is a supported forecast horizon.
type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// Months returns the horizon length in months; a week counts as a quarter
// month.
func (p Period) Months() float64 {
	switch p {
	case PeriodWeek:
		return 0.25
	case PeriodQuarter:
		return 3
	case PeriodYear:
		return 12
	default:
		return 1
	}
}

// MonthBucket is one month of the forecast horizon.
type MonthBucket struct {
	Month         string  `json:"month"` // YYYY-MM
	TotalValue    float64 `json:"totalValue"`
	WeightedValue float64 `json:"weightedValue"`
	DealCount     int     `json:"dealCount"`
}

// RiskAnalysis counts the troubling deals inside the horizon.
type RiskAnalysis struct {
	HighRiskDeals       int `json:"highRiskDeals"`       // riskScore > 70
	LowProbabilityDeals int `json:"lowProbabilityDeals"` // probability < 0.3
	StagnantDeals       int `json:"stagnantDeals"`       // daysInStage > 90
}

// Report is the full forecast output for one period.
type Report struct {
	Period           Period            `json:"period"`
	TotalForecast    float64           `json:"totalForecast"`
	WeightedForecast float64           `json:"weightedForecast"`
	Confidence       float64           `json:"confidence"` // reported 0-100
	DealsCount       int               `json:"dealsCount"`
	StageBreakdown   map[crm.Stage]int `json:"stageBreakdown"`
	MonthlyBreakdown []MonthBucket     `json:"monthlyBreakdown"`
	RiskAnalysis     RiskAnalysis      `json:"riskAnalysis"`
}

// riskScoreBar and stagnantDaysBar mirror the pipeline service thresholds.
const (
	riskScoreBar    = 70.0
	lowProbability  = 0.3
	stagnantDaysBar = 90
)

// Aggregate turns enriched open deals into a period forecast. Deals whose
// expected close falls beyond the horizon are dropped; deals with no
// expected close at all stay in (they count toward totals but cannot be
// placed in a month bucket). The confidence multiplier discounts the
// weighted totals and is echoed back on a 0-100 scale.
func Aggregate(deals []crm.WeightedDeal, period Period, confidence float64, now time.Time) Report {
	if confidence <= 0 || confidence > 1 {
		confidence = 0.9
	}

	horizonEnd := horizonEnd(now, period)

	report := Report{
		Period:         period,
		Confidence:     math.Round(confidence * 100),
		StageBreakdown: make(map[crm.Stage]int),
	}

	var included []crm.WeightedDeal
	for _, d := range deals {
		if d.Stage.IsClosed() {
			continue
		}
		if d.ExpectedClose != nil && d.ExpectedClose.After(horizonEnd) {
			continue
		}
		included = append(included, d)
	}

	// Overdue deals stay in the forecast; the buckets reach back to the
	// earliest included close month so none of them drops off the breakdown.
	bucketStart := now
	for _, d := range included {
		if d.ExpectedClose != nil && d.ExpectedClose.Before(bucketStart) {
			bucketStart = *d.ExpectedClose
		}
	}

	buckets := monthBuckets(bucketStart, horizonEnd)

	for _, d := range included {
		report.TotalForecast += d.Value
		report.WeightedForecast += d.WeightedValue * confidence
		report.StageBreakdown[d.Stage]++

		if d.ExpectedClose != nil {
			key := d.ExpectedClose.Format("2006-01")
			if b, ok := buckets[key]; ok {
				b.TotalValue += d.Value
				b.WeightedValue += d.WeightedValue * confidence
				b.DealCount++
			}
		}

		if d.RiskScore > riskScoreBar {
			report.RiskAnalysis.HighRiskDeals++
		}
		if d.Probability < lowProbability {
			report.RiskAnalysis.LowProbabilityDeals++
		}
		if d.DaysInStage > stagnantDaysBar {
			report.RiskAnalysis.StagnantDeals++
		}
	}

	report.DealsCount = len(included)
	report.TotalForecast = round2(report.TotalForecast)
	report.WeightedForecast = round2(report.WeightedForecast)
	report.MonthlyBreakdown = orderedBuckets(bucketStart, horizonEnd, buckets)
	for i := range report.MonthlyBreakdown {
		report.MonthlyBreakdown[i].TotalValue = round2(report.MonthlyBreakdown[i].TotalValue)
		report.MonthlyBreakdown[i].WeightedValue = round2(report.MonthlyBreakdown[i].WeightedValue)
	}
	return report
}

func horizonEnd(now time.Time, period Period) time.Time {
	switch period {
	case PeriodWeek:
		return now.AddDate(0, 0, 7)
	case PeriodQuarter:
		return now.AddDate(0, 3, 0)
	case PeriodYear:
		return now.AddDate(1, 0, 0)
	default:
		return now.AddDate(0, 1, 0)
	}
}

// monthBuckets prepares one bucket per calendar month touched by the horizon.
func monthBuckets(start, end time.Time) map[string]*MonthBucket {
	buckets := make(map[string]*MonthBucket)
	for cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location()); !cur.After(end); cur = cur.AddDate(0, 1, 0) {
		key := cur.Format("2006-01")
		buckets[key] = &MonthBucket{Month: key}
	}
	return buckets
}

func orderedBuckets(start, end time.Time, buckets map[string]*MonthBucket) []MonthBucket {
	var ordered []MonthBucket
	for cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location()); !cur.After(end); cur = cur.AddDate(0, 1, 0) {
		if b, ok := buckets[cur.Format("2006-01")]; ok {
			ordered = append(ordered, *b)
		}
	}
	return ordered
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
