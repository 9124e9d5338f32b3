package stats

import "math"

// Trend classifications for a fitted series.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// trendSlopeEpsilon is the slope magnitude below which a fit counts as flat.
const trendSlopeEpsilon = 0.01

// ForecastResult is a single projected period.
type ForecastResult struct {
	Period     int     `json:"period"` // 1-indexed steps ahead
	Predicted  float64 `json:"predicted"`
	UpperBound float64 `json:"upperBound"`
	LowerBound float64 `json:"lowerBound"`
	Confidence float64 `json:"confidence"`
	Trend      string  `json:"trend"`
}

// ForecastTimeSeries projects a numeric history periodsAhead steps into the
// future using a linear trend with widening confidence bands.
//
// Histories shorter than three points carry no usable trend: the forecast is
// then flat at the last known value (or 0), at 50% confidence, with a
// zero-width band.
func ForecastTimeSeries(history []float64, periodsAhead int, confidenceLevel float64) []ForecastResult {
	if periodsAhead <= 0 {
		periodsAhead = 3
	}
	if confidenceLevel <= 0 || confidenceLevel > 1 {
		confidenceLevel = 0.95
	}

	if len(history) < 3 {
		last := 0.0
		if len(history) > 0 {
			last = history[len(history)-1]
		}
		if last < 0 {
			last = 0
		}
		flat := make([]ForecastResult, periodsAhead)
		for i := range flat {
			flat[i] = ForecastResult{
				Period:     i + 1,
				Predicted:  last,
				UpperBound: last,
				LowerBound: last,
				Confidence: 0.5,
				Trend:      TrendStable,
			}
		}
		return flat
	}

	points := make([]Point, len(history))
	for i, v := range history {
		points[i] = Point{X: float64(i), Y: v}
	}
	fit := LinearRegression(points)

	trend := TrendStable
	if fit.Slope > trendSlopeEpsilon {
		trend = TrendIncreasing
	} else if fit.Slope < -trendSlopeEpsilon {
		trend = TrendDecreasing
	}

	stdError := residualStdError(points, fit)

	n := float64(len(history))
	results := make([]ForecastResult, periodsAhead)
	for i := 0; i < periodsAhead; i++ {
		step := float64(i + 1)
		predicted := fit.Intercept + fit.Slope*(n-1+step)
		if predicted < 0 {
			predicted = 0
		}

		// Band widens with the horizon; confidence decays linearly.
		margin := confidenceLevel * stdError * math.Sqrt(step)
		confidence := confidenceLevel - step*0.1
		if confidence < 0.1 {
			confidence = 0.1
		}

		lower := predicted - margin
		if lower < 0 {
			lower = 0
		}

		results[i] = ForecastResult{
			Period:     i + 1,
			Predicted:  round2(predicted),
			UpperBound: round2(predicted + margin),
			LowerBound: round2(lower),
			Confidence: round2(confidence),
			Trend:      trend,
		}
	}
	return results
}

func residualStdError(points []Point, fit RegressionResult) float64 {
	if len(points) <= 2 {
		return 0
	}
	var ssRes float64
	for _, p := range points {
		pred := fit.Intercept + fit.Slope*p.X
		ssRes += (p.Y - pred) * (p.Y - pred)
	}
	return math.Sqrt(ssRes / float64(len(points)-2))
}
