package stats

import "math"

// DefaultAlpha is the smoothing factor used when callers have no opinion.
const DefaultAlpha = 0.3

// ExponentialMovingAverage smooths a series. The first output equals the
// first input; each subsequent value is alpha*x + (1-alpha)*prev. An empty
// series yields an empty, non-nil result so it serializes as [] rather
// than null.
func ExponentialMovingAverage(series []float64, alpha float64) []float64 {
	if len(series) == 0 {
		return []float64{}
	}
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultAlpha
	}

	ema := make([]float64, len(series))
	ema[0] = series[0]
	for i := 1; i < len(series); i++ {
		ema[i] = alpha*series[i] + (1-alpha)*ema[i-1]
	}
	return ema
}

// Anomaly flags a single series index whose value deviates from the mean.
type Anomaly struct {
	Index  int     `json:"index"`
	Value  float64 `json:"value"`
	ZScore float64 `json:"zScore"`
}

// DetectAnomalies flags indices whose z-score exceeds the threshold. Fewer
// than three points, or a flat series, produce no anomalies.
func DetectAnomalies(series []float64, threshold float64) []Anomaly {
	if len(series) < 3 {
		return nil
	}
	if threshold <= 0 {
		threshold = 2
	}

	mean, stdDev := meanAndStdDev(series)
	if stdDev == 0 {
		return nil
	}

	// Boundary z-scores (a lone spike in a flat series lands exactly on the
	// threshold) must flag despite float noise.
	const zEpsilon = 1e-9

	var anomalies []Anomaly
	for i, v := range series {
		z := math.Abs(v-mean) / stdDev
		if z-threshold > -zEpsilon {
			anomalies = append(anomalies, Anomaly{Index: i, Value: v, ZScore: round2(z)})
		}
	}
	return anomalies
}

func meanAndStdDev(series []float64) (float64, float64) {
	n := float64(len(series))
	if n == 0 {
		return 0, 0
	}

	sum := 0.0
	for _, v := range series {
		sum += v
	}
	mean := sum / n

	variance := 0.0
	for _, v := range series {
		variance += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(variance / n)
}

// round2 rounds to two decimals, the single rounding rule used across the
// engine's reported figures.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
