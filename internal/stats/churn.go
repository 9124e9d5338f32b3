package stats

import "math"

// ChurnFeatures describes an account's engagement profile.
type ChurnFeatures struct {
	DaysSinceLastActivity int     `json:"daysSinceLastActivity"`
	TotalRevenue          float64 `json:"totalRevenue"`
	DealCount             int     `json:"dealCount"`
	AvgDealSize           float64 `json:"avgDealSize"`
	RelationshipStrength  string  `json:"relationshipStrength"` // WEAK..EXCELLENT
}

// Relationship weights feed the churn model directly: a weak relationship is
// itself a churn driver.
var relationshipChurnWeight = map[string]float64{
	"WEAK":      0.8,
	"MODERATE":  0.5,
	"STRONG":    0.2,
	"EXCELLENT": 0.05,
}

// PredictChurnProbability estimates the likelihood an account disengages,
// from a logistic combination of recency, revenue, deal volume and
// relationship strength. The result is clamped to [0.01, 0.95] so the model
// never claims certainty either way.
func PredictChurnProbability(features ChurnFeatures) float64 {
	recency := saturate(float64(features.DaysSinceLastActivity) / 365.0)

	// Revenue and volume protect against churn; saturate each on a scale
	// where a large book of business fully offsets its factor.
	revenueShield := 1.0 - saturate(features.TotalRevenue/1_000_000)
	volumeShield := 1.0 - saturate(float64(features.DealCount)/20.0)
	sizeShield := 1.0 - saturate(features.AvgDealSize/500_000)

	relWeight, ok := relationshipChurnWeight[features.RelationshipStrength]
	if !ok {
		relWeight = relationshipChurnWeight["MODERATE"]
	}

	// Weighted risk signal in [0,1], centered before the sigmoid so that a
	// middling profile lands near 0.5.
	signal := 0.35*recency + 0.20*revenueShield + 0.15*volumeShield + 0.10*sizeShield + 0.20*relWeight
	z := 4.0 * (signal - 0.5)

	p := sigmoid(z)
	if p < 0.01 {
		p = 0.01
	} else if p > 0.95 {
		p = 0.95
	}
	return p
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// saturate clamps a ratio to [0,1].
func saturate(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
