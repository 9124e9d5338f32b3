// Package stats provides the generic numeric primitives behind the scoring
// and forecasting services: regression, smoothing, clustering, time-series
// projection, anomaly detection and churn estimation. It has no knowledge of
// deals; callers hand it plain numeric series and feature vectors.
package stats

import "math"

// Point is a single (x, y) observation.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RegressionResult holds an ordinary-least-squares fit.
type RegressionResult struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"rSquared"`
}

// LinearRegression fits y = slope*x + intercept over the given points.
// Degenerate input (fewer than two points, or zero variance in x) returns a
// zero-slope fit with RSquared 0 instead of NaN.
func LinearRegression(points []Point) RegressionResult {
	n := float64(len(points))
	if len(points) < 2 {
		return RegressionResult{}
	}

	var sumX, sumY, sumXY, sumXX float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumXX += p.X * p.X
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return RegressionResult{Intercept: sumY / n}
	}

	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	// R^2 = 1 - SSres/SStot, guarded against zero total variance.
	meanY := sumY / n
	var ssRes, ssTot float64
	for _, p := range points {
		pred := slope*p.X + intercept
		ssRes += (p.Y - pred) * (p.Y - pred)
		ssTot += (p.Y - meanY) * (p.Y - meanY)
	}

	r2 := 0.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}
	if r2 < 0 {
		r2 = 0
	} else if r2 > 1 {
		r2 = 1
	}

	return RegressionResult{Slope: slope, Intercept: intercept, RSquared: r2}
}

// CorrelationCoefficient computes the Pearson correlation between two series.
// Mismatched lengths, fewer than two points, or a zero-variance denominator
// all yield 0.
func CorrelationCoefficient(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}

	n := float64(len(x))
	var sumX, sumY, sumXY, sumXX, sumYY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumXX += x[i] * x[i]
		sumYY += y[i] * y[i]
	}

	denom := math.Sqrt((n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY))
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}
