package stats

import "math"

const (
	// DefaultK is the cluster count used when callers pass no preference.
	DefaultK = 3
	// DefaultMaxIterations bounds the assignment/update loop.
	DefaultMaxIterations = 50

	// convergenceEpsilon stops iteration once every centroid moves less
	// than this distance between rounds.
	convergenceEpsilon = 0.001
)

// ClusterResult holds the outcome of a k-means run. Assignments[i] is the
// centroid index for input point i.
type ClusterResult struct {
	Centroids   [][]float64 `json:"centroids"`
	Assignments []int       `json:"assignments"`
	Iterations  int         `json:"iterations"`
}

// KMeansClustering partitions points into k clusters. Initialization is
// deterministic: the first k input points seed the centroids. Empty input or
// k <= 0 returns an empty result. A cluster that loses all members keeps its
// previous centroid.
func KMeansClustering(points [][]float64, k, maxIterations int) ClusterResult {
	if len(points) == 0 || k <= 0 {
		return ClusterResult{}
	}
	if k > len(points) {
		k = len(points)
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	dims := len(points[0])
	centroids := make([][]float64, k)
	for i := 0; i < k; i++ {
		centroids[i] = append([]float64(nil), points[i]...)
	}

	assignments := make([]int, len(points))
	iterations := 0

	for iter := 0; iter < maxIterations; iter++ {
		iterations = iter + 1

		// Assignment step
		for i, p := range points {
			best := 0
			bestDist := math.MaxFloat64
			for c, centroid := range centroids {
				d := euclideanDistance(p, centroid)
				if d < bestDist {
					bestDist = d
					best = c
				}
			}
			assignments[i] = best
		}

		// Update step
		sums := make([][]float64, k)
		counts := make([]int, k)
		for i := range sums {
			sums[i] = make([]float64, dims)
		}
		for i, p := range points {
			c := assignments[i]
			counts[c]++
			for d := 0; d < dims && d < len(p); d++ {
				sums[c][d] += p[d]
			}
		}

		maxShift := 0.0
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue // empty cluster keeps its previous centroid
			}
			next := make([]float64, dims)
			for d := 0; d < dims; d++ {
				next[d] = sums[c][d] / float64(counts[c])
			}
			if shift := euclideanDistance(centroids[c], next); shift > maxShift {
				maxShift = shift
			}
			centroids[c] = next
		}

		if maxShift < convergenceEpsilon {
			break
		}
	}

	return ClusterResult{
		Centroids:   centroids,
		Assignments: assignments,
		Iterations:  iterations,
	}
}

func euclideanDistance(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}
