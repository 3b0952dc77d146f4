package diarize

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// clusterEmbeddings groups embedding vectors by speaker using agglomerative
// clustering with average linkage over cosine distance. The speaker count is
// chosen by silhouette score across candidate counts 2..min(maxSpeakers, n),
// ties going to the lowest count.
//
// Returns one label per vector, numbered by first appearance. With three or
// fewer vectors there is too little evidence to score candidates, so every
// vector becomes its own speaker; the same fallback applies when no
// candidate produces a valid score.
func clusterEmbeddings(vectors [][]float32, maxSpeakers int) []int {
	n := len(vectors)
	if n == 0 {
		return nil
	}
	if n <= 3 {
		return singletons(n)
	}

	dist := distanceMatrix(vectors)
	snapshots := agglomerate(dist, 2, min(maxSpeakers, n))

	bestScore := math.Inf(-1)
	var best []int
	for k := min(maxSpeakers, n); k >= 2; k-- {
		labels, ok := snapshots[k]
		if !ok {
			continue
		}
		score := silhouette(dist, labels, k)
		if math.IsNaN(score) {
			continue
		}
		// >= so that the lowest count wins ties.
		if score >= bestScore {
			bestScore = score
			best = labels
		}
	}
	if best == nil {
		return singletons(n)
	}
	return renumber(best)
}

func singletons(n int) []int {
	labels := make([]int, n)
	for i := range labels {
		labels[i] = i
	}
	return labels
}

// distanceMatrix precomputes pairwise cosine distances.
func distanceMatrix(vectors [][]float32) [][]float64 {
	n := len(vectors)
	vs := make([][]float64, n)
	for i, v := range vectors {
		vs[i] = make([]float64, len(v))
		for j, x := range v {
			vs[i][j] = float64(x)
		}
	}
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := cosineDistance(vs[i], vs[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}
	return dist
}

// cosineDistance returns 1 - cosine_similarity. Zero vectors are maximally
// distant from everything.
func cosineDistance(a, b []float64) float64 {
	denom := floats.Norm(a, 2) * floats.Norm(b, 2)
	if denom == 0 {
		return 1
	}
	return 1 - floats.Dot(a, b)/denom
}

// agglomerate merges the closest cluster pair (average linkage) until one
// cluster remains, snapshotting the labeling at every cluster count within
// [low, high].
func agglomerate(dist [][]float64, low, high int) map[int][]int {
	n := len(dist)
	clusters := make([][]int, n)
	for i := range clusters {
		clusters[i] = []int{i}
	}

	snapshots := make(map[int][]int)
	snapshot := func() {
		if len(clusters) < low || len(clusters) > high {
			return
		}
		labels := make([]int, n)
		for id, members := range clusters {
			for _, m := range members {
				labels[m] = id
			}
		}
		snapshots[len(clusters)] = labels
	}
	snapshot()

	for len(clusters) > 1 {
		bi, bj := 0, 1
		bd := math.Inf(1)
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				d := linkage(dist, clusters[i], clusters[j])
				if d < bd {
					bd = d
					bi, bj = i, j
				}
			}
		}
		clusters[bi] = append(clusters[bi], clusters[bj]...)
		clusters = append(clusters[:bj], clusters[bj+1:]...)
		snapshot()
	}
	return snapshots
}

// linkage is the average pairwise distance between two clusters.
func linkage(dist [][]float64, a, b []int) float64 {
	sum := 0.0
	for _, i := range a {
		for _, j := range b {
			sum += dist[i][j]
		}
	}
	return sum / float64(len(a)*len(b))
}

// silhouette computes the mean silhouette coefficient of a labeling.
// Points in singleton clusters score zero. Returns NaN when the labeling
// degenerates to a single cluster.
func silhouette(dist [][]float64, labels []int, k int) float64 {
	n := len(labels)
	sizes := make(map[int]int)
	for _, l := range labels {
		sizes[l]++
	}
	if len(sizes) < 2 {
		return math.NaN()
	}

	total := 0.0
	for i := 0; i < n; i++ {
		if sizes[labels[i]] == 1 {
			continue
		}
		intra := 0.0
		inter := make(map[int]float64)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			if labels[j] == labels[i] {
				intra += dist[i][j]
			} else {
				inter[labels[j]] += dist[i][j]
			}
		}
		a := intra / float64(sizes[labels[i]]-1)
		b := math.Inf(1)
		for l, sum := range inter {
			if avg := sum / float64(sizes[l]); avg < b {
				b = avg
			}
		}
		if m := math.Max(a, b); m > 0 {
			total += (b - a) / m
		}
	}
	return total / float64(n)
}

// renumber maps labels to consecutive ints ordered by first appearance.
func renumber(labels []int) []int {
	next := 0
	seen := make(map[int]int)
	out := make([]int, len(labels))
	for i, l := range labels {
		id, ok := seen[l]
		if !ok {
			id = next
			seen[l] = id
			next++
		}
		out[i] = id
	}
	return out
}
