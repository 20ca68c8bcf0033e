package voiceid

import "math"

// normEpsilon guards unit normalization against zero vectors.
const normEpsilon = 1e-10

// Cosine returns the cosine similarity of two vectors in [-1, 1].
// Vectors are unit-normalized with a small epsilon so a zero vector
// yields similarity ~0 instead of dividing by zero. Mismatched
// dimensions score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		ai, bi := float64(a[i]), float64(b[i])
		dot += ai * bi
		normA += ai * ai
		normB += bi * bi
	}
	sim := dot / ((math.Sqrt(normA) + normEpsilon) * (math.Sqrt(normB) + normEpsilon))
	// Clamp floating point spill.
	if sim > 1 {
		sim = 1
	}
	if sim < -1 {
		sim = -1
	}
	return sim
}

// Mean returns the component-wise average of the vectors. All vectors
// must share the dimension of the first; nil is returned for empty input.
func Mean(vecs [][]float32) []float32 {
	if len(vecs) == 0 {
		return nil
	}
	dim := len(vecs[0])
	sum := make([]float64, dim)
	for _, v := range vecs {
		for i := range v {
			sum[i] += float64(v[i])
		}
	}
	out := make([]float32, dim)
	n := float64(len(vecs))
	for i := range sum {
		out[i] = float32(sum[i] / n)
	}
	return out
}
