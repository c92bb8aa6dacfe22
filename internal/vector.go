package internal

import "math"

// Cosine computes cosine similarity over the shared prefix of a and b.
// Vectors of different lengths are compared over the shorter one; a zero
// vector yields 0 against everything.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// RoundScore rounds a similarity score to 4 decimal places for reporting.
func RoundScore(s float64) float64 {
	return math.Round(s*10000) / 10000
}
