package services

import "github.com/archivist-labs/docqa/internal/core/domain"

// Confidence blends retrieval and answer signals into one score.
const (
	weightLexical   = 0.25
	weightSemantic  = 0.35
	weightEntity    = 0.20
	weightCitations = 0.10
	weightDocuments = 0.10

	confidenceHigh   = 0.75
	confidenceMedium = 0.50
)

// ScoreConfidence computes the blended confidence for an answered
// question. Distances with no reading are expected to be excluded by
// the caller; an empty slice scores the semantic component zero.
func ScoreConfidence(topLexical float64, distances []float64, entityMatched bool, citations, documents int) domain.Confidence {
	semantic := 0.0
	if len(distances) > 0 {
		sum := 0.0
		for _, d := range distances {
			sum += d
		}
		avg := sum / float64(len(distances))
		semantic = 1.0 - avg/2.0
		if semantic < 0 {
			semantic = 0
		}
	}

	entity := 0.0
	if entityMatched {
		entity = 1.0
	}

	citationSignal := float64(citations) / 3.0
	if citationSignal > 1 {
		citationSignal = 1
	}
	documentSignal := float64(documents) / 5.0
	if documentSignal > 1 {
		documentSignal = 1
	}

	score := weightLexical*clamp01(topLexical) +
		weightSemantic*semantic +
		weightEntity*entity +
		weightCitations*citationSignal +
		weightDocuments*documentSignal

	level := "low"
	switch {
	case score >= confidenceHigh:
		level = "high"
	case score >= confidenceMedium:
		level = "medium"
	}

	return domain.Confidence{Score: score, Level: level}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
