package insight

import (
	"math"

	"aeropulse.app/pulse/internal/model"
)

var colorWeights = map[model.InsightColor]int{
	model.InsightColorRed:    100,
	model.InsightColorYellow: 70,
	model.InsightColorBlue:   50,
	model.InsightColorGreen:  30,
}

var typeWeights = map[model.InsightType]int{
	model.InsightTypeOptimization: 80,
	model.InsightTypeStrategy:     60,
	model.InsightTypeEngagement:   40,
}

// priorityScore ranks an insight by fixed color and type weights plus
// conditional bonuses for severity, volume, and sentiment magnitude.
func priorityScore(color model.InsightColor, insightType model.InsightType, severity string, mentions int, sentiment float64) int {
	score := colorWeights[color] + typeWeights[insightType]

	if severity == "high" {
		score += 50
	}
	if mentions > 10 {
		score += 30
	}
	if math.Abs(sentiment) > 0.5 {
		score += 20
	}

	return score
}
