package game

import (
	"strings"

	"github.com/MikeSquared-Agency/callsim/internal/persona"
)

// Alignment is how well an agent response matched the customer's motivation.
type Alignment string

const (
	AlignmentMatched    Alignment = "matched"
	AlignmentNeutral    Alignment = "neutral"
	AlignmentMisaligned Alignment = "misaligned"
)

const (
	// MaxFrustration caps the tracked frustration scale.
	MaxFrustration = 10.0
	// BounceThreshold is the frustration level at which any customer hangs up.
	BounceThreshold = 8.0
	// MinBounceTurn gives the agent a chance: nobody bounces before turn 3.
	MinBounceTurn = 3
	// Hand customers bail earlier, at a lower threshold, once turn 4 passes.
	HandEarlyBounceTurn      = 4
	HandEarlyBounceThreshold = 6.0

	// The sentiment estimate must itself show frustration before a bounce is
	// allowed, so an engaged-sounding customer never hangs up abruptly.
	bounceSentimentGate = 6
)

var baseFrustrationPerTurn = map[persona.Motivation]float64{
	persona.MotivationHead:  0.3,
	persona.MotivationHeart: 0.5,
	persona.MotivationHand:  1.0,
}

var headSignals = []string{
	"spec", "compare", "percent", "price", "cost", "data", "feature",
	"performance", "benchmark", "value", "roi", "savings",
}

var heartSignals = []string{
	"understand", "feel", "appreciate", "journey", "story", "together",
	"care", "help", "support", "experience", "community",
}

// AssessAlignment scores an agent response against the customer's hidden
// motivation. Head customers want data words, heart customers want warmth,
// hand customers mostly want brevity.
func AssessAlignment(agentResponse string, m persona.Motivation) Alignment {
	wordCount := len(strings.Fields(agentResponse))
	lower := strings.ToLower(agentResponse)

	headScore := 0
	for _, s := range headSignals {
		if strings.Contains(lower, s) {
			headScore++
		}
	}
	heartScore := 0
	for _, s := range heartSignals {
		if strings.Contains(lower, s) {
			heartScore++
		}
	}

	switch m {
	case persona.MotivationHead:
		if headScore >= 2 {
			return AlignmentMatched
		}
		if heartScore >= 2 {
			return AlignmentMisaligned
		}
		return AlignmentNeutral
	case persona.MotivationHeart:
		if heartScore >= 2 {
			return AlignmentMatched
		}
		if wordCount < 30 {
			return AlignmentMisaligned
		}
		return AlignmentNeutral
	default: // hand
		if wordCount <= 50 {
			return AlignmentMatched
		}
		if wordCount > 100 {
			return AlignmentMisaligned
		}
		return AlignmentNeutral
	}
}

// FrustrationIncrease computes how much an agent response raises the
// customer's tracked frustration.
func FrustrationIncrease(agentResponse string, m persona.Motivation, al Alignment) float64 {
	wordCount := len(strings.Fields(agentResponse))

	var lengthPenalty float64
	switch {
	case wordCount > 150:
		lengthPenalty = 2.0
	case wordCount > 100:
		lengthPenalty = 1.0
	case wordCount > 50:
		lengthPenalty = 0.5
	}

	modifier := 0.5
	switch al {
	case AlignmentMatched:
		modifier = 0.25
	case AlignmentMisaligned:
		modifier = 1.5
	}

	// Hand customers hate verbosity.
	if m == persona.MotivationHand {
		modifier *= 1.5
	}

	base, ok := baseFrustrationPerTurn[m]
	if !ok {
		base = 0.5
	}

	return base + lengthPenalty*modifier
}

// ShouldBounce decides whether the customer hangs up. The tracked frustration
// and the analytics sentiment estimate both feed in; the sentiment gate keeps
// an apparently-engaged customer on the line.
func ShouldBounce(turn int, m persona.Motivation, tracked float64, sentimentFrustration int) bool {
	if turn < MinBounceTurn {
		return false
	}
	if sentimentFrustration < bounceSentimentGate {
		return false
	}

	effective := tracked
	if float64(sentimentFrustration) > effective {
		effective = float64(sentimentFrustration)
	}

	if effective >= BounceThreshold {
		return true
	}
	if m == persona.MotivationHand && turn >= HandEarlyBounceTurn && effective >= HandEarlyBounceThreshold {
		return true
	}
	return false
}

// WillConvert decides whether the customer says yes to a close attempt.
// Fraud never converts legitimately; a matched motivation lowers the bar.
func WillConvert(satisfaction, frustration, likelihood int, matchedMotivation, isFraud bool) bool {
	if isFraud {
		return false
	}
	if frustration > 7 {
		return false
	}
	if matchedMotivation {
		return satisfaction >= 4 && likelihood >= 4
	}
	return satisfaction >= 7 && likelihood >= 6
}
