package analytics

import "github.com/MikeSquared-Agency/callsim/internal/persona"

// DefaultFraudLikelihood is the documented neutral prior. The display reset
// value and the estimator fallback use the same constant so an estimator
// with no opinion never inherits whatever the dashboard showed last.
const DefaultFraudLikelihood = 2

// MotivationSplit is the three-way motivation probability distribution,
// in percentages that always sum to exactly 100.
type MotivationSplit struct {
	Head  int `json:"head"`
	Heart int `json:"heart"`
	Hand  int `json:"hand"`
}

// DefaultSplit is the uniform prior before any evidence.
func DefaultSplit() MotivationSplit {
	return MotivationSplit{Head: 33, Heart: 33, Hand: 34}
}

// Normalize corrects the split so the percentages sum to exactly 100.
// Negative components are zeroed; an empty split falls back to the prior.
// The hand component absorbs integer-division remainder.
func (m MotivationSplit) Normalize() MotivationSplit {
	h, e, a := m.Head, m.Heart, m.Hand
	if h < 0 {
		h = 0
	}
	if e < 0 {
		e = 0
	}
	if a < 0 {
		a = 0
	}
	sum := h + e + a
	if sum == 0 {
		return DefaultSplit()
	}
	nh := h * 100 / sum
	ne := e * 100 / sum
	return MotivationSplit{Head: nh, Heart: ne, Hand: 100 - nh - ne}
}

// Dominant returns the leading motivation, preferring head then heart on ties.
func (m MotivationSplit) Dominant() persona.Motivation {
	if m.Head >= m.Heart && m.Head >= m.Hand {
		return persona.MotivationHead
	}
	if m.Heart >= m.Hand {
		return persona.MotivationHeart
	}
	return persona.MotivationHand
}

// Sentiment is the five-scalar emotional read of the customer, each 0-10.
type Sentiment struct {
	Satisfaction        int    `json:"satisfaction"`
	Trust               int    `json:"trust"`
	Urgency             int    `json:"urgency"`
	Frustration         int    `json:"frustration"`
	LikelihoodToConvert int    `json:"likelihood_to_convert"`
	EmotionalTone       string `json:"emotional_tone"`
}

// DefaultSentiment is the neutral prior: 5 across the board except
// frustration, which starts low.
func DefaultSentiment() Sentiment {
	return Sentiment{
		Satisfaction:        5,
		Trust:               5,
		Urgency:             5,
		Frustration:         2,
		LikelihoodToConvert: 5,
		EmotionalTone:       "neutral",
	}
}

// Snapshot is the live-recomputed dashboard view. It is derived state: a
// projection over the transcript, never a mutation of the session.
type Snapshot struct {
	FraudLikelihood int             `json:"fraud_likelihood"`
	Motivation      MotivationSplit `json:"motivation_guess"`
	Sentiment       Sentiment       `json:"sentiment"`
	Tone            Tone            `json:"tone"`
	Reasoning       string          `json:"reasoning"`
}

// DefaultSnapshot is the documented neutral dashboard before any analysis.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		FraudLikelihood: DefaultFraudLikelihood,
		Motivation:      DefaultSplit(),
		Sentiment:       DefaultSentiment(),
		Tone:            ToneNeutral,
		Reasoning:       "Analysis in progress...",
	}
}

// normalize clamps every scalar and corrects the motivation split so a
// malformed estimator response never reaches the wire.
func (s Snapshot) normalize() Snapshot {
	s.FraudLikelihood = clamp10(s.FraudLikelihood)
	s.Motivation = s.Motivation.Normalize()
	s.Sentiment.Satisfaction = clamp10(s.Sentiment.Satisfaction)
	s.Sentiment.Trust = clamp10(s.Sentiment.Trust)
	s.Sentiment.Urgency = clamp10(s.Sentiment.Urgency)
	s.Sentiment.Frustration = clamp10(s.Sentiment.Frustration)
	s.Sentiment.LikelihoodToConvert = clamp10(s.Sentiment.LikelihoodToConvert)
	if s.Sentiment.EmotionalTone == "" {
		s.Sentiment.EmotionalTone = "neutral"
	}
	s.Tone = ClassifyTone(s.Sentiment.EmotionalTone)
	return s
}

func clamp10(v int) int {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
