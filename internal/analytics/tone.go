package analytics

import "strings"

// Tone buckets the free-text emotional tone word.
type Tone string

const (
	TonePositive Tone = "positive"
	ToneNeutral  Tone = "neutral"
	ToneNegative Tone = "negative"
)

// Fixed keyword sets for tone bucketing. Anything unrecognized is neutral.
var (
	positiveTones = map[string]bool{
		"happy": true, "pleased": true, "excited": true, "satisfied": true,
		"hopeful": true, "optimistic": true, "warm": true, "friendly": true,
		"enthusiastic": true, "grateful": true, "curious": true, "interested": true,
		"engaged": true, "relieved": true, "confident": true,
	}
	negativeTones = map[string]bool{
		"angry": true, "frustrated": true, "annoyed": true, "irritated": true,
		"upset": true, "suspicious": true, "impatient": true, "anxious": true,
		"worried": true, "dismissive": true, "cold": true, "skeptical": true,
		"defensive": true, "stressed": true, "hostile": true,
	}
)

// ClassifyTone maps a tone word to its bucket.
func ClassifyTone(word string) Tone {
	w := strings.ToLower(strings.TrimSpace(word))
	if positiveTones[w] {
		return TonePositive
	}
	if negativeTones[w] {
		return ToneNegative
	}
	return ToneNeutral
}
