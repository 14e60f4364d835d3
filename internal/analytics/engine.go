package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/MikeSquared-Agency/callsim/internal/anthropic"
	"github.com/MikeSquared-Agency/callsim/internal/game"
)

const confidencePrompt = `Analyze this exchange between a customer service agent and a caller.

Last exchange:
Agent: %s
Caller: %s

Based on this exchange, assess:
1. Fraud likelihood (0-10, where 10 = definitely fraud)
2. Customer motivation type (head/heart/hand percentages that sum to 100)
3. Brief reasoning (one sentence)

Respond in JSON format only:
{
    "fraud_likelihood": <0-10>,
    "motivation_guess": {
        "head": <0-100>,
        "heart": <0-100>,
        "hand": <0-100>
    },
    "reasoning": "<one sentence>"
}`

const sentimentPrompt = `Analyze the customer's emotional state from this exchange.

Last exchange:
Agent: %s
Caller: %s

Rate the customer's current state (0-10 for each):
- satisfaction: How happy are they with this interaction?
- trust: How much do they trust the agent?
- urgency: How urgently do they want to resolve this?
- frustration: How frustrated are they?
- likelihood_to_convert: How likely to actually switch to Android?
- emotional_tone: One word describing their mood

Respond in JSON format only:
{
    "satisfaction": <0-10>,
    "trust": <0-10>,
    "urgency": <0-10>,
    "frustration": <0-10>,
    "likelihood_to_convert": <0-10>,
    "emotional_tone": "<one word>"
}`

// Completer is the LLM collaborator the engine estimates with.
type Completer interface {
	Complete(ctx context.Context, system string, messages []anthropic.Message, maxTokens int) (string, error)
}

// Engine derives dashboard snapshots from the transcript. It is stateless:
// every Assess is a pure projection of the transcript it is handed, so an
// estimate can be revised downward turn to turn without any bookkeeping.
type Engine struct {
	llm    Completer
	logger *slog.Logger
}

func NewEngine(llm Completer, logger *slog.Logger) *Engine {
	return &Engine{llm: llm, logger: logger}
}

// Assess computes the current snapshot from the transcript so far. The
// estimator is fallible: any error or malformed response falls back to the
// documented neutral defaults, never to a stale or partial estimate.
func (e *Engine) Assess(ctx context.Context, transcript []game.Turn) Snapshot {
	agentMsg, callerMsg, ok := lastExchange(transcript)
	if !ok {
		return DefaultSnapshot()
	}

	snap := DefaultSnapshot()

	// The two estimates are independent LLM calls; run them concurrently.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		fraud, split, reasoning, err := e.confidence(ctx, agentMsg, callerMsg)
		if err != nil {
			e.logger.Warn("confidence estimate failed, using defaults", "error", err)
			return
		}
		snap.FraudLikelihood = fraud
		snap.Motivation = split
		snap.Reasoning = reasoning
	}()
	go func() {
		defer wg.Done()
		sent, err := e.sentiment(ctx, agentMsg, callerMsg)
		if err != nil {
			e.logger.Warn("sentiment estimate failed, using defaults", "error", err)
			return
		}
		snap.Sentiment = sent
	}()
	wg.Wait()

	return snap.normalize()
}

type confidenceResult struct {
	FraudLikelihood *int            `json:"fraud_likelihood"`
	MotivationGuess MotivationSplit `json:"motivation_guess"`
	Reasoning       string          `json:"reasoning"`
}

func (e *Engine) confidence(ctx context.Context, agentMsg, callerMsg string) (int, MotivationSplit, string, error) {
	prompt := fmt.Sprintf(confidencePrompt, agentMsg, callerMsg)
	raw, err := e.llm.Complete(ctx, "", []anthropic.Message{{Role: "user", Content: prompt}}, 150)
	if err != nil {
		return 0, MotivationSplit{}, "", fmt.Errorf("confidence call: %w", err)
	}

	var res confidenceResult
	if err := json.Unmarshal([]byte(stripFences(raw)), &res); err != nil {
		return 0, MotivationSplit{}, "", fmt.Errorf("parse confidence: %w", err)
	}

	fraud := DefaultFraudLikelihood
	if res.FraudLikelihood != nil {
		fraud = *res.FraudLikelihood
	}
	split := res.MotivationGuess
	if split == (MotivationSplit{}) {
		split = DefaultSplit()
	}
	reasoning := res.Reasoning
	if reasoning == "" {
		reasoning = "Analyzing..."
	}
	return fraud, split, reasoning, nil
}

func (e *Engine) sentiment(ctx context.Context, agentMsg, callerMsg string) (Sentiment, error) {
	prompt := fmt.Sprintf(sentimentPrompt, agentMsg, callerMsg)
	raw, err := e.llm.Complete(ctx, "", []anthropic.Message{{Role: "user", Content: prompt}}, 100)
	if err != nil {
		return Sentiment{}, fmt.Errorf("sentiment call: %w", err)
	}

	// Unmarshal over the defaults so absent fields keep their neutral prior.
	sent := DefaultSentiment()
	if err := json.Unmarshal([]byte(stripFences(raw)), &sent); err != nil {
		return Sentiment{}, fmt.Errorf("parse sentiment: %w", err)
	}
	return sent, nil
}

// lastExchange finds the most recent agent and customer utterances.
func lastExchange(transcript []game.Turn) (agentMsg, callerMsg string, ok bool) {
	for i := len(transcript) - 1; i >= 0; i-- {
		switch transcript[i].Speaker {
		case game.SpeakerAgent:
			if agentMsg == "" {
				agentMsg = transcript[i].Text
			}
		case game.SpeakerCustomer:
			if callerMsg == "" {
				callerMsg = transcript[i].Text
			}
		}
		if agentMsg != "" && callerMsg != "" {
			return agentMsg, callerMsg, true
		}
	}
	return "", "", false
}

// stripFences removes a markdown code fence if the model wrapped its JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
