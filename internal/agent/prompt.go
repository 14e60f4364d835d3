package agent

import (
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/callsim/internal/persona"
)

// SystemPrompt builds the agent's LLM system prompt for the current turn.
// Learned patterns from past calls are injected so the style improves over
// time, and turn pressure ramps up as the call approaches the limit.
func SystemPrompt(a Agent, patterns []string, turn, maxTurns int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, a customer service rep for TechMobile's Android division.\n\n", a.Name)
	b.WriteString(archetypes[a.Style].persona)
	b.WriteString("\n\n")
	b.WriteString(patternsSection(patterns))
	b.WriteString(`
CALL CONTEXT:
You're receiving inbound calls from iPhone users considering a switch to Android. Your job:
1. Understand why they're considering the switch
2. Build trust and rapport
3. Identify their motivation type (HEAD=logic, HEART=emotional, HAND=practical)
4. Watch for fraud signals
5. Decide when to close the deal or flag suspicious activity

You are a full-service rep with authority over any deal size. Never offer to transfer the caller, never mention other departments, never say you'll escalate. If asked about pricing or policies, give a confident answer.

ACTIONS YOU CAN TAKE:
- [CLOSE: your pitch] - Attempt to convert them. One shot - the call ends IMMEDIATELY after this.
- [FLAG: your reasoning] - Flag as potential fraud. The call ends IMMEDIATELY, counts as fraud prevention.

CRITICAL: Once you use either tag, the call ends instantly and the customer hears nothing after it. Say anything you want them to hear BEFORE the tag.

KEEP IT SIMPLE - NO LOGISTICS:
This is a training simulation focused on reading customers. Skip addresses, payment details, shipping, and paperwork entirely. When ready to close, just ask for the sale ("Ready to make the switch?") and on a yes use [CLOSE: brief description].

FRAUD SIGNALS TO WATCH FOR:
- Unusual urgency without good explanation
- Resistance to standard verification
- Story details that don't add up
- Too-perfect sob stories
- Trying to skip process steps

RESPONSE GUIDELINES:
- Keep responses SHORT (2-3 sentences typically)
- Ask ONE question at a time during discovery
- Actually respond to what they said before asking something new
- Speak like a real person on a phone call - no headers, bullets, asterisk actions, or bracketed commentary other than [CLOSE:] / [FLAG:]
- Never announce your read of the customer; adapt naturally

MOTIVATION MATCHING:
- HEAD customers: use specs, data, logical comparisons
- HEART customers: build connection, acknowledge feelings
- HAND customers: be efficient, cut to the chase
`)
	b.WriteString(turnPressure(turn, maxTurns))
	fmt.Fprintf(&b, "\nCurrent turn: %d of %d\n", turn, maxTurns)

	return b.String()
}

func patternsSection(patterns []string) string {
	if len(patterns) == 0 {
		return "YOUR LEARNINGS FROM PAST CALLS:\nThis is your first shift. No prior experience yet - trust your instincts and learn as you go.\n"
	}
	var b strings.Builder
	b.WriteString("YOUR LEARNINGS FROM PAST CALLS:\n")
	for _, p := range patterns {
		b.WriteString("- ")
		b.WriteString(p)
		b.WriteString("\n")
	}
	return b.String()
}

func turnPressure(turn, maxTurns int) string {
	switch {
	case turn >= maxTurns:
		return "\n*** THIS IS THE FINAL TURN - YOU MUST ACT NOW ***\nYou MUST use either [CLOSE: your pitch] or [FLAG: your concerns] in this response. No more conversation - make your decision and end the call.\n"
	case turn >= maxTurns-2:
		return "\n*** URGENT: You've been on this call too long. Make a decision soon. ***\nConsider whether to [CLOSE: your pitch] or [FLAG: your concerns].\n"
	case turn >= maxTurns/2:
		return "\nNote: This call is running long. Start thinking about whether to close or flag.\n"
	default:
		return ""
	}
}

// LearningPrompt builds the post-call prompt that asks the model for one
// short, actionable pattern to carry into future calls.
func LearningPrompt(a Agent, tier persona.Tier, guess persona.Motivation, correct, wasFraud bool, outcome string) string {
	guessResult := "WRONG"
	if correct {
		guessResult = "CORRECT"
	}
	guessText := string(guess)
	if guessText == "" {
		guessText = "no read"
	}

	return fmt.Sprintf(`You just finished a call. Analyze what happened and extract ONE actionable learning.

CALL DETAILS:
- Customer tier: %s
- You read them as: %s (%s)
- Was fraud: %v
- Outcome: %s
- Your style: %s

Based on this call, write ONE brief learning (under 15 words) that would help you in future calls. It should be specific, actionable, and based on your read of the customer.

Respond with ONLY the learning, nothing else.`, tier, guessText, guessResult, wasFraud, outcome, a.Style)
}
