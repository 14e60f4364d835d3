// Package sim drives complete simulated calls end to end and reports the
// live event stream a dashboard renders.
package sim

import (
	"time"

	"github.com/MikeSquared-Agency/callsim/internal/agent"
	"github.com/MikeSquared-Agency/callsim/internal/analytics"
	"github.com/MikeSquared-Agency/callsim/internal/game"
	"github.com/MikeSquared-Agency/callsim/internal/leaderboard"
	"github.com/MikeSquared-Agency/callsim/internal/persona"
	"github.com/MikeSquared-Agency/callsim/internal/scoring"
)

// Sink receives the live events of one or more calls, in order. An Emit
// error abandons the call in progress: no score, no standings update.
type Sink interface {
	Emit(event any) error
}

// AgentInfo is the public view of the agent on a call. The customer's
// hidden profile is never exposed before call_end.
type AgentInfo struct {
	Name     string      `json:"name"`
	Style    agent.Style `json:"style"`
	Strength string      `json:"strength"`
	Weakness string      `json:"weakness"`
}

// CallStartEvent opens a call on the stream.
type CallStartEvent struct {
	Type     string       `json:"type"`
	CallID   int64        `json:"call_id"`
	Agent    AgentInfo    `json:"agent"`
	Tier     persona.Tier `json:"tier"`
	Warmup   bool         `json:"warmup"`
	MaxTurns int          `json:"max_turns"`
}

// TypingEvent signals which party is composing, for pacing the view.
type TypingEvent struct {
	Type    string `json:"type"`
	CallID  int64  `json:"call_id"`
	Speaker string `json:"speaker"`
}

// MessageEvent carries one finished utterance.
type MessageEvent struct {
	Type    string       `json:"type"`
	CallID  int64        `json:"call_id"`
	Speaker game.Speaker `json:"speaker"`
	Text    string       `json:"text"`
	Turn    int          `json:"turn"`
	Bounce  bool         `json:"bounce,omitempty"`
	End     bool         `json:"end,omitempty"`
}

// DashboardEvent publishes the refreshed analytics snapshot after a
// customer reply.
type DashboardEvent struct {
	Type     string             `json:"type"`
	CallID   int64              `json:"call_id"`
	Turn     int                `json:"turn"`
	Snapshot analytics.Snapshot `json:"snapshot"`
}

// CallEndEvent closes a call, revealing the hidden profile and the score.
type CallEndEvent struct {
	Type              string             `json:"type"`
	CallID            int64              `json:"call_id"`
	Reason            string             `json:"reason"`
	SystemMessage     string             `json:"system_message"`
	Outcome           scoring.Outcome    `json:"outcome"`
	OutcomeText       string             `json:"outcome_text"`
	Points            int                `json:"points"`
	Customer          persona.Customer   `json:"customer"`
	MotivationGuess   persona.Motivation `json:"motivation_guess"`
	MotivationCorrect bool               `json:"motivation_correct"`
	Pattern           string             `json:"pattern,omitempty"`
	Turns             int                `json:"turns"`
	Warmup            bool               `json:"warmup"`
	Snapshot          analytics.Snapshot `json:"snapshot"`
	Stats             leaderboard.Stats  `json:"stats"`
	Transcript        []game.Turn        `json:"transcript"`
}

// CallRecord is the archive row for a completed call.
type CallRecord struct {
	CallID            int64              `json:"call_id"`
	AgentName         string             `json:"agent_name"`
	AgentStyle        agent.Style        `json:"agent_style"`
	Customer          persona.Customer   `json:"customer"`
	Outcome           scoring.Outcome    `json:"outcome"`
	Points            int                `json:"points"`
	Reason            string             `json:"reason"`
	MotivationGuess   persona.Motivation `json:"motivation_guess"`
	MotivationCorrect bool               `json:"motivation_correct"`
	Turns             int                `json:"turns"`
	Warmup            bool               `json:"warmup"`
	Transcript        []game.Turn        `json:"transcript"`
	Snapshot          analytics.Snapshot `json:"snapshot"`
	CompletedAt       time.Time          `json:"completed_at"`
}

const (
	EventCallStart = "call_start"
	EventTyping    = "typing"
	EventMessage   = "message"
	EventDashboard = "dashboard_update"
	EventCallEnd   = "call_end"
)
