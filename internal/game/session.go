package game

import (
	"fmt"

	"github.com/MikeSquared-Agency/callsim/internal/agent"
	"github.com/MikeSquared-Agency/callsim/internal/persona"
	"github.com/MikeSquared-Agency/callsim/internal/scoring"
)

// State is the session lifecycle position.
type State int

const (
	StateIdle State = iota
	StateAwaitingTurn
	StateStreaming
	StateTerminating
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingTurn:
		return "awaiting_turn"
	case StateStreaming:
		return "streaming"
	case StateTerminating:
		return "terminating"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Reason is why a session terminated. Exactly one reason fires per session.
type Reason string

const (
	ReasonAgentClosed  Reason = "agent_closed"
	ReasonAgentFlagged Reason = "agent_flagged"
	ReasonCustomerLeft Reason = "customer_left"
	ReasonTurnLimit    Reason = "turn_limit"
)

// SystemMessage is the call-ending line shown in the conversation view.
func (r Reason) SystemMessage() string {
	switch r {
	case ReasonAgentClosed:
		return "[Call ended - Agent closed the sale]"
	case ReasonAgentFlagged:
		return "[Call ended - Agent flagged for fraud]"
	case ReasonCustomerLeft:
		return "[Call ended - Customer hung up]"
	case ReasonTurnLimit:
		return "[Call ended - Maximum turns reached]"
	default:
		return "[Call ended]"
	}
}

// Description is the human-readable termination reason for summaries.
func (r Reason) Description() string {
	switch r {
	case ReasonAgentClosed:
		return "agent closed the sale"
	case ReasonAgentFlagged:
		return "agent flagged for fraud"
	case ReasonCustomerLeft:
		return "customer left"
	case ReasonTurnLimit:
		return "maximum turns reached"
	default:
		return string(r)
	}
}

// Result is the terminal classification of a session, recorded exactly once.
type Result struct {
	Outcome           scoring.Outcome
	Points            int
	Converted         bool
	MotivationGuess   persona.Motivation
	MotivationCorrect bool
	Pattern           string
}

// Session owns one call: the hidden profile, the append-only transcript, the
// turn counter, and the state machine. It is not safe for concurrent use;
// a session belongs to exactly one runner goroutine.
type Session struct {
	ID       int64
	Customer persona.Customer
	Agent    agent.Agent
	Warmup   bool

	maxTurns    int
	state       State
	turn        int
	transcript  []Turn
	frustration float64

	closeAttempted bool
	closePitch     string
	flagUsed       bool
	flagReason     string
	bounced        bool

	motivationGuess persona.Motivation
	reason          Reason
	result          *Result
}

func NewSession(id int64, cust persona.Customer, ag agent.Agent, warmup bool, maxTurns int) *Session {
	return &Session{
		ID:       id,
		Customer: cust,
		Agent:    ag,
		Warmup:   warmup,
		maxTurns: maxTurns,
		state:    StateIdle,
	}
}

// Start moves the session out of Idle. It is the only valid entry point;
// a second Start is rejected rather than silently double-starting.
func (s *Session) Start() error {
	if s.state != StateIdle {
		return fmt.Errorf("start: session %d is %s, not idle", s.ID, s.state)
	}
	s.state = StateAwaitingTurn
	return nil
}

func (s *Session) State() State { return s.state }

func (s *Session) Turn() int { return s.turn }

func (s *Session) MaxTurns() int { return s.maxTurns }

// AdvanceTurn increments the turn counter. Exceeding the hard limit is an
// invariant violation, surfaced as an error so the loop can force a timeout.
func (s *Session) AdvanceTurn() (int, error) {
	if s.state != StateAwaitingTurn {
		return s.turn, fmt.Errorf("advance turn: session %d is %s", s.ID, s.state)
	}
	if s.turn >= s.maxTurns {
		return s.turn, fmt.Errorf("advance turn: session %d already at limit %d", s.ID, s.maxTurns)
	}
	s.turn++
	return s.turn, nil
}

// Append records a turn in the transcript at the current turn ordinal and
// moves the session into Streaming while downstream consumers process it.
func (s *Session) Append(sp Speaker, text string) (Turn, error) {
	if s.state != StateAwaitingTurn && s.state != StateStreaming {
		return Turn{}, fmt.Errorf("append: session %d is %s", s.ID, s.state)
	}
	t := Turn{Speaker: sp, Text: text, Ordinal: s.turn}
	s.transcript = append(s.transcript, t)
	s.state = StateStreaming
	return t, nil
}

// AppendBounce records the customer's walk-away line and marks the session
// as bounced.
func (s *Session) AppendBounce(text string) (Turn, error) {
	if s.state != StateAwaitingTurn && s.state != StateStreaming {
		return Turn{}, fmt.Errorf("append bounce: session %d is %s", s.ID, s.state)
	}
	t := Turn{Speaker: SpeakerCustomer, Text: text, Ordinal: s.turn, IsBounce: true}
	s.transcript = append(s.transcript, t)
	s.state = StateStreaming
	s.bounced = true
	return t, nil
}

// FinishTurn returns the session to AwaitingTurn for the next exchange.
func (s *Session) FinishTurn() error {
	if s.state != StateStreaming {
		return fmt.Errorf("finish turn: session %d is %s", s.ID, s.state)
	}
	s.state = StateAwaitingTurn
	return nil
}

func (s *Session) RecordClose(pitch string) {
	s.closeAttempted = true
	s.closePitch = pitch
}

func (s *Session) RecordFlag(reason string) {
	s.flagUsed = true
	s.flagReason = reason
}

func (s *Session) CloseAttempted() (bool, string) { return s.closeAttempted, s.closePitch }

func (s *Session) FlagUsed() (bool, string) { return s.flagUsed, s.flagReason }

func (s *Session) Bounced() bool { return s.bounced }

// RaiseFrustration adds to the tracked frustration, capped at MaxFrustration.
func (s *Session) RaiseFrustration(delta float64) {
	s.frustration += delta
	if s.frustration > MaxFrustration {
		s.frustration = MaxFrustration
	}
}

func (s *Session) Frustration() float64 { return s.frustration }

func (s *Session) SetMotivationGuess(m persona.Motivation) { s.motivationGuess = m }

func (s *Session) MotivationGuess() persona.Motivation { return s.motivationGuess }

// Terminate records the single termination trigger and stops turn production.
func (s *Session) Terminate(r Reason) error {
	switch s.state {
	case StateAwaitingTurn, StateStreaming:
		s.state = StateTerminating
		s.reason = r
		return nil
	default:
		return fmt.Errorf("terminate: session %d is %s", s.ID, s.state)
	}
}

func (s *Session) Reason() Reason { return s.reason }

// Close records the outcome and freezes the session. The outcome is computed
// at most once; a closed session only ever reports the stored result.
func (s *Session) Close(res Result) error {
	if s.state != StateTerminating {
		return fmt.Errorf("close: session %d is %s", s.ID, s.state)
	}
	s.result = &res
	s.state = StateClosed
	return nil
}

// Result returns the recorded outcome. The second return is false until the
// session is closed. Repeated calls return the identical result.
func (s *Session) Result() (Result, bool) {
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

// Transcript returns a copy of the ordered turn sequence so far.
func (s *Session) Transcript() []Turn {
	out := make([]Turn, len(s.transcript))
	copy(out, s.transcript)
	return out
}
