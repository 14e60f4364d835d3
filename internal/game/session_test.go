package game

import (
	"testing"

	"github.com/MikeSquared-Agency/callsim/internal/agent"
	"github.com/MikeSquared-Agency/callsim/internal/persona"
	"github.com/MikeSquared-Agency/callsim/internal/scoring"
)

func newTestSession(maxTurns int) *Session {
	cust := persona.Customer{Name: "Sam", Tier: persona.TierSingle, Motivation: persona.MotivationHead}
	ag := agent.Agent{Name: "Riley", Style: agent.StyleCloser}
	return NewSession(1, cust, ag, false, maxTurns)
}

func TestSession_Lifecycle(t *testing.T) {
	s := newTestSession(14)

	if s.State() != StateIdle {
		t.Fatalf("new session should be idle, got %s", s.State())
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if s.State() != StateAwaitingTurn {
		t.Fatalf("expected awaiting_turn, got %s", s.State())
	}

	// Double start is rejected, never silently double-started.
	if err := s.Start(); err == nil {
		t.Error("expected error on double start")
	}

	if _, err := s.AdvanceTurn(); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if _, err := s.Append(SpeakerAgent, "hello"); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if s.State() != StateStreaming {
		t.Fatalf("expected streaming after append, got %s", s.State())
	}
	if err := s.FinishTurn(); err != nil {
		t.Fatalf("finish turn failed: %v", err)
	}
	if s.State() != StateAwaitingTurn {
		t.Fatalf("expected awaiting_turn after finish, got %s", s.State())
	}

	if err := s.Terminate(ReasonAgentClosed); err != nil {
		t.Fatalf("terminate failed: %v", err)
	}
	if err := s.Terminate(ReasonCustomerLeft); err == nil {
		t.Error("expected error on second termination trigger")
	}

	res := Result{Outcome: scoring.OutcomeConversion, Points: 5}
	if err := s.Close(res); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if s.State() != StateClosed {
		t.Fatalf("expected closed, got %s", s.State())
	}

	// Outcome is idempotent on re-query.
	got1, ok1 := s.Result()
	got2, ok2 := s.Result()
	if !ok1 || !ok2 {
		t.Fatal("expected result after close")
	}
	if got1 != got2 {
		t.Errorf("result not idempotent: %+v vs %+v", got1, got2)
	}
	if got1.Outcome != scoring.OutcomeConversion || got1.Points != 5 {
		t.Errorf("unexpected result: %+v", got1)
	}

	// A closed session is immutable.
	if _, err := s.Append(SpeakerAgent, "anything"); err == nil {
		t.Error("expected append rejection after close")
	}
	if err := s.Close(Result{}); err == nil {
		t.Error("expected close rejection after close")
	}
}

func TestSession_TurnLimit(t *testing.T) {
	s := newTestSession(3)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if _, err := s.AdvanceTurn(); err != nil {
			t.Fatalf("advance %d failed: %v", i, err)
		}
	}
	if s.Turn() != 3 {
		t.Fatalf("expected turn 3, got %d", s.Turn())
	}

	// Exceeding the hard limit is rejected, never propagated.
	if _, err := s.AdvanceTurn(); err == nil {
		t.Error("expected error advancing past the turn limit")
	}
	if s.Turn() != 3 {
		t.Errorf("turn counter moved past limit: %d", s.Turn())
	}
}

func TestSession_TranscriptAppendOnly(t *testing.T) {
	s := newTestSession(14)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	s.Append(SpeakerAgent, "hi")
	s.Append(SpeakerCustomer, "hello")

	tr := s.Transcript()
	if len(tr) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(tr))
	}

	// Mutating the returned copy must not affect the session.
	tr[0].Text = "tampered"
	if s.Transcript()[0].Text != "hi" {
		t.Error("transcript copy leaked internal state")
	}
}

func TestSession_BounceAndFlags(t *testing.T) {
	s := newTestSession(14)
	s.Start()
	s.AdvanceTurn()

	turn, err := s.AppendBounce("I gotta go. *click*")
	if err != nil {
		t.Fatalf("append bounce failed: %v", err)
	}
	if !turn.IsBounce {
		t.Error("expected bounce flag on turn")
	}
	if !s.Bounced() {
		t.Error("expected session marked bounced")
	}

	s.RecordClose("the pitch")
	attempted, pitch := s.CloseAttempted()
	if !attempted || pitch != "the pitch" {
		t.Errorf("close not recorded: %v %q", attempted, pitch)
	}

	s.RecordFlag("sketchy story")
	flagged, reason := s.FlagUsed()
	if !flagged || reason != "sketchy story" {
		t.Errorf("flag not recorded: %v %q", flagged, reason)
	}
}

func TestSession_FrustrationCap(t *testing.T) {
	s := newTestSession(14)
	s.RaiseFrustration(6)
	s.RaiseFrustration(6)
	if s.Frustration() != MaxFrustration {
		t.Errorf("expected frustration capped at %f, got %f", MaxFrustration, s.Frustration())
	}
}

func TestReason_Strings(t *testing.T) {
	for _, r := range []Reason{ReasonAgentClosed, ReasonAgentFlagged, ReasonCustomerLeft, ReasonTurnLimit} {
		if r.SystemMessage() == "[Call ended]" {
			t.Errorf("missing system message for %s", r)
		}
		if r.Description() == string(r) {
			t.Errorf("missing description for %s", r)
		}
	}
}
