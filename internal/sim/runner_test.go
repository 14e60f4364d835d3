package sim

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/callsim/internal/agent"
	"github.com/MikeSquared-Agency/callsim/internal/analytics"
	"github.com/MikeSquared-Agency/callsim/internal/anthropic"
	"github.com/MikeSquared-Agency/callsim/internal/game"
	"github.com/MikeSquared-Agency/callsim/internal/leaderboard"
	"github.com/MikeSquared-Agency/callsim/internal/persona"
	"github.com/MikeSquared-Agency/callsim/internal/scoring"
)

// scriptedLLM pops scripted responses in order, then falls back to a
// generic line so open-ended loops keep moving.
type scriptedLLM struct {
	script []string
	idx    int
	err    error
}

func (s *scriptedLLM) Complete(context.Context, string, []anthropic.Message, int) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.idx < len(s.script) {
		line := s.script[s.idx]
		s.idx++
		return line, nil
	}
	return "Okay, tell me more about that.", nil
}

type fixedAssessor struct {
	snap analytics.Snapshot
}

func (f fixedAssessor) Assess(context.Context, []game.Turn) analytics.Snapshot {
	return f.snap
}

// captureSink records every event; failOn makes Emit fail on one event type.
type captureSink struct {
	events []any
	failOn string
}

func (c *captureSink) Emit(event any) error {
	if c.failOn != "" && eventType(event) == c.failOn {
		return errors.New("sink closed")
	}
	c.events = append(c.events, event)
	return nil
}

func eventType(event any) string {
	switch e := event.(type) {
	case CallStartEvent:
		return e.Type
	case TypingEvent:
		return e.Type
	case MessageEvent:
		return e.Type
	case DashboardEvent:
		return e.Type
	case CallEndEvent:
		return e.Type
	}
	return ""
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(new(strings.Builder), nil))
}

func happySnapshot() analytics.Snapshot {
	return analytics.Snapshot{
		FraudLikelihood: 2,
		Motivation:      analytics.MotivationSplit{Head: 80, Heart: 10, Hand: 10},
		Sentiment: analytics.Sentiment{
			Satisfaction: 8, Trust: 8, Urgency: 5,
			Frustration: 2, LikelihoodToConvert: 8,
			EmotionalTone: "interested",
		},
		Tone:      analytics.TonePositive,
		Reasoning: "Engaged and asking for specifics.",
	}
}

func newTestRunner(llm Completer, assessor Assessor, cust persona.Customer, ag agent.Agent, opts Options) (*Runner, *leaderboard.Store) {
	board := leaderboard.New()
	r := NewRunner(llm, assessor, board, scoring.DefaultTable(), testLogger(), opts)
	r.genCustomer = func(*rand.Rand, bool) persona.Customer { return cust }
	r.genAgent = func(*rand.Rand) agent.Agent { return ag }
	return r, board
}

func legitCustomer(m persona.Motivation) persona.Customer {
	return persona.Customer{
		Name: "Jordan", Tier: persona.TierSingle, Motivation: m,
		IsFraud: false, CallReason: "My battery dies by noon and I'm done with it.", Patience: 8,
	}
}

func closerAgent() agent.Agent {
	return agent.Agent{Name: "Marcus", Style: agent.StyleCloser}
}

func lastEvent(t *testing.T, sink *captureSink) CallEndEvent {
	t.Helper()
	if len(sink.events) == 0 {
		t.Fatal("no events emitted")
	}
	end, ok := sink.events[len(sink.events)-1].(CallEndEvent)
	if !ok {
		t.Fatalf("last event is %T, want CallEndEvent", sink.events[len(sink.events)-1])
	}
	return end
}

func TestRunCloseConversion(t *testing.T) {
	llm := &scriptedLLM{script: []string{
		"[CLOSE: today's trade-in deal] That Pixel solves your battery problem. Want me to set it up?",
		"Battery pain plus hard specs closes head buyers fast.",
	}}
	r, board := newTestRunner(llm, fixedAssessor{happySnapshot()}, legitCustomer(persona.MotivationHead), closerAgent(), Options{MaxTurns: 14})

	sink := &captureSink{}
	if err := r.Run(context.Background(), sink); err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantTypes := []string{
		EventCallStart,
		EventTyping, EventMessage, // greeting
		EventTyping, EventMessage, // call reason
		EventTyping, EventMessage, // agent close line
		EventCallEnd,
	}
	if len(sink.events) != len(wantTypes) {
		t.Fatalf("got %d events, want %d: %+v", len(sink.events), len(wantTypes), sink.events)
	}
	for i, want := range wantTypes {
		if got := eventType(sink.events[i]); got != want {
			t.Errorf("event %d = %q, want %q", i, got, want)
		}
	}

	end := lastEvent(t, sink)
	if end.Outcome != scoring.OutcomeConversion {
		t.Errorf("outcome = %q, want conversion", end.Outcome)
	}
	// Single-device conversion plus the motivation bonus.
	if end.Points != 3 {
		t.Errorf("points = %d, want 3", end.Points)
	}
	if !end.MotivationCorrect || end.MotivationGuess != persona.MotivationHead {
		t.Errorf("motivation guess = %q correct=%v", end.MotivationGuess, end.MotivationCorrect)
	}
	if end.Reason != "agent closed the sale" {
		t.Errorf("reason = %q", end.Reason)
	}
	if !strings.Contains(end.SystemMessage, "closed the sale") {
		t.Errorf("system message = %q", end.SystemMessage)
	}
	// Greeting, call reason, and the closing line.
	if len(end.Transcript) != 3 {
		t.Errorf("call_end transcript has %d turns, want 3", len(end.Transcript))
	}
	// The summary carries the final dashboard reveal: the closing snapshot
	// and standings with this call already counted.
	if end.Snapshot.Sentiment.Satisfaction != 8 || end.Snapshot.Motivation.Head != 80 {
		t.Errorf("call_end snapshot = %+v", end.Snapshot)
	}
	if end.Stats.Calls != 1 || end.Stats.Points != 3 || end.Stats.ConversionRate != 1 {
		t.Errorf("call_end stats = %+v", end.Stats)
	}

	stats, ok := board.StyleStats(agent.StyleCloser)
	if !ok || stats.Calls != 1 || stats.Points != 3 {
		t.Errorf("leaderboard stats = %+v ok=%v", stats, ok)
	}
	if pats := board.Patterns(agent.StyleCloser); len(pats) != 1 || !strings.Contains(pats[0], "head buyers") {
		t.Errorf("patterns = %v", pats)
	}
}

func TestRunActionTagStrippedFromMessage(t *testing.T) {
	llm := &scriptedLLM{script: []string{
		"[CLOSE: the deal] Ready when you are.",
	}}
	r, _ := newTestRunner(llm, fixedAssessor{happySnapshot()}, legitCustomer(persona.MotivationHead), closerAgent(), Options{})

	sink := &captureSink{}
	if err := r.Run(context.Background(), sink); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, ev := range sink.events {
		if msg, ok := ev.(MessageEvent); ok && strings.Contains(msg.Text, "[CLOSE") {
			t.Errorf("action tag leaked to stream: %q", msg.Text)
		}
	}
}

func TestRunFraudFlagged(t *testing.T) {
	cust := persona.Customer{
		Name: "Tyler", Tier: persona.TierTenPack, Motivation: persona.MotivationHand,
		IsFraud: true, CallReason: "I need ten phones shipped today, my card is ready.", Patience: 3,
	}
	snap := happySnapshot()
	snap.FraudLikelihood = 9
	snap.Motivation = analytics.MotivationSplit{Head: 10, Heart: 10, Hand: 80}

	llm := &scriptedLLM{script: []string{
		"[FLAG: urgency plus refusal to verify the business] Let me transfer you to our verification team.",
	}}
	r, board := newTestRunner(llm, fixedAssessor{snap}, cust, agent.Agent{Name: "Dana", Style: agent.StyleDetective}, Options{})

	sink := &captureSink{}
	if err := r.Run(context.Background(), sink); err != nil {
		t.Fatalf("Run: %v", err)
	}

	end := lastEvent(t, sink)
	if end.Outcome != scoring.OutcomeFraudCaught {
		t.Errorf("outcome = %q, want fraud_caught", end.Outcome)
	}
	// Ten-pack fraud caught pays the table base. The correct hand guess is
	// reported but never adds the bonus outside a conversion.
	if end.Points != 8 {
		t.Errorf("points = %d, want 8", end.Points)
	}
	if !end.MotivationCorrect {
		t.Error("correct guess should still be surfaced in the summary")
	}
	if !end.Customer.IsFraud {
		t.Error("call_end should reveal the hidden fraud flag")
	}
	if stats, _ := board.StyleStats(agent.StyleDetective); stats.Outcomes[scoring.OutcomeFraudCaught] != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRunBounce(t *testing.T) {
	snap := happySnapshot()
	snap.Sentiment.Frustration = 9
	snap.Sentiment.Satisfaction = 2
	cust := legitCustomer(persona.MotivationHand)
	cust.Patience = 3

	r, board := newTestRunner(&scriptedLLM{}, fixedAssessor{snap}, cust, closerAgent(), Options{})

	sink := &captureSink{}
	if err := r.Run(context.Background(), sink); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var sawBounce bool
	for _, ev := range sink.events {
		if msg, ok := ev.(MessageEvent); ok && msg.Bounce {
			sawBounce = true
			if msg.Speaker != game.SpeakerCustomer {
				t.Errorf("bounce speaker = %q", msg.Speaker)
			}
		}
	}
	if !sawBounce {
		t.Fatal("no bounce message emitted")
	}

	end := lastEvent(t, sink)
	if end.Outcome != scoring.OutcomeMissedOpp {
		t.Errorf("outcome = %q, want missed_opp for a legit bounce", end.Outcome)
	}
	if end.Reason != "customer left" {
		t.Errorf("reason = %q", end.Reason)
	}
	if stats, _ := board.StyleStats(agent.StyleCloser); stats.Calls != 1 {
		t.Errorf("bounced call should still count: %+v", stats)
	}
}

func TestRunTurnLimit(t *testing.T) {
	snap := happySnapshot()
	snap.Sentiment.Frustration = 1
	r, _ := newTestRunner(&scriptedLLM{}, fixedAssessor{snap}, legitCustomer(persona.MotivationHeart), closerAgent(), Options{MaxTurns: 2})

	sink := &captureSink{}
	if err := r.Run(context.Background(), sink); err != nil {
		t.Fatalf("Run: %v", err)
	}

	end := lastEvent(t, sink)
	if end.Reason != "maximum turns reached" {
		t.Errorf("reason = %q", end.Reason)
	}
	if end.Outcome != scoring.OutcomeMissedOpp {
		t.Errorf("outcome = %q, want missed_opp on legit timeout", end.Outcome)
	}
	if end.Turns != 2 {
		t.Errorf("turns = %d, want 2", end.Turns)
	}

	var dashboards int
	for _, ev := range sink.events {
		if _, ok := ev.(DashboardEvent); ok {
			dashboards++
		}
	}
	if dashboards != 2 {
		t.Errorf("got %d dashboard updates, want one per turn", dashboards)
	}
}

func TestRunLLMFailureUsesRecoveryLines(t *testing.T) {
	r, board := newTestRunner(&scriptedLLM{err: errors.New("api down")}, fixedAssessor{happySnapshot()}, legitCustomer(persona.MotivationHead), closerAgent(), Options{MaxTurns: 1})

	sink := &captureSink{}
	if err := r.Run(context.Background(), sink); err != nil {
		t.Fatalf("collaborator failure must not abort the call: %v", err)
	}

	end := lastEvent(t, sink)
	if end.Pattern != fallbackPattern {
		t.Errorf("pattern = %q, want fallback", end.Pattern)
	}
	if stats := board.Overall(); stats.Calls != 1 {
		t.Errorf("call not recorded: %+v", stats)
	}
	if pats := board.Patterns(agent.StyleCloser); len(pats) != 0 {
		t.Errorf("fallback line stored as a pattern: %v", pats)
	}
}

func TestRunSinkErrorAbandonsCall(t *testing.T) {
	r, board := newTestRunner(&scriptedLLM{}, fixedAssessor{happySnapshot()}, legitCustomer(persona.MotivationHead), closerAgent(), Options{MaxTurns: 3})

	sink := &captureSink{failOn: EventDashboard}
	if err := r.Run(context.Background(), sink); err == nil {
		t.Fatal("expected error from failing sink")
	}

	if stats := board.Overall(); stats.Calls != 0 {
		t.Errorf("abandoned call was scored: %+v", stats)
	}
	if pats := board.Patterns(agent.StyleCloser); len(pats) != 0 {
		t.Errorf("abandoned call left patterns: %v", pats)
	}
	for _, ev := range sink.events {
		if _, ok := ev.(CallEndEvent); ok {
			t.Error("abandoned call emitted call_end")
		}
	}
}

func TestRunCallEndEmitFailureNotScored(t *testing.T) {
	llm := &scriptedLLM{script: []string{"[CLOSE: now] Deal?"}}
	r, board := newTestRunner(llm, fixedAssessor{happySnapshot()}, legitCustomer(persona.MotivationHead), closerAgent(), Options{})

	sink := &captureSink{failOn: EventCallEnd}
	if err := r.Run(context.Background(), sink); err == nil {
		t.Fatal("expected error when call_end cannot be delivered")
	}
	if stats := board.Overall(); stats.Calls != 0 {
		t.Errorf("call scored despite undelivered call_end: %+v", stats)
	}
}

func TestWarmupExcludedFromStandings(t *testing.T) {
	llm := &scriptedLLM{script: []string{
		"[CLOSE: warm-up special] Shall we?",
		"Warm-up rounds still teach pacing.",
	}}
	r, board := newTestRunner(llm, fixedAssessor{happySnapshot()}, legitCustomer(persona.MotivationHead), closerAgent(), Options{})
	if got := r.ToggleWarmup(); !got {
		t.Fatal("toggle should enable warmup")
	}

	sink := &captureSink{}
	if err := r.Run(context.Background(), sink); err != nil {
		t.Fatalf("Run: %v", err)
	}

	end := lastEvent(t, sink)
	if !end.Warmup {
		t.Error("call_end should mark warmup calls")
	}
	if end.Stats.Calls != 0 {
		t.Errorf("warmup call folded into call_end stats: %+v", end.Stats)
	}
	if stats := board.Overall(); stats.Calls != 0 || stats.Points != 0 {
		t.Errorf("warmup call reached standings: %+v", stats)
	}
	// Learning still persists across warmup.
	if pats := board.Patterns(agent.StyleCloser); len(pats) != 1 {
		t.Errorf("warmup patterns = %v", pats)
	}

	if got := r.ToggleWarmup(); got {
		t.Error("second toggle should disable warmup")
	}
}

func TestRunPublishesAndArchives(t *testing.T) {
	var archived []CallRecord
	var published []string
	arch := archiverFunc(func(_ context.Context, rec CallRecord) error {
		archived = append(archived, rec)
		return nil
	})
	pub := publisherFunc(func(subject string, _ any) error {
		published = append(published, subject)
		return nil
	})

	llm := &scriptedLLM{script: []string{"[CLOSE: now] Deal?"}}
	r, _ := newTestRunner(llm, fixedAssessor{happySnapshot()}, legitCustomer(persona.MotivationHead), closerAgent(), Options{
		Archiver:  arch,
		Publisher: pub,
	})

	if err := r.Run(context.Background(), &captureSink{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(archived) != 1 || archived[0].Outcome != scoring.OutcomeConversion {
		t.Errorf("archived = %+v", archived)
	}
	if len(published) != 1 || published[0] != SubjectCallCompleted {
		t.Errorf("published = %v", published)
	}
	if len(archived[0].Transcript) == 0 {
		t.Error("archive record missing transcript")
	}
}

type archiverFunc func(context.Context, CallRecord) error

func (f archiverFunc) InsertCall(ctx context.Context, rec CallRecord) error { return f(ctx, rec) }

type publisherFunc func(string, any) error

func (f publisherFunc) Publish(subject string, data any) error { return f(subject, data) }
