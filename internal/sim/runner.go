package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MikeSquared-Agency/callsim/internal/agent"
	"github.com/MikeSquared-Agency/callsim/internal/analytics"
	"github.com/MikeSquared-Agency/callsim/internal/anthropic"
	"github.com/MikeSquared-Agency/callsim/internal/game"
	"github.com/MikeSquared-Agency/callsim/internal/leaderboard"
	"github.com/MikeSquared-Agency/callsim/internal/metrics"
	"github.com/MikeSquared-Agency/callsim/internal/persona"
	"github.com/MikeSquared-Agency/callsim/internal/scoring"
)

// SubjectCallCompleted is the broker subject completed calls publish on.
const SubjectCallCompleted = "sim.call.completed"

// Neutral recovery lines used when an LLM collaborator fails mid-call.
// The call keeps going; only the sink can abandon it.
const (
	agentFallbackLine    = "Sorry, I think the line cut out for a second there. Could you say that again?"
	customerFallbackLine = "Sorry, you're breaking up. What was that?"
	fallbackPattern      = "Call completed - learning pending"
)

// Completer generates one chat completion.
type Completer interface {
	Complete(ctx context.Context, system string, messages []anthropic.Message, maxTokens int) (string, error)
}

// Assessor derives a dashboard snapshot from the transcript so far.
type Assessor interface {
	Assess(ctx context.Context, transcript []game.Turn) analytics.Snapshot
}

// Archiver persists completed call records.
type Archiver interface {
	InsertCall(ctx context.Context, rec CallRecord) error
}

// Publisher announces completed calls to downstream consumers.
type Publisher interface {
	Publish(subject string, data any) error
}

// Options carries the optional collaborators and tuning knobs. Zero values
// disable the optional pieces.
type Options struct {
	MaxTurns    int
	TypingDelay time.Duration
	Archiver    Archiver
	Publisher   Publisher
	Metrics     *metrics.Metrics
}

// Runner drives complete calls. One Run is one call; the runner itself is
// safe to share, but each Run owns its session exclusively.
type Runner struct {
	llm      Completer
	assessor Assessor
	board    *leaderboard.Store
	table    scoring.Table
	logger   *slog.Logger

	maxTurns    int
	typingDelay time.Duration
	archiver    Archiver
	publisher   Publisher
	metrics     *metrics.Metrics

	callSeq atomic.Int64
	warmup  atomic.Bool

	rngMu sync.Mutex
	rng   *rand.Rand

	// Overridable for deterministic tests.
	genCustomer func(*rand.Rand, bool) persona.Customer
	genAgent    func(*rand.Rand) agent.Agent
}

func NewRunner(llm Completer, assessor Assessor, board *leaderboard.Store, table scoring.Table, logger *slog.Logger, opts Options) *Runner {
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = 14
	}
	return &Runner{
		llm:         llm,
		assessor:    assessor,
		board:       board,
		table:       table,
		logger:      logger,
		maxTurns:    opts.MaxTurns,
		typingDelay: opts.TypingDelay,
		archiver:    opts.Archiver,
		publisher:   opts.Publisher,
		metrics:     opts.Metrics,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		genCustomer: persona.Generate,
		genAgent:    agent.Generate,
	}
}

// Warmup reports whether new calls start in warmup mode.
func (r *Runner) Warmup() bool { return r.warmup.Load() }

// ToggleWarmup flips warmup mode and returns the new setting. Calls already
// in flight keep the mode they started with.
func (r *Runner) ToggleWarmup() bool {
	for {
		cur := r.warmup.Load()
		if r.warmup.CompareAndSwap(cur, !cur) {
			return !cur
		}
	}
}

// Run plays one complete call against the sink. Any sink error abandons the
// call: nothing is scored, recorded, or published for it.
func (r *Runner) Run(ctx context.Context, sink Sink) error {
	id := r.callSeq.Add(1)
	warmup := r.warmup.Load()

	r.rngMu.Lock()
	cust := r.genCustomer(r.rng, warmup)
	ag := r.genAgent(r.rng)
	r.rngMu.Unlock()

	sess := game.NewSession(id, cust, ag, warmup, r.maxTurns)
	if err := sess.Start(); err != nil {
		return err
	}

	logger := r.logger.With("call_id", id, "agent", ag.Style, "tier", cust.Tier, "warmup", warmup)
	logger.Info("call started", "fraud", cust.IsFraud, "motivation", cust.Motivation)

	r.metrics.CallStarted()
	defer r.metrics.CallFinished()

	if err := sink.Emit(CallStartEvent{
		Type:   EventCallStart,
		CallID: id,
		Agent: AgentInfo{
			Name:     ag.Name,
			Style:    ag.Style,
			Strength: agent.Info(ag.Style).Strength,
			Weakness: agent.Info(ag.Style).Weakness,
		},
		Tier:     cust.Tier,
		Warmup:   warmup,
		MaxTurns: r.maxTurns,
	}); err != nil {
		return fmt.Errorf("emit call_start: %w", err)
	}

	if err := r.opening(ctx, sink, sess); err != nil {
		return err
	}

	if err := r.converse(ctx, sink, sess); err != nil {
		return err
	}

	return r.finish(ctx, sink, sess, logger)
}

// opening plays the scripted greeting exchange before the turn counter
// starts: the agent's canned hello and the customer's stated call reason.
func (r *Runner) opening(ctx context.Context, sink Sink, sess *game.Session) error {
	if err := r.say(ctx, sink, sess, game.SpeakerAgent, agent.Greeting(sess.Agent)); err != nil {
		return err
	}
	if err := r.say(ctx, sink, sess, game.SpeakerCustomer, sess.Customer.CallReason); err != nil {
		return err
	}
	return sess.FinishTurn()
}

// converse runs the turn loop until the agent acts, the customer bounces,
// or the turn limit forces a timeout.
func (r *Runner) converse(ctx context.Context, sink Sink, sess *game.Session) error {
	for {
		turn, err := sess.AdvanceTurn()
		if err != nil {
			return sess.Terminate(game.ReasonTurnLimit)
		}
		started := time.Now()

		if err := r.agentTurn(ctx, sink, sess, turn); err != nil {
			return err
		}

		if done, reason := checkAction(sess); done {
			return sess.Terminate(reason)
		}

		if err := r.customerTurn(ctx, sink, sess); err != nil {
			return err
		}

		snap := r.assessor.Assess(ctx, sess.Transcript())
		if err := sink.Emit(DashboardEvent{Type: EventDashboard, CallID: sess.ID, Turn: turn, Snapshot: snap}); err != nil {
			return fmt.Errorf("emit dashboard_update: %w", err)
		}
		r.metrics.ObserveTurn(time.Since(started))

		if game.ShouldBounce(turn, sess.Customer.Motivation, sess.Frustration(), snap.Sentiment.Frustration) {
			t, err := sess.AppendBounce(persona.BounceLine(sess.Customer.Motivation))
			if err != nil {
				return err
			}
			if err := sink.Emit(MessageEvent{
				Type: EventMessage, CallID: sess.ID,
				Speaker: t.Speaker, Text: t.Text, Turn: t.Ordinal, Bounce: true, End: true,
			}); err != nil {
				return fmt.Errorf("emit bounce message: %w", err)
			}
			return sess.Terminate(game.ReasonCustomerLeft)
		}

		if err := sess.FinishTurn(); err != nil {
			return err
		}
	}
}

// agentTurn generates the agent's line, tracks frustration fallout, and
// emits it. LLM failures degrade to a neutral recovery line.
func (r *Runner) agentTurn(ctx context.Context, sink Sink, sess *game.Session, turn int) error {
	if err := r.typing(ctx, sink, sess.ID, game.SpeakerAgent); err != nil {
		return err
	}

	system := agent.SystemPrompt(sess.Agent, r.board.Patterns(sess.Agent.Style), turn, r.maxTurns)
	raw, err := r.llm.Complete(ctx, system, historyFor(sess.Transcript(), game.SpeakerAgent), 300)
	if err != nil {
		r.logger.Warn("agent generation failed, using recovery line", "call_id", sess.ID, "error", err)
		raw = agentFallbackLine
	}
	line := strings.TrimSpace(game.StripActionTags(raw))
	if line == "" {
		line = agentFallbackLine
	}

	// Action tags are parsed from the raw response before stripping.
	if ok, pitch := game.CheckClose(raw); ok {
		sess.RecordClose(pitch)
	}
	if ok, reason := game.CheckFlag(raw); ok {
		sess.RecordFlag(reason)
	}

	al := game.AssessAlignment(line, sess.Customer.Motivation)
	sess.RaiseFrustration(game.FrustrationIncrease(line, sess.Customer.Motivation, al))

	t, err := sess.Append(game.SpeakerAgent, line)
	if err != nil {
		return err
	}
	if err := sink.Emit(MessageEvent{Type: EventMessage, CallID: sess.ID, Speaker: t.Speaker, Text: t.Text, Turn: t.Ordinal}); err != nil {
		return fmt.Errorf("emit agent message: %w", err)
	}
	return nil
}

// checkAction reports whether the agent's latest line ended the call.
// Flag wins over close when a response somehow carries both tags.
func checkAction(sess *game.Session) (bool, game.Reason) {
	if ok, _ := sess.FlagUsed(); ok {
		return true, game.ReasonAgentFlagged
	}
	if ok, _ := sess.CloseAttempted(); ok {
		return true, game.ReasonAgentClosed
	}
	return false, ""
}

func (r *Runner) customerTurn(ctx context.Context, sink Sink, sess *game.Session) error {
	if err := r.typing(ctx, sink, sess.ID, game.SpeakerCustomer); err != nil {
		return err
	}

	system := persona.SystemPrompt(sess.Customer)
	raw, err := r.llm.Complete(ctx, system, historyFor(sess.Transcript(), game.SpeakerCustomer), 200)
	if err != nil {
		r.logger.Warn("customer generation failed, using recovery line", "call_id", sess.ID, "error", err)
		raw = customerFallbackLine
	}
	line := strings.TrimSpace(raw)
	if line == "" {
		line = customerFallbackLine
	}

	t, err := sess.Append(game.SpeakerCustomer, line)
	if err != nil {
		return err
	}
	if err := sink.Emit(MessageEvent{Type: EventMessage, CallID: sess.ID, Speaker: t.Speaker, Text: t.Text, Turn: t.Ordinal}); err != nil {
		return fmt.Errorf("emit customer message: %w", err)
	}
	return nil
}

// finish scores the terminated session, records it everywhere, and closes
// the stream with call_end. The score is computed from the final snapshot
// so the motivation guess reflects the whole transcript.
func (r *Runner) finish(ctx context.Context, sink Sink, sess *game.Session, logger *slog.Logger) error {
	snap := r.assessor.Assess(ctx, sess.Transcript())
	guess := snap.Motivation.Dominant()
	sess.SetMotivationGuess(guess)
	motivationCorrect := guess == sess.Customer.Motivation

	closeAttempted, _ := sess.CloseAttempted()
	flagUsed, _ := sess.FlagUsed()

	converted := false
	if closeAttempted && !sess.Bounced() {
		converted = game.WillConvert(
			snap.Sentiment.Satisfaction,
			snap.Sentiment.Frustration,
			snap.Sentiment.LikelihoodToConvert,
			motivationCorrect,
			sess.Customer.IsFraud,
		)
	}

	outcome := scoring.Determine(closeAttempted, flagUsed, sess.Customer.IsFraud, converted, sess.Bounced())
	points := r.table.Score(sess.Customer.Tier, outcome, motivationCorrect)
	pattern := r.learn(ctx, sess, motivationCorrect, outcome)

	res := game.Result{
		Outcome:           outcome,
		Points:            points,
		Converted:         converted,
		MotivationGuess:   guess,
		MotivationCorrect: motivationCorrect,
		Pattern:           pattern,
	}
	if err := sess.Close(res); err != nil {
		return err
	}

	sum := leaderboard.CallSummary{
		CallID:     fmt.Sprintf("%d", sess.ID),
		Tier:       sess.Customer.Tier,
		Motivation: sess.Customer.Motivation,
		WasFraud:   sess.Customer.IsFraud,
		Outcome:    outcome,
		Points:     points,
		Turns:      sess.Turn(),
	}
	// The end-of-call dashboard sees standings with this call already
	// folded in, even though the store commit waits for a clean emit.
	stats := r.board.Overall()
	if !sess.Warmup {
		stats = stats.Apply(sum)
	}

	if err := sink.Emit(CallEndEvent{
		Type:              EventCallEnd,
		CallID:            sess.ID,
		Reason:            sess.Reason().Description(),
		SystemMessage:     sess.Reason().SystemMessage(),
		Outcome:           outcome,
		OutcomeText:       scoring.Description(outcome),
		Points:            points,
		Customer:          sess.Customer,
		MotivationGuess:   guess,
		MotivationCorrect: motivationCorrect,
		Pattern:           pattern,
		Turns:             sess.Turn(),
		Warmup:            sess.Warmup,
		Snapshot:          snap,
		Stats:             stats,
		Transcript:        sess.Transcript(),
	}); err != nil {
		return fmt.Errorf("emit call_end: %w", err)
	}

	if pattern != fallbackPattern {
		r.board.AddPattern(sess.Agent.Style, pattern)
	}
	r.board.RecordCall(sess.Agent.Style, sum, sess.Warmup)

	rec := CallRecord{
		CallID:            sess.ID,
		AgentName:         sess.Agent.Name,
		AgentStyle:        sess.Agent.Style,
		Customer:          sess.Customer,
		Outcome:           outcome,
		Points:            points,
		Reason:            sess.Reason().Description(),
		MotivationGuess:   guess,
		MotivationCorrect: motivationCorrect,
		Turns:             sess.Turn(),
		Warmup:            sess.Warmup,
		Transcript:        sess.Transcript(),
		Snapshot:          snap,
		CompletedAt:       time.Now().UTC(),
	}
	if r.archiver != nil {
		if err := r.archiver.InsertCall(ctx, rec); err != nil {
			logger.Error("failed to archive call", "error", err)
		}
	}
	if r.publisher != nil {
		if err := r.publisher.Publish(SubjectCallCompleted, rec); err != nil {
			logger.Error("failed to publish call", "error", err)
		}
	}
	r.metrics.CallCompleted(string(outcome))

	logger.Info("call ended",
		"reason", sess.Reason(),
		"outcome", outcome,
		"points", points,
		"turns", sess.Turn(),
		"motivation_correct", motivationCorrect)
	return nil
}

// learn asks the agent's model for one reusable takeaway from the call.
func (r *Runner) learn(ctx context.Context, sess *game.Session, motivationCorrect bool, outcome scoring.Outcome) string {
	prompt := agent.LearningPrompt(
		sess.Agent,
		sess.Customer.Tier,
		sess.MotivationGuess(),
		motivationCorrect,
		sess.Customer.IsFraud,
		scoring.Description(outcome),
	)
	raw, err := r.llm.Complete(ctx, "", []anthropic.Message{{Role: "user", Content: prompt}}, 100)
	if err != nil {
		r.logger.Warn("learning generation failed", "call_id", sess.ID, "error", err)
		return fallbackPattern
	}
	pattern := strings.TrimSpace(raw)
	if pattern == "" {
		return fallbackPattern
	}
	return pattern
}

// say emits a scripted line for the opening exchange.
func (r *Runner) say(ctx context.Context, sink Sink, sess *game.Session, sp game.Speaker, text string) error {
	if err := r.typing(ctx, sink, sess.ID, sp); err != nil {
		return err
	}
	t, err := sess.Append(sp, text)
	if err != nil {
		return err
	}
	if err := sink.Emit(MessageEvent{Type: EventMessage, CallID: sess.ID, Speaker: t.Speaker, Text: t.Text, Turn: t.Ordinal}); err != nil {
		return fmt.Errorf("emit message: %w", err)
	}
	return nil
}

// typing announces who is composing, then waits the configured delay so the
// stream paces like a live conversation.
func (r *Runner) typing(ctx context.Context, sink Sink, callID int64, sp game.Speaker) error {
	if err := sink.Emit(TypingEvent{Type: EventTyping, CallID: callID, Speaker: string(sp)}); err != nil {
		return fmt.Errorf("emit typing: %w", err)
	}
	if r.typingDelay <= 0 {
		return nil
	}
	select {
	case <-time.After(r.typingDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// historyFor renders the transcript as chat messages from one party's
// perspective. System lines never reach the models.
func historyFor(transcript []game.Turn, self game.Speaker) []anthropic.Message {
	msgs := make([]anthropic.Message, 0, len(transcript))
	for _, t := range transcript {
		switch t.Speaker {
		case game.SpeakerSystem:
			continue
		case self:
			msgs = append(msgs, anthropic.Message{Role: "assistant", Content: t.Text})
		default:
			msgs = append(msgs, anthropic.Message{Role: "user", Content: t.Text})
		}
	}
	return msgs
}
