// Package leaderboard tracks per-archetype standings and learned patterns
// across calls. The store is safe for concurrent use.
package leaderboard

import (
	"sort"
	"sync"

	"github.com/MikeSquared-Agency/callsim/internal/agent"
	"github.com/MikeSquared-Agency/callsim/internal/persona"
	"github.com/MikeSquared-Agency/callsim/internal/scoring"
)

// MaxPatterns caps how many learned patterns an archetype retains. Older
// patterns age out first.
const MaxPatterns = 10

// MaxRecent caps the per-archetype recent-call history.
const MaxRecent = 5

// CallSummary is the per-call record the simulator reports after scoring.
type CallSummary struct {
	CallID     string             `json:"call_id"`
	Tier       persona.Tier       `json:"tier"`
	Motivation persona.Motivation `json:"motivation"`
	WasFraud   bool               `json:"was_fraud"`
	Outcome    scoring.Outcome    `json:"outcome"`
	Points     int                `json:"points"`
	Turns      int                `json:"turns"`
}

// Stats aggregates outcomes for one archetype or for the whole board.
type Stats struct {
	Calls          int                     `json:"calls"`
	Points         int                     `json:"points"`
	Outcomes       map[scoring.Outcome]int `json:"outcomes"`
	ConversionRate float64                 `json:"conversion_rate"`
}

// Apply folds one more scored call into a copy of the stats. Callers use
// it to report standings that already include a call they have not yet
// committed with RecordCall.
func (s Stats) Apply(sum CallSummary) Stats {
	out := cloneStats(s)
	out.Calls++
	out.Points += sum.Points
	out.Outcomes[sum.Outcome]++
	out.ConversionRate = rate(out)
	return out
}

// Entry is one leaderboard row.
type Entry struct {
	Style agent.Style `json:"style"`
	Name  string      `json:"name"`
	Stats
}

type styleRecord struct {
	stats    Stats
	patterns []string
	recent   []CallSummary
}

// Store keeps standings in memory for the lifetime of the process.
type Store struct {
	mu     sync.RWMutex
	styles map[agent.Style]*styleRecord
}

func New() *Store {
	return &Store{styles: make(map[agent.Style]*styleRecord)}
}

func (s *Store) record(style agent.Style) *styleRecord {
	rec, ok := s.styles[style]
	if !ok {
		rec = &styleRecord{stats: Stats{Outcomes: make(map[scoring.Outcome]int)}}
		s.styles[style] = rec
	}
	return rec
}

// RecordCall folds a scored call into the archetype's standings. Warmup
// calls never touch the aggregates; the archetype entry still exists so
// its patterns have somewhere to live.
func (s *Store) RecordCall(style agent.Style, sum CallSummary, warmup bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.record(style)
	rec.recent = append(rec.recent, sum)
	if len(rec.recent) > MaxRecent {
		rec.recent = rec.recent[len(rec.recent)-MaxRecent:]
	}
	if warmup {
		return
	}
	rec.stats.Calls++
	rec.stats.Points += sum.Points
	rec.stats.Outcomes[sum.Outcome]++
}

// Recent returns the archetype's latest call summaries, oldest first.
// Warmup calls appear here even though they never reach the aggregates.
func (s *Store) Recent(style agent.Style) []CallSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.styles[style]
	if !ok {
		return nil
	}
	out := make([]CallSummary, len(rec.recent))
	copy(out, rec.recent)
	return out
}

// AddPattern stores a learned pattern for the archetype, deduplicated and
// capped at MaxPatterns. Patterns persist across warmup toggles.
func (s *Store) AddPattern(style agent.Style, pattern string) {
	if pattern == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.record(style)
	for _, p := range rec.patterns {
		if p == pattern {
			return
		}
	}
	rec.patterns = append(rec.patterns, pattern)
	if len(rec.patterns) > MaxPatterns {
		rec.patterns = rec.patterns[len(rec.patterns)-MaxPatterns:]
	}
}

// Patterns returns the archetype's learned patterns, oldest first.
func (s *Store) Patterns(style agent.Style) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.styles[style]
	if !ok {
		return nil
	}
	out := make([]string, len(rec.patterns))
	copy(out, rec.patterns)
	return out
}

// Leaderboard returns all archetypes ranked by points descending. Ties
// break on call count descending, then style name ascending, so the
// ordering is deterministic for equal scores.
func (s *Store) Leaderboard() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.styles))
	for style, rec := range s.styles {
		entries = append(entries, Entry{
			Style: style,
			Name:  agent.Info(style).DisplayName,
			Stats: cloneStats(rec.stats),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		if entries[i].Calls != entries[j].Calls {
			return entries[i].Calls > entries[j].Calls
		}
		return entries[i].Style < entries[j].Style
	})
	return entries
}

// StyleStats returns the standings for one archetype.
func (s *Store) StyleStats(style agent.Style) (Stats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.styles[style]
	if !ok {
		return Stats{}, false
	}
	return cloneStats(rec.stats), true
}

// Overall sums standings across every archetype.
func (s *Store) Overall() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := Stats{Outcomes: make(map[scoring.Outcome]int)}
	for _, rec := range s.styles {
		total.Calls += rec.stats.Calls
		total.Points += rec.stats.Points
		for o, n := range rec.stats.Outcomes {
			total.Outcomes[o] += n
		}
	}
	total.ConversionRate = rate(total)
	return total
}

func rate(st Stats) float64 {
	if st.Calls == 0 {
		return 0
	}
	return float64(st.Outcomes[scoring.OutcomeConversion]) / float64(st.Calls)
}

// cloneStats copies the stats and derives the conversion rate from the
// counters, so the rate can never drift from its source counts.
func cloneStats(st Stats) Stats {
	out := st
	out.Outcomes = make(map[scoring.Outcome]int, len(st.Outcomes))
	for o, n := range st.Outcomes {
		out.Outcomes[o] = n
	}
	out.ConversionRate = rate(out)
	return out
}
