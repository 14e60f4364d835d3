// Package store archives completed calls in Postgres. The archive is
// optional; the simulator runs fully in memory without it.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/callsim/internal/sim"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// InsertCall archives one completed call with its full transcript.
// Table: calls.
func (s *Store) InsertCall(ctx context.Context, rec sim.CallRecord) error {
	transcript, err := json.Marshal(rec.Transcript)
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}
	snapshot, err := json.Marshal(rec.Snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO calls (id, call_seq, agent_name, agent_style, customer_name, tier,
			motivation, was_fraud, outcome, points, reason, motivation_guess,
			motivation_correct, turns, warmup, transcript, snapshot, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		uuid.New(), rec.CallID, rec.AgentName, rec.AgentStyle, rec.Customer.Name, rec.Customer.Tier,
		rec.Customer.Motivation, rec.Customer.IsFraud, rec.Outcome, rec.Points, rec.Reason,
		rec.MotivationGuess, rec.MotivationCorrect, rec.Turns, rec.Warmup, transcript, snapshot, rec.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert call: %w", err)
	}
	return nil
}

// CallSummaryRow is one archived call without its transcript.
type CallSummaryRow struct {
	ID          uuid.UUID `json:"id"`
	CallSeq     int64     `json:"call_seq"`
	AgentName   string    `json:"agent_name"`
	AgentStyle  string    `json:"agent_style"`
	Tier        string    `json:"tier"`
	Outcome     string    `json:"outcome"`
	Points      int       `json:"points"`
	Turns       int       `json:"turns"`
	Warmup      bool      `json:"warmup"`
	CompletedAt time.Time `json:"completed_at"`
}

// RecentCalls returns the newest archived calls, most recent first.
func (s *Store) RecentCalls(ctx context.Context, limit int) ([]CallSummaryRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, call_seq, agent_name, agent_style, tier, outcome, points, turns, warmup, completed_at
		FROM calls
		ORDER BY completed_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent calls: %w", err)
	}
	defer rows.Close()

	var out []CallSummaryRow
	for rows.Next() {
		var r CallSummaryRow
		if err := rows.Scan(&r.ID, &r.CallSeq, &r.AgentName, &r.AgentStyle, &r.Tier,
			&r.Outcome, &r.Points, &r.Turns, &r.Warmup, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan call row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
