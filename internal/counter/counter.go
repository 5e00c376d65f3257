// Package counter issues attempt numbers server-side. The original client
// kept its own counter in browser storage, which is trivially spoofable
// and races across tabs; a transactional counter per (student, quiz)
// replaces it.
package counter

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// Counter issues the next attempt number for a (studentID, mqID) pair.
// Numbers start at 1; 1 marks the graded-for-credit attempt.
type Counter interface {
	Next(ctx context.Context, studentID, mqID string) (int, error)
}

// SQLCounter increments atomically via an UPSERT, one row per pair.
// Numbered placeholders ($1..) are accepted by both the modernc sqlite
// and pgx stdlib drivers.
type SQLCounter struct {
	db *sql.DB
}

func NewSQLCounter(db *sql.DB) *SQLCounter { return &SQLCounter{db: db} }

func (c *SQLCounter) Next(ctx context.Context, studentID, mqID string) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `
		INSERT INTO attempt_counters (student_id, mq_id, n, updated_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (student_id, mq_id)
		DO UPDATE SET n = attempt_counters.n + 1, updated_at = $3
		RETURNING n`,
		studentID, mqID, time.Now().Unix(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next attempt number: %w", err)
	}
	return n, nil
}

// MemCounter is an in-process Counter for tests and DB-less deployments.
type MemCounter struct {
	mu sync.Mutex
	m  map[[2]string]int
}

func NewMemCounter() *MemCounter {
	return &MemCounter{m: map[[2]string]int{}}
}

func (c *MemCounter) Next(_ context.Context, studentID, mqID string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := [2]string{studentID, mqID}
	c.m[k]++
	return c.m[k], nil
}
