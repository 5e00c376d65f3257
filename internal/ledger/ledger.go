// Package ledger is the append-only log of graded attempts. One submission
// of N items lands as exactly N immutable rows, both-or-neither.
package ledger

import "context"

// AttemptRecord is one persisted row per graded item per submission.
// Rows are immutable: the ledger has no update or delete operation.
type AttemptRecord struct {
	Ts              int64  `json:"ts"` // unix millis at grading time
	StudentID       string `json:"student_id,omitempty"`
	SessionID       string `json:"session_id"`
	MQID            string `json:"mq_id"`
	ItemID          string `json:"item_id"`
	LOIDs           []int  `json:"lo_ids"`
	PassFail        int    `json:"pass_fail"` // 1 iff marks_awarded == marks_possible
	Attempts        int    `json:"attempts"`  // attempt number; 1 is the graded-for-credit attempt
	TimeMs          int64  `json:"time_ms"`
	ErrorClass      string `json:"error_class,omitempty"`
	RemedialClicked bool   `json:"remedial_clicked"`
	MarksAwarded    int    `json:"marks_awarded"`
	MarksPossible   int    `json:"marks_possible"`
}

// Filter narrows ReadAll. Zero values match everything.
type Filter struct {
	MQID      string
	SessionID string
	StudentID string
}

func (f Filter) matches(r AttemptRecord) bool {
	if f.MQID != "" && r.MQID != f.MQID {
		return false
	}
	if f.SessionID != "" && r.SessionID != f.SessionID {
		return false
	}
	if f.StudentID != "" && r.StudentID != f.StudentID {
		return false
	}
	return true
}

// Ledger is the durable attempt log.
type Ledger interface {
	// Append writes all records of one submission atomically: either every
	// row is durable in both representations or none is.
	Append(ctx context.Context, records []AttemptRecord) error

	// ReadAll returns matching records in append order. Reads are
	// eventually consistent with concurrent appends but never observe a
	// partially written row.
	ReadAll(ctx context.Context, f Filter) ([]AttemptRecord, error)
}
