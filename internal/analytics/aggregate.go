// Package analytics rolls the attempt ledger up into per-learning-outcome
// statistics for the admin dashboard. Everything here is recomputed on
// read; the ledger stays the only source of truth.
package analytics

import (
	"sort"

	"github.com/pattern-classroom/quizsvc/internal/ledger"
)

// NoDominantError is shown for an LO with no errored attempts.
const NoDominantError = "—"

// LOStat is the rollup for one learning outcome.
type LOStat struct {
	LOID               int            `json:"lo_id"`
	Attempts           int            `json:"attempts"`
	PassCount          int            `json:"pass_count"`
	TotalMarksAwarded  int            `json:"total_marks_awarded"`
	TotalMarksPossible int            `json:"total_marks_possible"`
	ErrorCounts        map[string]int `json:"error_counts,omitempty"`
	DominantError      string         `json:"dominant_error"`

	// first-seen order of error classes, for deterministic tie-breaking
	errorOrder []string
}

// PassRate is passCount/attempts; an LO with no attempts reports 1.0 so it
// ranks after every LO with actual evidence of difficulty.
func (s LOStat) PassRate() float64 {
	if s.Attempts == 0 {
		return 1.0
	}
	return float64(s.PassCount) / float64(s.Attempts)
}

// Summary is the full analytics rollup.
type Summary struct {
	LOStats          []LOStat `json:"lo_stats"` // weakest first
	DistinctStudents int      `json:"distinct_students"`
	TotalAttempts    int      `json:"total_attempts"`
	OverallPassRate  float64  `json:"overall_pass_rate"`
	LastTimestamp    int64    `json:"last_timestamp"`
}

// Aggregate computes the rollup in a single pass over the records. A record
// counts toward every LO it lists; failed records contribute their error
// class to each of those LOs.
func Aggregate(records []ledger.AttemptRecord) Summary {
	byLO := map[int]*LOStat{}
	students := map[string]struct{}{}

	var sum Summary
	passTotal := 0
	for _, r := range records {
		sum.TotalAttempts++
		if r.PassFail == 1 {
			passTotal++
		}
		if r.StudentID != "" {
			students[r.StudentID] = struct{}{}
		}
		if r.Ts > sum.LastTimestamp {
			sum.LastTimestamp = r.Ts
		}

		for _, lo := range r.LOIDs {
			st, ok := byLO[lo]
			if !ok {
				st = &LOStat{LOID: lo, ErrorCounts: map[string]int{}}
				byLO[lo] = st
			}
			st.Attempts++
			st.TotalMarksAwarded += r.MarksAwarded
			st.TotalMarksPossible += r.MarksPossible
			if r.PassFail == 1 {
				st.PassCount++
				continue
			}
			if r.ErrorClass != "" {
				if _, seen := st.ErrorCounts[r.ErrorClass]; !seen {
					st.errorOrder = append(st.errorOrder, r.ErrorClass)
				}
				st.ErrorCounts[r.ErrorClass]++
			}
		}
	}

	sum.DistinctStudents = len(students)
	if sum.TotalAttempts > 0 {
		sum.OverallPassRate = float64(passTotal) / float64(sum.TotalAttempts)
	}

	stats := make([]LOStat, 0, len(byLO))
	for _, st := range byLO {
		st.DominantError = dominantError(st)
		if len(st.ErrorCounts) == 0 {
			st.ErrorCounts = nil
		}
		stats = append(stats, *st)
	}
	sort.SliceStable(stats, func(i, j int) bool {
		ri, rj := stats[i].PassRate(), stats[j].PassRate()
		if ri != rj {
			return ri < rj
		}
		return stats[i].LOID < stats[j].LOID
	})
	sum.LOStats = stats
	return sum
}

// dominantError is the argmax of the error counts, ties broken by the
// order the classes were first seen in the ledger.
func dominantError(st *LOStat) string {
	best := NoDominantError
	bestN := 0
	for _, class := range st.errorOrder {
		if n := st.ErrorCounts[class]; n > bestN {
			best, bestN = class, n
		}
	}
	return best
}
