package analytics_test

import (
	"testing"

	"github.com/pattern-classroom/quizsvc/internal/analytics"
	"github.com/pattern-classroom/quizsvc/internal/ledger"
)

func rec(student string, ts int64, los []int, pass int, class string, awarded, possible int) ledger.AttemptRecord {
	return ledger.AttemptRecord{
		Ts: ts, StudentID: student, SessionID: "sess-" + student,
		MQID: "mq1", ItemID: "mq1_q1", LOIDs: los,
		PassFail: pass, Attempts: 1, ErrorClass: class,
		MarksAwarded: awarded, MarksPossible: possible,
	}
}

func TestAggregateEmpty(t *testing.T) {
	sum := analytics.Aggregate(nil)
	if sum.TotalAttempts != 0 || sum.DistinctStudents != 0 || sum.OverallPassRate != 0 {
		t.Fatalf("empty aggregate: %+v", sum)
	}
	if len(sum.LOStats) != 0 {
		t.Fatalf("stats from no records: %+v", sum.LOStats)
	}
}

func TestRecordsCountTowardEveryLO(t *testing.T) {
	sum := analytics.Aggregate([]ledger.AttemptRecord{
		rec("s1", 10, []int{1, 2, 3}, 1, "", 2, 2),
	})
	if len(sum.LOStats) != 3 {
		t.Fatalf("lo stats = %d, want 3", len(sum.LOStats))
	}
	for _, st := range sum.LOStats {
		if st.Attempts != 1 || st.PassCount != 1 {
			t.Fatalf("lo %d counters: %+v", st.LOID, st)
		}
		if st.TotalMarksAwarded != 2 || st.TotalMarksPossible != 2 {
			t.Fatalf("lo %d marks: %+v", st.LOID, st)
		}
	}
}

func TestRankingWeakestFirst(t *testing.T) {
	records := []ledger.AttemptRecord{
		// LO 1: 2/2 pass
		rec("s1", 1, []int{1}, 1, "", 1, 1),
		rec("s2", 2, []int{1}, 1, "", 1, 1),
		// LO 2: 0/2 pass
		rec("s1", 3, []int{2}, 0, "uml-roles-mislabelled", 0, 1),
		rec("s2", 4, []int{2}, 0, "uml-roles-mislabelled", 0, 1),
		// LO 3: 1/2 pass
		rec("s1", 5, []int{3}, 1, "", 1, 1),
		rec("s2", 6, []int{3}, 0, "pattern-triage-confusion", 0, 1),
	}
	sum := analytics.Aggregate(records)

	if got := []int{sum.LOStats[0].LOID, sum.LOStats[1].LOID, sum.LOStats[2].LOID}; got[0] != 2 || got[1] != 3 || got[2] != 1 {
		t.Fatalf("ranking = %v, want [2 3 1]", got)
	}
	prev := -1.0
	for _, st := range sum.LOStats {
		rate := st.PassRate()
		if rate < 0 || rate > 1 {
			t.Fatalf("pass rate out of bounds: %v", rate)
		}
		if st.PassCount > st.Attempts {
			t.Fatalf("passCount > attempts: %+v", st)
		}
		if rate < prev {
			t.Fatalf("ranking not non-decreasing: %v after %v", rate, prev)
		}
		prev = rate
	}

	if sum.DistinctStudents != 2 {
		t.Fatalf("distinct students = %d", sum.DistinctStudents)
	}
	if sum.TotalAttempts != 6 {
		t.Fatalf("total attempts = %d", sum.TotalAttempts)
	}
	if sum.OverallPassRate != 0.5 {
		t.Fatalf("overall pass rate = %v", sum.OverallPassRate)
	}
	if sum.LastTimestamp != 6 {
		t.Fatalf("last timestamp = %d", sum.LastTimestamp)
	}
}

func TestZeroAttemptPassRateRanksLast(t *testing.T) {
	var st analytics.LOStat
	if st.PassRate() != 1.0 {
		t.Fatalf("zero-attempt pass rate = %v, want 1.0", st.PassRate())
	}
}

func TestDominantErrorFirstSeenTieBreak(t *testing.T) {
	records := []ledger.AttemptRecord{
		rec("s1", 1, []int{5}, 0, "wrong-call-site", 0, 1),
		rec("s2", 2, []int{5}, 0, "client-still-constructs", 0, 1),
		rec("s3", 3, []int{5}, 0, "client-still-constructs", 0, 1),
		rec("s4", 4, []int{5}, 0, "wrong-call-site", 0, 1),
	}
	sum := analytics.Aggregate(records)
	if got := sum.LOStats[0].DominantError; got != "wrong-call-site" {
		t.Fatalf("tie should go to first-seen class, got %q", got)
	}
}

func TestDominantErrorDashWhenClean(t *testing.T) {
	sum := analytics.Aggregate([]ledger.AttemptRecord{
		rec("s1", 1, []int{7}, 1, "", 1, 1),
	})
	if got := sum.LOStats[0].DominantError; got != analytics.NoDominantError {
		t.Fatalf("dominant error = %q, want %q", got, analytics.NoDominantError)
	}
}

func TestFailuresWithoutErrorClassAreNotCounted(t *testing.T) {
	sum := analytics.Aggregate([]ledger.AttemptRecord{
		rec("s1", 1, []int{9}, 0, "", 0, 1),
	})
	st := sum.LOStats[0]
	if len(st.ErrorCounts) != 0 {
		t.Fatalf("untagged failure counted: %+v", st.ErrorCounts)
	}
	if st.DominantError != analytics.NoDominantError {
		t.Fatalf("dominant error = %q", st.DominantError)
	}
}
