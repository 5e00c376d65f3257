package quiz

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pattern-classroom/quizsvc/internal/counter"
	"github.com/pattern-classroom/quizsvc/internal/grading"
	"github.com/pattern-classroom/quizsvc/internal/ledger"
	"github.com/pattern-classroom/quizsvc/internal/shuffle"
)

// ValidationError rejects a submission before any grading happens. The
// HTTP layer maps it to a 4xx; no ledger rows are written.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Service runs the submission pipeline: validate, grade, persist, total.
type Service struct {
	catalog  *Catalog
	grader   grading.Grader
	log      ledger.Ledger
	counters counter.Counter

	// maxParallel bounds concurrent grading within one submission; only
	// AI-routed items actually block.
	maxParallel int
}

func NewService(catalog *Catalog, grader grading.Grader, log ledger.Ledger, counters counter.Counter) *Service {
	return &Service{
		catalog:     catalog,
		grader:      grader,
		log:         log,
		counters:    counters,
		maxParallel: 4,
	}
}

func (s *Service) Catalog() *Catalog { return s.catalog }

// Fetch returns a student-safe quiz, optionally shuffled. With a seed the
// ordering is reproducible; without one it is drawn fresh per request.
func (s *Service) Fetch(mqID string, shuffled bool, seed *int64) (MicroQuiz, error) {
	mq, err := s.catalog.Get(mqID)
	if err != nil {
		return MicroQuiz{}, err
	}
	mq = Sanitized(mq)
	if !shuffled || len(mq.Items) == 0 {
		return mq, nil
	}

	perm := shuffle.Items(mq.ID, seed, len(mq.Items))
	items := make([]Item, len(mq.Items))
	for i, j := range perm {
		items[i] = mq.Items[j]
	}
	// Option order is permuted per item; grading is keyed by option ids,
	// so any served ordering grades identically.
	for i := range items {
		if len(items[i].Options) < 2 {
			continue
		}
		op := shuffle.Options(mq.ID, items[i].ID, seed, len(items[i].Options))
		opts := make([]Option, len(items[i].Options))
		for a, b := range op {
			opts[a] = items[i].Options[b]
		}
		items[i].Options = opts
	}
	mq.Items = items
	return mq, nil
}

// Submit grades one attempt and appends its rows to the ledger. Once
// accepted, grading runs to completion; there is no cancellation path for
// an in-flight submission.
func (s *Service) Submit(ctx context.Context, payload SubmitPayload) (SubmitResult, error) {
	if payload.SessionID == "" {
		return SubmitResult{}, validationf("session_id required")
	}
	mq, err := s.catalog.Get(payload.MQID)
	if err != nil {
		return SubmitResult{}, err
	}
	if len(payload.Attempts) == 0 {
		return SubmitResult{}, validationf("no item attempts in submission")
	}

	byID := make(map[string]Item, len(mq.Items))
	for _, it := range mq.Items {
		byID[it.ID] = it
	}

	// Validate everything up front so a malformed item rejects the whole
	// submission before any grading side effects.
	type gradeJob struct {
		item Item
		resp Response
		att  ItemAttempt
	}
	jobs := make([]gradeJob, len(payload.Attempts))
	for i, att := range payload.Attempts {
		item, ok := byID[att.ItemID]
		if !ok {
			return SubmitResult{}, validationf("item not in %s: %s", mq.ID, att.ItemID)
		}
		resp, err := DecodeResponse(item.Type, att.Response)
		if err != nil {
			return SubmitResult{}, validationf("bad response for %s: %v", att.ItemID, err)
		}
		jobs[i] = gradeJob{item: item, resp: resp, att: att}
	}

	// The submission is accepted at this point and runs to completion: a
	// client disconnect must not drop graded rows, so everything below uses
	// a context detached from request cancellation.
	ctx = context.WithoutCancel(ctx)

	attemptNo := payload.AttemptNumber
	if attemptNo <= 0 {
		key := payload.StudentID
		if key == "" {
			// anonymous sessions count per session instead
			key = payload.SessionID
		}
		n, err := s.counters.Next(ctx, key, mq.ID)
		if err != nil {
			return SubmitResult{}, fmt.Errorf("issue attempt number: %w", err)
		}
		attemptNo = n
	}

	// Items share no mutable state, so grade them concurrently. Grading
	// never returns an error (adapter failures resolve to fallback
	// results), hence the group exists purely for the bounded fan-out.
	results := make([]grading.Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	for i, job := range jobs {
		g.Go(func() error {
			results[i] = s.grader.Grade(gctx, toQ(job.item), toR(job.resp))
			return nil
		})
	}
	_ = g.Wait()

	now := time.Now().UnixMilli()
	itemResults := make([]ItemResult, len(jobs))
	records := make([]ledger.AttemptRecord, len(jobs))
	totalAwarded := 0
	for i, job := range jobs {
		res := results[i]
		itemResults[i] = ItemResult{
			ItemID:       job.item.ID,
			Correct:      res.Correct,
			MarksAwarded: res.MarksAwarded,
			Expected:     job.item.Answer.Expected(),
			Feedback:     res.Feedback,
			LOIDs:        job.item.LOIDs,
			ErrorClass:   res.ErrorClass,
		}
		totalAwarded += res.MarksAwarded

		passFail := 0
		if res.MarksAwarded == job.item.Marks {
			passFail = 1
		}
		records[i] = ledger.AttemptRecord{
			Ts:              now,
			StudentID:       payload.StudentID,
			SessionID:       payload.SessionID,
			MQID:            mq.ID,
			ItemID:          job.item.ID,
			LOIDs:           job.item.LOIDs,
			PassFail:        passFail,
			Attempts:        attemptNo,
			TimeMs:          job.att.TimeMs,
			ErrorClass:      res.ErrorClass,
			RemedialClicked: job.att.RemedialClicked,
			MarksAwarded:    res.MarksAwarded,
			MarksPossible:   job.item.Marks,
		}
	}

	// A ledger failure fails the submission as a whole; the caller retries
	// the full attempt.
	if err := s.log.Append(ctx, records); err != nil {
		return SubmitResult{}, fmt.Errorf("append attempt records: %w", err)
	}

	return SubmitResult{
		SessionID:     payload.SessionID,
		MQID:          mq.ID,
		AttemptNumber: attemptNo,
		Results:       itemResults,
		TotalAwarded:  totalAwarded,
		TotalPossible: mq.TotalMarks,
	}, nil
}

func toQ(it Item) grading.Q {
	return grading.Q{
		ID:               it.ID,
		Type:             it.Type,
		Prompt:           it.Prompt,
		Marks:            it.Marks,
		Key:              it.Answer.Key,
		Keys:             it.Answer.Keys,
		Accepted:         it.Answer.Accepted,
		Rubric:           it.Answer.Rubric,
		ErrorClassOnMiss: it.ErrorClassOnMiss,
	}
}

func toR(r Response) grading.R {
	return grading.R{Key: r.Key, Keys: r.Keys, Text: r.Text}
}
