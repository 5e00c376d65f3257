package quiz_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/pattern-classroom/quizsvc/internal/ai"
	"github.com/pattern-classroom/quizsvc/internal/counter"
	"github.com/pattern-classroom/quizsvc/internal/grading"
	"github.com/pattern-classroom/quizsvc/internal/ledger"
	"github.com/pattern-classroom/quizsvc/internal/quiz"
)

/* ---------------- in-memory fake satisfying ledger.Ledger ---------------- */

type fakeLedger struct {
	records []ledger.AttemptRecord
	fail    bool
}

func (f *fakeLedger) Append(ctx context.Context, records []ledger.AttemptRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.fail {
		return errors.New("disk full")
	}
	f.records = append(f.records, records...)
	return nil
}

func (f *fakeLedger) ReadAll(_ context.Context, flt ledger.Filter) ([]ledger.AttemptRecord, error) {
	return f.records, nil
}

/* ---------------- helpers ---------------- */

func raw(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

// testBank is a two-item quiz mirroring the documented scenario: one MCQ
// and one AI-graded short-text item, one mark each.
func testBank() []quiz.MicroQuiz {
	return []quiz.MicroQuiz{{
		ID:    "mq1",
		Title: "MQ1",
		Desc:  "scenario quiz",
		Items: []quiz.Item{
			{
				ID: "mq1_q1", Type: quiz.TypeMCQSingle, Prompt: "pick one",
				Options: []quiz.Option{{Key: "A", Text: "right"}, {Key: "B", Text: "wrong"}, {Key: "C", Text: "wrong"}},
				Answer:  quiz.AnswerKey{Key: "A"}, Marks: 1, LOIDs: []int{1},
				ErrorClassOnMiss: "intent-or-classification-misunderstood",
			},
			{
				ID: "mq1_q2", Type: quiz.TypeShortText, Prompt: "explain",
				Answer: quiz.AnswerKey{Rubric: "delegates creation to subclasses"},
				Marks:  1, LOIDs: []int{2},
				ErrorClassOnMiss: "intent-or-classification-misunderstood",
			},
		},
		TargetLOs: []int{1, 2},
	}}
}

func newService(mock *ai.Mock, log ledger.Ledger) *quiz.Service {
	var grader ai.Grader
	if mock != nil {
		grader = mock
	}
	return quiz.NewService(
		quiz.NewCatalog(testBank()),
		grading.NewDispatcher(grader),
		log,
		counter.NewMemCounter(),
	)
}

/* ---------------- tests ---------------- */

func TestSubmitScenarioFullMarks(t *testing.T) {
	log := &fakeLedger{}
	mock := ai.NewMock(ai.Outcome{Status: ai.StatusGraded, Score: 1, Feedback: "good"})
	svc := newService(mock, log)

	res, err := svc.Submit(context.Background(), quiz.SubmitPayload{
		StudentID: "u123",
		SessionID: "sess1",
		MQID:      "mq1",
		Attempts: []quiz.ItemAttempt{
			{ItemID: "mq1_q1", Response: raw(t, "A"), TimeMs: 1200},
			{ItemID: "mq1_q2", Response: raw(t, "subclasses decide the concrete product"), TimeMs: 8000},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalAwarded != 2 || res.TotalPossible != 2 {
		t.Fatalf("totals = %d/%d, want 2/2", res.TotalAwarded, res.TotalPossible)
	}
	if res.AttemptNumber != 1 {
		t.Fatalf("attempt number = %d, want server-issued 1", res.AttemptNumber)
	}
	if len(res.Results) != 2 || !res.Results[0].Correct || !res.Results[1].Correct {
		t.Fatalf("results: %+v", res.Results)
	}

	if len(log.records) != 2 {
		t.Fatalf("ledger rows = %d, want one per item", len(log.records))
	}
	r := log.records[0]
	if r.MQID != "mq1" || r.ItemID != "mq1_q1" || r.PassFail != 1 || r.Attempts != 1 {
		t.Fatalf("record: %+v", r)
	}
	if r.TimeMs != 1200 || r.MarksAwarded != 1 || r.MarksPossible != 1 {
		t.Fatalf("record fields: %+v", r)
	}
}

func TestSubmitServerIssuedAttemptNumbersIncrement(t *testing.T) {
	log := &fakeLedger{}
	svc := newService(nil, log)

	payload := quiz.SubmitPayload{
		StudentID: "u123", SessionID: "sess1", MQID: "mq1",
		Attempts: []quiz.ItemAttempt{{ItemID: "mq1_q1", Response: raw(t, "A")}},
	}
	for want := 1; want <= 3; want++ {
		res, err := svc.Submit(context.Background(), payload)
		if err != nil {
			t.Fatal(err)
		}
		if res.AttemptNumber != want {
			t.Fatalf("attempt number = %d, want %d", res.AttemptNumber, want)
		}
	}
	// caller-supplied numbers pass through untouched
	payload.AttemptNumber = 2
	res, err := svc.Submit(context.Background(), payload)
	if err != nil {
		t.Fatal(err)
	}
	if res.AttemptNumber != 2 {
		t.Fatalf("caller-supplied attempt number rewritten to %d", res.AttemptNumber)
	}
	// repeated numbers still append rows; nothing is rejected or rewritten
	if len(log.records) != 4 {
		t.Fatalf("ledger rows = %d, want 4", len(log.records))
	}
}

func TestSubmitValidationWritesNothing(t *testing.T) {
	log := &fakeLedger{}
	svc := newService(nil, log)
	ctx := context.Background()

	_, err := svc.Submit(ctx, quiz.SubmitPayload{SessionID: "s", MQID: "nope",
		Attempts: []quiz.ItemAttempt{{ItemID: "x", Response: raw(t, "A")}}})
	if !errors.Is(err, quiz.ErrNotFound) {
		t.Fatalf("unknown mq: %v", err)
	}

	var ve *quiz.ValidationError
	_, err = svc.Submit(ctx, quiz.SubmitPayload{SessionID: "s", MQID: "mq1",
		Attempts: []quiz.ItemAttempt{{ItemID: "ghost", Response: raw(t, "A")}}})
	if !errors.As(err, &ve) {
		t.Fatalf("unknown item: %v", err)
	}

	_, err = svc.Submit(ctx, quiz.SubmitPayload{SessionID: "s", MQID: "mq1",
		Attempts: []quiz.ItemAttempt{{ItemID: "mq1_q1", Response: raw(t, 42)}}})
	if !errors.As(err, &ve) {
		t.Fatalf("malformed response: %v", err)
	}

	_, err = svc.Submit(ctx, quiz.SubmitPayload{MQID: "mq1",
		Attempts: []quiz.ItemAttempt{{ItemID: "mq1_q1", Response: raw(t, "A")}}})
	if !errors.As(err, &ve) {
		t.Fatalf("missing session: %v", err)
	}

	if len(log.records) != 0 {
		t.Fatalf("validation failure wrote %d rows", len(log.records))
	}
}

func TestSubmitLedgerFailureFailsWholeSubmission(t *testing.T) {
	log := &fakeLedger{fail: true}
	svc := newService(nil, log)

	_, err := svc.Submit(context.Background(), quiz.SubmitPayload{
		SessionID: "s", MQID: "mq1",
		Attempts: []quiz.ItemAttempt{{ItemID: "mq1_q1", Response: raw(t, "A")}},
	})
	if err == nil {
		t.Fatal("ledger failure must fail the submission")
	}
	if len(log.records) != 0 {
		t.Fatalf("partial rows visible: %d", len(log.records))
	}
}

func TestSubmitRunsToCompletionAfterDisconnect(t *testing.T) {
	log := &fakeLedger{}
	svc := newService(nil, log)

	// the request context is already cancelled, as after a client
	// disconnect; the accepted submission must still grade and persist
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := svc.Submit(ctx, quiz.SubmitPayload{
		SessionID: "s", MQID: "mq1",
		Attempts: []quiz.ItemAttempt{{ItemID: "mq1_q1", Response: raw(t, "A")}},
	})
	if err != nil {
		t.Fatalf("cancelled request dropped the submission: %v", err)
	}
	if len(log.records) != 1 {
		t.Fatalf("ledger rows = %d, want 1", len(log.records))
	}
	if !res.Results[0].Correct {
		t.Fatalf("result: %+v", res.Results[0])
	}
}

func TestShuffleInvariantGrading(t *testing.T) {
	log := &fakeLedger{}
	svc := newService(nil, log)

	seed := int64(7)
	served, err := svc.Fetch("mq1", true, &seed)
	if err != nil {
		t.Fatal(err)
	}
	again, err := svc.Fetch("mq1", true, &seed)
	if err != nil {
		t.Fatal(err)
	}
	for i := range served.Items {
		if served.Items[i].ID != again.Items[i].ID {
			t.Fatalf("seeded item order not stable at %d", i)
		}
	}

	// answer keyed by option id grades correct regardless of served order
	res, err := svc.Submit(context.Background(), quiz.SubmitPayload{
		SessionID: "s", MQID: "mq1",
		Attempts: []quiz.ItemAttempt{{ItemID: "mq1_q1", Response: raw(t, "A")}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Results[0].Correct {
		t.Fatalf("shuffled serving broke grading: %+v", res.Results[0])
	}
}

func TestFetchStripsAnswerKeys(t *testing.T) {
	svc := newService(nil, &fakeLedger{})
	mq, err := svc.Fetch("mq1", false, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, it := range mq.Items {
		if it.Answer.Key != "" || len(it.Answer.Keys) != 0 || it.Answer.Rubric != "" || len(it.Answer.Accepted) != 0 {
			t.Fatalf("answer key served to student: %+v", it)
		}
	}
	// and the catalog copy is untouched
	orig, err := svc.Catalog().Get("mq1")
	if err != nil {
		t.Fatal(err)
	}
	if orig.Items[0].Answer.Key != "A" {
		t.Fatal("sanitizing mutated the catalog")
	}
}

func TestAnonymousSubmissionsCountPerSession(t *testing.T) {
	svc := newService(nil, &fakeLedger{})
	payload := quiz.SubmitPayload{
		SessionID: "anon-1", MQID: "mq1",
		Attempts: []quiz.ItemAttempt{{ItemID: "mq1_q1", Response: raw(t, "B")}},
	}
	res1, err := svc.Submit(context.Background(), payload)
	if err != nil {
		t.Fatal(err)
	}
	payload.SessionID = "anon-2"
	res2, err := svc.Submit(context.Background(), payload)
	if err != nil {
		t.Fatal(err)
	}
	if res1.AttemptNumber != 1 || res2.AttemptNumber != 1 {
		t.Fatalf("sessions share a counter: %d, %d", res1.AttemptNumber, res2.AttemptNumber)
	}
}
