package grading

import (
	"context"
	"strings"

	"github.com/pattern-classroom/quizsvc/internal/ai"
)

// UngradedClass tags free-text answers that could not be graded because
// the AI collaborator was unavailable and no deterministic fallback exists.
const UngradedClass = "ungraded"

// Q is a minimal view of an item needed for grading. The quiz package
// converts its Item into this so grading stays free of catalog concerns.
type Q struct {
	ID     string
	Type   string // mcq_single, mcq_multi, fitb, short_text, code_text, uml_json
	Prompt string
	Marks  int

	Key      string   // mcq_single answer key
	Keys     []string // mcq_multi answer keys
	Accepted []string // fitb accepted answers (offline fallback)
	Rubric   string   // memo snippet for AI grading

	ErrorClassOnMiss string
}

// R is the typed response for one item, already validated at the boundary.
type R struct {
	Key  string
	Keys []string
	Text string
}

// Result is the outcome of grading a single item response.
type Result struct {
	Correct      bool
	MarksAwarded int    // 0..q.Marks
	Feedback     string // optional, shown to the student
	ErrorClass   string // taxonomy tag, set only when incorrect
}

// Strategy grades one item. Implementations are stateless; the only side
// effect anywhere in this package is the AI adapter call.
type Strategy interface {
	Grade(ctx context.Context, q Q, resp R) Result
}

// Grader routes by item type to the correct Strategy.
type Grader interface {
	Grade(ctx context.Context, q Q, resp R) Result
}

type dispatcher struct {
	strategies map[string]Strategy
}

func (d *dispatcher) Grade(ctx context.Context, q Q, resp R) Result {
	s, ok := d.strategies[q.Type]
	if !ok {
		return Result{ErrorClass: UngradedClass, Feedback: "no grading strategy for item type " + q.Type}
	}
	return s.Grade(ctx, q, resp)
}

// NewDispatcher installs the built-in strategies. The adapter may be nil,
// in which case AI-routed items take their fallback paths immediately.
func NewDispatcher(adapter ai.Grader) Grader {
	return &dispatcher{
		strategies: map[string]Strategy{
			"mcq_single": mcqSingleStrategy{},
			"mcq_multi":  mcqMultiStrategy{},
			"fitb":       fitbStrategy{ai: adapter},
			"short_text": shortTextStrategy{ai: adapter},
			"code_text":  captureStrategy{},
			"uml_json":   captureStrategy{},
		},
	}
}

// --- Strategies ---

type mcqSingleStrategy struct{}

func (mcqSingleStrategy) Grade(_ context.Context, q Q, resp R) Result {
	if resp.Key == q.Key {
		return Result{Correct: true, MarksAwarded: q.Marks}
	}
	return Result{Feedback: missHint(q, false), ErrorClass: q.ErrorClassOnMiss}
}

type mcqMultiStrategy struct{}

// Grade awards full marks only on exact set equality. No partial credit:
// a subset and a superset both score zero, but the error class records
// which way the selection was wrong for later aggregation.
func (mcqMultiStrategy) Grade(_ context.Context, q Q, resp R) Result {
	key := toSet(q.Keys)
	got := toSet(resp.Keys)

	missing := false
	for k := range key {
		if _, ok := got[k]; !ok {
			missing = true
			break
		}
	}
	extra := false
	for k := range got {
		if _, ok := key[k]; !ok {
			extra = true
			break
		}
	}
	if !missing && !extra {
		return Result{Correct: true, MarksAwarded: q.Marks}
	}

	class := "missing-option"
	switch {
	case missing && extra:
		class = "both"
	case extra:
		class = "extra-option"
	}
	return Result{Feedback: missHint(q, false), ErrorClass: class}
}

type fitbStrategy struct{ ai ai.Grader }

// Grade tries the AI collaborator first; any non-graded outcome falls back
// to a normalized exact match against the accepted-answers list, so the
// item still grades deterministically offline.
func (s fitbStrategy) Grade(ctx context.Context, q Q, resp R) Result {
	if s.ai != nil {
		out := s.ai.Grade(ctx, ai.GradeRequest{
			Prompt:      q.Prompt,
			Rubric:      q.Rubric,
			StudentText: resp.Text,
			MaxPoints:   q.Marks,
			ErrorHint:   q.ErrorClassOnMiss,
		})
		if out.Status == ai.StatusGraded {
			return fromOutcome(q, out)
		}
	}

	norm := normalize(resp.Text)
	for _, acc := range q.Accepted {
		if norm != "" && normalize(acc) == norm {
			return Result{Correct: true, MarksAwarded: q.Marks}
		}
	}
	return Result{Feedback: missHint(q, true), ErrorClass: q.ErrorClassOnMiss}
}

type shortTextStrategy struct{ ai ai.Grader }

// Grade routes to the AI collaborator and fails safe: when grading is
// unavailable the answer earns zero marks and an "ungraded" tag rather
// than speculative credit.
func (s shortTextStrategy) Grade(ctx context.Context, q Q, resp R) Result {
	if s.ai != nil {
		out := s.ai.Grade(ctx, ai.GradeRequest{
			Prompt:      q.Prompt,
			Rubric:      q.Rubric,
			StudentText: resp.Text,
			MaxPoints:   q.Marks,
			ErrorHint:   q.ErrorClassOnMiss,
		})
		if out.Status == ai.StatusGraded {
			return fromOutcome(q, out)
		}
	}
	return Result{
		Feedback:   "Automated grading was unavailable for this answer; it has been recorded and will be reviewed.",
		ErrorClass: UngradedClass,
	}
}

// captureStrategy records code_text/uml_json answers without scoring them;
// the UML and code collaborators grade those out of band.
type captureStrategy struct{}

func (captureStrategy) Grade(_ context.Context, q Q, _ R) Result {
	return Result{ErrorClass: q.ErrorClassOnMiss}
}

// --- helpers ---

func fromOutcome(q Q, out ai.Outcome) Result {
	correct := out.Score == q.Marks
	class := ""
	if !correct {
		class = q.ErrorClassOnMiss
	}
	return Result{
		Correct:      correct,
		MarksAwarded: out.Score,
		Feedback:     out.Feedback,
		ErrorClass:   class,
	}
}

func missHint(q Q, offline bool) string {
	if q.ErrorClassOnMiss == "" {
		return ""
	}
	prefix := "Hint: "
	if offline {
		prefix = "Hint (offline): "
	}
	return prefix + strings.ReplaceAll(q.ErrorClassOnMiss, "-", " ") + "."
}

func toSet(keys []string) map[string]struct{} {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}
