// Package ai wraps the generative-model collaborator used to grade
// free-text answers and to produce feedback copy.
//
// Grading never surfaces transport errors to callers: every call resolves
// to an explicit Outcome so the dispatcher's fallback branch is an ordinary
// code path, not an exception handler.
package ai

import "context"

// Status classifies the result of a grading call.
type Status int

const (
	// StatusGraded means the model returned a usable score.
	StatusGraded Status = iota
	// StatusUnavailable means the adapter is not configured or the call
	// timed out / could not reach the model.
	StatusUnavailable
	// StatusFailed means the model answered but the output was unusable
	// (malformed JSON, out-of-range payload).
	StatusFailed
)

// Outcome is the explicit result of one grading call.
type Outcome struct {
	Status   Status
	Score    int    // 0..MaxPoints, meaningful only when StatusGraded
	Feedback string // reasons + advice, may be empty
	Reason   string // diagnostic for non-graded outcomes
}

// GradeRequest asks the model to mark one short student answer against a
// memo snippet.
type GradeRequest struct {
	Prompt      string // the question as shown to the student
	Rubric      string // expected answer / memo snippet, the gold standard
	StudentText string
	MaxPoints   int
	// ErrorHint is the item's internal error tag, given to the model for
	// reasoning only and never echoed to students.
	ErrorHint string
}

// GenerateRequest is a free-form generation call (feedback copy, hints).
// It never awards marks.
type GenerateRequest struct {
	Instruction     string
	Texts           []string
	JSONMode        bool
	Temperature     float64
	TopP            float64
	MaxOutputTokens int
}

// Grader is the external grading collaborator.
type Grader interface {
	// Grade marks a student answer. Implementations must bound the call
	// with their configured timeout and must not retry within the call.
	Grade(ctx context.Context, req GradeRequest) Outcome

	// Generate produces free-form text.
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// Unavailable returns an Outcome for an adapter that cannot serve the call.
func Unavailable(reason string) Outcome {
	return Outcome{Status: StatusUnavailable, Reason: reason}
}
