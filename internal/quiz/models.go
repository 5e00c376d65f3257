package quiz

import (
	"encoding/json"
	"fmt"
)

// Item types supported by the grading pipeline. code_text and uml_json are
// captured but scored by external collaborators, not here.
const (
	TypeMCQSingle = "mcq_single"
	TypeMCQMulti  = "mcq_multi"
	TypeFITB      = "fitb"
	TypeShortText = "short_text"
	TypeCodeText  = "code_text"
	TypeUMLJSON   = "uml_json"
)

type Option struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// AnswerKey holds the type-dependent expected answer for an item.
// Exactly one field is meaningful for a given item type.
type AnswerKey struct {
	Key      string   `json:"key,omitempty"`      // mcq_single
	Keys     []string `json:"keys,omitempty"`     // mcq_multi
	Accepted []string `json:"accepted,omitempty"` // fitb fallback list
	Rubric   string   `json:"rubric,omitempty"`   // fitb / short_text AI rubric (memo snippet)
}

// Expected returns the value echoed back to students for review.
func (k AnswerKey) Expected() interface{} {
	switch {
	case k.Key != "":
		return k.Key
	case len(k.Keys) > 0:
		return k.Keys
	case k.Rubric != "":
		return k.Rubric
	case len(k.Accepted) > 0:
		return k.Accepted[0]
	}
	return nil
}

type Item struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options,omitempty"` // mcq_* only

	Answer AnswerKey `json:"answer,omitempty"`

	Marks            int    `json:"marks"`
	LOIDs            []int  `json:"lo_ids"`
	ErrorClassOnMiss string `json:"error_class_on_miss,omitempty"`
}

type MicroQuiz struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Desc       string `json:"desc"`
	Items      []Item `json:"items"`
	TotalMarks int    `json:"total_marks"`
	TargetLOs  []int  `json:"target_los"`
}

type MQMeta struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Desc       string `json:"desc"`
	TotalMarks int    `json:"total_marks"`
	TargetLOs  []int  `json:"target_los"`
}

// Response is the tagged union of per-type answer payloads, validated at
// the boundary before dispatch.
type Response struct {
	Key  string   `json:"key,omitempty"`  // mcq_single
	Keys []string `json:"keys,omitempty"` // mcq_multi
	Text string   `json:"text,omitempty"` // fitb, short_text, code_text, uml_json
}

// DecodeResponse converts a raw JSON response payload into a typed Response
// for the given item type. Legacy wire shapes (bare string, bare array) are
// accepted for compatibility with the original front-end.
func DecodeResponse(itemType string, raw json.RawMessage) (Response, error) {
	if len(raw) == 0 {
		return Response{}, nil
	}
	switch itemType {
	case TypeMCQSingle:
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return Response{Key: s}, nil
		}
		var obj struct {
			Key string `json:"key"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return Response{}, fmt.Errorf("%s response must be an option key: %w", itemType, err)
		}
		return Response{Key: obj.Key}, nil
	case TypeMCQMulti:
		var arr []string
		if err := json.Unmarshal(raw, &arr); err == nil {
			return Response{Keys: arr}, nil
		}
		var obj struct {
			Keys []string `json:"keys"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return Response{}, fmt.Errorf("%s response must be a list of option keys: %w", itemType, err)
		}
		return Response{Keys: obj.Keys}, nil
	case TypeFITB, TypeShortText, TypeCodeText, TypeUMLJSON:
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return Response{Text: s}, nil
		}
		var obj struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			// uml_json payloads may be arbitrary diagram JSON; keep them verbatim
			if itemType == TypeUMLJSON {
				return Response{Text: string(raw)}, nil
			}
			return Response{}, fmt.Errorf("%s response must be text: %w", itemType, err)
		}
		return Response{Text: obj.Text}, nil
	default:
		return Response{}, fmt.Errorf("unknown item type: %s", itemType)
	}
}

// ItemAttempt is one answered item in an inbound submission.
type ItemAttempt struct {
	ItemID          string          `json:"item_id"`
	Response        json.RawMessage `json:"response"`
	TimeMs          int64           `json:"time_ms,omitempty"`
	RemedialClicked bool            `json:"remedial_clicked,omitempty"`
}

// SubmitPayload is an inbound attempt for one micro-quiz.
type SubmitPayload struct {
	StudentID string `json:"student_id,omitempty"`
	SessionID string `json:"session_id"`
	MQID      string `json:"mq_id"`
	// AttemptNumber is optional; when zero the server issues the next
	// number for (student_id, mq_id).
	AttemptNumber int           `json:"attempt_number,omitempty"`
	Attempts      []ItemAttempt `json:"attempts"`
}

// ItemResult is the graded outcome of one item.
type ItemResult struct {
	ItemID       string      `json:"item_id"`
	Correct      bool        `json:"correct"`
	MarksAwarded int         `json:"marks_awarded"`
	Expected     interface{} `json:"expected"`
	Feedback     string      `json:"feedback,omitempty"`
	LOIDs        []int       `json:"lo_ids"`
	ErrorClass   string      `json:"error_class,omitempty"`
}

// SubmitResult is the response to a graded submission.
type SubmitResult struct {
	SessionID     string       `json:"session_id"`
	MQID          string       `json:"mq_id"`
	AttemptNumber int          `json:"attempt_number"`
	Results       []ItemResult `json:"results"`
	TotalAwarded  int          `json:"total_awarded"`
	TotalPossible int          `json:"total_possible"`
}
