package http

import (
	"encoding/json"
	"net/http"

	"github.com/pattern-classroom/quizsvc/internal/ai"
)

type generateReq struct {
	Instruction     string   `json:"instruction"`
	Texts           []string `json:"texts"`
	JSONMode        bool     `json:"json_mode,omitempty"`
	Temperature     float64  `json:"temperature,omitempty"`
	TopP            float64  `json:"top_p,omitempty"`
	MaxOutputTokens int      `json:"max_output_tokens,omitempty"`
}

type gradeReq struct {
	Rubric      string `json:"rubric"`
	StudentText string `json:"student_text"`
	MaxPoints   int    `json:"max_points"`
}

// GET /ai/health — reports whether a grading adapter is configured, so
// offline deployments answer false instead of 404.
func AIHealthHandler(grader ai.Grader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]bool{"ok": grader != nil})
	}
}

// POST /ai/generate — free-form generation for feedback copy; never scores.
func AIGenerateHandler(grader ai.Grader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if grader == nil {
			http.Error(w, "ai generation disabled", http.StatusServiceUnavailable)
			return
		}
		var req generateReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.Instruction == "" && len(req.Texts) == 0 {
			http.Error(w, "instruction or texts required", http.StatusBadRequest)
			return
		}
		text, err := grader.Generate(r.Context(), ai.GenerateRequest{
			Instruction:     req.Instruction,
			Texts:           req.Texts,
			JSONMode:        req.JSONMode,
			Temperature:     req.Temperature,
			TopP:            req.TopP,
			MaxOutputTokens: req.MaxOutputTokens,
		})
		if err != nil {
			http.Error(w, "generate: "+err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, map[string]interface{}{"ok": true, "text": text})
	}
}

// POST /ai/grade — rubric scoring with the adapter's explicit outcome
// surfaced verbatim, so callers see Unavailable/Failed rather than a 5xx.
func AIGradeHandler(grader ai.Grader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gradeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.Rubric == "" {
			http.Error(w, "rubric required", http.StatusBadRequest)
			return
		}
		if req.MaxPoints <= 0 {
			req.MaxPoints = 1
		}
		if grader == nil {
			writeJSON(w, map[string]interface{}{"ok": false, "status": "unavailable", "reason": "ai grading disabled"})
			return
		}
		out := grader.Grade(r.Context(), ai.GradeRequest{
			Rubric:      req.Rubric,
			StudentText: req.StudentText,
			MaxPoints:   req.MaxPoints,
		})
		switch out.Status {
		case ai.StatusGraded:
			writeJSON(w, map[string]interface{}{
				"ok":       true,
				"score":    out.Score,
				"feedback": out.Feedback,
			})
		case ai.StatusUnavailable:
			writeJSON(w, map[string]interface{}{"ok": false, "status": "unavailable", "reason": out.Reason})
		default:
			writeJSON(w, map[string]interface{}{"ok": false, "status": "failed", "reason": out.Reason})
		}
	}
}
