package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-pro"

// gradeSeed pins sampling for grading calls so repeated grading of the
// same answer tends to agree.
const gradeSeed int32 = 42424242

const gradeSystemInstruction = `You are a strict but fair teaching assistant for an OO design-patterns module (Factory Method focus). You grade very short student answers to micro-quiz questions.

You will receive the question prompt, the maximum points for this item (max_points), a short expected answer or memo snippet, and the student's answer.

Rules:
- Treat the expected answer as the gold standard.
- Award full marks when the student's answer captures the same idea, even if wording differs or uses correct synonyms.
- Award partial marks only if the student shows some correct understanding.
- Award 0 if the answer is irrelevant, fundamentally incorrect, or blank.
- Never exceed max_points. Do not talk about learning outcome numbers or internal error tags.
- Respond ONLY with a compact JSON object of the form {"score": number, "reasons": string, "advice": string} with no extra keys or prose.`

type GeminiConfig struct {
	APIKey      string
	Model       string
	Timeout     time.Duration // per-call bound; zero means 20s
	Temperature float64
	TopP        float64
}

// GeminiGrader implements Grader over the Google Gemini SDK.
type GeminiGrader struct {
	client *genai.Client
	cfg    GeminiConfig
}

func NewGeminiGrader(ctx context.Context, cfg GeminiConfig) (*GeminiGrader, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 1.0
	}
	if cfg.TopP == 0 {
		cfg.TopP = 0.95
	}
	return &GeminiGrader{client: client, cfg: cfg}, nil
}

func (g *GeminiGrader) Grade(ctx context.Context, req GradeRequest) Outcome {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	student := strings.TrimSpace(req.StudentText)
	if student == "" {
		student = "[BLANK]"
	}
	lines := []string{
		"Question: " + req.Prompt,
		fmt.Sprintf("Max points (max_points): %d", req.MaxPoints),
		"Expected answer or memo snippet: " + req.Rubric,
		"Student answer: " + student,
	}
	if req.ErrorHint != "" {
		lines = append(lines, "Internal error tag (for your reasoning only, do not echo verbatim): "+req.ErrorHint)
	}

	seed := gradeSeed
	temp := float32(g.cfg.Temperature)
	topP := float32(g.cfg.TopP)
	config := &genai.GenerateContentConfig{
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   256,
		ResponseMIMEType:  "application/json",
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: gradeSystemInstruction}}},
		Seed:              &seed,
	}
	contents := []*genai.Content{{Role: "user", Parts: textParts(lines)}}

	result, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, contents, config)
	if err != nil {
		return Unavailable(err.Error())
	}

	var parsed struct {
		Score   json.Number `json:"score"`
		Reasons string      `json:"reasons"`
		Advice  string      `json:"advice"`
	}
	raw := result.Text()
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return Outcome{Status: StatusFailed, Reason: "malformed grading JSON: " + err.Error()}
	}

	score := 0
	if f, err := parsed.Score.Float64(); err == nil {
		score = int(math.Round(f))
	}
	if score < 0 {
		score = 0
	}
	if score > req.MaxPoints {
		score = req.MaxPoints
	}

	pieces := make([]string, 0, 2)
	if s := strings.TrimSpace(parsed.Reasons); s != "" {
		pieces = append(pieces, s)
	}
	if s := strings.TrimSpace(parsed.Advice); s != "" {
		pieces = append(pieces, s)
	}
	return Outcome{Status: StatusGraded, Score: score, Feedback: strings.Join(pieces, "\n")}
}

func (g *GeminiGrader) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	temp := float32(req.Temperature)
	topP := float32(req.TopP)
	if topP == 0 {
		topP = float32(g.cfg.TopP)
	}
	maxTokens := int32(req.MaxOutputTokens)
	if maxTokens == 0 {
		maxTokens = 1024
	}
	config := &genai.GenerateContentConfig{
		Temperature:     &temp,
		TopP:            &topP,
		MaxOutputTokens: maxTokens,
	}
	if req.JSONMode {
		config.ResponseMIMEType = "application/json"
	}
	if req.Instruction != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.Instruction}}}
	}
	contents := []*genai.Content{{Role: "user", Parts: textParts(req.Texts)}}

	result, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return result.Text(), nil
}

func textParts(texts []string) []*genai.Part {
	parts := make([]*genai.Part, 0, len(texts))
	for _, t := range texts {
		if t == "" {
			continue
		}
		parts = append(parts, &genai.Part{Text: t})
	}
	return parts
}
