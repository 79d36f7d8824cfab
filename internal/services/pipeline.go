package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"courseforge-backend/internal/models"
)

// Output-token ceilings per pass. The full-course pass gets the largest
// budget because lesson bodies dominate response size; the quiz pass runs
// against a stripped outline and stays small. The focused flow produces
// course and quiz together but scopes to a narrower remediation subset.
const (
	courseTokenBudget   = 12000
	quizTokenBudget     = 5000
	focusedTokenBudget  = 15000
	analysisTokenBudget = 1000
)

// ModelInvoker is the single seam between the orchestrator and the remote
// model; tests substitute a stub.
type ModelInvoker interface {
	Invoke(ctx context.Context, model, prompt string, maxOutputTokens int, wantsJSONObject bool) (string, error)
}

// Pipeline sequences model calls into complete courses. It holds no
// per-request state: every method is an independent, stateless flow, and a
// failure at any stage aborts the whole flow with no partial result and no
// retry.
type Pipeline struct {
	invoker      ModelInvoker
	defaultModel string
	norm         *Normalizer
}

func NewPipeline(invoker ModelInvoker, defaultModel string, norm *Normalizer) *Pipeline {
	return &Pipeline{
		invoker:      invoker,
		defaultModel: defaultModel,
		norm:         norm,
	}
}

func (p *Pipeline) model(override string) string {
	if override != "" {
		return override
	}
	return p.defaultModel
}

// GenerateCourse is the two-pass flow: pass 1 asks for the course body with
// the quiz explicitly excluded, pass 2 asks for the quiz against a stripped
// outline. One request for word-count-heavy lessons plus a full quiz risks
// blowing the output ceiling and coming back as truncated, unparsable JSON;
// splitting bounds each response independently.
func (p *Pipeline) GenerateCourse(ctx context.Context, sourceText string, settings models.GenerateSettings, modelOverride string) (models.Course, error) {
	model := p.model(modelOverride)

	// Pass 1: course body only.
	raw, err := p.invoker.Invoke(ctx, model, buildCoursePrompt(sourceText, settings), courseTokenBudget, true)
	if err != nil {
		return models.Course{}, err
	}

	courseObj, err := ExtractJSONObject(raw)
	if err != nil {
		return models.Course{}, err
	}
	if _, ok := courseObj["units"].([]interface{}); !ok {
		return models.Course{}, &MalformedOutputError{Message: "model output did not contain course units"}
	}

	// Pass 2: quiz only, against the stripped outline.
	outlineJSON, err := json.Marshal(courseOutline(courseObj))
	if err != nil {
		return models.Course{}, err
	}

	raw, err = p.invoker.Invoke(ctx, model, buildQuizPrompt(string(outlineJSON), settings), quizTokenBudget, true)
	if err != nil {
		return models.Course{}, err
	}

	quizObj, err := ExtractJSONObject(raw)
	if err != nil {
		return models.Course{}, err
	}

	// Merge as-is; question count and shape are the normalizer's problem.
	courseObj["finalTest"] = quizObj["finalTest"]

	return p.norm.Normalize(courseObj), nil
}

// FocusedCourse is the single-pass remediation flow: outline plus wrong
// answers in, narrower course plus quiz out.
func (p *Pipeline) FocusedCourse(ctx context.Context, req models.FocusedCourseRequest) (models.Course, error) {
	fields := make(map[string]string)
	if req.OriginalCourse == nil {
		fields["originalCourse"] = "Original course outline is required"
	}
	if len(req.WrongAnswers) == 0 {
		fields["wrongAnswers"] = "wrongAnswers must be a non-empty array"
	}
	if len(fields) > 0 {
		return models.Course{}, &ValidationError{Fields: fields}
	}

	outlineJSON, err := json.Marshal(courseOutline(req.OriginalCourse))
	if err != nil {
		return models.Course{}, err
	}
	wrongJSON, err := json.Marshal(req.WrongAnswers)
	if err != nil {
		return models.Course{}, err
	}

	prompt := buildFocusedPrompt(string(outlineJSON), string(wrongJSON), req.Analysis, req.SourceText, req.Settings)

	raw, err := p.invoker.Invoke(ctx, p.model(req.Model), prompt, focusedTokenBudget, true)
	if err != nil {
		return models.Course{}, err
	}

	courseObj, err := ExtractJSONObject(raw)
	if err != nil {
		return models.Course{}, err
	}

	return p.norm.Normalize(courseObj), nil
}

// AnalyzeResults turns quiz results into a short free-text weak-area
// analysis. Plain text by design: no JSON mode, no extraction stage.
func (p *Pipeline) AnalyzeResults(ctx context.Context, req models.AnalyzeResultsRequest) (string, error) {
	if req.WrongAnswers == nil {
		return "", &ValidationError{Fields: map[string]string{
			"wrongAnswers": "wrongAnswers must be an array",
		}}
	}

	wrongJSON, err := json.Marshal(req.WrongAnswers)
	if err != nil {
		return "", err
	}

	prompt := buildAnalysisPrompt(req.CourseTitle, req.Score, string(wrongJSON))

	raw, err := p.invoker.Invoke(ctx, p.model(req.Model), prompt, analysisTokenBudget, false)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(raw), nil
}

// courseOutline strips a course down to titles and ids (unit descriptions
// kept, lesson bodies and key points dropped) so the downstream prompt
// stays small.
func courseOutline(course map[string]interface{}) map[string]interface{} {
	outline := map[string]interface{}{
		"courseTitle":       stringOr(course["courseTitle"], ""),
		"courseDescription": stringOr(course["courseDescription"], ""),
	}

	units := []interface{}{}
	for i, raw := range sliceOf(course["units"]) {
		unit := mapOf(raw)
		lessons := []interface{}{}
		for j, lraw := range sliceOf(unit["lessons"]) {
			lesson := mapOf(lraw)
			lessons = append(lessons, map[string]interface{}{
				"id":    stringOr(lesson["id"], fmt.Sprintf("u%dl%d", i+1, j+1)),
				"title": stringOr(lesson["title"], ""),
			})
		}
		units = append(units, map[string]interface{}{
			"id":          stringOr(unit["id"], fmt.Sprintf("u%d", i+1)),
			"title":       stringOr(unit["title"], ""),
			"description": stringOr(unit["description"], ""),
			"lessons":     lessons,
		})
	}
	outline["units"] = units

	return outline
}
