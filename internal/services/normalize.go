package services

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"courseforge-backend/internal/models"
)

const (
	placeholderTitle       = "Untitled Course"
	placeholderDescription = "No description available."
	maxKeyPoints           = 10
	optionCount            = 4
)

var optionPlaceholders = [optionCount]string{"Option A", "Option B", "Option C", "Option D"}

// Normalizer coerces loosely-shaped parsed JSON into the canonical course
// schema. It is total: any input shape comes out as a valid Course with
// defaulted fields, never a panic or an error.
//
// The random source drives the per-question option shuffle and is injected
// so tests can seed it. rand.Rand is not safe for concurrent use, hence the
// mutex.
type Normalizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewNormalizer(rng *rand.Rand) *Normalizer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Normalizer{rng: rng}
}

func (n *Normalizer) Normalize(parsed map[string]interface{}) models.Course {
	course := models.Course{
		CourseTitle:       stringOr(parsed["courseTitle"], placeholderTitle),
		CourseDescription: stringOr(parsed["courseDescription"], placeholderDescription),
		Units:             []models.Unit{},
		FinalTest:         models.FinalTest{Questions: []models.Question{}},
	}

	for i, raw := range sliceOf(parsed["units"]) {
		course.Units = append(course.Units, n.normalizeUnit(mapOf(raw), i))
	}

	if ft := mapOf(parsed["finalTest"]); ft != nil {
		for i, raw := range sliceOf(ft["questions"]) {
			course.FinalTest.Questions = append(course.FinalTest.Questions, n.normalizeQuestion(mapOf(raw), i))
		}
	}

	return course
}

func (n *Normalizer) normalizeUnit(unit map[string]interface{}, idx int) models.Unit {
	out := models.Unit{
		ID:          stringOr(unit["id"], fmt.Sprintf("u%d", idx+1)),
		Title:       stringOr(unit["title"], fmt.Sprintf("Unit %d", idx+1)),
		Description: stringOr(unit["description"], ""),
		Lessons:     []models.Lesson{},
	}

	for i, raw := range sliceOf(unit["lessons"]) {
		out.Lessons = append(out.Lessons, normalizeLesson(mapOf(raw), out.ID, i))
	}

	return out
}

func normalizeLesson(lesson map[string]interface{}, unitID string, idx int) models.Lesson {
	out := models.Lesson{
		ID:        stringOr(lesson["id"], fmt.Sprintf("%sl%d", unitID, idx+1)),
		Title:     stringOr(lesson["title"], fmt.Sprintf("Lesson %d", idx+1)),
		Content:   stringOr(lesson["content"], ""),
		KeyPoints: []string{},
	}

	for _, raw := range sliceOf(lesson["keyPoints"]) {
		if len(out.KeyPoints) >= maxKeyPoints {
			break
		}
		if kp := stringOr(raw, ""); kp != "" {
			out.KeyPoints = append(out.KeyPoints, kp)
		}
	}

	return out
}

func (n *Normalizer) normalizeQuestion(q map[string]interface{}, idx int) models.Question {
	out := models.Question{
		ID:          stringOr(q["id"], fmt.Sprintf("q%d", idx+1)),
		Question:    stringOr(q["question"], fmt.Sprintf("Question %d", idx+1)),
		Explanation: stringOr(q["explanation"], ""),
	}

	// Drop falsy option entries, then pad or cut to exactly 4. Each drop
	// below the answer index shifts it down so it keeps pointing at the
	// same text; a dropped answer entry falls back to 0.
	correct := intOr(q["correctAnswer"], 0)
	dropped := 0
	answerDropped := false

	options := make([]string, 0, optionCount)
	for i, raw := range sliceOf(q["options"]) {
		opt := stringOr(raw, "")
		if opt == "" {
			if i < correct {
				dropped++
			} else if i == correct {
				answerDropped = true
			}
			continue
		}
		if len(options) < optionCount {
			options = append(options, opt)
		}
	}
	for len(options) < optionCount {
		options = append(options, optionPlaceholders[len(options)])
	}

	correct -= dropped
	if answerDropped || correct < 0 || correct >= optionCount {
		correct = 0
	}

	out.Options, out.CorrectAnswer = n.shuffleOptions(options, correct)
	return out
}

// shuffleOptions runs a Fisher-Yates shuffle over the options, tracking
// which slot ends up holding the originally-correct text so the answer
// index can be rewritten. This removes model-induced bias toward any
// particular option position.
func (n *Normalizer) shuffleOptions(options []string, correct int) ([]string, int) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i := len(options) - 1; i > 0; i-- {
		j := n.rng.Intn(i + 1)
		options[i], options[j] = options[j], options[i]
		switch correct {
		case i:
			correct = j
		case j:
			correct = i
		}
	}

	return options, correct
}

// Loose-JSON accessors. Generated output is never trusted to carry the
// right types, so every read degrades to a default instead of failing.

func stringOr(v interface{}, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}

func intOr(v interface{}, def int) int {
	switch x := v.(type) {
	case float64:
		if x == math.Trunc(x) {
			return int(x)
		}
	case int:
		return x
	}
	return def
}

func sliceOf(v interface{}) []interface{} {
	s, _ := v.([]interface{})
	return s
}

func mapOf(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}
