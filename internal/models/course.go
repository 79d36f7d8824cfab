package models

import "time"

// Course is the canonical shape returned by the generation pipeline after
// normalization. Units and FinalTest.Questions are always non-nil so the
// serialized JSON carries arrays, never null.
type Course struct {
	ID                string     `json:"id,omitempty"`
	CourseTitle       string     `json:"courseTitle"`
	CourseDescription string     `json:"courseDescription"`
	Units             []Unit     `json:"units"`
	FinalTest         FinalTest  `json:"finalTest"`
	CreatedAt         *time.Time `json:"createdAt,omitempty"`
	SourceText        string     `json:"sourceText,omitempty"`
}

type Unit struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Lessons     []Lesson `json:"lessons"`
}

type Lesson struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	KeyPoints []string `json:"keyPoints"`
}

type FinalTest struct {
	Questions []Question `json:"questions"`
}

// Question always carries exactly 4 options and a CorrectAnswer in [0,3]
// once it has been through the normalizer.
type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// GenerateSettings are the caller-tunable knobs recognized by the prompt
// builders. Zero values fall back to per-flow defaults.
type GenerateSettings struct {
	MinimumLessonWords int `json:"minimumLessonWords"`
	QuizCountTarget    int `json:"quizCountTarget"`
}

// WrongAnswer is one incorrect response from a completed final test.
type WrongAnswer struct {
	Question       string `json:"question"`
	SelectedAnswer string `json:"selectedAnswer"`
	CorrectAnswer  string `json:"correctAnswer"`
	UnitTitle      string `json:"unitTitle,omitempty"`
}

type TestScore struct {
	Pct     float64 `json:"pct"`
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
}

type GenerateCourseRequest struct {
	Text     string           `json:"text"`
	Settings GenerateSettings `json:"settings"`
	Model    string           `json:"model"`
}

type AnalyzeResultsRequest struct {
	CourseTitle  string        `json:"courseTitle"`
	Score        TestScore     `json:"score"`
	WrongAnswers []WrongAnswer `json:"wrongAnswers"`
	Model        string        `json:"model"`
}

type FocusedCourseRequest struct {
	OriginalCourse map[string]interface{} `json:"originalCourse"`
	WrongAnswers   []WrongAnswer          `json:"wrongAnswers"`
	Analysis       string                 `json:"analysis"`
	SourceText     string                 `json:"sourceText"`
	Settings       GenerateSettings       `json:"settings"`
	Model          string                 `json:"model"`
}

type OCRRequest struct {
	ImageData string `json:"imageData"`
	Prompt    string `json:"prompt"`
	Model     string `json:"model"`
}
