package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"courseforge-backend/internal/models"
)

// Prompt builders are pure: structured context in, one instruction string
// out. Embedded context is cut at a fixed character budget so request size
// stays bounded no matter what the caller uploads.

const (
	// maxSyllabusChars bounds how much raw source text is embedded in a
	// prompt. A fixed cut is deterministic and reproducible, unlike
	// adaptive summarization.
	maxSyllabusChars = 15000

	defaultLessonWordsFull    = 300
	defaultLessonWordsFocused = 450
	defaultQuizCountFull      = 20
	defaultQuizCountFocused   = 18
)

const courseSkeleton = `{
  "courseTitle": "string",
  "courseDescription": "string",
  "units": [
    {
      "id": "u1",
      "title": "string",
      "description": "string",
      "lessons": [
        {
          "id": "u1l1",
          "title": "string",
          "content": "string",
          "keyPoints": ["string"]
        }
      ]
    }
  ]
}`

const quizSkeleton = `{
  "finalTest": {
    "questions": [
      {
        "id": "q1",
        "question": "string",
        "options": ["string", "string", "string", "string"],
        "correctAnswer": 0,
        "explanation": "string"
      }
    ]
  }
}`

func buildCoursePrompt(sourceText string, settings models.GenerateSettings) string {
	minWords := settings.MinimumLessonWords
	if minWords <= 0 {
		minWords = defaultLessonWordsFull
	}

	var b strings.Builder

	b.WriteString("You are an expert curriculum designer. Build a complete structured course from the syllabus below.\n\n")
	b.WriteString("Return ONLY a valid JSON object matching exactly this schema. No preamble, no markdown, no backticks:\n")
	b.WriteString(courseSkeleton)
	b.WriteString("\n\nRules:\n")
	b.WriteString(fmt.Sprintf("- Every lesson's \"content\" must be at least %d words of substantive teaching material.\n", minWords))
	b.WriteString("- Cover the full syllabus: every topic it mentions must appear in some unit or lesson.\n")
	b.WriteString("- Each lesson includes 3 to 10 keyPoints.\n")
	b.WriteString("- Do NOT include a quiz or a finalTest field; the test is generated separately.\n")
	b.WriteString("- Return only JSON, no surrounding prose.\n")

	b.WriteString("\n---SYLLABUS START---\n")
	b.WriteString(truncateForPrompt(sourceText, maxSyllabusChars))
	b.WriteString("\n---SYLLABUS END---\n")

	return b.String()
}

func buildQuizPrompt(outlineJSON string, settings models.GenerateSettings) string {
	count := settings.QuizCountTarget
	if count <= 0 {
		count = defaultQuizCountFull
	}

	var b strings.Builder

	b.WriteString("You are an expert educational assessor. Write the final test for the course outlined below.\n\n")
	b.WriteString("Return ONLY a valid JSON object matching exactly this schema. No preamble, no markdown, no backticks:\n")
	b.WriteString(quizSkeleton)
	b.WriteString("\n\nRules:\n")
	b.WriteString(fmt.Sprintf("- Generate exactly %d multiple-choice questions.\n", count))
	b.WriteString("- Each question has exactly 4 options.\n")
	b.WriteString("- \"correctAnswer\" is the 0-indexed position of the right option.\n")
	b.WriteString("- Distribute correct answers evenly across positions 0-3; do not favor any slot.\n")
	b.WriteString("- Spread questions across all units of the outline.\n")
	b.WriteString("- Return only JSON, no surrounding prose.\n")

	b.WriteString("\n---COURSE OUTLINE---\n")
	b.WriteString(outlineJSON)
	b.WriteString("\n---END---\n")

	return b.String()
}

func buildAnalysisPrompt(courseTitle string, score models.TestScore, wrongAnswersJSON string) string {
	var b strings.Builder

	b.WriteString("You are a supportive tutor reviewing a student's final test results.\n\n")
	b.WriteString(fmt.Sprintf("Course: %s\n", courseTitle))
	b.WriteString(fmt.Sprintf("Score: %.0f%% (%d of %d correct)\n\n", score.Pct, score.Correct, score.Total))
	b.WriteString("Questions the student got wrong:\n")
	b.WriteString(wrongAnswersJSON)
	b.WriteString("\n\nWrite a short plain-text analysis with three parts: the weak areas these mistakes point to, ")
	b.WriteString("concrete recommendations for what to review, and one encouraging closing sentence. ")
	b.WriteString("Keep the whole response under 250 words. No markdown, no JSON.\n")

	return b.String()
}

func buildFocusedPrompt(outlineJSON, wrongAnswersJSON, analysis, sourceText string, settings models.GenerateSettings) string {
	minWords := settings.MinimumLessonWords
	if minWords <= 0 {
		minWords = defaultLessonWordsFocused
	}
	count := settings.QuizCountTarget
	if count <= 0 {
		count = defaultQuizCountFocused
	}

	var b strings.Builder

	b.WriteString("You are an expert remediation tutor. The student completed the course outlined below and missed the questions listed. ")
	b.WriteString("Build a NEW focused course that re-teaches exactly the concepts behind those mistakes.\n\n")
	b.WriteString("Return ONLY a valid JSON object combining this course schema:\n")
	b.WriteString(courseSkeleton)
	b.WriteString("\nwith this finalTest field added at the top level:\n")
	b.WriteString(quizSkeleton)
	b.WriteString("\n\nRules:\n")
	b.WriteString(fmt.Sprintf("- Every lesson's \"content\" must be at least %d words; go deeper than the original course did.\n", minWords))
	b.WriteString(fmt.Sprintf("- The finalTest has exactly %d multiple-choice questions, each with exactly 4 options.\n", count))
	b.WriteString("- \"correctAnswer\" is 0-indexed; distribute correct answers evenly across positions 0-3.\n")
	b.WriteString("- Only cover the weak concepts; do not re-teach material the student already got right.\n")
	b.WriteString("- Return only JSON, no surrounding prose.\n")

	b.WriteString("\n---ORIGINAL COURSE OUTLINE---\n")
	b.WriteString(outlineJSON)
	b.WriteString("\n---MISSED QUESTIONS---\n")
	b.WriteString(wrongAnswersJSON)

	if analysis != "" {
		b.WriteString("\n---PRIOR ANALYSIS---\n")
		b.WriteString(analysis)
	}
	if sourceText != "" {
		b.WriteString("\n---ORIGINAL SOURCE MATERIAL---\n")
		b.WriteString(truncateForPrompt(sourceText, maxSyllabusChars))
	}
	b.WriteString("\n---END---\n")

	return b.String()
}

// truncateForPrompt cuts s to at most max bytes without splitting a
// multi-byte rune at the boundary.
func truncateForPrompt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
