package services

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"courseforge-backend/internal/models"
)

func TestBuildCoursePrompt_RulesAndDefaults(t *testing.T) {
	prompt := buildCoursePrompt("algebra syllabus", models.GenerateSettings{})

	for _, want := range []string{
		"courseTitle", "keyPoints", "algebra syllabus",
		fmt.Sprintf("at least %d words", defaultLessonWordsFull),
		"Do NOT include a quiz",
		"only JSON",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("course prompt missing %q", want)
		}
	}
}

func TestBuildCoursePrompt_CustomWordTarget(t *testing.T) {
	prompt := buildCoursePrompt("s", models.GenerateSettings{MinimumLessonWords: 500})
	if !strings.Contains(prompt, "at least 500 words") {
		t.Error("expected custom minimum word count in prompt")
	}
}

func TestBuildCoursePrompt_TruncatesSource(t *testing.T) {
	long := strings.Repeat("x", maxSyllabusChars+5000)
	prompt := buildCoursePrompt(long, models.GenerateSettings{})

	if strings.Contains(prompt, strings.Repeat("x", maxSyllabusChars+1)) {
		t.Error("source text was not truncated to the character budget")
	}
	if !strings.Contains(prompt, strings.Repeat("x", maxSyllabusChars)) {
		t.Error("truncation cut more than the budget")
	}
}

func TestTruncateForPrompt_RuneBoundary(t *testing.T) {
	tests := []struct {
		name string
		s    string
		max  int
		want string
	}{
		{"short string untouched", "abc", 10, "abc"},
		{"ascii cut at budget", "abcdef", 4, "abcd"},
		{"multi-byte rune not split", "日本語", 4, "日"},
		{"cut on exact rune boundary", "日本語", 6, "日本"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := truncateForPrompt(tc.s, tc.max)
			if got != tc.want {
				t.Errorf("truncateForPrompt(%q, %d) = %q, want %q", tc.s, tc.max, got, tc.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncated string is not valid UTF-8: %q", got)
			}
		})
	}
}

func TestBuildQuizPrompt(t *testing.T) {
	prompt := buildQuizPrompt(`{"courseTitle":"T"}`, models.GenerateSettings{QuizCountTarget: 12})

	for _, want := range []string{
		"exactly 12 multiple-choice questions",
		"exactly 4 options",
		"0-indexed",
		"Distribute correct answers evenly",
		"correctAnswer",
		`{"courseTitle":"T"}`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("quiz prompt missing %q", want)
		}
	}
}

func TestBuildQuizPrompt_DefaultCount(t *testing.T) {
	prompt := buildQuizPrompt("{}", models.GenerateSettings{})
	if !strings.Contains(prompt, fmt.Sprintf("exactly %d multiple-choice", defaultQuizCountFull)) {
		t.Error("expected default quiz count in prompt")
	}
}

func TestBuildAnalysisPrompt(t *testing.T) {
	prompt := buildAnalysisPrompt("Chemistry 101",
		models.TestScore{Pct: 75, Correct: 15, Total: 20},
		`[{"question":"Q"}]`)

	for _, want := range []string{"Chemistry 101", "75%", "15 of 20", "weak areas", "under 250 words"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("analysis prompt missing %q", want)
		}
	}
}

func TestBuildFocusedPrompt_OptionalSections(t *testing.T) {
	with := buildFocusedPrompt("{}", "[]", "prior analysis here", "original source", models.GenerateSettings{})
	if !strings.Contains(with, "prior analysis here") || !strings.Contains(with, "original source") {
		t.Error("optional sections missing when provided")
	}

	without := buildFocusedPrompt("{}", "[]", "", "", models.GenerateSettings{})
	if strings.Contains(without, "PRIOR ANALYSIS") || strings.Contains(without, "ORIGINAL SOURCE MATERIAL") {
		t.Error("optional section headers present when context absent")
	}

	if !strings.Contains(without, fmt.Sprintf("at least %d words", defaultLessonWordsFocused)) {
		t.Error("focused flow should default to its own word target")
	}
	if !strings.Contains(without, fmt.Sprintf("exactly %d multiple-choice", defaultQuizCountFocused)) {
		t.Error("focused flow should default to its own quiz count")
	}
}
