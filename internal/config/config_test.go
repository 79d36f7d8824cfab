package config

import (
	"os"
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"single origin", "http://localhost:5173", []string{"http://localhost:5173"}},
		{"multiple with spaces", "a, b ,c", []string{"a", "b", "c"}},
		{"empty entries dropped", "a,,b,", []string{"a", "b"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := splitAndTrim(tc.input)
			if len(result) != len(tc.expected) {
				t.Fatalf("Expected %d entries, got %d", len(tc.expected), len(result))
			}
			for i := range result {
				if result[i] != tc.expected[i] {
					t.Errorf("Entry %d: expected %q, got %q", i, tc.expected[i], result[i])
				}
			}
		})
	}
}

func TestLoad_MissingKeyDoesNotPanic(t *testing.T) {
	os.Unsetenv("GEMINI_API_KEY")

	cfg := Load()
	if cfg.GeminiAPIKey != "" {
		t.Errorf("expected empty API key, got %q", cfg.GeminiAPIKey)
	}
	if cfg.GeminiModel == "" {
		t.Error("expected a default generation model name")
	}
	if cfg.Port == "" {
		t.Error("expected a default port")
	}
}
