package services

import (
	"context"
	"testing"

	"courseforge-backend/internal/models"
)

// With no credential, every generation-family call must fail before any
// network activity.

func TestInvoke_MissingCredential(t *testing.T) {
	svc, err := NewGeminiService("")
	if err != nil {
		t.Fatalf("a missing key must not fail construction: %v", err)
	}

	_, err = svc.Invoke(context.Background(), "any-model", "prompt", 100, true)
	cerr, ok := err.(*ConfigError)
	if !ok {
		t.Fatalf("expected ConfigError, got %T", err)
	}
	if cerr.Message == "" {
		t.Error("ConfigError should carry a remediation hint")
	}
}

func TestInvokeVision_MissingCredential(t *testing.T) {
	svc, _ := NewGeminiService("")

	_, err := svc.InvokeVision(context.Background(), "any-model", "read this", []byte{0x89}, "png", 100)
	if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("expected ConfigError, got %T", err)
	}
}

func TestPipelineWithMissingCredential(t *testing.T) {
	svc, _ := NewGeminiService("")
	p := NewPipeline(svc, "default-model", NewNormalizer(nil))

	if _, err := p.GenerateCourse(context.Background(), "syllabus", models.GenerateSettings{}, ""); err == nil {
		t.Fatal("expected ConfigError from generate flow")
	} else if _, ok := err.(*ConfigError); !ok {
		t.Errorf("expected ConfigError, got %T", err)
	}
}
