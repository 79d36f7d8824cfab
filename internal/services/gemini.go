package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiService wraps calls to the remote generation endpoint. One outbound
// call per invocation, no retries: a failed pass fails the caller's whole
// flow.
type GeminiService struct {
	client *genai.Client
}

// NewGeminiService builds the client. An empty API key is not a startup
// error; the service comes up disabled and every invocation fails with a
// ConfigError before any network call is attempted.
func NewGeminiService(apiKey string) (*GeminiService, error) {
	if apiKey == "" {
		log.Println("WARNING: GEMINI_API_KEY not set; generation endpoints will return errors")
		return &GeminiService{}, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiService{client: client}, nil
}

func (s *GeminiService) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

func (s *GeminiService) disabled() bool {
	return s.client == nil
}

// Invoke sends one prompt to the named model under a hard output-token
// ceiling. When wantsJSONObject is set, the model is asked for a JSON MIME
// response; that improves but does not guarantee valid JSON, so callers
// still run the output through the lenient extractor.
func (s *GeminiService) Invoke(ctx context.Context, modelName, prompt string, maxOutputTokens int, wantsJSONObject bool) (string, error) {
	if s.disabled() {
		return "", &ConfigError{Message: "GEMINI_API_KEY is not configured; set it in the environment to enable generation"}
	}

	model := s.client.GenerativeModel(modelName)
	model.SetTemperature(0.3)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(int32(maxOutputTokens))
	if wantsJSONObject {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", upstreamError(err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			log.Printf("Gemini candidate %d stopped early: %s", i, cand.FinishReason)
		}
	}

	return extractText(resp), nil
}

// InvokeVision is the OCR pass-through: one image plus an instruction, one
// call, plain text back.
func (s *GeminiService) InvokeVision(ctx context.Context, modelName, instruction string, image []byte, imageFormat string, maxOutputTokens int) (string, error) {
	if s.disabled() {
		return "", &ConfigError{Message: "GEMINI_API_KEY is not configured; set it in the environment to enable OCR"}
	}

	model := s.client.GenerativeModel(modelName)
	model.SetTemperature(0.1)
	model.SetMaxOutputTokens(int32(maxOutputTokens))

	resp, err := model.GenerateContent(ctx,
		genai.ImageData(imageFormat, image),
		genai.Text(instruction),
	)
	if err != nil {
		return "", upstreamError(err)
	}

	return strings.TrimSpace(extractText(resp)), nil
}

// extractText concatenates every text part across candidates in document
// order into one string.
func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

// upstreamError maps transport failures to the error taxonomy, passing the
// upstream-provided message through when the API supplied one.
func upstreamError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		msg := gerr.Message
		if msg == "" {
			msg = fmt.Sprintf("model endpoint returned status %d", gerr.Code)
		}
		return &UpstreamError{StatusCode: gerr.Code, Message: msg}
	}
	return &UpstreamError{Message: fmt.Sprintf("model request failed: %v", err)}
}
