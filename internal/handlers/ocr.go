package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"courseforge-backend/internal/models"
	"courseforge-backend/internal/services"
)

const defaultOCRInstruction = "Extract all text visible in this image. Return the text content only, in reading order, with no commentary."

const ocrTokenBudget = 4096

type OCRHandler struct {
	gemini       *services.GeminiService
	defaultModel string
}

func NewOCRHandler(gemini *services.GeminiService, defaultModel string) *OCRHandler {
	return &OCRHandler{gemini: gemini, defaultModel: defaultModel}
}

// Extract is a pass-through: one vision-model call, extracted text back.
func (h *OCRHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var req models.OCRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.ImageData == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"imageData": "Base64 image data is required"}, r))
		return
	}

	image, format, err := decodeImage(req.ImageData)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"imageData": "Image data is not valid base64"}, r))
		return
	}

	instruction := req.Prompt
	if instruction == "" {
		instruction = defaultOCRInstruction
	}
	model := req.Model
	if model == "" {
		model = h.defaultModel
	}

	text, err := h.gemini.InvokeVision(r.Context(), model, instruction, image, format, ocrTokenBudget)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

// decodeImage accepts either a data URI ("data:image/png;base64,...") or a
// bare base64 string, and reports the image format the vision API expects.
func decodeImage(data string) ([]byte, string, error) {
	format := "jpeg"

	if strings.HasPrefix(data, "data:") {
		if idx := strings.Index(data, ";base64,"); idx > 0 {
			mime := data[len("data:"):idx]
			if f, ok := strings.CutPrefix(mime, "image/"); ok {
				format = f
			}
			data = data[idx+len(";base64,"):]
		}
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", err
	}

	// Prefer the sniffed type over the declared one when it is an image.
	if f, ok := strings.CutPrefix(http.DetectContentType(decoded), "image/"); ok {
		format = f
	}

	return decoded, format, nil
}
