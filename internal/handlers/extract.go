package handlers

import (
	"io"
	"net/http"

	"courseforge-backend/internal/services"
)

const maxUploadBytes = 25 * 1024 * 1024 // 25MB

type ExtractHandler struct {
	extract *services.FileExtractService
}

func NewExtractHandler(extract *services.FileExtractService) *ExtractHandler {
	return &ExtractHandler{extract: extract}
}

// Upload extracts plain text from a syllabus document (pdf/docx/txt)
// locally, without involving the model.
func (h *ExtractHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No file provided", r))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "File exceeds the 25MB limit", r))
		return
	}

	text, err := h.extract.ExtractText(data, header.Filename)
	if err != nil {
		if _, ok := err.(*services.ValidationError); ok {
			handleServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("EXTRACTION_FAILED", err.Error(), r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"filename": header.Filename,
		"text":     text,
	})
}
