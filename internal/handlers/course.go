package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"courseforge-backend/internal/models"
	"courseforge-backend/internal/services"
)

type CourseHandler struct {
	pipeline *services.Pipeline
}

func NewCourseHandler(pipeline *services.Pipeline) *CourseHandler {
	return &CourseHandler{pipeline: pipeline}
}

// Generate runs the two-pass flow: course body, then quiz, merged and
// normalized. Any stage failure fails the whole request.
func (h *CourseHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"text": "Syllabus text is required"}, r))
		return
	}

	course, err := h.pipeline.GenerateCourse(r.Context(), req.Text, req.Settings, req.Model)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	stampCourse(&course, req.Text)
	writeJSON(w, http.StatusOK, course)
}

func (h *CourseHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeResultsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	analysis, err := h.pipeline.AnalyzeResults(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"analysis": analysis})
}

func (h *CourseHandler) Focused(w http.ResponseWriter, r *http.Request) {
	var req models.FocusedCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	course, err := h.pipeline.FocusedCourse(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	stampCourse(&course, req.SourceText)
	writeJSON(w, http.StatusOK, course)
}

// stampCourse assigns the identity fields the pipeline deliberately leaves
// blank: they belong to the created course, not to generation.
func stampCourse(course *models.Course, sourceText string) {
	now := time.Now()
	course.ID = uuid.New().String()
	course.CreatedAt = &now
	course.SourceText = sourceText
}
