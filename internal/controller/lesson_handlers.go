package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nvoronova/tutor_crm/internal/model"
	"github.com/nvoronova/tutor_crm/internal/schedule"
	"github.com/nvoronova/tutor_crm/internal/service"
)

func (s *Server) handleCreateBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkCreateRequest
	if !s.readJSON(w, r, &req) {
		return
	}

	startDate, err := parseTimeParam(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_date must be an ISO date")
		return
	}

	// Дефолты как в форме создания: нумерация с 1, занятие на час
	if req.FirstLessonNumber == 0 {
		req.FirstLessonNumber = 1
	}
	if req.Duration == 0 {
		req.Duration = 60
	}

	lessons, err := s.lessonService.CreateSeries(r.Context(), userIDFromContext(r.Context()), schedule.SeriesRequest{
		StudentName:       req.StudentName,
		ParentName:        req.ParentName,
		StudentPhone:      req.StudentPhone,
		ParentPhone:       req.ParentPhone,
		CourseName:        req.CourseName,
		FirstLessonNumber: req.FirstLessonNumber,
		Duration:          req.Duration,
		Slots:             req.Slots,
		StartDate:         schedule.WeekStart(startDate),
		Occurrences:       req.Occurrences,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, lessons)
}

func (s *Server) handleListLessons(w http.ResponseWriter, r *http.Request) {
	start, err := parseTimeParam(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "start is required and must be an ISO datetime")
		return
	}
	end, err := parseTimeParam(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "end is required and must be an ISO datetime")
		return
	}

	lessons, err := s.lessonService.GetLessons(r.Context(), userIDFromContext(r.Context()), start, end)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if lessons == nil {
		lessons = []*model.Lesson{}
	}

	writeJSON(w, http.StatusOK, lessons)
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	start, err := parseTimeParam(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "start is required and must be an ISO datetime")
		return
	}
	weekStart := schedule.WeekStart(start)

	grid, err := s.lessonService.BucketWeek(r.Context(), userIDFromContext(r.Context()), weekStart)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	resp := gridResponse{
		WeekStart: weekStart.Format(time.RFC3339),
		HourFrom:  grid.HourFrom,
		HourTo:    grid.HourTo,
		Cells:     []gridCellResponse{},
	}
	for _, cell := range grid.SortedCells() {
		resp.Cells = append(resp.Cells, gridCellResponse{
			Day:     cell.Day,
			Hour:    cell.Hour,
			Lessons: grid.Cells[cell],
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := lessonIDParam(w, r)
	if !ok {
		return
	}

	lesson, err := s.lessonService.GetLesson(r.Context(), userIDFromContext(r.Context()), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lesson)
}

func (s *Server) handleUpdateLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := lessonIDParam(w, r)
	if !ok {
		return
	}

	var req lessonPatchRequest
	if !s.readJSON(w, r, &req) {
		return
	}

	lesson, err := s.lessonService.UpdateLesson(r.Context(), userIDFromContext(r.Context()), id, &model.LessonPatch{
		StudentName:  req.StudentName,
		ParentName:   req.ParentName,
		StudentPhone: req.StudentPhone,
		ParentPhone:  req.ParentPhone,
		CourseName:   req.CourseName,
		Description:  req.Description,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lesson)
}

func (s *Server) handleDeleteLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := lessonIDParam(w, r)
	if !ok {
		return
	}

	if err := s.lessonService.DeleteLesson(r.Context(), userIDFromContext(r.Context()), id); err != nil {
		s.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteSeries(w http.ResponseWriter, r *http.Request) {
	id, ok := lessonIDParam(w, r)
	if !ok {
		return
	}

	scope := service.ScopeSlot
	switch r.URL.Query().Get("scope") {
	case "", "slot":
	case "group":
		scope = service.ScopeGroup
	default:
		writeError(w, http.StatusBadRequest, "scope must be 'slot' or 'group'")
		return
	}

	if err := s.lessonService.DeleteSeries(r.Context(), userIDFromContext(r.Context()), id, scope); err != nil {
		s.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func lessonIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lesson id must be an integer")
		return 0, false
	}
	return id, true
}
