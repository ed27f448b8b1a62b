package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nvoronova/tutor_crm/internal/schedule"
	"github.com/nvoronova/tutor_crm/internal/service"
)

// Server — HTTP-контроллер поверх сервисов аутентификации и занятий
type Server struct {
	authService   *service.AuthService
	lessonService *service.LessonService
	jwtSecret     string
	validate      *validator.Validate
	logger        *zap.Logger
}

func NewServer(authService *service.AuthService, lessonService *service.LessonService, jwtSecret string, logger *zap.Logger) *Server {
	return &Server{
		authService:   authService,
		lessonService: lessonService,
		jwtSecret:     jwtSecret,
		validate:      validator.New(),
		logger:        logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestMetrics)

	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.With(s.authenticate).Get("/me", s.handleMe)
	})

	r.Route("/api/lessons", func(r chi.Router) {
		r.Use(s.authenticate)
		r.Post("/bulk", s.handleCreateBulk)
		r.Get("/", s.handleListLessons)
		r.Get("/grid", s.handleGrid)
		r.Get("/{id}", s.handleGetLesson)
		r.Patch("/{id}", s.handleUpdateLesson)
		r.Delete("/{id}", s.handleDeleteLesson)
		r.Delete("/{id}/series", s.handleDeleteSeries)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError отдаёт тело ошибки в формате {"detail": ...}
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// writeServiceError переводит типизированные ошибки сервисов в HTTP-статусы
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *schedule.ValidationError
	var notFoundErr *service.NotFoundError
	var partialErr *service.PartialDeletionError
	var persistenceErr *service.PersistenceError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, "Lesson not found")
	case errors.As(err, &partialErr):
		writeError(w, http.StatusConflict, partialErr.Error())
	case errors.As(err, &persistenceErr):
		s.logger.Error("persistence failure", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "storage failure")
	case errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrPasswordTooShort):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		s.logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseTimeParam принимает и полный timestamp, и голую дату
func parseTimeParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
