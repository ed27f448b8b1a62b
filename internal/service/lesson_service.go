package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nvoronova/tutor_crm/internal/model"
	"github.com/nvoronova/tutor_crm/internal/schedule"
)

// SeriesScope определяет объём каскадного удаления
type SeriesScope string

const (
	// ScopeSlot — только трек одного еженедельного слота
	ScopeSlot SeriesScope = "slot"
	// ScopeGroup — все занятия одной bulk-заявки (все слоты ученика/курса)
	ScopeGroup SeriesScope = "group"
)

// LessonStore описывает операции хранилища, нужные сервису занятий
type LessonStore interface {
	CreateBulk(ctx context.Context, lessons []*model.Lesson) error
	GetByID(ctx context.Context, userID, id int64) (*model.Lesson, error)
	GetByRange(ctx context.Context, userID int64, from, to time.Time) ([]*model.Lesson, error)
	UpdateFields(ctx context.Context, userID, id int64, patch *model.LessonPatch) (*model.Lesson, error)
	DeleteByID(ctx context.Context, userID, id int64) (int64, error)
	ListIDsBySeries(ctx context.Context, userID int64, seriesID uuid.UUID) ([]int64, error)
	ListIDsByGroup(ctx context.Context, userID int64, groupID uuid.UUID) ([]int64, error)
	DeleteBySeries(ctx context.Context, userID int64, seriesID uuid.UUID) (int64, error)
	DeleteByGroup(ctx context.Context, userID int64, groupID uuid.UUID) (int64, error)
}

type LessonService struct {
	store    LessonStore
	hourFrom int
	hourTo   int
	logger   *zap.Logger
}

func NewLessonService(store LessonStore, hourFrom, hourTo int, logger *zap.Logger) *LessonService {
	return &LessonService{
		store:    store,
		hourFrom: hourFrom,
		hourTo:   hourTo,
		logger:   logger,
	}
}

// CreateSeries разворачивает заявку в серию занятий и атомарно сохраняет её
func (s *LessonService) CreateSeries(ctx context.Context, userID int64, req schedule.SeriesRequest) ([]*model.Lesson, error) {
	lessons, err := schedule.GenerateSeries(req)
	if err != nil {
		return nil, err
	}

	for _, lesson := range lessons {
		lesson.UserID = userID
	}

	if err := s.store.CreateBulk(ctx, lessons); err != nil {
		s.logger.Error("failed to persist lesson series",
			zap.Int64("user_id", userID),
			zap.String("group_id", lessons[0].GroupID.String()),
			zap.Error(err))
		return nil, &PersistenceError{Op: "create series", Err: err}
	}

	lessonsGenerated.Add(float64(len(lessons)))
	s.logger.Info("lesson series created",
		zap.Int64("user_id", userID),
		zap.String("group_id", lessons[0].GroupID.String()),
		zap.Int("slots", len(req.Slots)),
		zap.Int("total", len(lessons)))

	return lessons, nil
}

// GetLessons возвращает занятия пользователя в диапазоне [from, to)
func (s *LessonService) GetLessons(ctx context.Context, userID int64, from, to time.Time) ([]*model.Lesson, error) {
	lessons, err := s.store.GetByRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get lessons: %w", err)
	}
	return lessons, nil
}

// GetLesson возвращает одно занятие пользователя
func (s *LessonService) GetLesson(ctx context.Context, userID, id int64) (*model.Lesson, error) {
	lesson, err := s.store.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return nil, &NotFoundError{LessonID: id}
	}
	return lesson, nil
}

// BucketWeek раскладывает занятия недели weekStart по клеткам сетки
func (s *LessonService) BucketWeek(ctx context.Context, userID int64, weekStart time.Time) (*schedule.Grid, error) {
	lessons, err := s.store.GetByRange(ctx, userID, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return nil, fmt.Errorf("get lessons for grid: %w", err)
	}
	return schedule.BucketRange(s.logger, lessons, weekStart, s.hourFrom, s.hourTo), nil
}

// UpdateLesson меняет изменяемые поля одного занятия.
// Соседей по серии операция не касается.
func (s *LessonService) UpdateLesson(ctx context.Context, userID, id int64, patch *model.LessonPatch) (*model.Lesson, error) {
	lesson, err := s.store.UpdateFields(ctx, userID, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update lesson: %w", err)
	}
	if lesson == nil {
		return nil, &NotFoundError{LessonID: id}
	}

	s.logger.Info("lesson updated",
		zap.Int64("user_id", userID),
		zap.Int64("lesson_id", id))

	return lesson, nil
}

// DeleteLesson удаляет ровно одно занятие. Номера и времена соседей по серии
// не меняются: дырка в нумерации после удаления из середины — норма.
func (s *LessonService) DeleteLesson(ctx context.Context, userID, id int64) error {
	affected, err := s.store.DeleteByID(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	if affected == 0 {
		return &NotFoundError{LessonID: id}
	}

	s.logger.Info("lesson deleted",
		zap.Int64("user_id", userID),
		zap.Int64("lesson_id", id))

	return nil
}

// DeleteSeries удаляет серию, к которой принадлежит занятие id: при
// ScopeSlot — трек его слота, при ScopeGroup — всю bulk-заявку, прошлые и
// будущие занятия разом. Если хранилище убрало лишь часть набора,
// возвращается PartialDeletionError с данными для сверки.
func (s *LessonService) DeleteSeries(ctx context.Context, userID, id int64, scope SeriesScope) error {
	target, err := s.store.GetByID(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("get series target: %w", err)
	}
	if target == nil {
		return &NotFoundError{LessonID: id}
	}

	var key uuid.UUID
	var listIDs func(context.Context, int64, uuid.UUID) ([]int64, error)
	var deleteAll func(context.Context, int64, uuid.UUID) (int64, error)

	switch scope {
	case ScopeGroup:
		key = target.GroupID
		listIDs = s.store.ListIDsByGroup
		deleteAll = s.store.DeleteByGroup
	default:
		key = target.SeriesID
		listIDs = s.store.ListIDsBySeries
		deleteAll = s.store.DeleteBySeries
	}

	ids, err := listIDs(ctx, userID, key)
	if err != nil {
		return fmt.Errorf("list series members: %w", err)
	}

	deleted, err := deleteAll(ctx, userID, key)
	if err != nil {
		if deleted > 0 {
			remaining, listErr := listIDs(ctx, userID, key)
			if listErr != nil {
				s.logger.Error("failed to list series leftovers", zap.Error(listErr))
			}
			return &PartialDeletionError{SeriesKey: key, Deleted: deleted, Remaining: remaining, Err: err}
		}
		return &PersistenceError{Op: "delete series", Err: err}
	}

	if deleted != int64(len(ids)) {
		remaining, listErr := listIDs(ctx, userID, key)
		if listErr != nil {
			s.logger.Error("failed to list series leftovers", zap.Error(listErr))
		}
		if len(remaining) > 0 {
			return &PartialDeletionError{SeriesKey: key, Deleted: deleted, Remaining: remaining}
		}
	}

	seriesDeleted.WithLabelValues(string(scope)).Inc()
	s.logger.Info("lesson series deleted",
		zap.Int64("user_id", userID),
		zap.String("scope", string(scope)),
		zap.String("series_key", key.String()),
		zap.Int64("deleted", deleted))

	return nil
}
