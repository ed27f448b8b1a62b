package schedule

import (
	"time"

	"github.com/google/uuid"
	"github.com/nvoronova/tutor_crm/internal/model"
)

// DefaultOccurrences — количество занятий на один слот по умолчанию,
// один учебный год
const DefaultOccurrences = 52

// SeriesRequest описывает bulk-заявку на создание серии занятий
type SeriesRequest struct {
	StudentName       string
	ParentName        string
	StudentPhone      string
	ParentPhone       string
	CourseName        string
	FirstLessonNumber int
	Duration          int // минуты
	Slots             []TimeSlot
	StartDate         time.Time // понедельник якорной недели
	Occurrences       int       // 0 = DefaultOccurrences
}

// GenerateSeries разворачивает заявку в полный упорядоченный набор занятий.
// Каждый слот получает собственный SeriesID и собственную нумерацию
// first..first+count-1; сквозной перенумерации между слотами нет. Шаг между
// занятиями одного слота — ровно 7 календарных дней, поэтому поведение
// стабильно на границах месяцев и в високосные годы. Одинаковые слоты
// допустимы и дают две пересекающиеся серии.
// Результат идёт по неделям: неделя 0 слот A, неделя 0 слот B, неделя 1 слот A...
func GenerateSeries(req SeriesRequest) ([]*model.Lesson, error) {
	if len(req.Slots) == 0 {
		return nil, &ValidationError{Field: "slots", Msg: "at least one slot is required"}
	}
	if req.Duration <= 0 {
		return nil, &ValidationError{Field: "duration", Msg: "must be positive"}
	}
	if req.FirstLessonNumber < 1 {
		return nil, &ValidationError{Field: "first_lesson_number", Msg: "must be at least 1"}
	}
	if req.Occurrences < 0 {
		return nil, &ValidationError{Field: "occurrences", Msg: "must not be negative"}
	}
	for _, slot := range req.Slots {
		if err := slot.Validate(); err != nil {
			return nil, err
		}
	}

	count := req.Occurrences
	if count == 0 {
		count = DefaultOccurrences
	}

	// Время храним как "наивные" настенные часы: фиксированная зона UTC
	// используется только как контейнер без DST-сдвигов.
	anchor := asWallClock(req.StartDate)
	groupID := uuid.New()

	seriesIDs := make([]uuid.UUID, len(req.Slots))
	firstTimes := make([]time.Time, len(req.Slots))
	for i, slot := range req.Slots {
		seriesIDs[i] = uuid.New()
		firstTimes[i] = Resolve(slot, anchor)
	}

	lessons := make([]*model.Lesson, 0, count*len(req.Slots))
	for week := 0; week < count; week++ {
		for i := range req.Slots {
			lessons = append(lessons, &model.Lesson{
				SeriesID:     seriesIDs[i],
				GroupID:      groupID,
				StudentName:  req.StudentName,
				ParentName:   req.ParentName,
				StudentPhone: req.StudentPhone,
				ParentPhone:  req.ParentPhone,
				CourseName:   req.CourseName,
				LessonNumber: req.FirstLessonNumber + week,
				StartTime:    firstTimes[i].AddDate(0, 0, 7*week),
				Duration:     req.Duration,
				Description:  "",
			})
		}
	}

	return lessons, nil
}

// asWallClock переносит настенное время t в UTC без пересчёта зоны
func asWallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}
